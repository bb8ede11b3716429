package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "keeps own flag with separate value",
			args:    []string{"-a", "http://127.0.0.1:8080", "-d", "/tmp/grana"},
			allowed: []string{"-a"},
			want:    []string{"-a", "http://127.0.0.1:8080"},
		},
		{
			name:    "keeps equals form",
			args:    []string{"--config=grana.json", "-d", "/tmp/grana"},
			allowed: []string{"-c", "--config"},
			want:    []string{"--config=grana.json"},
		},
		{
			name:    "drops someone else's flags entirely",
			args:    []string{"-i", "10", "--verbose=1", "positional"},
			allowed: []string{"-a", "-d"},
			want:    []string{},
		},
		{
			name:    "multiple allowed flags keep their order",
			args:    []string{"-d", "/srv/grana", "-i", "10", "-a", ":9090"},
			allowed: []string{"-a", "-d"},
			want:    []string{"-d", "/srv/grana", "-a", ":9090"},
		},
		{
			name:    "flag at the end keeps no value",
			args:    []string{"-d"},
			allowed: []string{"-d"},
			want:    []string{"-d"},
		},
		{
			name:    "next dash token is not consumed as a value",
			args:    []string{"-d", "-a", ":9090"},
			allowed: []string{"-d"},
			want:    []string{"-d"},
		},
		{
			name:    "repeated flag survives twice",
			args:    []string{"-c", "one.json", "-c", "two.json"},
			allowed: []string{"-c"},
			want:    []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:    "equals value may itself start with dashes",
			args:    []string{"--config=--odd.json"},
			allowed: []string{"--config"},
			want:    []string{"--config=--odd.json"},
		},
		{
			name:    "empty input",
			args:    []string{},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short form", func(t *testing.T) {
		os.Args = []string{"grana", "-c", "/etc/grana/client.json"}
		assert.Equal(t, "/etc/grana/client.json", JsonConfigFlags())
	})

	t.Run("long form", func(t *testing.T) {
		os.Args = []string{"grana", "-config", "/etc/grana/server.json"}
		assert.Equal(t, "/etc/grana/server.json", JsonConfigFlags())
	})

	t.Run("foreign flags ignored", func(t *testing.T) {
		os.Args = []string{"grana", "-a", ":8080", "-i", "10"}
		assert.Empty(t, JsonConfigFlags())
	})

	t.Run("last occurrence wins", func(t *testing.T) {
		os.Args = []string{"grana", "-c", "/one.json", "-config", "/two.json"}
		assert.Equal(t, "/two.json", JsonConfigFlags())
	})
}
