package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePasswordFormat(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Str0ng!pw", false},
		{"minimal length", "Aa1!xx", false},
		{"too short", "Aa1!x", true},
		{"no uppercase", "str0ng!pw", true},
		{"no lowercase", "STR0NG!PW", true},
		{"no digit", "Strong!pw", true},
		{"no special", "Str0ngpw", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordFormat(tt.password)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrorInvalidPasswordFormat)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
