package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newJSONLogger mirrors the App wiring: a JSON handler, debug level enabled
// so every method under test produces a record.
func newJSONLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

// records decodes each JSON line the logger wrote.
func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestSlogLogger_LevelsAndAttributes(t *testing.T) {
	logger, buf := newJSONLogger(t)
	ctx := context.Background()

	logger.Debug(ctx, "probing biometric gate", "hardware", true)
	logger.Info(ctx, "Starting HTTP server", "address", ":8080")
	logger.Warn(ctx, "could not restore session")
	logger.Error(ctx, "db init error", "dsn", "postgres://...")

	recs := records(t, buf)
	require.Len(t, recs, 4)

	assert.Equal(t, "DEBUG", recs[0]["level"])
	assert.Equal(t, true, recs[0]["hardware"])

	assert.Equal(t, "INFO", recs[1]["level"])
	assert.Equal(t, "Starting HTTP server", recs[1]["msg"])
	assert.Equal(t, ":8080", recs[1]["address"])

	assert.Equal(t, "WARN", recs[2]["level"])
	assert.Equal(t, "ERROR", recs[3]["level"])
}

func TestSlogLogger_WithCarriesModuleLabel(t *testing.T) {
	logger, buf := newJSONLogger(t)
	ctx := context.Background()

	child := logger.With("module", "http_server")
	child.Info(ctx, "Stopping HTTP server...")

	recs := records(t, buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "http_server", recs[0]["module"])
	assert.Equal(t, "Stopping HTTP server...", recs[0]["msg"])
}

func TestSlogLogger_WithChildDoesNotMutateParent(t *testing.T) {
	logger, buf := newJSONLogger(t)
	ctx := context.Background()

	_ = logger.With("module", "securestore")
	logger.Info(ctx, "plain record")

	recs := records(t, buf)
	require.Len(t, recs, 1)
	_, hasModule := recs[0]["module"]
	assert.False(t, hasModule, "parent logger must stay label-free")
}
