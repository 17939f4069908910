package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "json", zerolog.WarnLevel)
	l.Info().Msg("hidden")
	l.Warn().Int("station", 3).Msg("above surface")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "above surface", entry["message"])
	assert.Equal(t, 3.0, entry["station"])
}

func TestNewWriterConsole(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "console", zerolog.DebugLevel)
	l.Debug().Msg("batch evaluated")
	assert.Contains(t, buf.String(), "batch evaluated")
}

func TestNew(t *testing.T) {
	_, _, err := New(Config{Level: "loud"})
	assert.ErrorContains(t, err, "invalid log level")

	path := filepath.Join(t.TempDir(), "disloc.log")
	l, closer, err := New(Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)
	l.Info().Msg("written")
	require.NoError(t, closer.Close())

	_, closer, err = New(Config{})
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
}
