package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/katalvlaran/tbmodels/internal/logging"
	"github.com/stretchr/testify/require"
)

// TestParseLevel accepts slog level names in any case.
func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":  slog.LevelDebug,
		"INFO":   slog.LevelInfo,
		" warn ": slog.LevelWarn,
		"error":  slog.LevelError,
		"info+2": slog.LevelInfo + 2,
	}
	for in, want := range cases {
		got, err := logging.ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := logging.ParseLevel("loud")
	require.ErrorIs(t, err, logging.ErrLevel)
}

// TestNew checks format selection and level filtering.
func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.New(&buf, "warn", "json")
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown", "terms", 3)
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)
	require.Contains(t, buf.String(), `"terms":3`)

	buf.Reset()
	l, err = logging.New(&buf, "debug", "text")
	require.NoError(t, err)
	l.Debug("sweep", "points", 5)
	require.Contains(t, buf.String(), "msg=sweep points=5")

	_, err = logging.New(&buf, "info", "xml")
	require.ErrorIs(t, err, logging.ErrFormat)
	_, err = logging.New(&buf, "nope", "text")
	require.ErrorIs(t, err, logging.ErrLevel)

	logging.Discard().Error("dropped")
}
