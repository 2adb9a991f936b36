package parser

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/o2t/o2terrors"
)

func TestParseWithOptionsFilePath(t *testing.T) {
	res, err := ParseWithOptions(WithFilePath(usersJSON))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Stats.PathCount)
}

func TestParseWithOptionsBytesAndSourceName(t *testing.T) {
	data, err := os.ReadFile(usersYAML)
	require.NoError(t, err)

	res, err := ParseWithOptions(WithBytes(data), WithSourceName("snapshot"))
	require.NoError(t, err)
	assert.Equal(t, "snapshot", res.SourcePath)
}

func TestParseWithOptionsReaderAndLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	_, err := ParseWithOptions(
		WithReader(strings.NewReader(`{"paths":{"/a":{"get":{}}}}`)),
		WithLogger(logger),
	)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "parsed document")
	assert.Contains(t, buf.String(), "operations=1")
}

func TestParseWithOptionsValidation(t *testing.T) {
	_, err := ParseWithOptions()
	require.Error(t, err)
	assert.True(t, errors.Is(err, o2terrors.ErrConfig))

	_, err = ParseWithOptions(WithFilePath(usersJSON), WithBytes([]byte("{}")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")

	_, err = ParseWithOptions(WithFilePath(usersJSON), WithTimeout(-1))
	require.Error(t, err)

	_, err = ParseWithOptions(WithFilePath(usersJSON), WithMaxSize(-1))
	require.Error(t, err)
}

func TestNopLoggerWith(t *testing.T) {
	var l Logger = NopLogger{}
	_, ok := l.With("k", "v").(NopLogger)
	assert.True(t, ok)
	assert.Equal(t, NopLogger{}, OrNop(nil))
}

func TestSlogAdapterWith(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil))).With("component", "parser")
	l.Info("hello", "n", 1)
	l.Debug("hidden")
	out := buf.String()
	assert.Contains(t, out, "component=parser")
	assert.Contains(t, out, "n=1")
	assert.NotContains(t, out, "hidden")
}
