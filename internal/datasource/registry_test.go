package datasource

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry(testLogger())

	_, err := r.Get("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSource))
}

func TestRegistryRemoveUnknownIsNoop(t *testing.T) {
	r := NewRegistry(testLogger())
	assert.NoError(t, r.Remove("nope"))
}

func TestNewRejectsUnsupportedType(t *testing.T) {
	_, err := New(t.Context(), "mongodb", ConnParams{Host: "localhost"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}
