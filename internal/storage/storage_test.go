package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStoreRoundTrip(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	data := []byte("resume bytes")
	require.NoError(t, store.Store(ctx, "user-1/resume.pdf", data))

	got, err := store.Download(ctx, "user-1/resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestFSStoreMissingBlob(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Download(context.Background(), "nope/missing.pdf")
	assert.Error(t, err)
}

func TestFSStoreRejectsTraversal(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, locator := range []string{"", "..", "../etc/passwd", "a/../../b"} {
		_, err := store.Download(ctx, locator)
		assert.Error(t, err, "locator %q must be rejected", locator)

		err = store.Store(ctx, locator, []byte("x"))
		assert.Error(t, err, "locator %q must be rejected", locator)
	}
}
