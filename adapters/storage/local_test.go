package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndFetch(t *testing.T) {
	store, err := NewLocalUploadStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	obj, err := store.Put(ctx, "session-1/equipment", "Equipment List.xlsx", []byte("bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(obj.URL, "file://"))
	assert.True(t, strings.HasPrefix(obj.Path, "session-1/equipment/"))
	assert.True(t, strings.HasSuffix(obj.Path, "-Equipment List.xlsx"))

	data, err := store.Fetch(ctx, obj.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), data)

	other, err := store.Put(ctx, "session-1/equipment", "Equipment List.xlsx", []byte("other"))
	require.NoError(t, err)
	assert.NotEqual(t, obj.Path, other.Path)
}

func TestFetchRejectsForeignURLs(t *testing.T) {
	store, err := NewLocalUploadStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	outside := filepath.Join(t.TempDir(), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0644))

	for _, u := range []string{
		"https://example.com/file.xlsx",
		"file://" + filepath.ToSlash(outside),
		"file://" + filepath.ToSlash(store.basePath) + "/../escape.xlsx",
		"%zz",
	} {
		_, err := store.Fetch(ctx, u)
		assert.Error(t, err, u)
	}

	_, err = store.Fetch(ctx, "file://"+filepath.ToSlash(filepath.Join(store.basePath, "missing.xlsx")))
	assert.ErrorContains(t, err, "not found")
}

func TestDeleteAndCleanup(t *testing.T) {
	store, err := NewLocalUploadStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	old, err := store.Put(ctx, "ns", "old.csv", []byte("a"))
	require.NoError(t, err)
	fresh, err := store.Put(ctx, "ns", "fresh.csv", []byte("b"))
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(store.keyToPath(old.Path), past, past))

	removed, err := store.CleanupExpired(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.Fetch(ctx, old.URL)
	assert.Error(t, err)

	require.NoError(t, store.Delete(ctx, fresh.URL))
	require.NoError(t, store.Delete(ctx, fresh.URL))
	_, err = store.Fetch(ctx, fresh.URL)
	assert.Error(t, err)
}

func TestSanitizeSegment(t *testing.T) {
	assert.Equal(t, "a_b", sanitizeSegment("a/b"))
	assert.Equal(t, "_", sanitizeSegment(".."))
	assert.Equal(t, "_", sanitizeSegment("  "))
	assert.Equal(t, "abc/_/imports", sanitizeNamespace("/abc/../imports/"))
}
