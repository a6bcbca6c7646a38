package cache

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uku3lig/uklient/structs"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	base := t.TempDir()
	c, err := NewAt(filepath.Join(base, ".cache"), filepath.Join(base, ".tmp"), "uklient/test")
	require.NoError(t, err)
	return c
}

func TestEnsureCachedIdempotent(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			hits.Add(1)
		}
		_, _ = w.Write([]byte("archive contents"))
	}))
	defer srv.Close()

	c := newTestCache(t)
	file := structs.ModrinthFile{Url: srv.URL + "/pack.mrpack", Filename: "pack.mrpack", Size: 16}

	first, err := c.EnsureCached(file)
	require.NoError(t, err)
	assert.FileExists(t, first)

	second, err := c.EnsureCached(file)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), hits.Load(), "second call must be a pure cache hit")
}

func TestEnsureCachedDownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestCache(t)
	_, err := c.EnsureCached(structs.ModrinthFile{Url: srv.URL + "/pack.mrpack", Filename: "pack.mrpack"})
	require.Error(t, err)

	exists, statErr := os.Stat(filepath.Join(c.Dir, "pack.mrpack"))
	assert.True(t, os.IsNotExist(statErr), "failed download must not leave a cache entry, got %v", exists)
}

func writeTestArchive(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	index, err := w.Create(IndexName)
	require.NoError(t, err)
	_, err = index.Write([]byte(`{"formatVersion": 1, "game": "minecraft", "versionId": "1.4", "name": "UkuPvP", "files": [], "dependencies": {"minecraft": "1.19.3"}}`))
	require.NoError(t, err)

	override, err := w.Create("overrides/config/some.toml")
	require.NoError(t, err)
	_, err = override.Write([]byte("key = true"))
	require.NoError(t, err)

	require.NoError(t, w.Close())
}

func TestExtractAndReadIndex(t *testing.T) {
	c := newTestCache(t)

	archive := filepath.Join(t.TempDir(), "pack.mrpack")
	writeTestArchive(t, archive)

	scratch, err := c.Extract(context.Background(), archive, "UkuPvP")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(scratch, "overrides", "config", "some.toml"))

	index, err := ReadIndex(scratch)
	require.NoError(t, err)
	assert.Equal(t, "UkuPvP", index.Name)
	assert.Equal(t, "1.19.3", index.Dependencies["minecraft"])
}

func TestExtractRecreatesScratchDir(t *testing.T) {
	c := newTestCache(t)

	archive := filepath.Join(t.TempDir(), "pack.mrpack")
	writeTestArchive(t, archive)

	scratch, err := c.Extract(context.Background(), archive, "UkuPvP")
	require.NoError(t, err)

	stale := filepath.Join(scratch, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	_, err = c.Extract(context.Background(), archive, "UkuPvP")
	require.NoError(t, err)
	assert.NoFileExists(t, stale, "previous scratch contents must be wiped")
}

func TestExtractMalformedArchive(t *testing.T) {
	c := newTestCache(t)

	archive := filepath.Join(t.TempDir(), "garbage.mrpack")
	require.NoError(t, os.WriteFile(archive, []byte("this is not a zip"), 0644))

	_, err := c.Extract(context.Background(), archive, "UkuPvP")
	assert.ErrorIs(t, err, ErrZip)
}
