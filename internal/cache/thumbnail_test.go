package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThumbnailCache_Fetch(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpegdata"))
	}))
	defer server.Close()

	c := NewThumbnailCache(t.TempDir(), nil)
	url := server.URL + "/thumb.jpg"

	path, err := c.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".jpg"))
	assert.True(t, strings.HasPrefix(filepath.Base(path), ThumbnailPrefix+Key(url)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpegdata", string(data))

	again, err := c.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, int32(1), hits.Load())
}

func TestThumbnailCache_RejectsNonImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	c := NewThumbnailCache(t.TempDir(), nil)
	_, err := c.Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestThumbnailCache_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewThumbnailCache(t.TempDir(), nil)
	_, err := c.Fetch(context.Background(), server.URL)
	assert.Error(t, err)

	_, err = c.Fetch(context.Background(), "")
	assert.Error(t, err)
}

func TestThumbnailCache_Clear(t *testing.T) {
	dir := t.TempDir()
	c := NewThumbnailCache(dir, nil)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ThumbnailPrefix+"a.png"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0644))

	require.NoError(t, c.Clear())

	_, err := os.Stat(filepath.Join(dir, ThumbnailPrefix+"a.png"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "keep.txt"))
	assert.NoError(t, err)
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", extensionFor("image/jpeg"))
	assert.Equal(t, ".webp", extensionFor("image/webp; charset=binary"))
	assert.Equal(t, DefaultImageExt, extensionFor("image/x-unknown"))
}

func TestStore_OpenClear(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, 0, nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Info.Put("link", sampleInfos()))
	require.NoError(t, s.Clear())

	_, ok := s.Info.Get("link")
	assert.False(t, ok)
	assert.Equal(t, filepath.Join(dir, ThumbnailDirName), s.Thumbnails.Dir())
}
