package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Thumbnail download defaults
const (
	ThumbnailTimeout    = 10 * time.Second
	ThumbnailRetries    = 2
	ThumbnailPrefix     = "thumb_"
	ImageContentPrefix  = "image/"
	DefaultImageExt     = ".img"
	ThumbnailDirName    = "thumbnails"
	thumbnailPermission = 0644
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ThumbnailCache downloads thumbnails once and serves them from disk
type ThumbnailCache struct {
	dir    string
	client *resty.Client
	logger *slog.Logger
}

// NewThumbnailCache creates a cache rooted at dir
func NewThumbnailCache(dir string, logger *slog.Logger) *ThumbnailCache {
	if logger == nil {
		logger = slog.Default()
	}
	client := resty.New().
		SetTimeout(ThumbnailTimeout).
		SetRetryCount(ThumbnailRetries).
		SetRetryWaitTime(500 * time.Millisecond)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return r.StatusCode() >= 500 || r.StatusCode() == 429
	})
	return &ThumbnailCache{
		dir:    dir,
		client: client,
		logger: logger.With("component", "thumbnail_cache"),
	}
}

// Dir returns the cache directory
func (c *ThumbnailCache) Dir() string {
	return c.dir
}

// Fetch returns a local file holding the image at url, downloading it on
// first use. Responses that are not images are rejected.
func (c *ThumbnailCache) Fetch(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("empty thumbnail URL")
	}
	if path, ok := c.lookup(url); ok {
		return path, nil
	}

	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("GET request failed for %s: %w", url, err)
	}
	if resp.StatusCode() >= 400 {
		return "", fmt.Errorf("HTTP error %d for %s", resp.StatusCode(), url)
	}

	contentType := resp.Header().Get("Content-Type")
	if !strings.HasPrefix(contentType, ImageContentPrefix) {
		return "", fmt.Errorf("invalid content type %q, expected image", contentType)
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}
	path := filepath.Join(c.dir, ThumbnailPrefix+Key(url)+extensionFor(contentType))
	if err := os.WriteFile(path, resp.Body(), thumbnailPermission); err != nil {
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}
	c.logger.Debug("thumbnail cached", "url", url, "path", path)
	return path, nil
}

// Clear removes every cached thumbnail
func (c *ThumbnailCache) Clear() error {
	matches, err := filepath.Glob(filepath.Join(c.dir, ThumbnailPrefix+"*"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", m, err)
		}
	}
	return nil
}

// lookup finds a previously stored, non-empty file for url
func (c *ThumbnailCache) lookup(url string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(c.dir, ThumbnailPrefix+Key(url)+".*"))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	info, err := os.Stat(matches[0])
	if err != nil || info.Size() == 0 {
		_ = os.Remove(matches[0])
		return "", false
	}
	return matches[0], true
}

func extensionFor(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	if ext, ok := imageExtensions[strings.TrimSpace(mediaType)]; ok {
		return ext
	}
	return DefaultImageExt
}
