package cache

import (
	"errors"
	"log/slog"
	"path/filepath"
	"time"
)

// Store bundles the info and thumbnail caches under one directory
type Store struct {
	Info       *InfoCache
	Thumbnails *ThumbnailCache
}

// Open opens both caches below dir
func Open(dir string, ttl time.Duration, logger *slog.Logger) (*Store, error) {
	info, err := OpenInfoCache(filepath.Join(dir, InfoDBName), ttl, logger)
	if err != nil {
		return nil, err
	}
	return &Store{
		Info:       info,
		Thumbnails: NewThumbnailCache(filepath.Join(dir, ThumbnailDirName), logger),
	}, nil
}

// Clear empties both caches
func (s *Store) Clear() error {
	return errors.Join(s.Info.Clear(), s.Thumbnails.Clear())
}

// Close releases the info database
func (s *Store) Close() error {
	return s.Info.Close()
}
