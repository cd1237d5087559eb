// Package cache memoizes video metadata in SQLite and thumbnails on disk,
// both keyed by a hash of the source URL.
package cache
