package cache

import (
	"crypto/md5"
	"encoding/hex"
)

// Key returns the cache key for a URL
func Key(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}
