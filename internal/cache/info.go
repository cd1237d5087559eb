package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ytget/yt-queue/internal/model"
)

// ErrMiss is returned when a link has no usable cache entry
var ErrMiss = errors.New("cache miss")

// InfoDBName is the SQLite file name inside the cache directory
const InfoDBName = "info.db"

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// InfoEntry is one memoized provider result
type InfoEntry struct {
	CacheKey  string    `gorm:"primaryKey"`
	URL       string    `gorm:"not null"`
	Payload   string    `gorm:"not null"` // JSON encoded []model.VideoInfo
	CreatedAt time.Time `gorm:"index"`
}

// TableName overrides the table name
func (InfoEntry) TableName() string {
	return "info_cache"
}

// InfoCache stores provider results in SQLite
type InfoCache struct {
	db     *gorm.DB
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// OpenInfoCache opens (or creates) the cache database at path. A zero ttl
// keeps entries until cleared.
func OpenInfoCache(path string, ttl time.Duration, log *slog.Logger) (*InfoCache, error) {
	if log == nil {
		log = slog.Default()
	}

	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open info cache: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// One connection keeps an in-memory database shared
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&InfoEntry{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate info cache: %w", err)
	}

	return &InfoCache{
		db:     db,
		ttl:    ttl,
		now:    time.Now,
		logger: log.With("component", "info_cache"),
	}, nil
}

// Lookup returns the cached records for a link. Expired or unreadable
// entries are deleted and reported as ErrMiss.
func (c *InfoCache) Lookup(link string) ([]model.VideoInfo, error) {
	var entry InfoEntry
	err := c.db.Where("cache_key = ?", Key(link)).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to read info cache: %w", err)
	}

	if c.ttl > 0 && c.now().Sub(entry.CreatedAt) > c.ttl {
		c.evict(entry.CacheKey, "expired")
		return nil, ErrMiss
	}

	var infos []model.VideoInfo
	if err := json.Unmarshal([]byte(entry.Payload), &infos); err != nil || len(infos) == 0 {
		c.evict(entry.CacheKey, "corrupted")
		return nil, ErrMiss
	}
	return infos, nil
}

// Get implements platform.InfoCache. Any failure counts as a miss.
func (c *InfoCache) Get(link string) ([]model.VideoInfo, bool) {
	infos, err := c.Lookup(link)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.logger.Warn("info cache lookup failed", "link", link, "error", err)
		}
		return nil, false
	}
	return infos, true
}

// Put stores the records for a link, replacing any previous entry
func (c *InfoCache) Put(link string, infos []model.VideoInfo) error {
	payload, err := json.Marshal(infos)
	if err != nil {
		return fmt.Errorf("failed to encode info: %w", err)
	}
	entry := InfoEntry{
		CacheKey:  Key(link),
		URL:       link,
		Payload:   string(payload),
		CreatedAt: c.now(),
	}
	return c.db.Save(&entry).Error
}

// Delete removes the entry for a link. Missing entries are not an error.
func (c *InfoCache) Delete(link string) error {
	return c.db.Where("cache_key = ?", Key(link)).Delete(&InfoEntry{}).Error
}

// Count returns the number of stored entries
func (c *InfoCache) Count() (int64, error) {
	var n int64
	err := c.db.Model(&InfoEntry{}).Count(&n).Error
	return n, err
}

// Clear removes every entry
func (c *InfoCache) Clear() error {
	if err := c.db.Where("1 = 1").Delete(&InfoEntry{}).Error; err != nil {
		return fmt.Errorf("failed to clear info cache: %w", err)
	}
	return nil
}

// Close releases the database
func (c *InfoCache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (c *InfoCache) evict(key, reason string) {
	c.logger.Debug("evicting info cache entry", "key", key, "reason", reason)
	if err := c.db.Where("cache_key = ?", key).Delete(&InfoEntry{}).Error; err != nil {
		c.logger.Warn("failed to evict info cache entry", "key", key, "error", err)
	}
}
