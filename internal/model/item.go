package model

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Progress bounds
const (
	MinPercent = 0
	MaxPercent = 100
)

// QueueItem is one row of the download queue
type QueueItem struct {
	ID                 string
	URL                string // dedup key
	Title              string
	ThumbnailURL       string
	Duration           float64
	Formats            []Format
	Resolutions        []string // highest first
	SelectedResolution string
	Status             ItemStatus
	Percent            int     // 0 to 100
	Speed              float64 // bytes per second while downloading
	ETASec             int     // ETA in seconds, -1 if unknown
	LastError          string  // failure reason of the last attempt, empty for user aborts
	OutputDir          string
	OutputFilename     string
	AddedAt            time.Time
	StartedAt          time.Time
	FinishedAt         time.Time
}

// NewQueueItem builds a Pending item from provider metadata. The default
// resolution is used when the video offers it, otherwise the highest one.
func NewQueueItem(id string, info VideoInfo, defaultResolution string) *QueueItem {
	resolutions := Resolutions(info.Formats)
	item := &QueueItem{
		ID:           id,
		URL:          info.URL,
		Title:        info.Title,
		ThumbnailURL: info.ThumbnailURL,
		Duration:     info.Duration,
		Formats:      slices.Clone(info.Formats),
		Resolutions:  resolutions,
		Status:       StatusPending,
		ETASec:       -1,
		AddedAt:      time.Now(),
	}
	switch {
	case defaultResolution != "" && slices.Contains(resolutions, defaultResolution):
		item.SelectedResolution = defaultResolution
	case len(resolutions) > 0:
		item.SelectedResolution = resolutions[0]
	}
	return item
}

// Clone returns a copy safe to hand out to other goroutines
func (qi *QueueItem) Clone() QueueItem {
	c := *qi
	c.Formats = slices.Clone(qi.Formats)
	c.Resolutions = slices.Clone(qi.Resolutions)
	return c
}

// HasResolution reports whether label is one of the item's resolutions
func (qi *QueueItem) HasResolution(label string) bool {
	return slices.Contains(qi.Resolutions, label)
}

// EffectiveResolution returns the selected resolution or the highest available
func (qi *QueueItem) EffectiveResolution() string {
	if qi.SelectedResolution != "" {
		return qi.SelectedResolution
	}
	if len(qi.Resolutions) > 0 {
		return qi.Resolutions[0]
	}
	return ""
}

// GetETAString returns ETA formatted as hh:mm:ss, or "—" if unknown
func (qi *QueueItem) GetETAString() string {
	if qi.ETASec <= 0 {
		return "—"
	}

	hours := qi.ETASec / 3600
	minutes := (qi.ETASec % 3600) / 60
	seconds := qi.ETASec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// GetSpeedString returns the transfer rate in human readable form, or "" when idle
func (qi *QueueItem) GetSpeedString() string {
	if qi.Speed <= 0 {
		return ""
	}
	return humanize.Bytes(uint64(qi.Speed)) + "/s"
}

// GetDisplayTitle returns title, output filename, or URL in order of preference
func (qi *QueueItem) GetDisplayTitle() string {
	if qi.Title != "" && !strings.HasPrefix(qi.Title, "http") {
		return qi.Title
	}
	if qi.OutputFilename != "" {
		name := qi.OutputFilename
		if idx := strings.LastIndex(name, "."); idx > 0 {
			name = name[:idx]
		}
		return name
	}
	return qi.URL
}
