package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/yt-queue/internal/model"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir        = "download_directory"
	KeyMaxParallel        = "max_parallel_downloads"
	KeyDefaultResolution  = "default_resolution"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
)

// Parallelism bounds
const (
	MinParallel = 1
	MaxParallel = 10
)

// DefaultAutoRevealComplete controls revealing finished files in the file manager
const DefaultAutoRevealComplete = false

// Settings persists user choices in fyne preferences. Unset keys fall back
// to the loaded Config.
type Settings struct {
	app      fyne.App
	defaults *Config
}

// NewSettings creates a new settings manager. A nil cfg uses built-in defaults.
func NewSettings(app fyne.App, cfg *Config) *Settings {
	if cfg == nil {
		cfg = Default()
	}
	return &Settings{app: app, defaults: cfg}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		s.SetDownloadDirectory(s.defaults.DownloadDir)
		return s.defaults.DownloadDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelDownloads(s.defaults.MaxParallel)
		return clampParallel(s.defaults.MaxParallel)
	}
	return clampParallel(value)
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	s.app.Preferences().SetInt(KeyMaxParallel, clampParallel(count))
}

// GetDefaultResolution returns the resolution preselected for new items
func (s *Settings) GetDefaultResolution() string {
	label := s.app.Preferences().String(KeyDefaultResolution)
	if _, err := model.ParseResolution(label); err != nil {
		s.SetDefaultResolution(s.defaults.DefaultResolution)
		return s.defaults.DefaultResolution
	}
	return label
}

// SetDefaultResolution sets the default resolution. Invalid labels are ignored.
func (s *Settings) SetDefaultResolution(label string) {
	height, err := model.ParseResolution(label)
	if err != nil {
		return
	}
	s.app.Preferences().SetString(KeyDefaultResolution, model.ResolutionLabel(height))
}

// GetResolutionOptions returns the labels offered as a default resolution
func (s *Settings) GetResolutionOptions() []string {
	return []string{"2160p", "1440p", "1080p", "720p", "480p", "360p", "240p", "144p"}
}

// GetAutoRevealOnComplete returns whether to auto-reveal completed downloads
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to auto-reveal completed downloads
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// Reset forgets every stored preference so the config values apply again
func (s *Settings) Reset() {
	prefs := s.app.Preferences()
	for _, key := range []string{KeyDownloadDir, KeyMaxParallel, KeyDefaultResolution, KeyAutoRevealComplete} {
		prefs.RemoveValue(key)
	}
}

func clampParallel(n int) int {
	return min(max(n, MinParallel), MaxParallel)
}
