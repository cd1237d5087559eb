package config

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func testConfig() *Config {
	cfg := Default()
	cfg.DownloadDir = "/config/downloads"
	cfg.MaxParallel = 4
	cfg.DefaultResolution = "1080p"
	return cfg
}

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, nil)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
	if settings.defaults == nil {
		t.Error("Settings should fall back to built-in defaults")
	}
}

func TestDownloadDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, testConfig())

	// Test fallback value
	dir := settings.GetDownloadDirectory()
	if dir != "/config/downloads" {
		t.Errorf("Expected config download directory, got %s", dir)
	}

	// Test setting custom value
	customDir := "/custom/downloads"
	settings.SetDownloadDirectory(customDir)

	retrievedDir := settings.GetDownloadDirectory()
	if retrievedDir != customDir {
		t.Errorf("Expected download directory %s, got %s", customDir, retrievedDir)
	}
}

func TestMaxParallelDownloads(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, testConfig())

	// Test fallback value
	maxParallel := settings.GetMaxParallelDownloads()
	if maxParallel != 4 {
		t.Errorf("Expected config max parallel 4, got %d", maxParallel)
	}

	// Test setting custom value
	settings.SetMaxParallelDownloads(5)

	retrievedMax := settings.GetMaxParallelDownloads()
	if retrievedMax != 5 {
		t.Errorf("Expected max parallel 5, got %d", retrievedMax)
	}

	// Test boundary values
	settings.SetMaxParallelDownloads(0) // Should be clamped to 1
	if settings.GetMaxParallelDownloads() != 1 {
		t.Error("Max parallel should be clamped to minimum 1")
	}

	settings.SetMaxParallelDownloads(15) // Should be clamped to 10
	if settings.GetMaxParallelDownloads() != 10 {
		t.Error("Max parallel should be clamped to maximum 10")
	}
}

func TestDefaultResolution(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, testConfig())

	if got := settings.GetDefaultResolution(); got != "1080p" {
		t.Errorf("Expected config default resolution 1080p, got %s", got)
	}

	settings.SetDefaultResolution("480")
	if got := settings.GetDefaultResolution(); got != "480p" {
		t.Errorf("Expected normalized label 480p, got %s", got)
	}

	// Invalid labels are ignored
	settings.SetDefaultResolution("huge")
	if got := settings.GetDefaultResolution(); got != "480p" {
		t.Errorf("Invalid label should not replace 480p, got %s", got)
	}
}

func TestGetResolutionOptions(t *testing.T) {
	settings := NewSettings(test.NewApp(), nil)

	options := settings.GetResolutionOptions()
	if len(options) == 0 {
		t.Fatal("Expected resolution options")
	}
	if options[0] != "2160p" {
		t.Errorf("Options should be ordered from highest, got %s first", options[0])
	}
}

func TestAutoRevealOnComplete(t *testing.T) {
	settings := NewSettings(test.NewApp(), nil)

	if settings.GetAutoRevealOnComplete() != DefaultAutoRevealComplete {
		t.Error("Unexpected auto reveal default")
	}
	settings.SetAutoRevealOnComplete(true)
	if !settings.GetAutoRevealOnComplete() {
		t.Error("Auto reveal should be enabled")
	}
}

func TestReset(t *testing.T) {
	settings := NewSettings(test.NewApp(), testConfig())

	settings.SetDownloadDirectory("/custom/downloads")
	settings.SetMaxParallelDownloads(9)
	settings.SetDefaultResolution("360p")
	settings.SetAutoRevealOnComplete(true)

	settings.Reset()

	if got := settings.GetDownloadDirectory(); got != "/config/downloads" {
		t.Errorf("Expected config download directory after reset, got %s", got)
	}
	if got := settings.GetMaxParallelDownloads(); got != 4 {
		t.Errorf("Expected config parallelism 4 after reset, got %d", got)
	}
	if got := settings.GetDefaultResolution(); got != "1080p" {
		t.Errorf("Expected config resolution 1080p after reset, got %s", got)
	}
	if settings.GetAutoRevealOnComplete() {
		t.Error("Auto reveal should be off after reset")
	}
}
