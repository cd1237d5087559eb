package ui

import (
	"errors"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-queue/internal/config"
)

func newTestSettingsDialog(t *testing.T, clearCache func() error) (*SettingsDialog, *config.Settings, *int) {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)

	cfg := config.Default()
	cfg.DownloadDir = "/config/downloads"
	cfg.MaxParallel = 2
	cfg.DefaultResolution = "720p"
	settings := config.NewSettings(app, cfg)

	saved := 0
	sd := NewSettingsDialog(settings, NewLocalization(), test.NewWindow(nil), func() { saved++ }, clearCache)
	sd.loadCurrentSettings()
	return sd, settings, &saved
}

func TestSettingsDialog_Save(t *testing.T) {
	sd, settings, saved := newTestSettingsDialog(t, nil)

	assert.Equal(t, "/config/downloads", sd.downloadDirEntry.Text)
	assert.Equal(t, "2", sd.maxParallelSel.Selected)

	sd.downloadDirEntry.SetText("/tmp/videos")
	sd.maxParallelSel.SetSelected("5")
	sd.resolutionSel.SetSelected("360p")
	sd.autoRevealCheck.SetChecked(true)

	sd.onSave(false)
	assert.Equal(t, 0, *saved)
	assert.Equal(t, "/config/downloads", settings.GetDownloadDirectory())

	sd.onSave(true)
	assert.Equal(t, 1, *saved)
	assert.Equal(t, "/tmp/videos", settings.GetDownloadDirectory())
	assert.Equal(t, 5, settings.GetMaxParallelDownloads())
	assert.Equal(t, "360p", settings.GetDefaultResolution())
	assert.True(t, settings.GetAutoRevealOnComplete())
}

func TestSettingsDialog_Reset(t *testing.T) {
	sd, settings, saved := newTestSettingsDialog(t, nil)
	settings.SetDownloadDirectory("/tmp/videos")
	settings.SetMaxParallelDownloads(6)
	sd.loadCurrentSettings()

	sd.resetConfirmed(false)
	assert.Equal(t, "/tmp/videos", settings.GetDownloadDirectory())
	assert.Equal(t, 0, *saved)

	sd.resetConfirmed(true)
	assert.Equal(t, 1, *saved)
	assert.Equal(t, "/config/downloads", settings.GetDownloadDirectory())
	assert.Equal(t, 2, settings.GetMaxParallelDownloads())
	assert.Equal(t, "/config/downloads", sd.downloadDirEntry.Text)
	assert.Equal(t, "2", sd.maxParallelSel.Selected)
}

func TestSettingsDialog_ClearCache(t *testing.T) {
	calls := 0
	sd, _, _ := newTestSettingsDialog(t, func() error {
		calls++
		return nil
	})

	sd.clearCacheConfirmed(false)
	assert.Equal(t, 0, calls)

	sd.clearCacheConfirmed(true)
	assert.Equal(t, 1, calls)
	require.NotNil(t, sd.window.Canvas().Overlays().Top())
}

func TestSettingsDialog_ClearCacheError(t *testing.T) {
	sd, _, _ := newTestSettingsDialog(t, func() error { return errors.New("disk full") })

	sd.clearCacheConfirmed(true)
	require.NotNil(t, sd.window.Canvas().Overlays().Top())
}
