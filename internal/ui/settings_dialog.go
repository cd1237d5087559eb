package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-queue/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()
	clearCache   func() error

	// UI components
	downloadDirEntry *widget.Entry
	maxParallelSel   *widget.Select
	resolutionSel    *widget.Select
	autoRevealCheck  *widget.Check
}

// NewSettingsDialog creates a new settings dialog. onSaved runs after the
// values were written to preferences. The clear cache button is hidden when
// clearCache is nil.
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func(), clearCache func() error) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
		clearCache:   clearCache,
	}

	sd.createUI()
	return sd
}

// ShowSettingsDialog creates and shows the dialog
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func(), clearCache func() error) {
	NewSettingsDialog(settings, localization, window, onSaved, clearCache).Show()
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(sd.localization.GetText(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	parallelOptions := make([]string, 0, config.MaxParallel)
	for i := config.MinParallel; i <= config.MaxParallel; i++ {
		parallelOptions = append(parallelOptions, strconv.Itoa(i))
	}
	sd.maxParallelSel = widget.NewSelect(parallelOptions, nil)
	sd.resolutionSel = widget.NewSelect(sd.settings.GetResolutionOptions(), nil)
	sd.autoRevealCheck = widget.NewCheck(sd.localization.GetText(KeyAutoReveal), nil)

	form := widget.NewForm(
		widget.NewFormItem(sd.localization.GetText(KeyDownloadDirectory), downloadDirRow),
		widget.NewFormItem(sd.localization.GetText(KeyMaxParallel), sd.maxParallelSel),
		widget.NewFormItem(sd.localization.GetText(KeyDefaultResolution), sd.resolutionSel),
		widget.NewFormItem("", sd.autoRevealCheck),
	)

	resetBtn := widget.NewButton(sd.localization.GetText(KeyResetSettings), func() {
		dialog.ShowConfirm(sd.localization.GetText(KeyResetSettings), sd.localization.GetText(KeyResetConfirm), sd.resetConfirmed, sd.window)
	})
	maintenance := container.NewHBox(resetBtn)
	if sd.clearCache != nil {
		clearCacheBtn := widget.NewButton(sd.localization.GetText(KeyClearCache), func() {
			dialog.ShowConfirm(sd.localization.GetText(KeyClearCache), sd.localization.GetText(KeyClearCacheConfirm), sd.clearCacheConfirmed, sd.window)
		})
		maintenance.Add(clearCacheBtn)
	}
	content := container.NewVBox(form, widget.NewSeparator(), maintenance)

	sd.dialog = dialog.NewCustomConfirm(
		sd.localization.GetText(KeySettings),
		sd.localization.GetText(KeySave),
		sd.localization.GetText(KeyCancel),
		content,
		sd.onSave,
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(SettingsWidth, SettingsHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.maxParallelSel.SetSelected(strconv.Itoa(sd.settings.GetMaxParallelDownloads()))
	sd.resolutionSel.SetSelected(sd.settings.GetDefaultResolution())
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()
	if sd.onSaved != nil {
		sd.onSaved()
	}
}

// apply writes the form values to preferences
func (sd *SettingsDialog) apply() {
	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}
	if n, err := strconv.Atoi(sd.maxParallelSel.Selected); err == nil {
		sd.settings.SetMaxParallelDownloads(n)
	}
	if sd.resolutionSel.Selected != "" {
		sd.settings.SetDefaultResolution(sd.resolutionSel.Selected)
	}
	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)
}

// resetConfirmed drops the stored preferences and reloads the form
func (sd *SettingsDialog) resetConfirmed(confirmed bool) {
	if !confirmed {
		return
	}
	sd.settings.Reset()
	sd.loadCurrentSettings()
	if sd.onSaved != nil {
		sd.onSaved()
	}
}

// clearCacheConfirmed wipes the metadata and thumbnail cache
func (sd *SettingsDialog) clearCacheConfirmed(confirmed bool) {
	if !confirmed || sd.clearCache == nil {
		return
	}
	if err := sd.clearCache(); err != nil {
		dialog.ShowError(err, sd.window)
		return
	}
	dialog.ShowInformation(sd.localization.GetText(KeyClearCache), sd.localization.GetText(KeyCacheCleared), sd.window)
}
