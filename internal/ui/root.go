package ui

import (
	"context"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/atotto/clipboard"

	"github.com/ytget/yt-queue/internal/config"
	"github.com/ytget/yt-queue/internal/download"
	"github.com/ytget/yt-queue/internal/model"
	"github.com/ytget/yt-queue/internal/platform"
)

// ThumbnailFetcher downloads a thumbnail and returns its local path
type ThumbnailFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// CacheClearer wipes the on-disk metadata and thumbnail cache
type CacheClearer interface {
	Clear() error
}

// sortChoice is one entry of the sort selector
type sortChoice struct {
	labelKey  string
	key       download.SortKey // empty restores the insertion order
	ascending bool
}

var sortChoices = []sortChoice{
	{labelKey: KeySortOriginal},
	{labelKey: KeySortTitleAsc, key: download.SortByTitle, ascending: true},
	{labelKey: KeySortTitleDesc, key: download.SortByTitle},
	{labelKey: KeySortStatusAsc, key: download.SortByStatus, ascending: true},
	{labelKey: KeySortStatusDesc, key: download.SortByStatus},
}

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	queue        download.Queue
	settings     *config.Settings
	localization *Localization
	thumbs       ThumbnailFetcher
	cache        CacheClearer
	logger       *slog.Logger

	linksEntry     *widget.Entry
	fetchBtn       *widget.Button
	pasteBtn       *widget.Button
	downloadAllBtn *widget.Button
	cancelAllBtn   *widget.Button
	clearBtn       *widget.Button
	sortSelect     *widget.Select
	activeLabel    *widget.Label
	list           *widget.List

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite

	// Touched on the fyne goroutine only
	state        download.State
	thumbPaths   map[string]string
	thumbPending map[string]bool
}

// NewRootUI creates the main window content and subscribes to queue updates.
// thumbs may be nil, rows then keep the placeholder icon. A nil cache hides
// the clear cache action.
func NewRootUI(window fyne.Window, app fyne.App, queue download.Queue, settings *config.Settings, localization *Localization, thumbs ThumbnailFetcher, cache CacheClearer, logger *slog.Logger) *RootUI {
	if logger == nil {
		logger = slog.Default()
	}
	ui := &RootUI{
		window:       window,
		app:          app,
		queue:        queue,
		settings:     settings,
		localization: localization,
		thumbs:       thumbs,
		cache:        cache,
		logger:       logger.With("component", "ui"),
		thumbPaths:   make(map[string]string),
		thumbPending: make(map[string]bool),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()

	queue.SetUpdateCallback(func(s download.State) {
		fyne.Do(func() { ui.applyState(s) })
	})
	queue.SetFinishedCallback(func(item model.QueueItem) {
		fyne.Do(func() { ui.onItemFinished(item) })
	})
	queue.SetFetchDoneCallback(func(summary download.FetchSummary) {
		fyne.Do(func() { ui.onFetchDone(summary) })
	})

	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.linksEntry = widget.NewMultiLineEntry()
	ui.linksEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterLinks))
	ui.linksEntry.Wrapping = fyne.TextWrapOff
	ui.linksEntry.SetMinRowsVisible(3)

	ui.fetchBtn = widget.NewButton(ui.localization.GetText(KeyGetInfo), ui.onFetchClick)
	ui.fetchBtn.Importance = widget.HighImportance
	ui.pasteBtn = widget.NewButton(IconPaste+" "+ui.localization.GetText(KeyPaste), ui.onPasteClick)

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	linkButtons := container.NewVBox(ui.fetchBtn, ui.pasteBtn)
	topPanel := container.NewBorder(nil, nil, settingsBtn, linkButtons, ui.linksEntry)

	// Notification panel under the links input (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Alignment = fyne.TextAlignLeading
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewHBox(ui.notificationSpinner, container.NewPadded(ui.notificationLabel))
	ui.notificationContainer.Hide()

	ui.downloadAllBtn = widget.NewButton(ui.localization.GetText(KeyDownloadAll), func() {
		ui.runQueueOp("enqueue all", ui.queue.EnqueueAll)
	})
	ui.cancelAllBtn = widget.NewButton(ui.localization.GetText(KeyCancelAll), func() {
		ui.runQueueOp("cancel all", ui.queue.CancelAll)
	})
	ui.clearBtn = widget.NewButton(ui.localization.GetText(KeyClearCompleted), func() {
		ui.runQueueOp("clear completed", func() error {
			_, err := ui.queue.ClearCompleted()
			return err
		})
	})

	labels := make([]string, len(sortChoices))
	for i, c := range sortChoices {
		labels[i] = ui.localization.GetText(c.labelKey)
	}
	ui.sortSelect = widget.NewSelect(labels, ui.onSortChanged)
	ui.sortSelect.PlaceHolder = ui.localization.GetText(KeySortBy)

	ui.activeLabel = widget.NewLabel("")
	toolbar := container.NewHBox(ui.downloadAllBtn, ui.cancelAllBtn, ui.clearBtn, ui.sortSelect, ui.activeLabel)

	top := container.NewVBox(topPanel, ui.notificationContainer, toolbar)

	ui.list = widget.NewList(
		func() int { return len(ui.state.Items) },
		func() fyne.CanvasObject { return NewItemRow(ui.localization, ui.rowCallbacks()) },
		ui.updateRow,
	)

	ui.window.SetContent(container.NewBorder(top, nil, nil, nil, ui.list))
	ui.applyState(download.State{})
}

func (ui *RootUI) rowCallbacks() RowCallbacks {
	return RowCallbacks{
		OnStart: func(id string) {
			ui.runQueueOp("start", func() error { return ui.queue.StartSingle(id) })
		},
		OnCancel: func(id string) {
			ui.runQueueOp("cancel", func() error { return ui.queue.Cancel(id) })
		},
		OnRemove: ui.confirmRemove,
		OnResolution: func(id, resolution string) {
			ui.runQueueOp("set resolution", func() error { return ui.queue.SetResolution(id, resolution) })
		},
		OnOpen:   ui.onOpenFile,
		OnReveal: ui.onRevealFile,
	}
}

func (ui *RootUI) updateRow(id widget.ListItemID, obj fyne.CanvasObject) {
	if id < 0 || id >= len(ui.state.Items) {
		return
	}
	row, ok := obj.(*ItemRow)
	if !ok {
		return
	}
	item := ui.state.Items[id]
	row.Update(item)
	row.SetThumbnail(ui.thumbPaths[item.ThumbnailURL])
}

// applyState renders a queue snapshot
func (ui *RootUI) applyState(s download.State) {
	ui.state = s

	if s.Fetching {
		ui.fetchBtn.SetText(ui.localization.GetText(KeyStop))
		ui.pasteBtn.Disable()
	} else {
		ui.fetchBtn.SetText(ui.localization.GetText(KeyGetInfo))
		ui.pasteBtn.Enable()
	}
	setEnabled(ui.downloadAllBtn, s.CanDownload())
	setEnabled(ui.cancelAllBtn, s.CanCancel())
	setEnabled(ui.clearBtn, s.CanClearCompleted())

	maxParallel := s.MaxParallel
	if maxParallel == 0 {
		maxParallel = ui.settings.GetMaxParallelDownloads()
	}
	ui.activeLabel.SetText(fmt.Sprintf(ui.localization.GetText(KeyActiveDownloads), s.Active, maxParallel))

	ui.requestThumbnails(s.Items)
	ui.list.Refresh()
}

// requestThumbnails starts a background fetch for every unseen thumbnail
func (ui *RootUI) requestThumbnails(items []model.QueueItem) {
	if ui.thumbs == nil {
		return
	}
	for i := range items {
		thumbURL := items[i].ThumbnailURL
		if thumbURL == "" || ui.thumbPending[thumbURL] {
			continue
		}
		if _, ok := ui.thumbPaths[thumbURL]; ok {
			continue
		}
		ui.thumbPending[thumbURL] = true

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), ThumbnailFetchTimeout)
			defer cancel()

			path, err := ui.thumbs.Fetch(ctx, thumbURL)
			if err != nil {
				ui.logger.Debug("thumbnail unavailable", "url", thumbURL, "error", err)
			}
			fyne.Do(func() {
				delete(ui.thumbPending, thumbURL)
				// An empty path is stored too so failures are not retried
				ui.thumbPaths[thumbURL] = path
				ui.list.Refresh()
			})
		}()
	}
}

// runQueueOp calls a queue operation off the fyne goroutine. Queue calls
// block until the controller loop has applied them.
func (ui *RootUI) runQueueOp(name string, op func() error) {
	go func() {
		if err := op(); err != nil {
			ui.logger.Warn("queue operation failed", "op", name, "error", err)
			ui.showNotification(err.Error(), false)
		}
	}()
}

// confirmRemove asks before dropping an item from the queue
func (ui *RootUI) confirmRemove(id string) {
	title := id
	for i := range ui.state.Items {
		if ui.state.Items[i].ID == id {
			title = ui.state.Items[i].GetDisplayTitle()
			break
		}
	}
	dialog.ShowConfirm(
		ui.localization.GetText(KeyRemove),
		fmt.Sprintf(ui.localization.GetText(KeyRemoveConfirm), title),
		func(ok bool) { ui.onRemoveConfirmed(id, ok) },
		ui.window,
	)
}

func (ui *RootUI) onRemoveConfirmed(id string, confirmed bool) {
	if !confirmed {
		return
	}
	ui.runQueueOp("remove", func() error { return ui.queue.Remove(id) })
}

// onFetchClick starts a metadata fetch or stops the running one
func (ui *RootUI) onFetchClick() {
	if ui.state.Fetching {
		ui.runQueueOp("stop fetch", ui.queue.StopFetch)
		return
	}

	links, err := platform.NormalizeLinks(ui.linksEntry.Text)
	if err != nil {
		ui.showNotification(ui.localization.GetText(KeyNoLinks), false)
		return
	}

	ui.logger.Info("fetching metadata", "links", len(links))
	ui.showNotification(ui.localization.GetText(KeyFetching), true)
	ui.runQueueOp("start fetch", func() error { return ui.queue.StartFetch(links) })
}

// onPasteClick appends the clipboard text to the links entry
func (ui *RootUI) onPasteClick() {
	text, err := clipboard.ReadAll()
	if err != nil {
		ui.logger.Warn("clipboard read failed", "error", err)
		return
	}
	if text == "" {
		return
	}
	current := ui.linksEntry.Text
	if current != "" && current[len(current)-1] != '\n' {
		current += "\n"
	}
	ui.linksEntry.SetText(current + text)
}

func (ui *RootUI) onSortChanged(label string) {
	for _, c := range sortChoices {
		if ui.localization.GetText(c.labelKey) != label {
			continue
		}
		if c.key == "" {
			ui.runQueueOp("reset order", ui.queue.ResetOrder)
		} else {
			ui.runQueueOp("sort", func() error { return ui.queue.SortBy(c.key, c.ascending) })
		}
		return
	}
}

// onFetchDone reports the outcome of a metadata batch
func (ui *RootUI) onFetchDone(summary download.FetchSummary) {
	msg := fmt.Sprintf(ui.localization.GetText(KeyFetchDone), summary.Added)
	if summary.Aborted {
		msg = fmt.Sprintf(ui.localization.GetText(KeyFetchStopped), summary.Added)
	} else if summary.Failed == 0 {
		ui.linksEntry.SetText("")
	}
	ui.showNotification(msg, false)

	if summary.Failed > 0 {
		dialog.ShowInformation(
			ui.localization.GetText(KeyGetInfo),
			fmt.Sprintf(ui.localization.GetText(KeyFetchFailures), summary.Failed, summary.Links),
			ui.window,
		)
	}
}

// onItemFinished notifies about a download reaching a terminal state
func (ui *RootUI) onItemFinished(item model.QueueItem) {
	switch {
	case item.Status == model.StatusCompleted:
		ui.sendNotification(KeyDownloadCompleted, item.Title)
		if ui.settings.GetAutoRevealOnComplete() {
			ui.onRevealFile(outputPath(item))
		}
	case item.LastError != "":
		ui.sendNotification(KeyDownloadFailed, item.Title+ReasonSeparator+item.LastError)
	}
}

// sendNotification sends a system notification
func (ui *RootUI) sendNotification(titleKey, content string) {
	if ui.app == nil {
		return
	}
	ui.app.SendNotification(&fyne.Notification{
		Title:   ui.localization.GetText(titleKey),
		Content: content,
	})
}

// onRevealFile shows a finished file in the system file manager
func (ui *RootUI) onRevealFile(path string) {
	if path == "" {
		return
	}
	if err := platform.OpenFileInManager(path); err != nil {
		ui.logger.Warn("reveal failed", "path", path, "error", err)
		ui.showNotification(ui.localization.GetText(KeyErrorOpeningFile)+ReasonSeparator+err.Error(), false)
	}
}

// onOpenFile opens a finished file with the default application
func (ui *RootUI) onOpenFile(path string) {
	if path == "" {
		return
	}
	if err := platform.OpenFileWithDefaultApp(path); err != nil {
		ui.logger.Warn("open failed", "path", path, "error", err)
		ui.showNotification(ui.localization.GetText(KeyErrorOpeningFile)+ReasonSeparator+err.Error(), false)
	}
}

// showNotification displays a message in the notification panel under the
// links input. When spinning is true, a spinner indicates background work.
func (ui *RootUI) showNotification(message string, spinning bool) {
	fyne.Do(func() {
		ui.notificationLabel.SetText(message)
		if spinning {
			ui.notificationSpinner.Show()
		} else {
			ui.notificationSpinner.Hide()
		}
		ui.notificationContainer.Show()
		ui.notificationContainer.Refresh()
	})
}

// onShowSettings shows the settings dialog and pushes saved values to the queue
func (ui *RootUI) onShowSettings() {
	var clearCache func() error
	if ui.cache != nil {
		clearCache = ui.clearCache
	}
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, ui.applySettings, clearCache)
}

// applySettings pushes the stored preferences to the queue
func (ui *RootUI) applySettings() {
	dir := ui.settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		ui.logger.Warn("failed to create download directory", "dir", dir, "error", err)
	}
	maxParallel := ui.settings.GetMaxParallelDownloads()
	resolution := ui.settings.GetDefaultResolution()

	ui.runQueueOp("apply settings", func() error {
		if err := ui.queue.SetDownloadDirectory(dir); err != nil {
			return err
		}
		if err := ui.queue.SetMaxParallel(maxParallel); err != nil {
			return err
		}
		return ui.queue.SetDefaultResolution(resolution)
	})
	ui.showNotification(ui.localization.GetText(KeySettingsSaved), false)
}

// clearCache wipes the disk cache and forgets the thumbnails it held.
// Runs on the fyne goroutine.
func (ui *RootUI) clearCache() error {
	if err := ui.cache.Clear(); err != nil {
		ui.logger.Warn("failed to clear cache", "error", err)
		return err
	}
	ui.logger.Info("cache cleared")
	ui.thumbPaths = make(map[string]string)
	ui.requestThumbnails(ui.state.Items)
	ui.list.Refresh()
	return nil
}
