package ui

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-queue/internal/model"
)

// RowCallbacks connects row buttons to queue operations
type RowCallbacks struct {
	OnStart      func(id string)
	OnCancel     func(id string)
	OnRemove     func(id string)
	OnResolution func(id, resolution string)
	OnOpen       func(path string)
	OnReveal     func(path string)
}

// rowActions says which row controls are usable for an item
type rowActions struct {
	start      bool
	cancel     bool
	resolution bool
	open       bool
}

func actionsFor(item model.QueueItem) rowActions {
	return rowActions{
		start:      item.Status.IsStartable() && len(item.Resolutions) > 0,
		cancel:     item.Status.IsActive(),
		resolution: item.Status.IsStartable() && len(item.Resolutions) > 0,
		open:       item.Status == model.StatusCompleted && item.OutputFilename != "",
	}
}

// outputPath returns the finished file of an item, or "" when there is none
func outputPath(item model.QueueItem) string {
	if item.OutputFilename == "" {
		return ""
	}
	return filepath.Join(item.OutputDir, item.OutputFilename)
}

// statusText renders the status column, with the failure reason if any
func statusText(item model.QueueItem, loc *Localization) string {
	var icon, key string
	switch item.Status {
	case model.StatusPending:
		key = KeyStatusPending
	case model.StatusQueued:
		icon, key = IconQueued, KeyStatusQueued
	case model.StatusDownloading:
		icon, key = IconPlay, KeyStatusDownloading
	case model.StatusCompleted:
		icon, key = IconDone, KeyStatusCompleted
	case model.StatusCancelled:
		icon, key = IconStop, KeyStatusCancelled
		if item.LastError != "" {
			icon = IconError
		}
	default:
		return item.Status.String()
	}

	text := loc.GetText(key)
	if icon != "" {
		text = icon + " " + text
	}
	return text
}

// telemetryText renders percent, speed and ETA for a running item
func telemetryText(item model.QueueItem) string {
	switch item.Status {
	case model.StatusDownloading:
		text := fmt.Sprintf(ProgressLabelFormat, item.Percent)
		if speed := item.GetSpeedString(); speed != "" {
			text += MiddleDotSeparator + speed
		}
		return text + MiddleDotSeparator + item.GetETAString()
	case model.StatusCancelled:
		return item.LastError
	default:
		return ""
	}
}

// ItemRow shows one queue item
type ItemRow struct {
	widget.BaseWidget

	item         model.QueueItem
	localization *Localization
	callbacks    RowCallbacks
	updating     bool

	thumbnail      *canvas.Image
	titleLabel     *widget.Label
	statusLabel    *widget.Label
	telemetryLabel *widget.Label
	progressBar    *widget.ProgressBar
	resolutionSel  *widget.Select
	actionBtn      *widget.Button
	removeBtn      *widget.Button
	openBtn        *widget.Button
	revealBtn      *widget.Button
	thumbPath      string
}

// NewItemRow creates an empty row
func NewItemRow(localization *Localization, callbacks RowCallbacks) *ItemRow {
	r := &ItemRow{localization: localization, callbacks: callbacks}
	r.ExtendBaseWidget(r)
	r.createUI()
	return r
}

func (r *ItemRow) createUI() {
	r.thumbnail = canvas.NewImageFromResource(theme.MediaVideoIcon())
	r.thumbnail.FillMode = canvas.ImageFillContain
	r.thumbnail.SetMinSize(fyne.NewSize(ThumbnailWidth, ThumbnailHeight))

	r.titleLabel = widget.NewLabel("")
	r.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	r.titleLabel.Truncation = fyne.TextTruncateEllipsis

	r.statusLabel = widget.NewLabel("")
	r.telemetryLabel = widget.NewLabel("")
	r.telemetryLabel.TextStyle = fyne.TextStyle{Monospace: true}
	r.telemetryLabel.Truncation = fyne.TextTruncateEllipsis

	r.progressBar = widget.NewProgressBar()
	r.progressBar.Max = model.MaxPercent

	r.resolutionSel = widget.NewSelect(nil, func(selected string) {
		if r.updating || selected == "" || r.callbacks.OnResolution == nil {
			return
		}
		r.callbacks.OnResolution(r.item.ID, selected)
	})

	r.actionBtn = widget.NewButton("", r.onAction)
	r.removeBtn = widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		if r.callbacks.OnRemove != nil {
			r.callbacks.OnRemove(r.item.ID)
		}
	})
	r.removeBtn.Importance = widget.LowImportance

	r.openBtn = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() {
		if path := outputPath(r.item); path != "" && r.callbacks.OnOpen != nil {
			r.callbacks.OnOpen(path)
		}
	})
	r.revealBtn = widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() {
		if path := outputPath(r.item); path != "" && r.callbacks.OnReveal != nil {
			r.callbacks.OnReveal(path)
		}
	})
}

func (r *ItemRow) onAction() {
	actions := actionsFor(r.item)
	switch {
	case actions.cancel && r.callbacks.OnCancel != nil:
		r.callbacks.OnCancel(r.item.ID)
	case actions.start && r.callbacks.OnStart != nil:
		r.callbacks.OnStart(r.item.ID)
	}
}

// SetThumbnail shows the image file at path
func (r *ItemRow) SetThumbnail(path string) {
	if path == "" || path == r.thumbPath {
		return
	}
	r.thumbPath = path
	r.thumbnail.File = path
	r.thumbnail.Resource = nil
	r.thumbnail.Refresh()
}

// Update renders item
func (r *ItemRow) Update(item model.QueueItem) {
	if item.ID != r.item.ID {
		r.thumbPath = ""
		r.thumbnail.File = ""
		r.thumbnail.Resource = theme.MediaVideoIcon()
		r.thumbnail.Refresh()
	}
	r.item = item
	actions := actionsFor(item)

	r.titleLabel.SetText(item.GetDisplayTitle())
	r.statusLabel.Importance = statusImportance(item)
	r.statusLabel.SetText(statusText(item, r.localization))
	r.telemetryLabel.SetText(telemetryText(item))
	r.progressBar.SetValue(float64(item.Percent))

	r.updating = true
	r.resolutionSel.Options = item.Resolutions
	r.resolutionSel.SetSelected(item.EffectiveResolution())
	r.updating = false
	setEnabled(r.resolutionSel, actions.resolution)

	if actions.cancel {
		r.actionBtn.SetText(r.localization.GetText(KeyCancel))
		r.actionBtn.Importance = widget.DangerImportance
	} else {
		r.actionBtn.SetText(r.localization.GetText(KeyDownload))
		r.actionBtn.Importance = widget.HighImportance
	}
	setEnabled(r.actionBtn, actions.cancel || actions.start)
	setEnabled(r.openBtn, actions.open)
	setEnabled(r.revealBtn, actions.open)
	r.Refresh()
}

// CreateRenderer creates the widget renderer
func (r *ItemRow) CreateRenderer() fyne.WidgetRenderer {
	info := container.NewVBox(
		r.titleLabel,
		container.NewBorder(nil, nil, r.statusLabel, nil, r.telemetryLabel),
		r.progressBar,
	)
	controls := container.NewHBox(
		container.NewGridWrap(fyne.NewSize(ResolutionWidth, r.resolutionSel.MinSize().Height), r.resolutionSel),
		r.actionBtn,
		r.openBtn,
		r.revealBtn,
		r.removeBtn,
	)
	content := container.NewBorder(nil, nil, r.thumbnail, container.NewCenter(controls), info)
	return widget.NewSimpleRenderer(content)
}

// MinSize keeps rows readable in narrow windows
func (r *ItemRow) MinSize() fyne.Size {
	return r.BaseWidget.MinSize().Max(fyne.NewSize(RowMinWidth, RowMinHeight))
}

// statusImportance colors the status label through the theme
func statusImportance(item model.QueueItem) widget.Importance {
	switch {
	case item.Status == model.StatusCompleted:
		return widget.SuccessImportance
	case item.Status == model.StatusCancelled && item.LastError != "":
		return widget.DangerImportance
	case item.Status == model.StatusCancelled:
		return widget.WarningImportance
	case item.Status == model.StatusDownloading:
		return widget.HighImportance
	}
	return widget.MediumImportance
}

type disableable interface {
	Enable()
	Disable()
}

func setEnabled(w disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}
