package ui

import (
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-queue/internal/model"
)

func pendingItem() model.QueueItem {
	return model.QueueItem{
		ID:                 "item-1",
		URL:                "https://www.youtube.com/watch?v=abc",
		Title:              "First video",
		Resolutions:        []string{"720p", "360p"},
		SelectedResolution: "720p",
		Status:             model.StatusPending,
		ETASec:             -1,
	}
}

func TestActionsFor(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.QueueItem)
		want   rowActions
	}{
		{
			name:   "pending",
			mutate: func(*model.QueueItem) {},
			want:   rowActions{start: true, resolution: true},
		},
		{
			name:   "pending without formats",
			mutate: func(it *model.QueueItem) { it.Resolutions = nil },
			want:   rowActions{},
		},
		{
			name:   "queued",
			mutate: func(it *model.QueueItem) { it.Status = model.StatusQueued },
			want:   rowActions{cancel: true},
		},
		{
			name:   "downloading",
			mutate: func(it *model.QueueItem) { it.Status = model.StatusDownloading },
			want:   rowActions{cancel: true},
		},
		{
			name: "completed",
			mutate: func(it *model.QueueItem) {
				it.Status = model.StatusCompleted
				it.OutputFilename = "First video.mp4"
			},
			want: rowActions{open: true},
		},
		{
			name:   "cancelled",
			mutate: func(it *model.QueueItem) { it.Status = model.StatusCancelled },
			want:   rowActions{start: true, resolution: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := pendingItem()
			tt.mutate(&item)
			assert.Equal(t, tt.want, actionsFor(item))
		})
	}
}

func TestOutputPath(t *testing.T) {
	item := pendingItem()
	assert.Empty(t, outputPath(item))

	item.OutputDir = filepath.Join("tmp", "videos")
	item.OutputFilename = "First video.mp4"
	assert.Equal(t, filepath.Join("tmp", "videos", "First video.mp4"), outputPath(item))
}

func TestStatusText(t *testing.T) {
	loc := NewLocalization()
	item := pendingItem()

	assert.Equal(t, "Pending", statusText(item, loc))

	item.Status = model.StatusDownloading
	assert.Equal(t, IconPlay+" Downloading", statusText(item, loc))

	item.Status = model.StatusCancelled
	assert.Equal(t, IconStop+" Cancelled", statusText(item, loc))

	item.LastError = "HTTP Error 403"
	assert.Equal(t, IconError+" Cancelled", statusText(item, loc))

	loc.SetLanguage("ru")
	item.Status = model.StatusCompleted
	assert.Equal(t, IconDone+" Готово", statusText(item, loc))
}

func TestTelemetryText(t *testing.T) {
	item := pendingItem()
	assert.Empty(t, telemetryText(item))

	item.Status = model.StatusDownloading
	item.Percent = 10
	assert.Equal(t, "10%"+MiddleDotSeparator+"—", telemetryText(item))

	item.Percent = 42
	item.Speed = 2_000_000
	item.ETASec = 75
	assert.Equal(t, "42% · 2.0 MB/s · 01:15", telemetryText(item))

	item.Status = model.StatusCancelled
	item.LastError = "no matching mp4 format"
	assert.Equal(t, "no matching mp4 format", telemetryText(item))
}

func TestStatusImportance(t *testing.T) {
	item := pendingItem()
	item.Status = model.StatusCancelled
	cancelled := statusImportance(item)

	item.LastError = "boom"
	assert.NotEqual(t, cancelled, statusImportance(item))
}

type rowCalls struct {
	started     []string
	cancelled   []string
	removed     []string
	resolutions []string
	opened      []string
}

func newTestRow(calls *rowCalls) *ItemRow {
	return NewItemRow(NewLocalization(), RowCallbacks{
		OnStart:      func(id string) { calls.started = append(calls.started, id) },
		OnCancel:     func(id string) { calls.cancelled = append(calls.cancelled, id) },
		OnRemove:     func(id string) { calls.removed = append(calls.removed, id) },
		OnResolution: func(id, res string) { calls.resolutions = append(calls.resolutions, id+"="+res) },
		OnOpen:       func(path string) { calls.opened = append(calls.opened, path) },
	})
}

func TestItemRow_PendingActions(t *testing.T) {
	test.NewApp()
	calls := &rowCalls{}
	row := newTestRow(calls)

	row.Update(pendingItem())
	assert.Empty(t, calls.resolutions, "rendering must not report a resolution change")
	assert.Equal(t, "First video", row.titleLabel.Text)
	assert.Equal(t, []string{"720p", "360p"}, row.resolutionSel.Options)
	assert.Equal(t, "720p", row.resolutionSel.Selected)
	assert.Equal(t, "Download", row.actionBtn.Text)
	assert.True(t, row.openBtn.Disabled())

	test.Tap(row.actionBtn)
	assert.Equal(t, []string{"item-1"}, calls.started)

	row.resolutionSel.SetSelected("360p")
	assert.Equal(t, []string{"item-1=360p"}, calls.resolutions)

	test.Tap(row.removeBtn)
	assert.Equal(t, []string{"item-1"}, calls.removed)
}

func TestItemRow_DownloadingAndCompleted(t *testing.T) {
	test.NewApp()
	calls := &rowCalls{}
	row := newTestRow(calls)

	item := pendingItem()
	item.Status = model.StatusDownloading
	item.Percent = 55
	row.Update(item)

	assert.Equal(t, "Cancel", row.actionBtn.Text)
	assert.True(t, row.resolutionSel.Disabled())
	assert.InDelta(t, 55, row.progressBar.Value, 0.001)

	test.Tap(row.actionBtn)
	assert.Equal(t, []string{"item-1"}, calls.cancelled)
	assert.Empty(t, calls.started)

	item.Status = model.StatusCompleted
	item.Percent = 100
	item.OutputDir = t.TempDir()
	item.OutputFilename = "First video.mp4"
	row.Update(item)

	require.False(t, row.openBtn.Disabled())
	assert.True(t, row.actionBtn.Disabled())
	test.Tap(row.openBtn)
	assert.Equal(t, []string{filepath.Join(item.OutputDir, "First video.mp4")}, calls.opened)
}

func TestItemRow_ThumbnailResetsForNewItem(t *testing.T) {
	test.NewApp()
	row := newTestRow(&rowCalls{})

	row.Update(pendingItem())
	row.SetThumbnail("/tmp/thumb_a.jpg")
	assert.Equal(t, "/tmp/thumb_a.jpg", row.thumbnail.File)

	other := pendingItem()
	other.ID = "item-2"
	row.Update(other)
	assert.Empty(t, row.thumbnail.File)
	assert.NotNil(t, row.thumbnail.Resource)
}
