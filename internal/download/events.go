package download

import (
	"time"

	"github.com/ytget/yt-queue/internal/model"
)

// Event is a message delivered to the controller loop
type Event interface {
	isEvent()
}

// Progress is one progress report of a running task
type Progress struct {
	Percent int           // 0 to 100
	Speed   float64       // bytes per second
	ETA     time.Duration // 0 if unknown
}

// ProgressEvent carries a task progress report
type ProgressEvent struct {
	ItemID   string
	TaskID   string
	Progress Progress
}

// TerminalEvent is sent exactly once per task when it stops
type TerminalEvent struct {
	ItemID string
	TaskID string
	Result Result
}

// fetchResultEvent carries the outcome of one link of a fetch batch
type fetchResultEvent struct {
	batchID int
	link    string
	infos   []model.VideoInfo
	err     error
}

// fetchDoneEvent marks the end of a fetch batch
type fetchDoneEvent struct {
	batchID int
}

func (ProgressEvent) isEvent()    {}
func (TerminalEvent) isEvent()    {}
func (fetchResultEvent) isEvent() {}
func (fetchDoneEvent) isEvent()   {}

// ComputePercent converts byte counters to a floored 0-100 percentage.
// Unknown totals yield 0.
func ComputePercent(downloaded, total int64) int {
	if total <= 0 || downloaded <= 0 {
		return model.MinPercent
	}
	percent := int(downloaded * 100 / total)
	if percent > model.MaxPercent {
		return model.MaxPercent
	}
	return percent
}
