package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ytget/yt-queue/internal/ffmpeg"
)

// ErrAborted is reported by a task stopped through its abort flag
var ErrAborted = errors.New("download aborted")

// Format selection and container constants
const (
	BestAudioSuffix   = "+bestaudio/best"
	DefaultSelector   = "bestvideo+bestaudio/best"
	MergeOutputFormat = "mp4"
	OutputExtension   = ".mp4"
	TaskIDPrefix      = "task-"
	AbortedReason     = "Download cancelled by user"
)

// Request describes one download+merge job
type Request struct {
	URL        string
	OutputDir  string
	FormatID   string // empty selects the best streams
	Filename   string // collision-free, chosen by the controller
	FFmpegPath string
}

// FormatSelector returns the yt-dlp format expression for the request
func (r Request) FormatSelector() string {
	if r.FormatID == "" {
		return DefaultSelector
	}
	return r.FormatID + BestAudioSuffix
}

// Result is the terminal outcome of a task
type Result struct {
	Success    bool
	Aborted    bool
	Reason     string // human readable failure reason
	OutputPath string
	Err        error
}

// Task runs one item's download on its own goroutine. It is aborted
// cooperatively: Abort raises a flag that the progress hook and the task's
// watcher observe, after which the runner is asked to stop.
type Task struct {
	ID     string
	ItemID string

	req    Request
	runner Runner
	logger *slog.Logger

	aborted   atomic.Bool
	abortCh   chan struct{}
	abortOnce sync.Once
	startOnce sync.Once
	done      chan struct{}
	result    Result
}

// NewTask creates a task bound to an item
func NewTask(itemID string, req Request, runner Runner, logger *slog.Logger) *Task {
	if logger == nil {
		logger = slog.Default()
	}
	id := generateTaskID()
	return &Task{
		ID:      id,
		ItemID:  itemID,
		req:     req,
		runner:  runner,
		logger:  logger.With("task_id", id, "item_id", itemID),
		abortCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Request returns the job description
func (t *Task) Request() Request {
	return t.req
}

// Start launches the task goroutine. Events are sent to events until the task
// is aborted, after which pending sends are dropped.
func (t *Task) Start(events chan<- Event) {
	t.startOnce.Do(func() {
		go t.run(events)
	})
}

// Abort raises the abort flag. Safe to call more than once.
func (t *Task) Abort() {
	t.abortOnce.Do(func() {
		t.aborted.Store(true)
		close(t.abortCh)
	})
}

// Aborted reports whether Abort was called
func (t *Task) Aborted() bool {
	return t.aborted.Load()
}

// Done is closed once the task goroutine has returned
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task stops and returns its outcome
func (t *Task) Wait() Result {
	<-t.done
	return t.result
}

func (t *Task) run(events chan<- Event) {
	defer close(t.done)

	t.result = t.execute(events)
	if t.result.Success {
		t.logger.Info("download completed", "output", t.result.OutputPath)
	} else if t.result.Aborted {
		t.logger.Info("download aborted")
	} else {
		t.logger.Warn("download failed", "reason", t.result.Reason)
	}

	t.emit(events, TerminalEvent{ItemID: t.ItemID, TaskID: t.ID, Result: t.result})
}

func (t *Task) execute(events chan<- Event) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = t.failure(fmt.Errorf("download panicked: %v", r))
		}
	}()

	if t.Aborted() {
		return t.abortedResult()
	}

	// Merge tool is a hard precondition, checked before any network activity
	if err := ffmpeg.Check(t.req.FFmpegPath); err != nil {
		return t.failure(fmt.Errorf("merge tool unavailable: %w", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Watch the abort flag for stretches without progress callbacks
	go func() {
		select {
		case <-ctx.Done():
		case <-t.abortCh:
			cancel()
		}
	}()

	t.logger.Info("download started", "url", t.req.URL, "format", t.req.FormatSelector(), "filename", t.req.Filename)

	output, err := t.runner.Download(ctx, t.req, func(p Progress) bool {
		if t.Aborted() {
			return false
		}
		t.emit(events, ProgressEvent{ItemID: t.ItemID, TaskID: t.ID, Progress: p})
		return true
	})

	if t.Aborted() {
		return t.abortedResult()
	}
	if err != nil {
		return t.failure(err)
	}
	return Result{Success: true, OutputPath: output}
}

// emit delivers an event unless the task has been aborted
func (t *Task) emit(events chan<- Event, ev Event) {
	select {
	case events <- ev:
	case <-t.abortCh:
	}
}

func (t *Task) abortedResult() Result {
	return Result{Aborted: true, Reason: AbortedReason, Err: ErrAborted}
}

func (t *Task) failure(err error) Result {
	return Result{Reason: err.Error(), Err: err}
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	return TaskIDPrefix + uuid.New().String()
}
