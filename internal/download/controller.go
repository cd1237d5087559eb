package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/yt-queue/internal/model"
	"github.com/ytget/yt-queue/internal/platform"
)

// Concurrency limits
const (
	DefaultMaxParallel = 3
	MinParallel        = 1
	MaxParallel        = 10
	eventBufferSize    = 64
	defaultTitle       = "video"
)

// Controller errors
var (
	ErrItemNotFound       = errors.New("queue item not found")
	ErrInvalidState       = errors.New("invalid item state")
	ErrFetchBusy          = errors.New("already fetching info")
	ErrControllerStopped  = errors.New("controller stopped")
	ErrAlreadyRunning     = errors.New("controller already running")
	ErrNoProvider         = errors.New("no info provider configured")
	ErrUnknownResolution  = errors.New("resolution not available for item")
	ErrInvalidParallelism = errors.New("invalid parallel downloads value")
)

// Options configures a Controller
type Options struct {
	MaxParallel       int
	DownloadDir       string
	DefaultResolution string
	FFmpegPath        string
}

// SortKey selects the field used by SortBy
type SortKey string

const (
	SortByTitle  SortKey = "title"
	SortByStatus SortKey = "status"
)

// State is an immutable copy of the queue handed to subscribers
type State struct {
	Items       []model.QueueItem
	Active      int
	MaxParallel int
	Fetching    bool
}

// Count returns the number of items with the given status
func (s State) Count(status model.ItemStatus) int {
	n := 0
	for i := range s.Items {
		if s.Items[i].Status == status {
			n++
		}
	}
	return n
}

// CanDownload reports whether any item can be queued
func (s State) CanDownload() bool {
	return slices.ContainsFunc(s.Items, func(it model.QueueItem) bool { return it.Status.IsStartable() })
}

// CanClearCompleted reports whether any item is completed
func (s State) CanClearCompleted() bool {
	return s.Count(model.StatusCompleted) > 0
}

// CanCancel reports whether any item is queued or downloading
func (s State) CanCancel() bool {
	return slices.ContainsFunc(s.Items, func(it model.QueueItem) bool { return it.Status.IsActive() })
}

// Idle reports whether nothing is fetching, queued or downloading
func (s State) Idle() bool {
	return !s.Fetching && !s.CanCancel()
}

// entry pairs a live item with its task handle
type entry struct {
	item *model.QueueItem
	task *Task
}

// Controller owns the download queue. All item mutations happen on the
// goroutine running Run; public methods marshal their work onto it.
// Callbacks are invoked from that goroutine and must not call back into the
// controller synchronously.
type Controller struct {
	runner   Runner
	provider InfoProvider
	logger   *slog.Logger

	cmds    chan func()
	events  chan Event
	stopped chan struct{}
	started atomic.Bool

	// Owned by the run loop
	opts        Options
	entries     []*entry
	insertOrder []*entry
	active      int
	reserved    map[string]struct{}
	fetch       *fetchBatch
	nextBatchID int

	cbMutex    sync.RWMutex
	onUpdate   func(State)
	onFinished func(model.QueueItem)
	onFetched  func(FetchSummary)
}

// NewController creates a controller. provider may be nil when metadata is
// added directly with Add.
func NewController(opts Options, runner Runner, provider InfoProvider, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	opts.MaxParallel = clampParallel(opts.MaxParallel)
	return &Controller{
		runner:   runner,
		provider: provider,
		logger:   logger.With("component", "queue"),
		cmds:     make(chan func()),
		events:   make(chan Event, eventBufferSize),
		stopped:  make(chan struct{}),
		opts:     opts,
		reserved: make(map[string]struct{}),
	}
}

// SetUpdateCallback sets the callback receiving a state copy after every change
func (c *Controller) SetUpdateCallback(callback func(State)) {
	c.cbMutex.Lock()
	defer c.cbMutex.Unlock()
	c.onUpdate = callback
}

// SetFinishedCallback sets the callback invoked when an item completes or fails
func (c *Controller) SetFinishedCallback(callback func(model.QueueItem)) {
	c.cbMutex.Lock()
	defer c.cbMutex.Unlock()
	c.onFinished = callback
}

// SetFetchDoneCallback sets the callback invoked when a fetch batch ends
func (c *Controller) SetFetchDoneCallback(callback func(FetchSummary)) {
	c.cbMutex.Lock()
	defer c.cbMutex.Unlock()
	c.onFetched = callback
}

// Run processes commands and task events until ctx is cancelled. On exit all
// running tasks and the fetch batch are aborted and waited for.
func (c *Controller) Run(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(c.stopped)
	defer c.shutdown()

	c.logger.Info("queue controller started", "max_parallel", c.opts.MaxParallel)

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-c.cmds:
			fn()
			c.publish()
		case ev := <-c.events:
			c.handleEvent(ev)
			c.publish()
		}
	}
}

// Stopped is closed once Run has returned
func (c *Controller) Stopped() <-chan struct{} {
	return c.stopped
}

// do runs fn on the controller goroutine and returns its error
func (c *Controller) do(fn func() error) error {
	errCh := make(chan error, 1)
	select {
	case c.cmds <- func() { errCh <- fn() }:
	case <-c.stopped:
		return ErrControllerStopped
	}
	return <-errCh
}

// Add appends new Pending items. Links already in the queue are skipped.
func (c *Controller) Add(infos ...model.VideoInfo) (int, error) {
	var added int
	err := c.do(func() error {
		added = c.add(infos)
		return nil
	})
	return added, err
}

// EnqueueAll queues every Pending or Cancelled item and admits downloads
func (c *Controller) EnqueueAll() error {
	return c.do(func() error {
		c.enqueueAll()
		return nil
	})
}

// StartSingle starts one item right away when a slot is free, otherwise
// leaves it Queued
func (c *Controller) StartSingle(id string) error {
	return c.do(func() error {
		e, err := c.lookup(id)
		if err != nil {
			return err
		}
		return c.startSingle(e)
	})
}

// Cancel aborts a Downloading item or unqueues a Queued one
func (c *Controller) Cancel(id string) error {
	return c.do(func() error {
		e, err := c.lookup(id)
		if err != nil {
			return err
		}
		if !e.item.Status.IsActive() {
			return fmt.Errorf("%w: cannot cancel %s item", ErrInvalidState, e.item.Status)
		}
		c.cancel(e, true)
		return nil
	})
}

// CancelAll cancels every Queued and Downloading item
func (c *Controller) CancelAll() error {
	return c.do(func() error {
		c.cancelAll()
		return nil
	})
}

// Remove deletes an item, cancelling it first if needed
func (c *Controller) Remove(id string) error {
	return c.do(func() error {
		e, err := c.lookup(id)
		if err != nil {
			return err
		}
		c.remove(e)
		return nil
	})
}

// ClearCompleted removes every Completed item and returns how many were removed
func (c *Controller) ClearCompleted() (int, error) {
	var removed int
	err := c.do(func() error {
		for _, e := range slices.Clone(c.entries) {
			if e.item.Status == model.StatusCompleted {
				c.remove(e)
				removed++
			}
		}
		return nil
	})
	return removed, err
}

// SetResolution changes the resolution of a Pending or Cancelled item
func (c *Controller) SetResolution(id, resolution string) error {
	return c.do(func() error {
		e, err := c.lookup(id)
		if err != nil {
			return err
		}
		if !e.item.Status.IsStartable() {
			return fmt.Errorf("%w: resolution is locked while %s", ErrInvalidState, e.item.Status)
		}
		if !e.item.HasResolution(resolution) {
			return fmt.Errorf("%w: %s", ErrUnknownResolution, resolution)
		}
		e.item.SelectedResolution = resolution
		return nil
	})
}

// SortBy reorders the queue, which also changes admission order
func (c *Controller) SortBy(key SortKey, ascending bool) error {
	return c.do(func() error {
		var less func(a, b *entry) bool
		switch key {
		case SortByTitle:
			less = func(a, b *entry) bool {
				return strings.ToLower(a.item.Title) < strings.ToLower(b.item.Title)
			}
		case SortByStatus:
			less = func(a, b *entry) bool { return a.item.Status.Rank() < b.item.Status.Rank() }
		default:
			return fmt.Errorf("unknown sort key: %s", key)
		}
		sort.SliceStable(c.entries, func(i, j int) bool {
			if ascending {
				return less(c.entries[i], c.entries[j])
			}
			return less(c.entries[j], c.entries[i])
		})
		return nil
	})
}

// ResetOrder restores insertion order
func (c *Controller) ResetOrder() error {
	return c.do(func() error {
		c.entries = slices.Clone(c.insertOrder)
		return nil
	})
}

// SetMaxParallel changes the concurrency cap. Lowering it below the number of
// running downloads puts the most recently listed ones back in the queue.
func (c *Controller) SetMaxParallel(n int) error {
	if n < MinParallel {
		return fmt.Errorf("%w: %d", ErrInvalidParallelism, n)
	}
	return c.do(func() error {
		c.opts.MaxParallel = clampParallel(n)
		for i := len(c.entries) - 1; i >= 0 && c.active > c.opts.MaxParallel; i-- {
			if e := c.entries[i]; e.item.Status == model.StatusDownloading {
				c.requeue(e)
			}
		}
		c.admissionPass()
		return nil
	})
}

// SetDownloadDirectory sets the folder used by downloads started afterwards
func (c *Controller) SetDownloadDirectory(dir string) error {
	return c.do(func() error {
		c.opts.DownloadDir = dir
		return nil
	})
}

// SetDefaultResolution sets the resolution preselected for new items
func (c *Controller) SetDefaultResolution(resolution string) error {
	return c.do(func() error {
		c.opts.DefaultResolution = resolution
		return nil
	})
}

// Snapshot returns a copy of the current queue state
func (c *Controller) Snapshot() (State, error) {
	var st State
	err := c.do(func() error {
		st = c.state()
		return nil
	})
	return st, err
}

// --- loop side ---

func (c *Controller) add(infos []model.VideoInfo) int {
	added := 0
	for _, info := range infos {
		if info.URL == "" {
			continue
		}
		if c.findByURL(info.URL) != nil {
			c.logger.Debug("skipping duplicate link", "url", info.URL)
			continue
		}
		item := model.NewQueueItem(uuid.New().String(), info, c.opts.DefaultResolution)
		e := &entry{item: item}
		c.entries = append(c.entries, e)
		c.insertOrder = append(c.insertOrder, e)
		added++
	}
	return added
}

func (c *Controller) enqueueAll() {
	for _, e := range c.entries {
		if e.item.Status.IsStartable() {
			e.item.Status = model.StatusQueued
			e.item.Percent = 0
		}
	}
	c.admissionPass()
}

// admissionPass starts Queued items in queue order while slots are free
func (c *Controller) admissionPass() {
	for c.active < c.opts.MaxParallel {
		e := c.nextQueued()
		if e == nil {
			return
		}
		c.startDownload(e)
	}
}

func (c *Controller) nextQueued() *entry {
	for _, e := range c.entries {
		if e.item.Status == model.StatusQueued && e.task == nil {
			return e
		}
	}
	return nil
}

func (c *Controller) startSingle(e *entry) error {
	if !e.item.Status.IsStartable() {
		return fmt.Errorf("%w: cannot start %s item", ErrInvalidState, e.item.Status)
	}
	e.item.Status = model.StatusQueued
	e.item.Percent = 0
	if c.active < c.opts.MaxParallel {
		c.startDownload(e)
	}
	return nil
}

// startDownload moves a Queued item to Downloading and launches its task.
// Items whose download cannot be prepared are marked Cancelled without taking a slot.
func (c *Controller) startDownload(e *entry) {
	item := e.item
	logger := c.logger.With("item_id", item.ID, "url", item.URL)

	format, err := model.ResolveFormat(item.Formats, item.EffectiveResolution())
	if err != nil {
		c.failBeforeStart(e, err)
		return
	}

	dir := c.opts.DownloadDir
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		c.failBeforeStart(e, fmt.Errorf("failed to prepare download folder: %w", err))
		return
	}

	base := platform.SanitizeFilename(item.Title)
	if base == "" {
		base = defaultTitle
	}
	filename := platform.UniqueFilename(dir, base, OutputExtension, c.isReserved)

	item.Status = model.StatusDownloading
	item.Percent = 0
	item.Speed = 0
	item.ETASec = -1
	item.LastError = ""
	item.OutputDir = dir
	item.OutputFilename = filename
	item.StartedAt = time.Now()
	item.FinishedAt = time.Time{}
	c.active++
	c.reserved[filepath.Join(dir, filename)] = struct{}{}

	task := NewTask(item.ID, Request{
		URL:        item.URL,
		OutputDir:  dir,
		FormatID:   format.ID,
		Filename:   filename,
		FFmpegPath: c.opts.FFmpegPath,
	}, c.runner, c.logger)
	e.task = task
	task.Start(c.events)

	logger.Info("download admitted", "task_id", task.ID, "format_id", format.ID, "active", c.active)
}

func (c *Controller) failBeforeStart(e *entry, err error) {
	c.logger.Warn("cannot start download", "item_id", e.item.ID, "error", err)
	e.item.Status = model.StatusCancelled
	e.item.Percent = 0
	e.item.LastError = err.Error()
	e.item.FinishedAt = time.Now()
	c.notifyFinished(e.item)
}

func (c *Controller) handleEvent(ev Event) {
	switch ev := ev.(type) {
	case ProgressEvent:
		c.onTaskProgress(ev)
	case TerminalEvent:
		c.onTaskTerminal(ev)
	case fetchResultEvent:
		c.onFetchResult(ev)
	case fetchDoneEvent:
		c.onFetchDone(ev)
	}
}

// onTaskProgress applies progress only to the live task of a Downloading item
func (c *Controller) onTaskProgress(ev ProgressEvent) {
	e := c.find(ev.ItemID)
	if e == nil || e.item.Status != model.StatusDownloading || e.task == nil || e.task.ID != ev.TaskID {
		return
	}
	percent := ev.Progress.Percent
	percent = max(model.MinPercent, min(model.MaxPercent, percent))
	e.item.Percent = percent
	e.item.Speed = ev.Progress.Speed
	e.item.ETASec = int(ev.Progress.ETA.Seconds())
	if ev.Progress.ETA <= 0 {
		e.item.ETASec = -1
	}
}

func (c *Controller) onTaskTerminal(ev TerminalEvent) {
	e := c.find(ev.ItemID)
	if e == nil || e.task == nil || e.task.ID != ev.TaskID {
		c.logger.Debug("discarding stale terminal event", "item_id", ev.ItemID, "task_id", ev.TaskID)
		return
	}

	c.releaseTask(e)
	c.active = max(0, c.active-1)

	item := e.item
	item.Speed = 0
	item.ETASec = -1
	item.FinishedAt = time.Now()
	if ev.Result.Success {
		item.Status = model.StatusCompleted
		item.Percent = model.MaxPercent
		item.LastError = ""
		if ev.Result.OutputPath != "" {
			item.OutputDir = filepath.Dir(ev.Result.OutputPath)
			item.OutputFilename = filepath.Base(ev.Result.OutputPath)
		}
	} else {
		item.Status = model.StatusCancelled
		item.Percent = 0
		if !ev.Result.Aborted {
			item.LastError = ev.Result.Reason
		}
	}
	c.notifyFinished(item)
	c.admissionPass()
}

// cancel stops an item's task, waiting for its goroutine to exit
func (c *Controller) cancel(e *entry, admit bool) {
	wasDownloading := e.item.Status == model.StatusDownloading
	if e.task != nil {
		e.task.Abort()
		e.task.Wait()
		c.releaseTask(e)
	}

	e.item.Status = model.StatusCancelled
	e.item.Percent = 0
	e.item.Speed = 0
	e.item.ETASec = -1
	e.item.LastError = ""
	e.item.FinishedAt = time.Now()
	c.logger.Info("item cancelled", "item_id", e.item.ID, "was_downloading", wasDownloading)

	if wasDownloading {
		c.active = max(0, c.active-1)
		if admit {
			c.admissionPass()
		}
	}
}

// cancelAll flips Queued items first so freed slots are not refilled mid-way
func (c *Controller) cancelAll() {
	for _, e := range c.entries {
		if e.item.Status == model.StatusQueued && e.task == nil {
			c.cancel(e, false)
		}
	}
	for _, e := range c.entries {
		if e.item.Status == model.StatusDownloading {
			e.task.Abort()
		}
	}
	for _, e := range c.entries {
		if e.item.Status == model.StatusDownloading {
			c.cancel(e, false)
		}
	}
	c.admissionPass()
}

// requeue returns a Downloading item to the queue at its current position
func (c *Controller) requeue(e *entry) {
	if e.task != nil {
		e.task.Abort()
		e.task.Wait()
		c.releaseTask(e)
	}
	e.item.Status = model.StatusQueued
	e.item.Percent = 0
	e.item.Speed = 0
	e.item.ETASec = -1
	c.active = max(0, c.active-1)
}

func (c *Controller) remove(e *entry) {
	if e.item.Status.IsActive() {
		c.cancel(e, true)
	}
	c.entries = slices.DeleteFunc(c.entries, func(x *entry) bool { return x == e })
	c.insertOrder = slices.DeleteFunc(c.insertOrder, func(x *entry) bool { return x == e })
	c.logger.Info("item removed", "item_id", e.item.ID)
}

func (c *Controller) releaseTask(e *entry) {
	if e.task == nil {
		return
	}
	req := e.task.Request()
	delete(c.reserved, filepath.Join(req.OutputDir, req.Filename))
	e.task = nil
}

func (c *Controller) isReserved(path string) bool {
	_, ok := c.reserved[path]
	return ok
}

func (c *Controller) lookup(id string) (*entry, error) {
	if e := c.find(id); e != nil {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

func (c *Controller) find(id string) *entry {
	for _, e := range c.entries {
		if e.item.ID == id {
			return e
		}
	}
	return nil
}

func (c *Controller) findByURL(url string) *entry {
	for _, e := range c.entries {
		if e.item.URL == url {
			return e
		}
	}
	return nil
}

func (c *Controller) state() State {
	items := make([]model.QueueItem, 0, len(c.entries))
	for _, e := range c.entries {
		items = append(items, e.item.Clone())
	}
	return State{
		Items:       items,
		Active:      c.active,
		MaxParallel: c.opts.MaxParallel,
		Fetching:    c.fetch != nil,
	}
}

func (c *Controller) publish() {
	c.cbMutex.RLock()
	cb := c.onUpdate
	c.cbMutex.RUnlock()
	if cb != nil {
		cb(c.state())
	}
}

func (c *Controller) notifyFinished(item *model.QueueItem) {
	c.cbMutex.RLock()
	cb := c.onFinished
	c.cbMutex.RUnlock()
	if cb != nil {
		cb(item.Clone())
	}
}

func (c *Controller) shutdown() {
	if c.fetch != nil {
		c.stopFetch()
	}
	for _, e := range c.entries {
		if e.task != nil {
			e.task.Abort()
		}
	}
	for _, e := range c.entries {
		if e.item.Status.IsActive() {
			c.cancel(e, false)
		}
	}
	c.active = 0
	c.publish()
	c.logger.Info("queue controller stopped")
}

func clampParallel(n int) int {
	if n <= 0 {
		return DefaultMaxParallel
	}
	return max(MinParallel, min(MaxParallel, n))
}
