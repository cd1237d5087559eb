package download

import (
	"context"
	"fmt"
	"time"
)

// FetchSummary describes a finished metadata fetch batch
type FetchSummary struct {
	Links   int
	Added   int
	Failed  int // links that produced no usable record
	Aborted bool
}

// fetchBatch is one running metadata fetch. Links are processed sequentially.
type fetchBatch struct {
	id      int
	links   int
	added   int
	failed  int
	started time.Time
	cancel  context.CancelFunc
	done    chan struct{}
}

// StartFetch resolves links on a background goroutine and adds the resulting
// records to the queue as they arrive. Only one batch runs at a time.
func (c *Controller) StartFetch(links []string) error {
	return c.do(func() error {
		if c.provider == nil {
			return ErrNoProvider
		}
		if c.fetch != nil {
			return ErrFetchBusy
		}
		if len(links) == 0 {
			return fmt.Errorf("no links to fetch")
		}

		ctx, cancel := context.WithCancel(context.Background())
		c.nextBatchID++
		b := &fetchBatch{
			id:      c.nextBatchID,
			links:   len(links),
			started: time.Now(),
			cancel:  cancel,
			done:    make(chan struct{}),
		}
		c.fetch = b
		c.logger.Info("fetching info", "batch", b.id, "links", len(links))

		go runFetch(ctx, b, c.provider, append([]string(nil), links...), c.events)
		return nil
	})
}

// StopFetch aborts the running fetch batch and waits for it to return.
// Records already received stay in the queue.
func (c *Controller) StopFetch() error {
	return c.do(func() error {
		c.stopFetch()
		return nil
	})
}

func runFetch(ctx context.Context, b *fetchBatch, provider InfoProvider, links []string, events chan<- Event) {
	defer close(b.done)

	send := func(ev Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for _, link := range links {
		if ctx.Err() != nil {
			return
		}
		infos, err := provider.FetchInfo(ctx, link)
		if ctx.Err() != nil {
			return
		}
		if !send(fetchResultEvent{batchID: b.id, link: link, infos: infos, err: err}) {
			return
		}
	}
	send(fetchDoneEvent{batchID: b.id})
}

func (c *Controller) onFetchResult(ev fetchResultEvent) {
	b := c.fetch
	if b == nil || b.id != ev.batchID {
		return
	}
	if ev.err != nil || len(ev.infos) == 0 {
		b.failed++
		c.logger.Warn("info fetch failed", "link", ev.link, "error", ev.err)
		return
	}
	b.added += c.add(ev.infos)
}

func (c *Controller) onFetchDone(ev fetchDoneEvent) {
	b := c.fetch
	if b == nil || b.id != ev.batchID {
		return
	}
	c.finishFetch(false)
}

func (c *Controller) stopFetch() {
	b := c.fetch
	if b == nil {
		return
	}
	b.cancel()
	<-b.done
	c.finishFetch(true)
}

func (c *Controller) finishFetch(aborted bool) {
	b := c.fetch
	b.cancel()
	c.fetch = nil

	summary := FetchSummary{Links: b.links, Added: b.added, Failed: b.failed, Aborted: aborted}
	c.logger.Info("info fetch finished",
		"batch", b.id, "added", b.added, "failed", b.failed, "aborted", aborted,
		"elapsed", time.Since(b.started).Round(time.Millisecond))

	c.cbMutex.RLock()
	cb := c.onFetched
	c.cbMutex.RUnlock()
	if cb != nil {
		cb(summary)
	}
}
