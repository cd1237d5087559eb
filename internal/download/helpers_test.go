package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-queue/internal/model"
)

const waitTimeout = 3 * time.Second

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFFmpeg creates an empty file that passes the merge tool check
func fakeFFmpeg(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))
	return path
}

// job is one Download call held by fakeRunner until the test finishes it
type job struct {
	req    Request
	report func(Progress) bool
	finish chan error
}

func (j *job) complete()           { j.finish <- nil }
func (j *job) fail(err error)      { j.finish <- err }
func (j *job) progress(p int) bool { return j.report(Progress{Percent: p, Speed: 1024}) }

// fakeRunner blocks every download until released or aborted
type fakeRunner struct {
	jobs    chan *job
	explode bool
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{jobs: make(chan *job, 100)}
}

func (r *fakeRunner) Download(ctx context.Context, req Request, report func(Progress) bool) (string, error) {
	if r.explode {
		panic("runner exploded")
	}
	j := &job{req: req, report: report, finish: make(chan error, 1)}
	r.jobs <- j
	select {
	case err := <-j.finish:
		if err != nil {
			return "", err
		}
		return filepath.Join(req.OutputDir, req.Filename), nil
	case <-ctx.Done():
		return "", ErrAborted
	}
}

func (r *fakeRunner) next(t *testing.T) *job {
	t.Helper()
	select {
	case j := <-r.jobs:
		return j
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for a download to start")
		return nil
	}
}

func (r *fakeRunner) expectIdle(t *testing.T) {
	t.Helper()
	select {
	case j := <-r.jobs:
		t.Fatalf("unexpected download started: %s", j.req.URL)
	case <-time.After(100 * time.Millisecond):
	}
}

// fakeProvider serves canned metadata per link
type fakeProvider struct {
	mu      sync.Mutex
	infos   map[string][]model.VideoInfo
	errs    map[string]error
	block   chan struct{} // when set, FetchInfo waits on it or ctx
	fetched []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{infos: map[string][]model.VideoInfo{}, errs: map[string]error{}}
}

func (p *fakeProvider) FetchInfo(ctx context.Context, link string) ([]model.VideoInfo, error) {
	p.mu.Lock()
	p.fetched = append(p.fetched, link)
	block := p.block
	infos, err := p.infos[link], p.errs[link]
	p.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if infos == nil {
		return nil, fmt.Errorf("no info for %s", link)
	}
	return infos, nil
}

func mp4Format(id string, height int) model.Format {
	return model.Format{ID: id, Height: height, Container: model.ContainerMP4, HasVideo: true, FileSize: int64(height) * 1000}
}

func video(n int) model.VideoInfo {
	return model.VideoInfo{
		URL:   fmt.Sprintf("https://www.youtube.com/watch?v=video%d", n),
		Title: fmt.Sprintf("Video %d", n),
		Formats: []model.Format{
			mp4Format("22", 720),
			mp4Format("18", 360),
		},
	}
}

func videos(n int) []model.VideoInfo {
	out := make([]model.VideoInfo, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, video(i))
	}
	return out
}

type testQueue struct {
	*Controller
	runner *fakeRunner
	dir    string

	mu       sync.Mutex
	history  []State
	finished []model.QueueItem
}

func newTestQueue(t *testing.T, maxParallel int, provider InfoProvider) *testQueue {
	t.Helper()
	runner := newFakeRunner()
	dir := t.TempDir()
	c := NewController(Options{
		MaxParallel:       maxParallel,
		DownloadDir:       dir,
		DefaultResolution: "720p",
		FFmpegPath:        fakeFFmpeg(t),
	}, runner, provider, quietLogger())

	q := &testQueue{Controller: c, runner: runner, dir: dir}
	c.SetUpdateCallback(func(s State) {
		q.mu.Lock()
		q.history = append(q.history, s)
		q.mu.Unlock()
	})
	c.SetFinishedCallback(func(item model.QueueItem) {
		q.mu.Lock()
		q.finished = append(q.finished, item)
		q.mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = c.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-c.Stopped()
	})
	return q
}

func (q *testQueue) snapshot(t *testing.T) State {
	t.Helper()
	s, err := q.Snapshot()
	require.NoError(t, err)
	return s
}

func (q *testQueue) waitFor(t *testing.T, cond func(State) bool, msg string) State {
	t.Helper()
	var last State
	require.Eventually(t, func() bool {
		s, err := q.Snapshot()
		if err != nil {
			return false
		}
		last = s
		return cond(s)
	}, waitTimeout, 10*time.Millisecond, msg)
	return last
}

func (q *testQueue) states() []State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]State(nil), q.history...)
}

func (q *testQueue) finishedItems() []model.QueueItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]model.QueueItem(nil), q.finished...)
}

func itemByURL(s State, url string) model.QueueItem {
	for _, it := range s.Items {
		if it.URL == url {
			return it
		}
	}
	return model.QueueItem{}
}

func statusOf(s State, url string) model.ItemStatus {
	return itemByURL(s, url).Status
}

func titles(s State) []string {
	out := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, it.Title)
	}
	return out
}
