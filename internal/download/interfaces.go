package download

import (
	"context"

	"github.com/ytget/yt-queue/internal/model"
)

// Queue is the command surface the presentation layer drives.
type Queue interface {
	SetUpdateCallback(func(State))
	SetFinishedCallback(func(model.QueueItem))
	SetFetchDoneCallback(func(FetchSummary))

	Add(infos ...model.VideoInfo) (int, error)
	StartFetch(links []string) error
	StopFetch() error

	EnqueueAll() error
	StartSingle(id string) error
	Cancel(id string) error
	CancelAll() error
	Remove(id string) error
	ClearCompleted() (int, error)

	SetResolution(id, resolution string) error
	SortBy(key SortKey, ascending bool) error
	ResetOrder() error

	// SetMaxParallel sets the maximum number of parallel downloads
	SetMaxParallel(n int) error

	// SetDownloadDirectory sets the folder used by downloads started afterwards
	SetDownloadDirectory(dir string) error

	// SetDefaultResolution sets the resolution preselected for new items
	SetDefaultResolution(resolution string) error

	Snapshot() (State, error)
}

// Runner performs the actual download+merge of one video. report is called
// periodically; returning false asks the runner to stop as soon as possible.
// The returned string is the path of the written file.
type Runner interface {
	Download(ctx context.Context, req Request, report func(Progress) bool) (string, error)
}

// InfoProvider resolves a link to one or more metadata records
type InfoProvider interface {
	FetchInfo(ctx context.Context, link string) ([]model.VideoInfo, error)
}

var _ Queue = (*Controller)(nil)
