package model

// ItemStatus represents where a queue item is in its download lifecycle
type ItemStatus string

const (
	// StatusPending means the item was added and is waiting for a user action
	StatusPending ItemStatus = "Pending"

	// StatusQueued means the item waits for a free download slot
	StatusQueued ItemStatus = "Queued"

	// StatusDownloading means a download task is running for the item
	StatusDownloading ItemStatus = "Downloading"

	// StatusCompleted means the file was downloaded and merged
	StatusCompleted ItemStatus = "Completed"

	// StatusCancelled covers user cancellation and failed downloads alike.
	// A failure reason, if any, is kept in QueueItem.LastError.
	StatusCancelled ItemStatus = "Cancelled"
)

// String returns the string representation of ItemStatus
func (s ItemStatus) String() string {
	return string(s)
}

// IsActive returns true while the item holds or waits for a download slot
func (s ItemStatus) IsActive() bool {
	return s == StatusQueued || s == StatusDownloading
}

// IsStartable returns true if the item may be (re)started or have its resolution changed
func (s ItemStatus) IsStartable() bool {
	return s == StatusPending || s == StatusCancelled
}

// IsFinished returns true if the item reached a terminal state
func (s ItemStatus) IsFinished() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Rank orders statuses by lifecycle stage, used when sorting the queue
func (s ItemStatus) Rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusQueued:
		return 1
	case StatusDownloading:
		return 2
	case StatusCompleted:
		return 3
	case StatusCancelled:
		return 4
	default:
		return 5
	}
}
