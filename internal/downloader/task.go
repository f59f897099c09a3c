package downloader

import (
	"time"

	"github.com/google/uuid"

	"igfetch/pkg/media"
)

// Status is the lifecycle state of a download task. Transitions are
// monotonic: pending, downloading, then exactly one of completed or
// failed.
type Status string

const (
	StatusPending     Status = "pending"
	StatusDownloading Status = "downloading"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

// Task tracks one asset download from creation to its terminal state.
type Task struct {
	ID         string
	Descriptor media.Descriptor
	Path       string
	Status     Status
	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
}

func newTask(d media.Descriptor, path string) Task {
	return Task{
		ID:         uuid.NewString(),
		Descriptor: d,
		Path:       path,
		Status:     StatusPending,
	}
}

// Result is the outcome of a single download. Err is carried inside the
// task; a failed download is a result, not a caller error.
type Result struct {
	Task    Task
	Bytes   int64
	Skipped bool
}

// Failed reports whether the task ended in the failed state.
func (r Result) Failed() bool {
	return r.Task.Status == StatusFailed
}
