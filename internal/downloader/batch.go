package downloader

import (
	"context"
	"time"

	"igfetch/pkg/media"
)

// Progress is handed to the batch callback before and after each item.
type Progress struct {
	Completed       int
	Total           int
	CurrentFilename string
}

// Failure is one failed item of a batch.
type Failure struct {
	Filename string
	Err      error
}

// BatchOptions controls a batch run.
type BatchOptions struct {
	// Only restricts the batch to one asset kind. Empty means both.
	Only media.Kind
	// MinDelay is the fixed pause between consecutive downloads.
	MinDelay time.Duration
	// OnProgress, when set, is called before and after each item.
	OnProgress func(Progress)
}

// BatchReport summarizes a batch run. Failures never abort the batch;
// they accumulate here.
type BatchReport struct {
	Total     int
	Completed int
	Skipped   int
	Results   []Result
	Failures  []Failure
}

// DownloadBatch downloads descriptors sequentially. The kind filter is
// applied before totals, so Progress.Total reflects only what will
// actually run. Cancelling the context marks the remaining items as
// interrupted failures and returns.
func (m *Manager) DownloadBatch(ctx context.Context, ds []media.Descriptor, opts BatchOptions) BatchReport {
	var queue []media.Descriptor
	for _, d := range ds {
		if opts.Only != "" && d.Kind != opts.Only {
			continue
		}
		queue = append(queue, d)
	}

	report := BatchReport{Total: len(queue)}

	for i, d := range queue {
		if i > 0 && opts.MinDelay > 0 {
			select {
			case <-time.After(opts.MinDelay):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			for _, rest := range queue[i:] {
				report.Failures = append(report.Failures, Failure{
					Filename: rest.Filename,
					Err:      ctx.Err(),
				})
			}
			return report
		}

		notify(opts.OnProgress, Progress{
			Completed:       report.Completed,
			Total:           report.Total,
			CurrentFilename: d.Filename,
		})

		result := m.Download(ctx, d)
		report.Results = append(report.Results, result)
		if result.Failed() {
			report.Failures = append(report.Failures, Failure{
				Filename: d.Filename,
				Err:      result.Task.Err,
			})
		} else {
			report.Completed++
			if result.Skipped {
				report.Skipped++
			}
		}

		notify(opts.OnProgress, Progress{
			Completed:       report.Completed,
			Total:           report.Total,
			CurrentFilename: d.Filename,
		})
	}

	return report
}

func notify(fn func(Progress), p Progress) {
	if fn != nil {
		fn(p)
	}
}
