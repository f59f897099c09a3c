package downloader

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"igfetch/pkg/errors"
	"igfetch/pkg/logger"
	"igfetch/pkg/media"
)

// Fetcher streams one remote asset. Satisfied by instagram.Client.
type Fetcher interface {
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// Config carries the manager's fixed settings.
type Config struct {
	// Directory is the output directory; created on construction.
	Directory string
	// OverwriteExisting disables skip-by-target-path duplicate detection.
	OverwriteExisting bool
	// Timeout bounds each individual download. Zero means no limit.
	Timeout time.Duration
	// HistoryFile is the JSON-lines record of terminal tasks. Empty
	// disables history.
	HistoryFile string
}

// Manager downloads media assets to disk. Files are written through a
// temporary sibling and renamed into place, so a crashed download never
// leaves a partial file under the final name.
type Manager struct {
	fetcher Fetcher
	cfg     Config
	history *History
	logger  logger.Logger

	mu       sync.Mutex
	inFlight map[string]context.CancelFunc
}

// NewManager creates a Manager, creating the output directory if needed.
func NewManager(fetcher Fetcher, cfg Config, log logger.Logger) (*Manager, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
		return nil, errors.Wrap(errors.KindDownloadFailed, err, "failed to create output directory")
	}
	return &Manager{
		fetcher:  fetcher,
		cfg:      cfg,
		history:  NewHistory(cfg.HistoryFile),
		logger:   log,
		inFlight: make(map[string]context.CancelFunc),
	}, nil
}

// History exposes the manager's history store.
func (m *Manager) History() *History {
	return m.history
}

// Download fetches one asset and writes it under the descriptor's
// filename. It never returns an error to the caller: failures end up in
// the result's task. Every terminal task is appended to history, win or
// lose.
func (m *Manager) Download(ctx context.Context, d media.Descriptor) Result {
	task := newTask(d, filepath.Join(m.cfg.Directory, d.Filename))
	result := Result{Task: task}

	if !m.cfg.OverwriteExisting {
		if _, err := os.Stat(task.Path); err == nil {
			m.logger.DebugWithFields("skipping existing file", map[string]interface{}{
				"path": task.Path,
			})
			result.Task.Status = StatusCompleted
			result.Skipped = true
			m.record(result)
			return result
		}
	}

	ctx, cancel := m.register(task.ID, ctx)
	defer cancel()

	result.Task.Status = StatusDownloading
	result.Task.StartedAt = time.Now()

	n, err := m.fetchToFile(ctx, d.URL, task.Path)
	result.Bytes = n
	result.Task.FinishedAt = time.Now()

	fields := map[string]interface{}{
		"filename": d.Filename,
		"kind":     string(d.Kind),
		"bytes":    n,
	}
	if err != nil {
		result.Task.Status = StatusFailed
		result.Task.Err = classifyDownloadError(ctx, err)
		m.logger.WithError(result.Task.Err).ErrorWithFields("download failed", fields)
	} else {
		result.Task.Status = StatusCompleted
		m.logger.InfoWithFields("download completed", fields)
	}

	m.record(result)
	return result
}

// register derives the per-task context, applying the configured timeout
// and keeping a cancel handle for CancelAll.
func (m *Manager) register(id string, ctx context.Context) (context.Context, context.CancelFunc) {
	var cancel context.CancelFunc
	if m.cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	m.mu.Lock()
	m.inFlight[id] = cancel
	m.mu.Unlock()

	return ctx, func() {
		m.mu.Lock()
		delete(m.inFlight, id)
		m.mu.Unlock()
		cancel()
	}
}

// CancelAll cancels every in-flight download. Finished tasks are
// unaffected; interrupted ones fail with a download_interrupted error.
func (m *Manager) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cancel := range m.inFlight {
		cancel()
	}
}

// fetchToFile streams the asset into path via a temporary sibling file,
// renaming only after a complete write.
func (m *Manager) fetchToFile(ctx context.Context, url, path string) (int64, error) {
	body, err := m.fetcher.Download(ctx, url)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return 0, errors.Wrap(errors.KindDownloadFailed, err, "failed to create temporary file")
	}

	n, copyErr := io.Copy(out, body)
	closeErr := out.Close()

	if copyErr != nil {
		os.Remove(tmp)
		return n, copyErr
	}
	if closeErr != nil {
		os.Remove(tmp)
		return n, errors.Wrap(errors.KindDownloadFailed, closeErr, "failed to close file")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return n, errors.Wrap(errors.KindDownloadFailed, err, "failed to move file into place")
	}
	return n, nil
}

// classifyDownloadError maps an interrupted context onto the interrupted
// kind; everything else is a download failure unless it already carries a
// kind.
func classifyDownloadError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return errors.Wrap(errors.KindDownloadInterrupted, err, "download interrupted")
	}
	if errors.KindOf(err) != errors.KindGeneric {
		return err
	}
	return errors.Wrap(errors.KindDownloadFailed, err, "download failed")
}
