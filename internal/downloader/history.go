package downloader

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"
	"time"

	"igfetch/pkg/errors"
)

// Record is one terminal task as persisted to the history file.
type Record struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	Kind       string    `json:"kind"`
	Status     Status    `json:"status"`
	Bytes      int64     `json:"bytes"`
	Skipped    bool      `json:"skipped,omitempty"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// History is an append-only JSON-lines log of finished downloads. A
// History with an empty path discards everything.
type History struct {
	path string
	mu   sync.Mutex
}

func NewHistory(path string) *History {
	return &History{path: path}
}

// Append writes one record as a single JSON line.
func (h *History) Append(rec Record) error {
	if h.path == "" {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(errors.KindGeneric, err, "failed to open history file")
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(rec)
}

// Load reads all records. A missing file is an empty history, not an
// error; unparsable lines are skipped.
func (h *History) Load() ([]Record, error) {
	if h.path == "" {
		return nil, nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindGeneric, err, "failed to open history file")
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, errors.Wrap(errors.KindGeneric, err, "failed to read history file")
	}
	return records, nil
}

// record converts a result into its history record and appends it. Append
// failures are logged, never surfaced; history must not fail a download.
func (m *Manager) record(r Result) {
	rec := Record{
		ID:         r.Task.ID,
		URL:        r.Task.Descriptor.URL,
		Filename:   r.Task.Descriptor.Filename,
		Path:       r.Task.Path,
		Kind:       string(r.Task.Descriptor.Kind),
		Status:     r.Task.Status,
		Bytes:      r.Bytes,
		Skipped:    r.Skipped,
		StartedAt:  r.Task.StartedAt,
		FinishedAt: r.Task.FinishedAt,
	}
	if r.Task.Err != nil {
		rec.Error = r.Task.Err.Error()
	}
	if err := m.history.Append(rec); err != nil {
		m.logger.WithError(err).Warn("failed to append history record")
	}
}
