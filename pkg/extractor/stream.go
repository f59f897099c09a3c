package extractor

import (
	"context"

	"igfetch/pkg/instagram"
	"igfetch/pkg/media"
	"igfetch/pkg/pagination"
)

// Stream is a lazy, finite-per-call sequence of media descriptors. It is
// pull-based: consumers call Next and may stop at any point without the
// producer doing work past the last consumed item. A Stream is single-use
// and not restartable.
type Stream struct {
	pull func() (*media.Descriptor, error)
	cur  *media.Descriptor
	err  error
	done bool
}

// Next advances the stream. It returns false at the end of the sequence or
// on error; check Err afterwards.
func (s *Stream) Next() bool {
	if s.done {
		return false
	}
	d, err := s.pull()
	if err != nil {
		s.err = err
		s.done = true
		return false
	}
	if d == nil {
		s.done = true
		return false
	}
	s.cur = d
	return true
}

// Descriptor returns the descriptor produced by the last successful Next.
func (s *Stream) Descriptor() *media.Descriptor {
	return s.cur
}

// Err returns the error that terminated the stream, if any.
func (s *Stream) Err() error {
	return s.err
}

// Collect drains the stream into a slice. Intended for callers that want
// the whole sequence anyway, and for tests.
func (s *Stream) Collect() ([]media.Descriptor, error) {
	var out []media.Descriptor
	for s.Next() {
		out = append(out, *s.Descriptor())
	}
	return out, s.Err()
}

// newSliceStream wraps an already-materialized descriptor list. A limit of
// zero means no limit.
func newSliceStream(items []media.Descriptor, limit int) *Stream {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	i := 0
	return &Stream{pull: func() (*media.Descriptor, error) {
		if i >= len(items) {
			return nil, nil
		}
		d := &items[i]
		i++
		return d, nil
	}}
}

// newPagedStream flattens a pager of raw posts into descriptors, applying
// the item limit at descriptor granularity. The limit is checked once per
// yielded item: reaching it stops pulling from the pager, so no further
// page fetch is issued.
func newPagedStream(pager *pagination.Pager[*instagram.RawPost], normalize func(*instagram.RawPost) []media.Descriptor, limit int) *Stream {
	var buf []media.Descriptor
	yielded := 0

	return &Stream{pull: func() (*media.Descriptor, error) {
		if limit > 0 && yielded >= limit {
			return nil, nil
		}
		for len(buf) == 0 {
			if !pager.Next() {
				return nil, pager.Err()
			}
			buf = normalize(pager.Item())
		}
		d := buf[0]
		buf = buf[1:]
		yielded++
		return &d, nil
	}}
}

// newChainStream concatenates streams produced lazily by factories; each
// factory runs only once the previous stream is exhausted. Used by the
// all-highlights fan-out.
func newChainStream(ctx context.Context, factories []func(ctx context.Context) (*Stream, error), limit int) *Stream {
	var current *Stream
	idx := 0
	yielded := 0

	return &Stream{pull: func() (*media.Descriptor, error) {
		if limit > 0 && yielded >= limit {
			return nil, nil
		}
		for {
			if current == nil {
				if idx >= len(factories) {
					return nil, nil
				}
				s, err := factories[idx](ctx)
				idx++
				if err != nil {
					return nil, err
				}
				current = s
			}
			if current.Next() {
				yielded++
				return current.Descriptor(), nil
			}
			if err := current.Err(); err != nil {
				return nil, err
			}
			current = nil
		}
	}}
}
