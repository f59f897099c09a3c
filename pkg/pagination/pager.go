package pagination

import (
	"context"

	"igfetch/pkg/ratelimit"
)

// Page is one page of a cursor-paginated listing. NextCursor is an opaque
// provider token passed back verbatim on the following fetch.
type Page[T any] struct {
	Items         []T
	MoreAvailable bool
	NextCursor    string
}

// FetchFunc fetches one page for a cursor; an empty cursor means the first
// page.
type FetchFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Pager is a pull-based lazy sequence over a cursor-paginated listing.
// It fetches pages on demand, yields items in source order, honors an item
// cap the instant it is reached (issuing no further fetch, even mid-page),
// and sleeps a randomized delay between consecutive fetches. Fetch errors
// surface through Err and end the sequence; retrying is the caller's call.
//
// A Pager is single-use and not safe for concurrent use.
type Pager[T any] struct {
	ctx   context.Context
	fetch FetchFunc[T]
	delay ratelimit.DelayWindow
	limit int

	buf     []T
	cursor  string
	more    bool
	fetched bool
	yielded int
	current T
	err     error
	done    bool
}

// Option configures a Pager.
type Option func(*options)

type options struct {
	limit int
	delay ratelimit.DelayWindow
}

// WithLimit caps the number of yielded items; zero means no cap.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// WithDelay sets the randomized inter-fetch delay window.
func WithDelay(w ratelimit.DelayWindow) Option {
	return func(o *options) { o.delay = w }
}

// New creates a Pager over fetch.
func New[T any](ctx context.Context, fetch FetchFunc[T], opts ...Option) *Pager[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Pager[T]{
		ctx:   ctx,
		fetch: fetch,
		delay: o.delay,
		limit: o.limit,
	}
}

// Next advances to the next item. It returns false when the sequence is
// exhausted or failed; check Err afterwards.
func (p *Pager[T]) Next() bool {
	if p.done {
		return false
	}
	if p.limit > 0 && p.yielded >= p.limit {
		p.done = true
		return false
	}

	for len(p.buf) == 0 {
		if p.fetched && !p.more {
			p.done = true
			return false
		}
		if err := p.ctx.Err(); err != nil {
			p.err = err
			p.done = true
			return false
		}
		if p.fetched {
			// Pacing between page fetches, not before the first one.
			if err := p.delay.Sleep(p.ctx); err != nil {
				p.err = err
				p.done = true
				return false
			}
		}

		page, err := p.fetch(p.ctx, p.cursor)
		if err != nil {
			p.err = err
			p.done = true
			return false
		}
		p.fetched = true
		p.buf = page.Items
		p.cursor = page.NextCursor
		p.more = page.MoreAvailable && page.NextCursor != ""
	}

	p.current = p.buf[0]
	p.buf = p.buf[1:]
	p.yielded++
	return true
}

// Item returns the item produced by the last successful Next call.
func (p *Pager[T]) Item() T {
	return p.current
}

// Err returns the error that terminated the sequence, if any.
func (p *Pager[T]) Err() error {
	return p.err
}

// Yielded returns the number of items produced so far.
func (p *Pager[T]) Yielded() int {
	return p.yielded
}
