package pagination

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedFetch fakes a provider listing split into fixed pages.
func pagedFetch(pages [][]int, calls *int) FetchFunc[int] {
	cursors := make(map[string]int)
	for i := range pages {
		cursors[fmt.Sprintf("c%d", i)] = i
	}
	return func(ctx context.Context, cursor string) (Page[int], error) {
		*calls++
		idx := 0
		if cursor != "" {
			idx = cursors[cursor]
		}
		page := Page[int]{Items: pages[idx]}
		if idx+1 < len(pages) {
			page.MoreAvailable = true
			page.NextCursor = fmt.Sprintf("c%d", idx+1)
		}
		return page, nil
	}
}

func collect(p *Pager[int]) []int {
	var out []int
	for p.Next() {
		out = append(out, p.Item())
	}
	return out
}

func TestPagerYieldsAllPagesInOrder(t *testing.T) {
	calls := 0
	p := New(context.Background(), pagedFetch([][]int{{1, 2, 3}, {4, 5}, {6}}, &calls))

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, collect(p))
	assert.NoError(t, p.Err())
	assert.Equal(t, 3, calls)
}

func TestPagerStopsWhenNoMoreAvailable(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, cursor string) (Page[int], error) {
		calls++
		return Page[int]{Items: []int{1, 2}, MoreAvailable: false, NextCursor: "ignored"}, nil
	}
	p := New(context.Background(), fetch)

	assert.Equal(t, []int{1, 2}, collect(p))
	assert.Equal(t, 1, calls, "no fetch beyond the final page")
}

func TestPagerStopsOnMissingCursor(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, cursor string) (Page[int], error) {
		calls++
		return Page[int]{Items: []int{1}, MoreAvailable: true, NextCursor: ""}, nil
	}
	p := New(context.Background(), fetch)

	assert.Equal(t, []int{1}, collect(p))
	assert.Equal(t, 1, calls, "more_available without a cursor ends the sequence")
}

func TestPagerItemCapMidPage(t *testing.T) {
	calls := 0
	p := New(context.Background(), pagedFetch([][]int{{1, 2, 3}, {4, 5}}, &calls), WithLimit(2))

	assert.Equal(t, []int{1, 2}, collect(p))
	assert.Equal(t, 1, calls, "cap reached mid-page issues no further fetch")
	assert.NoError(t, p.Err())
}

func TestPagerItemCapAtPageBoundary(t *testing.T) {
	calls := 0
	p := New(context.Background(), pagedFetch([][]int{{1, 2, 3}, {4, 5}}, &calls), WithLimit(3))

	assert.Equal(t, []int{1, 2, 3}, collect(p))
	assert.Equal(t, 1, calls, "no fetch beyond the one producing the capped item")
}

func TestPagerPropagatesFetchError(t *testing.T) {
	wantErr := errors.New("boom")
	fetch := func(ctx context.Context, cursor string) (Page[int], error) {
		if cursor == "" {
			return Page[int]{Items: []int{1}, MoreAvailable: true, NextCursor: "next"}, nil
		}
		return Page[int]{}, wantErr
	}
	p := New(context.Background(), fetch)

	assert.Equal(t, []int{1}, collect(p))
	assert.ErrorIs(t, p.Err(), wantErr)
	assert.False(t, p.Next(), "sequence stays terminated after an error")
}

func TestPagerSkipsEmptyPages(t *testing.T) {
	calls := 0
	p := New(context.Background(), pagedFetch([][]int{{}, {1}, {}, {2}}, &calls))

	assert.Equal(t, []int{1, 2}, collect(p))
	assert.Equal(t, 4, calls)
}

func TestPagerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetch := func(ctx context.Context, cursor string) (Page[int], error) {
		return Page[int]{Items: []int{1}, MoreAvailable: true, NextCursor: "n"}, nil
	}
	p := New(ctx, fetch)

	require.True(t, p.Next())
	cancel()
	assert.False(t, p.Next())
	assert.ErrorIs(t, p.Err(), context.Canceled)
}

func TestPagerNeverReyields(t *testing.T) {
	calls := 0
	p := New(context.Background(), pagedFetch([][]int{{1, 2}, {3, 4}}, &calls))

	seen := make(map[int]int)
	for p.Next() {
		seen[p.Item()]++
	}
	for item, count := range seen {
		assert.Equal(t, 1, count, "item %d yielded more than once", item)
	}
	assert.Equal(t, 4, p.Yielded())
}
