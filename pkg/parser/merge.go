package parser

import (
	"container/heap"
	"context"
	"errors"
	"io"
)

// MergedSource combines multiple LogSources into a single stream ordered
// by timestamp (oldest first). Only one line per source is held at a time;
// a source is read again only when the line after its last returned line
// is needed.
type MergedSource struct {
	sources     []LogSource
	heap        *lineHeap
	initialized bool

	// refill is the source whose head was last returned, or -1.
	refill int
}

// NewMergedSource creates a LogSource that merges multiple sources by timestamp.
func NewMergedSource(sources ...LogSource) *MergedSource {
	return &MergedSource{
		sources: sources,
		heap:    &lineHeap{},
		refill:  -1,
	}
}

// Next returns the smallest pending line across all sources, in the order
// defined by lineLess. Returns io.EOF when all sources are exhausted.
func (m *MergedSource) Next(ctx context.Context) (*ParsedLine, error) {
	if !m.initialized {
		if err := m.initHeap(ctx); err != nil {
			return nil, err
		}
		m.initialized = true
	}

	if m.refill >= 0 {
		if err := m.refillFrom(ctx, m.refill); err != nil {
			// refill stays set so a retry reads the same source again.
			return nil, err
		}
		m.refill = -1
	}

	if m.heap.Len() == 0 {
		return nil, io.EOF
	}

	// Pop the smallest line
	item := heap.Pop(m.heap).(*heapItem)
	m.refill = item.sourceIdx

	return item.line, nil
}

// refillFrom pushes the next line of source i, if it has one.
func (m *MergedSource) refillFrom(ctx context.Context, i int) error {
	line, err := m.sources[i].Next(ctx)
	if errors.Is(err, io.EOF) {
		return nil // Source exhausted
	}
	if err != nil {
		return err
	}

	heap.Push(m.heap, &heapItem{
		line:      line,
		sourceIdx: i,
	})
	return nil
}

// initHeap reads the first line from each source to initialize the heap.
func (m *MergedSource) initHeap(ctx context.Context) error {
	heap.Init(m.heap)

	for i := range m.sources {
		if err := m.refillFrom(ctx, i); err != nil {
			return err
		}
	}

	return nil
}

// Close releases all source resources.
func (m *MergedSource) Close() error {
	var firstErr error
	for _, src := range m.sources {
		if err := src.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// lineLess is the merge order. A line without a timestamp sorts before any
// line with one. Equal timestamps, and pairs of lines without one, are
// ordered by their rendered text.
func lineLess(a, b *ParsedLine) bool {
	aHas, bHas := a.HasTimestamp(), b.HasTimestamp()
	if aHas != bHas {
		return !aHas
	}
	if aHas && !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	return a.Text < b.Text
}

// heapItem wraps a ParsedLine with its source index for the priority queue.
type heapItem struct {
	line      *ParsedLine
	sourceIdx int
}

// lineHeap implements heap.Interface ordered by lineLess.
type lineHeap []*heapItem

func (h lineHeap) Len() int { return len(h) }

func (h lineHeap) Less(i, j int) bool {
	return lineLess(h[i].line, h[j].line)
}

func (h lineHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *lineHeap) Push(x interface{}) {
	*h = append(*h, x.(*heapItem))
}

func (h *lineHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}
