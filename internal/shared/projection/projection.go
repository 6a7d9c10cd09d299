package projection

import "time"

// Metadata captures how fresh a working set is.
type Metadata struct {
	LoadedAt            time.Time
	Revision            uint64
	LastError           error
	LastErrorAt         time.Time
	ConsecutiveFailures int
}

// Projection is a working set plus refresh metadata.
type Projection[T any] struct {
	Items    []T
	Metadata Metadata
}

// Replace swaps the whole working set and clears failure state.
func (p *Projection[T]) Replace(items []T, now time.Time) {
	p.Items = items
	p.Metadata.LoadedAt = now
	p.Metadata.Revision++
	p.Metadata.LastError = nil
	p.Metadata.ConsecutiveFailures = 0
}

// Fail records a refresh failure. Items are left as they were.
func (p *Projection[T]) Fail(err error, now time.Time) {
	p.Metadata.LastError = err
	p.Metadata.LastErrorAt = now
	p.Metadata.ConsecutiveFailures++
}

// Stale reports whether the last refresh attempt failed.
func (p Projection[T]) Stale() bool {
	return p.Metadata.ConsecutiveFailures > 0
}

// Clone copies the item slice using clone for each element.
func (p Projection[T]) Clone(clone func(T) T) Projection[T] {
	out := Projection[T]{Metadata: p.Metadata}
	if p.Items == nil {
		return out
	}
	out.Items = make([]T, len(p.Items))
	for i, item := range p.Items {
		if clone != nil {
			item = clone(item)
		}
		out.Items[i] = item
	}
	return out
}
