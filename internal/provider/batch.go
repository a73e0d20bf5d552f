package provider

import (
	"errors"
	"fmt"
)

// Status distinguishes a source that answered from one that could not be reached.
type Status int

const (
	// StatusOK means at least one item was extracted.
	StatusOK Status = iota
	// StatusEmpty means the source answered with nothing to extract.
	StatusEmpty
	// StatusUnavailable means the source (or every per-item request) failed.
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Failure records one item (row, team, page) that was dropped from a batch.
type Failure struct {
	Key string
	Err error
}

func (f Failure) String() string { return fmt.Sprintf("%s: %v", f.Key, f.Err) }

// Batch is the result of a multi-item extraction. Items holds what was
// extracted in request order, Failures the per-item errors that did not stop
// the batch, and Err a whole-source failure.
type Batch[T any] struct {
	Items    []T
	Failures []Failure
	Err      error
}

// Unavailable returns an empty batch marking the whole source as failed.
func Unavailable[T any](err error) Batch[T] {
	return Batch[T]{Err: err}
}

// Add appends an extracted item.
func (b *Batch[T]) Add(items ...T) {
	b.Items = append(b.Items, items...)
}

// Fail records a dropped item.
func (b *Batch[T]) Fail(key string, err error) {
	b.Failures = append(b.Failures, Failure{Key: key, Err: err})
}

// Status reports whether callers may treat Items as the source's answer.
// A batch where every attempted item failed is as unavailable as one whose
// source could not be reached.
func (b Batch[T]) Status() Status {
	switch {
	case b.Err != nil:
		return StatusUnavailable
	case len(b.Items) > 0:
		return StatusOK
	case len(b.Failures) > 0:
		return StatusUnavailable
	default:
		return StatusEmpty
	}
}

// Error joins the whole-source error and every item failure, or returns nil.
func (b Batch[T]) Error() error {
	errs := make([]error, 0, len(b.Failures)+1)
	if b.Err != nil {
		errs = append(errs, b.Err)
	}
	for _, f := range b.Failures {
		errs = append(errs, fmt.Errorf("%s: %w", f.Key, f.Err))
	}
	return errors.Join(errs...)
}

// Merge appends other's items and failures. A whole-source error in other is
// kept as a failure under key so sibling batches stay usable.
func (b *Batch[T]) Merge(key string, other Batch[T]) {
	b.Items = append(b.Items, other.Items...)
	b.Failures = append(b.Failures, other.Failures...)
	if other.Err != nil {
		b.Fail(key, other.Err)
	}
}

// Map converts a batch item by item, keeping failures and status.
func Map[T, U any](b Batch[T], fn func(T) U) Batch[U] {
	out := Batch[U]{Failures: b.Failures, Err: b.Err}
	if len(b.Items) > 0 {
		out.Items = make([]U, len(b.Items))
		for i, item := range b.Items {
			out.Items[i] = fn(item)
		}
	}
	return out
}
