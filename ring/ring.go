// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package ring provides a fixed-capacity ring buffer used for every bounded
history in spikenet: unit spike histories, module activity traces, transport
traffic records, neuromodulatory scalar traces, and the orchestrator's
execution history.  Once full, each Push overwrites the oldest entry, so
retention is always exactly the configured capacity.
*/
package ring

// Buffer is a fixed-capacity ring buffer.  Index 0 is always the oldest
// retained entry.  The zero value is unusable -- use New.
type Buffer[T any] struct {

	// backing storage, len == capacity
	data []T

	// index of the oldest entry
	start int

	// number of valid entries, <= len(data)
	n int
}

// New returns a new ring buffer with the given fixed capacity.
// Capacity less than 1 is treated as 1.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{data: make([]T, capacity)}
}

// Cap returns the fixed capacity of the buffer.
func (rb *Buffer[T]) Cap() int {
	return len(rb.data)
}

// Len returns the number of entries currently retained.
func (rb *Buffer[T]) Len() int {
	return rb.n
}

// Push appends an entry, dropping the oldest one if the buffer is full.
func (rb *Buffer[T]) Push(v T) {
	if rb.n < len(rb.data) {
		rb.data[(rb.start+rb.n)%len(rb.data)] = v
		rb.n++
		return
	}
	rb.data[rb.start] = v
	rb.start = (rb.start + 1) % len(rb.data)
}

// At returns the entry at index i, where 0 is the oldest retained entry
// and Len()-1 is the most recent.  Panics if out of range.
func (rb *Buffer[T]) At(i int) T {
	if i < 0 || i >= rb.n {
		panic("ring: index out of range")
	}
	return rb.data[(rb.start+i)%len(rb.data)]
}

// Last returns up to n of the most recent entries, oldest first.
// The returned slice is freshly allocated.
func (rb *Buffer[T]) Last(n int) []T {
	if n > rb.n {
		n = rb.n
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = rb.At(rb.n - n + i)
	}
	return out
}

// Do calls f on every retained entry, oldest first.
func (rb *Buffer[T]) Do(f func(v T)) {
	for i := 0; i < rb.n; i++ {
		f(rb.At(i))
	}
}

// Reset discards all entries, keeping the capacity.
func (rb *Buffer[T]) Reset() {
	var zero T
	for i := range rb.data {
		rb.data[i] = zero
	}
	rb.start = 0
	rb.n = 0
}
