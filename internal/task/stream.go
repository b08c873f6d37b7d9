// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package task

// Stream is an endless lazy sequence of values. PollNext behaves like
// Op.Poll for the element currently in flight: pending results request a
// re-poll through the waker, and once an element is yielded the next poll
// starts producing the next one. Streams in this runtime never terminate.
type Stream[T any] interface {
	PollNext(wake Waker) (T, bool)
}

// NextOp exposes the next element of a stream as a single-shot Op so the
// executor can drive "pull one event" directly.
type NextOp[T any] struct {
	s    Stream[T]
	done bool
}

// Next returns an Op that completes with the next element of s.
func Next[T any](s Stream[T]) *NextOp[T] {
	return &NextOp[T]{s: s}
}

// Poll forwards to the stream until an element is produced.
func (n *NextOp[T]) Poll(wake Waker) (T, bool) {
	if n.done {
		panic("task: poll of completed NextOp")
	}
	v, ok := n.s.PollNext(wake)
	if ok {
		n.done = true
	}
	return v, ok
}
