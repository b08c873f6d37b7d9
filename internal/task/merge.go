// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package task

// Either tags a merged event with the branch that produced it.
type Either[L, R any] struct {
	left    L
	right   R
	isRight bool
}

// Left wraps a value from the first branch.
func Left[L, R any](v L) Either[L, R] {
	return Either[L, R]{left: v}
}

// Right wraps a value from the second branch.
func Right[L, R any](v R) Either[L, R] {
	return Either[L, R]{right: v, isRight: true}
}

// GetLeft returns the first-branch value and whether this event came from
// the first branch.
func (e Either[L, R]) GetLeft() (L, bool) {
	return e.left, !e.isRight
}

// GetRight returns the second-branch value and whether this event came from
// the second branch.
func (e Either[L, R]) GetRight() (R, bool) {
	return e.right, e.isRight
}

// Merged is the stream produced by Merge.
type Merged[L, R any] struct {
	a Stream[L]
	b Stream[R]
}

// Merge interleaves two endless streams into one stream of tagged events.
// Each poll tries the first stream's in-flight element before the second's,
// so when both are ready on the same poll the first branch wins. The branch
// that did not complete keeps its element in flight inside its own stream
// state; nothing is dropped and neither branch buffers more than the one
// element it is working on.
func Merge[L, R any](a Stream[L], b Stream[R]) *Merged[L, R] {
	return &Merged[L, R]{a: a, b: b}
}

// PollNext polls both branches, first branch first, and yields the first
// completion it sees. Pending results from the branches have already
// requested their re-polls through wake.
func (m *Merged[L, R]) PollNext(wake Waker) (Either[L, R], bool) {
	if v, ok := m.a.PollNext(wake); ok {
		return Left[L, R](v), true
	}
	if v, ok := m.b.PollNext(wake); ok {
		return Right[L, R](v), true
	}
	return Either[L, R]{}, false
}
