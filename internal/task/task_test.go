// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package task_test

import (
	"slices"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"

	"github.com/relabs-tech/led_compass/internal/task"
)

// scriptOp completes with value after a fixed number of pending polls.
type scriptOp struct {
	pendings int
	value    int
	polls    int
}

func (o *scriptOp) Poll(wake task.Waker) (int, bool) {
	o.polls++
	if o.pendings > 0 {
		o.pendings--
		wake()
		return 0, false
	}
	return o.value, true
}

// stalledOp reports pending without ever requesting a wake.
type stalledOp struct{}

func (stalledOp) Poll(task.Waker) (int, bool) { return 0, false }

// scriptStream yields its queued values in order, inserting gaps[i] pending
// polls before the i'th yield (cycling through gaps when it is shorter than
// values). A drained stream stays pending forever, like a sensor that has
// stopped producing.
type scriptStream struct {
	values []int
	gaps   []int
	gi     int
	left   int
	armed  bool
}

func (s *scriptStream) PollNext(wake task.Waker) (int, bool) {
	if len(s.values) == 0 {
		wake()
		return 0, false
	}
	if !s.armed {
		if len(s.gaps) > 0 {
			s.left = s.gaps[s.gi%len(s.gaps)]
			s.gi++
		}
		s.armed = true
	}
	if s.left > 0 {
		s.left--
		wake()
		return 0, false
	}
	v := s.values[0]
	s.values = s.values[1:]
	s.armed = false
	return v, true
}

func TestRunDrivesToCompletion(t *testing.T) {
	assert := assert.New(t)

	op := &scriptOp{pendings: 5, value: 42}
	assert.Equal(42, task.Run(op))
	assert.Equal(6, op.polls, "five pending polls plus the completing one")
}

func TestRunPanicsWhenOpStalls(t *testing.T) {
	assert.Panics(t, func() { task.Run(stalledOp{}) })
}

func TestWhenReadyImmediately(t *testing.T) {
	assert := assert.New(t)

	c := task.When(func() bool { return true })
	woken := false
	_, done := c.Poll(func() { woken = true })
	assert.True(done)
	assert.False(woken, "a completing poll must not request a wake")
}

func TestWhenPollsUntilReady(t *testing.T) {
	assert := assert.New(t)

	readings := []bool{false, false, true}
	reads := 0
	c := task.When(func() bool { v := readings[reads]; reads++; return v })

	for i := 0; i < 2; i++ {
		woken := false
		_, done := c.Poll(func() { woken = true })
		assert.False(done, "poll %d should be pending", i)
		assert.True(woken, "pending poll %d must request a wake", i)
	}

	woken := false
	_, done := c.Poll(func() { woken = true })
	assert.True(done)
	assert.False(woken)
	assert.Equal(3, reads, "exactly one predicate read per poll")

	assert.Panics(func() { c.Poll(func() {}) }, "a completed Cond must not be polled again")
}

func TestNextPullsElementsInOrder(t *testing.T) {
	assert := assert.New(t)

	s := &scriptStream{values: []int{7, 8, 9}, gaps: []int{1}}
	for _, want := range []int{7, 8, 9} {
		assert.Equal(want, task.Run(task.Next[int](s)))
	}
}

func TestNextPanicsAfterCompletion(t *testing.T) {
	s := &scriptStream{values: []int{1}}
	op := task.Next[int](s)
	task.Run(op)
	assert.Panics(t, func() { op.Poll(func() {}) })
}

func TestMergePrefersFirstBranch(t *testing.T) {
	assert := assert.New(t)

	// Both branches ready on every poll: the first branch drains completely
	// before any second-branch element is seen.
	a := &scriptStream{values: []int{1, 2, 3}}
	b := &scriptStream{values: []int{10, 20}}
	m := task.Merge[int, int](a, b)

	var lefts, rights []int
	for i := 0; i < 5; i++ {
		ev := task.Run(task.Next[task.Either[int, int]](m))
		if v, ok := ev.GetLeft(); ok {
			lefts = append(lefts, v)
		} else if v, ok := ev.GetRight(); ok {
			rights = append(rights, v)
		}
	}
	assert.Equal([]int{1, 2, 3}, lefts)
	assert.Equal([]int{10, 20}, rights)
}

func TestMergeKeepsSlowBranchElement(t *testing.T) {
	assert := assert.New(t)

	// The first branch needs three polls per element, the second two. The
	// in-flight first-branch element must survive the second branch
	// completing underneath it, then come out once ready.
	a := &scriptStream{values: []int{1}, gaps: []int{2}}
	b := &scriptStream{values: []int{10, 20, 30}, gaps: []int{1}}
	m := task.Merge[int, int](a, b)

	var got []task.Either[int, int]
	for i := 0; i < 4; i++ {
		got = append(got, task.Run(task.Next[task.Either[int, int]](m)))
	}

	assert.Equal(task.Right[int, int](10), got[0])
	assert.Equal(task.Left[int, int](1), got[1], "slow element must not be dropped or restarted")
	assert.Equal(task.Right[int, int](20), got[2])
	assert.Equal(task.Right[int, int](30), got[3])
}

// Whatever the poll timing of the two branches, merging loses nothing and
// reorders nothing within a branch. Run's missing-wake panic doubles as the
// check that every pending merged poll requested its re-poll.
func TestMergeLosslessProperty(t *testing.T) {
	toValues := func(vs []int16) []int {
		out := make([]int, len(vs))
		for i, v := range vs {
			out[i] = int(v)
		}
		return out
	}
	toGaps := func(gs []uint8) []int {
		out := make([]int, len(gs))
		for i, g := range gs {
			out[i] = int(g % 4)
		}
		return out
	}

	f := func(av, bv []int16, ag, bg []uint8) bool {
		a := &scriptStream{values: toValues(av), gaps: toGaps(ag)}
		b := &scriptStream{values: toValues(bv), gaps: toGaps(bg)}
		m := task.Merge[int, int](a, b)

		var lefts, rights []int
		for i := 0; i < len(av)+len(bv); i++ {
			ev := task.Run(task.Next[task.Either[int, int]](m))
			if v, ok := ev.GetLeft(); ok {
				lefts = append(lefts, v)
			} else if v, ok := ev.GetRight(); ok {
				rights = append(rights, v)
			}
		}
		return slices.Equal(lefts, toValues(av)) && slices.Equal(rights, toValues(bv))
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}
