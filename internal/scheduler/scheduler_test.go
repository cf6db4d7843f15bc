// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyio-go/tinyio/internal/task"
)

// countingTask becomes Ready after readyAfter polls; it also keeps the most
// recent waker it was handed.
type countingTask struct {
	polls      int
	readyAfter int
	lastWaker  task.Waker
}

func (c *countingTask) Poll(cx *task.Context) task.State {
	c.polls++
	c.lastWaker = cx.Waker()
	if c.polls >= c.readyAfter {
		return task.Ready
	}
	return task.Pending
}

func TestSpawnedTaskIsPolledAtLeastOnce(t *testing.T) {
	s := New()
	ct := &countingTask{readyAfter: 1}
	s.Spawn(ct)

	for _, id := range s.Drain() {
		s.Poll(id)
	}

	assert.Equal(t, 1, ct.polls)
	assert.Equal(t, Done, s.Status())
}

func TestReadyTaskIsNeverPolledAgain(t *testing.T) {
	s := New()
	ct := &countingTask{readyAfter: 1}
	id := s.Spawn(ct)

	for _, i := range s.Drain() {
		s.Poll(i)
	}
	require.Equal(t, Done, s.Status())

	// Re-notifying a completed task's id must not resurrect it.
	s.Notify(id)
	drained := s.Drain()
	require.Equal(t, []task.ID{id}, drained)
	s.Poll(id) // no-op: Poll's map lookup misses, Poll returns immediately
	assert.Equal(t, 1, ct.polls)
}

func TestFIFOOrderingWithinADrain(t *testing.T) {
	s := New()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		s.Spawn(task.FutureFunc(func(cx *task.Context) task.State {
			order = append(order, i)
			return task.Ready
		}))
	}
	for _, id := range s.Drain() {
		s.Poll(id)
	}
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestWakeDuringPollGoesToNextDrainNotCurrent(t *testing.T) {
	s := New()
	var secondDrainPolls int
	var selfID task.ID
	selfID = s.Spawn(task.FutureFunc(func(cx *task.Context) task.State {
		secondDrainPolls++
		if secondDrainPolls == 1 {
			s.Notify(selfID) // reentrant wake during this very poll
			return task.Pending
		}
		return task.Ready
	}))

	firstDrain := s.Drain()
	require.Len(t, firstDrain, 1)
	s.Poll(firstDrain[0])
	assert.Equal(t, 1, secondDrainPolls, "the reentrant wake must not cause a second poll within the same drain")

	secondDrain := s.Drain()
	require.Equal(t, []task.ID{selfID}, secondDrain)
	s.Poll(secondDrain[0])
	assert.Equal(t, 2, secondDrainPolls)
}

func TestWakeIdempotencePerDrain(t *testing.T) {
	s := New()
	ct := &countingTask{readyAfter: 2}
	id := s.Spawn(ct)

	first := s.Drain()
	s.Poll(first[0]) // polls once, returns Pending, stays suspended

	// Multiple wakes before the next drain must still result in exactly
	// one poll in that next drain.
	s.Notify(id)
	s.Notify(id)
	s.Notify(id)

	next := s.Drain()
	assert.Equal(t, []task.ID{id, id, id}, next, "Drain returns the raw ready queue; idempotence is about poll count, not queue contents")

	polledIDs := map[task.ID]bool{}
	for _, i := range next {
		if !polledIDs[i] {
			s.Poll(i)
			polledIDs[i] = true
		} else {
			s.Poll(i) // subsequent entries for an already-completed/removed id are no-ops
		}
	}
	assert.Equal(t, 2, ct.polls)
}

func TestStatusTransitions(t *testing.T) {
	s := New()
	assert.Equal(t, Done, s.Status())

	ct := &countingTask{readyAfter: 2}
	id := s.Spawn(ct)
	assert.Equal(t, RunningTasks, s.Status())

	for _, i := range s.Drain() {
		s.Poll(i)
	}
	assert.Equal(t, WaitingForEvents, s.Status())

	s.Notify(id)
	assert.Equal(t, RunningTasks, s.Status())

	for _, i := range s.Drain() {
		s.Poll(i)
	}
	assert.Equal(t, Done, s.Status())
}

func TestLiveCountsSuspendedAndReadyTasks(t *testing.T) {
	s := New()
	s.Spawn(&countingTask{readyAfter: 5})
	s.Spawn(&countingTask{readyAfter: 5})
	assert.Equal(t, 2, s.Live())
	for _, id := range s.Drain() {
		s.Poll(id)
	}
	assert.Equal(t, 2, s.Live(), "both tasks returned Pending and remain live")
}
