// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

// Package scheduler owns every live task on the runtime's single thread:
// the ready queue, the suspended set, and the FIFO-per-drain polling order.
package scheduler

import "github.com/tinyio-go/tinyio/internal/task"

// Status is the current state of the scheduler, used by the top-level
// driver to decide whether to keep polling or block in the reactor.
type Status int

const (
	// RunningTasks means the ready queue is non-empty: keep polling.
	RunningTasks Status = iota
	// WaitingForEvents means every live task is suspended: block in the
	// reactor's Turn.
	WaitingForEvents
	// Done means no live task remains: the runtime can tear down.
	Done
)

// Scheduler is the per-thread registry of tasks. It is not safe for
// concurrent use; every method is expected to run on the single thread that
// owns the enclosing runtime.
type Scheduler struct {
	nextID task.ID
	tasks  map[task.ID]task.Future
	ready  []task.ID
}

// New returns an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{
		tasks: make(map[task.ID]task.Future),
	}
}

// Spawn allocates a fresh id for f, inserts it into the suspended set, and
// appends the id to the ready queue so it gets its first poll on the next
// drain.
func (s *Scheduler) Spawn(f task.Future) task.ID {
	id := s.nextID
	s.nextID++
	s.tasks[id] = f
	s.ready = append(s.ready, id)
	return id
}

// Notify implements task.Notifier: it is the target every Waker forwards
// to. Waking an id that is not currently suspended (already completed, or
// concurrently re-polled) is a no-op at Poll time, not here — the id is
// simply appended and Poll discards it if the task is gone.
func (s *Scheduler) Notify(id task.ID) {
	s.ready = append(s.ready, id)
}

// Poll detaches the task for id, advances it one step, and reinserts it if
// it returned Pending. The task is absent from s.tasks for the duration of
// the call, so a reentrant wake during the poll only appends to s.ready —
// it can never alias the value currently being stepped.
func (s *Scheduler) Poll(id task.ID) {
	f, ok := s.tasks[id]
	if !ok {
		return
	}
	delete(s.tasks, id)
	cx := task.NewContext(task.NewWaker(id))
	if f.Poll(cx) == task.Pending {
		s.tasks[id] = f
	}
}

// Status reports whether the scheduler can keep running tasks, must wait
// for I/O events, or is done.
func (s *Scheduler) Status() Status {
	if len(s.tasks) == 0 {
		return Done
	}
	if len(s.ready) == 0 {
		return WaitingForEvents
	}
	return RunningTasks
}

// Drain takes the current ready queue wholesale, leaving it empty. Wakes
// that occur while polling the drained snapshot accumulate into the now
// empty queue for the next iteration — they are never polled within the
// same drain.
func (s *Scheduler) Drain() []task.ID {
	ids := s.ready
	s.ready = nil
	return ids
}

// Live reports the number of tasks still tracked (ready or suspended).
// Exposed for tests asserting termination, not used on the hot path.
func (s *Scheduler) Live() int {
	return len(s.tasks)
}
