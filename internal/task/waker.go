// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

package task

// Notifier is implemented by the scheduler. A Waker reaches it through a
// single package-level slot rather than a closure, so that constructing a
// Waker never allocates: the vtable functions below close over nothing but
// the ID value itself.
type Notifier interface {
	Notify(id ID)
}

var active Notifier

// SetNotifier installs the Notifier a Waker forwards to. The runtime calls
// this once when a Scheduler is installed on the thread, and clears it again
// on teardown.
func SetNotifier(n Notifier) {
	active = n
}

// vtable mirrors the four-function waker vtable from the spec: clone, wake,
// wake-by-ref, drop. Each operates purely on the ID payload.
var vtable = struct {
	clone     func(ID) ID
	wake      func(ID)
	wakeByRef func(ID)
	drop      func(ID)
}{
	clone:     func(id ID) ID { return id },
	wake:      wakeByRef,
	wakeByRef: wakeByRef,
	drop:      func(ID) {},
}

func wakeByRef(id ID) {
	if active != nil {
		active.Notify(id)
	}
}

// Waker is a cheap, trivially copyable handle that, when invoked, marks its
// task runnable. It carries only the task's ID; cloning it is a plain value
// copy with no heap allocation.
type Waker struct {
	id ID
}

// NewWaker constructs a Waker over id. The scheduler calls this once per
// poll; it costs nothing to clone or discard.
func NewWaker(id ID) Waker {
	return Waker{id: vtable.clone(id)}
}

// Clone produces another waker over the same task. A clone behaves
// identically to the original and may outlive the poll that produced it.
func (w Waker) Clone() Waker {
	return Waker{id: vtable.clone(w.id)}
}

// Wake schedules the task for another poll. Equivalent to WakeByRef; Go has
// no linear-typed consuming call, so both exist purely to mirror the spec's
// four-function vtable.
func (w Waker) Wake() {
	vtable.wake(w.id)
}

// WakeByRef schedules the task for another poll without consuming w. It is
// valid to call this on a task that has already completed or been
// re-polled; the scheduler treats a missing task id as a no-op.
func (w Waker) WakeByRef() {
	vtable.wakeByRef(w.id)
}

// Drop is a no-op: the ID is not an owning reference to anything. Present
// for symmetry with the spec's vtable, never required by callers.
func (w Waker) Drop() {
	vtable.drop(w.id)
}

// ID returns the task identity this waker wakes.
func (w Waker) ID() ID {
	return w.id
}
