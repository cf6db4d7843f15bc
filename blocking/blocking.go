// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

// Package blocking offloads genuinely blocking work (DNS lookups, disk
// reads, anything without a non-blocking syscall) onto a goroutine pool so
// it never stalls the single poller thread, mirroring taskpool.go's
// sysPool/usrPool split. Completion crosses back onto the runtime's owning
// thread through the reactor's job mailbox, the same bridge the selector's
// self-wake already provides for that purpose.
package blocking

import (
	"sync"

	"github.com/panjf2000/ants/v2"

	tinyio "github.com/tinyio-go/tinyio"
	"github.com/tinyio-go/tinyio/internal/task"
)

// pool is the shared goroutine pool every SpawnBlocking call submits to.
// Sized generously since blocking work, by definition, doesn't busy the CPU.
var pool, _ = ants.NewPool(256, ants.WithNonblocking(false))

// Blocking is the suspendable "run fn off-thread" computation returned by
// SpawnBlocking. Poll it until it reports task.Ready.
type Blocking[T any] struct {
	fn        func() (T, error)
	submitted bool

	mu   sync.Mutex
	done bool
	val  T
	err  error
}

// SpawnBlocking submits fn to the blocking pool the first time it is
// polled and parks the calling task's waker; fn's completion posts a job
// to the installed reactor that stores the result and wakes the task.
func SpawnBlocking[T any](fn func() (T, error)) *Blocking[T] {
	return &Blocking[T]{fn: fn}
}

// Poll advances the computation. It does not register any fd with the
// reactor — there is nothing to select on — it only uses the reactor as
// the thread-safe mailbox back to the owning thread.
func (b *Blocking[T]) Poll(cx *task.Context) (T, task.State, error) {
	b.mu.Lock()
	if b.done {
		val, err := b.val, b.err
		b.mu.Unlock()
		return val, task.Ready, err
	}
	b.mu.Unlock()

	if !b.submitted {
		react, err := tinyio.CurrentReactor()
		if err != nil {
			var zero T
			return zero, task.Ready, err
		}
		b.submitted = true
		waker := cx.Waker()
		if err := pool.Submit(func() {
			val, err := b.fn()
			react.PostJob(func() {
				b.mu.Lock()
				b.done, b.val, b.err = true, val, err
				b.mu.Unlock()
				waker.WakeByRef()
			})
		}); err != nil {
			var zero T
			return zero, task.Ready, err
		}
	}
	var zero T
	return zero, task.Pending, nil
}
