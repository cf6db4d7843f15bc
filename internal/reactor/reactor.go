// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

// Package reactor maps OS readiness events back to the waker of the task
// that is waiting on them. It owns the selector and drives it; the
// scheduler never touches the selector directly.
package reactor

import (
	"sync"

	"github.com/tinyio-go/tinyio/internal/selector"
	"github.com/tinyio-go/tinyio/internal/task"
)

// Reactor is the per-thread readiness dispatcher. Register, Deregister,
// Park, and Turn must only be called from the thread running block_on.
// PostJob is the single exception: it is safe from any goroutine.
type Reactor struct {
	sel     selector.Selector
	blocked map[selector.Token]task.Waker

	jobsMu sync.Mutex
	jobs   []func()
}

// New creates the reactor and its underlying OS selector.
func New() (*Reactor, error) {
	sel, err := selector.New()
	if err != nil {
		return nil, err
	}
	return &Reactor{
		sel:     sel,
		blocked: make(map[selector.Token]task.Waker),
	}, nil
}

// Register forwards to the selector, using fd's numeric value as the
// token so the reactor can route events back without a side table.
func (r *Reactor) Register(fd int, interest selector.Interest) error {
	return r.sel.Register(fd, selector.TokenFromFD(fd), interest)
}

// Deregister removes fd's pending wait, if any, and its selector entry.
func (r *Reactor) Deregister(fd int) error {
	delete(r.blocked, selector.TokenFromFD(fd))
	return r.sel.Deregister(fd)
}

// Park records that waker should be woken the next time fd's token fires.
// Parking a second time for the same fd replaces the prior waker: a single
// task owns one direction of an fd at a time, so last-writer-wins is
// exactly the right semantics for the common back-to-back-reads pattern.
func (r *Reactor) Park(fd int, waker task.Waker) {
	r.blocked[selector.TokenFromFD(fd)] = waker
}

// PostJob hands fn to the reactor to run on the owning thread, waking a
// blocked Turn if necessary. Safe to call from any goroutine; this is the
// only way cross-thread work (e.g. a blocking-pool completion) may touch
// runtime state, and it only ever touches it through this mailbox.
func (r *Reactor) PostJob(fn func()) error {
	r.jobsMu.Lock()
	r.jobs = append(r.jobs, fn)
	r.jobsMu.Unlock()
	return r.sel.Wake()
}

// Turn blocks in the selector with no timeout, then for each returned
// event looks up the waker by token and invokes WakeByRef. Unknown tokens
// are dropped silently: the associated task may have been dropped between
// event arming and arrival.
func (r *Reactor) Turn() error {
	events, err := r.sel.Select(-1)
	if err != nil {
		return err
	}
	woken := false
	for _, ev := range events {
		if ev.Token == selector.WakeToken {
			woken = true
			continue
		}
		if w, ok := r.blocked[ev.Token]; ok {
			w.WakeByRef()
		}
	}
	if woken {
		r.drainJobs()
	}
	return nil
}

func (r *Reactor) drainJobs() {
	r.jobsMu.Lock()
	jobs := r.jobs
	r.jobs = nil
	r.jobsMu.Unlock()
	for _, fn := range jobs {
		fn()
	}
}

// Close tears down the underlying selector.
func (r *Reactor) Close() error {
	return r.sel.Close()
}
