// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

package tinyio

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/tinyio-go/tinyio/internal/reactor"
	"github.com/tinyio-go/tinyio/internal/scheduler"
	"github.com/tinyio-go/tinyio/internal/task"
)

// Runtime is the installed scheduler+reactor pair that BlockOn owns for the
// duration of one call. Go has no addressable notion of "the OS thread this
// goroutine happens to run on" the way the source runtime does, so this is
// approximated with runtime.LockOSThread (pinning the calling goroutine to
// a private OS thread for the call) plus a single process-wide installed
// pointer: with the goroutine pinned, "a runtime already runs on this
// thread" and "a runtime is already installed" coincide in practice.
type Runtime struct {
	sched *scheduler.Scheduler
	react *reactor.Reactor
}

var (
	installedMu sync.Mutex
	installed   *Runtime
)

// current returns the runtime installed by the in-flight BlockOn call, or
// ErrNoRuntime if none is installed.
func current() (*Runtime, error) {
	installedMu.Lock()
	defer installedMu.Unlock()
	if installed == nil {
		return nil, ErrNoRuntime
	}
	return installed, nil
}

// Reactor exposes the installed runtime's reactor to the net facade. It is
// not part of tinyio's public API surface for ordinary callers.
func (rt *Runtime) Reactor() *reactor.Reactor { return rt.react }

// CurrentReactor is the thread-indexed handle the net package uses to reach
// the installed reactor without importing the root package's internals.
func CurrentReactor() (*reactor.Reactor, error) {
	rt, err := current()
	if err != nil {
		return nil, err
	}
	return rt.react, nil
}

// Spawn schedules an additional task on the runtime installed on this
// thread. It returns ErrNoRuntime if no BlockOn call is in flight here.
func Spawn(f task.Future) (task.ID, error) {
	rt, err := current()
	if err != nil {
		return 0, err
	}
	return rt.sched.Spawn(f), nil
}

// BlockOn installs a fresh scheduler and reactor on the calling OS thread,
// spawns root as the first task, and drives the dispatch loop until every
// task (root and anything it transitively spawned) has completed.
func BlockOn(root task.Future) error {
	installedMu.Lock()
	if installed != nil {
		installedMu.Unlock()
		return ErrRuntimeInstalled
	}
	runtime.LockOSThread()
	react, err := reactor.New()
	if err != nil {
		installedMu.Unlock()
		runtime.UnlockOSThread()
		return errors.Wrap(err, "create reactor")
	}
	sched := scheduler.New()
	rt := &Runtime{sched: sched, react: react}
	installed = rt
	installedMu.Unlock()

	defer func() {
		installedMu.Lock()
		installed = nil
		installedMu.Unlock()
		task.SetNotifier(nil)
		if err := react.Close(); err != nil {
			panic(errors.Wrap(err, "close reactor"))
		}
		runtime.UnlockOSThread()
	}()

	task.SetNotifier(sched)
	sched.Spawn(root)

	for {
		for _, id := range sched.Drain() {
			sched.Poll(id)
		}
		switch sched.Status() {
		case scheduler.Done:
			return nil
		case scheduler.WaitingForEvents:
			if err := react.Turn(); err != nil {
				return errors.Wrap(err, "reactor turn")
			}
		case scheduler.RunningTasks:
			// loop again without blocking
		}
	}
}
