// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

package selector

// Event is a single readiness notification returned by Select.
type Event struct {
	Token    Token
	Readable bool
	Writable bool
}

// Selector is the OS-level readiness notifier. Implementations wrap a
// single kernel event queue; the only production implementation targets
// the BSD kqueue family (see selector_kqueue.go).
type Selector interface {
	// Register installs edge-triggered interest in fd's readiness under
	// token. When both directions are requested, both directions are
	// registered, each carrying token.
	Register(fd int, token Token, interest Interest) error

	// Deregister removes every directional entry for fd. Idempotent: a
	// "no such filter" error from the kernel is swallowed.
	Deregister(fd int) error

	// Select blocks until at least one event is available, or the selector
	// is woken via Wake, or timeoutMillis elapses, and returns the events
	// received. A negative timeoutMillis blocks with no timeout; the
	// reactor always passes -1.
	Select(timeoutMillis int) ([]Event, error)

	// Wake unblocks a concurrent Select call from any goroutine. Used by
	// the reactor's cross-thread job mailbox (see internal/reactor) to
	// bring blocking-task completions back onto the owning thread.
	Wake() error

	// Close releases the kernel event queue. A close failure is fatal: the
	// spec gives the runtime no recovery policy for losing the handle.
	Close() error
}
