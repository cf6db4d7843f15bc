// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

package task

// State is the result of advancing a Future by one step.
type State int

const (
	// Pending means the task must be polled again later, once woken.
	Pending State = iota
	// Ready means the task has completed; the scheduler drops it.
	Ready
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Ready:
		return "Ready"
	default:
		return "State(?)"
	}
}

// Context carries the Waker for the task currently being polled. A Future
// that suspends must park cx.Waker() (or a clone of it) somewhere it will
// be invoked when the task should be polled again.
type Context struct {
	waker Waker
}

// NewContext wraps w for a single poll call.
func NewContext(w Waker) *Context {
	return &Context{waker: w}
}

// Waker returns the waker for the current poll.
func (c *Context) Waker() Waker {
	return c.waker
}

// Future is a suspendable, unit-returning computation: a task. Poll
// advances it one step. The scheduler owns the only running instance of a
// Future between polls; a Future must not be polled concurrently with
// itself.
type Future interface {
	Poll(cx *Context) State
}

// FutureFunc adapts a plain poll function to the Future interface, for
// small one-off tasks that don't need their own named type.
type FutureFunc func(cx *Context) State

// Poll implements Future.
func (f FutureFunc) Poll(cx *Context) State {
	return f(cx)
}
