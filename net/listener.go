// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

// Package net is tinyio's asynchronous TCP facade: a non-blocking Listener
// and Stream whose Accept/Read/Write operations are suspendable
// computations that register with the installed reactor on first poll and
// deregister on completion or cancellation.
package net

import (
	stdnet "net"

	reuseport "github.com/kavu/go_reuseport"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	tinyio "github.com/tinyio-go/tinyio"
	"github.com/tinyio-go/tinyio/internal/netutil"
	"github.com/tinyio-go/tinyio/internal/reactor"
)

// Listener wraps a non-blocking TCP listening socket.
type Listener struct {
	fd   int
	ln   stdnet.Listener
	addr stdnet.Addr
	opts listenOptions
}

// Listen binds addr ("host:port") as a TCP listener and sets it
// non-blocking. Listen itself does not touch the runtime and may be called
// before BlockOn; the Accept futures it hands out reach the installed
// reactor when they are polled.
func Listen(addr string, opts ...ListenOption) (*Listener, error) {
	var o listenOptions
	o.apply(opts)

	var ln stdnet.Listener
	var err error
	if o.reusePort {
		ln, err = reuseport.Listen("tcp", addr)
	} else {
		ln, err = stdnet.Listen("tcp", addr)
	}
	if err != nil {
		return nil, errors.Wrap(err, "listen")
	}

	fd, err := netutil.GetFD(ln)
	if err != nil {
		ln.Close()
		return nil, errors.Wrap(err, "get listener fd")
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		ln.Close()
		return nil, errors.Wrap(err, "set listener non-blocking")
	}

	return &Listener{fd: fd, ln: ln, addr: ln.Addr(), opts: o}, nil
}

// Addr returns the listener's bound local address.
func (l *Listener) Addr() stdnet.Addr { return l.addr }

// Close stops accepting new connections.
func (l *Listener) Close() error { return l.ln.Close() }

// Accept returns a fresh Accept computation for this listener. Poll it from
// the owning task until it reports task.Ready.
func (l *Listener) Accept() *Accept {
	return &Accept{ln: l}
}

// Accept is the suspendable "accept one connection" computation described
// in the async TCP facade: on first poll it registers the listener fd with
// readable interest, then calls the non-blocking accept syscall directly,
// parking on EWOULDBLOCK/EAGAIN and deregistering once it resolves.
type Accept struct {
	ln         *Listener
	registered bool
	react      *reactor.Reactor
	done       bool
}

func (a *Accept) ensure() error {
	if a.react != nil {
		return nil
	}
	react, err := tinyio.CurrentReactor()
	if err != nil {
		return err
	}
	a.react = react
	return nil
}

// deregister removes the listener fd's pending wait. Safe to call more than
// once; called both on natural completion and from Cancel.
func (a *Accept) deregister() {
	if a.registered {
		a.react.Deregister(a.ln.fd)
		a.registered = false
	}
}

// Cancel abandons an in-flight Accept early, deregistering its fd. Go has no
// destructors, so callers that stop polling an Accept before it resolves
// must call this themselves (the owning task's cleanup path).
func (a *Accept) Cancel() {
	if !a.done {
		a.deregister()
		a.done = true
	}
}
