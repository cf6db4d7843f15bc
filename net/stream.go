// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

package net

import (
	stdnet "net"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	tinyio "github.com/tinyio-go/tinyio"
	"github.com/tinyio-go/tinyio/internal/netutil"
	"github.com/tinyio-go/tinyio/internal/reactor"
	"github.com/tinyio-go/tinyio/internal/selector"
	"github.com/tinyio-go/tinyio/internal/task"
)

// Stream wraps a non-blocking accepted TCP connection. Read and Write each
// return a fresh suspendable computation; the protocol assumes a single
// owner per (fd, direction) at a time, matching the reactor's
// last-writer-wins parked-waker slot.
type Stream struct {
	fd             int
	laddr, raddr   stdnet.Addr
	readBufferSize int
}

func newStream(fd int, readBufferSize int) (*Stream, error) {
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, errors.Wrap(err, "set stream non-blocking")
	}
	return &Stream{fd: fd, readBufferSize: readBufferSize}, nil
}

// FD returns the stream's raw file descriptor. Exposed for tests that need
// to assert reactor registration state directly.
func (s *Stream) FD() int { return s.fd }

// ReadBufferSize returns the size a caller should allocate for buffers
// passed to Read, as configured on the owning Listener via
// WithReadBufferSize (default 4096).
func (s *Stream) ReadBufferSize() int { return s.readBufferSize }

// Close closes the underlying socket. It does not deregister the fd from
// any reactor; an in-flight Read or Write must be cancelled first.
func (s *Stream) Close() error { return unix.Close(s.fd) }

// Read returns a fresh Read computation that fills buf on completion.
func (s *Stream) Read(buf []byte) *Read {
	return &Read{s: s, buf: buf}
}

// Write returns a fresh Write computation that writes buf on completion.
func (s *Stream) Write(buf []byte) *Write {
	return &Write{s: s, buf: buf}
}

// Read is the suspendable "read once" computation: register readable
// interest, attempt the syscall, park on would-block, deregister on
// resolution. Zero bytes with a nil error means the peer closed.
type Read struct {
	s          *Stream
	buf        []byte
	registered bool
	react      *reactor.Reactor
	done       bool
}

func (r *Read) ensure() error {
	if r.react != nil {
		return nil
	}
	react, err := tinyio.CurrentReactor()
	if err != nil {
		return err
	}
	r.react = react
	return nil
}

func (r *Read) deregister() {
	if r.registered {
		r.react.Deregister(r.s.fd)
		r.registered = false
	}
}

// Cancel abandons an in-flight Read early, deregistering its fd.
func (r *Read) Cancel() {
	if !r.done {
		r.deregister()
		r.done = true
	}
}

// Poll advances the read computation by one step.
func (r *Read) Poll(cx *task.Context) (int, task.State, error) {
	if err := r.ensure(); err != nil {
		return 0, task.Ready, err
	}
	if !r.registered {
		if err := r.react.Register(r.s.fd, selector.Readable); err != nil {
			return 0, task.Ready, err
		}
		r.registered = true
	}

	n, err := netutil.Read(r.s.fd, r.buf)
	if err == nil {
		r.deregister()
		r.done = true
		return n, task.Ready, nil
	}
	if netutil.WouldBlock(err) {
		r.react.Park(r.s.fd, cx.Waker())
		return 0, task.Pending, nil
	}
	r.deregister()
	r.done = true
	return 0, task.Ready, err
}

// Write is the suspendable "write once" computation. Per the source this
// spec was distilled from, a single poll performs exactly one write
// syscall; short writes are surfaced to the caller rather than looped on
// internally, so a caller that must send all of buf loops by issuing a new
// Write for the unwritten remainder.
type Write struct {
	s          *Stream
	buf        []byte
	registered bool
	react      *reactor.Reactor
	done       bool
}

func (w *Write) ensure() error {
	if w.react != nil {
		return nil
	}
	react, err := tinyio.CurrentReactor()
	if err != nil {
		return err
	}
	w.react = react
	return nil
}

func (w *Write) deregister() {
	if w.registered {
		w.react.Deregister(w.s.fd)
		w.registered = false
	}
}

// Cancel abandons an in-flight Write early, deregistering its fd.
func (w *Write) Cancel() {
	if !w.done {
		w.deregister()
		w.done = true
	}
}

// Poll advances the write computation by one step.
func (w *Write) Poll(cx *task.Context) (int, task.State, error) {
	if err := w.ensure(); err != nil {
		return 0, task.Ready, err
	}
	if !w.registered {
		if err := w.react.Register(w.s.fd, selector.Writable); err != nil {
			return 0, task.Ready, err
		}
		w.registered = true
	}

	n, err := netutil.Write(w.s.fd, w.buf)
	if err == nil {
		w.deregister()
		w.done = true
		return n, task.Ready, nil
	}
	if netutil.WouldBlock(err) {
		w.react.Park(w.s.fd, cx.Waker())
		return 0, task.Pending, nil
	}
	w.deregister()
	w.done = true
	return 0, task.Ready, err
}
