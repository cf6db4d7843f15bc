// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

//go:build freebsd || dragonfly || darwin
// +build freebsd dragonfly darwin

package selector

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"golang.org/x/sys/unix"
)

const defaultEventBuffer = 64

// kqueueSelector is the BSD kqueue based Selector. It is not safe for
// concurrent Register/Deregister/Select calls from multiple goroutines —
// only Wake is; see internal/reactor for how cross-thread work crosses back
// onto the owning thread.
type kqueueSelector struct {
	fd     int
	events []unix.Kevent_t
	woken  atomic.Bool
}

var _ Selector = (*kqueueSelector)(nil)

// New creates the kqueue-based selector. The handle is opened with the
// close-on-exec flag, matching the Go runtime's own fd hygiene.
func New() (Selector, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, os.NewSyscallError("kqueue", err)
	}
	if _, err := unix.FcntlInt(uintptr(kq), unix.F_SETFD, unix.FD_CLOEXEC); err != nil {
		unix.Close(kq)
		return nil, os.NewSyscallError("fcntl", err)
	}
	s := &kqueueSelector{
		fd:     kq,
		events: make([]unix.Kevent_t, defaultEventBuffer),
	}
	if _, err := unix.Kevent(kq, []unix.Kevent_t{{
		Ident:  newKeventIdent(int(WakeToken)),
		Filter: unix.EVFILT_USER,
		Flags:  unix.EV_ADD | unix.EV_CLEAR,
	}}, nil, nil); err != nil {
		unix.Close(kq)
		return nil, errors.Wrap(os.NewSyscallError("kevent", err), "register self-wake filter")
	}
	return s, nil
}

// Register implements Selector.
func (s *kqueueSelector) Register(fd int, token Token, interest Interest) error {
	changes := make([]unix.Kevent_t, 0, 2)
	if interest.IsReadable() {
		changes = append(changes, newKevent(fd, unix.EVFILT_READ, unix.EV_ADD|unix.EV_CLEAR|unix.EV_RECEIPT, token))
	}
	if interest.IsWritable() {
		changes = append(changes, newKevent(fd, unix.EVFILT_WRITE, unix.EV_ADD|unix.EV_CLEAR|unix.EV_RECEIPT, token))
	}
	if err := s.apply(changes); err != nil {
		if err == unix.EPIPE {
			return nil
		}
		return errors.Wrapf(err, "register fd %d interest %s", fd, interest)
	}
	return nil
}

// Deregister implements Selector.
func (s *kqueueSelector) Deregister(fd int) error {
	changes := []unix.Kevent_t{
		newKevent(fd, unix.EVFILT_READ, unix.EV_DELETE|unix.EV_RECEIPT, 0),
		newKevent(fd, unix.EVFILT_WRITE, unix.EV_DELETE|unix.EV_RECEIPT, 0),
	}
	if err := s.apply(changes); err != nil {
		return errors.Wrapf(err, "deregister fd %d", fd)
	}
	return nil
}

// apply submits changes and ignores ENOENT ("no such filter"), so
// deregistering an fd that was never fully registered is a no-op. Any other
// per-change error is returned, the first one encountered.
func (s *kqueueSelector) apply(changes []unix.Kevent_t) error {
	if len(changes) == 0 {
		return nil
	}
	// With EV_RECEIPT the kernel answers every change with an EV_ERROR entry
	// (data 0 on success); it needs one event slot per change to process them all.
	receipts := make([]unix.Kevent_t, len(changes))
	n, err := unix.Kevent(s.fd, changes, receipts, nil)
	if err == unix.EINTR {
		// All submitted changes were applied; the manual page guarantees this.
		return nil
	}
	if err != nil {
		return err
	}
	for _, r := range receipts[:n] {
		if r.Flags&unix.EV_ERROR != 0 && r.Data != 0 && unix.Errno(r.Data) != unix.ENOENT {
			return unix.Errno(r.Data)
		}
	}
	return nil
}

// Select implements Selector.
func (s *kqueueSelector) Select(timeoutMillis int) ([]Event, error) {
	var ts *unix.Timespec
	if timeoutMillis >= 0 {
		spec := unix.NsecToTimespec(int64(timeoutMillis) * int64(1e6))
		ts = &spec
	}
	n, err := unix.Kevent(s.fd, nil, s.events, ts)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, os.NewSyscallError("kevent", err)
	}
	out := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		kev := s.events[i]
		if kev.Ident == newKeventIdent(int(WakeToken)) && kev.Filter == unix.EVFILT_USER {
			s.woken.Store(false)
			out = append(out, Event{Token: WakeToken})
			continue
		}
		ev := Event{Token: TokenFromPtr(udataPtr(kev))}
		if kev.Filter == unix.EVFILT_READ {
			ev.Readable = true
		}
		if kev.Filter == unix.EVFILT_WRITE {
			ev.Writable = true
		}
		// EV_ERROR/EV_EOF on a returned event (as opposed to a change-list
		// entry) means the fd is going away; it is not surfaced separately
		// here — waking the parked op makes it retry its own syscall, which
		// surfaces the real error or EOF naturally, rather than failing the
		// whole Select batch over one fd.
		out = append(out, ev)
	}
	return out, nil
}

// Wake implements Selector. It is the only method safe to call from a
// goroutine other than the one blocked in Select.
func (s *kqueueSelector) Wake() error {
	if !s.woken.CompareAndSwap(false, true) {
		return nil
	}
	for {
		_, err := unix.Kevent(s.fd, []unix.Kevent_t{{
			Ident:  newKeventIdent(int(WakeToken)),
			Filter: unix.EVFILT_USER,
			Fflags: unix.NOTE_TRIGGER,
		}}, nil, nil)
		if err == unix.EINTR || err == unix.EAGAIN {
			continue
		}
		if err != nil {
			return os.NewSyscallError("kevent", err)
		}
		return nil
	}
}

// Close implements Selector.
func (s *kqueueSelector) Close() error {
	return os.NewSyscallError("close", unix.Close(s.fd))
}
