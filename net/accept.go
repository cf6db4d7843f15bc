// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

package net

import (
	stdnet "net"

	"github.com/tinyio-go/tinyio/internal/netutil"
	"github.com/tinyio-go/tinyio/internal/selector"
	"github.com/tinyio-go/tinyio/internal/task"
)

// Poll advances the accept computation by one step. On task.Ready it
// returns the accepted stream and the peer's address (both nil on error);
// the caller must not poll again after a task.Ready result.
func (a *Accept) Poll(cx *task.Context) (*Stream, stdnet.Addr, task.State, error) {
	if err := a.ensure(); err != nil {
		return nil, nil, task.Ready, err
	}
	if !a.registered {
		if err := a.react.Register(a.ln.fd, selector.Readable); err != nil {
			return nil, nil, task.Ready, err
		}
		a.registered = true
	}

	fd, sa, err := netutil.Accept(a.ln.fd)
	if err == nil {
		a.deregister()
		a.done = true
		stream, serr := newStream(fd, a.ln.opts.readBufferSize)
		if serr != nil {
			return nil, nil, task.Ready, serr
		}
		return stream, netutil.SockaddrToTCPAddr(sa), task.Ready, nil
	}
	if netutil.WouldBlock(err) {
		a.react.Park(a.ln.fd, cx.Waker())
		return nil, nil, task.Pending, nil
	}
	a.deregister()
	a.done = true
	return nil, nil, task.Ready, err
}
