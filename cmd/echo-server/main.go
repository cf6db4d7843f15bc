// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

// Command echo-server is a minimal TCP echo server built on tinyio: it
// binds a single listener and, for every accepted connection, spawns a
// handler that echoes back whatever it reads until the peer closes.
package main

import (
	"flag"
	"fmt"

	tinyio "github.com/tinyio-go/tinyio"
	"github.com/tinyio-go/tinyio/internal/task"
	"github.com/tinyio-go/tinyio/log"
	"github.com/tinyio-go/tinyio/net"
)

func main() {
	port := flag.Int("p", 5000, "port to listen on")
	flag.Parse()

	ln, err := net.Listen(fmt.Sprintf("0.0.0.0:%d", *port))
	if err != nil {
		log.Fatalf("bind listener: %v", err)
	}
	log.Infof("server listening on: %s", ln.Addr())

	if err := tinyio.BlockOn(&acceptLoop{ln: ln}); err != nil {
		log.Fatalf("runtime exited: %v", err)
	}
}

// acceptLoop is the root task: it accepts connections forever and spawns a
// handler for each one. Written as an explicit poll-based state machine
// rather than async/await, which Go has no equivalent for: a single Poll
// call drives as many completed sub-steps as are ready before returning
// task.Pending at the first point that would actually block.
type acceptLoop struct {
	ln  *net.Listener
	cur *net.Accept
}

func (a *acceptLoop) Poll(cx *task.Context) task.State {
	for {
		if a.cur == nil {
			a.cur = a.ln.Accept()
		}
		stream, _, state, err := a.cur.Poll(cx)
		if state == task.Pending {
			return task.Pending
		}
		a.cur = nil
		if err != nil {
			log.Errorf("accept: %v", err)
			continue
		}
		if _, err := tinyio.Spawn(newEchoHandler(stream)); err != nil {
			log.Errorf("spawn handler: %v", err)
		}
	}
}

// echoHandler alternates a Read against the connection with a Write of
// whatever it just read, terminating when Read reports zero bytes (the
// peer closed) or either op errors.
type echoHandler struct {
	s     *net.Stream
	buf   []byte
	read  *net.Read
	write *net.Write
}

func newEchoHandler(s *net.Stream) *echoHandler {
	return &echoHandler{s: s, buf: make([]byte, s.ReadBufferSize())}
}

func (h *echoHandler) Poll(cx *task.Context) task.State {
	for {
		if h.write != nil {
			_, state, err := h.write.Poll(cx)
			if state == task.Pending {
				return task.Pending
			}
			h.write = nil
			if err != nil {
				log.Errorf("write: %v", err)
				h.s.Close()
				return task.Ready
			}
			continue
		}

		if h.read == nil {
			h.read = h.s.Read(h.buf)
		}
		n, state, err := h.read.Poll(cx)
		if state == task.Pending {
			return task.Pending
		}
		h.read = nil
		if err != nil {
			log.Errorf("read: %v", err)
			h.s.Close()
			return task.Ready
		}
		if n == 0 {
			h.s.Close()
			return task.Ready
		}
		h.write = h.s.Write(h.buf[:n])
	}
}
