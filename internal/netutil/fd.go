// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

// Package netutil provides the raw-fd plumbing tinyio needs to bypass
// Go's own net poller: pulling the integer descriptor out of a
// net.Listener/net.Conn, non-blocking accept/read/write, and sockaddr
// conversion.
package netutil

import (
	"errors"
	"fmt"
	"syscall"
)

// GetFD returns the integer Unix file descriptor backing socket, which must
// implement syscall.Conn (net.TCPListener and net.TCPConn both do).
func GetFD(socket interface{}) (int, error) {
	conn, ok := socket.(syscall.Conn)
	if !ok {
		return -1, fmt.Errorf("type %T doesn't implement syscall.Conn interface", socket)
	}
	rawConn, err := conn.SyscallConn()
	if err != nil {
		return -1, fmt.Errorf("get raw connection: %w", err)
	}

	fd := -1
	if err := rawConn.Control(func(sysfd uintptr) { fd = int(sysfd) }); err != nil {
		return -1, err
	}
	if fd == -1 {
		return -1, errors.New("invalid file descriptor")
	}
	return fd, nil
}
