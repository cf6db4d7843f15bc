// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

//go:build freebsd || dragonfly || darwin
// +build freebsd dragonfly darwin

package netutil

import "golang.org/x/sys/unix"

// Read reads from fd into b, retrying on EINTR. A zero n with a nil error
// means EOF; an error for which WouldBlock reports true means try again once
// fd is readable.
func Read(fd int, b []byte) (int, error) {
	for {
		n, err := unix.Read(fd, b)
		if err == unix.EINTR {
			continue
		}
		return n, err
	}
}

// Write writes b to fd, retrying on EINTR. A short write is returned as-is;
// the caller is responsible for resubmitting the remainder.
func Write(fd int, b []byte) (int, error) {
	for {
		n, err := unix.Write(fd, b)
		if err == unix.EINTR {
			continue
		}
		return n, err
	}
}

// WouldBlock reports whether err is the would-block/try-again error a
// non-blocking fd returns when no data is currently available.
func WouldBlock(err error) bool {
	return err == unix.EAGAIN || err == unix.EWOULDBLOCK
}
