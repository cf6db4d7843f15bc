// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

//go:build freebsd || dragonfly
// +build freebsd dragonfly

package netutil

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// Accept wraps accept4, marking the returned descriptor close-on-exec and
// non-blocking in one syscall.
func Accept(fd int) (int, unix.Sockaddr, error) {
	ns, sa, err := unix.Accept4(fd, syscall.SOCK_CLOEXEC|syscall.SOCK_NONBLOCK)
	if err == nil {
		return ns, sa, nil
	}
	if err != syscall.ENOSYS {
		return -1, nil, err
	}
	ns, sa, err = unix.Accept(fd)
	if err != nil {
		return -1, nil, err
	}
	syscall.CloseOnExec(ns)
	syscall.SetNonblock(ns, true)
	return ns, sa, nil
}
