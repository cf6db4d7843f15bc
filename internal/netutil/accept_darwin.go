// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

//go:build darwin
// +build darwin

package netutil

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// Accept wraps accept; Darwin has no accept4, so close-on-exec and
// non-blocking are applied as separate fcntl calls after the fact.
func Accept(fd int) (int, unix.Sockaddr, error) {
	ns, sa, err := unix.Accept(fd)
	if err != nil {
		return -1, nil, err
	}
	syscall.CloseOnExec(ns)
	if err := syscall.SetNonblock(ns, true); err != nil {
		syscall.Close(ns)
		return -1, nil, err
	}
	return ns, sa, nil
}
