// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

//go:build freebsd || dragonfly || darwin
// +build freebsd dragonfly darwin

package selector

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// newKevent builds a change entry for fd carrying token in the udata field,
// the way the kernel echoes it back on Select.
func newKevent(fd int, filter int16, flags uint16, token Token) unix.Kevent_t {
	ev := unix.Kevent_t{
		Ident:  newKeventIdent(fd),
		Filter: filter,
		Flags:  flags,
	}
	setUdata(&ev, token.Ptr())
	return ev
}

// setUdata stores p in ev's udata field regardless of the field's declared
// pointer-ish type, which varies across BSD variants.
func setUdata(ev *unix.Kevent_t, p unsafe.Pointer) {
	*(*unsafe.Pointer)(unsafe.Pointer(&ev.Udata)) = p
}

// udataPtr reads back the payload stored by setUdata.
func udataPtr(ev unix.Kevent_t) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Pointer(&ev.Udata))
}
