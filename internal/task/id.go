// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

// Package task defines the unit of suspendable computation driven by the
// scheduler, together with the waker protocol used to reschedule it.
package task

import "unsafe"

// ID is the dense, monotonically increasing identity of a spawned task. It
// is small enough to round-trip through a machine word (see Ptr and
// FromPtr). A Waker carries the ID value itself; selector Tokens are
// derived from file descriptors, not from task IDs.
type ID uintptr

// Ptr returns the pointer-width payload form of an ID, for passing it
// through an opaque pointer slot. The returned pointer is never
// dereferenced; it only ever round-trips back through FromPtr.
func (id ID) Ptr() unsafe.Pointer {
	return unsafe.Pointer(uintptr(id)) //nolint:govet // never dereferenced, see doc comment
}

// FromPtr recovers an ID from a payload previously produced by Ptr.
func FromPtr(p unsafe.Pointer) ID {
	return ID(uintptr(p))
}
