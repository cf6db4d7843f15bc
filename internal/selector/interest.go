// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

// Package selector is a thin wrapper over the BSD kqueue family: create a
// notifier handle, register or deregister interest in a raw file
// descriptor's readiness under a caller token, and block until readiness
// events arrive.
package selector

import "fmt"

// Interest is a bitset over readable/writable readiness. The zero value is
// not a valid Interest; use Readable, Writable, or their combination.
type Interest uint8

const (
	// Readable requests notification when the fd has data to read.
	Readable Interest = 1 << iota
	// Writable requests notification when the fd can accept a write.
	Writable
)

// IsReadable reports whether i includes readable readiness.
func (i Interest) IsReadable() bool { return i&Readable != 0 }

// IsWritable reports whether i includes writable readiness.
func (i Interest) IsWritable() bool { return i&Writable != 0 }

// String implements fmt.Stringer.
func (i Interest) String() string {
	switch {
	case i.IsReadable() && i.IsWritable():
		return "READABLE|WRITABLE"
	case i.IsReadable():
		return "READABLE"
	case i.IsWritable():
		return "WRITABLE"
	default:
		return fmt.Sprintf("Interest(%d)", uint8(i))
	}
}
