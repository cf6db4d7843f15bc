// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

package selector

import "unsafe"

// Token identifies a registration. It is derived directly from the raw file
// descriptor number rather than allocated from a side table: trading fd
// reuse-after-close concerns for a stateless mapping. Deregistering before
// closing an fd is the caller's responsibility for exactly this reason.
type Token uintptr

// TokenFromFD derives the Token the selector echoes back on events for fd.
func TokenFromFD(fd int) Token {
	return Token(fd)
}

// WakeToken is the reserved token used by the selector's self-wake
// (EVFILT_USER) registration. No real file descriptor ever receives it: fd 0
// is stdin, which this runtime never registers for readiness.
const WakeToken Token = 0

// Ptr returns the pointer-width payload carried in a kevent's udata field.
// Never dereferenced; only ever round-trips back through TokenFromPtr.
func (t Token) Ptr() unsafe.Pointer {
	return unsafe.Pointer(uintptr(t)) //nolint:govet // never dereferenced, see doc comment
}

// TokenFromPtr recovers a Token from a udata payload produced by Ptr.
func TokenFromPtr(p unsafe.Pointer) Token {
	return Token(uintptr(p))
}
