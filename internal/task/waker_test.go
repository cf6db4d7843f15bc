// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

package task

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	notified []ID
}

func (n *recordingNotifier) Notify(id ID) {
	n.notified = append(n.notified, id)
}

func TestWakerWakeByRefNotifiesActiveNotifier(t *testing.T) {
	n := &recordingNotifier{}
	SetNotifier(n)
	defer SetNotifier(nil)

	w := NewWaker(ID(7))
	w.WakeByRef()
	w.Wake()

	assert.Equal(t, []ID{7, 7}, n.notified)
}

func TestWakerWithNoActiveNotifierIsANoOp(t *testing.T) {
	SetNotifier(nil)
	w := NewWaker(ID(1))
	assert.NotPanics(t, func() { w.WakeByRef() })
}

func TestWakerCloneAndIDRoundTrip(t *testing.T) {
	w := NewWaker(ID(42))
	clone := w.Clone()
	assert.Equal(t, w.ID(), clone.ID())
}

func TestIDPointerRoundTrip(t *testing.T) {
	for _, id := range []ID{0, 1, 42, ID(^uintptr(0) >> 1)} {
		p := id.Ptr()
		require.Equal(t, id, FromPtr(p))
	}
}

func TestIDPointerNeverDereferenced(t *testing.T) {
	// The payload is a round-tripped scalar, not a real pointer: an ID that
	// doesn't correspond to any live allocation must still round-trip.
	bogus := ID(0xdeadbeef)
	var p unsafe.Pointer = bogus.Ptr()
	assert.Equal(t, bogus, FromPtr(p))
}
