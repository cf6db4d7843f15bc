// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

//go:build freebsd || dragonfly || darwin
// +build freebsd dragonfly darwin

package selector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func newSocketpair(t *testing.T) (int, int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	require.NoError(t, unix.SetNonblock(fds[0], true))
	require.NoError(t, unix.SetNonblock(fds[1], true))
	t.Cleanup(func() {
		unix.Close(fds[0])
		unix.Close(fds[1])
	})
	return fds[0], fds[1]
}

func TestRegisterAndSelectReportsReadable(t *testing.T) {
	sel, err := New()
	require.NoError(t, err)
	defer sel.Close()

	r, w := newSocketpair(t)
	tok := TokenFromFD(r)
	require.NoError(t, sel.Register(r, tok, Readable))

	_, err = unix.Write(w, []byte("hello"))
	require.NoError(t, err)

	events, err := sel.Select(1000)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, tok, events[0].Token)
	assert.True(t, events[0].Readable)
}

func TestDeregisterIsIdempotentAndSilencesFurtherEvents(t *testing.T) {
	sel, err := New()
	require.NoError(t, err)
	defer sel.Close()

	r, w := newSocketpair(t)
	tok := TokenFromFD(r)
	require.NoError(t, sel.Register(r, tok, Readable))
	require.NoError(t, sel.Deregister(r))
	require.NoError(t, sel.Deregister(r), "deregistering an already-deregistered fd must be a no-op")

	_, err = unix.Write(w, []byte("hello"))
	require.NoError(t, err)

	events, err := sel.Select(200)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestWakeUnblocksSelect(t *testing.T) {
	sel, err := New()
	require.NoError(t, err)
	defer sel.Close()

	done := make(chan []Event, 1)
	go func() {
		events, err := sel.Select(-1)
		require.NoError(t, err)
		done <- events
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, sel.Wake())

	select {
	case events := <-done:
		require.Len(t, events, 1)
		assert.Equal(t, WakeToken, events[0].Token)
	case <-time.After(2 * time.Second):
		t.Fatal("Select did not unblock after Wake")
	}
}

func TestReregisterAfterDeregisterSucceeds(t *testing.T) {
	sel, err := New()
	require.NoError(t, err)
	defer sel.Close()

	r, _ := newSocketpair(t)
	require.NoError(t, sel.Register(r, TokenFromFD(r), Readable))
	require.NoError(t, sel.Deregister(r))
	assert.NoError(t, sel.Register(r, TokenFromFD(r), Writable))
}
