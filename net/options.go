// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

package net

// ListenOption configures a Listen call.
type ListenOption struct {
	f func(*listenOptions)
}

type listenOptions struct {
	reusePort      bool
	readBufferSize int
}

func (o *listenOptions) setDefault() {
	o.readBufferSize = 4096
}

func (o *listenOptions) apply(opts []ListenOption) {
	o.setDefault()
	for _, opt := range opts {
		opt.f(o)
	}
}

// WithReusePort binds the listener with SO_REUSEPORT, letting several
// processes (or several Listen calls within one) share the same port.
func WithReusePort() ListenOption {
	return ListenOption{f: func(o *listenOptions) { o.reusePort = true }}
}

// WithReadBufferSize sets the per-Read syscall buffer size used by Streams
// accepted from this listener. Default is 4096.
func WithReadBufferSize(n int) ListenOption {
	return ListenOption{f: func(o *listenOptions) {
		if n > 0 {
			o.readBufferSize = n
		}
	}}
}
