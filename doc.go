// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

// Package tinyio is a minimal, single-threaded asynchronous I/O runtime for
// network services on BSD-derived operating systems (macOS, FreeBSD,
// DragonFly BSD). It runs a top-level computation to completion by
// alternating between stepping ready tasks and blocking in a kqueue-backed
// selector when nothing can make progress, and it exposes a small
// asynchronous TCP facade (net.Listener, net.Stream) built on top of that
// loop.
//
// A single call to BlockOn owns the scheduler and reactor for its duration;
// Spawn, and the futures in the net subpackage, reach them through the
// runtime installed on the calling goroutine's locked OS thread. Nesting
// BlockOn calls on the same thread is a programming error.
package tinyio
