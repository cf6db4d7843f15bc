// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

package tinyio

import "errors"

// ErrRuntimeInstalled is returned by BlockOn when a runtime is already
// installed on the calling OS thread.
var ErrRuntimeInstalled = errors.New("tinyio: a runtime is already running on this thread")

// ErrNoRuntime is returned by Spawn, or by any net facade call, when no
// runtime is installed on the calling OS thread.
var ErrNoRuntime = errors.New("tinyio: no runtime installed on this thread")
