// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.

// Package log provides the logging surface tinyio uses for its own fatal
// and diagnostic output. It is deliberately tiny: the runtime only ever
// logs a handful of events (fatal reactor/selector failures, the demo's
// "listening on" line), so one default zap-backed logger is enough.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Default is the logger used by the package-level helpers below. Replace
// it with anything implementing Logger to redirect tinyio's own output.
var Default Logger = zap.New(
	zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		zap.NewAtomicLevelAt(zapcore.InfoLevel),
	),
	zap.AddCaller(),
	zap.AddCallerSkip(1),
).Sugar()

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	NameKey:        "name",
	CallerKey:      "caller",
	MessageKey:     "message",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalColorLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.SecondsDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// Logger is the minimal interface tinyio logs through.
type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
}

// Debug logs to DEBUG log.
func Debug(args ...any) { Default.Debug(args...) }

// Debugf logs to DEBUG log, fmt.Printf style.
func Debugf(format string, args ...any) { Default.Debugf(format, args...) }

// Info logs to INFO log.
func Info(args ...any) { Default.Info(args...) }

// Infof logs to INFO log, fmt.Printf style.
func Infof(format string, args ...any) { Default.Infof(format, args...) }

// Warn logs to WARNING log.
func Warn(args ...any) { Default.Warn(args...) }

// Warnf logs to WARNING log, fmt.Printf style.
func Warnf(format string, args ...any) { Default.Warnf(format, args...) }

// Error logs to ERROR log.
func Error(args ...any) { Default.Error(args...) }

// Errorf logs to ERROR log, fmt.Printf style.
func Errorf(format string, args ...any) { Default.Errorf(format, args...) }

// Fatal logs to FATAL log then terminates the process. The runtime itself
// never calls it; the demo CLI uses Fatalf when binding fails or BlockOn
// returns an error.
func Fatal(args ...any) { Default.Fatal(args...) }

// Fatalf logs to FATAL log, fmt.Printf style, then terminates the process.
func Fatalf(format string, args ...any) { Default.Fatalf(format, args...) }
