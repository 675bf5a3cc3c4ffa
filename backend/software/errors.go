// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import "errors"

// Errors returned by the software device.
var (
	// ErrTargetTooLarge is returned when a screen target exceeds
	// MaxTargetSize in either dimension.
	ErrTargetTooLarge = errors.New("software: target too large")

	// ErrBufferDestroyed is returned when a destroyed buffer is written or drawn.
	ErrBufferDestroyed = errors.New("software: buffer destroyed")

	// ErrOutOfRange is returned when a write or draw reads past a buffer's end.
	ErrOutOfRange = errors.New("software: access out of range")

	// ErrInvalidUsage is returned when a buffer is bound for a usage it
	// was not created with.
	ErrInvalidUsage = errors.New("software: invalid buffer usage")

	// ErrForeignHandle is returned for buffers and targets created by
	// another device.
	ErrForeignHandle = errors.New("software: handle not created by this device")

	// ErrPassEnded is returned when drawing into a pass after End.
	ErrPassEnded = errors.New("software: pass already ended")

	// ErrUnsupportedTopology is returned for strip topologies; shapes only
	// produce list topologies.
	ErrUnsupportedTopology = errors.New("software: unsupported primitive topology")
)
