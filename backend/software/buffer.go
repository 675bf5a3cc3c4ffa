// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Buffer is a host-memory buffer.
type Buffer struct {
	label     string
	usage     gputypes.BufferUsage
	data      []byte
	destroyed bool
}

// Size implements stereo.Buffer.
func (b *Buffer) Size() uint64 {
	return uint64(len(b.data))
}

// Label returns the debug label.
func (b *Buffer) Label() string {
	return b.label
}

// Usage returns the usage flags the buffer was created with.
func (b *Buffer) Usage() gputypes.BufferUsage {
	return b.usage
}

// Bytes returns the buffer contents.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// checkRead verifies the buffer can serve n bytes for the given usage.
func (b *Buffer) checkRead(usage gputypes.BufferUsage, n uint64) error {
	if b.destroyed {
		return fmt.Errorf("%w: %q", ErrBufferDestroyed, b.label)
	}
	if b.usage&usage == 0 {
		return fmt.Errorf("%w: %q bound as %v", ErrInvalidUsage, b.label, usage)
	}
	if n > b.Size() {
		return fmt.Errorf("%w: %q needs %d bytes, has %d", ErrOutOfRange, b.label, n, b.Size())
	}
	return nil
}
