package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/stereo"
	"github.com/gogpu/wgpu/hal"
)

// Buffer is a HAL buffer created by a Device.
type Buffer struct {
	raw       hal.Buffer
	label     string
	size      uint64
	usage     gputypes.BufferUsage
	destroyed bool
}

// Size implements stereo.Buffer. It is the requested size rounded up to a
// multiple of four bytes.
func (b *Buffer) Size() uint64 { return b.size }

// Label returns the debug label.
func (b *Buffer) Label() string { return b.label }

// Usage returns the usage flags the buffer was created with.
func (b *Buffer) Usage() gputypes.BufferUsage { return b.usage }

// align4 rounds n up to a multiple of four, the copy alignment of
// Queue.WriteBuffer.
func align4(n uint64) uint64 {
	return (n + 3) &^ 3
}

// CreateBuffer implements stereo.BufferAllocator.
func (d *Device) CreateBuffer(label string, size uint64, usage gputypes.BufferUsage) (stereo.Buffer, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	size = max(align4(size), 4)
	raw, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create buffer %q: %w", label, err)
	}
	b := &Buffer{raw: raw, label: label, size: size, usage: usage}
	d.buffers[b] = struct{}{}
	slogger().Debug("wgpu: buffer created", "label", label, "size", size)
	return b, nil
}

// WriteBuffer implements stereo.BufferAllocator. Data whose length is not a
// multiple of four is zero-padded.
func (d *Device) WriteBuffer(buf stereo.Buffer, offset uint64, data []byte) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	b, err := d.buffer(buf)
	if err != nil {
		return err
	}
	if offset%4 != 0 {
		return fmt.Errorf("wgpu: write offset %d into %q is not 4-byte aligned", offset, b.label)
	}
	if n := uint64(len(data)); n%4 != 0 {
		padded := make([]byte, align4(n))
		copy(padded, data)
		data = padded
	}
	if end := offset + uint64(len(data)); end > b.size {
		return fmt.Errorf("wgpu: write [%d, %d) into %q of %d bytes", offset, end, b.label, b.size)
	}
	d.queue.WriteBuffer(b.raw, offset, data)
	return nil
}

// DestroyBuffer implements stereo.BufferAllocator.
func (d *Device) DestroyBuffer(buf stereo.Buffer) {
	if buf == nil {
		return
	}
	if b, ok := buf.(*Buffer); ok && b.destroyed {
		return
	}
	b, err := d.buffer(buf)
	if err != nil {
		slogger().Warn("wgpu: destroy buffer", "err", err)
		return
	}
	d.device.DestroyBuffer(b.raw)
	b.raw = nil
	b.destroyed = true
	delete(d.buffers, b)
}

// buffer resolves a live buffer created by this device.
func (d *Device) buffer(buf stereo.Buffer) (*Buffer, error) {
	b, ok := buf.(*Buffer)
	if !ok {
		return nil, fmt.Errorf("%w: buffer %T", ErrForeignHandle, buf)
	}
	if _, live := d.buffers[b]; !live {
		if b.destroyed {
			return nil, fmt.Errorf("wgpu: buffer %q destroyed", b.label)
		}
		return nil, fmt.Errorf("%w: buffer %q", ErrForeignHandle, b.label)
	}
	return b, nil
}

func putFloat32(dst []byte, v float32) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
}
