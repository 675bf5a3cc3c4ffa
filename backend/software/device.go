// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/stereo"
)

// MaxTargetSize is the largest width or height of a screen target.
const MaxTargetSize = 1024

// Stats counts the work a Device has done.
type Stats struct {
	BuffersCreated   int
	BuffersDestroyed int
	Uploads          int
	BytesUploaded    uint64
	TargetsCreated   int
	Clears           int
	Passes           int
	DrawCalls        int
	PixelsWritten    int
	Presents         int
}

// PresentFunc receives the live surfaces of a device on Present.
type PresentFunc func(surfaces []*Surface) error

// Option configures a software Device.
type Option func(*Device)

// WithPresentFunc sets the callback run by Present.
func WithPresentFunc(fn PresentFunc) Option {
	return func(d *Device) {
		d.present = fn
	}
}

// Device is a CPU implementation of stereo.Device.
//
// Buffers are byte slices; screen targets are Surfaces; passes rasterize
// directly into the target surface as draws are recorded.
//
// Device is not safe for concurrent use.
type Device struct {
	buffers  map[*Buffer]struct{}
	surfaces []*Surface
	stats    Stats
	present  PresentFunc
}

// NewDevice creates a software device.
func NewDevice(opts ...Option) *Device {
	d := &Device{buffers: make(map[*Buffer]struct{})}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Stats returns a snapshot of the device counters.
func (d *Device) Stats() Stats {
	return d.stats
}

// CreateBuffer implements stereo.BufferAllocator.
func (d *Device) CreateBuffer(label string, size uint64, usage gputypes.BufferUsage) (stereo.Buffer, error) {
	b := &Buffer{label: label, usage: usage, data: make([]byte, size)}
	d.buffers[b] = struct{}{}
	d.stats.BuffersCreated++
	stereo.Logger().Debug("software: buffer created", "label", label, "size", size)
	return b, nil
}

// WriteBuffer implements stereo.BufferAllocator.
func (d *Device) WriteBuffer(buf stereo.Buffer, offset uint64, data []byte) error {
	b, err := d.buffer(buf)
	if err != nil {
		return err
	}
	if b.destroyed {
		return fmt.Errorf("%w: %q", ErrBufferDestroyed, b.label)
	}
	end := offset + uint64(len(data))
	if end > b.Size() {
		return fmt.Errorf("%w: write [%d, %d) into %q of %d bytes", ErrOutOfRange, offset, end, b.label, b.Size())
	}
	copy(b.data[offset:end], data)
	d.stats.Uploads++
	d.stats.BytesUploaded += uint64(len(data))
	return nil
}

// DestroyBuffer implements stereo.BufferAllocator.
func (d *Device) DestroyBuffer(buf stereo.Buffer) {
	if buf == nil {
		return
	}
	b, err := d.buffer(buf)
	if err != nil {
		stereo.Logger().Warn("software: destroy buffer", "err", err)
		return
	}
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.data = nil
	delete(d.buffers, b)
	d.stats.BuffersDestroyed++
}

func (d *Device) buffer(buf stereo.Buffer) (*Buffer, error) {
	b, ok := buf.(*Buffer)
	if !ok {
		return nil, fmt.Errorf("%w: buffer %T", ErrForeignHandle, buf)
	}
	if _, live := d.buffers[b]; !live && !b.destroyed {
		return nil, fmt.Errorf("%w: buffer %q", ErrForeignHandle, b.label)
	}
	return b, nil
}

// CreateScreenTarget implements stereo.TargetFactory.
func (d *Device) CreateScreenTarget(screen stereo.Screen, eye stereo.Eye, width, height int) (stereo.TargetHandle, error) {
	if width > MaxTargetSize || height > MaxTargetSize {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrTargetTooLarge, width, height, MaxTargetSize)
	}
	s := NewSurface(width, height, screen, eye)
	d.surfaces = append(d.surfaces, s)
	d.stats.TargetsCreated++
	stereo.Logger().Info("software: surface created",
		"screen", screen, "eye", eye, "width", width, "height", height)
	return s, nil
}

// ClearTarget implements stereo.TargetFactory.
func (d *Device) ClearTarget(target stereo.TargetHandle, c stereo.Color) error {
	s, err := d.surface(target)
	if err != nil {
		return err
	}
	s.Clear(c)
	d.stats.Clears++
	return nil
}

// DestroyTarget implements stereo.TargetFactory.
func (d *Device) DestroyTarget(target stereo.TargetHandle) {
	if target == nil {
		return
	}
	s, err := d.surface(target)
	if err != nil {
		stereo.Logger().Warn("software: destroy target", "err", err)
		return
	}
	s.destroyed = true
	for i, live := range d.surfaces {
		if live == s {
			d.surfaces = append(d.surfaces[:i], d.surfaces[i+1:]...)
			break
		}
	}
}

func (d *Device) surface(target stereo.TargetHandle) (*Surface, error) {
	s, ok := target.(*Surface)
	if !ok {
		return nil, fmt.Errorf("%w: target %T", ErrForeignHandle, target)
	}
	if s.destroyed {
		return nil, fmt.Errorf("software: %s/%s surface destroyed", s.screen, s.eye)
	}
	return s, nil
}

// Surface returns the live surface for a screen and eye, or nil.
func (d *Device) Surface(screen stereo.Screen, eye stereo.Eye) *Surface {
	for i := len(d.surfaces) - 1; i >= 0; i-- {
		if s := d.surfaces[i]; s.screen == screen && s.eye == eye {
			return s
		}
	}
	return nil
}

// Surfaces returns the live surfaces in creation order.
func (d *Device) Surfaces() []*Surface {
	out := make([]*Surface, len(d.surfaces))
	copy(out, d.surfaces)
	return out
}

// BeginPass implements stereo.Device.
func (d *Device) BeginPass(target stereo.TargetHandle, program *stereo.Program) (stereo.Pass, error) {
	s, err := d.surface(target)
	if err != nil {
		return nil, err
	}
	if program == nil {
		program = stereo.NewProgram()
	}
	d.stats.Passes++
	return &pass{dev: d, target: s, program: program}, nil
}

// Present implements stereo.Presenter.
func (d *Device) Present() error {
	d.stats.Presents++
	if d.present == nil {
		return nil
	}
	return d.present(d.Surfaces())
}

var (
	_ stereo.Device    = (*Device)(nil)
	_ stereo.Presenter = (*Device)(nil)
)
