package stereo

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

var errFake = errors.New("fake device failure")

// fakeBuffer is a host-memory buffer recorded by fakeDevice.
type fakeBuffer struct {
	id        int
	label     string
	usage     gputypes.BufferUsage
	data      []byte
	destroyed bool
}

func (b *fakeBuffer) Size() uint64 { return uint64(len(b.data)) }

// fakeTarget is a host-memory target filled by ClearTarget.
type fakeTarget struct {
	screen    Screen
	eye       Eye
	w, h      int
	pixels    []Color
	destroyed bool
}

func (t *fakeTarget) Size() (int, int) { return t.w, t.h }

// fakeDevice records every call it receives. Failure switches make the
// next matching call return errFake.
type fakeDevice struct {
	buffers   []*fakeBuffer
	creates   int
	writes    int
	destroys  int
	clears    int
	draws     []DrawCall
	passes    int
	failAlloc bool
	failWrite bool
	failTgt   bool
}

func newFakeDevice() *fakeDevice { return &fakeDevice{} }

func (d *fakeDevice) CreateBuffer(label string, size uint64, usage gputypes.BufferUsage) (Buffer, error) {
	if d.failAlloc {
		return nil, errFake
	}
	d.creates++
	b := &fakeBuffer{id: d.creates, label: label, usage: usage, data: make([]byte, size)}
	d.buffers = append(d.buffers, b)
	return b, nil
}

func (d *fakeDevice) WriteBuffer(buf Buffer, offset uint64, data []byte) error {
	if d.failWrite {
		return errFake
	}
	b := buf.(*fakeBuffer)
	if b.destroyed {
		return fmt.Errorf("write to destroyed buffer %q", b.label)
	}
	if offset+uint64(len(data)) > b.Size() {
		return fmt.Errorf("write out of range")
	}
	copy(b.data[offset:], data)
	d.writes++
	return nil
}

func (d *fakeDevice) DestroyBuffer(buf Buffer) {
	if buf == nil {
		return
	}
	b := buf.(*fakeBuffer)
	if b.destroyed {
		panic("double destroy of " + b.label)
	}
	b.destroyed = true
	d.destroys++
}

// live returns the number of buffers not yet destroyed.
func (d *fakeDevice) live() int {
	n := 0
	for _, b := range d.buffers {
		if !b.destroyed {
			n++
		}
	}
	return n
}

func (d *fakeDevice) CreateScreenTarget(screen Screen, eye Eye, w, h int) (TargetHandle, error) {
	if d.failTgt {
		return nil, errFake
	}
	return &fakeTarget{screen: screen, eye: eye, w: w, h: h, pixels: make([]Color, w*h)}, nil
}

func (d *fakeDevice) ClearTarget(target TargetHandle, c Color) error {
	t := target.(*fakeTarget)
	for i := range t.pixels {
		t.pixels[i] = c
	}
	d.clears++
	return nil
}

func (d *fakeDevice) DestroyTarget(target TargetHandle) {
	if target == nil {
		return
	}
	target.(*fakeTarget).destroyed = true
}

func (d *fakeDevice) BeginPass(target TargetHandle, _ *Program) (Pass, error) {
	d.passes++
	return &fakePass{dev: d, target: target}, nil
}

type fakePass struct {
	dev    *fakeDevice
	target TargetHandle
}

func (p *fakePass) Target() TargetHandle { return p.target }

func (p *fakePass) Draw(call DrawCall) error {
	if call.VertexBuffer.(*fakeBuffer).destroyed || call.IndexBuffer.(*fakeBuffer).destroyed {
		return fmt.Errorf("draw with destroyed buffer")
	}
	p.dev.draws = append(p.dev.draws, call)
	return nil
}

func (p *fakePass) End() error { return nil }

var _ Device = (*fakeDevice)(nil)
