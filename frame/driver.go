// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/gogpu/stereo"
)

// ErrClosed is returned when using a Driver after Close.
var ErrClosed = errors.New("frame: driver closed")

// loggerSetter is implemented by devices that keep their own logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// Driver renders the drawables of each screen once per frame.
//
// Driver is NOT safe for concurrent use; drive it from one goroutine.
type Driver struct {
	dev     stereo.Device
	cfg     Config
	program *stereo.Program
	targets []*stereo.RenderTarget
	layers  map[stereo.Screen][]stereo.Drawable

	running bool
	frame   int
	closed  bool
}

// New creates a driver and its render targets on dev.
func New(dev stereo.Device, cfg Config) (*Driver, error) {
	if dev == nil {
		return nil, stereo.ErrNilDevice
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if ls, ok := dev.(loggerSetter); ok {
		ls.SetLogger(stereo.Logger())
	}

	d := &Driver{
		dev:     dev,
		cfg:     cfg,
		program: stereo.NewProgram(),
		layers:  make(map[stereo.Screen][]stereo.Drawable),
		running: true,
	}

	type slot struct {
		screen stereo.Screen
		eye    stereo.Eye
	}
	slots := []slot{{stereo.ScreenTop, stereo.EyeLeft}}
	if cfg.Stereo {
		slots = append(slots, slot{stereo.ScreenTop, stereo.EyeRight})
	}
	slots = append(slots, slot{stereo.ScreenBottom, stereo.EyeLeft})

	for _, s := range slots {
		w, h := s.screen.Size()
		rt, err := stereo.NewRenderTarget(dev, w, h, s.screen,
			stereo.WithEye(s.eye), stereo.WithClearColor(cfg.ClearColor))
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("frame: %s/%s target: %w", s.screen, s.eye, err)
		}
		d.targets = append(d.targets, rt)
	}
	stereo.Logger().Info("frame: driver created", "targets", len(d.targets), "stereo", cfg.Stereo)
	return d, nil
}

// Add appends a drawable to a screen. Drawables are drawn in the order
// they were added, on every target of that screen.
func (d *Driver) Add(screen stereo.Screen, drawable stereo.Drawable) {
	d.layers[screen] = append(d.layers[screen], drawable)
}

// Remove removes every occurrence of drawable from a screen. Drawables are
// matched with ==; values of non-comparable types never match and stay.
func (d *Driver) Remove(screen stereo.Screen, drawable stereo.Drawable) {
	kept := d.layers[screen][:0]
	for _, dr := range d.layers[screen] {
		if !sameDrawable(dr, drawable) {
			kept = append(kept, dr)
		}
	}
	d.layers[screen] = kept
}

func sameDrawable(a, b stereo.Drawable) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta != nil && !ta.Comparable() {
		return false
	}
	return a == b
}

// Drawables returns a copy of the drawables of a screen.
func (d *Driver) Drawables(screen stereo.Screen) []stereo.Drawable {
	return append([]stereo.Drawable(nil), d.layers[screen]...)
}

// Target returns the render target of a screen and eye, or nil.
func (d *Driver) Target(screen stereo.Screen, eye stereo.Eye) *stereo.RenderTarget {
	for _, rt := range d.targets {
		if rt.Screen() == screen && rt.Eye() == eye {
			return rt
		}
	}
	return nil
}

// Targets returns the render targets in draw order.
func (d *Driver) Targets() []*stereo.RenderTarget {
	return append([]*stereo.RenderTarget(nil), d.targets...)
}

// Program returns the uniform program the driver loads each frame.
func (d *Driver) Program() *stereo.Program {
	return d.program
}

// SetSlider sets the depth slider, clamped to [0, 1].
func (d *Driver) SetSlider(v float32) {
	d.cfg.Slider = min(max(v, 0), 1)
}

// Slider returns the depth slider.
func (d *Driver) Slider() float32 {
	return d.cfg.Slider
}

// EyeTransform returns the transform applied to the given target. The
// second result reports whether the target is shifted at all.
func (d *Driver) EyeTransform(screen stereo.Screen, eye stereo.Eye) (stereo.Matrix, bool) {
	if !d.cfg.Stereo || !screen.Stereoscopic() {
		return stereo.Identity(), false
	}
	half := d.cfg.Disparity * d.cfg.Slider / 2
	if half == 0 {
		return stereo.Identity(), false
	}
	if eye == stereo.EyeRight {
		half = -half
	}
	return DepthShift(half), true
}

// DepthShift returns the transform that moves a vertex at depth z
// horizontally by shift·(1 - z/DefaultDepth).
func DepthShift(shift float32) stereo.Matrix {
	m := stereo.Identity()
	m[2] = -shift / stereo.DefaultDepth
	m[3] = shift
	return m
}

// Frame renders one frame: every target is cleared and its screen's
// drawables are drawn, then the device presents if it can.
func (d *Driver) Frame() error {
	if d.closed {
		return ErrClosed
	}
	for _, rt := range d.targets {
		if err := d.renderTarget(rt); err != nil {
			return fmt.Errorf("frame: %s/%s: %w", rt.Screen(), rt.Eye(), err)
		}
	}
	if p, ok := d.dev.(stereo.Presenter); ok {
		if err := p.Present(); err != nil {
			return fmt.Errorf("frame: present: %w", err)
		}
	}
	return nil
}

func (d *Driver) renderTarget(rt *stereo.RenderTarget) error {
	if err := rt.Clear(); err != nil {
		return err
	}
	drawables := d.layers[rt.Screen()]
	if len(drawables) == 0 {
		return nil
	}

	u := d.cfg.Uniforms
	if err := d.program.SetMatrix(u.Projection, stereo.ScreenProjection(rt.Width(), rt.Height())); err != nil {
		return err
	}
	transform, shifted := d.EyeTransform(rt.Screen(), rt.Eye())
	if err := d.program.SetMatrix(u.Transform, transform); err != nil {
		return err
	}
	if err := d.program.SetBool(u.UseTransform, shifted); err != nil {
		return err
	}

	pass, err := d.dev.BeginPass(rt.Handle(), d.program)
	if err != nil {
		return err
	}
	for _, dr := range drawables {
		if err := dr.Draw(pass, rt.Eye(), u); err != nil {
			_ = pass.End()
			return err
		}
	}
	return pass.End()
}

// Running increments the frame counter and reports whether the loop should
// continue. Call it once per frame.
func (d *Driver) Running() bool {
	d.frame++
	return d.running && !d.closed
}

// CurrentFrame returns the frame counter modulo FrameRate.
func (d *Driver) CurrentFrame() int {
	d.frame %= FrameRate
	return d.frame
}

// Exit makes Running report false from now on.
func (d *Driver) Exit() {
	d.running = false
}

// Run calls update and renders a frame until Exit is called, update or
// rendering fails, or ctx is done. Frames are paced by Config.FrameInterval.
func (d *Driver) Run(ctx context.Context, update func(*Driver) error) error {
	var tick <-chan time.Time
	if d.cfg.FrameInterval > 0 {
		ticker := time.NewTicker(d.cfg.FrameInterval)
		defer ticker.Stop()
		tick = ticker.C
	}
	for d.Running() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if update != nil {
			if err := update(d); err != nil {
				return err
			}
		}
		if err := d.Frame(); err != nil {
			return err
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}
	}
	return nil
}

// Close destroys the render targets. Drawables are owned by the caller.
// Close is idempotent.
func (d *Driver) Close() {
	if d.closed {
		return
	}
	for _, rt := range d.targets {
		rt.Destroy()
	}
	d.targets = nil
	d.closed = true
}
