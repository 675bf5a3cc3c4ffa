// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/gogpu/stereo"
	"github.com/gogpu/stereo/backend/software"
)

func newTestDriver(t *testing.T, cfg Config, opts ...software.Option) (*Driver, *software.Device) {
	t.Helper()
	dev := software.NewDevice(opts...)
	d, err := New(dev, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(d.Close)
	return d, dev
}

// rect returns a fan-mode rectangle at depth z.
func rect(dev stereo.BufferAllocator, x0, y0, x1, y1, z float32, c stereo.Color) *stereo.Shape {
	s := stereo.NewShape(dev)
	s.AddVertexXYZ(x0, y0, z, c)
	s.AddVertexXYZ(x1, y0, z, c)
	s.AddVertexXYZ(x1, y1, z, c)
	s.AddVertexXYZ(x0, y1, z, c)
	return s
}

func TestNew_Targets(t *testing.T) {
	tests := []struct {
		name   string
		stereo bool
		want   int
	}{
		{"stereo", true, 3},
		{"mono", false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Stereo = tt.stereo
			d, _ := newTestDriver(t, cfg)
			if got := len(d.Targets()); got != tt.want {
				t.Fatalf("targets = %d, want %d", got, tt.want)
			}
			top := d.Target(stereo.ScreenTop, stereo.EyeLeft)
			if top == nil || top.Width() != stereo.TopWidth || top.Height() != stereo.ScreenHeight {
				t.Errorf("top-left target = %+v, want %dx%d", top, stereo.TopWidth, stereo.ScreenHeight)
			}
			bottom := d.Target(stereo.ScreenBottom, stereo.EyeLeft)
			if bottom == nil || bottom.Width() != stereo.BottomWidth {
				t.Errorf("bottom target = %+v, want width %d", bottom, stereo.BottomWidth)
			}
			if d.Target(stereo.ScreenBottom, stereo.EyeRight) != nil {
				t.Error("bottom screen must not have a right-eye target")
			}
			if got := d.Target(stereo.ScreenTop, stereo.EyeRight) != nil; got != tt.stereo {
				t.Errorf("top-right target present = %v, want %v", got, tt.stereo)
			}
		})
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(nil, DefaultConfig()); !errors.Is(err, stereo.ErrNilDevice) {
		t.Errorf("New(nil) error = %v, want ErrNilDevice", err)
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative disparity", func(c *Config) { c.Disparity = -1 }},
		{"slider above one", func(c *Config) { c.Slider = 1.5 }},
		{"negative slider", func(c *Config) { c.Slider = -0.1 }},
		{"negative interval", func(c *Config) { c.FrameInterval = -1 }},
		{"transform past the float registers", func(c *Config) { c.Uniforms.Transform = 94 }},
		{"negative projection", func(c *Config) { c.Uniforms.Projection = -1 }},
		{"flag past the bool registers", func(c *Config) { c.Uniforms.UseTransform = stereo.MaxBoolUniforms }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(software.NewDevice(), cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNew_TargetFailureReleasesTargets(t *testing.T) {
	dev := &failingDevice{Device: software.NewDevice(), failAfter: 1}
	if _, err := New(dev, DefaultConfig()); !errors.Is(err, stereo.ErrTargetCreation) {
		t.Fatalf("New() error = %v, want ErrTargetCreation", err)
	}
	if n := len(dev.Surfaces()); n != 0 {
		t.Errorf("live surfaces after failed New = %d, want 0", n)
	}
}

// failingDevice fails target creation after failAfter successes.
type failingDevice struct {
	*software.Device
	failAfter int
	created   int
}

var errNoMemory = errors.New("out of target memory")

func (d *failingDevice) CreateScreenTarget(screen stereo.Screen, eye stereo.Eye, w, h int) (stereo.TargetHandle, error) {
	if d.created >= d.failAfter {
		return nil, errNoMemory
	}
	d.created++
	return d.Device.CreateScreenTarget(screen, eye, w, h)
}

func TestFrame_ClearsEveryTarget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClearColor = stereo.Blue
	d, dev := newTestDriver(t, cfg)
	if err := d.Frame(); err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	for _, s := range dev.Surfaces() {
		if got := s.Pixel(0, 0); got != stereo.Blue {
			t.Errorf("%s/%s pixel = %v, want %v", s.Screen(), s.Eye(), got, stereo.Blue)
		}
	}
	if st := dev.Stats(); st.Clears != 3 || st.Presents != 1 || st.Passes != 0 {
		t.Errorf("stats = %+v, want 3 clears, 1 present and no passes", st)
	}
}

func TestFrame_DrawsPerScreen(t *testing.T) {
	d, dev := newTestDriver(t, DefaultConfig())
	top := rect(dev, 10, 10, 50, 50, stereo.DefaultDepth, stereo.Red)
	bottom := rect(dev, 100, 100, 200, 200, stereo.DefaultDepth, stereo.Green)
	d.Add(stereo.ScreenTop, top)
	d.Add(stereo.ScreenBottom, bottom)

	if err := d.Frame(); err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	for _, eye := range []stereo.Eye{stereo.EyeLeft, stereo.EyeRight} {
		s := dev.Surface(stereo.ScreenTop, eye)
		if got := s.Pixel(30, 30); got != stereo.Red {
			t.Errorf("top/%s (30,30) = %v, want red", eye, got)
		}
		if got := s.Pixel(150, 150); got != stereo.DefaultClearColor {
			t.Errorf("top/%s (150,150) = %v, want clear color", eye, got)
		}
	}
	if got := dev.Surface(stereo.ScreenBottom, stereo.EyeLeft).Pixel(150, 150); got != stereo.Green {
		t.Errorf("bottom (150,150) = %v, want green", got)
	}
	if st := dev.Stats(); st.DrawCalls != 3 {
		t.Errorf("DrawCalls = %d, want 3", st.DrawCalls)
	}

	d.Remove(stereo.ScreenTop, top)
	if len(d.Drawables(stereo.ScreenTop)) != 0 {
		t.Error("Remove left the drawable in place")
	}
}

// sliceDrawable is a value type that cannot be compared with ==.
type sliceDrawable struct {
	shapes []*stereo.Shape
}

func (s sliceDrawable) Draw(pass stereo.Pass, eye stereo.Eye, u stereo.Uniforms) error {
	for _, sh := range s.shapes {
		if err := sh.Draw(pass, eye, u); err != nil {
			return err
		}
	}
	return nil
}

func TestRemove_NonComparableDrawable(t *testing.T) {
	d, dev := newTestDriver(t, DefaultConfig())
	top := rect(dev, 10, 10, 50, 50, stereo.DefaultDepth, stereo.Red)
	group := sliceDrawable{shapes: []*stereo.Shape{top}}
	d.Add(stereo.ScreenTop, group)
	d.Add(stereo.ScreenTop, top)

	d.Remove(stereo.ScreenTop, group)
	d.Remove(stereo.ScreenTop, top)

	got := d.Drawables(stereo.ScreenTop)
	if len(got) != 1 {
		t.Fatalf("Drawables() = %d, want the non-comparable one kept", len(got))
	}
	if _, ok := got[0].(sliceDrawable); !ok {
		t.Errorf("kept drawable = %T, want sliceDrawable", got[0])
	}
}

func TestFrame_StereoDisparity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Disparity = 20
	d, dev := newTestDriver(t, cfg)
	// Near geometry: shift = 10 * (1 - 0.1/0.5) = 8 pixels per eye.
	d.Add(stereo.ScreenTop, rect(dev, 100, 50, 200, 150, 0.1, stereo.Red))
	if err := d.Frame(); err != nil {
		t.Fatal(err)
	}
	left := dev.Surface(stereo.ScreenTop, stereo.EyeLeft)
	right := dev.Surface(stereo.ScreenTop, stereo.EyeRight)

	tests := []struct {
		name     string
		x        int
		leftRed  bool
		rightRed bool
	}{
		{"left eye shifted right", 204, true, false},
		{"right eye shifted left", 96, false, true},
		{"overlap", 150, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := left.Pixel(tt.x, 100) == stereo.Red; got != tt.leftRed {
				t.Errorf("left (%d,100) red = %v, want %v", tt.x, got, tt.leftRed)
			}
			if got := right.Pixel(tt.x, 100) == stereo.Red; got != tt.rightRed {
				t.Errorf("right (%d,100) red = %v, want %v", tt.x, got, tt.rightRed)
			}
		})
	}
}

func TestFrame_ScreenPlaneAndSliderZero(t *testing.T) {
	tests := []struct {
		name   string
		z      float32
		slider float32
	}{
		{"geometry on screen plane", stereo.DefaultDepth, 1},
		{"slider at zero", 0.1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, dev := newTestDriver(t, DefaultConfig())
			d.SetSlider(tt.slider)
			d.Add(stereo.ScreenTop, rect(dev, 100, 50, 200, 150, tt.z, stereo.Red))
			if err := d.Frame(); err != nil {
				t.Fatal(err)
			}
			left := dev.Surface(stereo.ScreenTop, stereo.EyeLeft)
			right := dev.Surface(stereo.ScreenTop, stereo.EyeRight)
			for x := 90; x < 210; x++ {
				if left.Pixel(x, 100) != right.Pixel(x, 100) {
					t.Fatalf("eyes differ at x=%d", x)
				}
			}
		})
	}
}

func TestEyeTransform(t *testing.T) {
	d, _ := newTestDriver(t, DefaultConfig())

	if _, shifted := d.EyeTransform(stereo.ScreenBottom, stereo.EyeLeft); shifted {
		t.Error("bottom screen must not be shifted")
	}
	m, shifted := d.EyeTransform(stereo.ScreenTop, stereo.EyeLeft)
	if !shifted {
		t.Fatal("top-left should be shifted")
	}
	p := m.Transform([4]float32{0, 0, 0, 1})
	if p[0] != 5 {
		t.Errorf("left eye shift at z=0 = %v, want 5", p[0])
	}
	m, _ = d.EyeTransform(stereo.ScreenTop, stereo.EyeRight)
	if p := m.Transform([4]float32{0, 0, 1, 1}); p[0] != 5 {
		t.Errorf("right eye shift at z=1 = %v, want 5", p[0])
	}

	d.SetSlider(2)
	if d.Slider() != 1 {
		t.Errorf("SetSlider(2) = %v, want clamped to 1", d.Slider())
	}
	d.SetSlider(-1)
	if _, shifted := d.EyeTransform(stereo.ScreenTop, stereo.EyeLeft); shifted {
		t.Error("slider 0 should disable the shift")
	}
}

func TestRunningAndCurrentFrame(t *testing.T) {
	d, _ := newTestDriver(t, DefaultConfig())
	for i := 0; i < FrameRate+1; i++ {
		if !d.Running() {
			t.Fatalf("Running() = false at frame %d", i)
		}
	}
	if got := d.CurrentFrame(); got != 1 {
		t.Errorf("CurrentFrame() = %d, want 1", got)
	}
	d.Exit()
	if d.Running() {
		t.Error("Running() = true after Exit")
	}
}

func TestRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FrameInterval = 0
	d, dev := newTestDriver(t, cfg)

	updates := 0
	err := d.Run(context.Background(), func(d *Driver) error {
		updates++
		if updates == 3 {
			d.Exit()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if updates != 3 {
		t.Errorf("updates = %d, want 3", updates)
	}
	if got := dev.Stats().Presents; got != 3 {
		t.Errorf("Presents = %d, want 3", got)
	}
}

func TestRun_Errors(t *testing.T) {
	d, _ := newTestDriver(t, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Run(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Run(canceled) error = %v, want context.Canceled", err)
	}

	errUpdate := errors.New("update failed")
	if err := d.Run(context.Background(), func(*Driver) error { return errUpdate }); !errors.Is(err, errUpdate) {
		t.Errorf("Run() error = %v, want update error", err)
	}
}

func TestRun_PresentError(t *testing.T) {
	errDisplay := errors.New("display lost")
	cfg := DefaultConfig()
	cfg.FrameInterval = 0
	d, _ := newTestDriver(t, cfg, software.WithPresentFunc(func([]*software.Surface) error {
		return errDisplay
	}))
	if err := d.Run(context.Background(), nil); !errors.Is(err, errDisplay) {
		t.Errorf("Run() error = %v, want present error", err)
	}
}

func TestClose(t *testing.T) {
	dev := software.NewDevice()
	d, err := New(dev, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	d.Close()
	d.Close()
	if err := d.Frame(); !errors.Is(err, ErrClosed) {
		t.Errorf("Frame() after Close error = %v, want ErrClosed", err)
	}
	if d.Running() {
		t.Error("Running() = true after Close")
	}
	if n := len(dev.Surfaces()); n != 0 {
		t.Errorf("live surfaces after Close = %d, want 0", n)
	}
}

// loggingDevice records the logger propagated by New.
type loggingDevice struct {
	*software.Device
	logger *slog.Logger
}

func (d *loggingDevice) SetLogger(l *slog.Logger) { d.logger = l }

func TestNew_PropagatesLogger(t *testing.T) {
	orig := stereo.Logger()
	t.Cleanup(func() { stereo.SetLogger(orig) })
	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	stereo.SetLogger(custom)

	dev := &loggingDevice{Device: software.NewDevice()}
	d, err := New(dev, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	if dev.logger != custom {
		t.Error("New did not propagate the stereo logger")
	}
}
