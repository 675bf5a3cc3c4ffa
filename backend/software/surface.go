// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/gogpu/stereo"
)

// Surface is a CPU screen target: a rectangular, non-premultiplied RGBA
// pixel buffer bound to one screen and eye.
type Surface struct {
	width     int
	height    int
	screen    stereo.Screen
	eye       stereo.Eye
	data      []uint8 // RGBA, 4 bytes per pixel
	destroyed bool
}

// NewSurface creates a surface with the given dimensions.
func NewSurface(width, height int, screen stereo.Screen, eye stereo.Eye) *Surface {
	return &Surface{
		width:  width,
		height: height,
		screen: screen,
		eye:    eye,
		data:   make([]uint8, width*height*4),
	}
}

// Size implements stereo.TargetHandle.
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// Width returns the width of the surface.
func (s *Surface) Width() int { return s.width }

// Height returns the height of the surface.
func (s *Surface) Height() int { return s.height }

// Screen returns the screen the surface was created for.
func (s *Surface) Screen() stereo.Screen { return s.screen }

// Eye returns the eye the surface was created for.
func (s *Surface) Eye() stereo.Eye { return s.eye }

// Data returns the raw pixel data (RGBA format).
func (s *Surface) Data() []uint8 {
	return s.data
}

// SetPixel sets the color of a single pixel. Out-of-bounds writes are ignored.
func (s *Surface) SetPixel(x, y int, c stereo.Color) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	i := (y*s.width + x) * 4
	s.data[i+0] = c.R()
	s.data[i+1] = c.G()
	s.data[i+2] = c.B()
	s.data[i+3] = c.A()
}

// Pixel returns the color of a single pixel.
func (s *Surface) Pixel(x, y int) stereo.Color {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return stereo.Transparent
	}
	i := (y*s.width + x) * 4
	return stereo.RGBA8(s.data[i+0], s.data[i+1], s.data[i+2], s.data[i+3])
}

// BlendPixel composites c over the pixel with straight-alpha source-over.
func (s *Surface) BlendPixel(x, y int, c stereo.Color) {
	sa := c.A()
	switch {
	case sa == 0:
		return
	case sa == 0xFF:
		s.SetPixel(x, y, c)
		return
	}
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	dst := s.Pixel(x, y)
	as := float32(sa) / 255
	ad := float32(dst.A()) / 255 * (1 - as)
	ao := as + ad
	mix := func(cs, cd uint8) float32 {
		return (float32(cs)*as + float32(cd)*ad) / ao / 255
	}
	s.SetPixel(x, y, stereo.ColorFromFloat4([4]float32{
		mix(c.R(), dst.R()),
		mix(c.G(), dst.G()),
		mix(c.B(), dst.B()),
		ao,
	}))
}

// Clear fills the entire surface with a color.
func (s *Surface) Clear(c stereo.Color) {
	r, g, b, a := c.R(), c.G(), c.B(), c.A()
	for i := 0; i < len(s.data); i += 4 {
		s.data[i+0] = r
		s.data[i+1] = g
		s.data[i+2] = b
		s.data[i+3] = a
	}
}

// Image converts the surface to an image.NRGBA.
func (s *Surface) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, s.width, s.height))
	copy(img.Pix, s.data)
	return img
}

// SavePNG saves the surface to a PNG file.
func (s *Surface) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, s.Image())
}

// At implements the image.Image interface.
func (s *Surface) At(x, y int) color.Color {
	return s.Pixel(x, y)
}

// Bounds implements the image.Image interface.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// ColorModel implements the image.Image interface.
func (s *Surface) ColorModel() color.Model {
	return color.NRGBAModel
}
