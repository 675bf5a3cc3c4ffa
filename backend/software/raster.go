// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"math"

	"github.com/gogpu/stereo"
)

// subpixelBits is the precision of snapped vertex positions. Edge functions
// are evaluated on whole subpixels so that edges shared by two triangles
// classify every pixel center identically.
const (
	subpixelBits  = 4
	subpixelScale = 1 << subpixelBits
	subpixelHalf  = subpixelScale / 2
)

// screenVertex is a vertex after projection and viewport mapping.
type screenVertex struct {
	x, y  float32 // pixels, origin top-left
	z     float32 // depth in [0, 1] when visible
	w     float32 // clip-space w before the divide
	color [4]float32
}

// toScreen maps a clip-space position to pixel coordinates.
func toScreen(clip [4]float32, c stereo.Color, width, height int) screenVertex {
	w := clip[3]
	if w == 0 {
		w = math.SmallestNonzeroFloat32
	}
	ndcX, ndcY, ndcZ := clip[0]/w, clip[1]/w, clip[2]/w
	return screenVertex{
		x:     (ndcX + 1) * 0.5 * float32(width),
		y:     (1 - ndcY) * 0.5 * float32(height),
		z:     ndcZ,
		w:     clip[3],
		color: c.Float4(),
	}
}

// snap rounds a pixel coordinate to the subpixel grid. The result is a
// whole number of subpixels held in a float64, so edge functions of
// vertices within 2^25 subpixels of the origin are computed exactly.
func snap(v float32) float64 {
	return math.Round(float64(v) * subpixelScale)
}

// edge evaluates the edge function of a->b at p in subpixel units.
func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// isTopLeft reports whether a->b is a top or left edge of a triangle with
// positive orientation in Y-down coordinates.
func isTopLeft(ax, ay, bx, by float64) bool {
	dx, dy := bx-ax, by-ay
	return (dy == 0 && dx > 0) || dy < 0
}

// inside applies the top-left rule to an edge value.
func inside(w float64, topLeft bool) bool {
	return w > 0 || (w == 0 && topLeft)
}

// pixelSpan clamps a subpixel range to the pixel indices [0, limit).
func pixelSpan(lo, hi float64, limit int) (int, int) {
	lo = math.Min(math.Max(math.Floor(lo/subpixelScale), 0), float64(limit))
	hi = math.Max(math.Min(math.Floor(hi/subpixelScale), float64(limit-1)), -1)
	return int(lo), int(hi)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// rasterTriangle fills the pixels whose centers lie inside the triangle,
// interpolating vertex colors. Pixels on an edge are owned by the triangle
// only if that edge is a top or left edge. Vertices may lie arbitrarily far
// outside the surface.
func rasterTriangle(dst *Surface, v0, v1, v2 screenVertex) int {
	if v0.w <= 0 || v1.w <= 0 || v2.w <= 0 {
		return 0
	}

	x0, y0 := snap(v0.x), snap(v0.y)
	x1, y1 := snap(v1.x), snap(v1.y)
	x2, y2 := snap(v2.x), snap(v2.y)
	if !finite(x0, y0, x1, y1, x2, y2) {
		return 0
	}

	area := edge(x0, y0, x1, y1, x2, y2)
	if area == 0 || math.IsInf(area, 0) {
		return 0
	}
	if area < 0 {
		x1, y1, x2, y2 = x2, y2, x1, y1
		v1, v2 = v2, v1
		area = -area
	}

	minX, maxX := pixelSpan(min(x0, x1, x2), max(x0, x1, x2), dst.width)
	minY, maxY := pixelSpan(min(y0, y1, y2), max(y0, y1, y2), dst.height)

	tl0 := isTopLeft(x1, y1, x2, y2)
	tl1 := isTopLeft(x2, y2, x0, y0)
	tl2 := isTopLeft(x0, y0, x1, y1)

	inv := 1 / area
	filled := 0
	for py := minY; py <= maxY; py++ {
		cy := float64(py)*subpixelScale + subpixelHalf
		for px := minX; px <= maxX; px++ {
			cx := float64(px)*subpixelScale + subpixelHalf
			w0 := edge(x1, y1, x2, y2, cx, cy)
			w1 := edge(x2, y2, x0, y0, cx, cy)
			w2 := edge(x0, y0, x1, y1, cx, cy)
			if !inside(w0, tl0) || !inside(w1, tl1) || !inside(w2, tl2) {
				continue
			}
			b0, b1, b2 := float32(w0*inv), float32(w1*inv), float32(w2*inv)
			z := b0*v0.z + b1*v1.z + b2*v2.z
			if z < 0 || z > 1 {
				continue
			}
			var c [4]float32
			for i := range c {
				c[i] = b0*v0.color[i] + b1*v1.color[i] + b2*v2.color[i]
			}
			dst.BlendPixel(px, py, stereo.ColorFromFloat4(c))
			filled++
		}
	}
	return filled
}

// rasterLine draws a line with a DDA walk. The end pixel is excluded so
// that connected segments do not cover their shared vertex twice. Only the
// steps that can land on the surface are walked.
func rasterLine(dst *Surface, v0, v1 screenVertex) int {
	if v0.w <= 0 || v1.w <= 0 {
		return 0
	}
	x0, y0 := float64(v0.x), float64(v0.y)
	dx, dy := float64(v1.x)-x0, float64(v1.y)-y0
	if !finite(x0, y0, dx, dy) {
		return 0
	}
	n := math.Round(math.Max(math.Abs(dx), math.Abs(dy)))
	if n == 0 {
		return 0
	}
	c, ok := clipSegment(x0, y0, dx, dy, float64(dst.width), float64(dst.height))
	if !ok {
		return 0
	}
	if n > maxLineSteps {
		return rasterLine(dst, c.vertex(v0, v1, 0), c.vertex(v0, v1, 1))
	}
	first := int64(math.Max(math.Floor(c.t[0]*n)-1, 0))
	last := int64(math.Min(math.Ceil(c.t[1]*n)+1, n-1))

	sx, sy := dx/n, dy/n
	filled := 0
	for i := first; i <= last; i++ {
		t := float32(float64(i) / n)
		z := v0.z + (v1.z-v0.z)*t
		if z < 0 || z > 1 {
			continue
		}
		x := int(math.Floor(x0 + sx*float64(i)))
		y := int(math.Floor(y0 + sy*float64(i)))
		if x < 0 || x >= dst.width || y < 0 || y >= dst.height {
			continue
		}
		var col [4]float32
		for k := range col {
			col[k] = v0.color[k] + (v1.color[k]-v0.color[k])*t
		}
		dst.BlendPixel(x, y, stereo.ColorFromFloat4(col))
		filled++
	}
	return filled
}

// maxLineSteps bounds the step count of a walked segment so that step
// indices stay exact. Longer segments are first cut to the surface.
const maxLineSteps = 1 << 40

// Boundaries of the clip margin used by clipSegment.
const (
	clipNone = iota - 1
	clipLeft
	clipRight
	clipTop
	clipBottom
)

// clip is the visible part of a segment: the parameter range and the
// boundary that cut each end, or clipNone.
type clip struct {
	t             [2]float64
	bound         [2]int
	width, height float64
}

// clipSegment returns the part of p0 + t*d, t in [0, 1], that lies within
// a one pixel margin around a width x height surface.
func clipSegment(x0, y0, dx, dy, width, height float64) (clip, bool) {
	c := clip{t: [2]float64{0, 1}, bound: [2]int{clipNone, clipNone}, width: width, height: height}
	for b, e := range [4][2]float64{
		clipLeft:   {-dx, x0 + 1},
		clipRight:  {dx, width + 1 - x0},
		clipTop:    {-dy, y0 + 1},
		clipBottom: {dy, height + 1 - y0},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return clip{}, false
			}
			continue
		}
		r := q / p
		if p < 0 && r > c.t[0] {
			c.t[0], c.bound[0] = r, b
		} else if p > 0 && r < c.t[1] {
			c.t[1], c.bound[1] = r, b
		}
		if c.t[0] > c.t[1] {
			return clip{}, false
		}
	}
	return c, true
}

// vertex returns the end (0 or 1) of the clipped segment v0->v1. The
// coordinate across the cutting boundary is set to the boundary itself.
func (c clip) vertex(v0, v1 screenVertex, end int) screenVertex {
	t := c.t[end]
	ft := float32(t)
	x0, y0 := float64(v0.x), float64(v0.y)
	dx, dy := float64(v1.x)-x0, float64(v1.y)-y0
	x, y := x0+dx*t, y0+dy*t
	switch {
	case t == 0:
		x, y = x0, y0
	case t == 1:
		x, y = float64(v1.x), float64(v1.y)
	}
	switch c.bound[end] {
	case clipLeft:
		x = -1
	case clipRight:
		x = c.width + 1
	case clipTop:
		y = -1
	case clipBottom:
		y = c.height + 1
	}
	if dx == 0 {
		x = x0
	}
	if dy == 0 {
		y = y0
	}
	v := screenVertex{
		x: float32(x),
		y: float32(y),
		z: v0.z + (v1.z-v0.z)*ft,
		w: 1,
	}
	for k := range v.color {
		v.color[k] = v0.color[k] + (v1.color[k]-v0.color[k])*ft
	}
	return v
}

// rasterPoint draws a single-pixel point.
func rasterPoint(dst *Surface, v screenVertex) int {
	if v.w <= 0 || v.z < 0 || v.z > 1 {
		return 0
	}
	x := int(math.Floor(float64(v.x)))
	y := int(math.Floor(float64(v.y)))
	if x < 0 || x >= dst.width || y < 0 || y >= dst.height {
		return 0
	}
	dst.BlendPixel(x, y, stereo.ColorFromFloat4(v.color))
	return 1
}
