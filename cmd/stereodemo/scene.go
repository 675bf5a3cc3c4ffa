package main

import (
	"math"

	"github.com/gogpu/stereo"
	"github.com/gogpu/stereo/frame"
)

// scene holds the demo shapes. Depth ranges from near (0.1) to far (0.9);
// the stereo effect makes near shapes pop out of the top screen.
type scene struct {
	backdrop *stereo.Shape // far fan
	star     *stereo.Shape // near rotating fan
	ribbon   *stereo.Shape // strip at the screen plane
	frameBox *stereo.Shape // outline
	stars    *stereo.Shape // points
	tiles    *stereo.Shape // bottom screen triangles
}

func newScene(dev stereo.BufferAllocator) *scene {
	sc := &scene{
		backdrop: stereo.NewShape(dev, stereo.WithLabel("backdrop")),
		star:     stereo.NewShape(dev, stereo.WithLabel("star")),
		ribbon:   stereo.NewShape(dev, stereo.WithLabel("ribbon"), stereo.WithInterpolationMode(stereo.InterpolationStrip)),
		frameBox: stereo.NewShape(dev, stereo.WithLabel("frame"), stereo.WithInterpolationMode(stereo.InterpolationOutline)),
		stars:    stereo.NewShape(dev, stereo.WithLabel("stars"), stereo.WithInterpolationMode(stereo.InterpolationPoints)),
		tiles:    stereo.NewShape(dev, stereo.WithLabel("tiles"), stereo.WithInterpolationMode(stereo.InterpolationTriangles)),
	}

	w, h := float32(stereo.TopWidth), float32(stereo.ScreenHeight)
	sc.backdrop.AddVertexXYZ(0, 0, 0.9, stereo.RGB8(20, 30, 70))
	sc.backdrop.AddVertexXYZ(w, 0, 0.9, stereo.RGB8(20, 30, 70))
	sc.backdrop.AddVertexXYZ(w, h, 0.9, stereo.RGB8(60, 20, 60))
	sc.backdrop.AddVertexXYZ(0, h, 0.9, stereo.RGB8(60, 20, 60))

	for i := 0; i <= 16; i++ {
		x := 20 + float32(i)*22.5
		y := 200 + 12*float32(math.Sin(float64(i)*0.8))
		c := stereo.HSL(float64(i)*20, 0.8, 0.6)
		sc.ribbon.AddVertexXYZ(x, y-10, stereo.DefaultDepth, c)
		sc.ribbon.AddVertexXYZ(x, y+10, stereo.DefaultDepth, c)
	}

	sc.frameBox.AddVertexXYZ(10.5, 10.5, 0.3, stereo.White)
	sc.frameBox.AddVertexXYZ(w-10.5, 10.5, 0.3, stereo.White)
	sc.frameBox.AddVertexXYZ(w-10.5, h-10.5, 0.3, stereo.White)
	sc.frameBox.AddVertexXYZ(10.5, h-10.5, 0.3, stereo.White)

	// Deterministic star field.
	for i := 0; i < 40; i++ {
		x := float32((i*97)%stereo.TopWidth) + 0.5
		y := float32((i*53)%150) + 0.5
		sc.stars.AddVertexXYZ(x, y, 0.8, stereo.Yellow)
	}

	bw := float32(stereo.BottomWidth)
	for row := 0; row < 4; row++ {
		for col := 0; col < 6; col++ {
			x0 := 20 + float32(col)*(bw-40)/6
			y0 := 40 + float32(row)*40
			c := stereo.HSL(float64(row*6+col)*15, 0.7, 0.5)
			sc.tiles.AddVertexXYZ(x0, y0, stereo.DefaultDepth, c)
			sc.tiles.AddVertexXYZ(x0+40, y0, stereo.DefaultDepth, c)
			sc.tiles.AddVertexXYZ(x0+20, y0+34, stereo.DefaultDepth, c.Lerp(stereo.White, 0.5))
		}
	}
	return sc
}

func (sc *scene) attach(drv *frame.Driver) {
	drv.Add(stereo.ScreenTop, sc.backdrop)
	drv.Add(stereo.ScreenTop, sc.stars)
	drv.Add(stereo.ScreenTop, sc.ribbon)
	drv.Add(stereo.ScreenTop, sc.star)
	drv.Add(stereo.ScreenTop, sc.frameBox)
	drv.Add(stereo.ScreenBottom, sc.tiles)
}

// update rebuilds the rotating star for the given frame.
func (sc *scene) update(frameIndex int) error {
	const points = 5
	cx, cy := float32(200), float32(110)
	angle := float64(frameIndex) / frame.FrameRate * 2 * math.Pi
	rot := stereo.Translate(cx, cy, 0).Multiply(stereo.RotateZ(angle))

	sc.star.ClearVertices()
	sc.star.AddVertex(vertexAt(rot, 0, 0, stereo.White))
	for i := 0; i <= points*2; i++ {
		r := 60.0
		if i%2 == 1 {
			r = 25
		}
		a := float64(i) * math.Pi / points
		c := stereo.HSL(float64(i)*36, 0.9, 0.55)
		sc.star.AddVertex(vertexAt(rot, float32(r*math.Cos(a)), float32(r*math.Sin(a)), c))
	}
	return nil
}

func vertexAt(m stereo.Matrix, x, y float32, c stereo.Color) stereo.Vertex {
	p := m.Transform([4]float32{x, y, 0.15, 1})
	return stereo.NewVertex(p[0], p[1], p[2], c)
}

func (sc *scene) destroy() {
	for _, s := range []*stereo.Shape{sc.backdrop, sc.star, sc.ribbon, sc.frameBox, sc.stars, sc.tiles} {
		s.Destroy()
	}
}
