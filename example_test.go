package stereo_test

import (
	"fmt"

	"github.com/gogpu/stereo"
	"github.com/gogpu/stereo/backend/software"
)

// ExampleShape draws a gradient square on the bottom screen with the
// software device.
func ExampleShape() {
	dev := software.NewDevice()
	rt := stereo.MustNewRenderTarget(dev, stereo.BottomWidth, stereo.ScreenHeight, stereo.ScreenBottom)
	defer rt.Destroy()

	square := stereo.NewShape(dev)
	defer square.Destroy()
	square.AddVertexXYZ(100, 60, stereo.DefaultDepth, stereo.Red)
	square.AddVertexXYZ(220, 60, stereo.DefaultDepth, stereo.Green)
	square.AddVertexXYZ(220, 180, stereo.DefaultDepth, stereo.Blue)
	square.AddVertexXYZ(100, 180, stereo.DefaultDepth, stereo.White)

	prog := stereo.NewProgram()
	_ = prog.SetMatrix(stereo.DefaultUniforms.Projection, stereo.ScreenProjection(rt.Width(), rt.Height()))

	if err := rt.Clear(); err != nil {
		fmt.Println("clear failed:", err)
		return
	}
	pass, err := dev.BeginPass(rt.Handle(), prog)
	if err != nil {
		fmt.Println("begin pass failed:", err)
		return
	}
	if err := square.Draw(pass, stereo.EyeLeft, stereo.DefaultUniforms); err != nil {
		fmt.Println("draw failed:", err)
		return
	}
	_ = pass.End()

	fmt.Println(square.Indices())
	fmt.Println(dev.Stats().DrawCalls)
	// Output:
	// [0 1 2 0 2 3]
	// 1
}

// ExampleBuildIndices shows the index sets the modes
// synthesize for four vertices.
func ExampleBuildIndices() {
	for _, m := range []stereo.InterpolationMode{
		stereo.InterpolationFan,
		stereo.InterpolationStrip,
		stereo.InterpolationOutline,
	} {
		fmt.Println(m, stereo.BuildIndices(4, m, nil))
	}
	// Output:
	// Fan [0 1 2 0 2 3]
	// Strip [0 1 2 2 1 3]
	// Outline [0 1 1 2 2 3 3 0]
}

// ExampleRenderTarget_Clear clears the top screen to red.
func ExampleRenderTarget_Clear() {
	dev := software.NewDevice()
	rt := stereo.MustNewRenderTarget(dev, stereo.TopWidth, stereo.ScreenHeight, stereo.ScreenTop,
		stereo.WithClearColor(stereo.RGBA8(255, 0, 0, 255)))
	_ = rt.Clear()

	s := dev.Surface(stereo.ScreenTop, stereo.EyeLeft)
	fmt.Printf("%dx%d %#08x\n", s.Width(), s.Height(), uint32(s.Pixel(399, 239)))
	// Output: 400x240 0xff0000ff
}
