package stereo

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// DefaultDepth is the conventional Z for flat shapes placed in the 3D scene.
const DefaultDepth = 0.5

// Vertex is a positioned, colored point. It has no identity beyond its value.
type Vertex struct {
	X, Y, Z float32
	Color   Color
}

// NewVertex returns a vertex at (x, y, z) with color c.
func NewVertex(x, y, z float32, c Color) Vertex {
	return Vertex{X: x, Y: y, Z: z, Color: c}
}

// VertexStride is the byte stride per vertex in the packed GPU layout.
// Layout per vertex:
//
//	position (vec3<f32>) = 12 bytes (location 0)
//	color    (vec4<f32>) = 16 bytes (location 1)
//
// Total = 28 bytes per vertex.
const VertexStride = 28

// VertexLayout returns the vertex buffer layout matching VertexStride.
func VertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1}, // color
			},
		},
	}
}

// PackVertices writes vertices in the GPU layout into staging, growing it if
// necessary. It returns the (possibly reallocated) staging buffer and the
// slice of valid vertex data.
func PackVertices(vertices []Vertex, staging []byte) ([]byte, []byte) {
	needed := len(vertices) * VertexStride
	if cap(staging) < needed {
		staging = make([]byte, needed)
	} else {
		staging = staging[:needed]
	}
	for i := range vertices {
		writeVertex(staging[i*VertexStride:], vertices[i])
	}
	return staging, staging[:needed]
}

// UnpackVertex decodes one vertex from its packed GPU layout.
// buf must hold at least VertexStride bytes.
func UnpackVertex(buf []byte) Vertex {
	f := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
	}
	return Vertex{
		X:     f(0),
		Y:     f(4),
		Z:     f(8),
		Color: ColorFromFloat4([4]float32{f(12), f(16), f(20), f(24)}),
	}
}

// writeVertex writes a single vertex into the buffer.
func writeVertex(buf []byte, v Vertex) {
	c := v.Color.Float4()
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.Z))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(c[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(c[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(c[2]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(c[3]))
}
