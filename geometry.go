package stereo

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
)

// Geometry is the upload-ready form of a vertex list under one
// interpolation mode.
type Geometry struct {
	// Vertices holds the packed vertex data, VertexStride bytes per vertex.
	Vertices []byte

	// Indices holds the synthesized primitive indices.
	Indices []uint16

	// Topology is the primitive topology the indices describe.
	Topology gputypes.PrimitiveTopology
}

// Empty reports whether the geometry draws nothing.
func (g *Geometry) Empty() bool {
	return len(g.Indices) == 0
}

// BuildGeometry converts vertices into packed vertex data and indices.
// It is a pure function of its inputs. Vertex counts below the mode's
// minimum yield an empty index list and no vertex data.
func BuildGeometry(vertices []Vertex, mode InterpolationMode) (Geometry, error) {
	var g Geometry
	err := buildGeometryReuse(vertices, mode, &g)
	return g, err
}

// buildGeometryReuse is BuildGeometry writing into g, reusing its slices.
func buildGeometryReuse(vertices []Vertex, mode InterpolationMode, g *Geometry) error {
	n := len(vertices)
	g.Topology = mode.Topology()
	if n > MaxVertices {
		g.Vertices = g.Vertices[:0]
		g.Indices = g.Indices[:0]
		return fmt.Errorf("%w: %d > %d", ErrTooManyVertices, n, MaxVertices)
	}
	g.Indices = BuildIndices(n, mode, g.Indices)
	if len(g.Indices) == 0 {
		g.Vertices = g.Vertices[:0]
		return nil
	}
	g.Vertices, _ = PackVertices(vertices, g.Vertices)
	return nil
}

// PackIndices writes indices as little-endian uint16 values into staging,
// zero-padding the result to a multiple of 4 bytes for buffer copies.
func PackIndices(indices []uint16, staging []byte) []byte {
	needed := alignCopy(uint64(len(indices)) * 2)
	if uint64(cap(staging)) < needed {
		staging = make([]byte, needed)
	} else {
		staging = staging[:needed]
	}
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(staging[i*2:], idx)
	}
	for i := len(indices) * 2; i < len(staging); i++ {
		staging[i] = 0
	}
	return staging
}

// UnpackIndices decodes count little-endian uint16 indices from buf.
func UnpackIndices(buf []byte, count int) []uint16 {
	out := make([]uint16, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(buf[i*2:])
	}
	return out
}

// copyBufferAlignment is the size granularity for buffer writes.
const copyBufferAlignment uint64 = 4

// alignCopy rounds size up to copyBufferAlignment.
func alignCopy(size uint64) uint64 {
	return (size + copyBufferAlignment - 1) &^ (copyBufferAlignment - 1)
}
