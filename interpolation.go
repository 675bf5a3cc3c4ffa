package stereo

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// InterpolationMode selects how a flat vertex list becomes primitives.
type InterpolationMode int

const (
	// InterpolationFan fans triangles out of the first vertex: (0, i, i+1).
	// Suited to convex polygons listed in order around their outline.
	InterpolationFan InterpolationMode = iota

	// InterpolationStrip builds a triangle strip: every vertex after the
	// second closes a triangle with the two before it. Odd triangles swap
	// their first two indices so all triangles keep the same winding.
	InterpolationStrip

	// InterpolationTriangles treats each consecutive triple as an
	// independent triangle. Trailing vertices that do not complete a
	// triple are not drawn.
	InterpolationTriangles

	// InterpolationPoints draws every vertex as a discrete point.
	InterpolationPoints

	// InterpolationOutline connects consecutive vertices with lines and
	// closes the loop back to the first vertex.
	InterpolationOutline
)

// MaxVertices is the largest vertex count addressable by 16-bit indices.
const MaxVertices = 1 << 16

// String returns the string representation of the mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpolationFan:
		return "Fan"
	case InterpolationStrip:
		return "Strip"
	case InterpolationTriangles:
		return "Triangles"
	case InterpolationPoints:
		return "Points"
	case InterpolationOutline:
		return "Outline"
	default:
		return fmt.Sprintf("InterpolationMode(%d)", int(m))
	}
}

// MinVertices returns the smallest vertex count that produces any primitive
// under m. Unknown modes never produce primitives.
func (m InterpolationMode) MinVertices() int {
	switch m {
	case InterpolationFan, InterpolationStrip, InterpolationTriangles:
		return 3
	case InterpolationPoints:
		return 1
	case InterpolationOutline:
		return 2
	default:
		return MaxVertices + 1
	}
}

// Topology returns the primitive topology the synthesized indices use.
func (m InterpolationMode) Topology() gputypes.PrimitiveTopology {
	switch m {
	case InterpolationPoints:
		return gputypes.PrimitiveTopologyPointList
	case InterpolationOutline:
		return gputypes.PrimitiveTopologyLineList
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}

// IndexCount returns the number of indices BuildIndices emits for n vertices.
func (m InterpolationMode) IndexCount(n int) int {
	if n < m.MinVertices() {
		return 0
	}
	switch m {
	case InterpolationFan, InterpolationStrip:
		return 3 * (n - 2)
	case InterpolationTriangles:
		return 3 * (n / 3)
	case InterpolationPoints:
		return n
	case InterpolationOutline:
		if n == 2 {
			return 2
		}
		return 2 * n
	default:
		return 0
	}
}

// BuildIndices synthesizes the index list for n vertices under m, appending
// to dst[:0]. Below the mode's minimum vertex count the result is empty.
// n must not exceed MaxVertices.
func BuildIndices(n int, m InterpolationMode, dst []uint16) []uint16 {
	count := m.IndexCount(n)
	if cap(dst) < count {
		dst = make([]uint16, 0, count)
	}
	dst = dst[:0]
	if count == 0 {
		return dst
	}

	//nolint:gosec // n <= MaxVertices, so every index fits uint16
	switch m {
	case InterpolationFan:
		for i := 1; i <= n-2; i++ {
			dst = append(dst, 0, uint16(i), uint16(i+1))
		}
	case InterpolationStrip:
		for i := 0; i <= n-3; i++ {
			if i%2 == 0 {
				dst = append(dst, uint16(i), uint16(i+1), uint16(i+2))
			} else {
				dst = append(dst, uint16(i+1), uint16(i), uint16(i+2))
			}
		}
	case InterpolationTriangles:
		for i := 0; i+2 < n; i += 3 {
			dst = append(dst, uint16(i), uint16(i+1), uint16(i+2))
		}
	case InterpolationPoints:
		for i := 0; i < n; i++ {
			dst = append(dst, uint16(i))
		}
	case InterpolationOutline:
		if n == 2 {
			return append(dst, 0, 1)
		}
		for i := 0; i < n; i++ {
			dst = append(dst, uint16(i), uint16((i+1)%n))
		}
	}
	return dst
}
