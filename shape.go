package stereo

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Shape is a retained polygon: a list of colored vertices plus an
// interpolation mode, drawn through GPU buffers it owns.
//
// Vertices accumulate through AddVertex. The shape is rebuilt lazily: the
// first draw after a mutation synthesizes indices and uploads both buffers,
// later draws reuse them until the next mutation.
//
// Shape is not safe for concurrent use.
type Shape struct {
	alloc BufferAllocator
	opts  shapeOptions

	vertices []Vertex
	geom     Geometry
	mode     InterpolationMode
	changed  bool

	vertexBuf Buffer
	indexBuf  Buffer

	// Staging for packed index bytes, reused across rebuilds.
	indexStaging []byte
}

// NewShape creates an empty shape whose buffers come from alloc.
// A nil allocator is accepted; Rebuild then reports ErrNilDevice once there
// is geometry to upload.
func NewShape(alloc BufferAllocator, opts ...ShapeOption) *Shape {
	o := defaultShapeOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Shape{
		alloc:   alloc,
		opts:    o,
		mode:    o.mode,
		changed: true,
	}
}

// AddVertex appends v and marks the shape dirty.
func (s *Shape) AddVertex(v Vertex) {
	s.vertices = append(s.vertices, v)
	s.changed = true
}

// AddVertexXYZ appends a vertex built from its components.
func (s *Shape) AddVertexXYZ(x, y, z float32, c Color) {
	s.AddVertex(Vertex{X: x, Y: y, Z: z, Color: c})
}

// ClearVertices removes all vertices and indices and releases the buffers.
func (s *Shape) ClearVertices() {
	s.vertices = s.vertices[:0]
	s.geom.Vertices = s.geom.Vertices[:0]
	s.geom.Indices = s.geom.Indices[:0]
	s.releaseBuffers()
	s.changed = true
}

// SetInterpolationMode sets how vertices are assembled into primitives.
//
// A mode change takes effect at the next rebuild. Unless the shape was
// created with WithModeInvalidation, the change alone does not trigger a
// rebuild: the current index set stays in use until a vertex mutation or
// Invalidate.
func (s *Shape) SetInterpolationMode(m InterpolationMode) {
	if m == s.mode {
		return
	}
	s.mode = m
	if s.opts.invalidateOnMode {
		s.changed = true
	}
}

// InterpolationMode returns the current interpolation mode.
func (s *Shape) InterpolationMode() InterpolationMode {
	return s.mode
}

// Invalidate marks the shape dirty so the next draw rebuilds it.
func (s *Shape) Invalidate() {
	s.changed = true
}

// Changed reports whether the GPU buffers are stale.
func (s *Shape) Changed() bool {
	return s.changed
}

// Label returns the shape's label.
func (s *Shape) Label() string {
	return s.opts.label
}

// Vertices returns a copy of the vertex list.
func (s *Shape) Vertices() []Vertex {
	out := make([]Vertex, len(s.vertices))
	copy(out, s.vertices)
	return out
}

// VertexCount returns the number of vertices.
func (s *Shape) VertexCount() int {
	return len(s.vertices)
}

// Indices returns a copy of the index set built by the last rebuild.
func (s *Shape) Indices() []uint16 {
	out := make([]uint16, len(s.geom.Indices))
	copy(out, s.geom.Indices)
	return out
}

// Topology returns the primitive topology of the current index set.
func (s *Shape) Topology() gputypes.PrimitiveTopology {
	return s.geom.Topology
}

// Rebuild synthesizes indices and uploads vertex and index data if the
// shape is dirty. It is a no-op on a clean shape.
func (s *Shape) Rebuild() error {
	if !s.changed {
		return nil
	}

	if err := buildGeometryReuse(s.vertices, s.mode, &s.geom); err != nil {
		s.releaseBuffers()
		return err
	}

	if s.geom.Empty() {
		s.releaseBuffers()
		s.changed = false
		Logger().Debug("shape rebuilt empty",
			"label", s.opts.label, "vertices", len(s.vertices), "mode", s.mode)
		return nil
	}

	if s.alloc == nil {
		return ErrNilDevice
	}
	s.indexStaging = PackIndices(s.geom.Indices, s.indexStaging)

	if err := s.upload(&s.vertexBuf, "vertices",
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst, s.geom.Vertices); err != nil {
		s.releaseBuffers()
		return err
	}
	if err := s.upload(&s.indexBuf, "indices",
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst, s.indexStaging); err != nil {
		s.releaseBuffers()
		return err
	}

	s.changed = false
	Logger().Debug("shape rebuilt",
		"label", s.opts.label,
		"vertices", len(s.vertices),
		"indices", len(s.geom.Indices),
		"mode", s.mode)
	return nil
}

// upload writes data into *buf, replacing the buffer when it is too small.
func (s *Shape) upload(buf *Buffer, kind string, usage gputypes.BufferUsage, data []byte) error {
	size := alignCopy(uint64(len(data)))
	if *buf == nil || (*buf).Size() < size {
		if *buf != nil {
			s.alloc.DestroyBuffer(*buf)
			*buf = nil
		}
		b, err := s.alloc.CreateBuffer(s.opts.label+" "+kind, size, usage)
		if err != nil {
			return fmt.Errorf("%w: create %s buffer (%d bytes): %w", ErrUpload, kind, size, err)
		}
		*buf = b
	}
	if err := s.alloc.WriteBuffer(*buf, 0, data); err != nil {
		return fmt.Errorf("%w: write %s buffer: %w", ErrUpload, kind, err)
	}
	return nil
}

// Draw renders the shape into pass for the given eye.
//
// The shape is rebuilt first if dirty. A shape with too few vertices for its
// mode draws nothing and returns nil. The uniform locations are forwarded to
// the pass unchanged; the shape owns no shader state.
func (s *Shape) Draw(pass Pass, eye Eye, uniforms Uniforms) error {
	if !eye.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidEye, int(eye))
	}
	if pass == nil {
		return ErrNilPass
	}
	if err := s.Rebuild(); err != nil {
		return err
	}
	if s.geom.Empty() {
		return nil
	}
	return pass.Draw(DrawCall{
		Label:        s.opts.label,
		Eye:          eye,
		Uniforms:     uniforms,
		Topology:     s.geom.Topology,
		VertexBuffer: s.vertexBuf,
		IndexBuffer:  s.indexBuf,
		IndexCount:   uint32(len(s.geom.Indices)), //nolint:gosec // at most 2*MaxVertices
	})
}

// Destroy releases the shape's buffers. It is safe to call more than once.
func (s *Shape) Destroy() {
	s.releaseBuffers()
	s.changed = true
}

func (s *Shape) releaseBuffers() {
	if s.alloc == nil {
		return
	}
	if s.vertexBuf != nil {
		s.alloc.DestroyBuffer(s.vertexBuf)
		s.vertexBuf = nil
	}
	if s.indexBuf != nil {
		s.alloc.DestroyBuffer(s.indexBuf)
		s.indexBuf = nil
	}
}
