// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/stereo"
)

// pass rasterizes draw calls into its target surface immediately.
type pass struct {
	dev     *Device
	target  *Surface
	program *stereo.Program
	ended   bool

	// Reused per draw.
	screen []screenVertex
}

func (p *pass) Target() stereo.TargetHandle {
	return p.target
}

// Draw runs the vertex stage over the referenced vertices, then rasterizes
// the indexed primitives.
func (p *pass) Draw(call stereo.DrawCall) error {
	if p.ended {
		return ErrPassEnded
	}
	if !call.Eye.Valid() {
		return fmt.Errorf("%w: %d", stereo.ErrInvalidEye, int(call.Eye))
	}
	if call.IndexCount == 0 {
		return nil
	}

	vb, err := p.dev.buffer(call.VertexBuffer)
	if err != nil {
		return err
	}
	ib, err := p.dev.buffer(call.IndexBuffer)
	if err != nil {
		return err
	}
	if err := ib.checkRead(gputypes.BufferUsageIndex, uint64(call.IndexCount)*2); err != nil {
		return err
	}
	indices := stereo.UnpackIndices(ib.data, int(call.IndexCount))

	var maxIndex uint16
	for _, idx := range indices {
		maxIndex = max(maxIndex, idx)
	}
	if err := vb.checkRead(gputypes.BufferUsageVertex, (uint64(maxIndex)+1)*stereo.VertexStride); err != nil {
		return err
	}

	state, err := p.program.Resolve(call.Uniforms)
	if err != nil {
		return err
	}

	// Vertex stage.
	n := int(maxIndex) + 1
	if cap(p.screen) < n {
		p.screen = make([]screenVertex, n)
	}
	p.screen = p.screen[:n]
	for i := 0; i < n; i++ {
		v := stereo.UnpackVertex(vb.data[i*stereo.VertexStride:])
		p.screen[i] = toScreen(state.Apply(v.X, v.Y, v.Z), v.Color, p.target.width, p.target.height)
	}

	// Primitive assembly.
	filled := 0
	switch call.Topology {
	case gputypes.PrimitiveTopologyTriangleList:
		for k := 0; k+2 < len(indices); k += 3 {
			filled += rasterTriangle(p.target, p.screen[indices[k]], p.screen[indices[k+1]], p.screen[indices[k+2]])
		}
	case gputypes.PrimitiveTopologyLineList:
		for k := 0; k+1 < len(indices); k += 2 {
			filled += rasterLine(p.target, p.screen[indices[k]], p.screen[indices[k+1]])
		}
	case gputypes.PrimitiveTopologyPointList:
		for _, idx := range indices {
			filled += rasterPoint(p.target, p.screen[idx])
		}
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedTopology, call.Topology)
	}

	p.dev.stats.DrawCalls++
	p.dev.stats.PixelsWritten += filled
	stereo.Logger().Debug("software: draw",
		"label", call.Label, "eye", call.Eye, "indices", call.IndexCount, "pixels", filled)
	return nil
}

func (p *pass) End() error {
	if p.ended {
		return ErrPassEnded
	}
	p.ended = true
	return nil
}
