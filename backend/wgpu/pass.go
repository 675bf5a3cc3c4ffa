package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/stereo"
	"github.com/gogpu/wgpu/hal"
)

// recordedDraw holds the GPU objects of one draw until its pass is
// submitted.
type recordedDraw struct {
	label      string
	pipeline   hal.RenderPipeline
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup
	vertexBuf  hal.Buffer
	indexBuf   hal.Buffer
	indexCount uint32
}

// pass collects draws and encodes them into a single render pass on End.
// The target keeps its contents: the pass loads rather than clears.
type pass struct {
	dev     *Device
	target  *Target
	program *stereo.Program
	draws   []recordedDraw
	ended   bool

	uniformScratch []byte
}

// BeginPass implements stereo.Device.
func (d *Device) BeginPass(target stereo.TargetHandle, program *stereo.Program) (stereo.Pass, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	t, err := d.target(target)
	if err != nil {
		return nil, err
	}
	if program == nil {
		program = stereo.NewProgram()
	}
	return &pass{dev: d, target: t, program: program}, nil
}

func (p *pass) Target() stereo.TargetHandle {
	return p.target
}

// Draw resolves the program uniforms for the call and records the draw. The
// uniform values are captured now, so later program changes do not affect
// recorded draws.
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
	d := p.dev
	vb, err := d.buffer(call.VertexBuffer)
	if err != nil {
		return err
	}
	ib, err := d.buffer(call.IndexBuffer)
	if err != nil {
		return err
	}
	if need := uint64(call.IndexCount) * 2; need > ib.size {
		return fmt.Errorf("wgpu: %d indices exceed index buffer %q of %d bytes", call.IndexCount, ib.label, ib.size)
	}
	pipeline, err := d.shapes.pipeline(call.Topology)
	if err != nil {
		return err
	}
	state, err := p.program.Resolve(call.Uniforms)
	if err != nil {
		return err
	}

	uniformBuf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: call.Label + "_uniforms",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create uniform buffer: %w", err)
	}
	p.uniformScratch = packUniforms(state, p.uniformScratch)
	d.queue.WriteBuffer(uniformBuf, 0, p.uniformScratch)

	bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  call.Label + "_bind_group",
		Layout: d.shapes.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{
				Binding: 0,
				Resource: gputypes.BufferBinding{
					Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: uniformSize,
				},
			},
		},
	})
	if err != nil {
		d.device.DestroyBuffer(uniformBuf)
		return fmt.Errorf("wgpu: create bind group: %w", err)
	}

	p.draws = append(p.draws, recordedDraw{
		label:      call.Label,
		pipeline:   pipeline,
		uniformBuf: uniformBuf,
		bindGroup:  bindGroup,
		vertexBuf:  vb.raw,
		indexBuf:   ib.raw,
		indexCount: call.IndexCount,
	})
	return nil
}

// End encodes the recorded draws, submits them and waits for completion.
// Per-draw uniform buffers and bind groups are released afterwards.
func (p *pass) End() error {
	if p.ended {
		return ErrPassEnded
	}
	p.ended = true
	defer p.release()
	if len(p.draws) == 0 {
		return nil
	}
	d := p.dev
	if err := d.checkOpen(); err != nil {
		return err
	}
	if p.target.destroyed {
		return fmt.Errorf("%w: %s/%s", ErrTargetDestroyed, p.target.screen, p.target.eye)
	}

	encoder, err := d.beginEncoding("stereo_pass")
	if err != nil {
		return fmt.Errorf("wgpu: %w", err)
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "stereo_shape_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    p.target.view,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}},
	})
	for _, dr := range p.draws {
		rp.SetPipeline(dr.pipeline)
		rp.SetBindGroup(0, dr.bindGroup, nil)
		rp.SetVertexBuffer(0, dr.vertexBuf, 0)
		rp.SetIndexBuffer(dr.indexBuf, gputypes.IndexFormatUint16, 0)
		rp.DrawIndexed(dr.indexCount, 1, 0, 0, 0)
	}
	rp.End()

	if err := d.submit(encoder); err != nil {
		return fmt.Errorf("wgpu: pass %s/%s: %w", p.target.screen, p.target.eye, err)
	}
	slogger().Debug("wgpu: pass submitted",
		"screen", p.target.screen, "eye", p.target.eye, "draws", len(p.draws))
	return nil
}

// release destroys per-draw resources in reverse creation order.
func (p *pass) release() {
	if p.dev.closed {
		p.draws = nil
		return
	}
	for i := len(p.draws) - 1; i >= 0; i-- {
		dr := p.draws[i]
		p.dev.device.DestroyBindGroup(dr.bindGroup)
		p.dev.device.DestroyBuffer(dr.uniformBuf)
	}
	p.draws = nil
}
