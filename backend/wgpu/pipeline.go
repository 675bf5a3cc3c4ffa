package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/stereo"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/shape.wgsl
var shapeShaderSource string

// ShaderSource returns the WGSL source of the shape shader.
func ShaderSource() string { return shapeShaderSource }

// uniformSize is the byte size of the shader's Uniforms block:
// two mat4x4<f32> (128 bytes) and a vec4<u32> flag word (16 bytes).
const uniformSize = 144

// CompileShaderSPIRV compiles the shape shader to SPIR-V words with naga.
func CompileShaderSPIRV() ([]uint32, error) {
	spirvBytes, err := naga.Compile(shapeShaderSource)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile shape shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// packUniforms encodes a resolved shader state into the std140 layout of the
// Uniforms block. WGSL matrices are column-major, so rows are transposed.
func packUniforms(state stereo.ShaderState, dst []byte) []byte {
	if cap(dst) < uniformSize {
		dst = make([]byte, uniformSize)
	}
	dst = dst[:uniformSize]
	putMatrix(dst[0:64], state.Projection)
	putMatrix(dst[64:128], state.Transform)
	clear(dst[128:])
	if state.UseTransform {
		dst[128] = 1
	}
	return dst
}

func putMatrix(dst []byte, m stereo.Matrix) {
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			putFloat32(dst[(col*4+row)*4:], m[row*4+col])
		}
	}
}

// shapePipeline owns the GPU objects shared by every shape draw on a device.
// Render pipelines are created on first use of their topology.
type shapePipeline struct {
	device hal.Device
	format gputypes.TextureFormat
	spirv  bool

	shader         hal.ShaderModule
	uniformLayout  hal.BindGroupLayout
	pipelineLayout hal.PipelineLayout
	pipelines      map[gputypes.PrimitiveTopology]hal.RenderPipeline
}

func newShapePipeline(device hal.Device, format gputypes.TextureFormat, spirv bool) *shapePipeline {
	return &shapePipeline{
		device:    device,
		format:    format,
		spirv:     spirv,
		pipelines: make(map[gputypes.PrimitiveTopology]hal.RenderPipeline),
	}
}

// ensureLayouts creates the shader module and layouts once.
func (p *shapePipeline) ensureLayouts() error {
	if p.pipelineLayout != nil {
		return nil
	}

	source := hal.ShaderSource{WGSL: shapeShaderSource}
	if p.spirv {
		words, err := CompileShaderSPIRV()
		if err != nil {
			return err
		}
		source = hal.ShaderSource{SPIRV: words}
	}
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "stereo_shape_shader",
		Source: source,
	})
	if err != nil {
		return fmt.Errorf("create shape shader module: %w", err)
	}
	p.shader = shader

	uniformLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "stereo_shape_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer: &gputypes.BufferBindingLayout{
					Type: gputypes.BufferBindingTypeUniform,
				},
			},
		},
	})
	if err != nil {
		p.destroy()
		return fmt.Errorf("create shape bind group layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipelineLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "stereo_shape_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		p.destroy()
		return fmt.Errorf("create shape pipeline layout: %w", err)
	}
	p.pipelineLayout = pipelineLayout
	return nil
}

// pipeline returns the render pipeline for topology, creating it on first
// use.
func (p *shapePipeline) pipeline(topology gputypes.PrimitiveTopology) (hal.RenderPipeline, error) {
	if rp, ok := p.pipelines[topology]; ok {
		return rp, nil
	}
	name, ok := topologyNames[topology]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedTopology, topology)
	}
	if err := p.ensureLayouts(); err != nil {
		return nil, err
	}

	premulBlend := gputypes.BlendStatePremultiplied()
	rp, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "stereo_shape_pipeline_" + name,
		Layout: p.pipelineLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    stereo.VertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: topology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s pipeline: %w", name, err)
	}
	p.pipelines[topology] = rp
	slogger().Debug("wgpu: shape pipeline created", "topology", name, "spirv", p.spirv)
	return rp, nil
}

var topologyNames = map[gputypes.PrimitiveTopology]string{
	gputypes.PrimitiveTopologyTriangleList: "triangles",
	gputypes.PrimitiveTopologyLineList:     "lines",
	gputypes.PrimitiveTopologyPointList:    "points",
}

// destroy releases all pipeline objects in reverse creation order.
func (p *shapePipeline) destroy() {
	if p.device == nil {
		return
	}
	for topology, rp := range p.pipelines {
		p.device.DestroyRenderPipeline(rp)
		delete(p.pipelines, topology)
	}
	if p.pipelineLayout != nil {
		p.device.DestroyPipelineLayout(p.pipelineLayout)
		p.pipelineLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
