package gpu

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/orbit/core"
	"github.com/gekko3d/orbit/shaders"
)

const circleStride = uint64(unsafe.Sizeof(core.CircleInstance{}))

// CirclePass draws instanced circles: one four-vertex triangle strip
// per instance, expanded in the vertex stage from a storage buffer of
// CircleInstance records and shaped into a disk by analytic discard in
// the fragment stage.
type CirclePass struct {
	Pipeline *wgpu.RenderPipeline

	layout    *wgpu.BindGroupLayout
	bindGroup *wgpu.BindGroup
	buffer    *wgpu.Buffer
	capacity  uint32
	count     uint32
	device    *wgpu.Device
}

func NewCirclePass(device *wgpu.Device, format wgpu.TextureFormat, cameraLayout *wgpu.BindGroupLayout) (*CirclePass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "CircleShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.CircleWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "CirclesBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeReadOnlyStorage,
					MinBindingSize: circleStride,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "CirclePipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{cameraLayout, layout},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "CirclePipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleStrip,
			FrontFace: wgpu.FrontFaceCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLessEqual,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	return &CirclePass{
		Pipeline: pipeline,
		layout:   layout,
		device:   device,
	}, nil
}

// Upload writes this frame's instances, growing the storage buffer
// (and rebuilding its bind group) when the capacity is exceeded.
func (p *CirclePass) Upload(queue *wgpu.Queue, circles []core.CircleInstance) error {
	p.count = uint32(len(circles))
	if p.count == 0 {
		return nil
	}

	if p.buffer == nil || p.capacity < p.count {
		if p.buffer != nil {
			p.buffer.Release()
		}
		if p.bindGroup != nil {
			p.bindGroup.Release()
		}
		p.capacity = p.count + 128 // margin
		buffer, err := p.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "CirclesBuffer",
			Size:  uint64(p.capacity) * circleStride,
			Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return err
		}
		p.buffer = buffer

		bindGroup, err := p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "CirclesBG",
			Layout: p.layout,
			Entries: []wgpu.BindGroupEntry{
				{
					Binding: 0,
					Buffer:  p.buffer,
					Size:    wgpu.WholeSize,
				},
			},
		})
		if err != nil {
			return err
		}
		p.bindGroup = bindGroup
	}

	queue.WriteBuffer(p.buffer, 0, wgpu.ToBytes(circles))
	return nil
}

// Draw issues one instanced draw for the uploaded records.
func (p *CirclePass) Draw(pass *wgpu.RenderPassEncoder, cameraBindGroup *wgpu.BindGroup) {
	if p.count == 0 {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, cameraBindGroup, nil)
	pass.SetBindGroup(1, p.bindGroup, nil)
	pass.Draw(4, p.count, 0, 0)
}
