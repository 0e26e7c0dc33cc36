package gpu

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/orbit/core"
)

const cameraUniformSize = 16

// CameraBuffer holds the camera uniform both pipelines bind at group 0.
type CameraBuffer struct {
	Buffer    *wgpu.Buffer
	Layout    *wgpu.BindGroupLayout
	BindGroup *wgpu.BindGroup
}

func NewCameraBuffer(device *wgpu.Device) (*CameraBuffer, error) {
	buffer, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "CameraUB",
		Size:  cameraUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "CameraBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: cameraUniformSize,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "CameraBG",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  buffer,
				Size:    cameraUniformSize,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return &CameraBuffer{
		Buffer:    buffer,
		Layout:    layout,
		BindGroup: bindGroup,
	}, nil
}

// Update writes the view for the current frame.
//
//	struct Camera {
//	  position: vec2<f32>,        -- 0
//	  vertical_height: f32,       -- 8
//	  aspect: f32,                -- 12
//	}                             -> 16 bytes
func (c *CameraBuffer) Update(queue *wgpu.Queue, view core.View) {
	buf := make([]byte, cameraUniformSize)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(view.Position.X()))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(view.Position.Y()))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(view.VerticalHeight))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(view.Aspect))
	queue.WriteBuffer(c.Buffer, 0, buf)
}
