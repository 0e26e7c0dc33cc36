package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// DepthFormat is shared by the depth texture and both pipelines.
const DepthFormat = wgpu.TextureFormatDepth24Plus

// DepthTexture is the shared depth attachment. Both passes write it, so
// circles and quads composite through one depth test.
type DepthTexture struct {
	texture *wgpu.Texture
	View    *wgpu.TextureView
}

func NewDepthTexture(device *wgpu.Device, width, height uint32) (*DepthTexture, error) {
	texture, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "DepthTexture",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, err
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, err
	}

	return &DepthTexture{texture: texture, View: view}, nil
}

func (d *DepthTexture) Release() {
	if d.View != nil {
		d.View.Release()
	}
	if d.texture != nil {
		d.texture.Release()
	}
}
