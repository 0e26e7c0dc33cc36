package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// State owns the device-level plumbing: surface, adapter, device, queue
// and the swapchain configuration.
type State struct {
	Surface *wgpu.Surface
	Adapter *wgpu.Adapter
	Device  *wgpu.Device
	Queue   *wgpu.Queue
	Config  *wgpu.SurfaceConfiguration
}

func NewState(window *glfw.Window, vsync bool) (*State, error) {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	// wraps the GLFW window into a wgpu surface
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, err
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return nil, err
	}
	queue := device.GetQueue()

	width, height := window.GetFramebufferSize()
	caps := surface.GetCapabilities(adapter)

	presentMode := wgpu.PresentModeFifo
	if !vsync {
		presentMode = wgpu.PresentModeImmediate
	}
	config := &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: presentMode,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, config)

	return &State{
		Surface: surface,
		Adapter: adapter,
		Device:  device,
		Queue:   queue,
		Config:  config,
	}, nil
}

// Resize reconfigures the swapchain. Zero sizes (minimized window) are
// ignored.
func (s *State) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.Config.Width = uint32(width)
	s.Config.Height = uint32(height)
	s.Surface.Configure(s.Adapter, s.Device, s.Config)
}

func (s *State) Format() wgpu.TextureFormat {
	return s.Config.Format
}
