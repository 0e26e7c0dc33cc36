package app

import (
	"errors"
	"image/color"
	"io/fs"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/colornames"

	"github.com/gekko3d/orbit/core"
	"github.com/gekko3d/orbit/gpu"
)

// spawnPalette cycles through colors for middle-click spawned bodies.
var spawnPalette = []mgl64.Vec3{
	rgb(colornames.White),
	rgb(colornames.Coral),
	rgb(colornames.Skyblue),
	rgb(colornames.Palegreen),
	rgb(colornames.Gold),
	rgb(colornames.Orchid),
}

func rgb(c color.RGBA) mgl64.Vec3 {
	return mgl64.Vec3{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

type App struct {
	Window *glfw.Window
	State  *gpu.State
	Depth  *gpu.DepthTexture

	CameraBuf  *gpu.CameraBuffer
	CirclePass *gpu.CirclePass
	QuadPass   *gpu.QuadPass

	World *core.World
	Draw  core.DrawList
	Log   core.Logger
	Cfg   Config

	MouseX, MouseY float64

	spawnIndex int

	FrameCount     int
	FPS            float64
	fpsTime        float64
	lastRenderTime float64
}

func NewApp(window *glfw.Window, cfg Config, logger core.Logger) *App {
	return &App{
		Window: window,
		Cfg:    cfg,
		Log:    logger,
	}
}

func (a *App) Init() error {
	state, err := gpu.NewState(a.Window, a.Cfg.Window.Vsync)
	if err != nil {
		return err
	}
	a.State = state

	a.Depth, err = gpu.NewDepthTexture(state.Device, state.Config.Width, state.Config.Height)
	if err != nil {
		return err
	}

	a.CameraBuf, err = gpu.NewCameraBuffer(state.Device)
	if err != nil {
		return err
	}

	a.CirclePass, err = gpu.NewCirclePass(state.Device, state.Format(), a.CameraBuf.Layout)
	if err != nil {
		return err
	}
	a.QuadPass, err = gpu.NewQuadPass(state.Device, state.Format(), a.CameraBuf.Layout)
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(a.Cfg.SavePath); statErr == nil {
		world, loadErr := core.LoadWorld(a.Cfg.SavePath)
		if loadErr != nil {
			a.Log.Warnf("could not load %s: %v, starting fresh", a.Cfg.SavePath, loadErr)
		} else {
			a.Log.Infof("loaded world %q (%d snapshots)", world.Name, len(world.States))
			a.World = world
		}
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		a.Log.Warnf("could not stat %s: %v", a.Cfg.SavePath, statErr)
	}
	if a.World == nil {
		a.World = a.demoWorld()
	}

	return nil
}

// demoWorld is the starting scene: three bodies on crossing orbits.
func (a *App) demoWorld() *core.World {
	w := core.NewWorld(a.Cfg.Simulation.StepSize, a.Cfg.Simulation.Gravity)
	w.Camera.ViewHeight = a.Cfg.Simulation.ViewHeight
	w.State().Bodies.Push(core.Body{
		Name: "Red", Pos: mgl64.Vec2{-5, 0}, Vel: mgl64.Vec2{-0.4, 0.5},
		Radius: 1, Density: 1, Color: mgl64.Vec3{1, 0, 0},
	})
	w.State().Bodies.Push(core.Body{
		Name: "Green", Pos: mgl64.Vec2{5, 0}, Vel: mgl64.Vec2{-0.8, 0.5},
		Radius: 1, Density: 1, Color: mgl64.Vec3{0, 1, 0},
	})
	w.State().Bodies.Push(core.Body{
		Name: "Blue", Pos: mgl64.Vec2{0, 5}, Vel: mgl64.Vec2{0.8, 0.5},
		Radius: 1.3, Density: 1, Color: mgl64.Vec3{0, 0, 1},
	})
	w.Modified = true
	return w
}

func (a *App) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.State.Resize(width, height)
	a.Depth.Release()
	depth, err := gpu.NewDepthTexture(a.State.Device, uint32(width), uint32(height))
	if err != nil {
		a.Log.Errorf("recreating depth texture: %v", err)
		return
	}
	a.Depth = depth
}

// Update runs one frame of input and simulation bookkeeping and
// rebuilds the draw list.
func (a *App) Update(dt float64) {
	a.World.Camera.Width = float64(a.State.Config.Width)
	a.World.Camera.Height = float64(a.State.Config.Height)
	a.World.TrackFocus()

	var pan mgl64.Vec2
	if a.keyDown(glfw.KeyW) {
		pan[1] += 1
	}
	if a.keyDown(glfw.KeyS) {
		pan[1] -= 1
	}
	if a.keyDown(glfw.KeyD) {
		pan[0] += 1
	}
	if a.keyDown(glfw.KeyA) {
		pan[0] -= 1
	}
	a.World.Pan(pan, dt)

	a.World.MoveTime(dt)
	a.World.SyncFuture()

	a.Draw.Reset()
	a.World.DrawStates(&a.Draw)
}

func (a *App) keyDown(key glfw.Key) bool {
	return a.Window.GetKey(key) == glfw.Press
}

// mouseWorld maps the cursor to world space through the CPU camera.
func (a *App) mouseWorld() mgl64.Vec2 {
	return a.World.Camera.ScreenToWorld(mgl64.Vec2{a.MouseX, a.MouseY})
}

func (a *App) HandleMouseButton(button glfw.MouseButton, action glfw.Action) {
	if action != glfw.Press {
		return
	}
	switch button {
	case glfw.MouseButtonLeft:
		if id := a.World.BodyAt(a.mouseWorld()); id != 0 {
			a.World.Selected = id
		}
	case glfw.MouseButtonRight:
		if id := a.World.BodyAt(a.mouseWorld()); id != 0 {
			a.World.Focus(id)
		} else {
			a.World.Unfocus()
		}
	case glfw.MouseButtonMiddle:
		if !a.World.Playing {
			color := spawnPalette[a.spawnIndex%len(spawnPalette)]
			a.spawnIndex++
			id := a.World.Spawn(a.mouseWorld(), color)
			a.Log.Debugf("spawned body %d", id)
		}
	}
}

func (a *App) HandleScroll(yoff float64) {
	a.World.Zoom(yoff)
}

var speedPresets = []float64{0.1, 0.5, 1, 5, 10, 50, 100}

func (a *App) HandleKey(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	if mods&glfw.ModControl != 0 {
		switch key {
		case glfw.KeyS:
			a.saveWorld()
		case glfw.KeyO:
			a.loadWorld()
		}
		return
	}

	switch key {
	case glfw.KeySpace:
		a.World.Playing = !a.World.Playing
	case glfw.KeyDelete:
		a.World.RemoveSelected()
	case glfw.KeyN:
		a.Log.Infof("starting new world")
		a.World = a.demoWorld()
	case glfw.KeyEscape:
		a.Window.SetShouldClose(true)
	default:
		if key >= glfw.Key1 && key <= glfw.Key7 {
			a.World.Speed = speedPresets[key-glfw.Key1]
			a.World.Dirty = true
		}
	}
}

func (a *App) saveWorld() {
	path := a.World.SavePath
	if path == "" {
		path = a.Cfg.SavePath
	}
	if err := a.World.SaveTo(path); err != nil {
		a.Log.Errorf("saving %s: %v", path, err)
		return
	}
	a.Log.Infof("saved world %q to %s", a.World.Name, path)
}

func (a *App) loadWorld() {
	path := a.World.SavePath
	if path == "" {
		path = a.Cfg.SavePath
	}
	world, err := core.LoadWorld(path)
	if err != nil {
		a.Log.Errorf("loading %s: %v", path, err)
		return
	}
	a.Log.Infof("loaded world %q (%d snapshots)", world.Name, len(world.States))
	a.World = world
}

// Render uploads the frame's camera and instances and issues both
// instanced draws into one pass that shares a depth attachment.
func (a *App) Render() {
	a.CameraBuf.Update(a.State.Queue, a.World.Camera.View())
	if err := a.QuadPass.Upload(a.State.Queue, a.Draw.Quads); err != nil {
		a.Log.Errorf("uploading quads: %v", err)
		return
	}
	if err := a.CirclePass.Upload(a.State.Queue, a.Draw.Circles); err != nil {
		a.Log.Errorf("uploading circles: %v", err)
		return
	}

	nextTexture, err := a.State.Surface.GetCurrentTexture()
	if err != nil {
		a.Log.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.Log.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	encoder, err := a.State.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Log.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}

	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            a.Depth.View,
			DepthClearValue: 1.0,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
		},
	})

	a.QuadPass.Draw(rPass, a.CameraBuf.BindGroup)
	a.CirclePass.Draw(rPass, a.CameraBuf.BindGroup)

	if err := rPass.End(); err != nil {
		a.Log.Errorf("render pass End failed: %v", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.Log.Errorf("encoder Finish failed: %v", err)
		return
	}
	a.State.Queue.Submit(cmd)
	a.State.Surface.Present()

	now := glfw.GetTime()
	if a.lastRenderTime > 0 {
		a.FrameCount++
		a.fpsTime += now - a.lastRenderTime
		if a.fpsTime >= 1.0 {
			a.FPS = float64(a.FrameCount) / a.fpsTime
			a.FrameCount = 0
			a.fpsTime = 0
			a.Log.Debugf("FPS: %.1f (%d circles, %d quads)", a.FPS, len(a.Draw.Circles), len(a.Draw.Quads))
		}
	}
	a.lastRenderTime = now
}
