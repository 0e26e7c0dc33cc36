package core

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// World is a timeline of universe snapshots plus the view and playback
// state around it. States[Current] is the snapshot on screen; a
// background generator extends the timeline so future paths can be
// previewed without stalling the frame loop.
type World struct {
	Name   string
	ID     uuid.UUID
	Camera Camera

	States  []*Universe
	Current int

	// GenFuture is the lookahead target in steps, ShowFuture the
	// previewed path length in seconds, PathQuality the step stride
	// between path segments.
	GenFuture   int
	ShowFuture  float64
	PathQuality int

	StepSize float64
	Speed    float64
	Playing  bool

	Focused  BodyID
	Selected BodyID

	// Modified marks the current snapshot as edited this frame, which
	// invalidates everything after it. Dirty tracks unsaved changes.
	Modified bool
	Dirty    bool
	SavePath string

	accumulated float64
	gen         *generator
}

func NewWorld(stepSize, gravity float64) *World {
	states := []*Universe{NewUniverse(gravity)}
	w := &World{
		Name:        "Unnamed",
		ID:          uuid.New(),
		Camera:      NewCamera(mgl64.Vec2{}, 10),
		States:      states,
		GenFuture:   20000,
		ShowFuture:  100,
		PathQuality: 128,
		StepSize:    stepSize,
		Speed:       1,
		Dirty:       true,
	}
	w.gen = startGenerator(states[len(states)-1].Clone(), stepSize, w.GenFuture-(len(states)-w.Current))
	return w
}

func (w *World) State() *Universe {
	return w.States[w.Current]
}

// MoveTime advances playback, clamped to the generated timeline.
func (w *World) MoveTime(dt float64) {
	if w.Playing {
		w.accumulated += math.Max(dt*w.Speed, 0)
	}
	for w.accumulated >= w.StepSize {
		if w.Current+1 >= len(w.States) {
			break
		}
		w.Current++
		w.accumulated -= w.StepSize
	}
}

// SyncFuture exchanges state with the generator once per frame: after
// an edit it truncates the timeline and restarts generation from the
// current snapshot, otherwise it appends whatever the generator
// produced and renews the lookahead target.
func (w *World) SyncFuture() {
	g := w.gen
	g.mu.Lock()
	if w.Modified {
		w.State().Changed = true
		w.States = w.States[:w.Current+1]
		// Drop anything generated before the edit so it can never be
		// appended to the truncated timeline.
		g.states = g.states[:0]
		g.stepSize = w.StepSize
		g.target = maxInt(w.GenFuture-(len(w.States)-w.Current), 0)
		g.initial = w.States[len(w.States)-1].Clone()
	} else {
		w.States = append(w.States, g.states...)
		g.states = g.states[:0]
		g.target = maxInt(w.GenFuture-(len(w.States)-w.Current), 0)
	}
	g.mu.Unlock()
	g.cond.Signal()

	if w.Modified {
		w.Dirty = true
	}
	w.Modified = false
}

// DrawStates queues the current snapshot plus the future-path preview:
// a polyline segment every PathQuality steps per body, and ghost
// markers where the generated timeline ends early. Paths are drawn
// relative to the focused body so orbits stay readable while following.
func (w *World) DrawStates(d *DrawList) {
	w.State().Draw(d)

	thickness := float32(0.005 * w.Camera.ViewHeight)
	oldIndex := w.Current
	for i := 0; i < int(w.ShowFuture/w.StepSize); i++ {
		futureIndex := i + w.Current
		if futureIndex+2 > len(w.States) {
			universe := w.States[len(w.States)-1]
			offset := w.focusOffset(universe)
			universe.Bodies.Each(func(_ BodyID, b *Body) {
				d.Circle(vec2f(b.Pos.Sub(offset)), thickness, mgl32.Vec3{0.75, 0.75, 0.75}, 0.2)
			})
			break
		}
		if (i+w.Current)%w.PathQuality == 0 {
			universe := w.States[oldIndex]
			next := w.States[futureIndex+1]
			currentOffset := w.focusOffset(universe)
			futureOffset := w.focusOffset(next)
			universe.Bodies.Each(func(id BodyID, current *Body) {
				future := next.Bodies.Get(id)
				if future == nil {
					return
				}
				d.Line(
					vec2f(current.Pos.Sub(currentOffset)),
					vec2f(future.Pos.Sub(futureOffset)),
					thickness,
					vec3f(current.Color),
					0.1,
				)
			})
			oldIndex = futureIndex
		}
	}
}

// focusOffset is the correction subtracted from positions in a given
// snapshot so the focused body's path collapses onto its current
// position.
func (w *World) focusOffset(u *Universe) mgl64.Vec2 {
	if w.Focused != 0 {
		if fb := u.Bodies.Get(w.Focused); fb != nil {
			return fb.Pos.Add(w.Camera.Offset)
		}
	}
	return w.Camera.Offset
}

// TrackFocus re-centers the camera offset on the focused body. Called
// once per frame before input handling.
func (w *World) TrackFocus() {
	if w.Focused != 0 {
		if b := w.State().Bodies.Get(w.Focused); b != nil {
			w.Camera.Offset = b.Pos.Mul(-1)
			return
		}
	}
	w.Camera.Offset = mgl64.Vec2{}
}

// BodyAt returns the topmost body whose disk contains the world-space
// point, or zero.
func (w *World) BodyAt(p mgl64.Vec2) BodyID {
	var hit BodyID
	w.State().Bodies.Each(func(id BodyID, b *Body) {
		if b.Pos.Sub(p).Len() < b.Radius {
			hit = id
		}
	})
	return hit
}

// Focus follows a body: the camera keeps it centered until Unfocus.
func (w *World) Focus(id BodyID) {
	b := w.State().Bodies.Get(id)
	if b == nil {
		return
	}
	if w.Focused != 0 {
		w.Camera.Pos = w.Camera.Pos.Sub(w.Camera.Offset)
	}
	w.Focused = id
	w.Camera.Pos = w.Camera.Pos.Sub(b.Pos)
	w.Camera.Offset = b.Pos.Mul(-1)
}

func (w *World) Unfocus() {
	if w.Focused == 0 {
		return
	}
	w.Camera.Pos = w.Camera.Pos.Sub(w.Camera.Offset)
	w.Camera.Offset = mgl64.Vec2{}
	w.Focused = 0
}

// Spawn adds a unit body at a world position, selects it, and marks
// the snapshot edited.
func (w *World) Spawn(p mgl64.Vec2, color mgl64.Vec3) BodyID {
	id := w.State().Bodies.Push(Body{
		Name:    "Unnamed",
		Pos:     p,
		Radius:  1,
		Density: 1,
		Color:   color,
	})
	w.Selected = id
	w.Modified = true
	return id
}

// RemoveSelected deletes the selected body from the current snapshot.
func (w *World) RemoveSelected() {
	if w.Selected == 0 {
		return
	}
	if _, ok := w.State().Bodies.Remove(w.Selected); ok {
		w.Modified = true
	}
	w.Selected = 0
}

// Pan moves the camera; speed scales with zoom so a key press covers
// the same fraction of the viewport at any height.
func (w *World) Pan(dir mgl64.Vec2, dt float64) {
	w.Camera.Pos = w.Camera.Pos.Add(dir.Mul(dt * w.Camera.ViewHeight))
}

// Zoom applies an exponential scroll step, clamped to a minimum height.
func (w *World) Zoom(notches float64) {
	w.Camera.ViewHeight -= notches * w.Camera.ViewHeight * 0.05
	w.Camera.ViewHeight = math.Max(w.Camera.ViewHeight, 0.1)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// generator extends a timeline on its own goroutine. It steps clones of
// the newest snapshot into states until target is reached, then sleeps
// on cond. Setting initial restarts generation from a new snapshot.
type generator struct {
	mu       sync.Mutex
	cond     *sync.Cond
	initial  *Universe
	states   []*Universe
	target   int
	stepSize float64
}

func startGenerator(initial *Universe, stepSize float64, target int) *generator {
	g := &generator{
		initial:  initial,
		target:   maxInt(target, 0),
		stepSize: stepSize,
	}
	g.cond = sync.NewCond(&g.mu)
	go g.run()
	return g
}

func (g *generator) run() {
	var state *Universe
	g.mu.Lock()
	for {
		if g.initial != nil {
			g.states = g.states[:0]
			state = g.initial
			g.initial = nil
		}

		if state == nil || len(g.states) >= g.target {
			g.cond.Wait()
			continue
		}
		stepSize := g.stepSize
		base := state
		g.mu.Unlock()

		next := base.Clone()
		next.Step(stepSize)

		g.mu.Lock()
		if g.initial != nil {
			// The timeline restarted while this step was in flight.
			continue
		}
		if len(g.states) >= g.target {
			g.cond.Wait()
			continue
		}
		g.states = append(g.states, next)
		state = next
	}
}
