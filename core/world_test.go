package core

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

func playbackWorld(states int) *World {
	w := &World{
		States:   []*Universe{NewUniverse(1)},
		StepSize: 1,
		Speed:    1,
		Playing:  true,
	}
	for i := 1; i < states; i++ {
		w.States = append(w.States, w.States[i-1].Clone())
	}
	return w
}

func TestMoveTimeAdvances(t *testing.T) {
	w := playbackWorld(10)
	w.MoveTime(3)
	if w.Current != 3 {
		t.Errorf("3 seconds at step size 1 should advance 3 snapshots, got %d", w.Current)
	}
}

func TestMoveTimePaused(t *testing.T) {
	w := playbackWorld(10)
	w.Playing = false
	w.MoveTime(5)
	if w.Current != 0 {
		t.Errorf("paused playback should not advance, got %d", w.Current)
	}
}

func TestMoveTimeSpeed(t *testing.T) {
	w := playbackWorld(10)
	w.Speed = 4
	w.MoveTime(1)
	if w.Current != 4 {
		t.Errorf("4x speed should advance 4 snapshots per second, got %d", w.Current)
	}
}

func TestMoveTimeClampedToTimeline(t *testing.T) {
	w := playbackWorld(3)
	w.MoveTime(100)
	if w.Current != 2 {
		t.Errorf("playback must stop at the newest snapshot, got %d", w.Current)
	}
}

func TestMoveTimeAccumulatesFractions(t *testing.T) {
	w := playbackWorld(10)
	w.MoveTime(0.6)
	if w.Current != 0 {
		t.Errorf("a fractional step should not advance yet")
	}
	w.MoveTime(0.6)
	if w.Current != 1 {
		t.Errorf("accumulated time should advance once, got %d", w.Current)
	}
}

// waitForFuture polls SyncFuture until the background generator has
// appended at least one snapshot.
func waitForFuture(t *testing.T, w *World) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for len(w.States) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("generator produced no snapshots")
		}
		time.Sleep(time.Millisecond)
		w.SyncFuture()
	}
}

func TestSyncFutureAppendsGeneratedStates(t *testing.T) {
	w := NewWorld(0.01, 1)
	waitForFuture(t, w)
}

func TestSyncFutureTruncatesAfterEdit(t *testing.T) {
	w := NewWorld(0.01, 1)
	waitForFuture(t, w)

	w.Dirty = false
	w.Spawn(mgl64.Vec2{1, 1}, mgl64.Vec3{1, 0, 0})
	w.SyncFuture()

	if len(w.States) != w.Current+1 {
		t.Errorf("an edit should truncate the timeline after the current snapshot, got %d states at index %d",
			len(w.States), w.Current)
	}
	if !w.State().Changed {
		t.Errorf("editing should turn the current snapshot into a keyframe")
	}
	if !w.Dirty {
		t.Errorf("editing should mark unsaved changes")
	}
	if w.Modified {
		t.Errorf("the modified flag should clear after syncing")
	}
}

func TestSyncFutureDropsPreEditSnapshots(t *testing.T) {
	w := NewWorld(0.01, 1)

	// Snapshots the generator produced before an edit must never reach
	// the truncated timeline, even if it has not woken up yet.
	stale := NewUniverse(1)
	stale.Bodies.Push(Body{Name: "stale"})
	w.gen.mu.Lock()
	w.gen.states = append(w.gen.states, stale)
	w.gen.mu.Unlock()

	w.Spawn(mgl64.Vec2{}, mgl64.Vec3{})
	w.SyncFuture()

	for i, u := range w.States {
		if u == stale {
			t.Errorf("pre-edit snapshot leaked into the timeline at %d", i)
		}
	}
	w.gen.mu.Lock()
	for _, u := range w.gen.states {
		if u == stale {
			t.Errorf("pre-edit snapshot still pending in the generator")
		}
	}
	w.gen.mu.Unlock()
}

func TestSpawn(t *testing.T) {
	w := NewWorld(0.01, 1)
	id := w.Spawn(mgl64.Vec2{2, 3}, mgl64.Vec3{0, 1, 0})

	b := w.State().Bodies.Get(id)
	if b == nil {
		t.Fatalf("spawned body not found")
	}
	if b.Pos != (mgl64.Vec2{2, 3}) || b.Radius != 1 || b.Density != 1 {
		t.Errorf("spawned body = %+v", b)
	}
	if w.Selected != id {
		t.Errorf("spawning should select the new body")
	}
	if !w.Modified {
		t.Errorf("spawning should mark the snapshot edited")
	}
}

func TestRemoveSelected(t *testing.T) {
	w := NewWorld(0.01, 1)
	id := w.Spawn(mgl64.Vec2{}, mgl64.Vec3{})
	w.Modified = false

	w.RemoveSelected()
	if w.State().Bodies.Get(id) != nil {
		t.Errorf("selected body should be removed")
	}
	if w.Selected != 0 || !w.Modified {
		t.Errorf("removal should clear the selection and mark the edit")
	}

	// With nothing selected removal is a no-op.
	w.Modified = false
	w.RemoveSelected()
	if w.Modified {
		t.Errorf("removing with no selection should change nothing")
	}
}

func TestBodyAtPicksTopmost(t *testing.T) {
	w := NewWorld(0.01, 1)
	w.Spawn(mgl64.Vec2{0, 0}, mgl64.Vec3{})
	second := w.Spawn(mgl64.Vec2{0.5, 0}, mgl64.Vec3{})

	if got := w.BodyAt(mgl64.Vec2{0.4, 0}); got != second {
		t.Errorf("overlap should resolve to the newest body, got %d want %d", got, second)
	}
	if got := w.BodyAt(mgl64.Vec2{10, 10}); got != 0 {
		t.Errorf("empty space should pick nothing, got %d", got)
	}
}

func TestFocusKeepsViewStable(t *testing.T) {
	w := NewWorld(0.01, 1)
	w.Camera.Pos = mgl64.Vec2{1, 2}
	id := w.Spawn(mgl64.Vec2{5, 5}, mgl64.Vec3{})

	before := w.Camera.Pos.Sub(w.Camera.Offset)
	w.Focus(id)
	after := w.Camera.Pos.Sub(w.Camera.Offset)
	if before != after {
		t.Errorf("focusing should not move the view: %v -> %v", before, after)
	}
	if w.Focused != id {
		t.Errorf("focus not recorded")
	}

	w.Unfocus()
	if w.Focused != 0 || w.Camera.Offset != (mgl64.Vec2{}) {
		t.Errorf("unfocus should clear the offset")
	}
	if w.Camera.Pos.Sub(w.Camera.Offset) != after {
		t.Errorf("unfocusing should not move the view either")
	}
}

func TestTrackFocusFollowsBody(t *testing.T) {
	w := NewWorld(0.01, 1)
	id := w.Spawn(mgl64.Vec2{3, 4}, mgl64.Vec3{})
	w.Focus(id)

	w.State().Bodies.Get(id).Pos = mgl64.Vec2{6, 8}
	w.TrackFocus()
	if w.Camera.Offset != (mgl64.Vec2{-6, -8}) {
		t.Errorf("offset should track the focused body, got %v", w.Camera.Offset)
	}

	// Losing the body drops the offset.
	w.State().Bodies.Remove(id)
	w.TrackFocus()
	if w.Camera.Offset != (mgl64.Vec2{}) {
		t.Errorf("offset should reset when the focused body is gone")
	}
}

func TestZoomClamped(t *testing.T) {
	w := NewWorld(0.01, 1)
	w.Camera.ViewHeight = 10

	w.Zoom(1)
	if w.Camera.ViewHeight >= 10 {
		t.Errorf("scrolling up should zoom in, got %f", w.Camera.ViewHeight)
	}

	for i := 0; i < 1000; i++ {
		w.Zoom(1)
	}
	if w.Camera.ViewHeight < 0.1 {
		t.Errorf("zoom must clamp at 0.1, got %f", w.Camera.ViewHeight)
	}
}

func TestPanScalesWithZoom(t *testing.T) {
	near := NewWorld(0.01, 1)
	far := NewWorld(0.01, 1)
	near.Camera.ViewHeight = 1
	far.Camera.ViewHeight = 100

	near.Pan(mgl64.Vec2{1, 0}, 0.5)
	far.Pan(mgl64.Vec2{1, 0}, 0.5)
	if far.Camera.Pos.X() != 100*near.Camera.Pos.X() {
		t.Errorf("pan distance should scale with view height: %f vs %f",
			near.Camera.Pos.X(), far.Camera.Pos.X())
	}
}

func TestDrawStatesShowsCurrentBodies(t *testing.T) {
	w := NewWorld(0.01, 1)
	w.Spawn(mgl64.Vec2{0, 0}, mgl64.Vec3{1, 0, 0})
	w.Spawn(mgl64.Vec2{2, 0}, mgl64.Vec3{0, 1, 0})

	var d DrawList
	w.DrawStates(&d)
	if len(d.Circles) < 2 {
		t.Errorf("draw should include the current bodies, got %d circles", len(d.Circles))
	}
}
