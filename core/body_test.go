package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBodyMass(t *testing.T) {
	b := Body{Radius: 2, Density: 3}
	want := 3 * math.Pi * 4
	if b.Mass() != want {
		t.Errorf("mass = %f, want %f", b.Mass(), want)
	}
}

func TestBodyListOrderedIteration(t *testing.T) {
	var l BodyList
	l.Insert(30, Body{Name: "c"})
	l.Insert(10, Body{Name: "a"})
	l.Insert(20, Body{Name: "b"})

	var order []BodyID
	l.Each(func(id BodyID, b *Body) {
		order = append(order, id)
	})
	if len(order) != 3 || order[0] != 10 || order[1] != 20 || order[2] != 30 {
		t.Errorf("iteration order = %v, want ascending ids", order)
	}
}

func TestBodyListGet(t *testing.T) {
	var l BodyList
	l.Insert(5, Body{Name: "five"})

	if b := l.Get(5); b == nil || b.Name != "five" {
		t.Errorf("Get(5) = %v", b)
	}
	if b := l.Get(6); b != nil {
		t.Errorf("Get of an absent id should return nil")
	}

	// Mutations through the pointer stick.
	l.Get(5).Pos = mgl64.Vec2{1, 2}
	if l.Get(5).Pos != (mgl64.Vec2{1, 2}) {
		t.Errorf("mutation through Get was lost")
	}
}

func TestBodyListRemove(t *testing.T) {
	var l BodyList
	l.Insert(1, Body{Name: "a"})
	l.Insert(2, Body{Name: "b"})

	removed, ok := l.Remove(1)
	if !ok || removed.Name != "a" {
		t.Errorf("Remove(1) = %v, %v", removed, ok)
	}
	if l.Len() != 1 || l.Get(1) != nil {
		t.Errorf("body 1 should be gone")
	}
	if _, ok := l.Remove(1); ok {
		t.Errorf("removing an absent id should report false")
	}
}

func TestBodyListInsertDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("duplicate insert should panic")
		}
	}()
	var l BodyList
	l.Insert(7, Body{})
	l.Insert(7, Body{})
}

func TestBodyListPushIssuesFreshIDs(t *testing.T) {
	var l BodyList
	a := l.Push(Body{Name: "a"})
	b := l.Push(Body{Name: "b"})
	if a == 0 || b == 0 {
		t.Errorf("push must never issue the zero id")
	}
	if a == b {
		t.Errorf("push issued the same id twice")
	}
	if b < a {
		t.Errorf("fresh ids should be increasing, got %d then %d", a, b)
	}
}

func TestBodyListEachPair(t *testing.T) {
	var l BodyList
	l.Insert(1, Body{})
	l.Insert(2, Body{})
	l.Insert(3, Body{})

	pairs := 0
	l.EachPair(func(aID BodyID, a *Body, bID BodyID, b *Body) {
		if aID >= bID {
			t.Errorf("pair (%d,%d) is not ordered", aID, bID)
		}
		pairs++
	})
	if pairs != 3 {
		t.Errorf("3 bodies should yield 3 pairs, got %d", pairs)
	}
}

func TestBodyListCloneIsIndependent(t *testing.T) {
	var l BodyList
	l.Insert(1, Body{Name: "a"})

	c := l.Clone()
	c.Get(1).Name = "changed"
	if l.Get(1).Name != "a" {
		t.Errorf("clone should not share storage with the original")
	}
}
