package core

import (
	"fmt"
	"math"
	"sort"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyID identifies a body across every snapshot of a timeline. Zero is
// never issued and means "no body".
type BodyID uint64

var bodyIDCounter atomic.Uint64

// NextBodyID returns a fresh process-wide id.
func NextBodyID() BodyID {
	return BodyID(bodyIDCounter.Add(1))
}

type Body struct {
	Name    string
	Pos     mgl64.Vec2
	Vel     mgl64.Vec2
	Radius  float64
	Density float64
	Color   mgl64.Vec3
}

func (b *Body) Mass() float64 {
	return b.Density * math.Pi * b.Radius * b.Radius
}

type bodyEntry struct {
	id   BodyID
	body Body
}

// BodyList keeps bodies ordered by id so lookups are a binary search
// and iteration order is deterministic.
type BodyList struct {
	bodies []bodyEntry
}

func (l *BodyList) Len() int {
	return len(l.bodies)
}

func (l *BodyList) Reserve(additional int) {
	if need := len(l.bodies) + additional; need > cap(l.bodies) {
		grown := make([]bodyEntry, len(l.bodies), need)
		copy(grown, l.bodies)
		l.bodies = grown
	}
}

func (l *BodyList) search(id BodyID) (int, bool) {
	i := sort.Search(len(l.bodies), func(i int) bool {
		return l.bodies[i].id >= id
	})
	return i, i < len(l.bodies) && l.bodies[i].id == id
}

// Insert adds a body under a caller-supplied id. Panics if the id is
// already present.
func (l *BodyList) Insert(id BodyID, body Body) {
	i, found := l.search(id)
	if found {
		panic(fmt.Sprintf("body %d inserted twice", id))
	}
	l.bodies = append(l.bodies, bodyEntry{})
	copy(l.bodies[i+1:], l.bodies[i:])
	l.bodies[i] = bodyEntry{id: id, body: body}
}

// Push appends a body under a fresh id and returns it.
func (l *BodyList) Push(body Body) BodyID {
	id := NextBodyID()
	l.bodies = append(l.bodies, bodyEntry{id: id, body: body})
	return id
}

// Remove deletes a body and reports whether it was present.
func (l *BodyList) Remove(id BodyID) (Body, bool) {
	i, found := l.search(id)
	if !found {
		return Body{}, false
	}
	removed := l.bodies[i].body
	l.bodies = append(l.bodies[:i], l.bodies[i+1:]...)
	return removed, true
}

// Get returns a pointer into the list, valid until the next insert or
// remove, or nil if the id is absent.
func (l *BodyList) Get(id BodyID) *Body {
	i, found := l.search(id)
	if !found {
		return nil
	}
	return &l.bodies[i].body
}

// Each visits bodies in id order.
func (l *BodyList) Each(f func(id BodyID, b *Body)) {
	for i := range l.bodies {
		f(l.bodies[i].id, &l.bodies[i].body)
	}
}

// EachPair visits every unordered pair of distinct bodies once.
func (l *BodyList) EachPair(f func(aID BodyID, a *Body, bID BodyID, b *Body)) {
	for i := range l.bodies {
		for j := i + 1; j < len(l.bodies); j++ {
			f(l.bodies[i].id, &l.bodies[i].body, l.bodies[j].id, &l.bodies[j].body)
		}
	}
}

func (l *BodyList) Clone() BodyList {
	bodies := make([]bodyEntry, len(l.bodies))
	copy(bodies, l.bodies)
	return BodyList{bodies: bodies}
}
