package core

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Save files store only the edited keyframe snapshots; the steps in
// between are deterministic and replayed on load. Body ids are remapped
// through fresh process ids so several files can be loaded in one run.

type savedBody struct {
	ID      uint64     `yaml:"id"`
	Name    string     `yaml:"name"`
	Pos     [2]float64 `yaml:"pos,flow"`
	Vel     [2]float64 `yaml:"vel,flow"`
	Radius  float64    `yaml:"radius"`
	Density float64    `yaml:"density"`
	Color   [3]float64 `yaml:"color,flow"`
}

type savedUniverse struct {
	Index   int         `yaml:"index"`
	Gravity float64     `yaml:"gravity"`
	Bodies  []savedBody `yaml:"bodies"`
}

type savedCamera struct {
	Pos        [2]float64 `yaml:"pos,flow"`
	Offset     [2]float64 `yaml:"offset,flow"`
	ViewHeight float64    `yaml:"view_height"`
}

type saveFile struct {
	Name         string          `yaml:"name"`
	ID           string          `yaml:"id"`
	CurrentState int             `yaml:"current_state"`
	StepSize     float64         `yaml:"step_size"`
	Speed        float64         `yaml:"speed"`
	GenFuture    int             `yaml:"gen_future"`
	ShowFuture   float64         `yaml:"show_future"`
	PathQuality  int             `yaml:"path_quality"`
	Camera       savedCamera     `yaml:"camera"`
	States       []savedUniverse `yaml:"states"`
}

// MarshalSave serializes the world. The first snapshot must be a
// keyframe or the timeline cannot be reconstructed.
func (w *World) MarshalSave() ([]byte, error) {
	if !w.States[0].Changed {
		return nil, fmt.Errorf("first snapshot of %q is not a keyframe", w.Name)
	}

	file := saveFile{
		Name:         w.Name,
		ID:           w.ID.String(),
		CurrentState: w.Current,
		StepSize:     w.StepSize,
		Speed:        w.Speed,
		GenFuture:    w.GenFuture,
		ShowFuture:   w.ShowFuture,
		PathQuality:  w.PathQuality,
		Camera: savedCamera{
			Pos:        w.Camera.Pos,
			Offset:     w.Camera.Offset,
			ViewHeight: w.Camera.ViewHeight,
		},
	}

	for index, u := range w.States {
		if !u.Changed {
			continue
		}
		su := savedUniverse{
			Index:   index,
			Gravity: u.Gravity,
		}
		u.Bodies.Each(func(id BodyID, b *Body) {
			su.Bodies = append(su.Bodies, savedBody{
				ID:      uint64(id),
				Name:    b.Name,
				Pos:     b.Pos,
				Vel:     b.Vel,
				Radius:  b.Radius,
				Density: b.Density,
				Color:   b.Color,
			})
		})
		file.States = append(file.States, su)
	}

	return yaml.Marshal(&file)
}

// SaveTo writes the world to a file and clears the dirty flag.
func (w *World) SaveTo(path string) error {
	data, err := w.MarshalSave()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	w.SavePath = path
	w.Dirty = false
	return nil
}

// UnmarshalWorld rebuilds a world from save data: each keyframe is
// inserted with fresh body ids, then stepped forward until the next
// keyframe (or the saved current index, for the last one).
func UnmarshalWorld(data []byte) (*World, error) {
	var file saveFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.States) == 0 {
		return nil, fmt.Errorf("save contains no snapshots")
	}
	if file.States[0].Index != 0 {
		return nil, fmt.Errorf("save does not start at snapshot 0 (got %d)", file.States[0].Index)
	}
	if file.StepSize <= 0 {
		return nil, fmt.Errorf("invalid step size %v", file.StepSize)
	}

	idMap := make(map[uint64]BodyID)
	var states []*Universe
	for k, su := range file.States {
		u := NewUniverse(su.Gravity)
		for _, sb := range su.Bodies {
			id, ok := idMap[sb.ID]
			if !ok {
				id = NextBodyID()
				idMap[sb.ID] = id
			}
			u.Bodies.Insert(id, Body{
				Name:    sb.Name,
				Pos:     sb.Pos,
				Vel:     sb.Vel,
				Radius:  sb.Radius,
				Density: sb.Density,
				Color:   sb.Color,
			})
		}
		states = append(states, u)

		// A keyframe occupies its own index, so the stepped segment
		// before the next one is one shorter than the index gap.
		stepCount := file.CurrentState - su.Index
		if k+1 < len(file.States) {
			stepCount = file.States[k+1].Index - su.Index - 1
		}
		if stepCount < 0 {
			stepCount = 0
		}
		for s := 0; s < stepCount; s++ {
			stepped := states[len(states)-1].Clone()
			stepped.Step(file.StepSize)
			states = append(states, stepped)
		}
	}

	if file.CurrentState >= len(states) {
		return nil, fmt.Errorf("current snapshot %d out of range (%d generated)", file.CurrentState, len(states))
	}

	id, err := uuid.Parse(file.ID)
	if err != nil {
		id = uuid.New()
	}

	w := &World{
		Name:    file.Name,
		ID:      id,
		Camera:  Camera{Pos: file.Camera.Pos, Offset: file.Camera.Offset, ViewHeight: file.Camera.ViewHeight},
		States:  states,
		Current: file.CurrentState,

		GenFuture:   file.GenFuture,
		ShowFuture:  file.ShowFuture,
		PathQuality: file.PathQuality,
		StepSize:    file.StepSize,
		Speed:       file.Speed,
	}
	if w.Name == "" {
		w.Name = "Unnamed"
	}
	if w.GenFuture <= 0 {
		w.GenFuture = 20000
	}
	if w.PathQuality <= 0 {
		w.PathQuality = 128
	}
	if w.Camera.ViewHeight <= 0 {
		w.Camera.ViewHeight = 10
	}
	w.gen = startGenerator(
		states[len(states)-1].Clone(),
		w.StepSize,
		w.GenFuture-(len(states)-w.Current),
	)
	return w, nil
}

// LoadWorld reads a save file from disk.
func LoadWorld(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	w, err := UnmarshalWorld(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	w.SavePath = path
	return w, nil
}
