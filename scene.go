package sfmview

import "github.com/soypat/sfmview/internal/d3"

// Scene is the immutable set of actors drawn in one viewing session.
type Scene struct {
	actors []Actor
}

// NewScene composes a coordinate axes glyph at the origin with the actors
// of every renderable. Renderables are read once; later changes to them do
// not affect the scene.
func NewScene(renderables ...Renderable) Scene {
	actors := Axes{Length: 1}.Actors()
	for _, r := range renderables {
		if r == nil {
			continue
		}
		for _, a := range r.Actors() {
			actors = append(actors, cloneActor(a))
		}
	}
	return Scene{actors: actors}
}

// Actors returns the scene actors. They must not be modified.
func (s Scene) Actors() []Actor { return s.actors }

// Len returns the number of actors in the scene, axes included.
func (s Scene) Len() int { return len(s.actors) }

// Bounds returns the world space bounding box of all actors.
func (s Scene) Bounds() d3.Box {
	b := d3.EmptyBox()
	for i := range s.actors {
		b = b.Extend(s.actors[i].Bounds())
	}
	return b
}
