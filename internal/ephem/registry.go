package ephem

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindPlanet Kind = iota
	KindMoon
)

func (k Kind) String() string {
	switch k {
	case KindPlanet:
		return "planet"
	case KindMoon:
		return "moon"
	default:
		return "unknown"
	}
}

// Body is a registry entry. Exactly one of Elements or Moon is set.
type Body struct {
	ID       string
	Name     string
	Kind     Kind
	Elements OrbitalElements
	Moon     MoonTheory
}

// Registry is the set of bodies a Propagator knows about. It is built once
// by the caller and handed to the propagator; nothing reads it from package
// state.
type Registry struct {
	bodies map[string]Body
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{bodies: make(map[string]Body)}
}

// NormalizeID lower-cases and trims a body identifier.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func (r *Registry) AddPlanet(id, name string, el OrbitalElements) error {
	id = NormalizeID(id)
	if err := el.Validate(); err != nil {
		return &BodyError{Body: id, Err: err}
	}
	return r.add(Body{ID: id, Name: name, Kind: KindPlanet, Elements: el})
}

// AddMoon registers a moon. Its parent must already be registered.
func (r *Registry) AddMoon(id, name string, m MoonTheory) error {
	id = NormalizeID(id)
	m.Parent = NormalizeID(m.Parent)
	if _, ok := r.bodies[m.Parent]; !ok {
		return &BodyError{Body: id, Err: fmt.Errorf("%w: %q", ErrParentMissing, m.Parent)}
	}
	if m.Distance <= 0 {
		return &BodyError{Body: id, Err: fmt.Errorf("%w: moon distance %g must be positive", ErrInvalidElements, m.Distance)}
	}
	return r.add(Body{ID: id, Name: name, Kind: KindMoon, Moon: m})
}

func (r *Registry) add(b Body) error {
	if b.ID == "" {
		return fmt.Errorf("%w: empty identifier", ErrInvalidElements)
	}
	if _, ok := r.bodies[b.ID]; ok {
		return &BodyError{Body: b.ID, Err: ErrDuplicateBody}
	}
	r.bodies[b.ID] = b
	r.order = append(r.order, b.ID)
	return nil
}

func (r *Registry) Lookup(id string) (Body, bool) {
	b, ok := r.bodies[NormalizeID(id)]
	return b, ok
}

// IDs returns identifiers in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

func (r *Registry) Len() int { return len(r.order) }

// Moons returns the identifiers of moons orbiting parent.
func (r *Registry) Moons(parent string) []string {
	parent = NormalizeID(parent)
	var ids []string
	for _, id := range r.order {
		if b := r.bodies[id]; b.Kind == KindMoon && b.Moon.Parent == parent {
			ids = append(ids, id)
		}
	}
	return ids
}
