package drawing

import (
	"fmt"

	"github.com/chazu/planar/pkg/geom"
)

// Builder assembles a Drawing one named node at a time. Shapes that end up
// in no layer become roots of the drawing alongside the top-level layers.
type Builder struct {
	d       *Drawing
	grouped map[NodeID]bool
	order   []NodeID
	anon    int
}

// NewBuilder creates a builder for an empty drawing.
func NewBuilder() *Builder {
	return &Builder{
		d:       New(),
		grouped: make(map[NodeID]bool),
	}
}

// SetDefaults replaces the drawing-wide settings.
func (b *Builder) SetDefaults(def Defaults) {
	b.d.Defaults = def
}

// Drawing returns the drawing under construction, for lookups while
// building. Callers must not modify it.
func (b *Builder) Drawing() *Drawing {
	return b.d
}

// AddShape adds a shape node. An empty name gets a generated one.
func (b *Builder) AddShape(name string, s geom.Shape, src SourceRef) (NodeID, error) {
	if s == nil {
		return ZeroID, fmt.Errorf("shape %q: no geometry", name)
	}
	if name == "" {
		b.anon++
		name = fmt.Sprintf("_shape%d", b.anon)
	}
	if b.d.Lookup(name) != nil {
		return ZeroID, fmt.Errorf("name %q already defined", name)
	}

	id := NewNodeID("shape/" + name)
	b.d.AddNode(&Node{
		ID:          id,
		Kind:        NodeShape,
		Name:        name,
		Source:      src,
		ContentHash: HashShape(s),
		Data:        ShapeData{Shape: s},
	})
	b.order = append(b.order, id)
	return id, nil
}

// AddGroup adds a layer containing the named shapes and layers.
func (b *Builder) AddGroup(name string, data GroupData, src SourceRef, children ...string) (NodeID, error) {
	if name == "" {
		return ZeroID, fmt.Errorf("layer requires a name")
	}
	if b.d.Lookup(name) != nil {
		return ZeroID, fmt.Errorf("name %q already defined", name)
	}

	ids := make([]NodeID, 0, len(children))
	for _, c := range children {
		n := b.d.Lookup(c)
		if n == nil {
			return ZeroID, fmt.Errorf("layer %q: no shape or layer named %q", name, c)
		}
		ids = append(ids, n.ID)
	}

	id := NewNodeID("layer/" + name)
	b.d.AddNode(&Node{
		ID:       id,
		Kind:     NodeGroup,
		Name:     name,
		Source:   src,
		Children: ids,
		Data:     data,
	})
	for _, cid := range ids {
		b.grouped[cid] = true
	}
	b.order = append(b.order, id)
	return id, nil
}

// AddQuery records an answered query.
func (b *Builder) AddQuery(q Query) {
	b.d.AddQuery(q)
}

// Build finalizes the roots and returns the drawing. The builder must not
// be used afterwards.
func (b *Builder) Build() *Drawing {
	b.d.Roots = nil
	for _, id := range b.order {
		if !b.grouped[id] {
			b.d.AddRoot(id)
		}
	}
	b.d.Version++
	return b.d
}
