package drawing

import (
	"fmt"
	"sort"

	"github.com/chazu/planar/pkg/geom"
)

// DefaultClearance is the default minimum gap between shapes, in drawing units.
const DefaultClearance = 0.25

// Defaults contains drawing-wide settings.
type Defaults struct {
	Precision geom.Precision `json:"precision"` // decimal places for point comparison
	Clearance float64        `json:"clearance"` // minimum gap between non-touching shapes
	Units     string         `json:"units"`
}

// Drawing is the top-level immutable data structure produced by evaluation.
// It is never mutated once built; each evaluation produces a new drawing.
type Drawing struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Defaults  Defaults          `json:"defaults"`
	Queries   []Query           `json:"queries,omitempty"`
	Version   uint64            `json:"version"`
}

// New creates an empty Drawing with default settings.
func New() *Drawing {
	return &Drawing{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
		Defaults: Defaults{
			Precision: geom.DefaultPrecision,
			Clearance: DefaultClearance,
			Units:     "mm",
		},
	}
}

// AddNode adds a node to the drawing. It does not check for duplicates.
func (d *Drawing) AddNode(n *Node) {
	d.Nodes[n.ID] = n
	if n.Name != "" {
		d.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the drawing.
func (d *Drawing) AddRoot(id NodeID) {
	d.Roots = append(d.Roots, id)
}

// AddQuery records an answered query.
func (d *Drawing) AddQuery(q Query) {
	d.Queries = append(d.Queries, q)
}

// Lookup returns the node with the given name, or nil.
func (d *Drawing) Lookup(name string) *Node {
	id, ok := d.NameIndex[name]
	if !ok {
		return nil
	}
	return d.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (d *Drawing) MustLookup(name string) *Node {
	n := d.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("drawing: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (d *Drawing) Get(id NodeID) *Node {
	return d.Nodes[id]
}

// Shapes returns all shape nodes ordered by name, then ID.
func (d *Drawing) Shapes() []*Node {
	return d.byKind(NodeShape)
}

// Groups returns all group nodes ordered by name, then ID.
func (d *Drawing) Groups() []*Node {
	return d.byKind(NodeGroup)
}

func (d *Drawing) byKind(k NodeKind) []*Node {
	var out []*Node
	for _, n := range d.Nodes {
		if n.Kind == k {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Children returns the child nodes of the given node.
func (d *Drawing) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := d.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (d *Drawing) NodeCount() int {
	return len(d.Nodes)
}

// label names a node for messages.
func label(n *Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}
