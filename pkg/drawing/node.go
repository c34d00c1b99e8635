package drawing

import "github.com/chazu/planar/pkg/geom"

// NodeKind enumerates the types of nodes in a drawing.
type NodeKind int

const (
	NodeShape NodeKind = iota // a single geom.Shape
	NodeGroup                 // a layer of shapes and nested layers
)

func (k NodeKind) String() string {
	switch k {
	case NodeShape:
		return "shape"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// SourceRef points back at the program text that created a node.
type SourceRef struct {
	Line int `json:"line,omitempty"`
}

// Node is the fundamental element of a drawing.
type Node struct {
	ID          NodeID      `json:"id"`
	Kind        NodeKind    `json:"kind"`
	Name        string      `json:"name,omitempty"`
	Source      SourceRef   `json:"source"`
	ContentHash ContentHash `json:"content_hash"`
	Children    []NodeID    `json:"children,omitempty"`
	Data        NodeData    `json:"-"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// ShapeData carries the geometry of a NodeShape.
type ShapeData struct {
	Shape geom.Shape
}

func (ShapeData) nodeData() {}

// GroupData describes a layer. Shapes in a layer with AllowContact may
// touch each other without an interference warning.
type GroupData struct {
	Description  string `json:"description,omitempty"`
	AllowContact bool   `json:"allow_contact,omitempty"`
}

func (GroupData) nodeData() {}

// Shape returns the node's geometry, or nil if it is not a shape node.
func (n *Node) Shape() geom.Shape {
	if sd, ok := n.Data.(ShapeData); ok {
		return sd.Shape
	}
	return nil
}
