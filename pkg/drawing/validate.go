package drawing

import "fmt"

// ValidationSeverity indicates whether a validation finding invalidates the
// drawing or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // invalidates the drawing
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             `json:"node_id,omitempty"` // zero if drawing-level
	Message  string             `json:"message"`
	Severity ValidationSeverity `json:"severity"`
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	NodeID  NodeID `json:"node_id,omitempty"`
	Message string `json:"message"`
}

// ValidationResult bundles errors and warnings from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError   `json:"errors,omitempty"`
	Warnings []ValidationWarning `json:"warnings,omitempty"`
}

// OK reports whether no tier produced an error.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Validate runs all Tier 1 structural checks on the drawing. An empty slice
// means the drawing is structurally valid. It never mutates the drawing.
func Validate(d *Drawing) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(d)...)
	errs = append(errs, validateReferences(d)...)
	errs = append(errs, validateNames(d)...)
	errs = append(errs, validateRoots(d)...)
	errs = append(errs, validateKinds(d)...)
	return errs
}

// ValidateAll runs all validation tiers (structural, geometric,
// interference) and returns errors and warnings separately.
func ValidateAll(d *Drawing) ValidationResult {
	tier1 := Validate(d)
	tier2Errs, tier2Warnings := validateGeometry(d)

	var result ValidationResult
	for _, e := range tier1 {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{
				NodeID:  e.NodeID,
				Message: e.Message,
			})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	result.Errors = append(result.Errors, tier2Errs...)
	result.Warnings = append(result.Warnings, tier2Warnings...)

	// Interference is only meaningful between well-formed shapes.
	broken := make(map[NodeID]bool)
	for _, e := range tier2Errs {
		broken[e.NodeID] = true
	}
	result.Warnings = append(result.Warnings, validateInterference(d, broken)...)

	return result
}

// validateDAG checks for cycles using DFS with 3-color marking.
func validateDAG(d *Drawing) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool // true if a cycle was found
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray
		node, ok := d.Nodes[id]
		if !ok {
			// Dangling; reported by validateReferences.
			color[id] = black
			return false
		}
		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}
		color[id] = black
		return false
	}

	for id := range d.Nodes {
		if color[id] == white && visit(id) {
			break
		}
	}
	return errs
}

// validateReferences checks that every child ID points to an existing node.
func validateReferences(d *Drawing) []ValidationError {
	var errs []ValidationError
	for _, node := range d.Nodes {
		for _, childID := range node.Children {
			if _, ok := d.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateNames checks that the NameIndex points at existing nodes and that
// no two nodes share a name.
func validateNames(d *Drawing) []ValidationError {
	var errs []ValidationError

	for name, id := range d.NameIndex {
		if _, ok := d.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string][]NodeID)
	for id, node := range d.Nodes {
		if node.Name != "" {
			nameToNodes[node.Name] = append(nameToNodes[node.Name], id)
		}
	}
	for name, ids := range nameToNodes {
		if len(ids) > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, len(ids)),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateRoots checks that every root exists and warns about nodes that
// are unreachable from any root.
func validateRoots(d *Drawing) []ValidationError {
	var errs []ValidationError

	for _, rid := range d.Roots {
		if _, ok := d.Nodes[rid]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
		}
	}
	if len(d.Nodes) == 0 {
		return errs
	}

	reachable := make(map[NodeID]bool)
	queue := make([]NodeID, 0, len(d.Roots))
	for _, rid := range d.Roots {
		if _, ok := d.Nodes[rid]; ok && !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		node := d.Nodes[current]
		if node == nil {
			continue
		}
		for _, childID := range node.Children {
			if !reachable[childID] {
				reachable[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	for id, node := range d.Nodes {
		if !reachable[id] {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node %q is not reachable from any root (orphan)", label(node)),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateKinds checks that each node's payload matches its kind and that
// shape nodes are leaves.
func validateKinds(d *Drawing) []ValidationError {
	var errs []ValidationError
	for _, node := range d.Nodes {
		switch node.Kind {
		case NodeShape:
			if sd, ok := node.Data.(ShapeData); !ok || sd.Shape == nil {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("shape %q carries no geometry", label(node)),
					Severity: SeverityError,
				})
			}
			if len(node.Children) > 0 {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("shape %q has children", label(node)),
					Severity: SeverityError,
				})
			}
		case NodeGroup:
			if _, ok := node.Data.(GroupData); !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("layer %q carries %T, not layer data", label(node), node.Data),
					Severity: SeverityError,
				})
			}
		default:
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("node %q has unknown kind %d", label(node), int(node.Kind)),
				Severity: SeverityError,
			})
		}
	}
	return errs
}
