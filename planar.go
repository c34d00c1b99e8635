// Package planar evaluates drawing programs end to end: source is run by the
// engine, the resulting drawing is validated and checked for clearance, and
// its shapes are sampled into outlines ready for display or export.
package planar

import (
	"time"

	"github.com/chazu/planar/pkg/config"
	"github.com/chazu/planar/pkg/drawing"
	"github.com/chazu/planar/pkg/engine"
	"github.com/chazu/planar/pkg/geom"
	"github.com/chazu/planar/pkg/kernel"
	"github.com/chazu/planar/pkg/kernel/sdfx"
	"github.com/chazu/planar/pkg/logging"
	"github.com/chazu/planar/pkg/tessellate"
	"go.uber.org/zap"
)

// colorPalette is a default palette used to assign distinct colors to shapes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Session owns an engine and a kernel configured from one Config. It is
// safe for concurrent use.
type Session struct {
	engine      *engine.Engine
	kernel      kernel.Kernel
	arcSegments int
	logger      *zap.Logger
}

// ShapeView is the JSON form of one sampled shape.
type ShapeView struct {
	Name   string    `json:"name"`
	Kind   string    `json:"kind"`
	Points []float64 `json:"points"` // [x0,y0, x1,y1, ...]
	Closed bool      `json:"closed"`
	Line   int       `json:"line,omitempty"`
	Color  string    `json:"color"`
}

// QueryView is the JSON form of one answered query.
type QueryView struct {
	Kind      string       `json:"kind"`
	Operands  []string     `json:"operands"`
	Points    []geom.Point `json:"points,omitempty"`
	Holds     *bool        `json:"holds,omitempty"`
	Length    *float64     `json:"length,omitempty"`
	Unbounded bool         `json:"unbounded,omitempty"`
	Line      int          `json:"line,omitempty"`
}

// Diagnostic is an error or warning tied, where possible, to a source line
// or a shape.
type Diagnostic struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Shape   string `json:"shape,omitempty"`
	Message string `json:"message"`
}

// BoundsView is an axis-aligned box.
type BoundsView struct {
	Min geom.Point `json:"min"`
	Max geom.Point `json:"max"`
}

// Result is everything one evaluation produced. Slices are never nil so the
// JSON form always carries arrays.
type Result struct {
	Shapes   []ShapeView  `json:"shapes"`
	Queries  []QueryView  `json:"queries"`
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`
	Coverage *BoundsView  `json:"coverage,omitempty"` // bounds of the closed shapes
	Elapsed  string       `json:"elapsed"`

	drawing  *drawing.Drawing
	outlines []*kernel.Outline
}

// OK reports whether evaluation produced no errors.
func (r *Result) OK() bool { return len(r.Errors) == 0 }

// Drawing returns the evaluated drawing, or nil if evaluation failed.
func (r *Result) Drawing() *drawing.Drawing { return r.drawing }

// Outlines returns the sampled shapes in drawing order.
func (r *Result) Outlines() []*kernel.Outline { return r.outlines }

// NewSession creates a Session from cfg. A nil cfg means config.Default and
// a nil logger discards output.
func NewSession(cfg *config.Config, logger *zap.Logger) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	logger = logging.OrNop(logger)
	return &Session{
		engine: engine.NewEngine(
			engine.WithTimeout(time.Duration(cfg.EvalTimeout)),
			engine.WithDefaults(cfg.Defaults()),
			engine.WithLogger(logger.Named("engine")),
		),
		kernel:      sdfx.New(),
		arcSegments: cfg.ArcSegments,
		logger:      logger,
	}
}

func newResult() *Result {
	return &Result{
		Shapes:   []ShapeView{},
		Queries:  []QueryView{},
		Errors:   []Diagnostic{},
		Warnings: []Diagnostic{},
	}
}

// Evaluate runs source and returns its shapes, query answers and findings.
// Structural and geometric errors stop the pipeline before sampling;
// interference and clearance findings are warnings.
func (s *Session) Evaluate(source string) *Result {
	start := time.Now()
	result := newResult()
	defer func() { result.Elapsed = time.Since(start).String() }()

	// Step 1: Evaluate the source into a drawing.
	d, evalErrs, err := s.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		s.logger.Error("evaluate fatal error", zap.Error(err))
		result.Errors = append(result.Errors, Diagnostic{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, Diagnostic{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	result.drawing = d
	for _, q := range d.Queries {
		result.Queries = append(result.Queries, QueryView{
			Kind:      q.Kind.String(),
			Operands:  q.Operands,
			Points:    q.Points,
			Holds:     q.Holds,
			Length:    q.Length,
			Unbounded: q.Unbounded,
			Line:      q.Source.Line,
		})
	}

	// Step 2: Validate structure, geometry and interference.
	v := drawing.ValidateAll(d)
	for _, e := range v.Errors {
		result.Errors = append(result.Errors, nodeDiagnostic(d, e.NodeID, e.Message))
	}
	for _, w := range v.Warnings {
		result.Warnings = append(result.Warnings, nodeDiagnostic(d, w.NodeID, w.Message))
	}
	if !v.OK() {
		return result
	}

	// Step 3: Clearance between shapes that do not touch.
	gaps, err := tessellate.Clearance(d, s.kernel, d.Defaults.Clearance, s.arcSegments)
	if err != nil {
		s.logger.Error("clearance check failed", zap.Error(err))
		result.Errors = append(result.Errors, Diagnostic{Message: "clearance check failed: " + err.Error()})
		return result
	}
	for _, w := range gaps {
		result.Warnings = append(result.Warnings, nodeDiagnostic(d, w.NodeID, w.Message))
	}

	// Step 4: Sample shapes into outlines.
	outlines, err := tessellate.Outlines(d, s.arcSegments)
	if err != nil {
		s.logger.Error("tessellate error", zap.Error(err))
		result.Errors = append(result.Errors, Diagnostic{Message: "tessellation failed: " + err.Error()})
		return result
	}
	result.outlines = outlines
	for i, o := range outlines {
		view := ShapeView{
			Name:   o.Name,
			Points: o.Points,
			Closed: o.Closed,
			Color:  colorPalette[i%len(colorPalette)],
		}
		if n := d.Lookup(o.Name); n != nil {
			view.Line = n.Source.Line
			if shape := n.Shape(); shape != nil {
				view.Kind = shape.Kind().String()
			}
		}
		result.Shapes = append(result.Shapes, view)
	}

	// Step 5: Bounds of the area covered by closed shapes.
	coverage, err := tessellate.Coverage(d, s.kernel)
	if err != nil {
		s.logger.Warn("coverage failed", zap.Error(err))
	} else if coverage != nil {
		min, max := coverage.Bounds()
		result.Coverage = &BoundsView{Min: min, Max: max}
	}

	s.logger.Debug("session evaluated",
		zap.Int("shapes", len(result.Shapes)),
		zap.Int("queries", len(result.Queries)),
		zap.Int("warnings", len(result.Warnings)))
	return result
}

// nodeDiagnostic attaches the node's name and source line to a finding.
func nodeDiagnostic(d *drawing.Drawing, id drawing.NodeID, msg string) Diagnostic {
	diag := Diagnostic{Message: msg}
	if n := d.Get(id); n != nil {
		diag.Shape = n.Name
		diag.Line = n.Source.Line
	}
	return diag
}
