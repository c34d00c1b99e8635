package engine

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/chazu/planar/pkg/drawing"
	"github.com/chazu/planar/pkg/geom"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms drawing source code before passing it to
// zygomys. It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: through-point -> through_point
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
//  3. Line comments: ; and ;; become //.
//
// All transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a geom.Point.
type sexpPoint struct {
	p geom.Point
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(point %g %g)", p.p.X, p.p.Y)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpVector wraps a geom.Vector.
type sexpVector struct {
	v geom.Vector
}

func (v *sexpVector) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vector %g %g)", v.v.X, v.v.Y)
}
func (v *sexpVector) Type() *zygo.RegisteredType { return nil }

// sexpShape wraps a geom.Shape. Shapes registered with defshape carry
// their drawing name; inline shapes have none.
type sexpShape struct {
	s    geom.Shape
	name string
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	if s.name != "" {
		return fmt.Sprintf("(shape %q)", s.name)
	}
	return fmt.Sprintf("(%s)", s.s.Kind())
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// label names the shape in query records.
func (s *sexpShape) label() string {
	if s.name != "" {
		return s.name
	}
	return s.s.Kind().String()
}

// sexpLayer references a layer node by name.
type sexpLayer struct {
	id   drawing.NodeID
	name string
}

func (l *sexpLayer) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(layer %q)", l.name)
}
func (l *sexpLayer) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// float returns the numeric keyword argument, or def when absent.
func (a kwArgs) float(key string, def float64) (float64, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// requireFloat returns the numeric keyword argument, failing when absent.
func (a kwArgs) requireFloat(key string) (float64, error) {
	if _, ok := a.kw[key]; !ok {
		return 0, fmt.Errorf("missing :%s", key)
	}
	return a.float(key, 0)
}

// point returns the point keyword argument.
func (a kwArgs) point(key string) (geom.Point, bool, error) {
	v, ok := a.kw[key]
	if !ok {
		return geom.Point{}, false, nil
	}
	p, err := toPoint(v)
	if err != nil {
		return geom.Point{}, true, fmt.Errorf("%s: %w", key, err)
	}
	return p, true, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean. A bare trailing keyword counts as true.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toPoint extracts a geom.Point from a sexpPoint.
func toPoint(s zygo.Sexp) (geom.Point, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	return geom.Point{}, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

// toVector extracts a geom.Vector from a sexpVector.
func toVector(s zygo.Sexp) (geom.Vector, error) {
	if v, ok := s.(*sexpVector); ok {
		return v.v, nil
	}
	return geom.Vector{}, fmt.Errorf("expected vector, got %T (%s)", s, s.SexpString(nil))
}

// toShape extracts a sexpShape.
func toShape(s zygo.Sexp) (*sexpShape, error) {
	if sh, ok := s.(*sexpShape); ok {
		return sh, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toPoints extracts points given either inline or as one list or array.
func toPoints(args []zygo.Sexp) ([]geom.Point, error) {
	if len(args) == 1 {
		if _, isPoint := args[0].(*sexpPoint); !isPoint {
			items, err := sexpListToSlice(args[0])
			if err != nil {
				return nil, err
			}
			args = items
		}
	}
	pts := make([]geom.Point, 0, len(args))
	for i, a := range args {
		p, err := toPoint(a)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i+1, err)
		}
		pts = append(pts, p)
	}
	return pts, nil
}

// pointArray converts points into a zygomys array of sexpPoint.
func pointArray(env *zygo.Zlisp, pts []geom.Point) *zygo.SexpArray {
	items := make([]zygo.Sexp, len(pts))
	for i, p := range pts {
		items[i] = &sexpPoint{p: p}
	}
	return &zygo.SexpArray{Val: items, Env: env}
}

// ---------------------------------------------------------------------------
// Evaluation state
// ---------------------------------------------------------------------------

// evalState is shared by the builtins of one evaluation.
type evalState struct {
	b       *drawing.Builder
	source  string
	queries map[string]int // calls so far, per query form
}

// sourceRef locates the first (form "name" ...) in the original source.
func (st *evalState) sourceRef(form, name string) drawing.SourceRef {
	re, err := regexp.Compile(`\(\s*` + regexp.QuoteMeta(form) + `\s+"` + regexp.QuoteMeta(name) + `"`)
	if err != nil {
		return drawing.SourceRef{}
	}
	loc := re.FindStringIndex(st.source)
	if loc == nil {
		return drawing.SourceRef{}
	}
	return drawing.SourceRef{Line: strings.Count(st.source[:loc[0]], "\n") + 1}
}

// queryRef locates the next call of a query form. The n-th call maps to the
// n-th occurrence of (form ...) outside comments; further calls, such as a
// query inside a function body, share the last occurrence.
func (st *evalState) queryRef(form string) drawing.SourceRef {
	n := st.queries[form]
	st.queries[form] = n + 1

	re := regexp.MustCompile(`\(\s*` + strings.ReplaceAll(regexp.QuoteMeta(form), "-", "[-_]") + `[\s)]`)
	var lines []int
	for _, loc := range re.FindAllStringIndex(st.source, -1) {
		lineStart := strings.LastIndexByte(st.source[:loc[0]], '\n') + 1
		if prefix := st.source[lineStart:loc[0]]; strings.Contains(prefix, ";") || strings.Contains(prefix, "//") {
			continue
		}
		lines = append(lines, strings.Count(st.source[:loc[0]], "\n")+1)
	}
	if len(lines) == 0 {
		return drawing.SourceRef{}
	}
	if n >= len(lines) {
		n = len(lines) - 1
	}
	return drawing.SourceRef{Line: lines[n]}
}

// childName resolves a layer child to the name of a drawing node,
// registering inline shapes under a generated name.
func (st *evalState) childName(layer string, s zygo.Sexp) (string, error) {
	switch v := s.(type) {
	case *sexpShape:
		if v.name != "" {
			return v.name, nil
		}
		id, err := st.b.AddShape("", v.s, st.sourceRef("layer", layer))
		if err != nil {
			return "", err
		}
		return st.b.Drawing().Get(id).Name, nil
	case *sexpLayer:
		return v.name, nil
	case *zygo.SexpStr:
		return v.S, nil
	}
	return "", fmt.Errorf("expected shape, layer or name, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builtinFunc is the signature zygomys expects for Go builtins.
type builtinFunc = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs all drawing DSL builtins into a zygomys
// environment. The builtins populate the state's builder during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals and
// kebab-case names match the underscore forms registered here.
func registerBuiltins(env *zygo.Zlisp, st *evalState) {
	builtins := map[string]builtinFunc{
		"point":    builtinPoint,
		"vector":   builtinVector,
		"line":     builtinLine,
		"segment":  builtinSegment,
		"ray":      builtinRay,
		"arc":      builtinArc,
		"circle":   builtinCircle,
		"polyline": builtinPolyline,
		"polygon":  builtinPolygon,
		"rect":     builtinRect,
		"triangle": builtinTriangle,
		"area":     builtinArea,

		"shape_length": builtinShapeLength,

		"defshape": st.defshape,
		"shape":    st.shape,
		"layer":    st.layer,
		"defaults": st.defaults,

		"intersections":  st.intersections,
		"interferes":     st.interferes,
		"encloses":       st.encloses,
		"through_point":  st.throughPoint,
		"overlap_length": st.overlapLength,
	}
	for name, fn := range builtins {
		env.AddFunction(name, fn)
	}
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// (point 1 2)
func builtinPoint(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	x, y, err := twoNumbers(name, args)
	if err != nil {
		return zygo.SexpNull, err
	}
	return &sexpPoint{p: geom.Pt(x, y)}, nil
}

// (vector 1 0)
func builtinVector(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	x, y, err := twoNumbers(name, args)
	if err != nil {
		return zygo.SexpNull, err
	}
	return &sexpVector{v: geom.Vec(x, y)}, nil
}

func twoNumbers(name string, args []zygo.Sexp) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%s requires exactly 2 arguments, got %d", name, len(args))
	}
	x, err := toFloat64(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%s: x: %w", name, err)
	}
	y, err := toFloat64(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%s: y: %w", name, err)
	}
	return x, y, nil
}

// (line p1 p2) | (line p :slope 2) | (line p :direction (vector 1 1))
func builtinLine(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) < 1 {
		return zygo.SexpNull, fmt.Errorf("line requires a point as first argument")
	}
	p, err := toPoint(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("line: %w", err)
	}

	if v, ok := pa.kw["slope"]; ok {
		m, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line: slope: %w", err)
		}
		return &sexpShape{s: geom.NewLineFromSlope(p, m)}, nil
	}
	if v, ok := pa.kw["direction"]; ok {
		d, err := toVector(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line: direction: %w", err)
		}
		return &sexpShape{s: geom.NewLineFromDirection(p, d)}, nil
	}
	if len(pa.positional) != 2 {
		return zygo.SexpNull, fmt.Errorf("line requires two points, or a point with :slope or :direction")
	}
	q, err := toPoint(pa.positional[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("line: second point: %w", err)
	}
	return &sexpShape{s: geom.NewLine(p, q)}, nil
}

// (segment p1 p2)
func builtinSegment(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("segment requires exactly 2 points, got %d arguments", len(args))
	}
	pts, err := toPoints(args)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("segment: %w", err)
	}
	return &sexpShape{s: geom.NewLineSegment(pts[0], pts[1])}, nil
}

// (ray origin (vector 1 0)) | (ray origin through) | (ray origin :direction v)
func builtinRay(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) < 1 {
		return zygo.SexpNull, fmt.Errorf("ray requires an origin point")
	}
	origin, err := toPoint(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("ray: origin: %w", err)
	}

	var heading zygo.Sexp
	switch {
	case pa.kw["direction"] != nil:
		heading = pa.kw["direction"]
	case len(pa.positional) == 2:
		heading = pa.positional[1]
	default:
		return zygo.SexpNull, fmt.Errorf("ray requires a direction vector or a second point")
	}

	switch h := heading.(type) {
	case *sexpVector:
		return &sexpShape{s: geom.NewRay(origin, h.v)}, nil
	case *sexpPoint:
		return &sexpShape{s: geom.NewRay(origin, h.p.Sub(origin))}, nil
	}
	return zygo.SexpNull, fmt.Errorf("ray: expected vector or point, got %T (%s)", heading, heading.SexpString(nil))
}

// (arc :center p :radius 5 :start 0 :end 90) | (arc :center p :radius 5 :from p1 :to p2)
func builtinArc(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	center, ok, err := pa.point("center")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("arc: %w", err)
	}
	if !ok {
		return zygo.SexpNull, fmt.Errorf("arc: missing :center")
	}
	r, err := pa.requireFloat("radius")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("arc: %w", err)
	}

	from, hasFrom, err := pa.point("from")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("arc: %w", err)
	}
	to, hasTo, err := pa.point("to")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("arc: %w", err)
	}
	if hasFrom || hasTo {
		if !hasFrom || !hasTo {
			return zygo.SexpNull, fmt.Errorf("arc: :from and :to must be given together")
		}
		return &sexpShape{s: geom.NewArcThroughPoints(center, r, from, to)}, nil
	}

	start, err := pa.float("start", 0)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("arc: %w", err)
	}
	end, err := pa.float("end", 360)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("arc: %w", err)
	}
	return &sexpShape{s: geom.NewArc(center, r, start, end)}, nil
}

// (circle p 5) | (circle :center p :radius 5)
func builtinCircle(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) == 2 {
		c, err := toPoint(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: center: %w", err)
		}
		r, err := toFloat64(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: radius: %w", err)
		}
		return &sexpShape{s: geom.NewCircle(c, r)}, nil
	}

	c, ok, err := pa.point("center")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("circle: %w", err)
	}
	if !ok {
		return zygo.SexpNull, fmt.Errorf("circle requires a center and a radius")
	}
	r, err := pa.requireFloat("radius")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("circle: %w", err)
	}
	return &sexpShape{s: geom.NewCircle(c, r)}, nil
}

// (polyline p1 p2 p3 ...) | (polyline [p1 p2 p3])
func builtinPolyline(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pts, err := toPoints(args)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("polyline: %w", err)
	}
	if len(pts) == 0 {
		return zygo.SexpNull, fmt.Errorf("polyline requires points")
	}
	return &sexpShape{s: geom.NewPolyline(pts...)}, nil
}

// (polygon p1 p2 p3 ...) | (polygon [p1 p2 p3])
func builtinPolygon(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pts, err := toPoints(args)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
	}
	if len(pts) == 0 {
		return zygo.SexpNull, fmt.Errorf("polygon requires points")
	}
	return &sexpShape{s: geom.NewPolygon(pts...)}, nil
}

// (rect :center p :width 10 :height 5 :angle 30)
func builtinRect(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	c, ok, err := pa.point("center")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("rect: %w", err)
	}
	if !ok {
		c = geom.Pt(0, 0)
	}
	w, err := pa.requireFloat("width")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("rect: %w", err)
	}
	h, err := pa.requireFloat("height")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("rect: %w", err)
	}
	angle, err := pa.float("angle", 0)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("rect: %w", err)
	}
	return &sexpShape{s: geom.NewRectangle(c, w, h, angle)}, nil
}

// (triangle p1 p2 p3)
func builtinTriangle(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("triangle requires exactly 3 points, got %d arguments", len(args))
	}
	pts, err := toPoints(args)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("triangle: %w", err)
	}
	return &sexpShape{s: geom.NewTriangle(pts[0], pts[1], pts[2])}, nil
}

// (area polygon)
func builtinArea(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return zygo.SexpNull, fmt.Errorf("area requires a polygon")
	}
	sh, err := toShape(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("area: %w", err)
	}
	pg, ok := sh.s.(geom.Polygon)
	if !ok {
		return zygo.SexpNull, fmt.Errorf("area: expected polygon, got %s", sh.s.Kind())
	}
	return &zygo.SexpFloat{Val: pg.Area()}, nil
}

// (shape-length s)
func builtinShapeLength(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return zygo.SexpNull, fmt.Errorf("shape-length requires a shape")
	}
	sh, err := toShape(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("shape-length: %w", err)
	}
	var l float64
	switch v := sh.s.(type) {
	case geom.Line:
		l = v.Length()
	case geom.LineSegment:
		l = v.Length
	case geom.Ray:
		l = v.Length()
	case geom.Arc:
		l = v.Length()
	case geom.Polyline:
		l = v.Length()
	case geom.Polygon:
		l = v.Length()
	}
	return &zygo.SexpFloat{Val: l}, nil
}

// ---------------------------------------------------------------------------
// Drawing structure
// ---------------------------------------------------------------------------

// (defshape "name" shape)
func (st *evalState) defshape(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("defshape requires a name and a shape expression")
	}
	shapeName, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("defshape: name: %w", err)
	}
	sh, err := toShape(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("defshape: %w", err)
	}
	if _, err := st.b.AddShape(shapeName, sh.s, st.sourceRef("defshape", shapeName)); err != nil {
		return zygo.SexpNull, fmt.Errorf("defshape: %w", err)
	}
	return &sexpShape{s: sh.s, name: shapeName}, nil
}

// (shape "name")
func (st *evalState) shape(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return zygo.SexpNull, fmt.Errorf("shape requires a name argument")
	}
	shapeName, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("shape: name: %w", err)
	}
	n := st.b.Drawing().Lookup(shapeName)
	if n == nil {
		return zygo.SexpNull, fmt.Errorf("shape: no shape named %q", shapeName)
	}
	if n.Kind != drawing.NodeShape {
		return zygo.SexpNull, fmt.Errorf("shape: %q is a layer", shapeName)
	}
	return &sexpShape{s: n.Shape(), name: shapeName}, nil
}

// (layer "name" :allow-contact true :description "..." child ...)
func (st *evalState) layer(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) < 1 {
		return zygo.SexpNull, fmt.Errorf("layer requires a name argument")
	}
	layerName, err := toString(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("layer: name: %w", err)
	}

	var data drawing.GroupData
	if v, ok := pa.kw["allow-contact"]; ok {
		data.AllowContact, err = toBool(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("layer: allow-contact: %w", err)
		}
	}
	if v, ok := pa.kw["description"]; ok {
		data.Description, err = toString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("layer: description: %w", err)
		}
	}

	children := make([]string, 0, len(pa.positional)-1)
	for i, c := range pa.positional[1:] {
		childName, err := st.childName(layerName, c)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("layer %q: child %d: %w", layerName, i+1, err)
		}
		children = append(children, childName)
	}

	id, err := st.b.AddGroup(layerName, data, st.sourceRef("layer", layerName), children...)
	if err != nil {
		return zygo.SexpNull, err
	}
	return &sexpLayer{id: id, name: layerName}, nil
}

// (defaults :precision 6 :clearance 0.5 :units "in")
func (st *evalState) defaults(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	def := st.b.Drawing().Defaults

	if v, ok := pa.kw["precision"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defaults: precision: %w", err)
		}
		if f < 0 || f != math.Trunc(f) {
			return zygo.SexpNull, fmt.Errorf("defaults: precision must be a non-negative integer, got %g", f)
		}
		def.Precision = geom.Precision(f)
	}
	clearance, err := pa.float("clearance", def.Clearance)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("defaults: %w", err)
	}
	if clearance < 0 {
		return zygo.SexpNull, fmt.Errorf("defaults: clearance must not be negative, got %g", clearance)
	}
	def.Clearance = clearance
	if v, ok := pa.kw["units"]; ok {
		def.Units, err = toString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defaults: units: %w", err)
		}
	}

	st.b.SetDefaults(def)
	return zygo.SexpNull, nil
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// shapePair extracts the two shape operands of a query.
func shapePair(name string, args []zygo.Sexp) (*sexpShape, *sexpShape, error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("%s requires exactly 2 shapes, got %d arguments", name, len(args))
	}
	a, err := toShape(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%s: first: %w", name, err)
	}
	b, err := toShape(args[1])
	if err != nil {
		return nil, nil, fmt.Errorf("%s: second: %w", name, err)
	}
	return a, b, nil
}

// (intersections a b)
func (st *evalState) intersections(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	a, b, err := shapePair("intersections", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	pts, err := geom.Intersect(a.s, b.s)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("intersections: %w", err)
	}
	st.b.AddQuery(drawing.PointsQuery(drawing.QueryIntersections, []string{a.label(), b.label()}, pts).At(st.queryRef("intersections")))
	return pointArray(env, pts), nil
}

// (interferes a b)
func (st *evalState) interferes(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	a, b, err := shapePair("interferes", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	ok, err := geom.Interfere(a.s, b.s)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("interferes: %w", err)
	}
	st.b.AddQuery(drawing.BoolQuery(drawing.QueryInterferes, []string{a.label(), b.label()}, ok).At(st.queryRef("interferes")))
	return &zygo.SexpBool{Val: ok}, nil
}

// (encloses polygon other) where other is a shape or a point
func (st *evalState) encloses(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("encloses requires a polygon and a shape or point")
	}
	outer, err := toShape(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("encloses: %w", err)
	}
	pg, ok := outer.s.(geom.Polygon)
	if !ok {
		return zygo.SexpNull, fmt.Errorf("encloses: expected polygon, got %s", outer.s.Kind())
	}

	var (
		holds bool
		label string
	)
	switch v := args[1].(type) {
	case *sexpPoint:
		holds = pg.EnclosesPoint(v.p)
		label = v.p.String()
	case *sexpShape:
		holds, err = pg.Encloses(v.s)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("encloses: %w", err)
		}
		label = v.label()
	default:
		return zygo.SexpNull, fmt.Errorf("encloses: expected shape or point, got %T (%s)", args[1], args[1].SexpString(nil))
	}

	st.b.AddQuery(drawing.BoolQuery(drawing.QueryEncloses, []string{outer.label(), label}, holds).At(st.queryRef("encloses")))
	return &zygo.SexpBool{Val: holds}, nil
}

// (through-point shape p)
func (st *evalState) throughPoint(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("through-point requires a shape and a point")
	}
	sh, err := toShape(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("through-point: %w", err)
	}
	p, err := toPoint(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("through-point: %w", err)
	}
	holds := sh.s.ThroughPoint(p)
	st.b.AddQuery(drawing.BoolQuery(drawing.QueryThroughPoint, []string{sh.label(), p.String()}, holds).At(st.queryRef("through-point")))
	return &zygo.SexpBool{Val: holds}, nil
}

// (overlap-length a b) for two members of the line family, or two arcs.
func (st *evalState) overlapLength(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	a, b, err := shapePair("overlap-length", args)
	if err != nil {
		return zygo.SexpNull, err
	}

	var length float64
	la, aLinear := a.s.(geom.Linear)
	lb, bLinear := b.s.(geom.Linear)
	aa, aArc := a.s.(geom.Arc)
	ab, bArc := b.s.(geom.Arc)
	switch {
	case aLinear && bLinear:
		length = geom.OverlapLength(la, lb)
	case aArc && bArc:
		length = aa.OverlapAngle(ab) * math.Pi / 180.0 * aa.Radius
	default:
		return zygo.SexpNull, fmt.Errorf("overlap-length: cannot measure %s against %s", a.s.Kind(), b.s.Kind())
	}

	st.b.AddQuery(drawing.LengthQuery(drawing.QueryOverlapLength, []string{a.label(), b.label()}, length).At(st.queryRef("overlap-length")))
	return &zygo.SexpFloat{Val: length}, nil
}
