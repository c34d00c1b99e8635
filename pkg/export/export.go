// Package export writes sampled drawing outlines to SVG and DXF files.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/chazu/planar/pkg/geom"
	"github.com/chazu/planar/pkg/kernel"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

// Format names an output file format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatDXF Format = "dxf"
)

// ParseFormat accepts a format name or a file extension with its dot.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "svg":
		return FormatSVG, nil
	case "dxf":
		return FormatDXF, nil
	default:
		return "", fmt.Errorf("export: unknown format %q", name)
	}
}

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = errors.New("export: no outlines")

// Bounds returns the smallest box holding every outline vertex. ok is false
// when the outlines have no vertices.
func Bounds(outlines []*kernel.Outline) (min, max geom.Point, ok bool) {
	min = geom.Pt(math.Inf(1), math.Inf(1))
	max = geom.Pt(math.Inf(-1), math.Inf(-1))
	for _, o := range outlines {
		for i := 0; i+1 < len(o.Points); i += 2 {
			x, y := o.Points[i], o.Points[i+1]
			min.X = math.Min(min.X, x)
			min.Y = math.Min(min.Y, y)
			max.X = math.Max(max.X, x)
			max.Y = math.Max(max.Y, y)
			ok = true
		}
	}
	return min, max, ok
}

// ---------------------------------------------------------------------------
// SVG
// ---------------------------------------------------------------------------

// SVGOptions controls SVG output. Zero values take the defaults below; a
// negative Margin means none.
type SVGOptions struct {
	Scale  float64 // pixels per drawing unit
	Margin int     // pixels around the drawing
	Stroke string  // stroke colour
}

const (
	DefaultSVGScale  = 10.0
	DefaultSVGMargin = 10
	DefaultSVGStroke = "black"
)

func (o SVGOptions) withDefaults() SVGOptions {
	if o.Scale <= 0 {
		o.Scale = DefaultSVGScale
	}
	if o.Margin < 0 {
		o.Margin = 0
	} else if o.Margin == 0 {
		o.Margin = DefaultSVGMargin
	}
	if o.Stroke == "" {
		o.Stroke = DefaultSVGStroke
	}
	return o
}

// errWriter remembers the first write error, since svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

// WriteSVG renders outlines as one SVG document. The y axis is flipped so
// the drawing appears the way it reads in drawing coordinates. Each outline
// is wrapped in a group whose id is the outline name.
func WriteSVG(w io.Writer, outlines []*kernel.Outline, opts SVGOptions) error {
	min, max, ok := Bounds(outlines)
	if !ok {
		return ErrEmpty
	}
	opts = opts.withDefaults()

	toX := func(x float64) int {
		return opts.Margin + int(math.Round((x-min.X)*opts.Scale))
	}
	toY := func(y float64) int {
		return opts.Margin + int(math.Round((max.Y-y)*opts.Scale))
	}
	width := toX(max.X) + opts.Margin
	height := toY(min.Y) + opts.Margin

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", opts.Stroke)

	for _, o := range outlines {
		n := o.PointCount()
		if n == 0 {
			continue
		}
		xs := make([]int, n)
		ys := make([]int, n)
		for i := 0; i < n; i++ {
			xs[i] = toX(o.Points[2*i])
			ys[i] = toY(o.Points[2*i+1])
		}
		canvas.Gid(svgID(o.Name))
		if o.Closed {
			canvas.Polygon(xs, ys, style)
		} else {
			canvas.Polyline(xs, ys, style)
		}
		canvas.Gend()
	}
	canvas.End()

	if ew.err != nil {
		return fmt.Errorf("export: write svg: %w", ew.err)
	}
	return nil
}

// svgID makes a name usable as an XML id attribute.
func svgID(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "shape"
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// DXF
// ---------------------------------------------------------------------------

// DXF layer names.
const (
	LayerClosed = "CLOSED"
	LayerOpen   = "OPEN"
)

// WriteDXF saves outlines to a DXF file at path, one LINE entity per edge.
// Closed outlines go on LayerClosed, open ones on LayerOpen.
func WriteDXF(path string, outlines []*kernel.Outline) error {
	if _, _, ok := Bounds(outlines); !ok {
		return ErrEmpty
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerOpen, color.Red, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("export: add layer: %w", err)
	}
	if _, err := d.AddLayer(LayerClosed, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("export: add layer: %w", err)
	}

	for _, o := range outlines {
		layer := LayerOpen
		if o.Closed {
			layer = LayerClosed
		}
		if err := d.ChangeLayer(layer); err != nil {
			return fmt.Errorf("export: change layer: %w", err)
		}
		for _, e := range edges(o) {
			if _, err := d.Line(e[0], e[1], 0, e[2], e[3], 0); err != nil {
				return fmt.Errorf("export: line in %q: %w", o.Name, err)
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("export: save dxf: %w", err)
	}
	return nil
}

// edges lists an outline's segments as x0,y0,x1,y1 quadruples.
func edges(o *kernel.Outline) [][4]float64 {
	n := o.PointCount()
	segs := make([][4]float64, 0, o.SegmentCount())
	for i := 0; i < o.SegmentCount(); i++ {
		j := (i + 1) % n
		segs = append(segs, [4]float64{
			o.Points[2*i], o.Points[2*i+1],
			o.Points[2*j], o.Points[2*j+1],
		})
	}
	return segs
}
