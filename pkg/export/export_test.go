package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/planar/pkg/geom"
	"github.com/chazu/planar/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square() *kernel.Outline {
	return &kernel.Outline{Name: "sq", Closed: true, Points: []float64{0, 0, 2, 0, 2, 1, 0, 1}}
}

func path() *kernel.Outline {
	return &kernel.Outline{Name: "guide rail", Points: []float64{0, 0, 1, 1, 2, 0}}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{"SVG", FormatSVG, false},
		{".dxf", FormatDXF, false},
		{"dxf", FormatDXF, false},
		{"png", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBounds(t *testing.T) {
	min, max, ok := Bounds([]*kernel.Outline{square(), {Points: []float64{-1, 3}}})
	require.True(t, ok)
	assert.Equal(t, geom.Pt(-1, 0), min)
	assert.Equal(t, geom.Pt(2, 3), max)

	_, _, ok = Bounds(nil)
	assert.False(t, ok)
	_, _, ok = Bounds([]*kernel.Outline{{Name: "empty"}})
	assert.False(t, ok)
}

func TestEdges(t *testing.T) {
	assert.Equal(t, [][4]float64{
		{0, 0, 2, 0}, {2, 0, 2, 1}, {2, 1, 0, 1}, {0, 1, 0, 0},
	}, edges(square()))
	assert.Equal(t, [][4]float64{{0, 0, 1, 1}, {1, 1, 2, 0}}, edges(path()))
	assert.Empty(t, edges(&kernel.Outline{Points: []float64{1, 1}}))
}

func TestWriteSVG(t *testing.T) {
	var buf strings.Builder
	err := WriteSVG(&buf, []*kernel.Outline{square()}, SVGOptions{Scale: 10, Margin: 5})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, `width="30"`)
	assert.Contains(t, out, `height="20"`)
	assert.Contains(t, out, `<g id="sq">`)
	assert.Contains(t, out, "<polygon")
	// y is flipped: drawing (0,0) is the bottom-left pixel.
	assert.Contains(t, out, "5,15 25,15 25,5 5,5")
	assert.Contains(t, out, "stroke:black")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestWriteSVGOpenOutline(t *testing.T) {
	var buf strings.Builder
	err := WriteSVG(&buf, []*kernel.Outline{path()}, SVGOptions{Stroke: "red", Margin: -1})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<polyline")
	assert.NotContains(t, out, "<polygon")
	assert.Contains(t, out, `<g id="guide_rail">`)
	assert.Contains(t, out, "stroke:red")
	assert.Contains(t, out, "0,10 10,0 20,10")
}

func TestWriteSVGEmpty(t *testing.T) {
	var buf strings.Builder
	err := WriteSVG(&buf, nil, SVGOptions{})
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Empty(t, buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteSVGWriterError(t *testing.T) {
	err := WriteSVG(failingWriter{}, []*kernel.Outline{square()}, SVGOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSVGID(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plate", "plate"},
		{"bolt-left", "bolt-left"},
		{"_shape1", "_shape1"},
		{"a b/c", "a_b_c"},
		{"", "shape"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, svgID(tt.in), tt.in)
	}
}

func TestWriteDXF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "drawing.dxf")
	require.NoError(t, WriteDXF(out, []*kernel.Outline{square(), path()}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "LINE")
	assert.Contains(t, text, LayerClosed)
	assert.Contains(t, text, LayerOpen)
	assert.Contains(t, text, "EOF")
}

func TestWriteDXFEmpty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.dxf")
	assert.ErrorIs(t, WriteDXF(out, nil), ErrEmpty)
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}
