package engine

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chazu/planar/pkg/drawing"
	"github.com/chazu/planar/pkg/geom"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEvaluateNoShapes(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t  \n  "},
		{"comment", ";; nothing drawn yet"},
		{"arithmetic", "(+ 1 2)"},
		{"definitions", "\n(def x 10)\n(def y 20)\n(+ x y)\n"},
	}
	eng := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, evalErrs, err := eng.Evaluate(tt.source)
			if err != nil {
				t.Fatalf("unexpected fatal error: %v", err)
			}
			if len(evalErrs) > 0 {
				t.Fatalf("unexpected eval errors: %v", evalErrs)
			}
			if d == nil {
				t.Fatal("expected non-nil drawing")
			}
			if d.NodeCount() != 0 {
				t.Errorf("expected empty drawing, got %d nodes", d.NodeCount())
			}
		})
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine()

	// Unmatched paren is a parse error.
	d, evalErrs, err := eng.Evaluate("(+ 1 2")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if d != nil {
		t.Fatal("expected nil drawing on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}

	// The error message should contain something meaningful.
	msg := evalErrs[0].Message
	if msg == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := NewEngine()

	// Referencing an undefined symbol should produce an eval error.
	d, evalErrs, err := eng.Evaluate("(+ 1 undefined-symbol)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if d != nil {
		t.Fatal("expected nil drawing on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvaluateSyntaxErrorHasLineInfo(t *testing.T) {
	eng := NewEngine()

	// Put the error on line 2.
	source := "(+ 1 2)\n(+ 3"
	d, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if d != nil {
		t.Fatal("expected nil drawing on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}

	// We expect the line number to be extracted from the zygomys error.
	// Line info may or may not be available depending on the error format;
	// we just check the error is populated.
	e := evalErrs[0]
	if e.Message == "" {
		t.Error("eval error message should not be empty")
	}
	// If line info was extracted, verify it's positive.
	if e.Line > 0 {
		t.Logf("extracted line info: line=%d, message=%q", e.Line, e.Message)
	} else {
		t.Logf("no line info extracted (line=0), message=%q", e.Message)
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Col: 0, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") {
		t.Errorf("Error() should contain line info, got: %s", s)
	}
	if !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() should contain message, got: %s", s)
	}

	// No line info.
	e2 := EvalError{Line: 0, Col: 0, Message: "no location"}
	s2 := e2.Error()
	if strings.Contains(s2, "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", s2)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()
	source := `
(defshape "plate" (rect :width 10 :height 4))
(layer "part" (shape "plate") (circle (point 0 0) 1))
`
	var first *drawing.Drawing
	for i := 0; i < 5; i++ {
		d, evalErrs, err := eng.Evaluate(source)
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		if first == nil {
			first = d
			continue
		}
		// Node IDs and content hashes derive from names and geometry only.
		if len(d.Nodes) != len(first.Nodes) {
			t.Fatalf("iteration %d: %d nodes, want %d", i, len(d.Nodes), len(first.Nodes))
		}
		for id, n := range first.Nodes {
			got := d.Get(id)
			if got == nil {
				t.Fatalf("iteration %d: node %s (%q) missing", i, id.Short(), n.Name)
			}
			if got.ContentHash != n.ContentHash {
				t.Errorf("iteration %d: %q hash changed", i, n.Name)
			}
		}
	}
}

func TestAwaitTimeout(t *testing.T) {
	gens := &generations{}
	gen := gens.next()
	ch := make(chan evalResult) // never sends

	done := make(chan error, 1)
	go func() {
		_, _, err := await(ch, gen, 50*time.Millisecond, gens)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrTimeout) {
			t.Fatalf("expected ErrTimeout, got %v", err)
		}
		if !strings.Contains(err.Error(), "after 50ms") {
			t.Errorf("timeout error should name the limit, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("await did not time out")
	}
}

func TestWithTimeout(t *testing.T) {
	if got := NewEngine().timeout; got != EvalTimeout {
		t.Errorf("default timeout = %s, want %s", got, EvalTimeout)
	}
	if got := NewEngine(WithTimeout(time.Second)).timeout; got != time.Second {
		t.Errorf("timeout = %s, want 1s", got)
	}
	if got := NewEngine(WithTimeout(0)).timeout; got != EvalTimeout {
		t.Errorf("zero timeout should keep the default, got %s", got)
	}
}

func TestWithDefaults(t *testing.T) {
	def := drawing.Defaults{Precision: geom.Precision(4), Clearance: 1, Units: "in"}
	eng := NewEngine(WithDefaults(def))

	d, evalErrs, err := eng.Evaluate("")
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("unexpected errors: %v %v", err, evalErrs)
	}
	if d.Defaults != def {
		t.Errorf("defaults = %+v, want %+v", d.Defaults, def)
	}
}

func TestWithLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	eng := NewEngine(WithLogger(zap.New(core)))

	if _, _, err := eng.Evaluate(`(defshape "a" (segment (point 0 0) (point 1 0)))`); err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if _, _, err := eng.Evaluate("(+ 1"); err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}

	if n := logs.FilterMessage("evaluated").Len(); n != 1 {
		t.Errorf("expected 1 evaluated entry, got %d", n)
	}
	if n := logs.FilterMessage("evaluation errors").Len(); n != 1 {
		t.Errorf("expected 1 evaluation errors entry, got %d", n)
	}

	// A nil logger is replaced rather than dereferenced.
	if _, _, err := NewEngine(WithLogger(nil)).Evaluate("(+ 1 2)"); err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
}

func TestAwaitDiscardsStale(t *testing.T) {
	gens := &generations{}
	stale := gens.next()
	fresh := gens.next()

	ch := make(chan evalResult, 1)
	ch <- evalResult{}
	if _, _, err := await(ch, stale, EvalTimeout, gens); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}

	ch <- evalResult{drawing: drawing.New()}
	d, _, err := await(ch, fresh, EvalTimeout, gens)
	if err != nil {
		t.Fatalf("newest generation rejected: %v", err)
	}
	if d == nil {
		t.Fatal("expected the newest drawing")
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "line format lowercase",
			msg:      "error on line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
