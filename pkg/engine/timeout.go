package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/planar/pkg/drawing"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when an evaluation runs past its limit.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned for a result that finished after a later
	// evaluation had already started.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// evalResult carries one sandbox run back to Evaluate.
type evalResult struct {
	drawing *drawing.Drawing
	errors  []EvalError
	err     error
}

// generations numbers evaluations so only the newest result is accepted.
type generations struct {
	mu sync.Mutex
	n  uint64
}

// next starts a new evaluation and returns its number.
func (g *generations) next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return g.n
}

// current returns the number of the newest evaluation.
func (g *generations) current() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

// await returns the result of evaluation gen. An abandoned sandbox keeps
// running after ErrTimeout; whatever it sends is dropped with the channel.
func await(ch <-chan evalResult, gen uint64, timeout time.Duration, gens *generations) (*drawing.Drawing, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if gens.current() != gen {
			return nil, nil, ErrSuperseded
		}
		return res.drawing, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
}
