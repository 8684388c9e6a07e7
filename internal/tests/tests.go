// Package tests holds the LED bring-up patterns used to check wiring: each
// Runner steps through frames until the test is complete.
package tests

import (
	"fmt"

	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
)

type Kind string

const (
	None Kind = ""
	// IndexSweep lights one LED at a time in chain order, which exposes
	// serpentine wiring mistakes.
	IndexSweep Kind = "index_sweep"
	Columns    Kind = "columns"
	Rows       Kind = "rows"
	Levels     Kind = "levels"
)

func Kinds() []Kind { return []Kind{IndexSweep, Columns, Rows, Levels} }

func ParseKind(v string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == v {
			return k, nil
		}
	}
	return None, fmt.Errorf("unknown test %q", v)
}

type Plan struct {
	Kind   Kind
	Wiring layout.Serpentine
	// Hold repeats each step for this many frames.
	Hold int
}

type Runner struct {
	plan Plan
	step int
	held int
}

func NewRunner(plan Plan) *Runner {
	if plan.Hold < 1 {
		plan.Hold = 1
	}
	return &Runner{plan: plan}
}

func (r *Runner) Kind() Kind { return r.plan.Kind }

// Steps is how many distinct frames the test shows.
func (r *Runner) Steps() int {
	switch r.plan.Kind {
	case IndexSweep:
		return layout.Count
	case Columns:
		return layout.Width
	case Rows:
		return layout.Height
	case Levels:
		return 8
	}
	return 0
}

// Step fills g with the next frame; returns false when complete.
func (r *Runner) Step(g *render.Grid) bool {
	if r.step >= r.Steps() {
		return false
	}
	*g = render.Grid{}

	switch r.plan.Kind {
	case IndexSweep:
		x, y := r.chainPos(r.step)
		g[x][y] = 255
	case Columns:
		for y := 0; y < layout.Height; y++ {
			g[r.step][y] = 255
		}
	case Rows:
		for x := 0; x < layout.Width; x++ {
			g[x][r.step] = 255
		}
	case Levels:
		g.Fill(uint8(255 >> (7 - r.step)))
	}

	r.held++
	if r.held >= r.plan.Hold {
		r.held = 0
		r.step++
	}
	return true
}

// chainPos inverts the wiring: the grid position of the i-th LED on the chain.
func (r *Runner) chainPos(i int) (int, int) {
	x, y := i/layout.Height, i%layout.Height
	if r.plan.Wiring.FlipEveryColumn && x%2 == 1 {
		y = layout.Height - 1 - y
	}
	return x, y
}
