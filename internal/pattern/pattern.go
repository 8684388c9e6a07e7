// Package pattern draws the static (non-animated) frames a host can select.
package pattern

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
)

var ErrUnknownPattern = errors.New("unknown pattern")

// Kind values follow the host tool's pattern ids. Custom is local: it keeps
// whatever frame is already on the panel.
type Kind uint8

const (
	Percentage     Kind = 0
	Gradient       Kind = 1
	DoubleGradient Kind = 2
	Zigzag         Kind = 4
	AllOn          Kind = 5
	Custom         Kind = 0xFF
)

var names = map[Kind]string{
	Percentage:     "percentage",
	Gradient:       "gradient",
	DoubleGradient: "double-gradient",
	Zigzag:         "zigzag",
	AllOn:          "all-on",
	Custom:         "custom",
}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("pattern(%d)", uint8(k))
}

// Pattern is a static frame selection. Percent is only read by Percentage.
type Pattern struct {
	Kind    Kind
	Percent uint8
}

func (p Pattern) String() string {
	if p.Kind == Percentage {
		return fmt.Sprintf("percentage(%d)", p.Percent)
	}
	return p.Kind.String()
}

func Parse(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	for k, v := range names {
		if v == n || strings.ReplaceAll(v, "-", "") == n {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
}

// Draw renders p into dst. Custom leaves dst untouched.
func (p Pattern) Draw(dst *render.Grid) {
	switch p.Kind {
	case Percentage:
		drawPercentage(dst, p.Percent)
	case Gradient:
		drawGradient(dst)
	case DoubleGradient:
		drawDoubleGradient(dst)
	case Zigzag:
		drawZigzag(dst)
	case AllOn:
		dst.Fill(0xFF)
	case Custom:
	}
}

// drawPercentage lights the bottom pct% of rows.
func drawPercentage(dst *render.Grid, pct uint8) {
	if pct > 100 {
		pct = 100
	}
	rows := int(pct) * layout.Height / 100
	for x := 0; x < layout.Width; x++ {
		for y := 0; y < layout.Height; y++ {
			if y >= layout.Height-rows {
				dst[x][y] = 0xFF
			} else {
				dst[x][y] = 0
			}
		}
	}
}

// drawGradient ramps from dark at the top row to full at the bottom.
func drawGradient(dst *render.Grid) {
	for y := 0; y < layout.Height; y++ {
		v := uint8(y * 255 / (layout.Height - 1))
		for x := 0; x < layout.Width; x++ {
			dst[x][y] = v
		}
	}
}

// drawDoubleGradient peaks in the middle row and fades to both ends.
func drawDoubleGradient(dst *render.Grid) {
	half := (layout.Height - 1) / 2
	for y := 0; y < layout.Height; y++ {
		d := y
		if y > half {
			d = layout.Height - 1 - y
		}
		v := uint8(d * 255 / half)
		for x := 0; x < layout.Width; x++ {
			dst[x][y] = v
		}
	}
}

// drawZigzag bounces a single lit pixel across the width row by row.
func drawZigzag(dst *render.Grid) {
	*dst = render.Grid{}
	period := 2 * (layout.Width - 1)
	for y := 0; y < layout.Height; y++ {
		pos := y % period
		if pos >= layout.Width {
			pos = period - pos
		}
		dst[pos][y] = 0xFF
	}
}
