// Package term previews the matrix in a terminal with tcell and turns
// keyboard input into keypresses.
package term

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
)

// CellWidth is how many terminal columns one LED takes; two keeps the
// pixels roughly square.
const CellWidth = 2

var (
	DefaultOff  = colorful.Color{R: 0.08, G: 0.08, B: 0.08}
	DefaultTint = colorful.Color{R: 1, G: 0.93, B: 0.8}
)

type Options struct {
	// X0, Y0 place the panel's top-left corner on screen.
	X0, Y0 int
	// Off is the color of a dark LED, Tint the color of a fully lit one.
	Off, Tint colorful.Color
	// Throttle drops frames arriving faster than this.
	Throttle time.Duration
}

// Driver draws frames onto a tcell screen. Several drivers can share one
// screen at different origins.
type Driver struct {
	mu       sync.Mutex
	screen   tcell.Screen
	opts     Options
	lastEmit time.Time
	palette  [256]tcell.Color
}

func New(screen tcell.Screen, opts Options) *Driver {
	if opts.Off == (colorful.Color{}) && opts.Tint == (colorful.Color{}) {
		opts.Off, opts.Tint = DefaultOff, DefaultTint
	}
	d := &Driver{screen: screen, opts: opts}
	for i := range d.palette {
		d.palette[i] = Blend(opts.Off, opts.Tint, uint8(i))
	}
	return d
}

// Blend maps an LED level to a terminal color. Mixing happens in linear RGB
// so mid levels look like a dimmed LED rather than grey.
func Blend(off, tint colorful.Color, level uint8) tcell.Color {
	c := off.BlendLinearRgb(tint, float64(level)/255).Clamped()
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func (d *Driver) Write(g *render.Grid, brightness uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	if d.opts.Throttle > 0 && d.lastEmit.Add(d.opts.Throttle).After(now) {
		return nil
	}
	d.lastEmit = now

	var scaled render.Grid
	render.Scale(&scaled, g, brightness)
	for x := 0; x < layout.Width; x++ {
		for y := 0; y < layout.Height; y++ {
			st := tcell.StyleDefault.Foreground(d.palette[scaled[x][y]])
			for c := 0; c < CellWidth; c++ {
				d.screen.SetContent(d.opts.X0+x*CellWidth+c, d.opts.Y0+y, '█', nil, st)
			}
		}
	}
	d.screen.Show()
	return nil
}

// Close leaves the screen to its owner.
func (d *Driver) Close() error { return nil }
