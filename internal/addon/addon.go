// Package addon implements the procedural, keypress-reactive animations:
// per-pixel shader functions evaluated over the cached UV table.
package addon

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
	"github.com/coreman2200/funtimes-ledmatrix/internal/vmath"
)

var ErrUnknownAnimation = errors.New("unknown addon animation")

// Animation selects a shader. Values match the command byte used by hosts.
type Animation uint8

const (
	Spiral   Animation = 0x00
	Splashes Animation = 0x01
	Helix    Animation = 0x02
)

// Frame is the slice of device state a shader may read.
type Frame struct {
	Timer      uint32
	Side       Side
	Keypresses []VisualKeypress
	// MaxLife is the life a keypress starts with; used to normalize Life.
	MaxLife uint8
}

// Func maps one pixel to an unbounded intensity.
type Func func(f *Frame, uv, centered vmath.Vector2, time float32) float32

var registry = []struct {
	anim Animation
	name string
	fn   Func
}{
	{Spiral, "spiral", SpiralFunc},
	{Splashes, "splashes", SplashesFunc},
	{Helix, "helix", HelixFunc},
}

func (a Animation) Func() Func {
	for _, r := range registry {
		if r.anim == a {
			return r.fn
		}
	}
	return nil
}

func (a Animation) String() string {
	for _, r := range registry {
		if r.anim == a {
			return r.name
		}
	}
	return fmt.Sprintf("addon(%#02x)", uint8(a))
}

func (a Animation) Valid() bool { return a.Func() != nil }

// Parse accepts an animation name or its numeric id.
func Parse(name string) (Animation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range registry {
		if r.name == name || fmt.Sprint(uint8(r.anim)) == name {
			return r.anim, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAnimation, name)
}

func Names() []string {
	out := make([]string, 0, len(registry))
	for _, r := range registry {
		out = append(out, r.name)
	}
	return out
}

// Draw evaluates a over every pixel of the panel into dst.
func Draw(f *Frame, a Animation, dst *render.Grid) {
	fn := a.Func()
	if fn == nil {
		*dst = render.Grid{}
		return
	}
	time := float32(f.Timer)
	for x := 0; x < layout.Width; x++ {
		for y := 0; y < layout.Height; y++ {
			c := &layout.UVs[x][y]
			dst[x][y] = render.Perceptual(fn(f, c.UV, c.Centered, time))
		}
	}
}
