// Package led pushes matrix frames to hardware.
package led

import (
	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
)

// Driver abstracts an LED output sink.
type Driver interface {
	// Write shows g with every pixel scaled by brightness/255.
	Write(g *render.Grid, brightness uint8) error
	// Close blanks the LEDs and releases resources.
	Close() error
}

// Encode appends the RGB byte stream for g to dst in chain order. The
// matrix LEDs are white, so each pixel is written on all three channels.
func Encode(dst []byte, g *render.Grid, brightness uint8, wiring layout.Serpentine) []byte {
	var scaled render.Grid
	render.Scale(&scaled, g, brightness)

	n := len(dst)
	if cap(dst)-n < layout.Count*3 {
		grown := make([]byte, n, n+layout.Count*3)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:n+layout.Count*3]
	out := dst[n:]
	for x := 0; x < layout.Width; x++ {
		for y := 0; y < layout.Height; y++ {
			i := wiring.Index(x, y) * 3
			v := scaled[x][y]
			out[i], out[i+1], out[i+2] = v, v, v
		}
	}
	return dst
}
