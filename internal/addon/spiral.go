package addon

import "github.com/coreman2200/funtimes-ledmatrix/internal/vmath"

const spiralWinding = 5.0

// SpiralFunc is a radial spiral rotating with time. It ignores keypresses.
func SpiralFunc(_ *Frame, _, centered vmath.Vector2, time float32) float32 {
	length := centered.Length()
	angle := vmath.Atan2(centered.Y, centered.X)
	return vmath.Sin(angle + length*spiralWinding - time*0.1)
}
