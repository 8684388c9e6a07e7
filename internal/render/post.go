package render

import "github.com/coreman2200/funtimes-ledmatrix/internal/vmath"

// Perceptual maps an unbounded shader value to a pixel: clamp to [0,1],
// square it (brightness perception is non-linear; this makes ramps look
// linear), then scale to 0..255.
func Perceptual(v float32) uint8 {
	v = vmath.Clamp01(v)
	v *= v
	return uint8(v * 255)
}

// Scale writes src attenuated by brightness (0..255) into dst.
// 255 copies, 0 blanks.
func Scale(dst, src *Grid, brightness uint8) {
	if brightness == 255 {
		*dst = *src
		return
	}
	if brightness == 0 {
		*dst = Grid{}
		return
	}
	b := uint16(brightness)
	for x := range src {
		for y := range src[x] {
			dst[x][y] = uint8((uint16(src[x][y])*b + 127) / 255)
		}
	}
}
