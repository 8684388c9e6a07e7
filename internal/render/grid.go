package render

import (
	"image"

	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
)

// Grid is one frame of 8-bit intensities, indexed [x][y].
type Grid [layout.Width][layout.Height]uint8

// Rotate cyclically shifts every column down by n rows. Negative n shifts up.
func (g *Grid) Rotate(n int) {
	n %= layout.Height
	if n < 0 {
		n += layout.Height
	}
	if n == 0 {
		return
	}
	for x := range g {
		var col [layout.Height]uint8
		for y := 0; y < layout.Height; y++ {
			col[(y+n)%layout.Height] = g[x][y]
		}
		g[x] = col
	}
}

func (g *Grid) Fill(v uint8) {
	for x := range g {
		for y := range g[x] {
			g[x][y] = v
		}
	}
}

// Lit counts pixels with a non-zero intensity.
func (g *Grid) Lit() int {
	n := 0
	for x := range g {
		for y := range g[x] {
			if g[x][y] > 0 {
				n++
			}
		}
	}
	return n
}

// Image returns the frame as a Width x Height grayscale image.
func (g *Grid) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, layout.Width, layout.Height))
	for x := 0; x < layout.Width; x++ {
		for y := 0; y < layout.Height; y++ {
			img.Pix[y*img.Stride+x] = g[x][y]
		}
	}
	return img
}

// Bytes flattens the grid column-major (x*Height + y).
func (g *Grid) Bytes() []byte {
	out := make([]byte, 0, layout.Count)
	for x := range g {
		out = append(out, g[x][:]...)
	}
	return out
}

// GridFromBytes is the inverse of Bytes. Short input leaves the tail dark.
func GridFromBytes(b []byte) Grid {
	var g Grid
	for i := 0; i < len(b) && i < layout.Count; i++ {
		g[i/layout.Height][i%layout.Height] = b[i]
	}
	return g
}
