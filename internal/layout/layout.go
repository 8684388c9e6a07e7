// Package layout describes the 9x34 LED matrix geometry: the pixel grid
// dimensions, the precomputed per-pixel UV table the shaders read, and the
// mapping from (x, y) to the physical LED index on the data chain.
package layout

const (
	Width  = 9
	Height = 34
	Count  = Width * Height

	// AspectRatio is Width/Height; centered UVs divide y by it so a circle
	// in UV space is a circle on the panel.
	AspectRatio = float32(Width) / float32(Height)
)

// Serpentine holds wiring flips. Extend as needed.
type Serpentine struct {
	FlipEveryColumn bool
}

// Index maps x,y -> linear LED index (0..Count-1). LEDs are chained column
// by column; with FlipEveryColumn odd columns run bottom to top.
func (s Serpentine) Index(x, y int) int {
	yy := y
	if s.FlipEveryColumn && x%2 == 1 {
		yy = Height - 1 - y
	}
	return x*Height + yy
}

func InBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}
