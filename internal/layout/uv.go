package layout

import "github.com/coreman2200/funtimes-ledmatrix/internal/vmath"

// CachedUV is the pair of coordinates a shader needs for one pixel.
//
//	UV       in [0,1]^2, x mirrored to match how the module is mounted
//	Centered (UV-0.5)*2 on x, ((UV.y-0.5)/AspectRatio)*2 on y
type CachedUV struct {
	UV       vmath.Vector2
	Centered vmath.Vector2
}

// UVs is indexed [x][y]. It is filled once at package init and must be
// treated as read-only.
var UVs = buildUVs()

func buildUVs() (out [Width][Height]CachedUV) {
	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			out[x][y] = uvFor(x, y)
		}
	}
	return out
}

func uvFor(x, y int) CachedUV {
	u := (float32(Width-1-x) + 0.5) / Width
	v := (float32(y) + 0.5) / Height
	return CachedUV{
		UV:       vmath.Vec2(u, v),
		Centered: Center(vmath.Vec2(u, v)),
	}
}

// Center converts a [0,1]^2 UV into the aspect-corrected centered space.
func Center(uv vmath.Vector2) vmath.Vector2 {
	return vmath.Vec2((uv.X-0.5)*2, ((uv.Y-0.5)/AspectRatio)*2)
}

// At returns the cached pair for a pixel. Out of range coordinates return
// the zero value.
func At(x, y int) CachedUV {
	if !InBounds(x, y) {
		return CachedUV{}
	}
	return UVs[x][y]
}
