package addon

import "github.com/coreman2200/funtimes-ledmatrix/internal/vmath"

const (
	helixFreq      = 3 * vmath.Pi // 1.5 turns over the panel height
	helixSpeed     = 0.1
	helixAmplitude = 0.35
	helixThickness = 0.14
)

// HelixFunc draws two antiphase strands winding up the panel. The strand in
// front is drawn at full intensity; the one behind fades with the cube of its
// distance from the center so it disappears where the strands cross.
func HelixFunc(_ *Frame, uv, _ vmath.Vector2, time float32) float32 {
	phase := uv.Y*helixFreq + time*helixSpeed
	offset := vmath.Sin(phase) * helixAmplitude
	leftOffset := vmath.Sin(phase + vmath.Pi/2)

	a := strand(uv.X, 0.5+offset)
	b := strand(uv.X, 0.5-offset)

	depth := vmath.Clamp01(vmath.Abs(offset) / helixAmplitude)
	back := depth * depth * depth

	if leftOffset >= 0 {
		return vmath.Max(a, b*back)
	}
	return vmath.Max(a*back, b)
}

func strand(x, center float32) float32 {
	return 1 - vmath.Smoothstep(0, helixThickness, vmath.Abs(x-center))
}
