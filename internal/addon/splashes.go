package addon

import "github.com/coreman2200/funtimes-ledmatrix/internal/vmath"

// SplashesFunc draws a ripple around each live keypress from this side of
// the keyboard. Overlapping ripples do not add up; the brightest wins.
func SplashesFunc(f *Frame, _, centered vmath.Vector2, time float32) float32 {
	if f == nil || f.MaxLife == 0 {
		return 0
	}
	var ret float32
	for i := range f.Keypresses {
		kp := &f.Keypresses[i]
		if !kp.Alive || kp.Side != f.Side {
			continue
		}
		length := SplashOffset(centered, kp).Length()

		life := float32(kp.Life) / float32(f.MaxLife)
		radius := life * 1.5
		if length > radius {
			continue
		}

		ret = vmath.Max(ret, vmath.Abs(vmath.Sin(length*2-life*5-time*0.1))*(radius-length))
	}
	return ret
}

// SplashOffset moves a centered pixel coordinate into the splash's frame:
// up to +-3 on y and +-0.5 on x.
func SplashOffset(centered vmath.Vector2, kp *VisualKeypress) vmath.Vector2 {
	p := centered
	p.Y += kp.Rand0*6 - 3
	p.X += kp.Rand1 - 0.5
	return p
}
