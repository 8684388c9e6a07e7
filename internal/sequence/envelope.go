package sequence

import (
	"github.com/tanema/gween/ease"
)

var easings = map[string]ease.TweenFunc{
	"":       ease.Linear,
	"linear": ease.Linear,
	"smooth": ease.InOutQuad,
	"cubic":  ease.InOutCubic,
}

func easeFunc(kind string) ease.TweenFunc {
	if f, ok := easings[kind]; ok {
		return f
	}
	return ease.Linear
}

// Eval returns the value of the envelope at time t (seconds).
// If there are no keys, returns 0; if one key, returns its value.
// Keys must be sorted by T ascending.
func (e Envelope) Eval(t float64) float64 {
	n := len(e.Keys)
	if n == 0 {
		return 0
	}
	if t <= e.Keys[0].T {
		return e.Keys[0].V
	}
	if t >= e.Keys[n-1].T {
		return e.Keys[n-1].V
	}
	for i := 0; i < n-1; i++ {
		a, b := e.Keys[i], e.Keys[i+1]
		if t < a.T || t > b.T {
			continue
		}
		den := b.T - a.T
		if den <= 0 {
			return b.V
		}
		f := easeFunc(a.Ease)
		return float64(f(float32(t-a.T), float32(a.V), float32(b.V-a.V), float32(den)))
	}
	return e.Keys[n-1].V
}
