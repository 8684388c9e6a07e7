// Package vmath holds the float helpers the animation kernels run on:
// a bit-twiddled sine, a stateless hash RNG and a few shading utilities.
// Nothing here allocates, and every function is total over its input.
package vmath

import "math"

const (
	Pi    = float32(math.Pi)
	TwoPi = float32(2 * math.Pi)
)

// Parabolic sine fit (4/pi x - 4/pi^2 x|x|) refined with a second pass
// y(Q + P|y|). Max error is around 0.1%.
const (
	fourOverPi   = 1.2732395447351627
	fourOverPiSq = 0.40528473456935109
	sinQ         = 0.77633023248007499
	sinP         = 0.22308510060189463

	signBit = 0x80000000
)

// Sin approximates sin(x). The argument is reduced modulo 2pi and folded
// into [-pi, pi]; the sign of the refinement term is taken from the IEEE-754
// sign bit instead of a branch. NaN and infinities map to 0.
//
// Arguments in (pi, 2pi) are evaluated as x-2pi. A bare x mod 2pi reduction
// feeds them to the parabola unfolded and gives different, less accurate,
// values there.
func Sin(x float32) float32 {
	if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
		return 0
	}
	x = float32(math.Mod(float64(x), float64(TwoPi)))
	if x > Pi {
		x -= TwoPi
	} else if x < -Pi {
		x += TwoPi
	}

	v := math.Float32bits(x)
	sign := v & signBit
	abs := math.Float32frombits(v &^ signBit)

	approx := fourOverPi*x - fourOverPiSq*x*abs
	p := math.Float32frombits(math.Float32bits(sinP) | sign)

	return approx * (sinQ + p*approx)
}

// Rand hashes seed into a float in [0, 1). It keeps no state, so the same
// seed always gives the same value.
func Rand(seed uint32) float32 {
	x := seed * 0x9E3779B9

	x ^= x >> 16
	x *= 0x85EBCA6B
	x ^= x >> 13
	x *= 0xC2B2AE35
	x ^= x >> 16

	// top 23 bits become the mantissa of a float in [1, 2)
	bits := x>>9 | 0x3F800000
	return math.Float32frombits(bits) - 1
}

func Clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Smoothstep is the classic 3x^2 - 2x^3 ramp between edge0 and edge1.
func Smoothstep(edge0, edge1, x float32) float32 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func Abs(x float32) float32 {
	return math.Float32frombits(math.Float32bits(x) &^ signBit)
}

func Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func Atan2(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}
