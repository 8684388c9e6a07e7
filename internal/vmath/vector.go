package vmath

import "math"

// Vector2 is a 2D float vector used for per-pixel shading math.
type Vector2 struct{ X, Y float32 }

func Vec2(x, y float32) Vector2 { return Vector2{X: x, Y: y} }

func (v Vector2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

func (v Vector2) LengthSq() float32 { return v.X*v.X + v.Y*v.Y }

func (v Vector2) Scale(s float32) Vector2 { return Vector2{v.X * s, v.Y * s} }

// Div divides both components by s. Division by zero yields the zero vector.
func (v Vector2) Div(s float32) Vector2 {
	if s == 0 {
		return Vector2{}
	}
	return Vector2{v.X / s, v.Y / s}
}

func (v Vector2) Add(o Vector2) Vector2 { return Vector2{v.X + o.X, v.Y + o.Y} }

// Normalized returns a unit vector in the direction of v, or the zero vector
// when v has no length.
func (v Vector2) Normalized() Vector2 {
	return v.Div(v.Length())
}
