// Package math provides the small vector and scalar kernels shared by the
// cage and subdivision packages, plus the packed UV codec.
package math

import "math"

// Vec2 is a 2D vector. It is used for texture coordinates.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Lerp returns v + u * (other - v).
func (v Vec2) Lerp(other Vec2, u float32) Vec2 {
	return Vec2{Lerp(v.X, other.X, u), Lerp(v.Y, other.Y, u)}
}

// Array returns the components as a fixed-size array.
func (v Vec2) Array() [2]float32 {
	return [2]float32{v.X, v.Y}
}
