package math

import "math"

// uvScale is the number of quantization steps per UV axis.
const uvScale = 65535

// EncodeUV packs a texture coordinate into one word, 16 bits per axis.
// Components are clamped to [0, 1] and rounded to the nearest step, so
// DecodeUV(EncodeUV(uv)) is within 1/65535 of uv.
func EncodeUV(uv Vec2) uint32 {
	u := uint32(math.Round(float64(Sat(uv.X)) * uvScale))
	v := uint32(math.Round(float64(Sat(uv.Y)) * uvScale))

	return (u & 0xFFFF) | (v&0xFFFF)<<16
}

// DecodeUV unpacks a word produced by EncodeUV.
func DecodeUV(word uint32) Vec2 {
	return Vec2{
		X: float32((word>>0)&0xFFFF) / uvScale,
		Y: float32((word>>16)&0xFFFF) / uvScale,
	}
}
