package math

// Lerp returns x + u * (y - x).
func Lerp(x, y, u float32) float32 {
	return x + u*(y-x)
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	return Maxf(lo, Minf(x, hi))
}

// Sat clamps x to [0, 1].
func Sat(x float32) float32 {
	return Clamp(x, 0, 1)
}

// Sign returns -1, 0 or +1.
func Sign(x float32) float32 {
	if x < 0 {
		return -1
	} else if x > 0 {
		return +1
	}
	return 0
}

// Minf returns the smaller of x and y.
func Minf(x, y float32) float32 {
	if x < y {
		return x
	}
	return y
}

// Maxf returns the larger of x and y.
func Maxf(x, y float32) float32 {
	if x > y {
		return x
	}
	return y
}

// Max returns the larger of two ids.
func Max(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
