package math

import "math"

// Pi is the float32 circle constant.
const Pi = float32(math.Pi)

// Lerp returns the linear interpolation between a and b at t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Abs returns the absolute value of v.
func Abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// WrapAngle wraps an angle into (-Pi, Pi].
func WrapAngle(a float32) float32 {
	for a > Pi {
		a -= 2 * Pi
	}
	for a <= -Pi {
		a += 2 * Pi
	}
	return a
}

// LerpAngle interpolates between two angles along the shortest arc.
func LerpAngle(a, b, t float32) float32 {
	return a + WrapAngle(b-a)*t
}

// Sqrt returns the float32 square root of v.
func Sqrt(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

// Sin returns the float32 sine of v.
func Sin(v float32) float32 {
	return float32(math.Sin(float64(v)))
}

// Cos returns the float32 cosine of v.
func Cos(v float32) float32 {
	return float32(math.Cos(float64(v)))
}

// Atan2 returns the float32 arc tangent of y/x.
func Atan2(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}

// Acos returns the float32 arc cosine of v, clamping v into [-1, 1] first.
func Acos(v float32) float32 {
	return float32(math.Acos(float64(Clamp(v, -1, 1))))
}

// Pow returns base**exp in float32.
func Pow(base, exp float32) float32 {
	return float32(math.Pow(float64(base), float64(exp)))
}

// Mod returns the floating-point remainder of a/b with the sign of a.
func Mod(a, b float32) float32 {
	return float32(math.Mod(float64(a), float64(b)))
}
