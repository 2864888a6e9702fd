package common

import "math"

// Radians converts BulletML degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians back to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// WrapAngle maps an angle in radians into [-Pi, Pi).
func WrapAngle(a float64) float64 {
	if a >= -math.Pi && a < math.Pi {
		return a
	}
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// AimAngle returns the BulletML direction (0 up, clockwise) from one point to
// another in screen space where y grows downward.
func AimAngle(fromX, fromY, toX, toY float64) float64 {
	return math.Atan2(toX-fromX, fromY-toY)
}
