package shared

import "math"

// Vec2 is a 2D vector in local world meters.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Len returns the vector magnitude.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalized returns a unit-length copy, or the zero vector for zero input.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Dist2 returns the squared distance between two points.
func Dist2(ax, ay, bx, by float64) float64 {
	dx := ax - bx
	dy := ay - by
	return dx*dx + dy*dy
}

// NormalizeAngle wraps an angle to the range (-π, π].
func NormalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 2*math.Pi)
	if angle > math.Pi {
		angle -= 2 * math.Pi
	} else if angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// TurnToward rotates current toward target along the shortest arc,
// moving at most maxDelta radians.
func TurnToward(current, target, maxDelta float64) float64 {
	diff := NormalizeAngle(target - current)
	if math.Abs(diff) <= maxDelta {
		return NormalizeAngle(target)
	}
	if diff > 0 {
		return NormalizeAngle(current + maxDelta)
	}
	return NormalizeAngle(current - maxDelta)
}
