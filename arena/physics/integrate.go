// Package physics holds the pure movement and collision math for the
// arena simulation: the per-tick movement integrator shared by human and
// AI agents, and the squared-distance collision helpers used by the
// rules engine. Nothing in here touches room state; the room calls in
// with a Body and copies the result out.
package physics

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/goggledefogger/smugglers-town/arena/shared"
)

// Body is the mutable movement state of one agent. The embedded JSON
// tags let the room replicate it directly inside its agent snapshot.
type Body struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VX        float64 `json:"vx"`
	VY        float64 `json:"vy"`
	Heading   float64 `json:"heading"`
	JustReset bool    `json:"justReset"`
}

// Tuning carries the integrator constants. One Tuning is shared by all
// agents in a room; AI speed/acceleration multipliers are applied per
// call, not stored here.
type Tuning struct {
	MaxSpeed        float64
	RoadMultiplier  float64
	Acceleration    float64
	Friction        float64 // per-second velocity retention base, in (0,1)
	TurnRate        float64 // radians per second
	LookaheadFactor float64
	Hazard          Rect
}

// Point is a world position, used for lookahead and AI targets.
type Point struct {
	X, Y float64
}

// StepHuman advances a body by one tick of player steering. The input
// vector is the raw client intent; it is clamped to unit length here
// because the wire value is unvalidated. onRoad is the previous tick's
// predicted road status. The returned point is the lookahead position
// for the road predictor and has no effect on the body itself.
func StepHuman(b *Body, dx, dy float64, onRoad bool, dt float64, t Tuning) Point {
	if !isFinite(dx) || !isFinite(dy) {
		log.Warn("non-finite movement input, treating as idle", "dx", dx, "dy", dy)
		dx, dy = 0, 0
	}
	dir := shared.Vec2{X: dx, Y: dy}
	if dir.Len() > 1 {
		dir = dir.Normalized()
	}
	return step(b, dir, onRoad, dt, t, 1, 1)
}

// StepSeek advances a body toward a world-space target, used for
// AI-controlled agents. Heading turns toward the movement direction.
// speedMult and accelMult scale the shared tuning for AI balance.
// With hasTarget false the body decelerates in place.
func StepSeek(b *Body, target Point, hasTarget bool, onRoad bool, dt float64, t Tuning, speedMult, accelMult float64) Point {
	var dir shared.Vec2
	if hasTarget {
		dir = shared.Vec2{X: target.X - b.X, Y: target.Y - b.Y}.Normalized()
	}
	return step(b, dir, onRoad, dt, t, speedMult, accelMult)
}

// step is the canonical integrator: exponential-decay friction combined
// with a capped linear blend toward the target velocity.
func step(b *Body, dir shared.Vec2, onRoad bool, dt float64, t Tuning, speedMult, accelMult float64) Point {
	b.JustReset = false

	speedLimit := t.MaxSpeed * speedMult
	if onRoad {
		speedLimit *= t.RoadMultiplier
	}
	targetVX := dir.X * speedLimit
	targetVY := dir.Y * speedLimit

	decay := math.Pow(t.Friction, dt)
	b.VX *= decay
	b.VY *= decay

	blend := 1.0
	if speedLimit > 0 {
		blend = math.Min(t.Acceleration*accelMult*dt/speedLimit, 1)
	}
	b.VX += (targetVX - b.VX) * blend
	b.VY += (targetVY - b.VY) * blend

	if !isFinite(b.VX) || !isFinite(b.VY) {
		log.Warn("non-finite velocity recovered", "vx", b.VX, "vy", b.VY)
		b.VX, b.VY = 0, 0
	}

	// Turn toward the direction of travel; an idle body keeps facing
	// the way it was going.
	steer := dir
	if steer.Len() == 0 {
		steer = shared.Vec2{X: b.VX, Y: b.VY}
	}
	if steer.Len() > 1e-6 {
		targetHeading := math.Atan2(steer.Y, steer.X)
		next := shared.TurnToward(b.Heading, targetHeading, t.TurnRate*dt)
		if isFinite(next) {
			b.Heading = next
		} else {
			log.Warn("non-finite heading held at previous value", "heading", next)
		}
	}

	b.X += b.VX * dt
	b.Y += b.VY * dt

	if t.Hazard.Contains(b.X, b.Y) {
		b.X, b.Y = 0, 0
		b.VX, b.VY = 0, 0
		b.JustReset = true
	}

	return Point{
		X: b.X + b.VX*dt*t.LookaheadFactor,
		Y: b.Y + b.VY*dt*t.LookaheadFactor,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
