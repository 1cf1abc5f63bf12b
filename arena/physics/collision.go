package physics

import (
	"math"

	"github.com/goggledefogger/smugglers-town/arena/shared"
)

// Rect is an axis-aligned rectangle in world meters.
type Rect struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// FrontPoint returns the point offset from (x, y) along heading by dist.
// Scoring tests the carrier's front point against the base, so an agent
// has to actually face into its base to deliver.
func FrontPoint(x, y, heading, dist float64) (float64, float64) {
	return x + math.Cos(heading)*dist, y + math.Sin(heading)*dist
}

// WithinRadius reports whether two points are within radius of each
// other, using a squared-distance comparison.
func WithinRadius(ax, ay, bx, by, radius float64) bool {
	return shared.Dist2(ax, ay, bx, by) <= radius*radius
}

// PairCollision describes one agent-agent contact resolved this tick.
type PairCollision struct {
	// NX, NY is the unit normal pointing from b toward a.
	NX, NY float64
}

// CheckPair tests two offset collision points against the collision
// radius. The pair collides when the squared distance between the
// points lies in (0, 4·radius²]; exactly coincident points produce no
// usable normal and are ignored.
func CheckPair(ax, ay, bx, by, radius float64) (PairCollision, bool) {
	d2 := shared.Dist2(ax, ay, bx, by)
	limit := 4 * radius * radius
	if d2 <= 0 || d2 > limit {
		return PairCollision{}, false
	}
	d := math.Sqrt(d2)
	return PairCollision{NX: (ax - bx) / d, NY: (ay - by) / d}, true
}
