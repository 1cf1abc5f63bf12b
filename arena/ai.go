package arena

import (
	"github.com/goggledefogger/smugglers-town/arena/physics"
	"github.com/goggledefogger/smugglers-town/arena/shared"
)

// aiTarget picks an AI agent's seek target for this tick, in priority
// order: deliver what it carries, grab the nearest loose item, chase
// the nearest opposing carrier. With nothing to do the agent coasts to
// a stop.
func (r *Room) aiTarget(a *Agent) (physics.Point, bool) {
	if r.isCarrying(a.ID) {
		if base, ok := r.cfg.baseFor(a.Team); ok {
			return physics.Point{X: base.X, Y: base.Y}, true
		}
		return physics.Point{}, false
	}

	if p, ok := r.nearestLooseItem(a); ok {
		return p, true
	}
	if p, ok := r.nearestOpposingCarrier(a); ok {
		return p, true
	}
	return physics.Point{}, false
}

func (r *Room) isCarrying(agentID string) bool {
	for _, it := range r.items {
		if it.Status == ItemCarried && it.CarrierID == agentID {
			return true
		}
	}
	return false
}

func (r *Room) nearestLooseItem(a *Agent) (physics.Point, bool) {
	best := -1.0
	var target physics.Point
	for _, it := range r.items {
		if it.Status != ItemAvailable && it.Status != ItemDropped {
			continue
		}
		d2 := shared.Dist2(a.X, a.Y, it.X, it.Y)
		if best < 0 || d2 < best {
			best = d2
			target = physics.Point{X: it.X, Y: it.Y}
		}
	}
	return target, best >= 0
}

func (r *Room) nearestOpposingCarrier(a *Agent) (physics.Point, bool) {
	best := -1.0
	var target physics.Point
	for _, id := range r.order {
		other, ok := r.agents[id]
		if !ok || other.Team == a.Team || !r.isCarrying(other.ID) {
			continue
		}
		d2 := shared.Dist2(a.X, a.Y, other.X, other.Y)
		if best < 0 || d2 < best {
			best = d2
			target = physics.Point{X: other.X, Y: other.Y}
		}
	}
	return target, best >= 0
}
