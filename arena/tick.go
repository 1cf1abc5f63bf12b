package arena

import (
	"github.com/goggledefogger/smugglers-town/arena/geo"
	"github.com/goggledefogger/smugglers-town/arena/physics"
)

// step advances the simulation by delta seconds. Phase order matters:
// movement consumes the road prediction written during the previous
// tick, then this tick's lookahead points are dispatched so the answer
// is ready one tick later, then the rules run on the settled positions.
func (r *Room) step(delta float64) {
	if delta > r.cfg.MaxTickDelta {
		r.log.Warn("oversize tick delta, skipping", "delta", delta)
		return
	}
	r.tickSeq++

	r.countdown -= delta
	if r.countdown < 0 {
		r.countdown = 0
	}

	tuning := r.cfg.tuning()
	lookaheads := make(map[string]physics.Point, len(r.order))

	for _, id := range r.order {
		a, ok := r.agents[id]
		if !ok {
			continue
		}
		a.OnRoad = r.predictor.Consume(id)

		var la physics.Point
		if a.Controller == ControlHuman {
			in := r.inputs[id]
			la = physics.StepHuman(&a.Body, in.X, in.Y, a.OnRoad, delta, tuning)
		} else {
			target, hasTarget := r.aiTarget(a)
			la = physics.StepSeek(&a.Body, target, hasTarget, a.OnRoad, delta, tuning,
				r.cfg.AISpeedMultiplier, r.cfg.AIAccelMultiplier)
		}
		lookaheads[id] = la
	}

	// Dispatch road queries for agents whose throttle window elapsed.
	// A failed geographic conversion resets the throttle and leaves the
	// previous prediction in place.
	for id, la := range lookaheads {
		if !r.predictor.Due(id) {
			continue
		}
		lat, lng, err := geo.ToGeographic(r.cfg.Origin, la.X, la.Y)
		if err != nil {
			r.predictor.ResetThrottle(id)
			continue
		}
		r.predictor.Dispatch(id, lng, lat)
	}

	r.runRules()
	r.syncCarried()

	if r.allScored() {
		r.resetRound()
	}
}

// syncCarried pins every carried item to its carrier's position. An
// item whose carrier no longer exists is dropped where it sits; the
// previous sync already placed it at the carrier's last position.
func (r *Room) syncCarried() {
	for _, it := range r.items {
		if it.Status != ItemCarried {
			continue
		}
		carrier, ok := r.agents[it.CarrierID]
		if !ok {
			it.Status = ItemDropped
			it.CarrierID = ""
			continue
		}
		it.X = carrier.X
		it.Y = carrier.Y
	}
}

func (r *Room) allScored() bool {
	if len(r.items) == 0 {
		return false
	}
	for _, it := range r.items {
		if it.Status != ItemScored {
			return false
		}
	}
	return true
}
