package arena

import (
	"github.com/goggledefogger/smugglers-town/arena/physics"
)

// runRules applies the gameplay rules on this tick's settled positions.
// Pickups run first so a freshly grabbed item can be stolen or scored
// no earlier than the next tick.
func (r *Room) runRules() {
	r.checkPickups()
	r.checkScoring()
	r.checkCollisions()
}

// checkPickups awards at most one pickup per tick. Agents are scanned
// in join order and the first agent-item pair in range wins, so
// contested pickups resolve deterministically.
func (r *Room) checkPickups() {
	for _, id := range r.order {
		a, ok := r.agents[id]
		if !ok {
			continue
		}
		for _, it := range r.items {
			if it.Status != ItemAvailable && it.Status != ItemDropped {
				continue
			}
			if !physics.WithinRadius(a.X, a.Y, it.X, it.Y, r.cfg.PickupRadius) {
				continue
			}
			it.Status = ItemCarried
			it.CarrierID = a.ID
			it.X = a.X
			it.Y = a.Y
			r.log.Info("item picked up", "item", it.ID, "agent", a.ID)
			return
		}
	}
}

// checkScoring delivers carried items. The test point is the carrier's
// front point, so an agent must face into its own base; each delivered
// item scores one point and snaps to the base center.
func (r *Room) checkScoring() {
	for _, id := range r.order {
		a, ok := r.agents[id]
		if !ok {
			continue
		}
		base, ok := r.cfg.baseFor(a.Team)
		if !ok {
			continue
		}
		fx, fy := physics.FrontPoint(a.X, a.Y, a.Heading, r.cfg.AgentRadius)
		if !physics.WithinRadius(fx, fy, base.X, base.Y, r.cfg.BaseRadius) {
			continue
		}
		for _, it := range r.items {
			if it.Status != ItemCarried || it.CarrierID != a.ID {
				continue
			}
			it.Status = ItemScored
			it.CarrierID = ""
			it.X = base.X
			it.Y = base.Y
			switch a.Team {
			case TeamRed:
				r.redScore++
			case TeamBlue:
				r.blueScore++
			}
			r.log.Info("item scored", "item", it.ID, "agent", a.ID, "team", a.Team)
		}
	}
}

// checkCollisions resolves agent-agent contacts pairwise in join order.
// Each colliding pair receives one equal-and-opposite impulse, and a
// contact may additionally transfer one carried item when its steal
// cooldown has elapsed. Transfers are not restricted to opposing teams;
// ramming a teammate takes their cargo too.
func (r *Room) checkCollisions() {
	offset := r.cfg.AgentRadius / 2
	for i := 0; i < len(r.order); i++ {
		a, ok := r.agents[r.order[i]]
		if !ok {
			continue
		}
		for j := i + 1; j < len(r.order); j++ {
			b, ok := r.agents[r.order[j]]
			if !ok {
				continue
			}
			ax, ay := physics.FrontPoint(a.X, a.Y, a.Heading, offset)
			bx, by := physics.FrontPoint(b.X, b.Y, b.Heading, offset)
			hit, ok := physics.CheckPair(ax, ay, bx, by, r.cfg.CollisionRadius)
			if !ok {
				continue
			}
			imp := r.cfg.CollisionImpulse
			a.VX += hit.NX * imp
			a.VY += hit.NY * imp
			b.VX -= hit.NX * imp
			b.VY -= hit.NY * imp

			r.trySteal(a, b)
		}
	}
}

// trySteal transfers at most one carried item between a colliding pair.
// The first item of either agent whose cooldown has elapsed moves to
// the other agent and restarts its cooldown.
func (r *Room) trySteal(a, b *Agent) {
	now := r.getTime()
	cooldown := r.cfg.StealCooldown.Milliseconds()
	for _, it := range r.items {
		if it.Status != ItemCarried {
			continue
		}
		var thief *Agent
		switch it.CarrierID {
		case a.ID:
			thief = b
		case b.ID:
			thief = a
		default:
			continue
		}
		if now < it.LastStealMs+cooldown {
			continue
		}
		victim := it.CarrierID
		it.CarrierID = thief.ID
		it.X = thief.X
		it.Y = thief.Y
		it.LastStealMs = now
		r.log.Info("item stolen", "item", it.ID, "from", victim, "to", thief.ID)
		return
	}
}
