package arena

import (
	"fmt"
	"math"

	"github.com/goggledefogger/smugglers-town/arena/geo"
)

// resetRound replaces the item set with a fresh spread around the world
// origin. Agents, scores and the countdown are untouched; the round
// rolls over mid-game when every item has been delivered.
func (r *Room) resetRound() {
	items := make([]*Item, 0, r.cfg.ItemCount)
	for i := 0; i < r.cfg.ItemCount; i++ {
		r.itemSeq++
		angle := r.rng.Float64() * 2 * math.Pi
		dist := r.rng.Float64() * r.cfg.ItemSpawnRadius
		items = append(items, &Item{
			ID:     fmt.Sprintf("item-%d", r.itemSeq),
			Status: ItemAvailable,
			X:      math.Cos(angle) * dist,
			Y:      math.Sin(angle) * dist,
		})
	}
	r.items = items
	r.log.Info("round reset", "items", len(items))
}

// fullReset moves the world origin and restarts the game: scores and
// the countdown reset, every agent respawns at its base with zeroed
// motion, and all road predictions are discarded because the old
// geographic mapping no longer applies.
func (r *Room) fullReset(lat, lng float64) {
	r.cfg.Origin = geo.Origin{Lat: lat, Lng: lng}
	r.redScore = 0
	r.blueScore = 0
	r.countdown = r.cfg.CountdownSeconds

	for _, id := range r.order {
		a, ok := r.agents[id]
		if !ok {
			continue
		}
		base, ok := r.cfg.baseFor(a.Team)
		if ok {
			spread := r.cfg.AgentSpawnSpread
			a.X = base.X + (r.rng.Float64()*2-1)*spread
			a.Y = base.Y + (r.rng.Float64()*2-1)*spread
		}
		a.VX = 0
		a.VY = 0
		a.Heading = 0
		a.JustReset = false
		a.OnRoad = false
	}

	r.predictor.Clear()
	r.resetRound()
	r.log.Info("full reset", "lat", lat, "lng", lng)
}
