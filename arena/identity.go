package arena

import (
	"fmt"

	"github.com/goggledefogger/smugglers-town/utils"
)

// identityEntry is the sticky per-tab record that survives disconnects.
// Team never changes once assigned; SessionID is the live session bound
// to the tab, empty while the tab is away.
type identityEntry struct {
	Team      Team
	SessionID string
}

// sessionGen tracks a session's cleanup generation and the number of
// grace timers still in flight for it. The entry is pruned once the
// session is gone and no timer can fire anymore, so the map does not
// grow with every session the room has ever seen.
type sessionGen struct {
	gen     uint64
	pending int
}

func (r *Room) genFor(id string) *sessionGen {
	g, ok := r.gens[id]
	if !ok {
		g = &sessionGen{}
		r.gens[id] = g
	}
	return g
}

// pruneGen drops the generation entry when neither an agent nor a
// pending timer references the session.
func (r *Room) pruneGen(id string) {
	g, ok := r.gens[id]
	if !ok || g.pending > 0 {
		return
	}
	if _, live := r.agents[id]; !live {
		delete(r.gens, id)
	}
}

// join binds a session to the room and returns its team. A tab token
// that was seen before keeps its original team. When the token's mapped
// session is still present (grace window, or a duplicate tab) the
// earlier session keeps the tab binding; the new session plays on the
// stored team without taking the mapping over.
func (r *Room) join(sessionID, name, tabID string) Team {
	r.genFor(sessionID).gen++

	if a, ok := r.agents[sessionID]; ok {
		// Same session reconnected before its cleanup fired.
		r.log.Info("session rejoined", "session", sessionID)
		return a.Team
	}

	var team Team
	if entry, ok := r.identities[tabID]; tabID != "" && ok {
		team = entry.Team
		if _, live := r.agents[entry.SessionID]; !live {
			entry.SessionID = sessionID
			r.sessionTab[sessionID] = tabID
		} else {
			r.log.Info("tab already has a live session, keeping its binding",
				"tab", tabID, "session", entry.SessionID)
		}
	} else {
		team = r.balanceTeam()
		if tabID != "" {
			r.identities[tabID] = &identityEntry{Team: team, SessionID: sessionID}
			r.sessionTab[sessionID] = tabID
		}
	}

	a := r.spawnAgent(sessionID, name, team, ControlHuman)
	r.addAgent(a)
	r.log.Info("session joined", "session", sessionID, "name", name, "team", team)
	return team
}

// balanceTeam assigns the smaller team, Red on ties.
func (r *Room) balanceTeam() Team {
	var red, blue int
	for _, a := range r.agents {
		switch a.Team {
		case TeamRed:
			red++
		case TeamBlue:
			blue++
		}
	}
	if blue < red {
		return TeamBlue
	}
	return TeamRed
}

// spawnAgent places a fresh agent near its team base.
func (r *Room) spawnAgent(id, name string, team Team, controller ControllerKind) *Agent {
	a := &Agent{
		ID:         id,
		Name:       name,
		Team:       team,
		Controller: controller,
	}
	base, ok := r.cfg.baseFor(team)
	if ok {
		spread := r.cfg.AgentSpawnSpread
		a.X = base.X + (r.rng.Float64()*2-1)*spread
		a.Y = base.Y + (r.rng.Float64()*2-1)*spread
	}
	return a
}

// leave removes a session. Graceful leaves clean up immediately; a
// dropped connection gets a grace window so a quick reconnect keeps the
// agent in place. The scheduled timer carries the session generation so
// a reconnect-then-redisconnect cannot be cleaned by a stale timer.
func (r *Room) leave(sessionID string, graceful bool) {
	if _, ok := r.agents[sessionID]; !ok {
		return
	}
	if graceful {
		r.log.Info("session left", "session", sessionID)
		r.cleanupSession(sessionID)
		return
	}
	g := r.genFor(sessionID)
	g.pending++
	gen := g.gen
	r.log.Info("session dropped, scheduling cleanup", "session", sessionID, "after", r.cfg.GraceDelay)
	r.afterFunc(r.cfg.GraceDelay, func() {
		r.Enqueue(cleanupMsg{SessionID: sessionID, Gen: gen})
	})
}

func (r *Room) handleDeferredCleanup(m cleanupMsg) {
	g, ok := r.gens[m.SessionID]
	if !ok {
		return
	}
	g.pending--
	if g.gen != m.Gen {
		r.log.Debug("stale cleanup timer ignored", "session", m.SessionID)
		r.pruneGen(m.SessionID)
		return
	}
	r.cleanupSession(m.SessionID)
}

// cleanupSession fully removes a session's agent: carried items drop in
// place, the tab identity keeps its team but loses its live session,
// and any pending cleanup timer is invalidated. When the last human is
// gone the AI agents are removed too.
func (r *Room) cleanupSession(sessionID string) {
	a, ok := r.agents[sessionID]
	if !ok {
		return
	}
	r.dropCarriedBy(a)
	r.removeAgent(sessionID)
	delete(r.inputs, sessionID)
	r.predictor.Remove(sessionID)
	if g, ok := r.gens[sessionID]; ok {
		g.gen++
	}
	r.pruneGen(sessionID)

	if tab, ok := r.sessionTab[sessionID]; ok {
		if entry, ok := r.identities[tab]; ok && entry.SessionID == sessionID {
			entry.SessionID = ""
		}
		delete(r.sessionTab, sessionID)
	}

	if !r.hasHumans() {
		r.removeAllAI()
	}
}

// dropCarriedBy drops every item the agent carries at its position.
func (r *Room) dropCarriedBy(a *Agent) {
	for _, it := range r.items {
		if it.Status == ItemCarried && it.CarrierID == a.ID {
			it.Status = ItemDropped
			it.CarrierID = ""
			it.X = a.X
			it.Y = a.Y
		}
	}
}

func (r *Room) hasHumans() bool {
	for _, a := range r.agents {
		if a.Controller == ControlHuman {
			return true
		}
	}
	return false
}

func (r *Room) removeAllAI() {
	for _, id := range append([]string(nil), r.order...) {
		a, ok := r.agents[id]
		if !ok || a.Controller != ControlAI {
			continue
		}
		r.dropCarriedBy(a)
		r.removeAgent(id)
		r.predictor.Remove(id)
	}
	r.log.Info("last human left, removed AI agents")
}

// addAI spawns an AI agent on the requested team. The route layer
// validates team names, so an invalid value here is only ever a
// programming error; it is logged and ignored rather than repaired.
func (r *Room) addAI(team Team) {
	if team != TeamRed && team != TeamBlue {
		r.log.Warn("invalid ai team ignored", "team", team)
		return
	}
	r.aiSeq++
	id := fmt.Sprintf("ai-%d", r.aiSeq)
	a := r.spawnAgent(id, utils.GenerateCallsign(), team, ControlAI)
	r.addAgent(a)
	r.log.Info("ai agent added", "id", id, "name", a.Name, "team", team)
}
