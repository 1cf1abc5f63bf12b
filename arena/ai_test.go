package arena

import (
	"testing"
)

func TestAITargetsOwnBaseWhileCarrying(t *testing.T) {
	r := newTestRoom(t)
	r.addAI(TeamRed)
	ai := r.agents["ai-1"]
	r.items[0].Status = ItemCarried
	r.items[0].CarrierID = ai.ID

	target, ok := r.aiTarget(ai)
	if !ok {
		t.Fatal("carrying AI has no target")
	}
	base := r.cfg.RedBase
	if target.X != base.X || target.Y != base.Y {
		t.Fatalf("target (%v, %v), want own base (%v, %v)", target.X, target.Y, base.X, base.Y)
	}
}

func TestAITargetsNearestLooseItem(t *testing.T) {
	r := newTestRoom(t)
	r.addAI(TeamRed)
	ai := r.agents["ai-1"]
	ai.X, ai.Y = 0, 0

	r.items[0].Status = ItemDropped
	r.items[0].X, r.items[0].Y = 5, 0
	r.items[1].Status = ItemAvailable
	r.items[1].X, r.items[1].Y = 20, 0
	for _, it := range r.items[2:] {
		it.Status = ItemScored
	}

	target, ok := r.aiTarget(ai)
	if !ok {
		t.Fatal("AI found no target with loose items on the field")
	}
	if target.X != 5 || target.Y != 0 {
		t.Fatalf("target (%v, %v), want the nearer item at (5, 0)", target.X, target.Y)
	}
}

func TestAIChasesOpposingCarrier(t *testing.T) {
	r := newTestRoom(t)
	r.addAI(TeamRed)
	r.join("s1", "one", "") // balancer puts the human on Blue
	ai := r.agents["ai-1"]
	carrier := r.agents["s1"]
	if carrier.Team == ai.Team {
		t.Fatalf("fixture broken: carrier on %v, AI on %v", carrier.Team, ai.Team)
	}
	carrier.X, carrier.Y = 30, 40

	for _, it := range r.items {
		it.Status = ItemScored
	}
	r.items[0].Status = ItemCarried
	r.items[0].CarrierID = carrier.ID

	target, ok := r.aiTarget(ai)
	if !ok {
		t.Fatal("AI ignored the opposing carrier")
	}
	if target.X != 30 || target.Y != 40 {
		t.Fatalf("target (%v, %v), want the carrier at (30, 40)", target.X, target.Y)
	}
}

func TestAIIdlesWithNothingToDo(t *testing.T) {
	r := newTestRoom(t)
	r.addAI(TeamRed)
	ai := r.agents["ai-1"]
	for _, it := range r.items {
		it.Status = ItemScored
	}

	if _, ok := r.aiTarget(ai); ok {
		t.Fatal("AI has a target with every item scored and no carriers")
	}
}

func TestAddAIRejectsInvalidTeam(t *testing.T) {
	r := newTestRoom(t)
	r.addAI(TeamNone)
	if len(r.agents) != 0 {
		t.Fatalf("%d agents after an invalid team request, want none", len(r.agents))
	}
}

func TestAIPrefersLooseItemOverCarrier(t *testing.T) {
	r := newTestRoom(t)
	r.addAI(TeamRed)
	r.join("s1", "one", "")
	ai := r.agents["ai-1"]
	carrier := r.agents["s1"]
	ai.X, ai.Y = 0, 0
	carrier.X, carrier.Y = 1, 0

	for _, it := range r.items {
		it.Status = ItemScored
	}
	r.items[0].Status = ItemCarried
	r.items[0].CarrierID = carrier.ID
	r.items[1].Status = ItemDropped
	r.items[1].X, r.items[1].Y = 200, 0

	target, ok := r.aiTarget(ai)
	if !ok {
		t.Fatal("AI found no target")
	}
	if target.X != 200 {
		t.Fatalf("target (%v, %v): a distant loose item outranks a nearby carrier", target.X, target.Y)
	}
}
