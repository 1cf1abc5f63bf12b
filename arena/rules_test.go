package arena

import (
	"math"
	"testing"
)

func TestPickupAssignsCarrier(t *testing.T) {
	r := newTestRoom(t)
	r.join("s1", "one", "")
	a := r.agents["s1"]
	a.X, a.Y = 100, 100
	it := r.items[0]
	it.X, it.Y = 101, 100

	r.checkPickups()

	if it.Status != ItemCarried || it.CarrierID != "s1" {
		t.Fatalf("item = %+v, want carried by s1", *it)
	}
}

func TestPickupOutOfRangeIgnored(t *testing.T) {
	r := newTestRoom(t)
	r.join("s1", "one", "")
	a := r.agents["s1"]
	a.X, a.Y = 100, 100
	it := r.items[0]
	it.X, it.Y = 100+r.cfg.PickupRadius+1, 100

	r.checkPickups()

	if it.Status != ItemAvailable {
		t.Fatalf("item status %v, want available outside pickup range", it.Status)
	}
}

func TestPickupOnePerTickGlobally(t *testing.T) {
	r := newTestRoom(t)
	r.join("s1", "one", "")
	r.join("s2", "two", "")
	r.agents["s1"].X, r.agents["s1"].Y = 100, 100
	r.agents["s2"].X, r.agents["s2"].Y = 200, 200
	r.items[0].X, r.items[0].Y = 100, 100
	r.items[1].X, r.items[1].Y = 200, 200

	r.checkPickups()

	carried := 0
	for _, it := range r.items {
		if it.Status == ItemCarried {
			carried++
			if it.CarrierID != "s1" {
				t.Fatalf("pickup went to %s, want the earlier joiner s1", it.CarrierID)
			}
		}
	}
	if carried != 1 {
		t.Fatalf("%d pickups in one tick, want exactly 1", carried)
	}
}

func TestScoringDeliversCarriedItems(t *testing.T) {
	r := newTestRoom(t)
	r.join("s1", "one", "") // Red
	a := r.agents["s1"]
	base := r.cfg.RedBase
	a.X, a.Y = base.X-2, base.Y
	a.Heading = 0 // facing +X, into the base
	it := r.items[0]
	it.Status = ItemCarried
	it.CarrierID = "s1"

	r.checkScoring()

	if r.redScore != 1 {
		t.Fatalf("redScore = %d, want 1", r.redScore)
	}
	if it.Status != ItemScored || it.CarrierID != "" {
		t.Fatalf("item = %+v, want scored with no carrier", *it)
	}
	if it.X != base.X || it.Y != base.Y {
		t.Fatalf("item at (%v, %v), want snapped to base", it.X, it.Y)
	}
}

func TestScoringOnlyIntoOwnBase(t *testing.T) {
	r := newTestRoom(t)
	r.join("s1", "one", "") // Red
	a := r.agents["s1"]
	base := r.cfg.BlueBase
	a.X, a.Y = base.X, base.Y
	it := r.items[0]
	it.Status = ItemCarried
	it.CarrierID = "s1"

	r.checkScoring()

	if r.redScore != 0 || r.blueScore != 0 {
		t.Fatalf("scores %d/%d after driving into the wrong base, want 0/0", r.redScore, r.blueScore)
	}
	if it.Status != ItemCarried {
		t.Fatalf("item status %v, want still carried", it.Status)
	}
}

func TestScoringUsesFrontPoint(t *testing.T) {
	r := newTestRoom(t)
	r.join("s1", "one", "") // Red
	a := r.agents["s1"]
	base := r.cfg.RedBase
	// Just outside the base, facing away: the front point is even
	// further out, so no delivery.
	a.X, a.Y = base.X+r.cfg.BaseRadius+0.5, base.Y
	a.Heading = 0
	it := r.items[0]
	it.Status = ItemCarried
	it.CarrierID = "s1"

	r.checkScoring()
	if it.Status != ItemCarried {
		t.Fatalf("scored while facing away from the base")
	}

	// Same spot, turned around: the front point dips inside.
	a.Heading = math.Pi
	r.checkScoring()
	if it.Status != ItemScored {
		t.Fatalf("did not score while facing into the base")
	}
}

func TestCollisionImpulseEqualAndOpposite(t *testing.T) {
	r := newTestRoom(t)
	r.join("s1", "one", "")
	r.join("s2", "two", "")
	a := r.agents["s1"]
	b := r.agents["s2"]
	a.X, a.Y = 100, 100
	b.X, b.Y = 103, 100
	a.Heading = math.Pi / 2 // both facing +Y so the offset points cancel
	b.Heading = math.Pi / 2

	r.checkCollisions()

	imp := r.cfg.CollisionImpulse
	if math.Abs(a.VX+imp) > 1e-9 || math.Abs(a.VY) > 1e-9 {
		t.Fatalf("a velocity (%v, %v), want (-%v, 0)", a.VX, a.VY, imp)
	}
	if math.Abs(b.VX-imp) > 1e-9 || math.Abs(b.VY) > 1e-9 {
		t.Fatalf("b velocity (%v, %v), want (+%v, 0)", b.VX, b.VY, imp)
	}
}

func TestStealRespectsCooldown(t *testing.T) {
	r := newTestRoom(t)
	r.join("s1", "one", "") // Red
	r.join("s2", "two", "") // Blue
	a := r.agents["s1"]
	b := r.agents["s2"]

	it := r.items[0]
	it.Status = ItemCarried
	it.CarrierID = "s1"
	it.LastStealMs = 0

	now := int64(100_000)
	r.getTime = func() int64 { return now }

	r.trySteal(a, b)
	if it.CarrierID != "s2" {
		t.Fatalf("carrier %s after first contact, want the thief s2", it.CarrierID)
	}
	if it.LastStealMs != now {
		t.Fatalf("LastStealMs = %d, want %d", it.LastStealMs, now)
	}

	// Inside the cooldown window nothing transfers back.
	now += r.cfg.StealCooldown.Milliseconds() / 2
	r.trySteal(a, b)
	if it.CarrierID != "s2" {
		t.Fatalf("item transferred during cooldown")
	}

	// After the window the counter-steal succeeds.
	now += r.cfg.StealCooldown.Milliseconds()
	r.trySteal(a, b)
	if it.CarrierID != "s1" {
		t.Fatalf("carrier %s after cooldown elapsed, want s1", it.CarrierID)
	}
}

func TestSameTeamCollisionTransfersItem(t *testing.T) {
	r := newTestRoom(t)
	r.join("s1", "one", "")
	r.join("s2", "two", "")
	a := r.agents["s1"]
	b := r.agents["s2"]
	b.Team = a.Team
	a.X, a.Y = 100, 100
	b.X, b.Y = 103, 100
	a.Heading = math.Pi / 2
	b.Heading = math.Pi / 2

	it := r.items[0]
	it.Status = ItemCarried
	it.CarrierID = "s1"
	it.LastStealMs = 0
	r.getTime = func() int64 { return 100_000 }

	r.checkCollisions()

	if it.CarrierID != "s2" {
		t.Fatalf("carrier %s after a teammate collision, want s2", it.CarrierID)
	}
}

func TestStealOnePerPairPerTick(t *testing.T) {
	r := newTestRoom(t)
	r.join("s1", "one", "") // Red
	r.join("s2", "two", "") // Blue
	a := r.agents["s1"]
	b := r.agents["s2"]

	r.items[0].Status = ItemCarried
	r.items[0].CarrierID = "s1"
	r.items[1].Status = ItemCarried
	r.items[1].CarrierID = "s1"
	r.getTime = func() int64 { return 100_000 }

	r.trySteal(a, b)

	stolen := 0
	for _, it := range r.items {
		if it.CarrierID == "s2" {
			stolen++
		}
	}
	if stolen != 1 {
		t.Fatalf("%d items stolen in one contact, want 1", stolen)
	}
}
