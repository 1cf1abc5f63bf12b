package arena

import (
	"time"

	"github.com/goggledefogger/smugglers-town/arena/geo"
	"github.com/goggledefogger/smugglers-town/arena/physics"
	"github.com/goggledefogger/smugglers-town/arena/shared"
)

// Config carries every room tunable. Rooms copy it at construction;
// there is no shared mutable configuration between rooms.
type Config struct {
	TickRate     int     // simulation steps per second
	MaxTickDelta float64 // seconds; larger frame deltas skip gameplay
	PublishEvery int     // replicate the snapshot every Nth tick

	CountdownSeconds float64
	ItemCount        int

	RoadQueryInterval time.Duration
	RoadLookupTimeout time.Duration

	GraceDelay time.Duration // deferred cleanup for non-graceful leaves

	MaxSpeed            float64 // m/s off-road
	RoadSpeedMultiplier float64
	Acceleration        float64
	Friction            float64 // per-second velocity retention base
	TurnRate            float64 // rad/s
	LookaheadFactor     float64
	AISpeedMultiplier   float64
	AIAccelMultiplier   float64

	AgentRadius      float64
	PickupRadius     float64
	BaseRadius       float64
	CollisionRadius  float64
	CollisionImpulse float64
	StealCooldown    time.Duration

	ItemSpawnRadius  float64
	AgentSpawnSpread float64

	RedBase  shared.Vec2
	BlueBase shared.Vec2
	Hazard   physics.Rect

	Origin geo.Origin
}

// DefaultConfig returns the shipped game balance.
func DefaultConfig() Config {
	return Config{
		TickRate:     60,
		MaxTickDelta: 0.1,
		PublishEvery: 3, // 20 snapshots/s

		CountdownSeconds: 300,
		ItemCount:        5,

		RoadQueryInterval: 500 * time.Millisecond,
		RoadLookupTimeout: 2 * time.Second,

		GraceDelay: 5 * time.Second,

		MaxSpeed:            18,
		RoadSpeedMultiplier: 2.0,
		Acceleration:        40,
		Friction:            0.2,
		TurnRate:            10,
		LookaheadFactor:     12,
		AISpeedMultiplier:   0.85,
		AIAccelMultiplier:   0.7,

		AgentRadius:      1.5,
		PickupRadius:     4,
		BaseRadius:       10,
		CollisionRadius:  2.5,
		CollisionImpulse: 10,
		StealCooldown:    2 * time.Second,

		ItemSpawnRadius:  40,
		AgentSpawnSpread: 8,

		RedBase:  shared.Vec2{X: -60, Y: 0},
		BlueBase: shared.Vec2{X: 60, Y: 0},
		// Water north of the origin; driving in dumps you back at spawn.
		Hazard: physics.Rect{MinX: -15, MinY: 90, MaxX: 15, MaxY: 140},

		Origin: geo.Origin{Lat: 40.7128, Lng: -74.0060},
	}
}

// tuning projects the movement constants into the integrator's form.
func (c Config) tuning() physics.Tuning {
	return physics.Tuning{
		MaxSpeed:        c.MaxSpeed,
		RoadMultiplier:  c.RoadSpeedMultiplier,
		Acceleration:    c.Acceleration,
		Friction:        c.Friction,
		TurnRate:        c.TurnRate,
		LookaheadFactor: c.LookaheadFactor,
		Hazard:          c.Hazard,
	}
}

// baseFor returns the base position for a team; ok is false for
// TeamNone, which has nowhere to score.
func (c Config) baseFor(team Team) (shared.Vec2, bool) {
	switch team {
	case TeamRed:
		return c.RedBase, true
	case TeamBlue:
		return c.BlueBase, true
	}
	return shared.Vec2{}, false
}
