package arena

import (
	"time"

	"github.com/goggledefogger/smugglers-town/arena/geo"
	"github.com/goggledefogger/smugglers-town/arena/physics"
)

// Team is a side of the match.
type Team string

const (
	TeamRed  Team = "Red"
	TeamBlue Team = "Blue"
	TeamNone Team = "None"
)

// ParseTeam validates a wire-supplied team name.
func ParseTeam(s string) (Team, bool) {
	switch Team(s) {
	case TeamRed, TeamBlue:
		return Team(s), true
	}
	return TeamNone, false
}

// ControllerKind distinguishes human and AI agents.
type ControllerKind string

const (
	ControlHuman ControllerKind = "human"
	ControlAI    ControllerKind = "ai"
)

// Agent is one participant in the room. The embedded physics.Body holds
// position, velocity, heading and the one-shot water-hazard flag.
type Agent struct {
	ID   string `json:"id"` // session identifier
	Name string `json:"name"`
	physics.Body
	Team       Team           `json:"team"`
	OnRoad     bool           `json:"onRoad"`
	Controller ControllerKind `json:"controller"`
}

// ItemStatus is the lifecycle state of a capturable item.
type ItemStatus string

const (
	ItemAvailable ItemStatus = "available"
	ItemDropped   ItemStatus = "dropped"
	ItemCarried   ItemStatus = "carried"
	ItemScored    ItemStatus = "scored"
)

// Item is a capturable object. CarrierID is non-empty iff Status is
// ItemCarried; every dereference of it goes through the room's agent
// map with an explicit not-found policy (the item is dropped in place).
type Item struct {
	ID          string     `json:"id"`
	Status      ItemStatus `json:"status"`
	X           float64    `json:"x"`
	Y           float64    `json:"y"`
	CarrierID   string     `json:"carrierId,omitempty"`
	LastStealMs int64      `json:"lastStealMs"`
}

// Snapshot is the replicated room aggregate published to clients.
// Agents appear in join order, which is also the rules engine's
// tie-break order.
type Snapshot struct {
	RoomID     string     `json:"roomId"`
	Agents     []Agent    `json:"agents"`
	Items      []Item     `json:"items"`
	RedScore   int        `json:"redScore"`
	BlueScore  int        `json:"blueScore"`
	Countdown  float64    `json:"countdown"`
	Origin     geo.Origin `json:"origin"`
	BaseRadius float64    `json:"baseRadius"`
}

// Inbound messages. These are the closed set of tagged variants a room
// accepts on its inbox; the route layer validates raw payloads into
// them before anything can touch simulation state.

// JoinMsg registers a new session. Reply receives the assigned team.
type JoinMsg struct {
	SessionID string
	Name      string
	TabID     string // optional persistent identity token
	Reply     chan<- Team
}

// LeaveMsg removes a session, immediately when graceful or after the
// grace window otherwise.
type LeaveMsg struct {
	SessionID string
	Graceful  bool
}

// InputMsg is one movement intent for a session. The vector is raw and
// unvalidated; the integrator clamps it.
type InputMsg struct {
	SessionID string
	DX, DY    float64
}

// AddAIMsg spawns an AI agent on the given team.
type AddAIMsg struct {
	Team Team
}

// SetOriginMsg moves the world origin and triggers a full game reset.
type SetOriginMsg struct {
	Lat, Lng float64
}

// cleanupMsg is enqueued by the deferred-cleanup timer for non-graceful
// disconnects. Gen is the session generation captured at schedule time;
// a mismatch at handling time means the session reconnected (or was
// already cleaned) and the timer is stale.
type cleanupMsg struct {
	SessionID string
	Gen       uint64
}

// TimeStamper supplies millisecond wall-clock timestamps; injectable for
// deterministic tests.
type TimeStamper func() int64

// DefaultTimeStamper returns the current time in milliseconds.
func DefaultTimeStamper() int64 {
	return time.Now().UnixMilli()
}
