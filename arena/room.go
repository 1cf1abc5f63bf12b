// Package arena is the authoritative simulation core for one
// Smugglers Town room: a fixed-rate tick drives movement, road-speed
// prediction, the pickup/scoring/stealing rules, and the round
// lifecycle, while a persistent-identity table keeps reconnecting
// players on the team they started on. The room is the single writer
// of its replicated state; clients only ever see snapshots published
// through the JetStream KV bucket.
package arena

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/goggledefogger/smugglers-town/arena/roads"
	"github.com/goggledefogger/smugglers-town/arena/shared"
)

// Room owns all mutable state for one simulation instance. Every field
// below is touched only by the Run goroutine; inbound messages go
// through the inbox and are handled between ticks, so no locking is
// needed inside the room.
type Room struct {
	ID  string
	cfg Config
	log *log.Logger

	// Canonical containers. order preserves join order for tie-breaks.
	agents map[string]*Agent
	order  []string
	items  []*Item

	redScore  int
	blueScore int
	countdown float64

	// Per-session working state, never replicated.
	inputs     map[string]shared.Vec2
	identities map[string]*identityEntry // tab token -> sticky identity
	sessionTab map[string]string         // session -> tab token
	gens       map[string]*sessionGen    // cleanup generations, pruned per session

	predictor *roads.Predictor

	inbox chan any
	quit  chan struct{}

	kv        jetstream.KeyValue // nil disables replication (tests)
	publishCh chan []byte

	tickSeq int64
	itemSeq int
	aiSeq   int

	rng     *rand.Rand
	getTime TimeStamper
	now     func() time.Time

	// afterFunc schedules the deferred-cleanup timer; swapped out in
	// tests to fire deterministically.
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// NewRoom builds a room and seeds its first round. Pass a nil KV to run
// without replication. The room does not tick until Run is called.
func NewRoom(id string, cfg Config, kv jetstream.KeyValue, source roads.Source) *Room {
	r := &Room{
		ID:         id,
		cfg:        cfg,
		log:        log.With("room", id),
		agents:     make(map[string]*Agent),
		inputs:     make(map[string]shared.Vec2),
		identities: make(map[string]*identityEntry),
		sessionTab: make(map[string]string),
		gens:       make(map[string]*sessionGen),
		predictor:  roads.NewPredictor(source, cfg.RoadQueryInterval),
		inbox:      make(chan any, 256),
		quit:       make(chan struct{}),
		kv:         kv,
		publishCh:  make(chan []byte, 1),
		countdown:  cfg.CountdownSeconds,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		getTime:    DefaultTimeStamper,
		now:        time.Now,
		afterFunc:  time.AfterFunc,
	}
	r.resetRound()
	return r
}

// Enqueue delivers an inbound message to the room without blocking; a
// full inbox drops the message so a flood of inputs can never stall the
// tick.
func (r *Room) Enqueue(msg any) {
	select {
	case r.inbox <- msg:
	default:
		r.log.Warn("inbox full, dropping message", "type", fmt.Sprintf("%T", msg))
	}
}

// Run is the room's single goroutine: a fixed-rate ticker interleaved
// with inbox handling. It returns when Stop is called.
func (r *Room) Run(ctx context.Context) {
	if r.kv != nil {
		go r.publishLoop(ctx)
	}

	interval := time.Second / time.Duration(r.cfg.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := r.now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.quit:
			return
		case msg := <-r.inbox:
			r.handleMessage(msg)
		case <-ticker.C:
			now := r.now()
			delta := now.Sub(last).Seconds()
			last = now
			r.step(delta)
			if r.kv != nil && r.cfg.PublishEvery > 0 && r.tickSeq%int64(r.cfg.PublishEvery) == 0 {
				r.publish()
			}
		}
	}
}

// Stop shuts the room down.
func (r *Room) Stop() {
	close(r.quit)
}

func (r *Room) handleMessage(msg any) {
	switch m := msg.(type) {
	case JoinMsg:
		team := r.join(m.SessionID, m.Name, m.TabID)
		if m.Reply != nil {
			m.Reply <- team
		}
	case LeaveMsg:
		r.leave(m.SessionID, m.Graceful)
	case cleanupMsg:
		r.handleDeferredCleanup(m)
	case InputMsg:
		r.setInput(m.SessionID, m.DX, m.DY)
	case AddAIMsg:
		r.addAI(m.Team)
	case SetOriginMsg:
		r.fullReset(m.Lat, m.Lng)
	default:
		r.log.Warn("unknown inbound message ignored", "type", fmt.Sprintf("%T", msg))
	}
}

// setInput records a session's pending movement intent; it is consumed
// by the next tick. Unknown sessions are a normal race with cleanup.
func (r *Room) setInput(sessionID string, dx, dy float64) {
	if _, ok := r.agents[sessionID]; !ok {
		return
	}
	r.inputs[sessionID] = shared.Vec2{X: dx, Y: dy}
}

// addAgent inserts a new agent, preserving join order.
func (r *Room) addAgent(a *Agent) {
	r.agents[a.ID] = a
	r.order = append(r.order, a.ID)
}

// removeAgent deletes an agent and its slot in the order list.
func (r *Room) removeAgent(id string) {
	delete(r.agents, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// snapshot builds the replicated aggregate in join order.
func (r *Room) snapshot() Snapshot {
	s := Snapshot{
		RoomID:     r.ID,
		Agents:     make([]Agent, 0, len(r.order)),
		Items:      make([]Item, 0, len(r.items)),
		RedScore:   r.redScore,
		BlueScore:  r.blueScore,
		Countdown:  r.countdown,
		Origin:     r.cfg.Origin,
		BaseRadius: r.cfg.BaseRadius,
	}
	for _, id := range r.order {
		if a, ok := r.agents[id]; ok {
			s.Agents = append(s.Agents, *a)
		}
	}
	for _, it := range r.items {
		s.Items = append(s.Items, *it)
	}
	return s
}

// publish hands the current snapshot to the publisher goroutine,
// latest-wins: a slow KV write drops intermediate snapshots instead of
// stalling the tick.
func (r *Room) publish() {
	payload, err := json.Marshal(r.snapshot())
	if err != nil {
		r.log.Error("marshaling snapshot", "err", err)
		return
	}
	select {
	case r.publishCh <- payload:
	default:
		select {
		case <-r.publishCh:
		default:
		}
		select {
		case r.publishCh <- payload:
		default:
		}
	}
}

func (r *Room) publishLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.quit:
			return
		case payload := <-r.publishCh:
			if _, err := r.kv.Put(ctx, r.ID, payload); err != nil {
				r.log.Error("publishing room state", "err", err)
			}
		}
	}
}
