package arena

import (
	"context"
	"sync"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/goggledefogger/smugglers-town/arena/roads"
)

// Manager creates rooms on demand and keeps them running. Room ids come
// from the client; each id maps to one Room goroutine and one key in the
// KV bucket.
type Manager struct {
	mu     sync.Mutex
	rooms  map[string]*Room
	cfg    Config
	kv     jetstream.KeyValue
	source roads.Source
	ctx    context.Context
}

// NewManager builds a manager whose rooms all share the same config, KV
// bucket and road source.
func NewManager(ctx context.Context, cfg Config, kv jetstream.KeyValue, source roads.Source) *Manager {
	return &Manager{
		rooms:  make(map[string]*Room),
		cfg:    cfg,
		kv:     kv,
		source: source,
		ctx:    ctx,
	}
}

// Get returns the room with the given id, starting it on first use.
func (m *Manager) Get(id string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[id]; ok {
		return r
	}
	r := NewRoom(id, m.cfg, m.kv, m.source)
	m.rooms[id] = r
	go r.Run(m.ctx)
	return r
}

// Shutdown stops every running room.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rooms {
		r.Stop()
	}
	m.rooms = make(map[string]*Room)
}
