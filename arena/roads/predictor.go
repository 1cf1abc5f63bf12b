package roads

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Predictor maintains a per-session road status cache fed by throttled,
// asynchronous lookups. The simulation tick reads whatever is cached and
// never waits for a query; results written this tick are consumed on the
// next one, which decouples lookup latency from the fixed tick rate.
//
// Failure policy is fail-open: a failed lookup keeps the previous
// predicted value rather than forcing "off-road".
type Predictor struct {
	mu       sync.Mutex
	source   Source
	interval time.Duration
	entries  map[string]*cacheEntry

	now func() time.Time
}

type cacheEntry struct {
	predicted bool
	lastQuery time.Time
}

// NewPredictor builds a predictor over the given source with the given
// minimum interval between queries per session.
func NewPredictor(source Source, interval time.Duration) *Predictor {
	return &Predictor{
		source:   source,
		interval: interval,
		entries:  make(map[string]*cacheEntry),
		now:      time.Now,
	}
}

func (p *Predictor) entry(id string) *cacheEntry {
	e, ok := p.entries[id]
	if !ok {
		e = &cacheEntry{}
		p.entries[id] = e
	}
	return e
}

// Due reports whether the throttle window for the session has elapsed.
func (p *Predictor) Due(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	e := p.entry(id)
	return p.now().Sub(e.lastQuery) >= p.interval
}

// Dispatch marks the session queried now and issues the lookup in the
// background. The result, if any, is written back only into this
// session's cache slot. Marking the query time before the lookup
// completes prevents duplicate concurrent queries for the same session.
func (p *Predictor) Dispatch(id string, lon, lat float64) {
	p.mu.Lock()
	e := p.entry(id)
	e.lastQuery = p.now()
	p.mu.Unlock()

	go func() {
		info, err := p.source.Lookup(context.Background(), lon, lat)
		if err != nil || info == nil {
			// No information: keep the previous predicted value.
			if err != nil {
				log.Debug("road lookup failed, keeping previous prediction", "session", id, "err", err)
			}
			return
		}
		onRoad := HasRoad(info)
		p.mu.Lock()
		if e, ok := p.entries[id]; ok {
			e.predicted = onRoad
		}
		p.mu.Unlock()
	}()
}

// ResetThrottle clears the session's query timestamp so the next tick
// may retry immediately. Used after a coordinate conversion failure,
// where no query was ever sent.
func (p *Predictor) ResetThrottle(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entry(id).lastQuery = time.Time{}
}

// Consume returns the session's predicted flag for use by this tick's
// integrator. Results written back during this tick are observed on the
// next call.
func (p *Predictor) Consume(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.entry(id).predicted
}

// Remove clears the cache slot for a departed session.
func (p *Predictor) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, id)
}

// Clear drops every cache slot (full game reset).
func (p *Predictor) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = make(map[string]*cacheEntry)
}
