package roads

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubSource struct {
	info   *TileInfo
	err    error
	called chan struct{}
}

func (s *stubSource) Lookup(_ context.Context, _, _ float64) (*TileInfo, error) {
	select {
	case s.called <- struct{}{}:
	default:
	}
	return s.info, s.err
}

func roadTile() *TileInfo {
	return &TileInfo{Features: []Feature{{Class: "street"}}}
}

func waitForPrediction(t *testing.T, p *Predictor, id string, want bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		p.mu.Lock()
		got := p.entry(id).predicted
		p.mu.Unlock()
		if got == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("prediction for %q never became %v", id, want)
}

func TestDispatchWritesPrediction(t *testing.T) {
	src := &stubSource{info: roadTile(), called: make(chan struct{}, 1)}
	p := NewPredictor(src, 500*time.Millisecond)

	if !p.Due("s1") {
		t.Fatalf("fresh session should be due for a query")
	}
	p.Dispatch("s1", -74.0, 40.7)
	waitForPrediction(t, p, "s1", true)

	if !p.Consume("s1") {
		t.Fatalf("Consume should return the new prediction")
	}
}

func TestThrottleBlocksImmediateRequery(t *testing.T) {
	src := &stubSource{info: roadTile(), called: make(chan struct{}, 1)}
	p := NewPredictor(src, time.Hour)

	p.Dispatch("s1", 0, 0)
	if p.Due("s1") {
		t.Fatalf("session should not be due right after a dispatch")
	}

	p.ResetThrottle("s1")
	if !p.Due("s1") {
		t.Fatalf("ResetThrottle should make the session due again")
	}
}

func TestLookupFailureKeepsPreviousPrediction(t *testing.T) {
	src := &stubSource{info: roadTile(), called: make(chan struct{}, 1)}
	p := NewPredictor(src, 0)

	p.Dispatch("s1", 0, 0)
	waitForPrediction(t, p, "s1", true)

	src.err = errors.New("tile service down")
	src.info = nil
	p.Dispatch("s1", 0, 0)
	<-src.called

	// Give the writeback goroutine a moment; the value must stay true.
	time.Sleep(20 * time.Millisecond)
	if !p.Consume("s1") {
		t.Fatalf("failed lookup must not clear the previous prediction")
	}
}

func TestRemoveClearsSlot(t *testing.T) {
	src := &stubSource{info: roadTile(), called: make(chan struct{}, 1)}
	p := NewPredictor(src, 0)

	p.Dispatch("s1", 0, 0)
	waitForPrediction(t, p, "s1", true)

	p.Remove("s1")
	if p.Consume("s1") {
		t.Fatalf("removed session should start from a cold cache")
	}
}

func TestHasRoadClassifier(t *testing.T) {
	if HasRoad(nil) {
		t.Fatalf("nil response must not classify as road")
	}
	if HasRoad(&TileInfo{Features: []Feature{{Class: "water"}, {Class: "park"}}}) {
		t.Fatalf("non-road features must not classify as road")
	}
	if !HasRoad(&TileInfo{Features: []Feature{{Class: "park"}, {Class: "motorway"}}}) {
		t.Fatalf("motorway feature should classify as road")
	}
}
