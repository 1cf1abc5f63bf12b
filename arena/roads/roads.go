// Package roads classifies whether a world position sits on a road,
// using an external map tile service reached over NATS request/reply.
// Lookups are slow relative to the simulation tick, so the package also
// provides a throttled, per-session prediction cache (see predictor.go)
// that never blocks the caller.
package roads

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Feature is a single map feature returned by the tile service.
type Feature struct {
	Class string `json:"class"`
	Layer string `json:"layer,omitempty"`
}

// TileInfo is the structured response for one coordinate lookup.
type TileInfo struct {
	Features []Feature `json:"features"`
}

// Source is the external classification collaborator. Implementations
// must signal "no information" with a nil response or an error, never by
// asserting an empty TileInfo they did not receive.
type Source interface {
	Lookup(ctx context.Context, lon, lat float64) (*TileInfo, error)
}

// roadClasses are the feature classes treated as drivable road surface.
var roadClasses = map[string]bool{
	"motorway":       true,
	"motorway_link":  true,
	"trunk":          true,
	"primary":        true,
	"secondary":      true,
	"tertiary":       true,
	"street":         true,
	"street_limited": true,
	"residential":    true,
	"service":        true,
	"track":          true,
}

// HasRoad reports whether the tile response contains at least one road
// feature. It is a pure classifier; a nil response yields false, but
// callers observing a nil response should treat it as "no information"
// and keep their previous state rather than calling this at all.
func HasRoad(info *TileInfo) bool {
	if info == nil {
		return false
	}
	for _, f := range info.Features {
		if roadClasses[f.Class] {
			return true
		}
	}
	return false
}

// Client queries the tile service over NATS request/reply.
type Client struct {
	nc      *nats.Conn
	subject string
	timeout time.Duration
}

// NewClient builds a road lookup client for the given subject.
func NewClient(nc *nats.Conn, subject string, timeout time.Duration) *Client {
	return &Client{nc: nc, subject: subject, timeout: timeout}
}

type lookupRequest struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Lookup requests classification for a single coordinate. A timeout,
// transport error, or empty reply all come back as errors so the caller
// can fail open.
func (c *Client) Lookup(ctx context.Context, lon, lat float64) (*TileInfo, error) {
	payload, err := json.Marshal(lookupRequest{Lon: lon, Lat: lat})
	if err != nil {
		return nil, fmt.Errorf("roads: encoding lookup request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.nc.RequestWithContext(ctx, c.subject, payload)
	if err != nil {
		return nil, fmt.Errorf("roads: tile lookup failed: %w", err)
	}
	if len(msg.Data) == 0 {
		return nil, fmt.Errorf("roads: tile service returned empty reply")
	}

	var info TileInfo
	if err := json.Unmarshal(msg.Data, &info); err != nil {
		return nil, fmt.Errorf("roads: decoding tile response: %w", err)
	}
	return &info, nil
}
