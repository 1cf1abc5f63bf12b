// Package geo converts between geographic coordinates and local world
// meters using an equirectangular approximation around a configurable
// origin. The conversion is pure and deterministic; it is only valid
// within clamped latitude bounds.
package geo

import (
	"fmt"
	"math"
)

const (
	// metersPerDegree is the length of one degree of latitude.
	metersPerDegree = 111320.0

	// maxLatitude bounds the equirectangular approximation. Beyond this
	// the cosine shrink factor makes longitude distances meaningless.
	maxLatitude = 85.0
)

// Origin anchors the local coordinate frame in geographic space.
type Origin struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ToLocal converts a geographic coordinate to meters east (x) and
// north (y) of the origin. On invalid input it returns (0, 0) and a
// non-nil error so callers can tell the failure apart from a point at
// the origin itself.
func ToLocal(origin Origin, lat, lng float64) (x, y float64, err error) {
	if !finite(origin.Lat, origin.Lng, lat, lng) {
		return 0, 0, fmt.Errorf("geo: non-finite coordinate (lat=%v lng=%v)", lat, lng)
	}
	clampedLat := clampLat(lat)
	clampedOrigin := clampLat(origin.Lat)

	y = (clampedLat - clampedOrigin) * metersPerDegree
	x = (lng - origin.Lng) * metersPerDegree * math.Cos(toRadians(clampedOrigin))
	return x, y, nil
}

// ToGeographic converts local meters back to a geographic coordinate.
// On invalid input it returns the origin and a non-nil error.
func ToGeographic(origin Origin, x, y float64) (lat, lng float64, err error) {
	if !finite(origin.Lat, origin.Lng, x, y) {
		return origin.Lat, origin.Lng, fmt.Errorf("geo: non-finite local point (x=%v y=%v)", x, y)
	}
	clampedOrigin := clampLat(origin.Lat)
	cos := math.Cos(toRadians(clampedOrigin))
	if cos == 0 {
		return origin.Lat, origin.Lng, fmt.Errorf("geo: origin latitude %v outside usable range", origin.Lat)
	}

	lat = clampLat(clampedOrigin + y/metersPerDegree)
	lng = origin.Lng + x/(metersPerDegree*cos)
	return lat, lng, nil
}

func clampLat(lat float64) float64 {
	if lat > maxLatitude {
		return maxLatitude
	}
	if lat < -maxLatitude {
		return -maxLatitude
	}
	return lat
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
