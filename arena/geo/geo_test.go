package geo

import (
	"math"
	"testing"
)

func TestRoundTripNearOrigin(t *testing.T) {
	origin := Origin{Lat: 40.7128, Lng: -74.0060}

	x, y, err := ToLocal(origin, 40.7138, -74.0050)
	if err != nil {
		t.Fatalf("ToLocal returned error: %v", err)
	}
	if y <= 0 || x <= 0 {
		t.Fatalf("expected point north-east of origin, got x=%f y=%f", x, y)
	}

	lat, lng, err := ToGeographic(origin, x, y)
	if err != nil {
		t.Fatalf("ToGeographic returned error: %v", err)
	}
	if math.Abs(lat-40.7138) > 1e-6 || math.Abs(lng-(-74.0050)) > 1e-6 {
		t.Fatalf("round trip drifted: got (%f, %f)", lat, lng)
	}
}

func TestOriginMapsToZero(t *testing.T) {
	origin := Origin{Lat: 51.5074, Lng: -0.1278}
	x, y, err := ToLocal(origin, origin.Lat, origin.Lng)
	if err != nil {
		t.Fatalf("ToLocal returned error: %v", err)
	}
	if x != 0 || y != 0 {
		t.Fatalf("origin should map to (0,0), got (%f, %f)", x, y)
	}
}

func TestNonFiniteInputIsDetectable(t *testing.T) {
	origin := Origin{Lat: 10, Lng: 10}

	lat, lng, err := ToGeographic(origin, math.NaN(), 0)
	if err == nil {
		t.Fatalf("expected error for NaN local point")
	}
	if lat != origin.Lat || lng != origin.Lng {
		t.Fatalf("failure should return the origin, got (%f, %f)", lat, lng)
	}

	if _, _, err := ToLocal(origin, math.Inf(1), 0); err == nil {
		t.Fatalf("expected error for infinite latitude")
	}
}

func TestLatitudeClamp(t *testing.T) {
	origin := Origin{Lat: 0, Lng: 0}
	_, yHigh, err := ToLocal(origin, 89, 0)
	if err != nil {
		t.Fatalf("ToLocal returned error: %v", err)
	}
	_, yClamp, err := ToLocal(origin, 85, 0)
	if err != nil {
		t.Fatalf("ToLocal returned error: %v", err)
	}
	if yHigh != yClamp {
		t.Fatalf("latitudes above 85 should clamp: got %f vs %f", yHigh, yClamp)
	}
}
