package directory

import (
	"math"
	"testing"
)

func TestHaversineZeroDistance(t *testing.T) {
	if d := Haversine(19.076, 72.8777, 19.076, 72.8777); d != 0 {
		t.Fatalf("expected zero distance for identical points, got %f", d)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Mumbai to Delhi is roughly 1150 km great-circle.
	d := Haversine(19.076, 72.8777, 28.6139, 77.209)
	if d < 1100 || d > 1200 {
		t.Fatalf("Mumbai-Delhi distance out of range: %f", d)
	}
}

func TestHaversineSymmetry(t *testing.T) {
	a := Haversine(12.9716, 77.5946, 13.0827, 80.2707)
	b := Haversine(13.0827, 80.2707, 12.9716, 77.5946)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", a, b)
	}
}
