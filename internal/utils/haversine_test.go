package utils

import (
	"math"
	"testing"
)

func TestHaversineKmIdenticalPoints(t *testing.T) {
	if d := HaversineKm(11.25, 75.78, 11.25, 75.78); d != 0 {
		t.Fatalf("expected 0 for identical points, got %f", d)
	}
}

func TestHaversineKmSymmetry(t *testing.T) {
	a := HaversineKm(11.25, 75.78, 9.93, 76.26)
	b := HaversineKm(9.93, 76.26, 11.25, 75.78)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("expected symmetric distance, got %f vs %f", a, b)
	}
}

func TestHaversineKmKnownDistance(t *testing.T) {
	// Kozhikode to Kochi, roughly 160 km great-circle.
	d := HaversineKm(11.2588, 75.7804, 9.9312, 76.2673)
	if d < 150 || d > 170 {
		t.Fatalf("unexpected distance: %f", d)
	}
}

func TestHaversineKmAntipodal(t *testing.T) {
	d := HaversineKm(0, 0, 0, 180)
	if math.IsNaN(d) {
		t.Fatalf("antipodal points produced NaN")
	}
	// Half the Earth's circumference, within a km.
	if math.Abs(d-math.Pi*earthRadiusKm) > 1 {
		t.Fatalf("unexpected antipodal distance: %f", d)
	}
}

func TestHaversineKmNeverNegative(t *testing.T) {
	points := [][4]float64{
		{90, 0, -90, 0},
		{45.5, -122.6, 45.5, -122.6},
		{-33.86, 151.2, 51.5, -0.12},
	}
	for _, p := range points {
		if d := HaversineKm(p[0], p[1], p[2], p[3]); d < 0 || math.IsNaN(d) {
			t.Fatalf("invalid distance %f for %v", d, p)
		}
	}
}
