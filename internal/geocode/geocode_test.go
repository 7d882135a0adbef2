package geocode

import (
	"context"
	"errors"
	"testing"
)

const testRegion = "Kerala, India"

func TestFallbackQueriesOrder(t *testing.T) {
	queries := FallbackQueries("Kozhikode", "673638", testRegion)
	want := []string{
		"673638, Kerala, India",
		"Kozhikode, 673638, Kerala, India",
		"Kozhikode, 673638, India",
		"Kozhikode, Kerala, India",
	}
	if len(queries) != len(want) {
		t.Fatalf("expected %d queries, got %d: %v", len(want), len(queries), queries)
	}
	for i := range want {
		if queries[i] != want[i] {
			t.Fatalf("query %d: expected %q, got %q", i, want[i], queries[i])
		}
	}
}

func TestFallbackQueriesPincodeOnly(t *testing.T) {
	queries := FallbackQueries("", "673638", testRegion)
	if len(queries) != 1 || queries[0] != "673638, Kerala, India" {
		t.Fatalf("unexpected queries: %v", queries)
	}
}

func TestFallbackQueriesAreaOnly(t *testing.T) {
	queries := FallbackQueries("  Kozhikode ", "", testRegion)
	if len(queries) != 1 || queries[0] != "Kozhikode, Kerala, India" {
		t.Fatalf("unexpected queries: %v", queries)
	}
}

type scriptedGeocoder struct {
	calls   []string
	results map[string][2]float64
	errs    map[string]error
}

func (s *scriptedGeocoder) Geocode(_ context.Context, query string) (float64, float64, error) {
	s.calls = append(s.calls, query)
	if err, ok := s.errs[query]; ok {
		return 0, 0, err
	}
	if r, ok := s.results[query]; ok {
		return r[0], r[1], nil
	}
	return 0, 0, ErrNotFound
}

func TestResolveStopsAtFirstHit(t *testing.T) {
	g := &scriptedGeocoder{
		results: map[string][2]float64{
			"673638, Kerala, India": {11.25, 75.78},
		},
	}
	lat, lon, err := Resolve(context.Background(), g, "Kozhikode", "673638", testRegion)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lat != 11.25 || lon != 75.78 {
		t.Fatalf("unexpected coordinates: %f, %f", lat, lon)
	}
	if len(g.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(g.calls))
	}
}

func TestResolveTreatsErrorsAsMisses(t *testing.T) {
	g := &scriptedGeocoder{
		errs: map[string]error{
			"673638, Kerala, India": errors.New("connection reset"),
		},
		results: map[string][2]float64{
			"Kozhikode, 673638, Kerala, India": {11.25, 75.78},
		},
	}
	lat, _, err := Resolve(context.Background(), g, "Kozhikode", "673638", testRegion)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lat != 11.25 {
		t.Fatalf("unexpected latitude: %f", lat)
	}
	if len(g.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(g.calls))
	}
}

func TestResolveNotFoundWhenAllQueriesMiss(t *testing.T) {
	g := &scriptedGeocoder{}
	_, _, err := Resolve(context.Background(), g, "Nowhere", "000000", testRegion)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(g.calls) != 4 {
		t.Fatalf("expected all 4 fallback queries tried, got %d", len(g.calls))
	}
}
