package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseNominatimItems(t *testing.T) {
	items := []nominatimItem{
		{Lat: "11.2588", Lon: "75.7804", DisplayName: "Kozhikode, Kerala, India"},
	}
	lat, lon, err := parseNominatimItems(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lat != 11.2588 || lon != 75.7804 {
		t.Fatalf("unexpected coordinates: %f, %f", lat, lon)
	}
}

func TestParseNominatimItemsEmpty(t *testing.T) {
	_, _, err := parseNominatimItems(nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNominatimGeocoderAgainstStubServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "" {
			http.Error(w, "missing q", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"11.2588","lon":"75.7804","display_name":"Kozhikode"}]`))
	}))
	defer srv.Close()

	g := &NominatimGeocoder{BaseURL: srv.URL, MinInterval: time.Millisecond}
	lat, lon, err := g.Geocode(context.Background(), "673638, Kerala, India")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lat != 11.2588 || lon != 75.7804 {
		t.Fatalf("unexpected coordinates: %f, %f", lat, lon)
	}
}

func TestNominatimGeocoderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := &NominatimGeocoder{BaseURL: srv.URL, MinInterval: time.Millisecond}
	if _, _, err := g.Geocode(context.Background(), "anything"); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}
