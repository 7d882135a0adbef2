package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("geocode not found")

type Geocoder interface {
	Geocode(ctx context.Context, query string) (lat float64, lon float64, err error)
}

// FallbackQueries builds the lookup queries for an (area, pincode) pair,
// most reliable first. The pincode centroid tends to beat free-text area
// names, so it leads; the bare area query is kept as a last resort. region
// is the fixed locale qualifier the deployment is pinned to, e.g.
// "Kerala, India".
func FallbackQueries(area, pincode, region string) []string {
	area = strings.TrimSpace(area)
	pincode = strings.TrimSpace(pincode)

	var queries []string
	if pincode != "" {
		queries = append(queries, fmt.Sprintf("%s, %s", pincode, region))
	}
	if area != "" && pincode != "" {
		queries = append(queries, fmt.Sprintf("%s, %s, %s", area, pincode, region))
		queries = append(queries, fmt.Sprintf("%s, %s, %s", area, pincode, countryOf(region)))
	}
	if area != "" {
		queries = append(queries, fmt.Sprintf("%s, %s", area, region))
	}
	return queries
}

// countryOf keeps the broadest part of the region qualifier for the loose
// phrasing variant ("Kerala, India" -> "India").
func countryOf(region string) string {
	parts := strings.Split(region, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}

// Resolve runs the fallback queries in order and returns the first hit.
// A provider error on one query is a miss for that query, not a failure of
// the whole lookup; only when every query comes back empty does Resolve
// return ErrNotFound.
func Resolve(ctx context.Context, g Geocoder, area, pincode, region string) (float64, float64, error) {
	for _, query := range FallbackQueries(area, pincode, region) {
		lat, lon, err := g.Geocode(ctx, query)
		if err != nil {
			continue
		}
		return lat, lon, nil
	}
	return 0, 0, ErrNotFound
}
