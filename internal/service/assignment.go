package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/growfix/backend/internal/geocode"
	"github.com/growfix/backend/internal/models"
	"github.com/growfix/backend/internal/utils"
)

// CoordinateStore persists a provider's freshly geocoded coordinate so the
// lookup happens at most once per provider.
type CoordinateStore interface {
	SaveProviderCoordinate(ctx context.Context, p models.Provider) error
}

// AssignmentService resolves provider coordinates and picks the nearest
// eligible provider for a complaint.
type AssignmentService struct {
	Geocoder geocode.Geocoder
	Coords   CoordinateStore
	Region   string
	Logger   zerolog.Logger
}

// EnsureCoordinate returns the provider's coordinate, geocoding and
// persisting it on first use. A stored coordinate is returned as-is with no
// network call. On a failed lookup the provider is left unset, so the next
// search retries instead of caching the miss.
func (s *AssignmentService) EnsureCoordinate(ctx context.Context, p models.Provider) (float64, float64, error) {
	if lat, lon, ok := p.Coordinate(); ok {
		return lat, lon, nil
	}

	area, pincode := p.Location()
	lat, lon, err := geocode.Resolve(ctx, s.Geocoder, area, pincode, s.Region)
	if err != nil {
		return 0, 0, err
	}

	p.SetCoordinate(lat, lon)
	if s.Coords != nil {
		if err := s.Coords.SaveProviderCoordinate(ctx, p); err != nil {
			// The in-memory coordinate still serves this search; the write
			// is retried next time the provider shows up unresolved.
			s.Logger.Warn().Err(err).Str("provider", p.ProviderID()).Msg("failed to persist provider coordinate")
		}
	}
	return lat, lon, nil
}

// ResolveComplaintCoordinate geocodes a complaint location. Unlike provider
// coordinates there is no write-through cache; the result lands on the
// complaint row itself.
func (s *AssignmentService) ResolveComplaintCoordinate(ctx context.Context, area, pincode string) (float64, float64, error) {
	return geocode.Resolve(ctx, s.Geocoder, area, pincode, s.Region)
}

// FindNearest picks the eligible candidate closest to (lat, lon). Candidates
// without a resolvable coordinate are skipped. Exact distance ties go to the
// lower provider id, so re-runs over the same pool are deterministic.
func (s *AssignmentService) FindNearest(ctx context.Context, lat, lon float64, pool []models.Provider) (models.Provider, float64, bool) {
	var best models.Provider
	bestKm := math.Inf(1)

	for _, p := range pool {
		if !p.Eligible() {
			continue
		}
		pLat, pLon, err := s.EnsureCoordinate(ctx, p)
		if err != nil {
			continue
		}
		d := utils.HaversineKm(lat, lon, pLat, pLon)
		if d < bestKm || (d == bestKm && best != nil && p.ProviderID() < best.ProviderID()) {
			bestKm = d
			best = p
		}
	}

	if best == nil {
		return nil, 0, false
	}
	return best, bestKm, true
}

// RankedProvider is one entry of a distance-sorted picklist.
type RankedProvider struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	DistanceKm float64 `json:"distance_km"`
}

// RankByDistance returns every eligible, resolvable candidate sorted
// ascending by distance from (lat, lon).
func (s *AssignmentService) RankByDistance(ctx context.Context, lat, lon float64, pool []models.Provider) []RankedProvider {
	out := make([]RankedProvider, 0, len(pool))
	for _, p := range pool {
		if !p.Eligible() {
			continue
		}
		pLat, pLon, err := s.EnsureCoordinate(ctx, p)
		if err != nil {
			continue
		}
		d := math.Round(utils.HaversineKm(lat, lon, pLat, pLon)*100) / 100
		out = append(out, RankedProvider{
			ID:         p.ProviderID(),
			Label:      fmt.Sprintf("%s (%.2f km)", p.DisplayLabel(), d),
			DistanceKm: d,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DistanceKm == out[j].DistanceKm {
			return out[i].ID < out[j].ID
		}
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

func kindForCategory(category string) models.AssignKind {
	if category == models.CategoryGrowtag {
		return models.AssignGrowtag
	}
	return models.AssignShop
}

// ApplyAssignment records the search result on the complaint. A stale
// reference from the other provider kind is always cleared, even when the
// new search found nothing. The automatic transition to Assigned is skipped
// when the caller supplied a status in the same request.
func ApplyAssignment(c *models.Complaint, p models.Provider, explicitStatus bool) {
	wantKind := kindForCategory(c.Category)
	if c.Assigned.Kind != models.AssignNone && c.Assigned.Kind != wantKind {
		c.Assigned = models.AssignmentRef{}
	}

	if p == nil {
		return
	}

	switch wantKind {
	case models.AssignGrowtag:
		c.Assigned = models.AssignedGrowtag(p.ProviderID(), p.DisplayLabel())
	default:
		c.Assigned = models.AssignedShop(p.ProviderID(), p.DisplayLabel())
	}
	if !explicitStatus {
		c.Status = models.StatusAssigned
	}
}
