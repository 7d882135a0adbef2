package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/growfix/backend/internal/models"
)

var (
	ErrInvalidCategory  = errors.New("unknown assignment category")
	ErrInvalidStatus    = errors.New("unknown complaint status")
	ErrAlreadyConfirmed = errors.New("complaint already confirmed")
)

// Store is the persistence surface the complaint workflow needs. *db.Store
// satisfies it; tests swap in a fake.
type Store interface {
	FindCustomerByPhoneOrEmail(ctx context.Context, phone, email string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, c *models.Customer) error
	UpdateCustomer(ctx context.Context, c *models.Customer) error
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)

	CreateComplaint(ctx context.Context, c *models.Complaint) error
	GetComplaint(ctx context.Context, id string) (*models.Complaint, error)
	UpdateComplaint(ctx context.Context, c *models.Complaint) error

	ListShops(ctx context.Context, shopType string, activeOnly bool) ([]*models.Shop, error)
	ListGrowtags(ctx context.Context, status string) ([]*models.Growtag, error)
}

// ContactSyncer mirrors a customer into the external accounting ledger.
// Sync failures never block the repair workflow.
type ContactSyncer interface {
	SyncCustomer(ctx context.Context, c *models.Customer) error
}

// ComplaintService runs the full intake workflow: reconcile the submitted
// identity to a customer record, geocode the complaint location, and assign
// the nearest eligible provider for the requested category.
type ComplaintService struct {
	Store    Store
	Assigner *AssignmentService
	Ledger   ContactSyncer
	Logger   zerolog.Logger
}

// ComplaintInput is a complaint submission. Lat/Lon, when supplied by the
// client, are taken as authoritative and never re-geocoded. Present, when
// non-nil, limits which identity fields an update applies.
type ComplaintInput struct {
	ContactFields
	PhoneModel   string
	IssueDetails string
	Category     string
	Status       string
	Lat          *float64
	Lon          *float64
	Present      map[string]bool
}

// Create registers a complaint. The category is validated before any side
// effect, and an identity conflict aborts the whole submission with nothing
// persisted.
func (s *ComplaintService) Create(ctx context.Context, in ComplaintInput) (*models.Complaint, error) {
	if !models.ValidCategory(in.Category) {
		return nil, ErrInvalidCategory
	}
	if in.Status != "" && !models.ValidStatus(in.Status) {
		return nil, ErrInvalidStatus
	}

	cust, err := s.resolveCustomer(ctx, nil, in)
	if err != nil {
		return nil, err
	}

	c := &models.Complaint{
		ID:            uuid.NewString(),
		PhoneModel:    in.PhoneModel,
		IssueDetails:  in.IssueDetails,
		Category:      in.Category,
		Status:        models.StatusPending,
		ConfirmStatus: models.ConfirmPending,
		Lat:           in.Lat,
		Lon:           in.Lon,
	}
	explicitStatus := in.Status != ""
	if explicitStatus {
		c.Status = in.Status
	}
	SyncComplaintIdentity(c, cust)

	s.assignNearest(ctx, c, explicitStatus)

	if err := s.Store.CreateComplaint(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update applies a partial edit. Identity fields flow through the same
// reconciliation as create; changing the category re-runs the nearest
// search and clears any assignment of the other kind.
func (s *ComplaintService) Update(ctx context.Context, id string, in ComplaintInput) (*models.Complaint, error) {
	categoryChanged := in.Category != ""
	if categoryChanged && !models.ValidCategory(in.Category) {
		return nil, ErrInvalidCategory
	}
	if in.Status != "" && !models.ValidStatus(in.Status) {
		return nil, ErrInvalidStatus
	}

	c, err := s.Store.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}

	var linked *models.Customer
	if c.CustomerID != nil {
		linked, err = s.Store.GetCustomer(ctx, *c.CustomerID)
		if err != nil {
			return nil, err
		}
	}

	cust, err := s.resolveCustomer(ctx, linked, in)
	if err != nil {
		return nil, err
	}
	SyncComplaintIdentity(c, cust)

	if in.PhoneModel != "" {
		c.PhoneModel = in.PhoneModel
	}
	if in.IssueDetails != "" {
		c.IssueDetails = in.IssueDetails
	}
	if in.Lat != nil && in.Lon != nil {
		c.Lat = in.Lat
		c.Lon = in.Lon
	}
	explicitStatus := in.Status != ""
	if explicitStatus {
		c.Status = in.Status
	}

	if categoryChanged {
		c.Category = in.Category
		s.assignNearest(ctx, c, explicitStatus)
	}

	if err := s.Store.UpdateComplaint(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// resolveCustomer reconciles the submitted identity against existing
// customers and persists the outcome. The ledger mirror is best effort.
func (s *ComplaintService) resolveCustomer(ctx context.Context, linked *models.Customer, in ComplaintInput) (*models.Customer, error) {
	var match *models.Customer
	if in.Phone != "" || in.Email != "" {
		var err error
		match, err = s.Store.FindCustomerByPhoneOrEmail(ctx, in.Phone, in.Email)
		if err != nil {
			return nil, err
		}
	}

	res := Reconcile(linked, match, in.ContactFields, in.Present)
	switch res.Outcome {
	case OutcomeConflict:
		return nil, &ConflictError{Fields: res.Conflicts}
	case OutcomeCreated:
		if err := s.Store.CreateCustomer(ctx, res.Customer); err != nil {
			return nil, err
		}
	default:
		if err := s.Store.UpdateCustomer(ctx, res.Customer); err != nil {
			return nil, err
		}
	}

	if s.Ledger != nil {
		if err := s.Ledger.SyncCustomer(ctx, res.Customer); err != nil {
			s.Logger.Warn().Err(err).Str("customer", res.Customer.ID).Msg("ledger contact sync failed")
		}
	}
	return res.Customer, nil
}

// assignNearest geocodes the complaint if needed, then assigns the closest
// eligible provider for its category. Every failure mode degrades to an
// unassigned complaint rather than an error; intake never fails because no
// provider could be found.
func (s *ComplaintService) assignNearest(ctx context.Context, c *models.Complaint, explicitStatus bool) {
	if !c.HasCoordinate() {
		lat, lon, err := s.Assigner.ResolveComplaintCoordinate(ctx, c.Area, c.Pincode)
		if err != nil {
			s.Logger.Warn().Err(err).Str("complaint", c.ID).Str("pincode", c.Pincode).
				Msg("could not geocode complaint location")
			ApplyAssignment(c, nil, explicitStatus)
			return
		}
		c.Lat = &lat
		c.Lon = &lon
	}

	pool, err := s.providerPool(ctx, c.Category)
	if err != nil {
		s.Logger.Error().Err(err).Str("complaint", c.ID).Msg("loading provider pool failed")
		ApplyAssignment(c, nil, explicitStatus)
		return
	}

	best, km, ok := s.Assigner.FindNearest(ctx, *c.Lat, *c.Lon, pool)
	if !ok {
		ApplyAssignment(c, nil, explicitStatus)
		return
	}
	ApplyAssignment(c, best, explicitStatus)
	s.Logger.Info().Str("complaint", c.ID).Str("provider", best.ProviderID()).
		Float64("distance_km", km).Msg("nearest provider assigned")
}

func (s *ComplaintService) providerPool(ctx context.Context, category string) ([]models.Provider, error) {
	if category == models.CategoryGrowtag {
		tags, err := s.Store.ListGrowtags(ctx, models.GrowtagActive)
		if err != nil {
			return nil, err
		}
		pool := make([]models.Provider, len(tags))
		for i, g := range tags {
			pool[i] = g
		}
		return pool, nil
	}

	shops, err := s.Store.ListShops(ctx, category, true)
	if err != nil {
		return nil, err
	}
	pool := make([]models.Provider, len(shops))
	for i, sh := range shops {
		pool[i] = sh
	}
	return pool, nil
}

// NearestOptions is the manual-assignment picklist for one location: both
// shop types and technicians ranked by distance.
type NearestOptions struct {
	Lat        float64          `json:"latitude"`
	Lon        float64          `json:"longitude"`
	Franchises []RankedProvider `json:"franchises"`
	OtherShops []RankedProvider `json:"othershops"`
	Growtags   []RankedProvider `json:"growtags"`
}

// NearestProviders resolves a location and returns every eligible provider
// ranked by distance, grouped by category, for manual assignment screens.
func (s *ComplaintService) NearestProviders(ctx context.Context, area, pincode string) (*NearestOptions, error) {
	lat, lon, err := s.Assigner.ResolveComplaintCoordinate(ctx, area, pincode)
	if err != nil {
		return nil, err
	}

	out := &NearestOptions{Lat: lat, Lon: lon}
	for _, category := range []string{models.CategoryFranchise, models.CategoryOtherShop, models.CategoryGrowtag} {
		pool, err := s.providerPool(ctx, category)
		if err != nil {
			return nil, err
		}
		ranked := s.Assigner.RankByDistance(ctx, lat, lon, pool)
		switch category {
		case models.CategoryFranchise:
			out.Franchises = ranked
		case models.CategoryOtherShop:
			out.OtherShops = ranked
		default:
			out.Growtags = ranked
		}
	}
	return out, nil
}

// Confirm records customer acknowledgement of the assignment. A complaint
// confirms at most once; repeat calls fail without modifying anything.
func (s *ComplaintService) Confirm(ctx context.Context, id, actor string) (*models.Complaint, error) {
	c, err := s.Store.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.ConfirmStatus == models.ConfirmConfirmed {
		return nil, ErrAlreadyConfirmed
	}

	now := time.Now().UTC()
	c.ConfirmStatus = models.ConfirmConfirmed
	c.ConfirmedAt = &now
	if actor != "" {
		c.ConfirmedBy = &actor
	}
	if err := s.Store.UpdateComplaint(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
