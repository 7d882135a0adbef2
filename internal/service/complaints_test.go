package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/growfix/backend/internal/geocode"
	"github.com/growfix/backend/internal/models"
)

type fakeStore struct {
	customers  map[string]*models.Customer
	complaints map[string]*models.Complaint
	shops      []*models.Shop
	growtags   []*models.Growtag
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers:  map[string]*models.Customer{},
		complaints: map[string]*models.Complaint{},
	}
}

func (f *fakeStore) FindCustomerByPhoneOrEmail(ctx context.Context, phone, email string) (*models.Customer, error) {
	for _, c := range f.customers {
		if phone != "" && c.Phone != nil && *c.Phone == phone {
			return c, nil
		}
		if email != "" && c.Email != nil && *c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateCustomer(ctx context.Context, c *models.Customer) error {
	f.customers[c.ID] = c
	return nil
}

func (f *fakeStore) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	f.customers[c.ID] = c
	return nil
}

func (f *fakeStore) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, errors.New("customer not found")
	}
	return c, nil
}

func (f *fakeStore) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	f.complaints[c.ID] = c
	return nil
}

func (f *fakeStore) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	c, ok := f.complaints[id]
	if !ok {
		return nil, errors.New("complaint not found")
	}
	return c, nil
}

func (f *fakeStore) UpdateComplaint(ctx context.Context, c *models.Complaint) error {
	f.complaints[c.ID] = c
	return nil
}

func (f *fakeStore) ListShops(ctx context.Context, shopType string, activeOnly bool) ([]*models.Shop, error) {
	var out []*models.Shop
	for _, sh := range f.shops {
		if shopType != "" && sh.ShopType != shopType {
			continue
		}
		if activeOnly && !sh.Active {
			continue
		}
		out = append(out, sh)
	}
	return out, nil
}

func (f *fakeStore) ListGrowtags(ctx context.Context, status string) ([]*models.Growtag, error) {
	var out []*models.Growtag
	for _, g := range f.growtags {
		if status != "" && g.Status != status {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func newComplaintService(store *fakeStore, g geocode.Geocoder) *ComplaintService {
	return &ComplaintService{
		Store:    store,
		Assigner: &AssignmentService{Geocoder: g, Region: "Kerala, India", Logger: zerolog.Nop()},
		Logger:   zerolog.Nop(),
	}
}

func franchiseShop(id, name string, lat, lon float64) *models.Shop {
	sh := &models.Shop{ID: id, Name: name, ShopType: models.CategoryFranchise, Active: true}
	sh.Lat, sh.Lon = coords(lat, lon)
	return sh
}

func TestCreateAssignsNearestShop(t *testing.T) {
	store := newFakeStore()
	store.shops = []*models.Shop{
		franchiseShop("s-far", "Far Fix", 11.35, 75.95),
		franchiseShop("s-near", "Near Fix", 11.26, 75.79),
	}
	svc := newComplaintService(store, &stubGeocoder{lat: 11.25, lon: 75.78})

	c, err := svc.Create(context.Background(), ComplaintInput{
		ContactFields: ContactFields{Name: "Asha", Phone: "9846000001", Area: "Kozhikode", Pincode: "673001"},
		PhoneModel:    "Pixel 7",
		IssueDetails:  "screen cracked",
		Category:      models.CategoryFranchise,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if c.Assigned.Kind != models.AssignShop || c.Assigned.ID != "s-near" {
		t.Fatalf("expected nearest shop assigned, got %+v", c.Assigned)
	}
	if c.Assigned.Label != "Near Fix" {
		t.Fatalf("unexpected label %q", c.Assigned.Label)
	}
	if c.Status != models.StatusAssigned {
		t.Fatalf("expected Assigned status, got %s", c.Status)
	}
	if c.ConfirmStatus != models.ConfirmPending {
		t.Fatalf("expected NOT_CONFIRMED, got %s", c.ConfirmStatus)
	}
	if !c.HasCoordinate() {
		t.Fatalf("expected complaint geocoded")
	}
	if len(store.customers) != 1 {
		t.Fatalf("expected one customer created, got %d", len(store.customers))
	}
	if len(store.complaints) != 1 {
		t.Fatalf("expected complaint persisted")
	}
	if c.CustomerID == nil {
		t.Fatalf("complaint not linked to customer")
	}
}

func TestCreateExplicitStatusSuppressesAutoAssigned(t *testing.T) {
	store := newFakeStore()
	store.shops = []*models.Shop{franchiseShop("s1", "Near Fix", 11.26, 75.79)}
	svc := newComplaintService(store, &stubGeocoder{lat: 11.25, lon: 75.78})

	c, err := svc.Create(context.Background(), ComplaintInput{
		ContactFields: ContactFields{Name: "Asha", Phone: "9846000001", Pincode: "673001"},
		Category:      models.CategoryFranchise,
		Status:        models.StatusInProgress,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !c.Assigned.IsAssigned() {
		t.Fatalf("expected assignment")
	}
	if c.Status != models.StatusInProgress {
		t.Fatalf("explicit status must win, got %s", c.Status)
	}
}

func TestCreateGeocodeFailureLeavesUnassigned(t *testing.T) {
	store := newFakeStore()
	store.shops = []*models.Shop{franchiseShop("s1", "Near Fix", 11.26, 75.79)}
	svc := newComplaintService(store, &stubGeocoder{err: errors.New("upstream down")})

	c, err := svc.Create(context.Background(), ComplaintInput{
		ContactFields: ContactFields{Name: "Asha", Phone: "9846000001", Pincode: "000000"},
		Category:      models.CategoryFranchise,
	})
	if err != nil {
		t.Fatalf("intake must not fail on geocode miss: %v", err)
	}
	if c.Assigned.IsAssigned() {
		t.Fatalf("expected no assignment, got %+v", c.Assigned)
	}
	if c.Status != models.StatusPending {
		t.Fatalf("expected Pending, got %s", c.Status)
	}
	if len(store.complaints) != 1 {
		t.Fatalf("complaint must still be persisted")
	}
}

func TestCreateClientCoordinatesSkipGeocoding(t *testing.T) {
	store := newFakeStore()
	store.shops = []*models.Shop{franchiseShop("s1", "Near Fix", 11.26, 75.79)}
	g := &stubGeocoder{lat: 99, lon: 99}
	svc := newComplaintService(store, g)

	lat, lon := coords(11.25, 75.78)
	c, err := svc.Create(context.Background(), ComplaintInput{
		ContactFields: ContactFields{Name: "Asha", Phone: "9846000001", Pincode: "673001"},
		Category:      models.CategoryFranchise,
		Lat:           lat,
		Lon:           lon,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if *c.Lat != 11.25 || *c.Lon != 75.78 {
		t.Fatalf("client coordinate must be kept, got %f,%f", *c.Lat, *c.Lon)
	}
	if g.calls != 0 {
		t.Fatalf("expected no geocode call for the complaint, got %d", g.calls)
	}
}

func TestCreateConflictPersistsNothing(t *testing.T) {
	store := newFakeStore()
	phone := "9846000001"
	store.customers["c1"] = &models.Customer{ID: "c1", Name: "Asha", Phone: &phone}
	svc := newComplaintService(store, &stubGeocoder{lat: 11.25, lon: 75.78})

	_, err := svc.Create(context.Background(), ComplaintInput{
		ContactFields: ContactFields{Name: "Someone Else", Phone: phone, Pincode: "673001"},
		Category:      models.CategoryFranchise,
	})

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(store.complaints) != 0 {
		t.Fatalf("conflict must not persist a complaint")
	}
	if len(store.customers) != 1 {
		t.Fatalf("conflict must not create a customer")
	}
}

func TestCreateInvalidCategory(t *testing.T) {
	svc := newComplaintService(newFakeStore(), &stubGeocoder{})
	_, err := svc.Create(context.Background(), ComplaintInput{
		ContactFields: ContactFields{Name: "Asha", Phone: "9846000001"},
		Category:      "warehouse",
	})
	if !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestCreateGrowtagEmptyPoolStaysPending(t *testing.T) {
	store := newFakeStore()
	svc := newComplaintService(store, &stubGeocoder{lat: 11.25, lon: 75.78})

	c, err := svc.Create(context.Background(), ComplaintInput{
		ContactFields: ContactFields{Name: "Asha", Phone: "9846000001", Pincode: "673001"},
		Category:      models.CategoryGrowtag,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Assigned.IsAssigned() {
		t.Fatalf("expected no assignment with empty pool")
	}
	if c.Status != models.StatusPending {
		t.Fatalf("expected Pending, got %s", c.Status)
	}
}

func TestUpdateCategorySwitchClearsShopAndAssignsGrowtag(t *testing.T) {
	store := newFakeStore()
	g := &models.Growtag{ID: "g1", GrowID: "GT-01", Name: "Anand", Status: models.GrowtagActive}
	g.Lat, g.Lon = coords(11.26, 75.79)
	store.growtags = []*models.Growtag{g}
	svc := newComplaintService(store, &stubGeocoder{lat: 11.25, lon: 75.78})

	phone := "9846000001"
	store.customers["c1"] = &models.Customer{ID: "c1", Name: "Asha", Phone: &phone}
	cid := "c1"
	lat, lon := coords(11.25, 75.78)
	store.complaints["cmp1"] = &models.Complaint{
		ID: "cmp1", CustomerID: &cid, CustomerName: "Asha", CustomerPhone: phone,
		Category: models.CategoryFranchise,
		Assigned: models.AssignedShop("s1", "Near Fix"),
		Lat:      lat, Lon: lon,
		Status: models.StatusAssigned, ConfirmStatus: models.ConfirmPending,
	}

	c, err := svc.Update(context.Background(), "cmp1", ComplaintInput{
		Category: models.CategoryGrowtag,
		Present:  map[string]bool{"assign_to": true},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if c.Assigned.Kind != models.AssignGrowtag || c.Assigned.ID != "g1" {
		t.Fatalf("expected growtag assignment, got %+v", c.Assigned)
	}
	if c.Assigned.ShopID() != nil {
		t.Fatalf("shop reference must be cleared")
	}
}

func TestConfirmIsOnceOnly(t *testing.T) {
	store := newFakeStore()
	store.complaints["cmp1"] = &models.Complaint{ID: "cmp1", ConfirmStatus: models.ConfirmPending}
	svc := newComplaintService(store, &stubGeocoder{})

	c, err := svc.Confirm(context.Background(), "cmp1", "asha")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if c.ConfirmStatus != models.ConfirmConfirmed || c.ConfirmedAt == nil {
		t.Fatalf("confirmation not recorded: %+v", c)
	}
	if c.ConfirmedBy == nil || *c.ConfirmedBy != "asha" {
		t.Fatalf("confirmed_by not recorded")
	}

	if _, err := svc.Confirm(context.Background(), "cmp1", "asha"); !errors.Is(err, ErrAlreadyConfirmed) {
		t.Fatalf("expected ErrAlreadyConfirmed, got %v", err)
	}
}
