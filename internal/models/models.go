package models

import (
	"fmt"
	"time"
)

const (
	CategoryFranchise = "franchise"
	CategoryOtherShop = "othershop"
	CategoryGrowtag   = "growtag"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryFranchise, CategoryOtherShop, CategoryGrowtag:
		return true
	}
	return false
}

const (
	StatusPending    = "Pending"
	StatusAssigned   = "Assigned"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

const (
	ConfirmPending   = "NOT_CONFIRMED"
	ConfirmConfirmed = "CONFIRMED"
)

const (
	GrowtagActive   = "Active"
	GrowtagInactive = "Inactive"
)

const (
	LeadNew       = "NEW"
	LeadConverted = "CONVERTED"
)

// Provider is the common view of anything a complaint can be assigned to:
// a shop (franchise or othershop) or a field technician (growtag).
type Provider interface {
	ProviderID() string
	DisplayLabel() string
	Coordinate() (lat float64, lon float64, ok bool)
	SetCoordinate(lat, lon float64)
	Location() (area string, pincode string)
	Eligible() bool
}

type Shop struct {
	ID        string    `json:"id"`
	ShopType  string    `json:"shop_type"`
	Name      string    `json:"shopname"`
	Owner     string    `json:"owner"`
	Phone     *string   `json:"phone"`
	Email     *string   `json:"email"`
	GSTPin    *string   `json:"gst_pin"`
	Address   string    `json:"address"`
	Area      string    `json:"area"`
	Pincode   string    `json:"pincode"`
	Active    bool      `json:"status"`
	Lat       *float64  `json:"latitude"`
	Lon       *float64  `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Shop) ProviderID() string   { return s.ID }
func (s *Shop) DisplayLabel() string { return s.Name }
func (s *Shop) Eligible() bool       { return s.Active }

func (s *Shop) Coordinate() (float64, float64, bool) {
	if s.Lat == nil || s.Lon == nil {
		return 0, 0, false
	}
	return *s.Lat, *s.Lon, true
}

func (s *Shop) SetCoordinate(lat, lon float64) {
	s.Lat = &lat
	s.Lon = &lon
}

func (s *Shop) Location() (string, string) { return s.Area, s.Pincode }

type Growtag struct {
	ID        string    `json:"id"`
	GrowID    string    `json:"grow_id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	Email     string    `json:"email"`
	Aadhaar   *string   `json:"adhar"`
	Address   string    `json:"address"`
	Area      string    `json:"area"`
	Pincode   string    `json:"pincode"`
	Status    string    `json:"status"`
	Lat       *float64  `json:"latitude"`
	Lon       *float64  `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

func (g *Growtag) ProviderID() string   { return g.ID }
func (g *Growtag) DisplayLabel() string { return fmt.Sprintf("%s - %s", g.Name, g.GrowID) }
func (g *Growtag) Eligible() bool       { return g.Status == GrowtagActive }

func (g *Growtag) Coordinate() (float64, float64, bool) {
	if g.Lat == nil || g.Lon == nil {
		return 0, 0, false
	}
	return *g.Lat, *g.Lon, true
}

func (g *Growtag) SetCoordinate(lat, lon float64) {
	g.Lat = &lat
	g.Lon = &lon
}

func (g *Growtag) Location() (string, string) { return g.Area, g.Pincode }

type Customer struct {
	ID         string    `json:"id"`
	Name       string    `json:"customer_name"`
	Phone      *string   `json:"customer_phone"`
	Email      *string   `json:"email"`
	Credential string    `json:"-"`
	Address    string    `json:"address"`
	State      string    `json:"state"`
	Pincode    string    `json:"pincode"`
	Area       string    `json:"area"`
	CreatedAt  time.Time `json:"created_at"`
}

// AssignKind tags the provider variant a complaint is assigned to.
type AssignKind string

const (
	AssignNone    AssignKind = ""
	AssignShop    AssignKind = "shop"
	AssignGrowtag AssignKind = "growtag"
)

// AssignmentRef is the complaint's assignment as a tagged union: unassigned,
// a shop, or a growtag. A single field keeps the shop and technician
// references mutually exclusive by construction.
type AssignmentRef struct {
	Kind  AssignKind `json:"kind"`
	ID    string     `json:"id,omitempty"`
	Label string     `json:"label,omitempty"`
}

func AssignedShop(id, label string) AssignmentRef {
	return AssignmentRef{Kind: AssignShop, ID: id, Label: label}
}

func AssignedGrowtag(id, label string) AssignmentRef {
	return AssignmentRef{Kind: AssignGrowtag, ID: id, Label: label}
}

func (a AssignmentRef) IsAssigned() bool { return a.Kind != AssignNone }

func (a AssignmentRef) ShopID() *string {
	if a.Kind == AssignShop {
		id := a.ID
		return &id
	}
	return nil
}

func (a AssignmentRef) GrowtagID() *string {
	if a.Kind == AssignGrowtag {
		id := a.ID
		return &id
	}
	return nil
}

type Complaint struct {
	ID         string  `json:"id"`
	CustomerID *string `json:"customer_id"`

	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	Email         *string `json:"email"`
	Address       string  `json:"address"`
	State         string  `json:"state"`
	Pincode       string  `json:"pincode"`
	Area          string  `json:"area"`

	PhoneModel   string `json:"phone_model"`
	IssueDetails string `json:"issue_details"`

	Category string        `json:"assign_to"`
	Assigned AssignmentRef `json:"assigned"`

	Lat *float64 `json:"latitude"`
	Lon *float64 `json:"longitude"`

	Status        string     `json:"status"`
	ConfirmStatus string     `json:"confirm_status"`
	ConfirmedBy   *string    `json:"confirmed_by"`
	ConfirmedAt   *time.Time `json:"confirmed_at"`

	CreatedAt time.Time `json:"created_at"`
}

// AssignedProviderDisplayName is what the notification sender shows the
// customer: the shop name or the technician identity string.
func (c *Complaint) AssignedProviderDisplayName() string {
	return c.Assigned.Label
}

func (c *Complaint) HasCoordinate() bool { return c.Lat != nil && c.Lon != nil }

type Lead struct {
	ID          string    `json:"id"`
	LeadCode    string    `json:"lead_code"`
	Name        string    `json:"customer_name"`
	Phone       string    `json:"customer_phone"`
	Email       *string   `json:"email"`
	PhoneModel  string    `json:"phone_model"`
	IssueDetail string    `json:"issue_detail"`
	Address     string    `json:"address"`
	Pincode     string    `json:"pincode"`
	Area        string    `json:"area"`
	Source      string    `json:"source"`
	VisitorID   *string   `json:"visitor_id"`
	RawPayload  []byte    `json:"-"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	SyncPending = "PENDING"
	SyncSynced  = "SYNCED"
	SyncFailed  = "FAILED"
)

// LedgerContact mirrors a Customer into the external accounting ledger.
type LedgerContact struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      *string   `json:"email"`
	Phone      string    `json:"phone"`
	State      string    `json:"state"`
	ContactID  string    `json:"ledger_contact_id"`
	SyncStatus string    `json:"sync_status"`
	LastError  string    `json:"last_error"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const (
	ExpensePending  = "PENDING"
	ExpenseApproved = "APPROVED"
	ExpenseRejected = "REJECTED"
)

type ExpenseCategory struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Expense struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Merchant      string    `json:"merchant"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	CategoryID    string    `json:"category_id"`
	CategoryName  string    `json:"category_name,omitempty"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
