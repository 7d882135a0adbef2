package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/growfix/backend/internal/models"
)

var (
	ErrLeadConverted    = errors.New("lead already converted")
	ErrUnknownProvider  = errors.New("assigned provider not found")
	ErrLeadMissingPhone = errors.New("lead has no phone number")
)

// LeadStore is the persistence surface for lead intake and promotion.
type LeadStore interface {
	Store

	FindLeadByPhone(ctx context.Context, phone string) (*models.Lead, error)
	FindLeadByVisitor(ctx context.Context, visitorID string) (*models.Lead, error)
	CreateLead(ctx context.Context, l *models.Lead) error
	UpdateLead(ctx context.Context, l *models.Lead) error
	GetLead(ctx context.Context, id string) (*models.Lead, error)
	MarkLeadConverted(ctx context.Context, id string) error

	GetShop(ctx context.Context, id string) (*models.Shop, error)
	GetGrowtag(ctx context.Context, id string) (*models.Growtag, error)
}

// LeadService handles website enquiries: webhook ingestion with dedupe and
// promotion of a lead into a real complaint.
type LeadService struct {
	Store  LeadStore
	Logger zerolog.Logger
}

// LeadInput is a raw enquiry from the website form webhook.
type LeadInput struct {
	Name        string
	Phone       string
	Email       string
	PhoneModel  string
	IssueDetail string
	Address     string
	Pincode     string
	Area        string
	Source      string
	VisitorID   string
	RawPayload  []byte
}

// Ingest records an enquiry, folding repeat submissions into the existing
// lead. Dedupe matches by phone first, then by the site visitor id for
// submissions without a phone. Converted leads are never reopened; a repeat
// submission after conversion starts a fresh lead.
func (s *LeadService) Ingest(ctx context.Context, in LeadInput) (*models.Lead, error) {
	in.Phone = strings.TrimSpace(in.Phone)
	in.Name = strings.TrimSpace(in.Name)

	existing, err := s.findOpenLead(ctx, in)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		mergeLead(existing, in)
		if err := s.Store.UpdateLead(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	l := &models.Lead{
		ID:          uuid.NewString(),
		LeadCode:    newLeadCode(),
		Name:        in.Name,
		Phone:       in.Phone,
		PhoneModel:  in.PhoneModel,
		IssueDetail: in.IssueDetail,
		Address:     in.Address,
		Pincode:     in.Pincode,
		Area:        in.Area,
		Source:      in.Source,
		RawPayload:  in.RawPayload,
		Status:      models.LeadNew,
	}
	if in.Email != "" {
		email := in.Email
		l.Email = &email
	}
	if in.VisitorID != "" {
		visitor := in.VisitorID
		l.VisitorID = &visitor
	}
	if err := s.Store.CreateLead(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LeadService) findOpenLead(ctx context.Context, in LeadInput) (*models.Lead, error) {
	if in.Phone != "" {
		l, err := s.Store.FindLeadByPhone(ctx, in.Phone)
		if err != nil {
			return nil, err
		}
		if l != nil && l.Status != models.LeadConverted {
			return l, nil
		}
		return nil, nil
	}
	if in.VisitorID != "" {
		l, err := s.Store.FindLeadByVisitor(ctx, in.VisitorID)
		if err != nil {
			return nil, err
		}
		if l != nil && l.Status != models.LeadConverted {
			return l, nil
		}
	}
	return nil, nil
}

func mergeLead(l *models.Lead, in LeadInput) {
	if in.Name != "" {
		l.Name = in.Name
	}
	if in.Phone != "" {
		l.Phone = in.Phone
	}
	if in.Email != "" {
		email := in.Email
		l.Email = &email
	}
	if in.PhoneModel != "" {
		l.PhoneModel = in.PhoneModel
	}
	if in.IssueDetail != "" {
		l.IssueDetail = in.IssueDetail
	}
	if in.Address != "" {
		l.Address = in.Address
	}
	if in.Pincode != "" {
		l.Pincode = in.Pincode
	}
	if in.Area != "" {
		l.Area = in.Area
	}
	if in.VisitorID != "" {
		visitor := in.VisitorID
		l.VisitorID = &visitor
	}
	if len(in.RawPayload) > 0 {
		l.RawPayload = in.RawPayload
	}
}

func newLeadCode() string {
	return fmt.Sprintf("LD-%s-%s", time.Now().UTC().Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}

// PromoteInput is the admin's conversion of a lead: the chosen category and
// the manually picked provider.
type PromoteInput struct {
	Category   string
	ProviderID string
	Status     string
}

// Promote converts a NEW lead into a complaint assigned to the chosen
// provider. A lead converts exactly once. The provider must exist and match
// the category's kind.
func (s *LeadService) Promote(ctx context.Context, leadID string, in PromoteInput) (*models.Complaint, error) {
	if !models.ValidCategory(in.Category) {
		return nil, ErrInvalidCategory
	}
	if in.Status != "" && !models.ValidStatus(in.Status) {
		return nil, ErrInvalidStatus
	}

	l, err := s.Store.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if l.Status == models.LeadConverted {
		return nil, ErrLeadConverted
	}
	if l.Phone == "" {
		return nil, ErrLeadMissingPhone
	}

	assigned, err := s.lookupProvider(ctx, in.Category, in.ProviderID)
	if err != nil {
		return nil, err
	}

	cust, err := s.customerForLead(ctx, l)
	if err != nil {
		return nil, err
	}

	c := &models.Complaint{
		ID:            uuid.NewString(),
		PhoneModel:    l.PhoneModel,
		IssueDetails:  l.IssueDetail,
		Category:      in.Category,
		Status:        models.StatusAssigned,
		ConfirmStatus: models.ConfirmPending,
	}
	if in.Status != "" {
		c.Status = in.Status
	}
	SyncComplaintIdentity(c, cust)
	if c.Address == "" {
		c.Address = l.Address
	}
	if c.Pincode == "" {
		c.Pincode = l.Pincode
	}
	if c.Area == "" {
		c.Area = l.Area
	}

	if in.Category == models.CategoryGrowtag {
		c.Assigned = models.AssignedGrowtag(assigned.ProviderID(), assigned.DisplayLabel())
	} else {
		c.Assigned = models.AssignedShop(assigned.ProviderID(), assigned.DisplayLabel())
	}

	if err := s.Store.CreateComplaint(ctx, c); err != nil {
		return nil, err
	}
	if err := s.Store.MarkLeadConverted(ctx, l.ID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *LeadService) lookupProvider(ctx context.Context, category, providerID string) (models.Provider, error) {
	if category == models.CategoryGrowtag {
		g, err := s.Store.GetGrowtag(ctx, providerID)
		if err != nil {
			return nil, ErrUnknownProvider
		}
		return g, nil
	}
	sh, err := s.Store.GetShop(ctx, providerID)
	if err != nil {
		return nil, ErrUnknownProvider
	}
	return sh, nil
}

// customerForLead links the lead to an existing customer by phone, creating
// one when the phone is new.
func (s *LeadService) customerForLead(ctx context.Context, l *models.Lead) (*models.Customer, error) {
	email := ""
	if l.Email != nil {
		email = *l.Email
	}
	match, err := s.Store.FindCustomerByPhoneOrEmail(ctx, l.Phone, email)
	if err != nil {
		return nil, err
	}

	fields := ContactFields{
		Name:    l.Name,
		Phone:   l.Phone,
		Email:   email,
		Address: l.Address,
		Pincode: l.Pincode,
		Area:    l.Area,
	}
	res := Reconcile(nil, match, fields, nil)
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
	return res.Customer, nil
}
