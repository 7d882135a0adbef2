package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/growfix/backend/internal/models"
	"github.com/growfix/backend/internal/utils"
)

// ContactFields is the identity portion of a complaint or registration
// submission. Credential is the plaintext secret as submitted; it is only
// ever stored hashed.
type ContactFields struct {
	Name       string
	Phone      string
	Email      string
	Credential string
	Address    string
	State      string
	Pincode    string
	Area       string
}

type ReconcileOutcome string

const (
	OutcomeCreated  ReconcileOutcome = "created"
	OutcomeLinked   ReconcileOutcome = "linked"
	OutcomeConflict ReconcileOutcome = "conflict"
)

// ReconcileResult is the typed outcome of matching a submission to a
// customer record. Callers must handle all three variants; Conflicts is
// populated only for OutcomeConflict and maps field name to reason.
type ReconcileResult struct {
	Outcome   ReconcileOutcome
	Customer  *models.Customer
	Conflicts map[string]string
}

// Reconcile decides which Customer a submission belongs to, without touching
// storage. linked is the customer currently referenced by the complaint (nil
// on create); match is an existing customer found by phone or email (nil if
// none). present limits which fields a partial update applies; nil means
// full-replace semantics.
//
// Adopting a match that is not the already-linked customer is an identity
// claim, so it is conflict-checked: a non-empty submitted name that differs
// from the match's stored name, or a non-empty submitted credential that
// fails against the match's stored hash, rejects the whole submission before
// anything is persisted.
func Reconcile(linked, match *models.Customer, fields ContactFields, present map[string]bool) ReconcileResult {
	fields.Name = strings.TrimSpace(fields.Name)
	fields.Phone = strings.TrimSpace(fields.Phone)
	fields.Email = strings.TrimSpace(fields.Email)

	if match != nil && (linked == nil || linked.ID != match.ID) {
		conflicts := map[string]string{}
		if fields.Name != "" && match.Name != "" && fields.Name != match.Name {
			conflicts["customer_name"] = "Customer name does not match the existing account."
		}
		if fields.Credential != "" && match.Credential != "" && !utils.CheckCredential(match.Credential, fields.Credential) {
			conflicts["password"] = "Password does not match the existing account."
		}
		if len(conflicts) > 0 {
			return ReconcileResult{Outcome: OutcomeConflict, Conflicts: conflicts}
		}
		linked = match
	}

	if linked == nil {
		c := &models.Customer{
			ID:      uuid.NewString(),
			Name:    fields.Name,
			Address: fields.Address,
			State:   fields.State,
			Pincode: fields.Pincode,
			Area:    fields.Area,
		}
		if fields.Phone != "" {
			c.Phone = &fields.Phone
		}
		if fields.Email != "" {
			c.Email = &fields.Email
		}
		if fields.Credential != "" {
			if h, err := utils.HashCredential(fields.Credential); err == nil {
				c.Credential = h
			}
		}
		return ReconcileResult{Outcome: OutcomeCreated, Customer: c}
	}

	applyContactFields(linked, fields, present)
	return ReconcileResult{Outcome: OutcomeLinked, Customer: linked}
}

func applyContactFields(c *models.Customer, fields ContactFields, present map[string]bool) {
	has := func(name string) bool { return present == nil || present[name] }

	if has("customer_name") && fields.Name != "" {
		c.Name = fields.Name
	}
	if has("customer_phone") && fields.Phone != "" {
		phone := fields.Phone
		c.Phone = &phone
	}
	if has("email") && fields.Email != "" {
		email := fields.Email
		c.Email = &email
	}
	if has("password") && fields.Credential != "" {
		if h, err := utils.HashCredential(fields.Credential); err == nil {
			c.Credential = h
		}
	}
	if has("address") && fields.Address != "" {
		c.Address = fields.Address
	}
	if has("state") && fields.State != "" {
		c.State = fields.State
	}
	if has("pincode") && fields.Pincode != "" {
		c.Pincode = fields.Pincode
	}
	if has("area") && fields.Area != "" {
		c.Area = fields.Area
	}
}

// ConflictError carries field-level reasons for a rejected identity claim.
type ConflictError struct {
	Fields map[string]string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("identity conflict: %d field(s)", len(e.Fields))
}

// SyncComplaintIdentity overwrites the complaint's denormalized identity
// fields from the resolved customer. After reconciliation the customer
// record is the source of truth, even when the submission differed in
// casing or whitespace.
func SyncComplaintIdentity(c *models.Complaint, cust *models.Customer) {
	c.CustomerID = &cust.ID
	c.CustomerName = cust.Name
	if cust.Phone != nil {
		c.CustomerPhone = *cust.Phone
	}
	c.Email = cust.Email
	if cust.Address != "" {
		c.Address = cust.Address
	}
	if cust.State != "" {
		c.State = cust.State
	}
	if cust.Pincode != "" {
		c.Pincode = cust.Pincode
	}
	if cust.Area != "" {
		c.Area = cust.Area
	}
}
