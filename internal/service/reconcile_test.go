package service

import (
	"testing"

	"github.com/growfix/backend/internal/models"
	"github.com/growfix/backend/internal/utils"
)

func TestReconcileCreatesNewCustomer(t *testing.T) {
	res := Reconcile(nil, nil, ContactFields{
		Name:       "Asha",
		Phone:      "9846000001",
		Credential: "secret123",
		Area:       "Kozhikode",
		Pincode:    "673001",
	}, nil)

	if res.Outcome != OutcomeCreated {
		t.Fatalf("expected Created, got %s", res.Outcome)
	}
	c := res.Customer
	if c.ID == "" {
		t.Fatalf("expected generated id")
	}
	if c.Phone == nil || *c.Phone != "9846000001" {
		t.Fatalf("phone not set: %+v", c)
	}
	if c.Credential == "" || c.Credential == "secret123" {
		t.Fatalf("credential must be stored hashed, got %q", c.Credential)
	}
	if !utils.CheckCredential(c.Credential, "secret123") {
		t.Fatalf("stored hash does not verify")
	}
}

func TestReconcileLinksExistingByPhone(t *testing.T) {
	phone := "9846000001"
	existing := &models.Customer{ID: "c1", Name: "Asha", Phone: &phone}

	res := Reconcile(nil, existing, ContactFields{Name: "Asha", Phone: phone, Area: "Feroke"}, nil)
	if res.Outcome != OutcomeLinked {
		t.Fatalf("expected Linked, got %s", res.Outcome)
	}
	if res.Customer.ID != "c1" {
		t.Fatalf("expected existing customer adopted, got %s", res.Customer.ID)
	}
	if res.Customer.Area != "Feroke" {
		t.Fatalf("expected contact fields applied, got %q", res.Customer.Area)
	}
}

func TestReconcileNameMismatchConflicts(t *testing.T) {
	phone := "9846000001"
	existing := &models.Customer{ID: "c1", Name: "Asha", Phone: &phone}

	res := Reconcile(nil, existing, ContactFields{Name: "Someone Else", Phone: phone}, nil)
	if res.Outcome != OutcomeConflict {
		t.Fatalf("expected Conflict, got %s", res.Outcome)
	}
	if res.Customer != nil {
		t.Fatalf("conflict must not return a customer")
	}
	if res.Conflicts["customer_name"] != "Customer name does not match the existing account." {
		t.Fatalf("unexpected conflict message: %v", res.Conflicts)
	}
}

func TestReconcileCredentialMismatchConflicts(t *testing.T) {
	hash, err := utils.HashCredential("right-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	phone := "9846000001"
	existing := &models.Customer{ID: "c1", Name: "Asha", Phone: &phone, Credential: hash}

	res := Reconcile(nil, existing, ContactFields{Name: "Asha", Phone: phone, Credential: "wrong-password"}, nil)
	if res.Outcome != OutcomeConflict {
		t.Fatalf("expected Conflict, got %s", res.Outcome)
	}
	if res.Conflicts["password"] != "Password does not match the existing account." {
		t.Fatalf("unexpected conflict message: %v", res.Conflicts)
	}
}

func TestReconcileLinkedCustomerSkipsConflictCheck(t *testing.T) {
	phone := "9846000001"
	linked := &models.Customer{ID: "c1", Name: "Asha", Phone: &phone}

	// The complaint already belongs to c1; a name edit on the linked
	// account is an update, not an identity claim.
	res := Reconcile(linked, linked, ContactFields{Name: "Asha Menon", Phone: phone}, nil)
	if res.Outcome != OutcomeLinked {
		t.Fatalf("expected Linked, got %s", res.Outcome)
	}
	if res.Customer.Name != "Asha Menon" {
		t.Fatalf("expected name updated, got %q", res.Customer.Name)
	}
}

func TestReconcilePartialUpdateLeavesOmittedFields(t *testing.T) {
	phone := "9846000001"
	linked := &models.Customer{ID: "c1", Name: "Asha", Phone: &phone, Area: "Kozhikode", Pincode: "673001"}

	res := Reconcile(linked, nil, ContactFields{Area: "Feroke"}, map[string]bool{"area": true})
	if res.Outcome != OutcomeLinked {
		t.Fatalf("expected Linked, got %s", res.Outcome)
	}
	if res.Customer.Area != "Feroke" {
		t.Fatalf("expected area updated, got %q", res.Customer.Area)
	}
	if res.Customer.Pincode != "673001" {
		t.Fatalf("omitted pincode must be untouched, got %q", res.Customer.Pincode)
	}
}

func TestSyncComplaintIdentityOverwritesFromCustomer(t *testing.T) {
	phone := "9846000001"
	email := "asha@example.com"
	cust := &models.Customer{
		ID: "c1", Name: "Asha", Phone: &phone, Email: &email,
		Address: "12 Beach Rd", State: "Kerala", Pincode: "673001", Area: "Kozhikode",
	}
	c := &models.Complaint{CustomerName: "asha ", CustomerPhone: "0000"}

	SyncComplaintIdentity(c, cust)
	if c.CustomerID == nil || *c.CustomerID != "c1" {
		t.Fatalf("customer id not linked")
	}
	if c.CustomerName != "Asha" || c.CustomerPhone != phone {
		t.Fatalf("identity not synced: %+v", c)
	}
	if c.Email == nil || *c.Email != email {
		t.Fatalf("email not synced")
	}
	if c.Pincode != "673001" || c.Area != "Kozhikode" {
		t.Fatalf("location not synced: %+v", c)
	}
}
