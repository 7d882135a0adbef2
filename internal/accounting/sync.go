package accounting

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/growfix/backend/internal/models"
)

// ContactStore is the local mirror of ledger contacts.
type ContactStore interface {
	UpsertLedgerContact(ctx context.Context, c *models.LedgerContact) error
	FindLedgerContactByPhone(ctx context.Context, phone string) (*models.LedgerContact, error)
	ListUnsyncedContacts(ctx context.Context, limit int) ([]*models.LedgerContact, error)
}

// Syncer mirrors customers into the accounting ledger. Each customer gets a
// local ledger_contacts row whose sync_status records whether the remote
// write has happened yet; failures stay PENDING/FAILED for the retry job.
type Syncer struct {
	API    ContactAPI
	Store  ContactStore
	Logger zerolog.Logger
}

// SyncCustomer upserts the local mirror row and pushes it to the ledger.
// A remote failure is recorded on the row and returned; callers decide
// whether it blocks them (the complaint workflow does not).
func (s *Syncer) SyncCustomer(ctx context.Context, cust *models.Customer) error {
	if cust.Phone == nil || *cust.Phone == "" {
		// The ledger dedupes contacts by phone; nothing to key on.
		return nil
	}

	contact := &models.LedgerContact{
		ID:         uuid.NewString(),
		Name:       cust.Name,
		Email:      cust.Email,
		Phone:      *cust.Phone,
		State:      cust.State,
		SyncStatus: models.SyncPending,
	}
	if existing, err := s.Store.FindLedgerContactByPhone(ctx, contact.Phone); err != nil {
		return err
	} else if existing != nil {
		contact.ID = existing.ID
		contact.ContactID = existing.ContactID
	}

	if err := s.Store.UpsertLedgerContact(ctx, contact); err != nil {
		return err
	}
	return s.push(ctx, contact)
}

// push performs the remote write and records the outcome locally.
func (s *Syncer) push(ctx context.Context, contact *models.LedgerContact) error {
	remote, err := s.pushRemote(ctx, contact)
	if err != nil {
		contact.SyncStatus = models.SyncFailed
		contact.LastError = err.Error()
		if uerr := s.Store.UpsertLedgerContact(ctx, contact); uerr != nil {
			s.Logger.Error().Err(uerr).Str("phone", contact.Phone).Msg("recording sync failure failed")
		}
		return err
	}

	contact.ContactID = remote.ContactID
	contact.SyncStatus = models.SyncSynced
	contact.LastError = ""
	return s.Store.UpsertLedgerContact(ctx, contact)
}

func (s *Syncer) pushRemote(ctx context.Context, contact *models.LedgerContact) (*Contact, error) {
	payload := Contact{
		ContactID: contact.ContactID,
		Name:      contact.Name,
		Phone:     contact.Phone,
		State:     contact.State,
	}
	if contact.Email != nil {
		payload.Email = *contact.Email
	}

	if payload.ContactID == "" {
		if found, err := s.API.SearchContact(ctx, contact.Phone); err != nil {
			return nil, err
		} else if found != nil {
			payload.ContactID = found.ContactID
		}
	}

	if payload.ContactID == "" {
		return s.API.CreateContact(ctx, payload)
	}
	return s.API.UpdateContact(ctx, payload)
}

// RetryUnsynced re-pushes contacts still pending or failed. Returns how many
// were attempted.
func (s *Syncer) RetryUnsynced(ctx context.Context, limit int) (int, error) {
	contacts, err := s.Store.ListUnsyncedContacts(ctx, limit)
	if err != nil {
		return 0, err
	}
	for _, contact := range contacts {
		if err := s.push(ctx, contact); err != nil {
			s.Logger.Warn().Err(err).Str("phone", contact.Phone).Msg("ledger contact retry failed")
		}
	}
	return len(contacts), nil
}
