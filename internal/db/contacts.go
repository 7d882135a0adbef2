package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/growfix/backend/internal/models"
)

const contactColumns = `id, name, email, phone, state, ledger_contact_id, sync_status, last_error, updated_at`

func scanContact(row interface{ Scan(...any) error }) (*models.LedgerContact, error) {
	var c models.LedgerContact
	if err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.State,
		&c.ContactID, &c.SyncStatus, &c.LastError, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpsertLedgerContact keys on phone, matching the external ledger's own
// dedupe rule.
func (s *Store) UpsertLedgerContact(ctx context.Context, c *models.LedgerContact) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO ledger_contacts (id, name, email, phone, state, ledger_contact_id, sync_status, last_error, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
		ON CONFLICT (phone) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email, state = EXCLUDED.state,
			ledger_contact_id = EXCLUDED.ledger_contact_id,
			sync_status = EXCLUDED.sync_status, last_error = EXCLUDED.last_error, updated_at = NOW()
		RETURNING id, updated_at
	`, c.ID, c.Name, c.Email, c.Phone, c.State, c.ContactID, c.SyncStatus, c.LastError).Scan(&c.ID, &c.UpdatedAt)
}

func (s *Store) FindLedgerContactByPhone(ctx context.Context, phone string) (*models.LedgerContact, error) {
	c, err := scanContact(s.Pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM ledger_contacts WHERE phone = $1`, phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// ListUnsyncedContacts returns contacts still pending or failed, oldest first,
// for the retry job.
func (s *Store) ListUnsyncedContacts(ctx context.Context, limit int) ([]*models.LedgerContact, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT `+contactColumns+` FROM ledger_contacts
		WHERE sync_status IN ($1, $2)
		ORDER BY updated_at ASC
		LIMIT $3
	`, models.SyncPending, models.SyncFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.LedgerContact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
