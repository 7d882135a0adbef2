package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/growfix/backend/internal/models"
)

const leadColumns = `id, lead_code, customer_name, customer_phone, email, phone_model, issue_detail,
	address, pincode, area, source, visitor_id, raw_payload, status, created_at`

func scanLead(row interface{ Scan(...any) error }) (*models.Lead, error) {
	var l models.Lead
	if err := row.Scan(
		&l.ID, &l.LeadCode, &l.Name, &l.Phone, &l.Email, &l.PhoneModel, &l.IssueDetail,
		&l.Address, &l.Pincode, &l.Area, &l.Source, &l.VisitorID, &l.RawPayload, &l.Status, &l.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

// FindLeadByPhone returns the most recent lead for a phone number, or
// (nil, nil) when none exists.
func (s *Store) FindLeadByPhone(ctx context.Context, phone string) (*models.Lead, error) {
	l, err := scanLead(s.Pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE customer_phone = $1 ORDER BY created_at DESC LIMIT 1
	`, phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

func (s *Store) FindLeadByVisitor(ctx context.Context, visitorID string) (*models.Lead, error) {
	l, err := scanLead(s.Pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE visitor_id = $1 ORDER BY created_at DESC LIMIT 1
	`, visitorID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

func (s *Store) CreateLead(ctx context.Context, l *models.Lead) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO leads (id, lead_code, customer_name, customer_phone, email, phone_model, issue_detail,
			address, pincode, area, source, visitor_id, raw_payload, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NOW())
		RETURNING created_at
	`, l.ID, l.LeadCode, l.Name, l.Phone, l.Email, l.PhoneModel, l.IssueDetail,
		l.Address, l.Pincode, l.Area, l.Source, l.VisitorID, l.RawPayload, l.Status).Scan(&l.CreatedAt)
}

func (s *Store) UpdateLead(ctx context.Context, l *models.Lead) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE leads
		SET customer_name = $1, customer_phone = $2, email = $3, phone_model = $4, issue_detail = $5,
			address = $6, pincode = $7, area = $8, source = $9, visitor_id = $10, raw_payload = $11, status = $12
		WHERE id = $13
	`, l.Name, l.Phone, l.Email, l.PhoneModel, l.IssueDetail,
		l.Address, l.Pincode, l.Area, l.Source, l.VisitorID, l.RawPayload, l.Status, l.ID)
	return err
}

func (s *Store) GetLead(ctx context.Context, id string) (*models.Lead, error) {
	return scanLead(s.Pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
}

func (s *Store) ListLeads(ctx context.Context, status string, limit, offset int) ([]*models.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`
	var args []any
	if status != "" {
		args = append(args, status)
		query += ` WHERE status = $1`
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) MarkLeadConverted(ctx context.Context, id string) error {
	_, err := s.Pool.Exec(ctx, `UPDATE leads SET status = $1 WHERE id = $2`, models.LeadConverted, id)
	return err
}
