package db

import (
	"context"
	"fmt"

	"github.com/growfix/backend/internal/models"
)

const complaintColumns = `id, customer_id, customer_name, customer_phone, email, address, state, pincode, area,
	phone_model, issue_details, assign_to, assigned_kind, assigned_id, assigned_label,
	latitude, longitude, status, confirm_status, confirmed_by, confirmed_at, created_at`

func scanComplaint(row interface{ Scan(...any) error }) (*models.Complaint, error) {
	var c models.Complaint
	var kind string
	var assignedID, assignedLabel *string
	if err := row.Scan(
		&c.ID, &c.CustomerID, &c.CustomerName, &c.CustomerPhone, &c.Email,
		&c.Address, &c.State, &c.Pincode, &c.Area,
		&c.PhoneModel, &c.IssueDetails, &c.Category,
		&kind, &assignedID, &assignedLabel,
		&c.Lat, &c.Lon, &c.Status, &c.ConfirmStatus, &c.ConfirmedBy, &c.ConfirmedAt,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	c.Assigned = models.AssignmentRef{Kind: models.AssignKind(kind)}
	if assignedID != nil {
		c.Assigned.ID = *assignedID
	}
	if assignedLabel != nil {
		c.Assigned.Label = *assignedLabel
	}
	return &c, nil
}

func assignmentArgs(a models.AssignmentRef) (kind string, id, label *string) {
	kind = string(a.Kind)
	if a.IsAssigned() {
		id = &a.ID
		label = &a.Label
	}
	return kind, id, label
}

func (s *Store) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	kind, aid, alabel := assignmentArgs(c.Assigned)
	return s.Pool.QueryRow(ctx, `
		INSERT INTO complaints (id, customer_id, customer_name, customer_phone, email, address, state, pincode, area,
			phone_model, issue_details, assign_to, assigned_kind, assigned_id, assigned_label,
			latitude, longitude, status, confirm_status, confirmed_by, confirmed_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,NOW())
		RETURNING created_at
	`, c.ID, c.CustomerID, c.CustomerName, c.CustomerPhone, c.Email, c.Address, c.State, c.Pincode, c.Area,
		c.PhoneModel, c.IssueDetails, c.Category, kind, aid, alabel,
		c.Lat, c.Lon, c.Status, c.ConfirmStatus, c.ConfirmedBy, c.ConfirmedAt).Scan(&c.CreatedAt)
}

func (s *Store) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	return scanComplaint(s.Pool.QueryRow(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE id = $1`, id))
}

func (s *Store) UpdateComplaint(ctx context.Context, c *models.Complaint) error {
	kind, aid, alabel := assignmentArgs(c.Assigned)
	_, err := s.Pool.Exec(ctx, `
		UPDATE complaints
		SET customer_id = $1, customer_name = $2, customer_phone = $3, email = $4,
			address = $5, state = $6, pincode = $7, area = $8,
			phone_model = $9, issue_details = $10, assign_to = $11,
			assigned_kind = $12, assigned_id = $13, assigned_label = $14,
			latitude = $15, longitude = $16, status = $17,
			confirm_status = $18, confirmed_by = $19, confirmed_at = $20
		WHERE id = $21
	`, c.CustomerID, c.CustomerName, c.CustomerPhone, c.Email,
		c.Address, c.State, c.Pincode, c.Area,
		c.PhoneModel, c.IssueDetails, c.Category,
		kind, aid, alabel,
		c.Lat, c.Lon, c.Status,
		c.ConfirmStatus, c.ConfirmedBy, c.ConfirmedAt, c.ID)
	return err
}

func (s *Store) UpdateComplaintCoordinate(ctx context.Context, id string, lat, lon float64) error {
	_, err := s.Pool.Exec(ctx, `UPDATE complaints SET latitude = $1, longitude = $2 WHERE id = $3`, lat, lon, id)
	return err
}

// ComplaintFilter narrows ListComplaints; zero values mean no filter.
type ComplaintFilter struct {
	Status   string
	Category string
	Phone    string
	Limit    int
	Offset   int
}

func (s *Store) ListComplaints(ctx context.Context, f ComplaintFilter) ([]*models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints`
	var args []any
	var wheres []string
	if f.Status != "" {
		args = append(args, f.Status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		wheres = append(wheres, fmt.Sprintf("assign_to = $%d", len(args)))
	}
	if f.Phone != "" {
		args = append(args, f.Phone)
		wheres = append(wheres, fmt.Sprintf("customer_phone = $%d", len(args)))
	}
	for i, w := range wheres {
		if i == 0 {
			query += ` WHERE ` + w
		} else {
			query += ` AND ` + w
		}
	}
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := f.Offset
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

	var out []*models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
