package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/growfix/backend/internal/models"
)

const customerColumns = `id, customer_name, customer_phone, email, credential, address, state, pincode, area, created_at`

func scanCustomer(row interface{ Scan(...any) error }) (*models.Customer, error) {
	var c models.Customer
	if err := row.Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Credential,
		&c.Address, &c.State, &c.Pincode, &c.Area, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindCustomerByPhoneOrEmail matches on whichever of phone/email is
// non-empty; returns (nil, nil) when nothing matches.
func (s *Store) FindCustomerByPhoneOrEmail(ctx context.Context, phone, email string) (*models.Customer, error) {
	var args []any
	var wheres []string
	if phone != "" {
		args = append(args, phone)
		wheres = append(wheres, fmt.Sprintf("customer_phone = $%d", len(args)))
	}
	if email != "" {
		args = append(args, email)
		wheres = append(wheres, fmt.Sprintf("email = $%d", len(args)))
	}
	if len(wheres) == 0 {
		return nil, nil
	}

	query := `SELECT ` + customerColumns + ` FROM customers WHERE ` + wheres[0]
	if len(wheres) == 2 {
		query += ` OR ` + wheres[1]
	}
	query += ` ORDER BY created_at ASC LIMIT 1`

	c, err := scanCustomer(s.Pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO customers (id, customer_name, customer_phone, email, credential, address, state, pincode, area, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW())
		RETURNING created_at
	`, c.ID, c.Name, c.Phone, c.Email, c.Credential, c.Address, c.State, c.Pincode, c.Area).Scan(&c.CreatedAt)
}

func (s *Store) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE customers
		SET customer_name = $1, customer_phone = $2, email = $3, credential = $4,
			address = $5, state = $6, pincode = $7, area = $8
		WHERE id = $9
	`, c.Name, c.Phone, c.Email, c.Credential, c.Address, c.State, c.Pincode, c.Area, c.ID)
	return err
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	return scanCustomer(s.Pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
}

func (s *Store) ListCustomers(ctx context.Context, limit, offset int) ([]*models.Customer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.Pool.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
