package db

import (
	"context"
	"fmt"

	"github.com/growfix/backend/internal/models"
)

func (s *Store) CreateExpenseCategory(ctx context.Context, c *models.ExpenseCategory) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO expense_categories (id, name, is_active, created_at)
		VALUES ($1,$2,$3,NOW())
		RETURNING created_at
	`, c.ID, c.Name, c.Active).Scan(&c.CreatedAt)
}

func (s *Store) ListExpenseCategories(ctx context.Context, activeOnly bool) ([]*models.ExpenseCategory, error) {
	query := `SELECT id, name, is_active, created_at FROM expense_categories`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := s.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ExpenseCategory
	for rows.Next() {
		var c models.ExpenseCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Active, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

const expenseColumns = `e.id, e.title, e.merchant, e.amount, e.date, e.category_id, c.name,
	e.payment_method, e.status, e.created_at, e.updated_at`

func scanExpense(row interface{ Scan(...any) error }) (*models.Expense, error) {
	var e models.Expense
	if err := row.Scan(
		&e.ID, &e.Title, &e.Merchant, &e.Amount, &e.Date, &e.CategoryID, &e.CategoryName,
		&e.PaymentMethod, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) CreateExpense(ctx context.Context, e *models.Expense) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO expenses (id, title, merchant, amount, date, category_id, payment_method, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
		RETURNING created_at, updated_at
	`, e.ID, e.Title, e.Merchant, e.Amount, e.Date, e.CategoryID, e.PaymentMethod, e.Status).Scan(&e.CreatedAt, &e.UpdatedAt)
}

func (s *Store) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	return scanExpense(s.Pool.QueryRow(ctx, `
		SELECT `+expenseColumns+` FROM expenses e JOIN expense_categories c ON c.id = e.category_id WHERE e.id = $1
	`, id))
}

func (s *Store) UpdateExpense(ctx context.Context, e *models.Expense) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE expenses
		SET title = $1, merchant = $2, amount = $3, date = $4, category_id = $5, payment_method = $6, updated_at = NOW()
		WHERE id = $7
	`, e.Title, e.Merchant, e.Amount, e.Date, e.CategoryID, e.PaymentMethod, e.ID)
	return err
}

func (s *Store) SetExpenseStatus(ctx context.Context, id, status string) error {
	_, err := s.Pool.Exec(ctx, `UPDATE expenses SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	return err
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	return err
}

// ExpenseFilter narrows ListExpenses; zero values mean no filter.
type ExpenseFilter struct {
	Status     string
	CategoryID string
	Limit      int
	Offset     int
}

func (s *Store) ListExpenses(ctx context.Context, f ExpenseFilter) ([]*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses e JOIN expense_categories c ON c.id = e.category_id`
	var args []any
	var wheres []string
	if f.Status != "" {
		args = append(args, f.Status)
		wheres = append(wheres, fmt.Sprintf("e.status = $%d", len(args)))
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		wheres = append(wheres, fmt.Sprintf("e.category_id = $%d", len(args)))
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
	query += fmt.Sprintf(` ORDER BY e.date DESC, e.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
