package db

import (
	"context"
	"fmt"

	"github.com/growfix/backend/internal/models"
)

const shopColumns = `id, shop_type, shopname, owner, phone, email, gst_pin, address, area, pincode, status, latitude, longitude, created_at`

func scanShop(row interface{ Scan(...any) error }) (*models.Shop, error) {
	var sh models.Shop
	if err := row.Scan(
		&sh.ID, &sh.ShopType, &sh.Name, &sh.Owner, &sh.Phone, &sh.Email, &sh.GSTPin,
		&sh.Address, &sh.Area, &sh.Pincode, &sh.Active, &sh.Lat, &sh.Lon, &sh.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &sh, nil
}

func (s *Store) CreateShop(ctx context.Context, sh *models.Shop) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO shops (id, shop_type, shopname, owner, phone, email, gst_pin, address, area, pincode, status, latitude, longitude, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW())
	`, sh.ID, sh.ShopType, sh.Name, sh.Owner, sh.Phone, sh.Email, sh.GSTPin, sh.Address, sh.Area, sh.Pincode, sh.Active, sh.Lat, sh.Lon)
	return err
}

func (s *Store) GetShop(ctx context.Context, id string) (*models.Shop, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+shopColumns+` FROM shops WHERE id = $1`, id)
	return scanShop(row)
}

// ListShops returns shops filtered by type and/or active flag; empty
// shopType means all types, activeOnly=false means all shops.
func (s *Store) ListShops(ctx context.Context, shopType string, activeOnly bool) ([]*models.Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops`
	var args []any
	var wheres []string
	if shopType != "" {
		args = append(args, shopType)
		wheres = append(wheres, fmt.Sprintf("shop_type = $%d", len(args)))
	}
	if activeOnly {
		wheres = append(wheres, "status = TRUE")
	}
	for i, w := range wheres {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY id ASC"

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Shop
	for rows.Next() {
		sh, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

const growtagColumns = `id, grow_id, name, phone, email, adhar, address, area, pincode, status, latitude, longitude, created_at`

func scanGrowtag(row interface{ Scan(...any) error }) (*models.Growtag, error) {
	var g models.Growtag
	if err := row.Scan(
		&g.ID, &g.GrowID, &g.Name, &g.Phone, &g.Email, &g.Aadhaar,
		&g.Address, &g.Area, &g.Pincode, &g.Status, &g.Lat, &g.Lon, &g.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) CreateGrowtag(ctx context.Context, g *models.Growtag) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO growtags (id, grow_id, name, phone, email, adhar, address, area, pincode, status, latitude, longitude, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW())
	`, g.ID, g.GrowID, g.Name, g.Phone, g.Email, g.Aadhaar, g.Address, g.Area, g.Pincode, g.Status, g.Lat, g.Lon)
	return err
}

func (s *Store) GetGrowtag(ctx context.Context, id string) (*models.Growtag, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+growtagColumns+` FROM growtags WHERE id = $1`, id)
	return scanGrowtag(row)
}

// ListGrowtags returns technicians, optionally filtered by status.
func (s *Store) ListGrowtags(ctx context.Context, status string) ([]*models.Growtag, error) {
	query := `SELECT ` + growtagColumns + ` FROM growtags`
	var args []any
	if status != "" {
		args = append(args, status)
		query += ` WHERE status = $1`
	}
	query += ` ORDER BY id ASC`

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Growtag
	for rows.Next() {
		g, err := scanGrowtag(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) SetGrowtagStatus(ctx context.Context, id, status string) error {
	_, err := s.Pool.Exec(ctx, `UPDATE growtags SET status = $1 WHERE id = $2`, status, id)
	return err
}

// SaveProviderCoordinate write-through persists a lazily geocoded
// coordinate onto the provider's row.
func (s *Store) SaveProviderCoordinate(ctx context.Context, p models.Provider) error {
	lat, lon, ok := p.Coordinate()
	if !ok {
		return nil
	}
	switch p.(type) {
	case *models.Shop:
		_, err := s.Pool.Exec(ctx, `UPDATE shops SET latitude = $1, longitude = $2 WHERE id = $3`, lat, lon, p.ProviderID())
		return err
	case *models.Growtag:
		_, err := s.Pool.Exec(ctx, `UPDATE growtags SET latitude = $1, longitude = $2 WHERE id = $3`, lat, lon, p.ProviderID())
		return err
	default:
		return fmt.Errorf("unknown provider type %T", p)
	}
}
