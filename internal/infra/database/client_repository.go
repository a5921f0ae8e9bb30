package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ClientRepository struct {
	DB *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{DB: db}
}

const clientColumns = `id, company_name, industry, email, phone, address, position_lat, position_lng, region, created_at`

func scanClient(row scanner) (*entity.Client, error) {
	var c entity.Client
	var lat, lng sql.NullFloat64
	if err := row.Scan(
		&c.ID,
		&c.CompanyName,
		&c.Industry,
		&c.Email,
		&c.Phone,
		&c.Address,
		&lat,
		&lng,
		&c.Region,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	if lat.Valid && lng.Valid {
		c.Position = &entity.Position{lat.Float64, lng.Float64}
	}
	return &c, nil
}

func (r *ClientRepository) List(ctx context.Context) ([]entity.Client, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := []entity.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) FindByID(ctx context.Context, id int64) (*entity.Client, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	c, err := scanClient(row)
	if err != nil {
		return nil, classify(err)
	}
	return c, nil
}

func (r *ClientRepository) FindIDByCompanyName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `SELECT id FROM clients WHERE company_name = $1`, name).Scan(&id)
	if err != nil {
		return 0, classify(err)
	}
	return id, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (company_name, industry, email, phone, address, position_lat, position_lng, region, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var lat, lng *float64
	if c.Position != nil {
		lat, lng = &c.Position[0], &c.Position[1]
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}

	err := r.DB.QueryRowContext(ctx, query,
		c.CompanyName,
		c.Industry,
		c.Email,
		c.Phone,
		c.Address,
		lat,
		lng,
		c.Region,
		c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return classify(err)
	}
	return nil
}
