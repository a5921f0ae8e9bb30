package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

const contactColumns = `id, name, email, phone, client_id, created_at`

func scanContact(row scanner) (*entity.Contact, error) {
	var c entity.Contact
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.ClientID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepository) List(ctx context.Context) ([]entity.Contact, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []entity.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

func (r *ContactRepository) FindByID(ctx context.Context, id int64) (*entity.Contact, error) {
	c, err := scanContact(r.DB.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
	if err != nil {
		return nil, classify(err)
	}
	return c, nil
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO contacts (name, email, phone, client_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, c.Name, c.Email, c.Phone, c.ClientID, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return classify(err)
	}
	return nil
}

type InteractionRepository struct {
	DB *sql.DB
}

func NewInteractionRepository(db *sql.DB) *InteractionRepository {
	return &InteractionRepository{DB: db}
}

const interactionColumns = `id, type, date, notes, client_id, contact_id, email, phone_number`

func scanInteraction(row scanner) (*entity.Interaction, error) {
	var i entity.Interaction
	if err := row.Scan(&i.ID, &i.Type, &i.Date, &i.Notes, &i.ClientID, &i.ContactID, &i.Email, &i.PhoneNumber); err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InteractionRepository) List(ctx context.Context) ([]entity.Interaction, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+interactionColumns+` FROM interactions ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	interactions := []entity.Interaction{}
	for rows.Next() {
		i, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		interactions = append(interactions, *i)
	}
	return interactions, rows.Err()
}

func (r *InteractionRepository) FindByID(ctx context.Context, id int64) (*entity.Interaction, error) {
	i, err := scanInteraction(r.DB.QueryRowContext(ctx, `SELECT `+interactionColumns+` FROM interactions WHERE id = $1`, id))
	if err != nil {
		return nil, classify(err)
	}
	return i, nil
}

func (r *InteractionRepository) Create(ctx context.Context, i *entity.Interaction) error {
	if i.Date.IsZero() {
		i.Date = now()
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO interactions (type, date, notes, client_id, contact_id, email, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, i.Type, i.Date, i.Notes, i.ClientID, i.ContactID, i.Email, i.PhoneNumber).Scan(&i.ID)
	if err != nil {
		return classify(err)
	}
	return nil
}
