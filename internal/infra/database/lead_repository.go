package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const leadColumns = `id, name, email, phone, company, status, source, notes, client_id, assigned_to, dedupe_key, created_at, updated_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func scanLead(row scanner) (*entity.Lead, error) {
	var l entity.Lead
	if err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Email,
		&l.Phone,
		&l.Company,
		&l.Status,
		&l.Source,
		&l.Notes,
		&l.ClientID,
		&l.AssignedTo,
		&l.DedupeKey,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *l)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	l, err := scanLead(r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		return nil, classify(err)
	}
	return l, nil
}

const insertLead = `
	INSERT INTO leads (name, email, phone, company, status, source, notes, client_id, assigned_to, dedupe_key, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

func leadArgs(l *entity.Lead) []any {
	return []any{
		l.Name, l.Email, l.Phone, l.Company, string(l.Status), l.Source, l.Notes,
		l.ClientID, l.AssignedTo, l.DedupeKey, l.CreatedAt, l.UpdatedAt,
	}
}

func stampLead(l *entity.Lead) {
	if l.Status == "" {
		l.Status = entity.LeadStatusNew
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now()
	}
	l.UpdatedAt = l.CreatedAt
}

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	stampLead(l)
	err := r.DB.QueryRowContext(ctx, insertLead+` RETURNING id`, leadArgs(l)...).Scan(&l.ID)
	if err != nil {
		return classify(err)
	}
	return nil
}

// UpdateStatus só grava; a regra de transição fica no usecase.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id int64, status entity.LeadStatus) (*entity.Lead, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), now(), id,
	)
	if err != nil {
		return nil, classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, entity.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *LeadRepository) ExistingKeys(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT name, company, phone FROM leads`)
	if err != nil {
		return nil, fmt.Errorf("load lead keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var name string
		var company, phone *string
		if err := rows.Scan(&name, &company, &phone); err != nil {
			return nil, fmt.Errorf("scan lead key: %w", err)
		}
		keys[entity.LeadKey(name, company, phone)] = struct{}{}
	}
	return keys, rows.Err()
}

// BulkInsert grava os leads com dedupe_key preenchida. Se outro processo
// inseriu o mesmo lead no meio tempo, o ON CONFLICT descarta a linha.
func (r *LeadRepository) BulkInsert(ctx context.Context, leads []entity.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin leads insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertLead+` ON CONFLICT (dedupe_key) DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("prepare leads insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range leads {
		l := &leads[i]
		stampLead(l)
		if l.DedupeKey == nil {
			key := l.Key()
			l.DedupeKey = &key
		}

		res, err := stmt.ExecContext(ctx, leadArgs(l)...)
		if err != nil {
			return 0, classify(err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit leads insert: %w", err)
	}
	return inserted, nil
}
