package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ClientAliasRepository struct {
	DB *sql.DB
}

func NewClientAliasRepository(db *sql.DB) *ClientAliasRepository {
	return &ClientAliasRepository{DB: db}
}

func (r *ClientAliasRepository) List(ctx context.Context) ([]entity.ClientAlias, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT name, client_id FROM client_aliases ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list client aliases: %w", err)
	}
	defer rows.Close()

	aliases := []entity.ClientAlias{}
	for rows.Next() {
		var a entity.ClientAlias
		if err := rows.Scan(&a.Name, &a.ClientID); err != nil {
			return nil, fmt.Errorf("scan client alias: %w", err)
		}
		aliases = append(aliases, a)
	}
	return aliases, rows.Err()
}

func (r *ClientAliasRepository) FindClientID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `SELECT client_id FROM client_aliases WHERE name = $1`, name).Scan(&id)
	if err != nil {
		return 0, classify(err)
	}
	return id, nil
}

// Upsert grava todos os aliases numa transação; um client_id inexistente
// derruba o lote inteiro com ErrInvalidReference.
func (r *ClientAliasRepository) Upsert(ctx context.Context, aliases []entity.ClientAlias) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin alias upsert: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO client_aliases (name, client_id)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET client_id = EXCLUDED.client_id
	`
	for _, a := range aliases {
		if _, err := tx.ExecContext(ctx, query, a.Name, a.ClientID); err != nil {
			return 0, classify(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit alias upsert: %w", err)
	}
	return len(aliases), nil
}
