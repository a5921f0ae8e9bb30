package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// saleInsertChunk mantém o número de parâmetros bem abaixo do limite do
// Postgres (65535) e do SQLite (32766).
const saleInsertChunk = 500

const saleColumns = `id, client_id, amount, date, description, import_id, fingerprint, created_at`

type SaleRepository struct {
	DB *sql.DB
}

func NewSaleRepository(db *sql.DB) *SaleRepository {
	return &SaleRepository{DB: db}
}

func scanSale(row scanner) (*entity.Sale, error) {
	var s entity.Sale
	if err := row.Scan(
		&s.ID,
		&s.ClientID,
		&s.Amount,
		&s.Date,
		&s.Description,
		&s.ImportID,
		&s.Fingerprint,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepository) List(ctx context.Context) ([]entity.Sale, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+saleColumns+` FROM sales ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	sales := []entity.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, *s)
	}
	return sales, rows.Err()
}

func (r *SaleRepository) FindByID(ctx context.Context, id int64) (*entity.Sale, error) {
	s, err := scanSale(r.DB.QueryRowContext(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		return nil, classify(err)
	}
	return s, nil
}

func (r *SaleRepository) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (client_id, amount, date, description, import_id, fingerprint, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		s.ClientID,
		s.Amount,
		s.Date,
		s.Description,
		s.ImportID,
		s.Fingerprint,
		s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return classify(err)
	}
	return nil
}

func (r *SaleRepository) BulkInsert(ctx context.Context, sales []entity.Sale, skipDuplicates bool) (int, error) {
	if len(sales) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin sales insert: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for start := 0; start < len(sales); start += saleInsertChunk {
		end := min(start+saleInsertChunk, len(sales))
		query, args := buildSaleInsert(sales[start:end], skipDuplicates)

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, classify(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sales insert: %w", err)
	}
	return inserted, nil
}

func buildSaleInsert(sales []entity.Sale, skipDuplicates bool) (string, []any) {
	const cols = 7
	var b strings.Builder
	b.WriteString(`INSERT INTO sales (client_id, amount, date, description, import_id, fingerprint, created_at) VALUES `)

	args := make([]any, 0, len(sales)*cols)
	for i, s := range sales {
		if i > 0 {
			b.WriteString(", ")
		}
		base := i * cols
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args, s.ClientID, s.Amount, s.Date, s.Description, s.ImportID, s.Fingerprint, s.CreatedAt)
	}
	if skipDuplicates {
		b.WriteString(` ON CONFLICT (fingerprint) DO NOTHING`)
	}
	return b.String(), args
}

func (r *SaleRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sales`)
	if err != nil {
		return 0, fmt.Errorf("delete sales: %w", err)
	}
	return res.RowsAffected()
}

func (r *SaleRepository) SummaryByRegion(ctx context.Context) ([]entity.SalesSegment, error) {
	return r.summary(ctx, "c.region")
}

func (r *SaleRepository) SummaryByIndustry(ctx context.Context) ([]entity.SalesSegment, error) {
	return r.summary(ctx, "c.industry")
}

// column vem só dos dois métodos acima, nunca de input do usuário.
func (r *SaleRepository) summary(ctx context.Context, column string) ([]entity.SalesSegment, error) {
	query := `
		SELECT COALESCE(` + column + `, 'Unknown') AS label, SUM(s.amount), COUNT(*)
		FROM sales s
		JOIN clients c ON c.id = s.client_id
		GROUP BY label
		ORDER BY label
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	defer rows.Close()

	segments := []entity.SalesSegment{}
	for rows.Next() {
		var seg entity.SalesSegment
		if err := rows.Scan(&seg.Label, &seg.Total, &seg.Count); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}
