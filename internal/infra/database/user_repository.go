package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, username, email, team_id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []entity.User{}
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.TeamID); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	var u entity.User
	err := r.DB.QueryRowContext(ctx, `SELECT id, username, email, team_id FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.TeamID)
	if err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

// Create existe para seed e testes; a API não expõe cadastro de usuário.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO users (username, email, team_id) VALUES ($1, $2, $3) RETURNING id`,
		u.Username, u.Email, u.TeamID,
	).Scan(&u.ID)
	if err != nil {
		return classify(err)
	}
	return nil
}
