package testhelpers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
)

// NewTestDB devolve um SQLite em memória já migrado. Fecha sozinho no fim do teste.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := database.Migrate(context.Background(), db, database.DriverSQLite); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

// SeedClient grava um cliente mínimo e devolve o registro com ID.
func SeedClient(t *testing.T, db *sql.DB, companyName, region, industry string) *entity.Client {
	t.Helper()

	c := &entity.Client{
		CompanyName: companyName,
		Email:       companyName + "@example.com",
	}
	if region != "" {
		c.Region = &region
	}
	if industry != "" {
		c.Industry = &industry
	}
	if err := database.NewClientRepository(db).Create(context.Background(), c); err != nil {
		t.Fatalf("seed client %q: %v", companyName, err)
	}
	return c
}

func SeedUser(t *testing.T, db *sql.DB, username string) *entity.User {
	t.Helper()

	u := &entity.User{Username: username, Email: username + "@example.com"}
	if err := database.NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %q: %v", username, err)
	}
	return u
}
