package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Cada entrada é uma versão; os statements rodam numa transação só.
var postgresMigrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS clients (
			id BIGSERIAL PRIMARY KEY,
			company_name TEXT NOT NULL UNIQUE,
			industry TEXT,
			email TEXT NOT NULL UNIQUE,
			phone TEXT,
			address TEXT,
			position_lat DOUBLE PRECISION,
			position_lng DOUBLE PRECISION,
			region TEXT,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS client_aliases (
			name TEXT PRIMARY KEY,
			client_id BIGINT NOT NULL REFERENCES clients(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS sales (
			id BIGSERIAL PRIMARY KEY,
			client_id BIGINT NOT NULL REFERENCES clients(id),
			amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
			date DATE NOT NULL,
			description TEXT,
			import_id TEXT,
			fingerprint TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_client_id ON sales(client_id)`,
	},
	{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			team_id BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS leads (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT UNIQUE,
			phone TEXT,
			company TEXT,
			status TEXT NOT NULL DEFAULT 'new',
			source TEXT,
			notes TEXT,
			client_id BIGINT REFERENCES clients(id),
			assigned_to BIGINT REFERENCES users(id),
			dedupe_key TEXT UNIQUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			client_id BIGINT NOT NULL REFERENCES clients(id),
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS interactions (
			id BIGSERIAL PRIMARY KEY,
			type TEXT NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			notes TEXT,
			client_id BIGINT REFERENCES clients(id),
			contact_id BIGINT REFERENCES contacts(id),
			email TEXT,
			phone_number TEXT
		)`,
	},
	{
		`CREATE TABLE IF NOT EXISTS projects (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			start_date TIMESTAMPTZ,
			end_date TIMESTAMPTZ,
			client_id BIGINT REFERENCES clients(id)
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT,
			priority TEXT,
			tags TEXT,
			start_date TIMESTAMPTZ,
			due_date TIMESTAMPTZ,
			points INTEGER,
			project_id BIGINT NOT NULL REFERENCES projects(id),
			author_user_id BIGINT REFERENCES users(id),
			assigned_user_id BIGINT REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id BIGSERIAL PRIMARY KEY,
			text TEXT NOT NULL,
			task_id BIGINT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL
		)`,
	},
}

var sqliteMigrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS clients (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			company_name TEXT NOT NULL UNIQUE,
			industry TEXT,
			email TEXT NOT NULL UNIQUE,
			phone TEXT,
			address TEXT,
			position_lat REAL,
			position_lng REAL,
			region TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS client_aliases (
			name TEXT PRIMARY KEY,
			client_id INTEGER NOT NULL REFERENCES clients(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS sales (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			client_id INTEGER NOT NULL REFERENCES clients(id),
			amount TEXT NOT NULL,
			date DATE NOT NULL,
			description TEXT,
			import_id TEXT,
			fingerprint TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_client_id ON sales(client_id)`,
	},
	{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			team_id INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS leads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT UNIQUE,
			phone TEXT,
			company TEXT,
			status TEXT NOT NULL DEFAULT 'new',
			source TEXT,
			notes TEXT,
			client_id INTEGER REFERENCES clients(id),
			assigned_to INTEGER REFERENCES users(id),
			dedupe_key TEXT UNIQUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			client_id INTEGER NOT NULL REFERENCES clients(id),
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS interactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			type TEXT NOT NULL,
			date DATETIME NOT NULL,
			notes TEXT,
			client_id INTEGER REFERENCES clients(id),
			contact_id INTEGER REFERENCES contacts(id),
			email TEXT,
			phone_number TEXT
		)`,
	},
	{
		`CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT,
			start_date DATETIME,
			end_date DATETIME,
			client_id INTEGER REFERENCES clients(id)
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT,
			priority TEXT,
			tags TEXT,
			start_date DATETIME,
			due_date DATETIME,
			points INTEGER,
			project_id INTEGER NOT NULL REFERENCES projects(id),
			author_user_id INTEGER REFERENCES users(id),
			assigned_user_id INTEGER REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL,
			task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			user_id INTEGER NOT NULL REFERENCES users(id),
			created_at DATETIME NOT NULL
		)`,
	},
}

func migrationsFor(driver string) ([][]string, error) {
	switch driver {
	case DriverPgx, DriverPostgres:
		return postgresMigrations, nil
	case DriverSQLite:
		return sqliteMigrations, nil
	}
	return nil, fmt.Errorf("no migrations for driver %q", driver)
}

// Migrate aplica as migrações pendentes. Cada versão roda numa transação e
// fica registrada em schema_migrations.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	migrations, err := migrationsFor(driver)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for i, stmts := range migrations {
		version := i + 1

		var exists int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = $1", version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", version, err)
		}

		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d: %w", version, err)
			}
		}

		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)", version, time.Now().UTC()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", version, err)
		}
	}

	return nil
}
