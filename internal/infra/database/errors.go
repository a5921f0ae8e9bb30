package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classify traduz o erro do driver (pgx, pq ou sqlite) para os sentinels de
// entity. Erros desconhecidos voltam como estão.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyCode(pgErr.Code, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return classifyCode(string(pqErr.Code), err)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %v", entity.ErrDuplicate, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %v", entity.ErrInvalidReference, err)
		}
		// Sem extended result codes a mensagem é o único sinal
		if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			msg := err.Error()
			switch {
			case strings.Contains(msg, "UNIQUE"):
				return fmt.Errorf("%w: %v", entity.ErrDuplicate, err)
			case strings.Contains(msg, "FOREIGN KEY"):
				return fmt.Errorf("%w: %v", entity.ErrInvalidReference, err)
			}
		}
	}

	return err
}

func classifyCode(code string, err error) error {
	switch code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %v", entity.ErrDuplicate, err)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %v", entity.ErrInvalidReference, err)
	}
	return err
}

func now() time.Time {
	return time.Now().UTC()
}

type scanner interface {
	Scan(dest ...any) error
}
