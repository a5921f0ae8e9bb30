package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawRow is one data row as found in the upload. Line is 1-based and counts
// the header row.
type RawRow struct {
	Line        int
	Amount      string
	Date        string
	Description string
	Account     string
}

func (r RawRow) blank() bool {
	return strings.TrimSpace(r.Amount+r.Date+r.Description+r.Account) == ""
}

type ParsedSale struct {
	Line        int
	Amount      decimal.Decimal
	Date        time.Time
	Description *string
	Account     string
}

// RowError describes a row that was skipped. Parsers also return it for
// records they could not tokenize so the caller can keep going.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Parser yields spreadsheet rows one at a time and returns io.EOF when done.
type Parser interface {
	Next() (RawRow, error)
	Close() error
}

func ParseRow(row RawRow) (ParsedSale, error) {
	amount, err := ParseAmount(row.Amount)
	if err != nil {
		return ParsedSale{}, err
	}
	date, err := ParseDate(row.Date)
	if err != nil {
		return ParsedSale{}, err
	}

	var desc *string
	if d := strings.TrimSpace(row.Description); d != "" {
		desc = &d
	}

	return ParsedSale{
		Line:        row.Line,
		Amount:      amount,
		Date:        date,
		Description: desc,
		Account:     strings.TrimSpace(row.Account),
	}, nil
}

// ParseAll drains src. Rows that fail to parse are handed to reject and
// skipped; only an unreadable source or a cancelled context stops the loop.
func ParseAll(ctx context.Context, src Parser, reject func(RowError)) ([]ParsedSale, error) {
	var sales []ParsedSale
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return sales, nil
		}
		if err != nil {
			var rowErr *RowError
			if errors.As(err, &rowErr) {
				reject(*rowErr)
				continue
			}
			return nil, err
		}
		if row.blank() {
			continue
		}

		sale, err := ParseRow(row)
		if err != nil {
			reject(RowError{Line: row.Line, Reason: err.Error()})
			continue
		}
		sales = append(sales, sale)
	}
}
