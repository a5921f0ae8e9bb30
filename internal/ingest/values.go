package ingest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var amountCleaner = strings.NewReplacer(",", "", " ", "", "\u00a0", "", "$", "")

// MaxAmount é o limite da coluna NUMERIC(14,2).
var MaxAmount = decimal.New(1, 12)

// ParseAmount strips thousands separators and a currency sign, then parses a
// strictly positive decimal rounded to cents.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := amountCleaner.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, errors.New("amount is empty")
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	amount, err = NormalizeAmount(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q %w", s, err)
	}
	return amount, nil
}

// NormalizeAmount arredonda para centavos e exige 0 < valor < MaxAmount.
// O fingerprint e o banco veem o mesmo valor.
func NormalizeAmount(d decimal.Decimal) (decimal.Decimal, error) {
	rounded := d.Round(2)
	if !rounded.IsPositive() {
		return decimal.Zero, errors.New("must be positive")
	}
	if rounded.GreaterThanOrEqual(MaxAmount) {
		return decimal.Zero, fmt.Errorf("must be below %s", MaxAmount.String())
	}
	return rounded, nil
}

// Day-first layouts come before ISO so "03-04-2024" reads as 3 April.
var dateLayouts = []string{
	"2-1-2006",
	"2/1/2006",
	"2006-01-02",
	time.RFC3339,
}

// ParseDate reads a calendar date and returns it at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, errors.New("date is empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: unsupported format", s)
}
