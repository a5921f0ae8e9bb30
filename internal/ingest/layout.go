package ingest

import "strings"

// Layout tells a source which column holds each field. -1 marks a missing column.
type Layout struct {
	Description int
	Amount      int
	Date        int
	Account     int
}

// DefaultLayout is used when the header row does not name the columns.
var DefaultLayout = Layout{Description: 0, Amount: 1, Date: 2, Account: 3}

type field int

const (
	fieldDescription field = iota
	fieldAmount
	fieldDate
	fieldAccount
)

var headerAliases = map[string]field{
	"description":  fieldDescription,
	"descripcion":  fieldDescription,
	"deal name":    fieldDescription,
	"amount":       fieldAmount,
	"monto":        fieldAmount,
	"valor":        fieldAmount,
	"date":         fieldDate,
	"fecha":        fieldDate,
	"closing date": fieldDate,
	"account":      fieldAccount,
	"accounts":     fieldAccount,
	"account name": fieldAccount,
	"client":       fieldAccount,
	"cliente":      fieldAccount,
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.Trim(strings.TrimSpace(h), `"'`)
	return strings.ToLower(strings.TrimSpace(h))
}

// LayoutFromHeader binds columns by header name. It falls back to
// DefaultLayout unless amount, date and account are all named.
func LayoutFromHeader(header []string) Layout {
	l := Layout{Description: -1, Amount: -1, Date: -1, Account: -1}
	for i, h := range header {
		f, ok := headerAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		switch f {
		case fieldDescription:
			if l.Description < 0 {
				l.Description = i
			}
		case fieldAmount:
			if l.Amount < 0 {
				l.Amount = i
			}
		case fieldDate:
			if l.Date < 0 {
				l.Date = i
			}
		case fieldAccount:
			if l.Account < 0 {
				l.Account = i
			}
		}
	}
	if l.Amount < 0 || l.Date < 0 || l.Account < 0 {
		return DefaultLayout
	}
	return l
}

func (l Layout) extract(line int, record []string) RawRow {
	return RawRow{
		Line:        line,
		Amount:      cell(record, l.Amount),
		Date:        cell(record, l.Date),
		Description: cell(record, l.Description),
		Account:     cell(record, l.Account),
	}
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
