package entity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// saleNamespace seeds the UUIDv5 fingerprints of sale rows.
var saleNamespace = uuid.MustParse("6b1f4e0a-3c2d-5e8f-9a7b-1d2c3e4f5a6b")

// Sale is immutable once stored. Rows only disappear through the
// administrative bulk clear.
type Sale struct {
	ID          int64           `json:"id"`
	ClientID    int64           `json:"clientId"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description *string         `json:"description,omitempty"`
	ImportID    *string         `json:"importId,omitempty"`
	Fingerprint string          `json:"-"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func NewSale(clientID int64, amount decimal.Decimal, date time.Time, description *string, importID *string) Sale {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return Sale{
		ClientID:    clientID,
		Amount:      amount,
		Date:        day,
		Description: description,
		ImportID:    importID,
		Fingerprint: SaleFingerprint(clientID, day, amount, description),
		CreatedAt:   time.Now().UTC(),
	}
}

// SaleFingerprint identifies a sale by its content so the same spreadsheet row
// uploaded twice maps to the same key.
func SaleFingerprint(clientID int64, date time.Time, amount decimal.Decimal, description *string) string {
	desc := ""
	if description != nil {
		desc = *description
	}
	key := fmt.Sprintf("%d|%s|%s|%s", clientID, date.Format("2006-01-02"), amount.String(), desc)
	return uuid.NewSHA1(saleNamespace, []byte(key)).String()
}

// SalesSegment is one bucket of the dashboard segmentation (region or industry).
type SalesSegment struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type SaleRepositoryInterface interface {
	List(ctx context.Context) ([]Sale, error)
	FindByID(ctx context.Context, id int64) (*Sale, error)
	Create(ctx context.Context, s *Sale) error
	// BulkInsert writes every row in one transaction and reports how many
	// rows were stored. With skipDuplicates rows whose fingerprint already
	// exists are ignored; otherwise the whole batch fails with ErrDuplicate.
	BulkInsert(ctx context.Context, sales []Sale, skipDuplicates bool) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
	SummaryByRegion(ctx context.Context) ([]SalesSegment, error)
	SummaryByIndustry(ctx context.Context) ([]SalesSegment, error)
}

// OccurrenceFingerprint separates identical rows inside one upload: the n-th
// repeat (n >= 2) gets its own key, so re-uploading the same file still maps
// every row to the key it had the first time.
func OccurrenceFingerprint(base string, n int) string {
	if n <= 1 {
		return base
	}
	return uuid.NewSHA1(saleNamespace, []byte(fmt.Sprintf("%s#%d", base, n))).String()
}
