package usecase

import "github.com/xavierca1/ligue-crm/internal/ingest"

type DuplicatePolicy string

const (
	DuplicateSkip DuplicatePolicy = "skip"
	DuplicateFail DuplicatePolicy = "fail"
)

// ParseDuplicatePolicy aceita "" (skip), "skip" ou "fail".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(s) {
	case "", DuplicateSkip:
		return DuplicateSkip, nil
	case DuplicateFail:
		return DuplicateFail, nil
	}
	return "", &DomainError{Code: ErrCodeInvalidDupMode, Message: "on_duplicate must be skip or fail"}
}

type ImportSalesInput struct {
	Parser      ingest.Parser
	FileName    string
	OnDuplicate DuplicatePolicy
}

type ImportSalesOutput struct {
	ImportID          string            `json:"import_id"`
	Imported          int               `json:"imported"`
	SkippedDuplicates int               `json:"skipped_duplicates"`
	Rejected          []ingest.RowError `json:"rejected"`
	TotalRows         int               `json:"total_rows"`
}

type SyncLeadsOutput struct {
	Fetched    int `json:"fetched"`
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
}
