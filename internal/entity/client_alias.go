package entity

import "context"

// ClientAlias maps a display name found in uploaded spreadsheets to a stored
// client. The table replaces the hardcoded lookup the legacy importer carried.
type ClientAlias struct {
	Name     string `json:"name" yaml:"name"`
	ClientID int64  `json:"clientId" yaml:"client_id"`
}

type ClientAliasRepositoryInterface interface {
	List(ctx context.Context) ([]ClientAlias, error)
	FindClientID(ctx context.Context, name string) (int64, error)
	Upsert(ctx context.Context, aliases []ClientAlias) (int, error)
}
