package entity

import (
	"context"
	"time"
)

type Project struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	ClientID    *int64     `json:"clientId"`
}

type ProjectRepositoryInterface interface {
	// List returns every project, or only the client's when clientID is set.
	List(ctx context.Context, clientID *int64) ([]Project, error)
	FindByID(ctx context.Context, id int64) (*Project, error)
	Create(ctx context.Context, p *Project) error
}
