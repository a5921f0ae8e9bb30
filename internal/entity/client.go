package entity

import (
	"context"
	"time"
)

// Position is a latitude/longitude pair used by the dashboard map.
type Position [2]float64

type Client struct {
	ID          int64     `json:"id"`
	CompanyName string    `json:"companyName"`
	Industry    *string   `json:"industry,omitempty"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Position    *Position `json:"position,omitempty"`
	Region      *string   `json:"region,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ClientRepositoryInterface interface {
	List(ctx context.Context) ([]Client, error)
	FindByID(ctx context.Context, id int64) (*Client, error)
	// FindIDByCompanyName matches company_name exactly and returns ErrNotFound otherwise.
	FindIDByCompanyName(ctx context.Context, name string) (int64, error)
	Create(ctx context.Context, c *Client) error
}
