package entity

import (
	"context"
	"time"
)

type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	ClientID  int64     `json:"clientId"`
	CreatedAt time.Time `json:"createdAt"`
}

type ContactRepositoryInterface interface {
	List(ctx context.Context) ([]Contact, error)
	FindByID(ctx context.Context, id int64) (*Contact, error)
	Create(ctx context.Context, c *Contact) error
}

type Interaction struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	Notes       *string   `json:"notes,omitempty"`
	ClientID    *int64    `json:"clientId,omitempty"`
	ContactID   *int64    `json:"contactId,omitempty"`
	Email       *string   `json:"email,omitempty"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
}

type InteractionRepositoryInterface interface {
	List(ctx context.Context) ([]Interaction, error)
	FindByID(ctx context.Context, id int64) (*Interaction, error)
	Create(ctx context.Context, i *Interaction) error
}
