package entity

import "context"

type User struct {
	ID       int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	TeamID   *int64 `json:"teamId,omitempty"`
}

type UserRepositoryInterface interface {
	List(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
}
