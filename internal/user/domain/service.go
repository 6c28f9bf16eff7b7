package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
)

var (
	ErrUserNotFound   = errors.New("user_not_found")
	ErrEmailExists    = errors.New("email_already_exists")
	ErrUsernameExists = errors.New("username_already_exists")
	ErrInvalidUser    = errors.New("invalid_user")
)

type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*UserResponse, error)
	GetByID(ctx context.Context, id string) (*UserResponse, error)
	List(ctx context.Context, page pagination.Page) ([]UserResponse, error)
	Update(ctx context.Context, actorID snowflake.ID, id string, req UpdateUserRequest) (*UserResponse, error)
	Delete(ctx context.Context, actorID snowflake.ID, id string) error
}

type SignupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest carries an explicit optional-field patch. Nil means
// leave the field unchanged.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"created_at"`
}
