package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
)

var (
	ErrCompanyNotFound   = errors.New("company_not_found")
	ErrCompanyNameExists = errors.New("company_name_already_exists")
	ErrInvalidCompany    = errors.New("invalid_company")
)

type Service interface {
	Create(ctx context.Context, ownerID snowflake.ID, req CreateCompanyRequest) (*CompanyResponse, error)
	GetByID(ctx context.Context, id string) (*CompanyResponse, error)
	List(ctx context.Context, actorID snowflake.ID, page pagination.Page) ([]CompanyResponse, error)
	Update(ctx context.Context, actorID snowflake.ID, id string, req UpdateCompanyRequest) (*CompanyResponse, error)
	Delete(ctx context.Context, actorID snowflake.ID, id string) error
}

type CreateCompanyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}

// UpdateCompanyRequest carries an explicit optional-field patch. Nil
// means leave the field unchanged.
type UpdateCompanyRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

type CompanyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
}
