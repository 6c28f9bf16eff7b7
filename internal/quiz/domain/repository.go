package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, quiz Quiz) error
	GetByID(ctx context.Context, id snowflake.ID) (*Quiz, error)
	ListByCompany(ctx context.Context, companyID snowflake.ID, page pagination.Page) ([]Quiz, error)
	Update(ctx context.Context, quiz Quiz) error
	Delete(ctx context.Context, id snowflake.ID) error
}
