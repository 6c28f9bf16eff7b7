package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, company Company) error
	GetByID(ctx context.Context, id snowflake.ID) (*Company, error)
	GetByName(ctx context.Context, name string) (*Company, error)
	List(ctx context.Context, viewerID snowflake.ID, page pagination.Page) ([]Company, error)
	ListAll(ctx context.Context) ([]Company, error)
	Update(ctx context.Context, company Company) error
	Delete(ctx context.Context, id snowflake.ID) error
}
