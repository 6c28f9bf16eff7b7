package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, membership Membership) error
	Get(ctx context.Context, companyID, userID snowflake.ID) (*Membership, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, status Status, updatedAt time.Time) error
	Delete(ctx context.Context, id snowflake.ID) error
	ListByUser(ctx context.Context, userID snowflake.ID, status Status, page pagination.Page) ([]Membership, error)
	ListByCompany(ctx context.Context, companyID snowflake.ID, status Status, page pagination.Page) ([]Membership, error)
	ListMemberUserIDs(ctx context.Context, companyID snowflake.ID) ([]snowflake.ID, error)
}
