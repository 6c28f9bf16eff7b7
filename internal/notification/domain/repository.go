package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, notifications []Notification) error
	GetByID(ctx context.Context, id snowflake.ID) (*Notification, error)
	ListByUser(ctx context.Context, userID snowflake.ID, page pagination.Page) ([]Notification, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, status Status) error
}
