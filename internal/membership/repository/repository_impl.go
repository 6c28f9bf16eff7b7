package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/membership/domain"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, membership domain.Membership) error {
	return r.db.WithContext(ctx).Create(&membership).Error
}

// Get returns nil without error when no row links the pair. Callers
// decide whether absence is a failure.
func (r *repository) Get(ctx context.Context, companyID, userID snowflake.ID) (*domain.Membership, error) {
	var membership domain.Membership
	err := r.db.WithContext(ctx).
		First(&membership, "company_id = ? AND user_id = ?", companyID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id snowflake.ID, status domain.Status, updatedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Membership{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": updatedAt,
		}).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Membership{}, "id = ?", id).Error
}

func (r *repository) ListByUser(ctx context.Context, userID snowflake.ID, status domain.Status, page pagination.Page) ([]domain.Membership, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Membership{}).
		Where("user_id = ? AND status = ?", userID, status).
		Order("created_at ASC").
		Offset(page.Offset)
	if page.Limit != nil {
		query = query.Limit(*page.Limit)
	}

	var memberships []domain.Membership
	if err := query.Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *repository) ListByCompany(ctx context.Context, companyID snowflake.ID, status domain.Status, page pagination.Page) ([]domain.Membership, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Membership{}).
		Where("company_id = ? AND status = ?", companyID, status).
		Order("created_at ASC").
		Offset(page.Offset)
	if page.Limit != nil {
		query = query.Limit(*page.Limit)
	}

	var memberships []domain.Membership
	if err := query.Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *repository) ListMemberUserIDs(ctx context.Context, companyID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := r.db.WithContext(ctx).
		Model(&domain.Membership{}).
		Where("company_id = ? AND status = ?", companyID, domain.StatusMember).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
