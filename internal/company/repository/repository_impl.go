package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/company/domain"
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

func (r *repository) Create(ctx context.Context, company domain.Company) error {
	return r.db.WithContext(ctx).Create(&company).Error
}

func (r *repository) GetByID(ctx context.Context, id snowflake.ID) (*domain.Company, error) {
	var company domain.Company
	err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCompanyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *repository) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	var company domain.Company
	err := r.db.WithContext(ctx).First(&company, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCompanyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// List returns public companies plus the viewer's own private ones.
func (r *repository) List(ctx context.Context, viewerID snowflake.ID, page pagination.Page) ([]domain.Company, error) {
	query := r.db.WithContext(ctx).Model(&domain.Company{}).Order("created_at ASC").Offset(page.Offset)
	if viewerID == 0 {
		query = query.Where("is_public = ?", true)
	} else {
		query = query.Where("is_public = ? OR owner_id = ?", true, viewerID)
	}
	if page.Limit != nil {
		query = query.Limit(*page.Limit)
	}

	var companies []domain.Company
	if err := query.Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// ListAll returns every company regardless of visibility. The
// reminder sweep uses it; request paths go through List.
func (r *repository) ListAll(ctx context.Context) ([]domain.Company, error) {
	var companies []domain.Company
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *repository) Update(ctx context.Context, company domain.Company) error {
	return r.db.WithContext(ctx).
		Model(&domain.Company{}).
		Where("id = ?", company.ID).
		Updates(map[string]any{
			"name":        company.Name,
			"description": company.Description,
			"is_public":   company.IsPublic,
			"updated_at":  company.UpdatedAt,
		}).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Company{}, "id = ?", id).Error
}
