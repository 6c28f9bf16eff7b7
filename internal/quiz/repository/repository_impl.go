package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/quiz/domain"
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

func (r *repository) Create(ctx context.Context, quiz domain.Quiz) error {
	return r.db.WithContext(ctx).Create(&quiz).Error
}

func (r *repository) GetByID(ctx context.Context, id snowflake.ID) (*domain.Quiz, error) {
	var quiz domain.Quiz
	err := r.db.WithContext(ctx).First(&quiz, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *repository) ListByCompany(ctx context.Context, companyID snowflake.ID, page pagination.Page) ([]domain.Quiz, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Quiz{}).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Offset(page.Offset)
	if page.Limit != nil {
		query = query.Limit(*page.Limit)
	}

	var quizzes []domain.Quiz
	if err := query.Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *repository) Update(ctx context.Context, quiz domain.Quiz) error {
	return r.db.WithContext(ctx).
		Where("id = ?", quiz.ID).
		Select("name", "description", "frequency", "questions", "updated_at").
		Updates(&quiz).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Quiz{}, "id = ?", id).Error
}
