package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/quizresult/domain"
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

func (r *repository) Create(ctx context.Context, result domain.QuizResult) error {
	return r.db.WithContext(ctx).Create(&result).Error
}

func (r *repository) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.QuizResult, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *repository) ListByUserAndCompany(ctx context.Context, userID, companyID snowflake.ID) ([]domain.QuizResult, error) {
	return r.list(ctx, "user_id = ? AND company_id = ?", userID, companyID)
}

func (r *repository) ListByCompany(ctx context.Context, companyID snowflake.ID) ([]domain.QuizResult, error) {
	return r.list(ctx, "company_id = ?", companyID)
}

func (r *repository) ListByQuiz(ctx context.Context, quizID snowflake.ID) ([]domain.QuizResult, error) {
	return r.list(ctx, "quiz_id = ?", quizID)
}

func (r *repository) list(ctx context.Context, condition string, args ...any) ([]domain.QuizResult, error) {
	var results []domain.QuizResult
	err := r.db.WithContext(ctx).
		Where(condition, args...).
		Order("created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
