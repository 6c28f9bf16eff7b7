package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, result QuizResult) error
	ListByUser(ctx context.Context, userID snowflake.ID) ([]QuizResult, error)
	ListByUserAndCompany(ctx context.Context, userID, companyID snowflake.ID) ([]QuizResult, error)
	ListByCompany(ctx context.Context, companyID snowflake.ID) ([]QuizResult, error)
	ListByQuiz(ctx context.Context, quizID snowflake.ID) ([]QuizResult, error)
}
