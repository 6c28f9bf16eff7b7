package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
)

var (
	ErrQuizNotFound          = errors.New("quiz_not_found")
	ErrInvalidQuiz           = errors.New("invalid_quiz")
	ErrUnsupportedFileFormat = errors.New("unsupported_file_format")
)

type Service interface {
	Create(ctx context.Context, actorID snowflake.ID, companyID string, req CreateQuizRequest) (*QuizResponse, error)
	GetByID(ctx context.Context, id string) (*QuizResponse, error)
	ListByCompany(ctx context.Context, companyID string, page pagination.Page) ([]QuizResponse, error)
	Update(ctx context.Context, actorID snowflake.ID, id string, req UpdateQuizRequest) (*QuizResponse, error)
	Delete(ctx context.Context, actorID snowflake.ID, id string) error
	ImportWorkbook(ctx context.Context, actorID snowflake.ID, companyID string, workbook io.Reader) (*QuizResponse, error)
}

type CreateQuizRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Frequency   int        `json:"frequency"`
	Questions   []Question `json:"questions"`
}

// UpdateQuizRequest carries an explicit optional-field patch. Nil
// means leave the field unchanged. A non-nil Questions replaces the
// whole question list and is re-validated.
type UpdateQuizRequest struct {
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	Frequency   *int        `json:"frequency"`
	Questions   *[]Question `json:"questions"`
}

type QuizResponse struct {
	ID          string     `json:"id"`
	CompanyID   string     `json:"company_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Frequency   int        `json:"frequency"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"created_at"`
}
