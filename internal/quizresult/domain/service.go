package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrIncompleteQuiz  = errors.New("incomplete_quiz")
	ErrResultsNotFound = errors.New("results_not_found")
)

type Service interface {
	AddResult(ctx context.Context, actorID snowflake.ID, quizID string, answers [][]int) (*ResultDetails, error)

	GetUserRating(ctx context.Context, userID string) (*MeanScore, error)
	GetUserCompanyRating(ctx context.Context, userID, companyID string) (*MeanScore, error)
	GetUserDynamics(ctx context.Context, actorID snowflake.ID) ([]MeanScoreTimed, error)
	GetUserLatestAnswers(ctx context.Context, actorID snowflake.ID) ([]LatestQuizAnswer, error)
	GetCompanyDynamics(ctx context.Context, actorID snowflake.ID, companyID string) ([]UserMeanScoreTimed, error)
	GetCompanyMemberDynamics(ctx context.Context, actorID snowflake.ID, companyID, userID string) ([]MeanScoreTimed, error)
	GetCompanyLatestAnswers(ctx context.Context, actorID snowflake.ID, companyID string) ([]UserLatestQuizAnswers, error)

	LatestUserResults(ctx context.Context, actorID snowflake.ID) ([]ResultDetails, error)
	LatestCompanyResults(ctx context.Context, actorID snowflake.ID, companyID string) ([]ResultDetails, error)
	LatestCompanyUserResults(ctx context.Context, actorID snowflake.ID, companyID, userID string) ([]ResultDetails, error)
	LatestQuizResults(ctx context.Context, actorID snowflake.ID, quizID string) ([]ResultDetails, error)
	ExportCSV(results []ResultDetails, filenamePrefix string) (string, error)
}

// ResultDetails is the denormalized form of a result, served from the
// cache and returned by the answer endpoint.
type ResultDetails struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CompanyID string    `json:"company_id"`
	QuizID    string    `json:"quiz_id"`
	Answered  int       `json:"answered"`
	Correct   int       `json:"correct"`
	Time      time.Time `json:"time"`
}

type MeanScore struct {
	MeanScore float64 `json:"mean_score"`
}

type MeanScoreTimed struct {
	Time      time.Time `json:"time"`
	MeanScore float64   `json:"mean_score"`
}

type UserMeanScoreTimed struct {
	UserID string           `json:"user_id"`
	Scores []MeanScoreTimed `json:"scores"`
}

type LatestQuizAnswer struct {
	QuizID string    `json:"quiz_id"`
	Time   time.Time `json:"time"`
}

type UserLatestQuizAnswers struct {
	UserID        string             `json:"user_id"`
	LatestAnswers []LatestQuizAnswer `json:"latest_answers"`
}
