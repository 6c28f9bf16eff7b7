// Package domain contains the quiz result model and the pure
// aggregation helpers shared by the analytics service and the
// reminder scheduler.
package domain

import (
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
)

// QuizResult is an immutable record of one attempt. Rows are append
// only.
type QuizResult struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;index" json:"user_id"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"company_id"`
	QuizID    snowflake.ID `gorm:"not null;index" json:"quiz_id"`
	Answered  int          `gorm:"not null" json:"answered"`
	Correct   int          `gorm:"not null" json:"correct"`
	CreatedAt time.Time    `gorm:"not null;index;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (QuizResult) TableName() string { return "quiz_results" }

// CalculateRating returns correct_total/answered_total over a result
// set, or 0.0 when nothing was answered.
func CalculateRating(results []QuizResult) float64 {
	var answered, correct int
	for _, result := range results {
		answered += result.Answered
		correct += result.Correct
	}
	if answered == 0 {
		return 0.0
	}
	return float64(correct) / float64(answered)
}

// CalculateDynamics sorts results by time ascending and returns the
// cumulative rating after each one. It is a prefix-rating curve, not
// the score of each single attempt.
func CalculateDynamics(results []QuizResult) []MeanScoreTimed {
	ordered := make([]QuizResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	curve := make([]MeanScoreTimed, 0, len(ordered))
	for i := range ordered {
		curve = append(curve, MeanScoreTimed{
			Time:      ordered[i].CreatedAt,
			MeanScore: CalculateRating(ordered[:i+1]),
		})
	}
	return curve
}

// FindLatestAnswers keeps only the most recent result per quiz.
func FindLatestAnswers(results []QuizResult) []LatestQuizAnswer {
	latest := make(map[snowflake.ID]QuizResult, len(results))
	for _, result := range results {
		seen, ok := latest[result.QuizID]
		if !ok || result.CreatedAt.After(seen.CreatedAt) {
			latest[result.QuizID] = result
		}
	}

	answers := make([]LatestQuizAnswer, 0, len(latest))
	for quizID, result := range latest {
		answers = append(answers, LatestQuizAnswer{
			QuizID: quizID.String(),
			Time:   result.CreatedAt,
		})
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].Time.Before(answers[j].Time) })
	return answers
}

// GroupByUser splits a result set per user, preserving order.
func GroupByUser(results []QuizResult) map[snowflake.ID][]QuizResult {
	grouped := make(map[snowflake.ID][]QuizResult)
	for _, result := range results {
		grouped[result.UserID] = append(grouped[result.UserID], result)
	}
	return grouped
}
