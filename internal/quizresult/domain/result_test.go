package domain

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
)

func result(user, quiz snowflake.ID, answered, correct int, at time.Time) QuizResult {
	return QuizResult{
		UserID:    user,
		QuizID:    quiz,
		Answered:  answered,
		Correct:   correct,
		CreatedAt: at,
	}
}

func TestCalculateRatingEmpty(t *testing.T) {
	require.Equal(t, 0.0, CalculateRating(nil))
	require.Equal(t, 0.0, CalculateRating([]QuizResult{}))
}

func TestCalculateRating(t *testing.T) {
	results := []QuizResult{
		result(1, 1, 2, 1, time.Now()),
		result(1, 2, 2, 2, time.Now()),
	}
	require.InDelta(t, 0.75, CalculateRating(results), 1e-9)
}

func TestCalculateDynamicsPrefixCurve(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	// Deliberately out of order; the curve must sort by time first.
	results := []QuizResult{
		result(1, 2, 2, 1, base.Add(24*time.Hour)),
		result(1, 1, 2, 1, base),
		result(1, 3, 2, 0, base.Add(48*time.Hour)),
	}

	curve := CalculateDynamics(results)
	require.Len(t, curve, 3)

	require.Equal(t, base, curve[0].Time)
	require.InDelta(t, 0.5, curve[0].MeanScore, 1e-9)
	require.InDelta(t, 0.5, curve[1].MeanScore, 1e-9)
	require.InDelta(t, 1.0/3.0, curve[2].MeanScore, 1e-9)
}

func TestFindLatestAnswersKeepsNewestPerQuiz(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	results := []QuizResult{
		result(1, 10, 2, 1, base),
		result(1, 10, 2, 2, base.Add(time.Hour)),
		result(1, 20, 2, 0, base.Add(30*time.Minute)),
	}

	answers := FindLatestAnswers(results)
	require.Len(t, answers, 2)
	require.Equal(t, snowflake.ID(20).String(), answers[0].QuizID)
	require.Equal(t, base.Add(30*time.Minute), answers[0].Time)
	require.Equal(t, snowflake.ID(10).String(), answers[1].QuizID)
	require.Equal(t, base.Add(time.Hour), answers[1].Time)
}

func TestGroupByUser(t *testing.T) {
	results := []QuizResult{
		result(1, 10, 2, 1, time.Now()),
		result(2, 10, 2, 2, time.Now()),
		result(1, 20, 2, 0, time.Now()),
	}

	grouped := GroupByUser(results)
	require.Len(t, grouped, 2)
	require.Len(t, grouped[1], 2)
	require.Len(t, grouped[2], 1)
}
