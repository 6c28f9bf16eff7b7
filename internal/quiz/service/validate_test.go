package service

import (
	"testing"

	"github.com/smallbiznis/quizhub/internal/quiz/domain"
	"github.com/stretchr/testify/require"
)

func validQuestions() []domain.Question {
	return []domain.Question{
		{Text: "Q1", Options: []string{"a", "b", "c"}, Correct: []int{0}},
		{Text: "Q2", Options: []string{"a", "b"}, Correct: []int{1}},
	}
}

func TestValidateQuiz(t *testing.T) {
	cases := []struct {
		name      string
		quizName  string
		frequency int
		mutate    func([]domain.Question) []domain.Question
		wantErr   bool
	}{
		{name: "valid", quizName: "Quiz", frequency: 7},
		{name: "empty name", quizName: "  ", frequency: 7, wantErr: true},
		{name: "zero frequency", quizName: "Quiz", frequency: 0, wantErr: true},
		{name: "negative frequency", quizName: "Quiz", frequency: -1, wantErr: true},
		{
			name: "single question", quizName: "Quiz", frequency: 7, wantErr: true,
			mutate: func(q []domain.Question) []domain.Question { return q[:1] },
		},
		{
			name: "single option", quizName: "Quiz", frequency: 7, wantErr: true,
			mutate: func(q []domain.Question) []domain.Question {
				q[0].Options = []string{"only"}
				q[0].Correct = []int{0}
				return q
			},
		},
		{
			name: "duplicate options", quizName: "Quiz", frequency: 7, wantErr: true,
			mutate: func(q []domain.Question) []domain.Question {
				q[0].Options = []string{"a", "a"}
				return q
			},
		},
		{
			name: "no correct options", quizName: "Quiz", frequency: 7, wantErr: true,
			mutate: func(q []domain.Question) []domain.Question {
				q[0].Correct = nil
				return q
			},
		},
		{
			name: "all options correct", quizName: "Quiz", frequency: 7, wantErr: true,
			mutate: func(q []domain.Question) []domain.Question {
				q[0].Correct = []int{0, 1, 2}
				return q
			},
		},
		{
			name: "correct index out of range", quizName: "Quiz", frequency: 7, wantErr: true,
			mutate: func(q []domain.Question) []domain.Question {
				q[0].Correct = []int{5}
				return q
			},
		},
		{
			name: "duplicate correct index", quizName: "Quiz", frequency: 7, wantErr: true,
			mutate: func(q []domain.Question) []domain.Question {
				q[0].Correct = []int{0, 0}
				return q
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			questions := validQuestions()
			if tc.mutate != nil {
				questions = tc.mutate(questions)
			}
			err := validateQuiz(tc.quizName, tc.frequency, questions)
			if tc.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidQuiz)
				return
			}
			require.NoError(t, err)
		})
	}
}
