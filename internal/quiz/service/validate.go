package service

import (
	"fmt"
	"strings"

	"github.com/smallbiznis/quizhub/internal/quiz/domain"
)

// validateQuiz enforces the authoring rules: at least two questions,
// each with at least two distinct options and a correct set that is
// neither empty nor the full option list.
func validateQuiz(name string, frequency int, questions []domain.Question) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidQuiz)
	}
	if frequency <= 0 {
		return fmt.Errorf("%w: frequency must be a positive number of days", domain.ErrInvalidQuiz)
	}
	if len(questions) < 2 {
		return fmt.Errorf("%w: a quiz needs at least 2 questions", domain.ErrInvalidQuiz)
	}

	for i, question := range questions {
		if strings.TrimSpace(question.Text) == "" {
			return fmt.Errorf("%w: question %d has no text", domain.ErrInvalidQuiz, i+1)
		}
		if len(question.Options) < 2 {
			return fmt.Errorf("%w: question %d needs at least 2 options", domain.ErrInvalidQuiz, i+1)
		}

		seen := make(map[string]struct{}, len(question.Options))
		for _, option := range question.Options {
			key := strings.TrimSpace(option)
			if key == "" {
				return fmt.Errorf("%w: question %d has an empty option", domain.ErrInvalidQuiz, i+1)
			}
			if _, dup := seen[key]; dup {
				return fmt.Errorf("%w: question %d has duplicate options", domain.ErrInvalidQuiz, i+1)
			}
			seen[key] = struct{}{}
		}

		if len(question.Correct) < 1 || len(question.Correct) > len(question.Options)-1 {
			return fmt.Errorf("%w: question %d must have between 1 and %d correct options",
				domain.ErrInvalidQuiz, i+1, len(question.Options)-1)
		}
		marked := make(map[int]struct{}, len(question.Correct))
		for _, index := range question.Correct {
			if index < 0 || index >= len(question.Options) {
				return fmt.Errorf("%w: question %d has a correct index out of range", domain.ErrInvalidQuiz, i+1)
			}
			if _, dup := marked[index]; dup {
				return fmt.Errorf("%w: question %d marks the same option correct twice", domain.ErrInvalidQuiz, i+1)
			}
			marked[index] = struct{}{}
		}
	}

	return nil
}
