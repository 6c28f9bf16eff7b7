package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/quiz/domain"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Workbook layout: worksheet "Quiz"; row 1 column B optionally holds
// an existing quiz id (update path); row 2 holds name, description
// and frequency; every later row holds one question: text, a
// semicolon-joined option list and a semicolon-joined list of the
// correct option texts.
const importSheetName = "Quiz"

func (s *service) ImportWorkbook(ctx context.Context, actorID snowflake.ID, companyID string, workbook io.Reader) (*domain.QuizResponse, error) {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerAdmin(ctx, company, actorID, "import quizzes"); err != nil {
		return nil, err
	}

	file, err := excelize.OpenReader(workbook)
	if err != nil {
		return nil, fmt.Errorf("%w: not a readable workbook", domain.ErrUnsupportedFileFormat)
	}
	defer file.Close()

	rows, err := file.GetRows(importSheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: worksheet %q is missing", domain.ErrUnsupportedFileFormat, importSheetName)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: workbook has no quiz header rows", domain.ErrUnsupportedFileFormat)
	}

	quizIDRaw := cell(rows, 0, 1)
	if quizIDRaw == "" {
		return s.importCreate(ctx, company.ID, rows)
	}
	return s.importUpdate(ctx, company.ID, quizIDRaw, rows)
}

func (s *service) importCreate(ctx context.Context, companyID snowflake.ID, rows [][]string) (*domain.QuizResponse, error) {
	name := cell(rows, 1, 0)
	description := cell(rows, 1, 1)
	frequency, err := parseFrequency(cell(rows, 1, 2))
	if err != nil {
		return nil, err
	}

	var questions []domain.Question
	for i := 2; i < len(rows); i++ {
		if rowEmpty(rows, i) {
			continue
		}
		question, err := parseImportQuestion(rows, i)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}

	if err := validateQuiz(name, frequency, questions); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	quiz := domain.Quiz{
		ID:          s.genID.Generate(),
		CompanyID:   companyID,
		Name:        name,
		Description: description,
		Frequency:   frequency,
		Questions:   questions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, quiz); err != nil {
		return nil, err
	}

	s.log.Info("quiz imported",
		zap.String("quiz_id", quiz.ID.String()),
		zap.String("company_id", companyID.String()),
	)
	s.fanOut(ctx, quiz)

	return toResponse(quiz), nil
}

func (s *service) importUpdate(ctx context.Context, companyID snowflake.ID, quizIDRaw string, rows [][]string) (*domain.QuizResponse, error) {
	quizID, err := snowflake.ParseString(quizIDRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: cell B1 does not hold a quiz id", domain.ErrUnsupportedFileFormat)
	}

	quiz, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.CompanyID != companyID {
		return nil, domain.ErrQuizNotFound
	}

	if name := cell(rows, 1, 0); name != "" {
		quiz.Name = name
	}
	if description := cell(rows, 1, 1); description != "" {
		quiz.Description = description
	}
	if raw := cell(rows, 1, 2); raw != "" {
		frequency, err := parseFrequency(raw)
		if err != nil {
			return nil, err
		}
		quiz.Frequency = frequency
	}

	questions, err := applyImportRows(quiz.Questions, rows)
	if err != nil {
		return nil, err
	}
	if err := validateQuiz(quiz.Name, quiz.Frequency, questions); err != nil {
		return nil, err
	}
	quiz.Questions = questions
	quiz.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, *quiz); err != nil {
		return nil, err
	}

	s.log.Info("quiz updated from workbook", zap.String("quiz_id", quiz.ID.String()))
	return toResponse(*quiz), nil
}

// applyImportRows merges question rows over the existing list by
// position. An empty first cell deletes the question at that
// position; a row without option or correct data keeps it unchanged;
// a full row replaces it or appends past the end.
func applyImportRows(existing []domain.Question, rows [][]string) ([]domain.Question, error) {
	questionRows := len(rows) - 2
	merged := make([]domain.Question, 0, len(existing)+questionRows)

	count := questionRows
	if len(existing) > count {
		count = len(existing)
	}

	for i := 0; i < count; i++ {
		if i >= questionRows {
			merged = append(merged, existing[i])
			continue
		}

		row := i + 2
		text := cell(rows, row, 0)
		options := cell(rows, row, 1)
		correct := cell(rows, row, 2)

		switch {
		case text == "":
			if i >= len(existing) {
				return nil, fmt.Errorf("%w: row %d deletes a question that does not exist", domain.ErrUnsupportedFileFormat, row+1)
			}
			// deleted
		case options == "" || correct == "":
			if i >= len(existing) {
				return nil, fmt.Errorf("%w: row %d keeps a question that does not exist", domain.ErrUnsupportedFileFormat, row+1)
			}
			merged = append(merged, existing[i])
		default:
			question, err := parseImportQuestion(rows, row)
			if err != nil {
				return nil, err
			}
			merged = append(merged, question)
		}
	}

	return merged, nil
}

func parseImportQuestion(rows [][]string, row int) (domain.Question, error) {
	text := cell(rows, row, 0)
	optionsCell := cell(rows, row, 1)
	correctCell := cell(rows, row, 2)
	if text == "" || optionsCell == "" || correctCell == "" {
		return domain.Question{}, fmt.Errorf("%w: row %d is missing question data", domain.ErrUnsupportedFileFormat, row+1)
	}

	options := splitCell(optionsCell)
	correct := make([]int, 0, 2)
	for _, answer := range splitCell(correctCell) {
		index := indexOf(options, answer)
		if index < 0 {
			return domain.Question{}, fmt.Errorf("%w: row %d marks %q correct but it is not an option", domain.ErrUnsupportedFileFormat, row+1, answer)
		}
		correct = append(correct, index)
	}

	return domain.Question{Text: text, Options: options, Correct: correct}, nil
}

func parseFrequency(raw string) (int, error) {
	frequency, err := strconv.Atoi(raw)
	if err != nil || frequency <= 0 {
		return 0, fmt.Errorf("%w: frequency must be a positive number of days", domain.ErrUnsupportedFileFormat)
	}
	return frequency, nil
}

func splitCell(raw string) []string {
	parts := strings.Split(raw, ";")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if value := strings.TrimSpace(part); value != "" {
			values = append(values, value)
		}
	}
	return values
}

func indexOf(options []string, answer string) int {
	for i, option := range options {
		if option == answer {
			return i
		}
	}
	return -1
}

// cell reads a trimmed cell value, tolerating the ragged rows GetRows
// returns when trailing cells are empty.
func cell(rows [][]string, row, col int) string {
	if row >= len(rows) || col >= len(rows[row]) {
		return ""
	}
	return strings.TrimSpace(rows[row][col])
}

func rowEmpty(rows [][]string, row int) bool {
	if row >= len(rows) {
		return true
	}
	for _, value := range rows[row] {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
