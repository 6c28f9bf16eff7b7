package service

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/smallbiznis/quizhub/internal/quizresult/domain"
)

// ExportCSV writes a result list to a timestamped, prefixed CSV file
// under the configured export directory and returns its path.
func (s *service) ExportCSV(results []domain.ResultDetails, filenamePrefix string) (string, error) {
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", err
	}

	stamp := s.clock.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(s.exportDir, fmt.Sprintf("%s_%s.csv", filenamePrefix, stamp))

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"id", "user_id", "company_id", "quiz_id", "answered", "correct", "time"}); err != nil {
		return "", err
	}
	for _, result := range results {
		record := []string{
			result.ID,
			result.UserID,
			result.CompanyID,
			result.QuizID,
			strconv.Itoa(result.Answered),
			strconv.Itoa(result.Correct),
			result.Time.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return path, nil
}
