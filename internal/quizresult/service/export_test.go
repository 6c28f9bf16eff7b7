package service

import (
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/smallbiznis/quizhub/internal/quizresult/domain"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	f := setup(t)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	results := []domain.ResultDetails{
		{ID: "1", UserID: "2", CompanyID: "3", QuizID: "4", Answered: 2, Correct: 1, Time: at},
	}

	path, err := f.svc.ExportCSV(results, "company_3")
	require.NoError(t, err)
	require.Contains(t, path, "company_3_2024-03-01_12-00-00.csv")

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, []string{"id", "user_id", "company_id", "quiz_id", "answered", "correct", "time"}, records[0])
	require.Equal(t, []string{"1", "2", "3", "4", "2", "1", "2024-03-01T12:00:00Z"}, records[1])
}
