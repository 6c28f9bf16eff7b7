package service

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/smallbiznis/quizhub/internal/quiz/domain"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// workbook builds an in-memory xlsx with the import layout: B1 quiz
// id (optional), row 2 meta, rows 3+ questions.
func workbook(t *testing.T, quizID string, meta [3]string, questions [][3]string) io.Reader {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()

	index, err := file.NewSheet(importSheetName)
	require.NoError(t, err)
	file.SetActiveSheet(index)

	if quizID != "" {
		require.NoError(t, file.SetCellValue(importSheetName, "B1", quizID))
	}
	require.NoError(t, file.SetCellValue(importSheetName, "A2", meta[0]))
	require.NoError(t, file.SetCellValue(importSheetName, "B2", meta[1]))
	require.NoError(t, file.SetCellValue(importSheetName, "C2", meta[2]))

	for i, q := range questions {
		row := i + 3
		require.NoError(t, file.SetCellValue(importSheetName, cellRef(t, 1, row), q[0]))
		require.NoError(t, file.SetCellValue(importSheetName, cellRef(t, 2, row), q[1]))
		require.NoError(t, file.SetCellValue(importSheetName, cellRef(t, 3, row), q[2]))
	}

	buf, err := file.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func cellRef(t *testing.T, col, row int) string {
	t.Helper()
	ref, err := excelize.CoordinatesToCellName(col, row)
	require.NoError(t, err)
	return ref
}

func TestImportCreatesQuiz(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	book := workbook(t, "", [3]string{"Imported quiz", "From a sheet", "14"}, [][3]string{
		{"Q1", "a;b;c", "b"},
		{"Q2", "x;y", "x"},
	})

	imported, err := f.svc.ImportWorkbook(ctx, f.owner.ID, f.company.ID.String(), book)
	require.NoError(t, err)
	require.Equal(t, "Imported quiz", imported.Name)
	require.Equal(t, 14, imported.Frequency)
	require.Len(t, imported.Questions, 2)
	require.Equal(t, []int{1}, imported.Questions[0].Correct)

	// Import-created quizzes fan out like API-created ones.
	var count int64
	require.NoError(t, f.conn.Table("notifications").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestImportUpdateMergesByPosition(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.owner.ID, f.company.ID.String(), domain.CreateQuizRequest{
		Name:      "Original",
		Frequency: 7,
		Questions: []domain.Question{
			{Text: "Q1", Options: []string{"a", "b"}, Correct: []int{0}},
			{Text: "Q2", Options: []string{"c", "d"}, Correct: []int{1}},
			{Text: "Q3", Options: []string{"e", "f"}, Correct: []int{0}},
		},
	})
	require.NoError(t, err)

	// Row 3 replaces Q1, row 4 keeps Q2 (no options), row 5 has an
	// empty text cell and deletes Q3.
	book := workbook(t, created.ID, [3]string{"Renamed", "", ""}, [][3]string{
		{"New Q1", "p;q;r", "q;r"},
		{"Q2 kept", "", ""},
		{"", "-", ""},
	})

	updated, err := f.svc.ImportWorkbook(ctx, f.owner.ID, f.company.ID.String(), book)
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, 7, updated.Frequency)
	require.Len(t, updated.Questions, 2)
	require.Equal(t, "New Q1", updated.Questions[0].Text)
	require.Equal(t, []int{1, 2}, updated.Questions[0].Correct)
	require.Equal(t, "Q2", updated.Questions[1].Text)
}

func TestImportUnknownCorrectOption(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	book := workbook(t, "", [3]string{"Quiz", "", "7"}, [][3]string{
		{"Q1", "a;b", "z"},
		{"Q2", "a;b", "a"},
	})

	_, err := f.svc.ImportWorkbook(ctx, f.owner.ID, f.company.ID.String(), book)
	require.ErrorIs(t, err, domain.ErrUnsupportedFileFormat)
}

func TestImportRejectsForeignQuizID(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	otherCompany := f.company
	otherCompany.ID = f.node.Generate()
	otherCompany.Name = "Other"
	require.NoError(t, f.conn.Create(&otherCompany).Error)

	created, err := f.svc.Create(ctx, f.owner.ID, f.company.ID.String(), createRequest())
	require.NoError(t, err)

	book := workbook(t, created.ID, [3]string{"Renamed", "", ""}, nil)
	_, err = f.svc.ImportWorkbook(ctx, f.owner.ID, otherCompany.ID.String(), book)
	require.ErrorIs(t, err, domain.ErrQuizNotFound)
}

func TestImportGarbageBytes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.ImportWorkbook(ctx, f.owner.ID, f.company.ID.String(), bytes.NewReader([]byte("not an xlsx")))
	require.ErrorIs(t, err, domain.ErrUnsupportedFileFormat)
}

func TestImportRequiresOwnerOrAdmin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	book := workbook(t, "", [3]string{"Quiz", "", "7"}, [][3]string{
		{"Q1", "a;b", "a"},
		{"Q2", "a;b", "b"},
	})
	_, err := f.svc.ImportWorkbook(ctx, f.member.ID, f.company.ID.String(), book)
	require.Error(t, err)
}
