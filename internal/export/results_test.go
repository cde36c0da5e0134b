package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
)

func sampleResults() []entity.QuizResult {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []entity.QuizResult{
		{ID: "r1", UserID: "u1", QuizID: "math-basics", Score: 80, TotalQuestions: 5, TimeTaken: 120, Completed: true, CreatedAt: created},
		{ID: "r2", UserID: "u1", QuizID: "=cmd", Score: 40, TotalQuestions: 5, TimeTaken: 90, Completed: true, CreatedAt: created},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, sampleResults(), QuizTitles{"math-basics": "Основы математики"})
	require.NoError(t, err)

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, headers, records[0])
	assert.Equal(t, "Основы математики", records[1][2])
	assert.Equal(t, "Да", records[1][6])
	assert.Equal(t, "'=cmd", records[2][1], "Формулы экранируются")
	assert.Equal(t, "Нет", records[2][6])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleResults(), nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "r1", rows[1][0])
	assert.Equal(t, "80", rows[1][3])
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, "pdf", nil, nil))
	assert.False(t, IsSupported("pdf"))
	assert.True(t, IsSupported(FormatXLSX))
}

func TestSanitizeForExcel(t *testing.T) {
	assert.Equal(t, "", sanitizeForExcel(""))
	assert.Equal(t, "plain", sanitizeForExcel("plain"))
	assert.Equal(t, "'+1", sanitizeForExcel("+1"))
	assert.Equal(t, "'@x", sanitizeForExcel("@x"))
}
