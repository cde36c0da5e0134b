// Package export выгружает результаты викторин в CSV и XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
)

// Форматы выгрузки
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const sheetName = "Результаты"

// ContentType возвращает MIME-тип формата
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// IsSupported проверяет формат
func IsSupported(format string) bool {
	return format == FormatCSV || format == FormatXLSX
}

var headers = []string{"ID", "Викторина", "Название", "Очки (%)", "Всего вопросов", "Время (сек)", "Награда доступна", "Награда получена", "Дата"}

// QuizTitles сопоставляет ID викторины с названием. Неизвестные ID выгружаются без названия.
type QuizTitles map[string]string

func yesNo(v bool) string {
	if v {
		return "Да"
	}
	return "Нет"
}

func row(r entity.QuizResult, titles QuizTitles) []string {
	return []string{
		r.ID,
		sanitizeForExcel(r.QuizID),
		sanitizeForExcel(titles[r.QuizID]),
		strconv.Itoa(r.Score),
		strconv.Itoa(r.TotalQuestions),
		strconv.Itoa(r.TimeTaken),
		yesNo(r.IsEligibleForReward()),
		yesNo(r.RewardClaimed),
		r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// WriteCSV пишет результаты в CSV с BOM для корректного UTF-8 в Excel
func WriteCSV(w io.Writer, results []entity.QuizResult, titles QuizTitles) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return err
	}
	for _, r := range results {
		if err := writer.Write(row(r, titles)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX пишет результаты в XLSX через StreamWriter
func WriteXLSX(w io.Writer, results []entity.QuizResult, titles QuizTitles) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return err
	}

	for i, r := range results {
		values := row(r, titles)
		cells := make([]interface{}, len(values))
		for j, v := range values {
			cells[j] = v
		}
		// Числовые колонки пишем числами
		cells[3] = r.Score
		cells[4] = r.TotalQuestions
		cells[5] = r.TimeTaken

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}

// Write выбирает формат
func Write(w io.Writer, format string, results []entity.QuizResult, titles QuizTitles) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, results, titles)
	case FormatXLSX:
		return WriteXLSX(w, results, titles)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// sanitizeForExcel защищает от CSV/formula injection
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
