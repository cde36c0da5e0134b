// Package quizgen генерирует викторины по предмету и сложности.
package quizgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
)

// Ограничения на количество вопросов
const (
	MinQuestions     = 1
	MaxQuestions     = 20
	DefaultQuestions = 5
)

// ErrInvalidRequest возвращается для некорректных параметров генерации
var ErrInvalidRequest = errors.New("invalid generation request")

// Request описывает параметры генерации
type Request struct {
	Subject       string
	Difficulty    string
	QuestionCount int
}

// Normalize подставляет значения по умолчанию и проверяет параметры
func (r *Request) Normalize() error {
	r.Subject = strings.TrimSpace(r.Subject)
	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))
	if r.Difficulty == "" {
		r.Difficulty = entity.DifficultyMedium
	}
	if r.QuestionCount == 0 {
		r.QuestionCount = DefaultQuestions
	}

	if r.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidRequest)
	}
	if !entity.IsValidDifficulty(r.Difficulty) {
		return fmt.Errorf("%w: invalid difficulty %q", ErrInvalidRequest, r.Difficulty)
	}
	if r.QuestionCount < MinQuestions || r.QuestionCount > MaxQuestions {
		return fmt.Errorf("%w: question count must be between %d and %d", ErrInvalidRequest, MinQuestions, MaxQuestions)
	}
	return nil
}

// Generator создает викторину
type Generator interface {
	Generate(ctx context.Context, req Request) (*entity.Quiz, error)
}

// timeLimitFor возвращает лимит времени в минутах
func timeLimitFor(difficulty string, questions int) int {
	perQuestion := 2
	switch difficulty {
	case entity.DifficultyEasy:
		perQuestion = 1
	case entity.DifficultyHard:
		perQuestion = 3
	}
	return perQuestion * questions
}
