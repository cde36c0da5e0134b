package quizgen

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
)

// DefaultTemplateDelay имитирует время ответа модели
const DefaultTemplateDelay = 2 * time.Second

var templateQuestions = []string{
	"Какое утверждение о теме \"%s\" верно?",
	"Какое понятие является ключевым в разделе \"%s\"?",
	"Выберите правильное определение из области \"%s\".",
	"Какой пример лучше всего иллюстрирует тему \"%s\"?",
}

// TemplateGenerator собирает вопросы из шаблонных строк после искусственной задержки
type TemplateGenerator struct {
	delay time.Duration
	newID func() string
}

// NewTemplateGenerator создает генератор. Отрицательная задержка трактуется как нулевая.
func NewTemplateGenerator(delay time.Duration) *TemplateGenerator {
	if delay < 0 {
		delay = 0
	}
	return &TemplateGenerator{delay: delay, newID: uuid.NewString}
}

// Generate ждет задержку (или отмену ctx) и собирает викторину из шаблонов
func (g *TemplateGenerator) Generate(ctx context.Context, req Request) (*entity.Quiz, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	quizID := "gen-" + g.newID()
	quiz := &entity.Quiz{
		ID:         quizID,
		Title:      fmt.Sprintf("%s: сгенерированная викторина", req.Subject),
		Subject:    req.Subject,
		Difficulty: req.Difficulty,
		TimeLimit:  timeLimitFor(req.Difficulty, req.QuestionCount),
		Questions:  make([]entity.QuizQuestion, 0, req.QuestionCount),
	}

	for i := 0; i < req.QuestionCount; i++ {
		options := entity.StringArray{
			fmt.Sprintf("Вариант A (%d)", i+1),
			fmt.Sprintf("Вариант B (%d)", i+1),
			fmt.Sprintf("Вариант C (%d)", i+1),
			fmt.Sprintf("Вариант D (%d)", i+1),
		}
		quiz.Questions = append(quiz.Questions, entity.QuizQuestion{
			ID:            fmt.Sprintf("%s-q%d", quizID, i+1),
			Question:      fmt.Sprintf(templateQuestions[i%len(templateQuestions)], req.Subject),
			Options:       options,
			CorrectAnswer: options[i%len(options)],
			Explanation:   fmt.Sprintf("Сложность: %s.", req.Difficulty),
		})
	}

	log.Printf("[QuizGen] Шаблонная викторина %s: предмет %s, вопросов %d", quiz.ID, req.Subject, req.QuestionCount)
	return quiz, nil
}
