package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	"github.com/yourusername/tutorconnect-api/internal/domain/repository"
	apperrors "github.com/yourusername/tutorconnect-api/internal/pkg/errors"
)

// GeneratedQuizzesKey - ключ хранилища, под которым сгенерированные викторины лежат одним JSON-массивом
const GeneratedQuizzesKey = "generated_quizzes"

// QuizCatalog хранит фиксированный каталог викторин и добавленные через генерацию
type QuizCatalog struct {
	mu      sync.RWMutex
	quizzes []entity.Quiz
	store   repository.KeyValueStore
}

// NewQuizCatalog создает каталог из начальных викторин.
// Если передан store, ранее сгенерированные викторины подгружаются из него.
func NewQuizCatalog(seed []entity.Quiz, store repository.KeyValueStore) *QuizCatalog {
	c := &QuizCatalog{
		quizzes: append([]entity.Quiz(nil), seed...),
		store:   store,
	}

	if store != nil {
		raw, err := store.Get(context.Background(), GeneratedQuizzesKey)
		switch {
		case err == nil:
			generated := decodeQuizzes(raw)
			c.quizzes = append(c.quizzes, generated...)
			log.Printf("[QuizCatalog] Загружено %d сгенерированных викторин", len(generated))
		case !errors.Is(err, apperrors.ErrNotFound):
			log.Printf("[QuizCatalog] Не удалось прочитать сгенерированные викторины: %v", err)
		}
	}
	return c
}

// decodeQuizzes разбирает сохраненный массив. Битые данные трактуются как пустой массив.
func decodeQuizzes(raw string) []entity.Quiz {
	if raw == "" {
		return nil
	}
	var quizzes []entity.Quiz
	if err := json.Unmarshal([]byte(raw), &quizzes); err != nil {
		log.Printf("[QuizCatalog] Поврежденные данные под ключом %s: %v", GeneratedQuizzesKey, err)
		return nil
	}
	return quizzes
}

// ListQuizzesForUser возвращает викторины по предметам пользователя.
// Без пользователя, без предметов или без совпадений возвращается весь каталог.
func (c *QuizCatalog) ListQuizzesForUser(user *entity.UserProfile) []entity.Quiz {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := append([]entity.Quiz(nil), c.quizzes...)
	if user == nil || len(user.Subjects) == 0 {
		return all
	}

	matched := make([]entity.Quiz, 0, len(all))
	for _, q := range all {
		if user.Subjects.Contains(q.Subject) {
			matched = append(matched, q)
		}
	}
	if len(matched) == 0 {
		return all
	}
	return matched
}

// All возвращает копию всего каталога в исходном порядке
func (c *QuizCatalog) All() []entity.Quiz {
	return c.ListQuizzesForUser(nil)
}

// GetQuizByID ищет викторину по идентификатору
func (c *QuizCatalog) GetQuizByID(id string) (*entity.Quiz, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.quizzes {
		if c.quizzes[i].ID == id {
			q := c.quizzes[i]
			return &q, nil
		}
	}
	return nil, fmt.Errorf("%w: quiz %s", apperrors.ErrNotFound, id)
}

// Add добавляет викторину в каталог и атомарно дописывает ее в хранилище
func (c *QuizCatalog) Add(ctx context.Context, quiz entity.Quiz) error {
	if err := quiz.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, q := range c.quizzes {
		if q.ID == quiz.ID {
			return fmt.Errorf("%w: quiz %s already exists", apperrors.ErrConflict, quiz.ID)
		}
	}
	c.quizzes = append(c.quizzes, quiz)

	if c.store == nil {
		return nil
	}
	err := c.store.Update(ctx, GeneratedQuizzesKey, func(current string, found bool) (string, error) {
		generated := decodeQuizzes(current)
		for _, q := range generated {
			if q.ID == quiz.ID {
				return current, nil
			}
		}
		data, err := json.Marshal(append(generated, quiz))
		if err != nil {
			return "", err
		}
		return string(data), nil
	})
	if err != nil {
		// Викторина уже доступна в этом процессе
		log.Printf("[QuizCatalog] Ошибка сохранения викторины %s: %v", quiz.ID, err)
	}
	return nil
}
