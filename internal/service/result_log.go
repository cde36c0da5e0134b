package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	"github.com/yourusername/tutorconnect-api/internal/domain/repository"
	apperrors "github.com/yourusername/tutorconnect-api/internal/pkg/errors"
)

// ResultsKey - ключ, под которым все результаты хранятся одним JSON-массивом
const ResultsKey = "quiz_results"

// ResultLog хранит завершенные попытки прохождения викторин
type ResultLog struct {
	store repository.KeyValueStore
	now   func() time.Time
	newID func() string
}

// NewResultLog создает журнал результатов поверх хранилища ключ-значение
func NewResultLog(store repository.KeyValueStore) *ResultLog {
	return &ResultLog{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// decodeResults разбирает сохраненную коллекцию. Битые данные трактуются как пустая коллекция.
func decodeResults(raw string, found bool) []entity.QuizResult {
	if !found || raw == "" {
		return nil
	}
	var results []entity.QuizResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		log.Printf("[ResultLog] Поврежденные данные под ключом %s, считаем коллекцию пустой: %v", ResultsKey, err)
		return nil
	}
	return results
}

// load читает всю коллекцию. Недоступное хранилище дает пустую коллекцию и ErrPersistenceUnavailable.
func (l *ResultLog) load(ctx context.Context) ([]entity.QuizResult, error) {
	raw, err := l.store.Get(ctx, ResultsKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		log.Printf("[ResultLog] Ошибка чтения %s: %v", ResultsKey, err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	return decodeResults(raw, true), nil
}

// RecordResult создает результат и атомарно добавляет его в коллекцию
func (l *ResultLog) RecordResult(ctx context.Context, userID, quizID string, score, totalQuestions, timeTaken int) (*entity.QuizResult, error) {
	result := entity.QuizResult{
		ID:             l.newID(),
		UserID:         userID,
		QuizID:         quizID,
		Score:          score,
		TotalQuestions: totalQuestions,
		TimeTaken:      timeTaken,
		Completed:      true,
		RewardClaimed:  false,
		CreatedAt:      l.now().UTC(),
	}

	err := l.store.Update(ctx, ResultsKey, func(current string, found bool) (string, error) {
		results := decodeResults(current, found)
		results = append(results, result)
		data, err := json.Marshal(results)
		if err != nil {
			return "", err
		}
		return string(data), nil
	})
	if err != nil {
		log.Printf("[ResultLog] Ошибка сохранения результата пользователя %s по викторине %s: %v", userID, quizID, err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceUnavailable, err)
	}

	log.Printf("[ResultLog] Сохранен результат %s: пользователь %s, викторина %s, счет %d", result.ID, userID, quizID, score)
	return &result, nil
}

// ListResultsForUser возвращает результаты пользователя в порядке добавления
func (l *ResultLog) ListResultsForUser(ctx context.Context, userID string) ([]entity.QuizResult, error) {
	all, err := l.load(ctx)
	if err != nil {
		return []entity.QuizResult{}, err
	}

	userResults := make([]entity.QuizResult, 0)
	for _, r := range all {
		if r.UserID == userID {
			userResults = append(userResults, r)
		}
	}
	return userResults, nil
}

// GetResult ищет результат по идентификатору
func (l *ResultLog) GetResult(ctx context.Context, resultID string) (*entity.QuizResult, error) {
	all, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == resultID {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%w: result %s", apperrors.ErrNotFound, resultID)
}

// MarkRewardClaimed атомарно выставляет rewardClaimed=true. Повторная отметка не меняет данные.
func (l *ResultLog) MarkRewardClaimed(ctx context.Context, resultID string) error {
	err := l.store.Update(ctx, ResultsKey, func(current string, found bool) (string, error) {
		results := decodeResults(current, found)
		idx := -1
		for i := range results {
			if results[i].ID == resultID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return "", fmt.Errorf("%w: result %s", apperrors.ErrNotFound, resultID)
		}
		results[idx].RewardClaimed = true
		data, err := json.Marshal(results)
		if err != nil {
			return "", err
		}
		return string(data), nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	return nil
}
