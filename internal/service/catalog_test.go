package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	apperrors "github.com/yourusername/tutorconnect-api/internal/pkg/errors"
	"github.com/yourusername/tutorconnect-api/internal/repository/memory"
)

func testCatalog() []entity.Quiz {
	return []entity.Quiz{
		{ID: "m1", Title: "Math", Subject: "Math", Difficulty: entity.DifficultyEasy},
		{ID: "h1", Title: "History", Subject: "History", Difficulty: entity.DifficultyHard},
	}
}

func TestQuizCatalog_ListQuizzesForUser(t *testing.T) {
	catalog := NewQuizCatalog(testCatalog(), nil)

	t.Run("фильтр по предметам", func(t *testing.T) {
		got := catalog.ListQuizzesForUser(&entity.UserProfile{Subjects: entity.StringArray{"Math"}})
		require.Len(t, got, 1)
		assert.Equal(t, "m1", got[0].ID)
	})

	t.Run("без пользователя весь каталог", func(t *testing.T) {
		got := catalog.ListQuizzesForUser(nil)
		assert.Len(t, got, 2)
	})

	t.Run("без предметов весь каталог", func(t *testing.T) {
		got := catalog.ListQuizzesForUser(&entity.UserProfile{})
		assert.Len(t, got, 2)
	})

	t.Run("без совпадений весь каталог в исходном порядке", func(t *testing.T) {
		got := catalog.ListQuizzesForUser(&entity.UserProfile{Subjects: entity.StringArray{"Chemistry"}})
		require.Len(t, got, 2)
		assert.Equal(t, "m1", got[0].ID)
		assert.Equal(t, "h1", got[1].ID)
	})

	t.Run("точное совпадение названия предмета", func(t *testing.T) {
		got := catalog.ListQuizzesForUser(&entity.UserProfile{Subjects: entity.StringArray{"math"}})
		assert.Len(t, got, 2, "Регистр не совпадает, значит совпадений нет и отдается весь каталог")
	})
}

func TestQuizCatalog_GetQuizByID(t *testing.T) {
	catalog := NewQuizCatalog(testCatalog(), nil)

	q, err := catalog.GetQuizByID("h1")
	require.NoError(t, err)
	assert.Equal(t, "History", q.Subject)

	_, err = catalog.GetQuizByID("missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func generatedQuiz(id string) entity.Quiz {
	return entity.Quiz{
		ID: id, Title: "Gen", Subject: "Math", Difficulty: entity.DifficultyMedium,
		Questions: []entity.QuizQuestion{{ID: id + "-q1", Options: entity.StringArray{"1", "2"}, CorrectAnswer: "2"}},
	}
}

func TestQuizCatalog_AddPersistsGenerated(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	catalog := NewQuizCatalog(testCatalog(), store)

	require.NoError(t, catalog.Add(ctx, generatedQuiz("gen-1")))
	assert.ErrorIs(t, catalog.Add(ctx, generatedQuiz("gen-1")), apperrors.ErrConflict)

	reloaded := NewQuizCatalog(testCatalog(), store)
	_, err := reloaded.GetQuizByID("gen-1")
	assert.NoError(t, err, "Сгенерированная викторина должна пережить пересоздание каталога")
}

func TestQuizCatalog_ConcurrentAddFromInstances(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	first := NewQuizCatalog(nil, store)
	second := NewQuizCatalog(nil, store)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			catalog := first
			if i%2 == 1 {
				catalog = second
			}
			assert.NoError(t, catalog.Add(ctx, generatedQuiz(fmt.Sprintf("gen-%d", i))))
		}(i)
	}
	wg.Wait()

	reloaded := NewQuizCatalog(nil, store)
	assert.Len(t, reloaded.All(), 20, "Викторины обоих экземпляров должны сохраниться")
}

func TestQuizCatalog_CorruptedGeneratedIgnored(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	require.NoError(t, store.Set(ctx, GeneratedQuizzesKey, "{broken"))

	catalog := NewQuizCatalog(testCatalog(), store)
	assert.Len(t, catalog.All(), 2)

	require.NoError(t, catalog.Add(ctx, generatedQuiz("gen-1")))
	assert.Len(t, NewQuizCatalog(nil, store).All(), 1)
}

func TestQuizCatalog_AddRejectsInvalid(t *testing.T) {
	catalog := NewQuizCatalog(nil, nil)
	bad := entity.Quiz{
		ID: "bad", Title: "Bad", Subject: "Math", Difficulty: entity.DifficultyEasy,
		Questions: []entity.QuizQuestion{{ID: "b1", Options: entity.StringArray{"1"}, CorrectAnswer: "2"}},
	}
	assert.ErrorIs(t, catalog.Add(context.Background(), bad), apperrors.ErrValidation)
}

func TestDefaultQuizzesAreValid(t *testing.T) {
	for _, q := range DefaultQuizzes() {
		assert.NoError(t, q.Validate(), "Викторина %s", q.ID)
	}
}
