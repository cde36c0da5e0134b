package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Normalize(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"defaults", Request{Subject: "Physics"}, false},
		{"empty subject", Request{Subject: "  "}, true},
		{"bad difficulty", Request{Subject: "Physics", Difficulty: "extreme"}, true},
		{"too many questions", Request{Subject: "Physics", QuestionCount: MaxQuestions + 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Normalize()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "medium", tt.req.Difficulty)
			assert.Equal(t, DefaultQuestions, tt.req.QuestionCount)
		})
	}
}

func TestTemplateGenerator_Generate(t *testing.T) {
	g := NewTemplateGenerator(0)

	quiz, err := g.Generate(context.Background(), Request{Subject: "History", Difficulty: "hard", QuestionCount: 3})
	require.NoError(t, err)

	assert.Equal(t, "History", quiz.Subject)
	assert.Equal(t, "hard", quiz.Difficulty)
	assert.Len(t, quiz.Questions, 3)
	assert.Equal(t, 9, quiz.TimeLimit)
	assert.NoError(t, quiz.Validate(), "Сгенерированная викторина должна быть валидной")
}

func TestTemplateGenerator_RespectsContext(t *testing.T) {
	g := NewTemplateGenerator(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, Request{Subject: "History"})
	assert.ErrorIs(t, err, context.Canceled)
}

func newTestOpenAIGenerator(t *testing.T, content string) *OpenAIGenerator {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
		})
	}))
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(config),
		model:  "gpt-4o-mini",
		newID:  func() string { return "fixed" },
	}
}

func TestOpenAIGenerator_HappyPath(t *testing.T) {
	content := `{"title":"Кинематика","questions":[{"question":"Единица скорости?","options":["м/с","кг","Н"],"correctAnswer":"м/с","explanation":""}]}`
	g := newTestOpenAIGenerator(t, content)

	quiz, err := g.Generate(context.Background(), Request{Subject: "Physics", QuestionCount: 1})
	require.NoError(t, err)

	assert.Equal(t, "gen-fixed", quiz.ID)
	assert.Equal(t, "Кинематика", quiz.Title)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "gen-fixed-q1", quiz.Questions[0].ID)
}

func TestOpenAIGenerator_SchemaViolation(t *testing.T) {
	g := newTestOpenAIGenerator(t, `{"title":"x"}`)

	_, err := g.Generate(context.Background(), Request{Subject: "Physics"})
	var invalid *ErrInvalidResponse
	assert.True(t, errors.As(err, &invalid), "Ожидалась ошибка проверки схемы, получено %v", err)
}

func TestOpenAIGenerator_CorrectAnswerNotInOptions(t *testing.T) {
	content := `{"title":"x","questions":[{"question":"q","options":["a","b"],"correctAnswer":"c","explanation":""}]}`
	g := newTestOpenAIGenerator(t, content)

	_, err := g.Generate(context.Background(), Request{Subject: "Physics", QuestionCount: 1})
	var invalid *ErrInvalidResponse
	assert.True(t, errors.As(err, &invalid))
}
