package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
)

// ErrProviderUnavailable возвращается при сбое или лимите запросов провайдера
var ErrProviderUnavailable = errors.New("llm provider unavailable")

// ErrInvalidResponse возвращается, если ответ модели не прошел проверку схемы
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid llm response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error {
	return e.Err
}

// OpenAIConfig содержит параметры подключения к OpenAI-совместимому API
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIGenerator генерирует вопросы через chat completions со строгой JSON-схемой ответа
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	newID  func() string
}

// NewOpenAIGenerator создает генератор на основе OpenAI
func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(config),
		model:  model,
		newID:  uuid.NewString,
	}, nil
}

type generatedQuiz struct {
	Title     string              `json:"title"`
	Questions []generatedQuestion `json:"questions"`
}

type generatedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

const systemPrompt = "Ты составляешь учебные викторины с одним правильным вариантом ответа. " +
	"Правильный ответ должен буквально совпадать с одним из вариантов."

func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (*entity.Quiz, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	schemaBytes, err := json.Marshal(quizSchemaDefinition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(
				"Предмет: %s. Сложность: %s. Количество вопросов: %d. В каждом вопросе 4 варианта.",
				req.Subject, req.Difficulty, req.QuestionCount)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   quizSchemaName,
				Schema: json.RawMessage(schemaBytes),
				Strict: true,
			},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("no choices in OpenAI response")}
	}

	content := json.RawMessage(resp.Choices[0].Message.Content)
	if err := validateQuizJSON(content); err != nil {
		return nil, err
	}

	var out generatedQuiz
	if err := json.Unmarshal(content, &out); err != nil {
		return nil, &ErrInvalidResponse{Content: content, Err: err}
	}

	quiz := g.toQuiz(req, out)
	if err := quiz.Validate(); err != nil {
		return nil, &ErrInvalidResponse{Content: content, Err: err}
	}

	log.Printf("[QuizGen] OpenAI (%s) сгенерировал викторину %s: вопросов %d, токенов %d",
		resp.Model, quiz.ID, len(quiz.Questions), resp.Usage.TotalTokens)
	return quiz, nil
}

func (g *OpenAIGenerator) toQuiz(req Request, out generatedQuiz) *entity.Quiz {
	quizID := "gen-" + g.newID()
	title := out.Title
	if title == "" {
		title = req.Subject
	}
	quiz := &entity.Quiz{
		ID:         quizID,
		Title:      title,
		Subject:    req.Subject,
		Difficulty: req.Difficulty,
		TimeLimit:  timeLimitFor(req.Difficulty, len(out.Questions)),
		Questions:  make([]entity.QuizQuestion, 0, len(out.Questions)),
	}
	for i, q := range out.Questions {
		quiz.Questions = append(quiz.Questions, entity.QuizQuestion{
			ID:            fmt.Sprintf("%s-q%d", quizID, i+1),
			Question:      q.Question,
			Options:       entity.StringArray(q.Options),
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	return quiz
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: rate limited: %v", ErrProviderUnavailable, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}
