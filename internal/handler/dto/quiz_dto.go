package dto

import (
	"time"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	"github.com/yourusername/tutorconnect-api/internal/service"
)

// QuestionResponse представляет вопрос без правильного ответа
type QuestionResponse struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuizResponse представляет викторину в формате для ответа клиенту
type QuizResponse struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Subject       string             `json:"subject"`
	Difficulty    string             `json:"difficulty"`
	TimeLimit     int                `json:"timeLimit"`
	QuestionCount int                `json:"questionCount"`
	Questions     []QuestionResponse `json:"questions,omitempty"`
}

// ResultResponse представляет результат викторины
type ResultResponse struct {
	ID             string    `json:"id"`
	QuizID         string    `json:"quizId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	TimeTaken      int       `json:"timeTaken"`
	Completed      bool      `json:"completed"`
	RewardClaimed  bool      `json:"rewardClaimed"`
	Eligible       bool      `json:"eligible"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SubmissionResponse - ответ на отправку викторины
type SubmissionResponse struct {
	Result   *ResultResponse `json:"result"`
	Correct  int             `json:"correct"`
	Eligible bool            `json:"eligible"`
}

// SubmitQuizRequest - ответы пользователя: ID вопроса -> выбранный вариант
type SubmitQuizRequest struct {
	Answers   map[string]string `json:"answers" binding:"required"`
	TimeTaken int               `json:"timeTaken" binding:"min=0"`
}

// GenerateQuizRequest - параметры генерации викторины
type GenerateQuizRequest struct {
	Subject       string `json:"subject" binding:"required,max=100"`
	Difficulty    string `json:"difficulty" binding:"omitempty,difficulty"`
	QuestionCount int    `json:"questionCount" binding:"omitempty,min=1,max=20"`
}

// NewQuizResponse создает DTO викторины. Правильные ответы и пояснения никогда не отдаются.
func NewQuizResponse(quiz *entity.Quiz, includeQuestions bool) *QuizResponse {
	if quiz == nil {
		return nil
	}

	var questions []QuestionResponse
	if includeQuestions {
		questions = make([]QuestionResponse, len(quiz.Questions))
		for i, q := range quiz.Questions {
			options := make([]string, len(q.Options))
			copy(options, q.Options)
			questions[i] = QuestionResponse{ID: q.ID, Question: q.Question, Options: options}
		}
	}

	return &QuizResponse{
		ID:            quiz.ID,
		Title:         quiz.Title,
		Subject:       quiz.Subject,
		Difficulty:    quiz.Difficulty,
		TimeLimit:     quiz.TimeLimit,
		QuestionCount: quiz.QuestionCount(),
		Questions:     questions,
	}
}

// NewListQuizResponse создает слайс DTO для списка викторин (без вопросов)
func NewListQuizResponse(quizzes []entity.Quiz) []*QuizResponse {
	list := make([]*QuizResponse, len(quizzes))
	for i := range quizzes {
		list[i] = NewQuizResponse(&quizzes[i], false)
	}
	return list
}

// NewResultResponse создает DTO для результата
func NewResultResponse(result *entity.QuizResult) *ResultResponse {
	if result == nil {
		return nil
	}
	return &ResultResponse{
		ID:             result.ID,
		QuizID:         result.QuizID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		TimeTaken:      result.TimeTaken,
		Completed:      result.Completed,
		RewardClaimed:  result.RewardClaimed,
		Eligible:       result.IsEligibleForReward(),
		CreatedAt:      result.CreatedAt,
	}
}

// NewListResultResponse создает слайс DTO для списка результатов
func NewListResultResponse(results []entity.QuizResult) []*ResultResponse {
	list := make([]*ResultResponse, len(results))
	for i := range results {
		list[i] = NewResultResponse(&results[i])
	}
	return list
}

// NewSubmissionResponse создает DTO итога отправки
func NewSubmissionResponse(s *service.SubmissionResult) *SubmissionResponse {
	return &SubmissionResponse{
		Result:   NewResultResponse(s.Result),
		Correct:  s.Correct,
		Eligible: s.Eligible,
	}
}
