package entity

import "fmt"

// Уровни сложности викторины
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// IsValidDifficulty проверяет, входит ли сложность в перечисление
func IsValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Quiz представляет викторину каталога
type Quiz struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Subject    string         `json:"subject"`
	Questions  []QuizQuestion `json:"questions"`
	Difficulty string         `json:"difficulty"`
	TimeLimit  int            `json:"timeLimit"` // в минутах
}

// QuestionCount возвращает количество вопросов
func (q *Quiz) QuestionCount() int {
	return len(q.Questions)
}

// Validate проверяет, что у каждого вопроса правильный вариант входит в список вариантов
func (q *Quiz) Validate() error {
	if q.ID == "" || q.Title == "" || q.Subject == "" {
		return fmt.Errorf("quiz id, title and subject are required")
	}
	if !IsValidDifficulty(q.Difficulty) {
		return fmt.Errorf("quiz %s: invalid difficulty %q", q.ID, q.Difficulty)
	}
	if q.TimeLimit < 0 {
		return fmt.Errorf("quiz %s: negative time limit", q.ID)
	}
	for _, question := range q.Questions {
		if !question.Options.Contains(question.CorrectAnswer) {
			return fmt.Errorf("quiz %s: question %s: correct answer is not among options", q.ID, question.ID)
		}
	}
	return nil
}

// QuizQuestion представляет вопрос викторины
type QuizQuestion struct {
	ID            string      `json:"id"`
	Question      string      `json:"question"`
	Options       StringArray `json:"options"`
	CorrectAnswer string      `json:"correctAnswer"`
	Explanation   string      `json:"explanation,omitempty"`
}

// IsCorrect проверяет выбранный вариант (точное совпадение строк)
func (q *QuizQuestion) IsCorrect(answer string) bool {
	return answer == q.CorrectAnswer
}
