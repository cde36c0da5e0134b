package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
)

func quizWithAnswers(correct ...string) *entity.Quiz {
	quiz := &entity.Quiz{ID: "q", Title: "t", Subject: "Math", Difficulty: entity.DifficultyEasy}
	for i, c := range correct {
		quiz.Questions = append(quiz.Questions, entity.QuizQuestion{
			ID:            fmt.Sprintf("Q%d", i+1),
			Options:       entity.StringArray{"A", "B", "C", "X"},
			CorrectAnswer: c,
		})
	}
	return quiz
}

func TestScoreQuiz(t *testing.T) {
	tests := []struct {
		name    string
		quiz    *entity.Quiz
		answers map[string]string
		want    int
	}{
		{"две из трех", quizWithAnswers("A", "B", "C"), map[string]string{"Q1": "A", "Q2": "X", "Q3": "C"}, 67},
		{"все верно", quizWithAnswers("A", "B", "C"), map[string]string{"Q1": "A", "Q2": "B", "Q3": "C"}, 100},
		{"нет ответов", quizWithAnswers("A", "B"), map[string]string{}, 0},
		{"nil ответы", quizWithAnswers("A"), nil, 0},
		{"шесть из восьми", quizWithAnswers("A", "A", "A", "A", "A", "A", "A", "A"),
			map[string]string{"Q1": "A", "Q2": "A", "Q3": "A", "Q4": "A", "Q5": "A", "Q6": "A", "Q7": "B", "Q8": "B"}, 75},
		{"одна из восьми: 12.5 округляется до 13", quizWithAnswers("A", "A", "A", "A", "A", "A", "A", "A"),
			map[string]string{"Q1": "A"}, 13},
		{"регистр важен", quizWithAnswers("A"), map[string]string{"Q1": "a"}, 0},
		{"ответ на неизвестный вопрос игнорируется", quizWithAnswers("A"), map[string]string{"Q9": "A"}, 0},
		{"без вопросов", quizWithAnswers(), map[string]string{"Q1": "A"}, 0},
		{"nil викторина", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreQuiz(tt.quiz, tt.answers))
		})
	}
}

func TestScoreQuiz_AlwaysInRange(t *testing.T) {
	for n := 1; n <= 12; n++ {
		correct := make([]string, n)
		for i := range correct {
			correct[i] = "A"
		}
		quiz := quizWithAnswers(correct...)
		for matches := 0; matches <= n; matches++ {
			answers := map[string]string{}
			for i := 0; i < matches; i++ {
				answers[fmt.Sprintf("Q%d", i+1)] = "A"
			}
			score := ScoreQuiz(quiz, answers)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}
}

func TestIsEligibleForReward(t *testing.T) {
	assert.False(t, entity.IsEligibleForReward(69))
	assert.True(t, entity.IsEligibleForReward(70))
	assert.True(t, entity.IsEligibleForReward(100))
	assert.False(t, entity.IsEligibleForReward(0))
}
