package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleQuiz() Quiz {
	return Quiz{
		ID:         "math-basics",
		Title:      "Math Basics",
		Subject:    "Math",
		Difficulty: DifficultyEasy,
		TimeLimit:  10,
		Questions: []QuizQuestion{
			{ID: "q1", Question: "2+2?", Options: StringArray{"3", "4"}, CorrectAnswer: "4"},
		},
	}
}

func TestQuiz_Validate(t *testing.T) {
	q := sampleQuiz()
	assert.NoError(t, q.Validate())

	q.Questions[0].CorrectAnswer = "5"
	assert.Error(t, q.Validate(), "Правильный ответ должен входить в варианты")

	q = sampleQuiz()
	q.Difficulty = "extreme"
	assert.Error(t, q.Validate())
}

func TestQuizQuestion_IsCorrect_ExactMatch(t *testing.T) {
	q := QuizQuestion{CorrectAnswer: "Paris"}

	assert.True(t, q.IsCorrect("Paris"))
	assert.False(t, q.IsCorrect("paris"), "Сравнение чувствительно к регистру")
	assert.False(t, q.IsCorrect(""))
}

func TestIsEligibleForReward_Threshold(t *testing.T) {
	assert.False(t, IsEligibleForReward(69))
	assert.True(t, IsEligibleForReward(70))
	assert.True(t, IsEligibleForReward(100))
	assert.False(t, IsEligibleForReward(0))

	r := QuizResult{Score: 85}
	assert.True(t, r.IsEligibleForReward())
}
