package service

import (
	"math"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
)

// ScoreQuiz вычисляет процент правильных ответов.
// answers - соответствие идентификатора вопроса выбранному варианту; отсутствующий ответ считается неверным.
// Округление к ближайшему целому, половина от нуля. Викторина без вопросов дает 0.
func ScoreQuiz(quiz *entity.Quiz, answers map[string]string) int {
	if quiz == nil || len(quiz.Questions) == 0 {
		return 0
	}

	correct := CountCorrectAnswers(quiz, answers)
	return int(math.Round(100 * float64(correct) / float64(len(quiz.Questions))))
}

// CountCorrectAnswers возвращает число верных ответов
func CountCorrectAnswers(quiz *entity.Quiz, answers map[string]string) int {
	correct := 0
	for i := range quiz.Questions {
		answer, ok := answers[quiz.Questions[i].ID]
		if ok && quiz.Questions[i].IsCorrect(answer) {
			correct++
		}
	}
	return correct
}
