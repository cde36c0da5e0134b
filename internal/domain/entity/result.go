package entity

import (
	"time"
)

// RewardEligibilityThreshold - минимальный процент для получения награды
const RewardEligibilityThreshold = 70

// QuizResult представляет одну завершенную попытку прохождения викторины.
// Неизменяем, кроме флага RewardClaimed (false -> true ровно один раз).
type QuizResult struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	QuizID         string    `json:"quizId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	TimeTaken      int       `json:"timeTaken"` // в секундах
	Completed      bool      `json:"completed"`
	RewardClaimed  bool      `json:"rewardClaimed"`
	CreatedAt      time.Time `json:"createdAt"`
}

// IsEligibleForReward возвращает true, если score >= 70
func IsEligibleForReward(score int) bool {
	return score >= RewardEligibilityThreshold
}

// IsEligibleForReward проверяет право результата на награду
func (r *QuizResult) IsEligibleForReward() bool {
	return IsEligibleForReward(r.Score)
}
