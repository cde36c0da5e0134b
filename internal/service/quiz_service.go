package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	apperrors "github.com/yourusername/tutorconnect-api/internal/pkg/errors"
	"github.com/yourusername/tutorconnect-api/internal/service/quizgen"
)

// SubmissionResult - итог отправки ответов на викторину
type SubmissionResult struct {
	Result   *entity.QuizResult `json:"result"`
	Correct  int                `json:"correct"`
	Eligible bool               `json:"eligible"`
}

// QuizService объединяет каталог, подсчет очков, журнал результатов и начисление наград
type QuizService struct {
	catalog   *QuizCatalog
	results   *ResultLog
	claimer   *RewardClaimer
	profiles  *ProfileService
	generator quizgen.Generator
}

// NewQuizService создает сервис викторин
func NewQuizService(
	catalog *QuizCatalog,
	results *ResultLog,
	claimer *RewardClaimer,
	profiles *ProfileService,
	generator quizgen.Generator,
) *QuizService {
	return &QuizService{
		catalog:   catalog,
		results:   results,
		claimer:   claimer,
		profiles:  profiles,
		generator: generator,
	}
}

// ListQuizzesForUser возвращает викторины по предметам профиля пользователя.
// Недоступный профиль не мешает: отдается весь каталог.
func (s *QuizService) ListQuizzesForUser(ctx context.Context, userID string) []entity.Quiz {
	var profile *entity.UserProfile
	if userID != "" && s.profiles != nil {
		p, _, err := s.profiles.GetCurrentUser(ctx, userID)
		if err != nil {
			log.Printf("[QuizService] Профиль %s недоступен, показываем весь каталог: %v", userID, err)
		} else {
			profile = p
		}
	}
	return s.catalog.ListQuizzesForUser(profile)
}

// GetQuiz возвращает викторину по ID
func (s *QuizService) GetQuiz(quizID string) (*entity.Quiz, error) {
	return s.catalog.GetQuizByID(quizID)
}

// QuizTitles возвращает названия викторин каталога по ID
func (s *QuizService) QuizTitles() map[string]string {
	quizzes := s.catalog.All()
	titles := make(map[string]string, len(quizzes))
	for _, q := range quizzes {
		titles[q.ID] = q.Title
	}
	return titles
}

// SubmitQuiz подсчитывает очки, сохраняет результат и возвращает его вместе с правом на награду.
// timeTaken - в секундах.
func (s *QuizService) SubmitQuiz(ctx context.Context, userID, quizID string, answers map[string]string, timeTaken int) (*SubmissionResult, error) {
	if timeTaken < 0 {
		return nil, fmt.Errorf("%w: time taken must be non-negative", apperrors.ErrValidation)
	}

	quiz, err := s.catalog.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}

	correct := CountCorrectAnswers(quiz, answers)
	score := ScoreQuiz(quiz, answers)

	result, err := s.results.RecordResult(ctx, userID, quiz.ID, score, quiz.QuestionCount(), timeTaken)
	if err != nil {
		return nil, err
	}

	return &SubmissionResult{
		Result:   result,
		Correct:  correct,
		Eligible: entity.IsEligibleForReward(score),
	}, nil
}

// ListResults возвращает результаты пользователя в порядке прохождения
func (s *QuizService) ListResults(ctx context.Context, userID string) ([]entity.QuizResult, error) {
	results, err := s.results.ListResultsForUser(ctx, userID)
	if err != nil && errors.Is(err, apperrors.ErrPersistenceUnavailable) {
		// Недоступное хранилище показываем как пустую историю
		return []entity.QuizResult{}, nil
	}
	return results, err
}

// ClaimReward начисляет награду по результату. Начислить можно только свой результат
// и только при счете не ниже порога.
func (s *QuizService) ClaimReward(ctx context.Context, userID, resultID string) (*entity.QuizResult, error) {
	result, err := s.results.GetResult(ctx, resultID)
	switch {
	case err == nil:
		if result.UserID != userID {
			log.Printf("[QuizService] Пользователь %s пытается получить награду по чужому результату %s", userID, resultID)
			return nil, fmt.Errorf("%w: result belongs to another user", apperrors.ErrForbidden)
		}
		if !result.IsEligibleForReward() {
			return nil, fmt.Errorf("%w: score %d is below reward threshold %d",
				apperrors.ErrValidation, result.Score, entity.RewardEligibilityThreshold)
		}
	case errors.Is(err, apperrors.ErrNotFound):
		// RewardClaimer сам выдержит задержку и вернет ErrNotFound
	default:
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExternalService, err)
	}

	if err := s.claimer.ClaimReward(ctx, resultID); err != nil {
		return nil, err
	}

	return s.results.GetResult(ctx, resultID)
}

// GenerateQuiz создает викторину через генератор и добавляет ее в каталог. Доступно только репетиторам.
func (s *QuizService) GenerateQuiz(ctx context.Context, userID string, req quizgen.Request) (*entity.Quiz, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("%w: quiz generation is disabled", apperrors.ErrExternalService)
	}

	profile, _, err := s.profiles.GetCurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.IsTutor() {
		return nil, fmt.Errorf("%w: only tutors can generate quizzes", apperrors.ErrForbidden)
	}

	quiz, err := s.generator.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, quizgen.ErrInvalidRequest) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Printf("[QuizService] Ошибка генерации викторины для %s: %v", userID, err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExternalService, err)
	}

	if err := s.catalog.Add(ctx, *quiz); err != nil {
		return nil, err
	}
	log.Printf("[QuizService] Репетитор %s создал викторину %s (%s)", userID, quiz.ID, quiz.Subject)
	return quiz, nil
}
