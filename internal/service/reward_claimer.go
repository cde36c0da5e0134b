package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	apperrors "github.com/yourusername/tutorconnect-api/internal/pkg/errors"
)

// DefaultRewardDelay - задержка имитации записи в реестр наград
const DefaultRewardDelay = 1500 * time.Millisecond

// RewardBackend начисляет награду за результат во внешней системе
type RewardBackend interface {
	Claim(ctx context.Context, resultID string) error
}

// RewardNotifier доставляет пользователю уведомление об исходе начисления
type RewardNotifier interface {
	NotifyRewardClaimed(userID string, result *entity.QuizResult)
	NotifyRewardClaimFailed(userID, resultID string, reason string)
}

// SimulatedLedger имитирует внешний реестр: ждет задержку и всегда успешен
type SimulatedLedger struct {
	Delay time.Duration
}

// NewSimulatedLedger создает имитацию реестра. Неположительная задержка заменяется значением по умолчанию.
func NewSimulatedLedger(delay time.Duration) *SimulatedLedger {
	if delay <= 0 {
		delay = DefaultRewardDelay
	}
	return &SimulatedLedger{Delay: delay}
}

// Claim ждет задержку или отмену контекста
func (l *SimulatedLedger) Claim(ctx context.Context, resultID string) error {
	return sleepContext(ctx, l.Delay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RewardClaimer начисляет награды и отмечает результаты в журнале
type RewardClaimer struct {
	results  *ResultLog
	backend  RewardBackend
	notifier RewardNotifier
	delay    time.Duration
}

// NewRewardClaimer создает сервис начисления наград.
// delay используется для ответа на запрос несуществующего результата, чтобы время ответа не отличалось.
func NewRewardClaimer(results *ResultLog, backend RewardBackend, notifier RewardNotifier, delay time.Duration) *RewardClaimer {
	if delay < 0 {
		delay = 0
	}
	return &RewardClaimer{
		results:  results,
		backend:  backend,
		notifier: notifier,
		delay:    delay,
	}
}

// ClaimReward начисляет награду за результат и выставляет rewardClaimed=true.
// Несуществующий результат дает ErrNotFound без изменения коллекции.
// Сбой внешнего реестра или хранилища дает ErrExternalService.
// Повторный запрос по уже начисленной награде успешен и не обращается к реестру.
func (c *RewardClaimer) ClaimReward(ctx context.Context, resultID string) error {
	result, err := c.results.GetResult(ctx, resultID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if waitErr := sleepContext(ctx, c.delay); waitErr != nil {
				return waitErr
			}
			log.Printf("[RewardClaimer] Результат %s не найден", resultID)
			return err
		}
		log.Printf("[RewardClaimer] Ошибка чтения результата %s: %v", resultID, err)
		return fmt.Errorf("%w: %v", apperrors.ErrExternalService, err)
	}

	if result.RewardClaimed {
		log.Printf("[RewardClaimer] Награда по результату %s уже начислена", resultID)
		return nil
	}

	if err := c.backend.Claim(ctx, resultID); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Printf("[RewardClaimer] Реестр наград отклонил результат %s: %v", resultID, err)
		c.notifyFailed(result.UserID, resultID, "ledger write failed")
		return fmt.Errorf("%w: %v", apperrors.ErrExternalService, err)
	}

	if err := c.results.MarkRewardClaimed(ctx, resultID); err != nil {
		log.Printf("[RewardClaimer] Награда по результату %s начислена, но отметка не сохранена: %v", resultID, err)
		c.notifyFailed(result.UserID, resultID, "result update failed")
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", apperrors.ErrExternalService, err)
	}

	result.RewardClaimed = true
	log.Printf("[RewardClaimer] Награда по результату %s начислена пользователю %s", resultID, result.UserID)
	if c.notifier != nil {
		c.notifier.NotifyRewardClaimed(result.UserID, result)
	}
	return nil
}

func (c *RewardClaimer) notifyFailed(userID, resultID, reason string) {
	if c.notifier != nil {
		c.notifier.NotifyRewardClaimFailed(userID, resultID, reason)
	}
}
