// Package report отправляет ошибки на границе HTTP в Rollbar.
// Без токена отправка отключена, ошибки только логируются.
package report

import (
	"log"

	"github.com/rollbar/rollbar-go"
	rollbarerrors "github.com/rollbar/rollbar-go/errors"
)

var enabled bool

// Config - параметры Rollbar
type Config struct {
	Token       string
	Environment string
	Host        string
	CodeVersion string
}

// Init настраивает глобальный клиент Rollbar
func Init(cfg Config) {
	rollbar.SetToken(cfg.Token)
	rollbar.SetEnvironment(cfg.Environment)
	rollbar.SetServerHost(cfg.Host)
	rollbar.SetCodeVersion(cfg.CodeVersion)
	rollbar.SetStackTracer(rollbarerrors.StackTracer)
	enabled = cfg.Token != ""
	rollbar.SetEnabled(enabled)
	if !enabled {
		log.Println("[Report] Rollbar token is not set, error reporting disabled")
	}
}

// Error отправляет ошибку с контекстом запроса
func Error(err error, fields map[string]interface{}) {
	if err == nil || !enabled {
		return
	}
	if userID, ok := fields["user_id"].(string); ok && userID != "" {
		rollbar.SetPerson(userID, "", "")
		defer rollbar.ClearPerson()
	}
	rollbar.Error(err, fields)
}

// Close дожидается отправки очереди
func Close() {
	if enabled {
		rollbar.Wait()
	}
}
