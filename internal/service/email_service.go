package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const welcomeSubject = "Добро пожаловать в TutorConnect"

// EmailService отправляет транзакционные письма.
type EmailService interface {
	SendWelcome(ctx context.Context, toEmail, role string) error
}

func welcomeBodies(role string) (text, html string) {
	text = fmt.Sprintf("Ваш аккаунт создан. Роль: %s. Пройдите первую викторину, чтобы получить награду.", role)
	html = fmt.Sprintf("<p>Ваш аккаунт создан. Роль: <strong>%s</strong>.</p><p>Пройдите первую викторину, чтобы получить награду.</p>", role)
	return text, html
}

// NoopEmailService используется, когда отправка писем отключена.
type NoopEmailService struct{}

func (s *NoopEmailService) SendWelcome(ctx context.Context, toEmail, role string) error {
	log.Printf("[EmailService] noop welcome email to=%s", toEmail)
	return nil
}

// ResendEmailService отправляет письма через Resend REST API.
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailService) SendWelcome(ctx context.Context, toEmail, role string) error {
	if toEmail == "" {
		return fmt.Errorf("toEmail is required")
	}

	text, html := welcomeBodies(role)
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: welcomeSubject,
		Text:    text,
		Html:    html,
	}
	options := &resend.SendEmailOptions{IdempotencyKey: "welcome:" + strings.ToLower(toEmail)}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridEmailService отправляет письма через SendGrid v3 API.
type SendgridEmailService struct {
	key  string
	from *sgmail.Email
}

func NewSendgridEmailService(apiKey, fromName, fromEmail string) (*SendgridEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	if fromEmail == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &SendgridEmailService{
		key:  apiKey,
		from: sgmail.NewEmail(fromName, fromEmail),
	}, nil
}

func (s *SendgridEmailService) SendWelcome(ctx context.Context, toEmail, role string) error {
	if toEmail == "" {
		return fmt.Errorf("toEmail is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text, html := welcomeBodies(role)
	p := sgmail.NewPersonalization()
	p.Subject = welcomeSubject
	p.AddTos(sgmail.NewEmail("", toEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", text),
		sgmail.NewContent("text/html", html),
	)

	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid send failed: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
