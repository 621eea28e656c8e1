package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gearshed/internal/config"
	"gearshed/internal/logger"
	"gearshed/internal/models"

	"github.com/mailgun/mailgun-go/v5"
)

var ErrDisabled = errors.New("email service is not configured")

const sendTimeout = 10 * time.Second

type Service struct {
	client      mailgun.Mailgun
	domain      string
	senderEmail string
	senderName  string
	appURL      string
	enabled     bool
}

func NewService(cfg *config.Config) *Service {
	enabled := cfg.MailgunEnabled()

	var client mailgun.Mailgun
	if enabled {
		client = mailgun.NewMailgun(cfg.MailgunAPIKey)
	}

	return &Service{
		client:      client,
		domain:      cfg.MailgunDomain,
		senderEmail: cfg.MailgunSenderEmail,
		senderName:  cfg.MailgunSenderName,
		appURL:      cfg.AppURL,
		enabled:     enabled,
	}
}

func (s *Service) IsEnabled() bool {
	return s != nil && s.enabled
}

// SendWelcomeEmail greets a newly registered user.
func (s *Service) SendWelcomeEmail(ctx context.Context, user *models.User) error {
	if !s.IsEnabled() {
		return ErrDisabled
	}

	message := mailgun.NewMessage(
		s.domain,
		fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail),
		"Welcome to Gearshed",
		s.welcomeText(user),
		user.Email,
	)
	message.SetHTML(s.welcomeHTML(user))

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if _, err := s.client.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	logger.Info("Welcome email sent", "email", user.Email)
	return nil
}

// SendWelcomeEmailAsync sends the welcome email without holding up the
// caller. Failures are logged.
func (s *Service) SendWelcomeEmailAsync(user *models.User) {
	if !s.IsEnabled() {
		return
	}

	go func() {
		if err := s.SendWelcomeEmail(context.Background(), user); err != nil {
			logger.Warn("Welcome email failed", "email", user.Email, "error", err)
		}
	}()
}
