package email

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/config"
	"github.com/Togather-Foundation/clubhub/internal/domain/events"
	"github.com/Togather-Foundation/clubhub/internal/domain/registrations"
	"github.com/Togather-Foundation/clubhub/internal/metrics"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

const kindRegistration = "registration_confirmation"

// Service sends transactional email through Resend. When disabled it only
// logs what it would have sent.
type Service struct {
	config       config.EmailConfig
	templates    *template.Template
	resendClient *resend.Client
	logger       zerolog.Logger
}

var _ registrations.Notifier = (*Service)(nil)

// RegistrationData feeds the confirmation template.
type RegistrationData struct {
	StudentName string
	EventTitle  string
	Location    string
	StartDate   string
	EndDate     string
	CurrentYear int
}

func NewService(cfg config.EmailConfig, logger zerolog.Logger) (*Service, error) {
	if cfg.Enabled {
		if err := validateEmailAddress(cfg.From); err != nil {
			return nil, fmt.Errorf("invalid sender email in config: %w", err)
		}
	}

	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}

	svc := &Service{
		config:    cfg,
		templates: templates,
		logger:    logger.With().Str("component", "email").Logger(),
	}
	if cfg.Enabled {
		svc.resendClient = resend.NewClient(cfg.ResendAPIKey)
	}
	return svc, nil
}

// RegistrationConfirmed mails the student a confirmation for event.
func (s *Service) RegistrationConfirmed(ctx context.Context, registration registrations.Registration, event events.Event) error {
	if err := validateEmailAddress(registration.StudentEmail); err != nil {
		metrics.EmailsTotal.WithLabelValues(kindRegistration, "failed").Inc()
		return fmt.Errorf("invalid recipient email: %w", err)
	}

	if !s.config.Enabled {
		metrics.EmailsTotal.WithLabelValues(kindRegistration, "skipped").Inc()
		s.logger.Info().
			Str("registration_id", registration.ID).
			Str("event_id", event.ID).
			Msg("email service disabled, skipping registration confirmation")
		return nil
	}

	body, err := s.render("registration.html", RegistrationData{
		StudentName: registration.StudentName,
		EventTitle:  event.Title,
		Location:    event.Location,
		StartDate:   event.StartDate.Format("Monday, January 2, 2006 at 3:04 PM MST"),
		EndDate:     event.EndDate.Format("3:04 PM MST"),
		CurrentYear: time.Now().Year(),
	})
	if err != nil {
		metrics.EmailsTotal.WithLabelValues(kindRegistration, "failed").Inc()
		return err
	}

	subject := "You're registered: " + event.Title
	if err := s.send(ctx, registration.StudentEmail, subject, body); err != nil {
		metrics.EmailsTotal.WithLabelValues(kindRegistration, "failed").Inc()
		return fmt.Errorf("send registration confirmation: %w", err)
	}
	metrics.EmailsTotal.WithLabelValues(kindRegistration, "sent").Inc()
	return nil
}

// send delivers one message via the Resend API. Rate limit errors are
// reported, never retried.
func (s *Service) send(ctx context.Context, to, subject, htmlBody string) error {
	if s.resendClient == nil {
		return errors.New("resend client not initialized")
	}

	sent, err := s.resendClient.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.config.From,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	})
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			s.logger.Warn().
				Str("limit", rateLimitErr.Limit).
				Str("remaining", rateLimitErr.Remaining).
				Str("reset", rateLimitErr.Reset).
				Msg("resend rate limit exceeded")
			return fmt.Errorf("email rate limit exceeded (resets in %s seconds): %w", rateLimitErr.Reset, err)
		}
		return fmt.Errorf("resend API error: %w", err)
	}

	s.logger.Info().Str("email_id", sent.Id).Msg("email sent via Resend")
	return nil
}

func (s *Service) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// validateEmailAddress rejects malformed addresses and header injection.
func validateEmailAddress(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	if strings.ContainsAny(addr.Address, "\r\n") {
		return errors.New("invalid email address: contains newline characters")
	}
	return nil
}
