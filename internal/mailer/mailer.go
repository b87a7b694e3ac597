// Package mailer sends transactional email through the MailerSend HTTP API.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ajibade-k/budgetwise/internal/httpx"
)

const defaultAPIBase = "https://api.mailersend.com"

// Config for the mailer. FrontendURL is where the verification link points.
type Config struct {
	APIKey      string
	APIBase     string
	FromEmail   string
	FromName    string
	FrontendURL string
	Timeout     time.Duration
}

type Mailer struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Mailer {
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

// SendVerificationEmail mails the signup verification link. Callers treat a
// failure as non-fatal; the account still exists without the email.
func (m *Mailer) SendVerificationEmail(ctx context.Context, email, fullName, token string) error {
	if m.cfg.APIKey == "" {
		m.log.Warn("mailer.skip_no_api_key", "to", email)
		return nil
	}

	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", m.cfg.FrontendURL, url.QueryEscape(token))

	body := map[string]any{
		"from": map[string]string{
			"email": m.cfg.FromEmail,
			"name":  m.cfg.FromName,
		},
		"to": []map[string]string{
			{"email": email, "name": fullName},
		},
		"subject": "Verify Your BudgetWise Account",
		"text":    verificationText(fullName, verificationURL),
		"html":    verificationHTML(fullName, verificationURL),
	}

	headers := map[string]string{
		"Authorization": "Bearer " + m.cfg.APIKey,
	}

	_, _, err := httpx.SendJSON(ctx, m.httpClient, m.cfg.APIBase+"/v1/email", body, headers, m.log)
	if err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	m.log.Info("mailer.verification_sent", "to", email)
	return nil
}

func verificationText(fullName, verificationURL string) string {
	return fmt.Sprintf(`Welcome to BudgetWise!

Hi %s,

Thank you for signing up for BudgetWise! To complete your registration and start managing your finances with the 50/30/20 rule, please verify your email address by clicking the following link:

%s

This verification link will expire in 24 hours. If you didn't sign up for BudgetWise, you can safely ignore this email.

Best regards,
The BudgetWise Team
`, fullName, verificationURL)
}

func verificationHTML(fullName, verificationURL string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>Welcome to BudgetWise!</h1>
  <p>Hi %s,</p>
  <p>Thank you for signing up for BudgetWise! To complete your registration and start managing your finances with the 50/30/20 rule, please verify your email address.</p>
  <p><a href="%s">Verify Email Address</a></p>
  <p>If the button doesn't work, copy and paste this link into your browser:<br>%s</p>
  <p>This verification link will expire in 24 hours. If you didn't sign up for BudgetWise, you can safely ignore this email.</p>
</div>`, fullName, verificationURL, verificationURL)
}
