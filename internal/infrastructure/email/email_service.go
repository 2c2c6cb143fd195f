package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/acmshq/acms/internal/core/domain/onduty"
	"github.com/acmshq/acms/internal/core/ports"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailConfig holds email service configuration
type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	PortalName     string
	BaseURL        string
}

// EmailService sends portal notifications through SendGrid. Callers treat
// sending as best-effort; errors are returned for logging only.
type EmailService struct {
	config    *EmailConfig
	logger    *logrus.Logger
	client    *sendgrid.Client
	templates *template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(config *EmailConfig, logger *logrus.Logger) (ports.EmailService, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &EmailService{
		config:    config,
		logger:    logger,
		client:    sendgrid.NewSendClient(config.SendGridAPIKey),
		templates: templates,
	}, nil
}

// sendEmail sends an email using SendGrid
func (e *EmailService) sendEmail(to, subject, htmlContent string) error {
	if e.config.SendGridAPIKey == "" {
		if e.logger != nil {
			e.logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Debug("email: no API key configured, skipping send")
		}
		return nil
	}

	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, "", htmlContent)

	response, err := e.client.Send(message)
	if err != nil {
		if e.logger != nil {
			e.logger.WithFields(logrus.Fields{"to": to, "subject": subject}).WithError(err).Error("email: send failed")
		}
		return fmt.Errorf("failed to send email: %w", err)
	}

	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{"to": to, "subject": subject, "status_code": response.StatusCode}).Info("email: sent")
	}
	return nil
}

// renderTemplate renders an email template with the provided data
func (e *EmailService) renderTemplate(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

type welcomeEmailData struct {
	PortalName string
	UserName   string
	BaseURL    string
}

type odDecisionEmailData struct {
	PortalName  string
	UserName    string
	Status      string
	StatusTitle string
	Remarks     string
	BaseURL     string
}

// SendWelcomeEmail notifies a newly created account.
func (e *EmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	htmlContent, err := e.renderTemplate("welcome.html", welcomeEmailData{
		PortalName: e.config.PortalName,
		UserName:   name,
		BaseURL:    e.config.BaseURL,
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Welcome to %s", e.config.PortalName)
	return e.sendEmail(email, subject, htmlContent)
}

// SendODDecisionEmail notifies a student of their counsellor's decision.
func (e *EmailService) SendODDecisionEmail(ctx context.Context, email, name string, status onduty.Status, remarks string) error {
	statusTitle := strings.ToUpper(string(status)[:1]) + string(status)[1:]
	htmlContent, err := e.renderTemplate("od_decision.html", odDecisionEmailData{
		PortalName:  e.config.PortalName,
		UserName:    name,
		Status:      string(status),
		StatusTitle: statusTitle,
		Remarks:     remarks,
		BaseURL:     e.config.BaseURL,
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Your on-duty request was %s", status)
	return e.sendEmail(email, subject, htmlContent)
}
