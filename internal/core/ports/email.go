package ports

import (
	"context"

	"github.com/acmshq/acms/internal/core/domain/onduty"
)

// EmailService defines the interface for email notifications. Sending is
// best-effort: failures are logged by implementations, never surfaced as
// request failures.
type EmailService interface {
	SendWelcomeEmail(ctx context.Context, email, name string) error
	SendODDecisionEmail(ctx context.Context, email, name string, status onduty.Status, remarks string) error
}
