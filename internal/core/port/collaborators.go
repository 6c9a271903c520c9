package port

import (
	"context"
	"encoding/json"

	"studio-campaigns/internal/core/domain"
)

// RecipientResolver resolves an opaque audience filter into the recipients
// currently matching it.
type RecipientResolver interface {
	ResolveRecipients(ctx context.Context, filter json.RawMessage) ([]domain.Recipient, error)
}

// TemplateRenderer renders a campaign template for one recipient.
type TemplateRenderer interface {
	Render(ctx context.Context, templateRef string, recipient domain.Recipient) (domain.Message, error)
}

// Mailer sends one email. Failures should be *domain.SendError values so the
// dispatcher can tell transient, permanent and quota failures apart;
// anything else is treated as transient.
type Mailer interface {
	Send(ctx context.Context, msg domain.Message) error
}
