package domain

import "context"

// Mailer sends a single email message.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named email template into subject, html,
// and text bodies.
type EmailTemplateRenderer interface {
	Render(name string, data any) (subject, html, text string, err error)
}

// InvitationEmailData is the payload for the invitation email template.
type InvitationEmailData struct {
	Email     string
	OwnerName string
	EventName string
	VisitURL  string
}

// EmailService sends application emails.
type EmailService interface {
	SendInvitation(ctx context.Context, data *InvitationEmailData) error
}
