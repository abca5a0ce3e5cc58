package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeMessageEmailData holds data for the welcome email.
type WelcomeMessageEmailData struct {
	Email       string
	FirstName   string
	IsOrganiser bool
}

// EventCreatedEmailData holds data for the mail sent to an organiser after publishing an event.
type EventCreatedEmailData struct {
	Email         string
	OrganiserName string
	EventID       int64
	EventName     string
	Location      string
	Date          time.Time
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
	SendEventCreated(ctx context.Context, data *EventCreatedEmailData) error
}
