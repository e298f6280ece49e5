// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

// Package notify fans one recorded submission out to the notification
// channels. Each channel is independently fault-isolated: a failure is
// converted into a DispatchResult and never raised to the caller.
package notify

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/quixsi/rsvp/internal/config"
	"github.com/quixsi/rsvp/internal/ics"
	"github.com/quixsi/rsvp/internal/message"
	"github.com/quixsi/rsvp/internal/model"
	"github.com/quixsi/rsvp/internal/phone"
)

// OutboundEmail is one confirmation mail ready for transport.
type OutboundEmail struct {
	To      string
	Subject string
	HTML    string
	Text    string
	Invite  *ics.Invite
}

// EmailTransport delivers a rendered confirmation email.
type EmailTransport interface {
	Send(context.Context, *OutboundEmail) error
}

// MessageReceipt carries the transport's raw status and body, passed
// through verbatim for diagnostics.
type MessageReceipt struct {
	StatusCode int
	Body       string
}

// MessageTransport performs the single send call of the SMS/WhatsApp
// channel. A returned error means the call itself failed; an
// unsuccessful HTTP status is reported through the receipt instead.
type MessageTransport interface {
	Send(ctx context.Context, to, from, body string) (*MessageReceipt, error)
}

// CalendarInviter registers a guest on the shared calendar event.
type CalendarInviter interface {
	AddGuest(ctx context.Context, email string, event model.Event) error
}

type Notifier struct {
	email      config.EmailConfig
	messaging  config.MessagingConfig
	calendarID string
	event      model.Event

	builder *ics.Builder
	mail    EmailTransport
	sms     MessageTransport
	cal     CalendarInviter
	logger  *slog.Logger
}

// NewNotifier wires the dispatcher. cal may be nil; the shared
// calendar step then reports "skipped".
func NewNotifier(cfg *config.Config, mail EmailTransport, sms MessageTransport, cal CalendarInviter) *Notifier {
	return &Notifier{
		email:      cfg.Email,
		messaging:  cfg.Messaging,
		calendarID: cfg.CalendarID,
		event:      cfg.Event,
		builder:    ics.NewBuilder(cfg.Event, cfg.Email.OrganizerName, cfg.Email.OrganizerEmail),
		mail:       mail,
		sms:        sms,
		cal:        cal,
		logger:     slog.Default().WithGroup("notify"),
	}
}

// SendEmail renders the confirmation, builds a fresh invite and hands
// both to the email transport. The optional shared-calendar step is
// isolated: its failure downgrades the calendarInvite field, never the
// email result.
func (n *Notifier) SendEmail(ctx context.Context, sub *model.Submission) model.DispatchResult {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Notifier.SendEmail")
	defer span.End()

	if sub.Email == "" {
		n.logger.InfoContext(ctx, "no email provided, skipping confirmation email")
		return model.DispatchResult{Success: false, Message: "No email address provided"}
	}

	mail, err := message.RenderEmail(sub.Name, n.event, n.email.FromNames)
	if err != nil {
		span.RecordError(err)
		return model.DispatchResult{Success: false, Message: err.Error()}
	}

	invite, err := n.builder.Build(sub.Name, sub.Email)
	if err != nil {
		span.RecordError(err)
		return model.DispatchResult{Success: false, Message: err.Error()}
	}

	out := &OutboundEmail{
		To:      sub.Email,
		Subject: n.email.Subject,
		HTML:    mail.HTML,
		Text:    mail.Text,
		Invite:  invite,
	}
	if err := n.mail.Send(ctx, out); err != nil {
		span.RecordError(err)
		n.logger.ErrorContext(ctx, "could not send confirmation email", "error", err)
		return model.DispatchResult{Success: false, Message: err.Error()}
	}
	n.logger.InfoContext(ctx, "confirmation email sent", "to", sub.Email, "uid", invite.UID)

	calendarResult := "skipped"
	if n.calendarID != "" && n.cal != nil {
		if err := n.cal.AddGuest(ctx, sub.Email, n.event); err != nil {
			span.RecordError(err)
			n.logger.ErrorContext(ctx, "could not add guest to shared calendar", "error", err)
			calendarResult = "invite failed"
		} else {
			calendarResult = "invite sent"
		}
	}

	return model.DispatchResult{
		Success:        true,
		Message:        "Confirmation email sent",
		CalendarInvite: calendarResult,
	}
}

// SendMessage normalizes the phone number, renders the SMS body and
// performs the single transport call. Success means an HTTP status in
// [200,300); the raw status and body pass through for diagnostics.
func (n *Notifier) SendMessage(ctx context.Context, sub *model.Submission) model.DispatchResult {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Notifier.SendMessage")
	defer span.End()

	if sub.Phone == "" {
		n.logger.InfoContext(ctx, "no phone number provided, skipping messaging")
		return model.DispatchResult{Success: false, Message: "No phone number provided"}
	}
	if n.messaging.AccountSID == "" || n.messaging.AuthToken == "" {
		n.logger.WarnContext(ctx, "missing messaging credentials, aborting send")
		return model.DispatchResult{Success: false, Message: "Missing Twilio credentials"}
	}

	to := phone.Normalize(sub.Phone, n.messaging.DefaultCountryCode)
	if n.messaging.Channel == "whatsapp" {
		to = "whatsapp:" + to
	}
	body := message.RenderSMS(n.messaging.MessageTemplate, sub.Name)

	receipt, err := n.sms.Send(ctx, to, n.messaging.FromNumber, body)
	if err != nil {
		span.RecordError(err)
		n.logger.ErrorContext(ctx, "message transport call failed", "error", err)
		return model.DispatchResult{Success: false, Message: err.Error()}
	}

	ok := receipt.StatusCode >= 200 && receipt.StatusCode < 300
	result := model.DispatchResult{
		Success:      ok,
		Message:      "Message sent successfully",
		ResponseCode: receipt.StatusCode,
		ResponseBody: receipt.Body,
	}
	if !ok {
		result.Message = "Twilio returned an error"
		n.logger.WarnContext(ctx, "message transport returned an error", "status", receipt.StatusCode)
	} else {
		n.logger.InfoContext(ctx, "message sent", "channel", n.messaging.Channel, "status", receipt.StatusCode)
	}
	return result
}
