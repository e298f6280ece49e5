// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/quixsi/rsvp/internal/config"
	"github.com/quixsi/rsvp/internal/model"
)

type fakeEmailTransport struct {
	sent []*OutboundEmail
	err  error
}

func (f *fakeEmailTransport) Send(_ context.Context, mail *OutboundEmail) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, mail)
	return nil
}

type fakeMessageTransport struct {
	lastTo   string
	lastBody string
	receipt  *MessageReceipt
	err      error
}

func (f *fakeMessageTransport) Send(_ context.Context, to, from, body string) (*MessageReceipt, error) {
	f.lastTo = to
	f.lastBody = body
	if f.err != nil {
		return nil, f.err
	}
	return f.receipt, nil
}

type fakeCalendarInviter struct {
	added []string
	err   error
}

func (f *fakeCalendarInviter) AddGuest(_ context.Context, email string, _ model.Event) error {
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, email)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Email: config.EmailConfig{
			Enabled:        true,
			Subject:        "We received your RSVP!",
			FromNames:      "The Hosts",
			OrganizerName:  "The Hosts",
			OrganizerEmail: "host@example.com",
		},
		Messaging: config.MessagingConfig{
			Enabled:            true,
			DefaultCountryCode: "+1",
			Channel:            "sms",
			FromNumber:         "+18005551212",
			MessageTemplate:    "Hi {{name}}, we got your RSVP!",
			AccountSID:         "ACtest",
			AuthToken:          "token",
		},
		Event: model.Event{
			Title:         "Engagement Party",
			Location:      "Sugar Land, TX",
			Start:         time.Date(2026, 3, 21, 5, 0, 0, 0, time.UTC),
			End:           time.Date(2026, 3, 22, 5, 0, 0, 0, time.UTC),
			AllDay:        true,
			Timezone:      "America/Chicago",
			TimezoneLabel: "Central Time",
		},
	}
}

func TestNotifier_SendEmail(t *testing.T) {
	mail := &fakeEmailTransport{}
	n := NewNotifier(testConfig(), mail, &fakeMessageTransport{}, nil)

	sub := &model.Submission{Name: "Alice", Email: "a@x.com"}
	res := n.SendEmail(context.Background(), sub)

	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.CalendarInvite != "skipped" {
		t.Fatalf("without a calendar id the step must be skipped, got %q", res.CalendarInvite)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected one sent mail, got %d", len(mail.sent))
	}
	out := mail.sent[0]
	if out.To != "a@x.com" {
		t.Fatalf("unexpected recipient %q", out.To)
	}
	if out.Invite == nil || len(out.Invite.Content) == 0 {
		t.Fatal("expected an attached calendar invite")
	}
	if !strings.Contains(out.HTML, "Hi Alice,") {
		t.Fatalf("unexpected mail body:\n%s", out.HTML)
	}
}

func TestNotifier_SendEmailNoAddress(t *testing.T) {
	mail := &fakeEmailTransport{}
	n := NewNotifier(testConfig(), mail, &fakeMessageTransport{}, nil)

	res := n.SendEmail(context.Background(), &model.Submission{Name: "Alice"})
	if res.Success {
		t.Fatal("expected failure without an email address")
	}
	if res.Message != "No email address provided" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if len(mail.sent) != 0 {
		t.Fatal("transport must not be called without an address")
	}
}

func TestNotifier_SendEmailTransportFailure(t *testing.T) {
	mail := &fakeEmailTransport{err: errors.New("smtp down")}
	n := NewNotifier(testConfig(), mail, &fakeMessageTransport{}, nil)

	res := n.SendEmail(context.Background(), &model.Submission{Name: "Alice", Email: "a@x.com"})
	if res.Success {
		t.Fatal("expected failure when the transport errors")
	}
	if !strings.Contains(res.Message, "smtp down") {
		t.Fatalf("expected the transport error text, got %q", res.Message)
	}
}

func TestNotifier_SendEmailSharedCalendar(t *testing.T) {
	tt := []struct {
		name        string
		inviter     *fakeCalendarInviter
		wantOutcome string
	}{
		{
			name:        "guest registered",
			inviter:     &fakeCalendarInviter{},
			wantOutcome: "invite sent",
		},
		{
			name:        "calendar failure is isolated",
			inviter:     &fakeCalendarInviter{err: errors.New("quota exceeded")},
			wantOutcome: "invite failed",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.CalendarID = "shared-calendar-id"
			n := NewNotifier(cfg, &fakeEmailTransport{}, &fakeMessageTransport{}, tc.inviter)

			res := n.SendEmail(context.Background(), &model.Submission{Name: "Alice", Email: "a@x.com"})
			if !res.Success {
				t.Fatalf("calendar outcome must never fail the email result: %+v", res)
			}
			if res.CalendarInvite != tc.wantOutcome {
				t.Fatalf("expected calendar outcome %q, got %q", tc.wantOutcome, res.CalendarInvite)
			}
		})
	}
}

func TestNotifier_SendMessage(t *testing.T) {
	sms := &fakeMessageTransport{receipt: &MessageReceipt{StatusCode: 201, Body: `{"sid":"SM1"}`}}
	n := NewNotifier(testConfig(), &fakeEmailTransport{}, sms, nil)

	sub := &model.Submission{Name: "Alice", Phone: "(555) 123-4567"}
	res := n.SendMessage(context.Background(), sub)

	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if sms.lastTo != "+15551234567" {
		t.Fatalf("expected normalized recipient, got %q", sms.lastTo)
	}
	if sms.lastBody != "Hi Alice, we got your RSVP!" {
		t.Fatalf("unexpected body %q", sms.lastBody)
	}
	if res.ResponseCode != 201 || res.ResponseBody != `{"sid":"SM1"}` {
		t.Fatalf("transport diagnostics must pass through, got %+v", res)
	}
}

func TestNotifier_SendMessageWhatsappPrefix(t *testing.T) {
	cfg := testConfig()
	cfg.Messaging.Channel = "whatsapp"
	sms := &fakeMessageTransport{receipt: &MessageReceipt{StatusCode: 200}}
	n := NewNotifier(cfg, &fakeEmailTransport{}, sms, nil)

	n.SendMessage(context.Background(), &model.Submission{Name: "Alice", Phone: "5551234567"})
	if sms.lastTo != "whatsapp:+15551234567" {
		t.Fatalf("expected whatsapp prefix, got %q", sms.lastTo)
	}
}

func TestNotifier_SendMessageGuards(t *testing.T) {
	tt := []struct {
		name        string
		mutate      func(*config.Config)
		sub         model.Submission
		wantMessage string
	}{
		{
			name:        "no phone",
			mutate:      func(*config.Config) {},
			sub:         model.Submission{Name: "Alice"},
			wantMessage: "No phone number provided",
		},
		{
			name:        "missing credentials",
			mutate:      func(c *config.Config) { c.Messaging.AuthToken = "" },
			sub:         model.Submission{Name: "Alice", Phone: "5551234567"},
			wantMessage: "Missing Twilio credentials",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(cfg)
			sms := &fakeMessageTransport{receipt: &MessageReceipt{StatusCode: 200}}
			n := NewNotifier(cfg, &fakeEmailTransport{}, sms, nil)

			res := n.SendMessage(context.Background(), &tc.sub)
			if res.Success {
				t.Fatal("expected a failed result")
			}
			if res.Message != tc.wantMessage {
				t.Fatalf("expected %q, got %q", tc.wantMessage, res.Message)
			}
			if sms.lastTo != "" {
				t.Fatal("transport must not be called")
			}
		})
	}
}

func TestNotifier_SendMessageTransportStatus(t *testing.T) {
	sms := &fakeMessageTransport{receipt: &MessageReceipt{StatusCode: 401, Body: "auth error"}}
	n := NewNotifier(testConfig(), &fakeEmailTransport{}, sms, nil)

	res := n.SendMessage(context.Background(), &model.Submission{Name: "Alice", Phone: "5551234567"})
	if res.Success {
		t.Fatal("a non-2xx status must fail the result")
	}
	if res.Message != "Twilio returned an error" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if res.ResponseCode != 401 || res.ResponseBody != "auth error" {
		t.Fatalf("diagnostics must pass through, got %+v", res)
	}
}

func TestNotifier_SendMessageNetworkFailure(t *testing.T) {
	sms := &fakeMessageTransport{err: errors.New("connection refused")}
	n := NewNotifier(testConfig(), &fakeEmailTransport{}, sms, nil)

	res := n.SendMessage(context.Background(), &model.Submission{Name: "Alice", Phone: "5551234567"})
	if res.Success {
		t.Fatal("expected a failed result")
	}
	if !strings.Contains(res.Message, "connection refused") {
		t.Fatalf("expected the network error text, got %q", res.Message)
	}
}
