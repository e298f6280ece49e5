// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

package notify

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/quixsi/rsvp/internal/model"
)

// GoogleCalendarInviter creates the event on a shared calendar with
// the guest attached, so the calendar sends its own invitation.
type GoogleCalendarInviter struct {
	service    *calendar.Service
	calendarID string
}

func NewGoogleCalendarInviter(ctx context.Context, credentialsFile, calendarID string) (*GoogleCalendarInviter, error) {
	service, err := calendar.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(calendar.CalendarEventsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &GoogleCalendarInviter{service: service, calendarID: calendarID}, nil
}

func (g *GoogleCalendarInviter) AddGuest(ctx context.Context, email string, event model.Event) error {
	entry := &calendar.Event{
		Summary:     event.Title,
		Description: event.Description,
		Location:    event.Location,
		Attendees:   []*calendar.EventAttendee{{Email: email}},
	}
	if event.AllDay {
		entry.Start = &calendar.EventDateTime{Date: event.Start.Format("2006-01-02")}
		entry.End = &calendar.EventDateTime{Date: event.End.Format("2006-01-02")}
	} else {
		entry.Start = &calendar.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
			TimeZone: event.Timezone,
		}
		entry.End = &calendar.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
			TimeZone: event.Timezone,
		}
	}

	_, err := g.service.Events.
		Insert(g.calendarID, entry).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to create shared calendar event: %w", err)
	}
	return nil
}
