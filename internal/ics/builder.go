// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

// Package ics builds the calendar-invite document attached to every
// confirmation email.
package ics

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/quixsi/rsvp/internal/model"
)

var timeNow = time.Now

const (
	productID = "-//quixsi rsvp//EN"
	// icsDateLayout is the bare UTC date used for all-day events.
	icsDateLayout = "20060102"
)

// Invite is a freshly generated calendar document. It is handed to the
// email transport as an attachment and never persisted.
type Invite struct {
	UID      string
	Filename string
	Content  []byte
}

// Builder renders invites for one configured event.
type Builder struct {
	event         model.Event
	organizerName string
	organizerMail string
}

func NewBuilder(event model.Event, organizerName, organizerMail string) *Builder {
	if organizerName == "" {
		organizerName = "Event Host"
	}
	return &Builder{
		event:         event,
		organizerName: organizerName,
		organizerMail: organizerMail,
	}
}

// Build produces a calendar object with exactly one VEVENT, method
// REQUEST, status CONFIRMED, sequence 0 and a fresh UID. The attendee
// line is emitted only when the guest has an email address.
func (b *Builder) Build(guestName, guestEmail string) (*Invite, error) {
	uid := uuid.New().String()

	vevent := ical.NewComponent(ical.CompEvent)
	vevent.Props.SetText(ical.PropUID, uid)
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, timeNow().UTC())

	if b.event.AllDay {
		vevent.Props.Add(&ical.Prop{
			Name:   ical.PropDateTimeStart,
			Params: ical.Params{"VALUE": []string{"DATE"}},
			Value:  b.event.Start.UTC().Format(icsDateLayout),
		})
		vevent.Props.Add(&ical.Prop{
			Name:   ical.PropDateTimeEnd,
			Params: ical.Params{"VALUE": []string{"DATE"}},
			Value:  b.event.End.UTC().Format(icsDateLayout),
		})
	} else {
		vevent.Props.SetDateTime(ical.PropDateTimeStart, b.event.Start.UTC())
		vevent.Props.SetDateTime(ical.PropDateTimeEnd, b.event.End.UTC())
	}

	vevent.Props.Add(&ical.Prop{
		Name:   ical.PropOrganizer,
		Params: ical.Params{"CN": []string{b.organizerName}},
		Value:  fmt.Sprintf("mailto:%s", b.organizerMail),
	})
	vevent.Props.SetText(ical.PropSummary, b.event.Title)
	vevent.Props.SetText(ical.PropDescription, b.event.Description)
	vevent.Props.SetText(ical.PropLocation, b.event.Location)
	vevent.Props.SetText("STATUS", "CONFIRMED")
	// SEQUENCE defaults to INTEGER; setting it as text would force a
	// VALUE=TEXT override onto the serialized line.
	vevent.Props.Add(&ical.Prop{Name: "SEQUENCE", Value: "0"})

	if guestEmail != "" {
		if guestName == "" {
			guestName = "Guest"
		}
		vevent.Props.Add(&ical.Prop{
			Name: ical.PropAttendee,
			Params: ical.Params{
				"CN":       []string{guestName},
				"ROLE":     []string{"REQ-PARTICIPANT"},
				"PARTSTAT": []string{"NEEDS-ACTION"},
				"RSVP":     []string{"TRUE"},
			},
			Value: fmt.Sprintf("mailto:%s", guestEmail),
		})
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText("CALSCALE", "GREGORIAN")
	cal.Props.SetText("METHOD", "REQUEST")
	cal.Children = append(cal.Children, vevent)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar invite: %w", err)
	}

	return &Invite{
		UID:      uid,
		Filename: "invite.ics",
		Content:  buf.Bytes(),
	}, nil
}
