// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

// Package message fills the confirmation templates (email HTML and
// text, SMS body) from submission data.
package message

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/quixsi/rsvp/internal/model"
)

const (
	lineBreak       = "<br>"
	namePlaceholder = "{{name}}"
	fallbackName    = "there"
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Email is the rendered confirmation mail. Text is derived from HTML
// mechanically, so the two views can never diverge in content.
type Email struct {
	HTML string
	Text string
}

// RenderEmail builds the confirmation body for one guest. The date
// line uses the event's configured timezone; all-day events render a
// fixed "All day" label with the configured timezone name instead of a
// time range.
func RenderEmail(guestName string, event model.Event, fromNames string) (Email, error) {
	if guestName == "" {
		guestName = fallbackName
	}

	loc, err := time.LoadLocation(event.Timezone)
	if err != nil {
		return Email{}, fmt.Errorf("invalid event timezone %q: %w", event.Timezone, err)
	}

	dateText := event.Start.In(loc).Format("Monday, January 2, 2006")
	var timeText string
	if event.AllDay {
		timeText = fmt.Sprintf("All day (%s)", event.TimezoneLabel)
	} else {
		timeText = fmt.Sprintf("%s - %s",
			event.Start.In(loc).Format("3:04PM"),
			event.End.In(loc).Format("3:04PM MST"),
		)
	}

	lines := []string{
		fmt.Sprintf("Hi %s,", guestName),
		" ",
		"Thank you for RSVPing to our celebration! We can't wait to celebrate with you.",
		" ",
		fmt.Sprintf("<strong>Event:</strong> %s", event.Title),
		fmt.Sprintf("<strong>Date:</strong> %s", dateText),
		fmt.Sprintf("<strong>Time:</strong> %s", timeText),
		fmt.Sprintf("<strong>Location:</strong> %s", event.Location),
		" ",
		"We included a calendar invite so you can add the details with one click.",
		" ",
		fmt.Sprintf("With love,%s%s", lineBreak, fromNames),
	}

	html := strings.Join(lines, lineBreak)
	return Email{HTML: html, Text: TextFromHTML(html)}, nil
}

// TextFromHTML derives the plaintext body from the HTML one: line
// break markers become newlines and every tag-like substring is
// removed.
func TextFromHTML(html string) string {
	return tagPattern.ReplaceAllString(strings.ReplaceAll(html, lineBreak, "\n"), "")
}

// RenderSMS substitutes the first {{name}} occurrence in the template,
// falling back to "there" when no name is present. Later occurrences
// are left alone on purpose.
func RenderSMS(template, name string) string {
	if name == "" {
		name = fallbackName
	}
	return strings.Replace(template, namePlaceholder, name, 1)
}
