// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

package model

import (
	"strings"
	"time"
)

// Submission is one RSVP form payload from a single visitor. It may
// represent multiple attendees via the comma-separated Guests field.
type Submission struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Attendance string `json:"attendance"`
	Guests     string `json:"guests"`
	Dietary    string `json:"dietary"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
}

// ApplyDefaults fills every absent field with its documented default.
// Missing fields never reject a submission; the zero value of every
// string field is already the default, only the timestamp is derived.
func (s *Submission) ApplyDefaults(now time.Time) {
	if s.Timestamp == "" {
		s.Timestamp = now.Format("1/2/2006, 3:04:05 PM")
	}
}

// AttendeeRow is one appended record in the row store. A submission
// expands into a submitter row plus one row per named guest.
type AttendeeRow struct {
	Timestamp   string
	DisplayName string
	Email       string
	Phone       string
	Attendance  string
	GuestList   string
	Dietary     string
	Message     string
}

// Rows expands the submission into its attendee rows: the submitter
// first, then each trimmed non-empty guest name in list order. Guest
// rows copy the submitter's contact fields but carry an empty guest
// list of their own.
func (s *Submission) Rows() []AttendeeRow {
	rows := []AttendeeRow{{
		Timestamp:   s.Timestamp,
		DisplayName: s.Name,
		Email:       s.Email,
		Phone:       s.Phone,
		Attendance:  s.Attendance,
		GuestList:   s.Guests,
		Dietary:     s.Dietary,
		Message:     s.Message,
	}}
	if s.Guests == "" {
		return rows
	}
	for _, name := range strings.Split(s.Guests, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		rows = append(rows, AttendeeRow{
			Timestamp:   s.Timestamp,
			DisplayName: name,
			Email:       s.Email,
			Phone:       s.Phone,
			Attendance:  s.Attendance,
			Dietary:     s.Dietary,
			Message:     s.Message,
		})
	}
	return rows
}

// DispatchResult reports the outcome of one notification channel for
// one submission. Channel failures are carried here, never raised.
type DispatchResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	CalendarInvite string `json:"calendarInvite,omitempty"`
	ResponseCode   int    `json:"responseCode,omitempty"`
	ResponseBody   string `json:"responseBody,omitempty"`
}

// SubmissionResponse is the JSON body returned for every POST, always
// with HTTP 200. Status is "error" only when the row write (or body
// parsing) failed; channel failures stay inside their own results.
type SubmissionResponse struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	Email     *DispatchResult `json:"email,omitempty"`
	Messaging *DispatchResult `json:"messaging,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}
