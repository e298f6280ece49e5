// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

package db

import (
	"context"

	"github.com/quixsi/rsvp/internal/model"
)

// RowStore is the append-only record of attendees. Losing an RSVP is
// the one unacceptable failure mode, so AppendSubmission propagates
// every storage error to the caller instead of swallowing it.
type RowStore interface {
	// AppendSubmission writes the submitter row followed by one row
	// per named guest, in list order.
	AppendSubmission(context.Context, *model.Submission) error
	// ListAttendees returns every appended row in append order.
	ListAttendees(context.Context) ([]model.AttendeeRow, error)
}
