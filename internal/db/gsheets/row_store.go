// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

// Package gsheets backs the attendee list with a Google Sheets
// spreadsheet, the storage the hosts actually look at. The append is
// atomic on the Sheets side; this store adds no locking of its own.
package gsheets

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/quixsi/rsvp/internal/model"
)

type RowStore struct {
	service       *sheets.Service
	spreadsheetID string
	readRange     string
}

// NewRowStore builds a Sheets-backed store authenticated with a
// service-account credentials file.
func NewRowStore(ctx context.Context, credentialsFile, spreadsheetID, readRange string) (*RowStore, error) {
	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &RowStore{
		service:       service,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}, nil
}

func (s *RowStore) AppendSubmission(ctx context.Context, sub *model.Submission) error {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "AppendSubmission")
	defer span.End()

	values := make([][]interface{}, 0, 1)
	for _, row := range sub.Rows() {
		values = append(values, []interface{}{
			row.Timestamp, row.DisplayName, row.Email, row.Phone,
			row.Attendance, row.GuestList, row.Dietary, row.Message,
		})
	}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, s.readRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to append to spreadsheet: %w", err)
	}
	return nil
}

func (s *RowStore) ListAttendees(ctx context.Context) ([]model.AttendeeRow, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "ListAttendees")
	defer span.End()

	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, s.readRange).
		Context(ctx).
		Do()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	rows := make([]model.AttendeeRow, 0, len(resp.Values))
	for _, cells := range resp.Values {
		rows = append(rows, rowFromCells(cells))
	}
	return rows, nil
}

func rowFromCells(cells []interface{}) model.AttendeeRow {
	get := func(i int) string {
		if i < len(cells) {
			if s, ok := cells[i].(string); ok {
				return s
			}
			return fmt.Sprint(cells[i])
		}
		return ""
	}
	return model.AttendeeRow{
		Timestamp:   get(0),
		DisplayName: get(1),
		Email:       get(2),
		Phone:       get(3),
		Attendance:  get(4),
		GuestList:   get(5),
		Dietary:     get(6),
		Message:     get(7),
	}
}
