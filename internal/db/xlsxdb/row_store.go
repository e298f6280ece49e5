// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

// Package xlsxdb persists attendee rows in a local .xlsx workbook so
// the hosts can open the RSVP list directly in a spreadsheet program.
package xlsxdb

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"context"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quixsi/rsvp/internal/model"
)

const sheetName = "RSVPs"

var header = []string{
	"Timestamp", "Name", "Email", "Phone", "Attendance", "Guests", "Dietary", "Message",
}

// RowStore appends attendee rows to a single worksheet. The workbook
// is created with a header row on first use.
type RowStore struct {
	filename string
	mu       sync.Mutex
}

func NewRowStore(filename string) (*RowStore, error) {
	s := &RowStore{filename: filename}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		if err := s.createWorkbook(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *RowStore) createWorkbook() error {
	if dir := filepath.Dir(s.filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheetName)
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}
	return f.SaveAs(s.filename)
}

// AppendSubmission writes one row for the submitter and one per named
// guest. The whole workbook is rewritten on save; the mutex keeps two
// submissions from interleaving their writes.
func (s *RowStore) AppendSubmission(ctx context.Context, sub *model.Submission) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "AppendSubmission")
	defer span.End()

	span.AddEvent("Lock")
	s.mu.Lock()
	defer span.AddEvent("Unlock")
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.filename)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("could not open workbook: %w", err)
	}
	defer f.Close()

	existing, err := f.GetRows(sheetName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("could not read workbook: %w", err)
	}

	next := len(existing) + 1
	for _, row := range sub.Rows() {
		cell, err := excelize.CoordinatesToCellName(1, next)
		if err != nil {
			return err
		}
		values := []any{
			row.Timestamp, row.DisplayName, row.Email, row.Phone,
			row.Attendance, row.GuestList, row.Dietary, row.Message,
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("could not append row: %w", err)
		}
		next++
	}

	span.AddEvent("save workbook")
	if err := f.Save(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("could not save workbook: %w", err)
	}
	return nil
}

// ListAttendees returns every data row in append order.
func (s *RowStore) ListAttendees(ctx context.Context) ([]model.AttendeeRow, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "ListAttendees")
	defer span.End()

	span.AddEvent("Lock")
	s.mu.Lock()
	defer span.AddEvent("Unlock")
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.filename)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("could not open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("could not read workbook: %w", err)
	}

	attendees := make([]model.AttendeeRow, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		attendees = append(attendees, rowFromCells(row))
	}
	return attendees, nil
}

func rowFromCells(cells []string) model.AttendeeRow {
	get := func(i int) string {
		if i < len(cells) {
			return cells[i]
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
