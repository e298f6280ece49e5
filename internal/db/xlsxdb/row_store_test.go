// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

package xlsxdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/quixsi/rsvp/internal/model"
)

func newTestStore(t *testing.T) *RowStore {
	t.Helper()
	store, err := NewRowStore(filepath.Join(t.TempDir(), "rsvps.xlsx"))
	if err != nil {
		t.Fatalf("could not create store: %v", err)
	}
	return store
}

func TestRowStore_AppendSubmission(t *testing.T) {
	tt := []struct {
		name       string
		submission model.Submission
		wantNames  []string
	}{
		{
			name: "submitter only",
			submission: model.Submission{
				Timestamp: "3/1/2026, 9:00:00 AM",
				Name:      "Alice",
				Email:     "a@x.com",
			},
			wantNames: []string{"Alice"},
		},
		{
			name: "submitter plus guests",
			submission: model.Submission{
				Timestamp:  "3/1/2026, 9:00:00 AM",
				Name:       "Alice",
				Email:      "a@x.com",
				Phone:      "+15551234567",
				Attendance: "yes",
				Guests:     "Bob, Carol",
				Dietary:    "vegetarian",
			},
			wantNames: []string{"Alice", "Bob", "Carol"},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(t)
			ctx := context.Background()

			if err := store.AppendSubmission(ctx, &tc.submission); err != nil {
				t.Fatalf("append failed: %v", err)
			}

			rows, err := store.ListAttendees(ctx)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(rows) != len(tc.wantNames) {
				t.Fatalf("expected %d rows, got %d", len(tc.wantNames), len(rows))
			}
			for i, row := range rows {
				if row.DisplayName != tc.wantNames[i] {
					t.Fatalf("row %d: expected %q, got %q", i, tc.wantNames[i], row.DisplayName)
				}
				if i > 0 && row.GuestList != "" {
					t.Fatalf("guest row %d must have an empty guest list", i)
				}
			}
		})
	}
}

func TestRowStore_AppendAcrossSubmissions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := model.Submission{Timestamp: "t1", Name: "Alice", Guests: "Bob"}
	second := model.Submission{Timestamp: "t2", Name: "Dana"}

	if err := store.AppendSubmission(ctx, &first); err != nil {
		t.Fatalf("first append failed: %v", err)
	}
	if err := store.AppendSubmission(ctx, &second); err != nil {
		t.Fatalf("second append failed: %v", err)
	}

	rows, err := store.ListAttendees(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := []string{"Alice", "Bob", "Dana"}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i, row := range rows {
		if row.DisplayName != want[i] {
			t.Fatalf("row %d: expected %q, got %q", i, want[i], row.DisplayName)
		}
	}
}

func TestRowStore_ReopenExistingWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rsvps.xlsx")
	ctx := context.Background()

	store, err := NewRowStore(path)
	if err != nil {
		t.Fatalf("could not create store: %v", err)
	}
	sub := model.Submission{Timestamp: "t1", Name: "Alice"}
	if err := store.AppendSubmission(ctx, &sub); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	reopened, err := NewRowStore(path)
	if err != nil {
		t.Fatalf("could not reopen store: %v", err)
	}
	rows, err := reopened.ListAttendees(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 1 || rows[0].DisplayName != "Alice" {
		t.Fatalf("expected the persisted row to survive reopening, got %+v", rows)
	}
}

func TestNewRowStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testdata", "rsvps.xlsx")

	store, err := NewRowStore(path)
	if err != nil {
		t.Fatalf("could not create store in a missing directory: %v", err)
	}
	if err := store.AppendSubmission(context.Background(), &model.Submission{Timestamp: "t1", Name: "Alice"}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
}
