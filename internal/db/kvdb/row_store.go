// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

package kvdb

import (
	"context"
	"encoding/binary"
	"encoding/json"

	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quixsi/rsvp/internal/model"
)

const bucketRows = "attendee_rows"

// RowStore keeps attendee rows in a bolt bucket keyed by a strictly
// increasing sequence, which preserves append order on iteration.
type RowStore struct {
	db *bolt.DB
}

func NewRowStore(db *bolt.DB) (*RowStore, error) {
	return &RowStore{db: db}, db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRows))
		return err
	})
}

func (s *RowStore) AppendSubmission(ctx context.Context, sub *model.Submission) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "AppendSubmission")
	defer span.End()

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketRows))
		for _, row := range sub.Rows() {
			seq, err := bucket.NextSequence()
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
			j, err := json.Marshal(row)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
			key := make([]byte, 8)
			binary.BigEndian.PutUint64(key, seq)
			if err := bucket.Put(key, j); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
		}
		return nil
	})
}

func (s *RowStore) ListAttendees(ctx context.Context) ([]model.AttendeeRow, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "ListAttendees")
	defer span.End()

	var rows []model.AttendeeRow
	return rows, s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketRows))
		return bucket.ForEach(func(_, v []byte) error {
			var row model.AttendeeRow
			if err := json.Unmarshal(v, &row); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
			rows = append(rows, row)
			return nil
		})
	})
}
