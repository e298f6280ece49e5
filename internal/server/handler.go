// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeremywohl/flatten/v2"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quixsi/rsvp/internal/config"
	"github.com/quixsi/rsvp/internal/db"
	"github.com/quixsi/rsvp/internal/model"
	"github.com/quixsi/rsvp/internal/notify"
)

type SubmissionHandler struct {
	logger   *slog.Logger
	cfg      *config.Config
	rows     db.RowStore
	notifier *notify.Notifier
}

func NewSubmissionHandler(cfg *config.Config, rows db.RowStore, notifier *notify.Notifier) *SubmissionHandler {
	return &SubmissionHandler{
		logger:   slog.Default().WithGroup("submission"),
		cfg:      cfg,
		rows:     rows,
		notifier: notifier,
	}
}

// Liveness answers GET / with a plain-text marker so a browser check
// can tell the deployment is up.
func (h *SubmissionHandler) Liveness(c *gin.Context) {
	c.String(http.StatusOK, "RSVP Form Handler is active!")
}

// Submit runs the full pipeline for one RSVP: decode, record, notify.
// The response is always HTTP 200; "error" status is reserved for a
// failed row write or an unreadable body, while channel failures stay
// inside their own result objects.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "SubmissionHandler.Submit")
	defer span.End()

	var sub model.Submission
	if err := json.NewDecoder(c.Request.Body).Decode(&sub); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.ErrorContext(ctx, "could not decode submission", "error", err)
		c.JSON(http.StatusOK, model.SubmissionResponse{
			Status:    "error",
			Message:   err.Error(),
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}
	sub.ApplyDefaults(time.Now())

	if err := h.rows.AppendSubmission(ctx, &sub); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.ErrorContext(ctx, "could not record submission", "error", err)
		c.JSON(http.StatusOK, model.SubmissionResponse{
			Status:    "error",
			Message:   err.Error(),
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}
	h.logger.InfoContext(ctx, "submission recorded",
		"name", sub.Name, "attendance", sub.Attendance, "guests", sub.Guests)

	email := model.DispatchResult{Success: false, Message: "Email confirmations disabled"}
	if h.cfg.Email.Enabled {
		email = h.notifier.SendEmail(ctx, &sub)
	}

	messaging := model.DispatchResult{Success: false, Message: "Messaging disabled"}
	if h.cfg.Messaging.Enabled {
		messaging = h.notifier.SendMessage(ctx, &sub)
	}

	c.JSON(http.StatusOK, model.SubmissionResponse{
		Status:    "success",
		Message:   "RSVP submitted successfully",
		Email:     &email,
		Messaging: &messaging,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

type adminOverview struct {
	Attendees []model.AttendeeRow `json:"attendees"`
	Counts    map[string]int      `json:"counts"`
	Config    map[string]string   `json:"config"`
}

// RenderAdminOverview reports who answered so far plus the redacted
// runtime configuration, flattened to dotted keys for display.
func (h *SubmissionHandler) RenderAdminOverview(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "SubmissionHandler.RenderAdminOverview")
	defer span.End()

	attendees, err := h.rows.ListAttendees(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.ErrorContext(ctx, "could not list attendees", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not list attendees"})
		return
	}

	counts := map[string]int{"yes": 0, "no": 0, "rows": len(attendees)}
	for _, a := range attendees {
		switch a.Attendance {
		case "yes", "no":
			counts[a.Attendance]++
		}
	}

	raw, err := json.Marshal(h.cfg.Public())
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not render config"})
		return
	}
	flattened, err := flatten.FlattenString(string(raw), "", flatten.DotStyle)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not render config"})
		return
	}
	cfgView := make(map[string]string)
	var generic map[string]any
	if err := json.Unmarshal([]byte(flattened), &generic); err == nil {
		for k, v := range generic {
			cfgView[k] = toString(v)
		}
	}

	c.JSON(http.StatusOK, adminOverview{
		Attendees: attendees,
		Counts:    counts,
		Config:    cfgView,
	})
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		raw, _ := json.Marshal(v)
		return string(raw)
	}
}
