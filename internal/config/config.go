// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/quixsi/rsvp/internal/model"
)

// EmailConfig gates and parameterizes the confirmation-email channel.
type EmailConfig struct {
	Enabled        bool
	Subject        string
	FromNames      string
	OrganizerName  string
	OrganizerEmail string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
}

// MessagingConfig gates and parameterizes the SMS/WhatsApp channel.
// AccountSID and AuthToken are secrets and must never be logged.
type MessagingConfig struct {
	Enabled            bool
	DefaultCountryCode string
	Channel            string // "sms" or "whatsapp"
	FromNumber         string
	MessageTemplate    string
	AccountSID         string
	AuthToken          string
}

// Config is the immutable runtime configuration. It is constructed
// once in main and passed into the server; nothing reads the process
// environment after Load returns.
type Config struct {
	Email     EmailConfig
	Messaging MessagingConfig

	// CalendarID, when set, additionally registers every confirmed
	// guest on a shared Google calendar.
	CalendarID        string
	GoogleCredentials string

	// Spreadsheet settings for the gsheets row store.
	SpreadsheetID    string
	SpreadsheetRange string

	AdminUser     string
	AdminPassword string

	Event model.Event
}

// Load reads .env (if present) and the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Default().Info("no .env file, using environment variables")
	}

	event, err := loadEvent()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Email: EmailConfig{
			Enabled:        envBool("EMAIL_CONFIRMATION_ENABLED", true),
			Subject:        envDefault("EMAIL_SUBJECT", "We received your RSVP!"),
			FromNames:      os.Getenv("EMAIL_FROM_NAMES"),
			OrganizerName:  os.Getenv("EMAIL_ORGANIZER_NAME"),
			OrganizerEmail: os.Getenv("EMAIL_ORGANIZER_EMAIL"),
			SMTPHost:       os.Getenv("SMTP_HOST"),
			SMTPPort:       envDefault("SMTP_PORT", "587"),
			SMTPUsername:   os.Getenv("SMTP_USERNAME"),
			SMTPPassword:   os.Getenv("SMTP_PASSWORD"),
		},
		Messaging: MessagingConfig{
			Enabled:            envBool("MESSAGING_ENABLED", false),
			DefaultCountryCode: envDefault("MESSAGING_DEFAULT_COUNTRY_CODE", "+1"),
			Channel:            envDefault("MESSAGING_CHANNEL", "sms"),
			FromNumber:         os.Getenv("MESSAGING_FROM_NUMBER"),
			MessageTemplate:    os.Getenv("MESSAGING_TEMPLATE"),
			AccountSID:         os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:          os.Getenv("TWILIO_AUTH_TOKEN"),
		},
		CalendarID:        os.Getenv("CALENDAR_ID"),
		GoogleCredentials: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		SpreadsheetID:     os.Getenv("SPREADSHEET_ID"),
		SpreadsheetRange:  envDefault("SPREADSHEET_RANGE", "A:H"),
		AdminUser:         envDefault("ADMIN_USER", "admin"),
		AdminPassword:     envDefault("ADMIN_PASSWORD", "admin"),
		Event:             event,
	}

	if cfg.Email.OrganizerName == "" {
		cfg.Email.OrganizerName = cfg.Email.FromNames
	}
	return cfg, nil
}

func loadEvent() (model.Event, error) {
	tz := envDefault("EVENT_TIMEZONE", "America/Chicago")
	if _, err := time.LoadLocation(tz); err != nil {
		return model.Event{}, fmt.Errorf("invalid EVENT_TIMEZONE %q: %w", tz, err)
	}

	start, err := envTime("EVENT_START")
	if err != nil {
		return model.Event{}, err
	}
	end, err := envTime("EVENT_END")
	if err != nil {
		return model.Event{}, err
	}

	return model.Event{
		Title:         os.Getenv("EVENT_TITLE"),
		Description:   os.Getenv("EVENT_DESCRIPTION"),
		Location:      os.Getenv("EVENT_LOCATION"),
		Start:         start,
		End:           end,
		AllDay:        envBool("EVENT_ALL_DAY", false),
		Timezone:      tz,
		TimezoneLabel: envDefault("EVENT_TIMEZONE_LABEL", "Central Time"),
	}, nil
}

func envTime(key string) (time.Time, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return t, nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

// Public returns the configuration as a nested map with every secret
// (SMTP password, Twilio credentials, admin password) withheld. The
// admin overview flattens this for display.
func (c *Config) Public() map[string]any {
	return map[string]any{
		"emailConfirmation": map[string]any{
			"enabled":        c.Email.Enabled,
			"subject":        c.Email.Subject,
			"fromNames":      c.Email.FromNames,
			"organizerName":  c.Email.OrganizerName,
			"organizerEmail": c.Email.OrganizerEmail,
			"smtpHost":       c.Email.SMTPHost,
		},
		"messaging": map[string]any{
			"enabled":            c.Messaging.Enabled,
			"defaultCountryCode": c.Messaging.DefaultCountryCode,
			"channel":            c.Messaging.Channel,
			"fromNumber":         c.Messaging.FromNumber,
		},
		"calendarId": c.CalendarID,
		"event": map[string]any{
			"title":    c.Event.Title,
			"location": c.Event.Location,
			"start":    c.Event.Start,
			"end":      c.Event.End,
			"allDay":   c.Event.AllDay,
			"timezone": c.Event.Timezone,
		},
	}
}
