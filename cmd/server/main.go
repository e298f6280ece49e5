// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"net/http"
	"net/url"

	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/quixsi/rsvp/internal/config"
	"github.com/quixsi/rsvp/internal/db"
	"github.com/quixsi/rsvp/internal/db/gsheets"
	"github.com/quixsi/rsvp/internal/db/kvdb"
	"github.com/quixsi/rsvp/internal/db/xlsxdb"
	"github.com/quixsi/rsvp/internal/notify"
	"github.com/quixsi/rsvp/internal/server"
)

func main() {
	var (
		serviceName = flag.String("service-name", "rsvp-handler", "otel service name")
		addr        = flag.String("addr", "0.0.0.0:8080", "default server address")
		dbStr       = flag.String("db", "xlsxdb://testdata/rsvps.xlsx", "row store connection string (xlsxdb://, kvdb:// or gsheets://)")
		otlpAddr    = flag.String("otlp-grpc", "", "default otlp/gRPC address, by default disabled. Example value: localhost:4317")
		logLevelArg = flag.String("log-level", "INFO", "log level")
		staticDir   = flag.String("static-dir", "", "path to static directory")
	)
	flag.Parse()
	var logLevel slog.Level
	err := logLevel.UnmarshalText([]byte(*logLevelArg))
	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(jsonHandler)
	if err != nil {
		logger.Error("unable to parse log level", "level-input", *logLevelArg, "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger)
	logger.Info("start and listen", "address", *addr)
	logger.Info("otlp/gRPC", "address", *otlpAddr, "service", *serviceName)

	if *otlpAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		grpcOptions := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithBlock()}
		conn, err := grpc.DialContext(ctx, *otlpAddr, grpcOptions...)
		if err != nil {
			logger.Error("failed to create gRPC connection to collector", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		otelExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			logger.Error("failed to create trace exporter", "error", err)
			os.Exit(1)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(otelExporter))
		otel.SetTracerProvider(tp)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("unable to load configuration", "error", err)
		os.Exit(1)
	}

	var rowStore db.RowStore

	u, err := url.Parse(*dbStr)
	if err != nil {
		logger.Error("unable to parse db connection string", "error", err)
		os.Exit(1)
	}

	switch u.Scheme {
	case "xlsxdb":
		path := u.Host + u.Path
		rowStore, err = xlsxdb.NewRowStore(path)
		if err != nil {
			logger.Error("could not initialize workbook row store", "error", err)
			os.Exit(1)
		}
	case "kvdb":
		path := u.Host + u.Path
		db, err := bolt.Open(path, 0600, nil)
		if err != nil {
			logger.Error("could not open key-value store", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		rowStore, err = kvdb.NewRowStore(db)
		if err != nil {
			logger.Error("could not initialize row bucket", "error", err)
			os.Exit(1)
		}
	case "gsheets":
		rowStore, err = gsheets.NewRowStore(context.Background(), cfg.GoogleCredentials, cfg.SpreadsheetID, cfg.SpreadsheetRange)
		if err != nil {
			logger.Error("could not initialize spreadsheet row store", "error", err)
			os.Exit(1)
		}
	default:
		logger.Error("Unknown storage backend", "type", u.Scheme)
		os.Exit(1)
	}

	var inviter notify.CalendarInviter
	if cfg.CalendarID != "" {
		inviter, err = notify.NewGoogleCalendarInviter(context.Background(), cfg.GoogleCredentials, cfg.CalendarID)
		if err != nil {
			logger.Error("could not initialize shared calendar", "error", err)
			os.Exit(1)
		}
	}

	notifier := notify.NewNotifier(
		cfg,
		notify.NewSMTPTransport(cfg.Email),
		notify.NewTwilioTransport(cfg.Messaging.AccountSID, cfg.Messaging.AuthToken),
		inviter,
	)

	srv := &http.Server{
		Addr: *addr,
		Handler: server.NewServer(
			*serviceName,
			*staticDir,
			cfg,
			rowStore,
			notifier,
		),
	}

	if err := srv.ListenAndServe(); err != nil {
		logger.Error("error during listen and serve", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown")
}
