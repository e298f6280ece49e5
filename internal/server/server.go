// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

package server

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"github.com/quixsi/rsvp/internal/config"
	"github.com/quixsi/rsvp/internal/db"
	"github.com/quixsi/rsvp/internal/notify"
)

//go:embed all:static
var staticFS embed.FS

func NewServer(
	serviceName string,
	staticDir string,
	cfg *config.Config,
	rows db.RowStore,
	notifier *notify.Notifier,
) *Server {
	return &Server{
		logger:      slog.Default().WithGroup("http"),
		serviceName: serviceName,
		staticDir:   staticDir,
		cfg:         cfg,
		rows:        rows,
		notifier:    notifier,
	}
}

type Server struct {
	serviceName string
	staticDir   string
	logger      *slog.Logger
	cfg         *config.Config
	rows        db.RowStore
	notifier    *notify.Notifier
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := gin.New()
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	middlewares := []gin.HandlerFunc{
		sloggin.NewWithConfig(s.logger,
			sloggin.Config{
				DefaultLevel:     slog.LevelInfo,
				ClientErrorLevel: slog.LevelWarn,
				ServerErrorLevel: slog.LevelError,
			},
		),
		gin.Recovery(), otelgin.Middleware(s.serviceName), slogAddTraceAttributes,
		// The form may be hosted elsewhere and posts cross-origin.
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{http.MethodGet, http.MethodPost},
			AllowHeaders:    []string{"Content-Type"},
		}),
	}
	mux.Use(middlewares...)

	adminArea := mux.Group("/admin")
	adminArea.Use(gin.BasicAuth(gin.Accounts{
		s.cfg.AdminUser: s.cfg.AdminPassword,
	}))

	var staticDir fs.FS
	var err error
	switch {
	case s.staticDir != "":
		staticDir = os.DirFS(s.staticDir)
	default:
		staticDir, err = fs.Sub(staticFS, "static")
		if err != nil {
			panic(err)
		}
	}

	mux.StaticFS("/static", http.FS(staticDir))

	handler := NewSubmissionHandler(s.cfg, s.rows, s.notifier)
	mux.GET("/", handler.Liveness)
	mux.POST("/", handler.Submit)

	adminArea.GET("/", handler.RenderAdminOverview)

	mux.NoRoute(notFound)

	mux.ServeHTTP(w, r)
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"code": "PAGE_NOT_FOUND", "message": "Page not found"})
}

func slogAddTraceAttributes(c *gin.Context) {
	sloggin.AddCustomAttributes(c,
		slog.String("trace-id", trace.SpanFromContext(c.Request.Context()).SpanContext().TraceID().String()),
	)
	sloggin.AddCustomAttributes(c,
		slog.String("span-id", trace.SpanFromContext(c.Request.Context()).SpanContext().SpanID().String()),
	)
	c.Next()
}
