package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/sheet-attendance/internal/handler/http/middleware"
	"github.com/cmlabs-hris/sheet-attendance/internal/handler/http/response"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/jwt"
)

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, attendanceHandler AttendanceHandler, reportHandler ReportHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1/attendance", func(r chi.Router) {
		// Authenticated by its own short-lived query token
		r.Get("/events", attendanceHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.With(chiMiddleware.AllowContentType("application/json")).Post("/", attendanceHandler.Submit)
			r.Get("/today", attendanceHandler.Today)
			r.Get("/history", reportHandler.History)
			r.Post("/refresh", attendanceHandler.Refresh)
			r.Post("/events/token", attendanceHandler.StreamToken)

			r.Route("/filters", func(r chi.Router) {
				r.With(chiMiddleware.AllowContentType("application/json")).Put("/", attendanceHandler.SetFilters)
				r.Delete("/", attendanceHandler.ClearFilters)
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/export", reportHandler.Export)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
