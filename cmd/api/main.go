package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"

	"github.com/cmlabs-hris/sheet-attendance/internal/config"
	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/sheet-attendance/internal/handler/http"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/clock"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/cron"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/geocode"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/gviz"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/sse"
	"github.com/cmlabs-hris/sheet-attendance/internal/repository/postgresql"
	"github.com/cmlabs-hris/sheet-attendance/internal/repository/sheets"
	attendanceService "github.com/cmlabs-hris/sheet-attendance/internal/service/attendance"
	reportService "github.com/cmlabs-hris/sheet-attendance/internal/service/report"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "sheet-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	var submissionLog attendance.SubmissionLog
	if cfg.Audit.Enabled {
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return fmt.Errorf("connect audit database: %w", err)
		}
		defer db.Close()

		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			return err
		}
		submissionLog = postgresql.NewSubmissionRepository(db)
		slog.Info("Submission audit log enabled")
	}

	queryClient := gviz.NewClient(cfg.Sheet.QueryBaseURL, cfg.Sheet.SpreadsheetID, cfg.Sheet.UserAgent, cfg.Sheet.HTTPTimeout)
	sheetRepo := sheets.NewAttendanceRepository(queryClient, cfg.Sheet.Name, cfg.Sheet.ScriptURL, cfg.Sheet.UserAgent, cfg.Sheet.HTTPTimeout)
	geocoder := geocode.NewNominatim(cfg.Sheet.GeocoderURL, cfg.Sheet.UserAgent, cfg.Sheet.HTTPTimeout)
	hub := sse.NewHub(16)
	clk := clock.Real{Location: loc}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	attendanceSvc := attendanceService.NewAttendanceService(sheetRepo, submissionLog, geocoder, hub, clk, loc, cfg.Sheet.RetryDelay)
	reportSvc := reportService.NewReportService(attendanceSvc, clk)

	scheduler := cron.NewScheduler(ctx)
	cron.NewAttendanceJobs(attendanceSvc, cfg.Sheet.RefreshInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			LogLevel:       cfg.SlogLevel(),
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		JWTService,
		appHTTP.NewAttendanceHandler(attendanceSvc, JWTService),
		appHTTP.NewReportHandler(reportSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Cancelled on shutdown so open event streams return.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "sheet", cfg.Sheet.Name)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
