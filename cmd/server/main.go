package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"pocketcalendar/config"
	_ "pocketcalendar/docs"
	delivery "pocketcalendar/internal/delivery/http"
	"pocketcalendar/internal/delivery/http/controllers"
	"pocketcalendar/internal/delivery/http/middleware"
	"pocketcalendar/internal/locale"
	"pocketcalendar/internal/repository/postgres"
	"pocketcalendar/internal/sampledata"
	"pocketcalendar/internal/services"
	"pocketcalendar/internal/store"
)

const serviceTimeout = 5 * time.Second

// @title Pocket Calendar API
// @version 1.0
// @description Single-user calendar service: event CRUD, month grid views, live view streaming, and iCalendar export.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pingCtx, cancel := context.WithTimeout(ctx, serviceTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Error("migrate database", "err", err)
		os.Exit(1)
	}

	locales, err := locale.New()
	if err != nil {
		logger.Error("load locales", "err", err)
		os.Exit(1)
	}

	clock := services.RealClock{}
	st := store.New(postgres.NewEventRepository(db))
	eventService := services.NewEventService(st, serviceTimeout)
	calendarService := services.NewCalendarService(st, locales, clock, serviceTimeout)

	if cfg.SeedSample {
		if err := sampledata.Seed(ctx, st, clock, logger); err != nil {
			logger.Error("seed sample data", "err", err)
			os.Exit(1)
		}
	}

	eventController := controllers.NewEventController(logger, eventService)
	calendarController := controllers.NewCalendarController(logger, calendarService, eventService, st, clock, cfg.DefaultLang)

	mux := delivery.NewRouter(eventController, calendarController)
	handler := middleware.CORS(cfg.CORSOrigins, middleware.LoggingMiddleware(logger, mux))

	// No WriteTimeout: /calendar/watch holds a response stream open
	// indefinitely.
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}
}
