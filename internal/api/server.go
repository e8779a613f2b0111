package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pfrederiksen/boatrace-odds/internal/board"
	"github.com/pfrederiksen/boatrace-odds/internal/logger"
	"github.com/pfrederiksen/boatrace-odds/internal/notifier"
	"github.com/pfrederiksen/boatrace-odds/internal/race"
	"github.com/pfrederiksen/boatrace-odds/internal/service"
)

// DataService provides normalized odds and schedule data
type DataService interface {
	AsOf() race.AsOf
	Odds(ctx context.Context, venue string, raceIndex int, date time.Time) service.OddsData
	Schedule(ctx context.Context, venue string, date time.Time) service.ScheduleData
}

// BoardRunner runs one all-venue board cycle
type BoardRunner interface {
	Run(ctx context.Context, asOf race.AsOf) board.Result
}

// Deps are the collaborators of the HTTP handlers
type Deps struct {
	Service     DataService
	Board       BoardRunner
	Notifier    notifier.Notifier // nil disables POST /alert delivery
	CORSOrigins []string
	Version     string
}

type server struct {
	Deps
	started time.Time
}

// NewRouter builds the HTTP handler with all routes and middleware.
func NewRouter(deps Deps) http.Handler {
	if len(deps.CORSOrigins) == 0 {
		deps.CORSOrigins = []string{"*"}
	}
	s := &server{Deps: deps, started: time.Now()}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Get("/odds/{venue}/{race}", s.handleOdds)
	r.Get("/schedule/{venue}", s.handleSchedule)
	r.Get("/calendar/{venue}", s.handleCalendar)
	r.Get("/board", s.handleBoard)
	r.Post("/alert", s.handleAlert)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/odds/{venue}/{race}", s.handleOdds)
		r.Get("/race-schedule/{venue}", s.handleSchedule)
		r.Get("/board", s.handleBoard)
		r.Post("/send-alert", s.handleAlert)
	})

	return r
}

// ListenAndServe runs the API until ctx is canceled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	errorLog := logger.Default().Writer()
	defer errorLog.Close() // nolint:errcheck

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     log.New(errorLog, "", 0),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("proxy API listening", logger.Fields{"addr": addr})
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down proxy API", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	}
}
