package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pfrederiksen/boatrace-odds/internal/calendar"
	"github.com/pfrederiksen/boatrace-odds/internal/logger"
	"github.com/pfrederiksen/boatrace-odds/internal/notifier"
	"github.com/pfrederiksen/boatrace-odds/internal/race"
)

// requestDate reads ?date= (or the legacy ?hd=) and defaults to the racing
// day of asOf.
func requestDate(r *http.Request, asOf race.AsOf) (time.Time, error) {
	q := r.URL.Query()
	s := q.Get("date")
	if s == "" {
		s = q.Get("hd")
	}
	if s == "" {
		return asOf.Date, nil
	}
	return race.ParseDate(s)
}

func (s *server) handleOdds(w http.ResponseWriter, r *http.Request) {
	venue, err := race.LookupVenue(chi.URLParam(r, "venue"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid venue code", err)
		return
	}
	raceIndex, err := race.ParseRace(chi.URLParam(r, "race"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid race number", err)
		return
	}
	date, err := requestDate(r, s.Service.AsOf())
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYYMMDD", err)
		return
	}

	respondJSON(w, http.StatusOK, s.Service.Odds(r.Context(), venue.Code, raceIndex, date))
}

func (s *server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	venue, err := race.LookupVenue(chi.URLParam(r, "venue"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid venue code", err)
		return
	}
	date, err := requestDate(r, s.Service.AsOf())
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYYMMDD", err)
		return
	}

	respondJSON(w, http.StatusOK, s.Service.Schedule(r.Context(), venue.Code, date))
}

// handleCalendar serves the venue-day schedule as an iCalendar feed.
func (s *server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	venue, err := race.LookupVenue(chi.URLParam(r, "venue"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid venue code", err)
		return
	}
	date, err := requestDate(r, s.Service.AsOf())
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYYMMDD", err)
		return
	}

	data := s.Service.Schedule(r.Context(), venue.Code, date)
	if !data.HasSchedule {
		respondError(w, http.StatusNotFound, "no schedule available: "+string(data.Reason), nil)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s-%s.ics"`, venue.Code, data.Date))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, calendar.GenerateICS(venue, data.Date, data.Races, time.Now())) // nolint:errcheck
}

func (s *server) handleBoard(w http.ResponseWriter, r *http.Request) {
	if s.Board == nil {
		respondError(w, http.StatusServiceUnavailable, "board is not configured", nil)
		return
	}
	respondJSON(w, http.StatusOK, s.Board.Run(r.Context(), s.Service.AsOf()))
}

type alertRequest struct {
	Alerts []notifier.Notice `json:"alerts"`
}

type alertResponse struct {
	Sent       bool   `json:"sent"`
	AlertCount int    `json:"alertCount"`
	Message    string `json:"message"`
}

func (s *server) handleAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid alert payload", err)
		return
	}

	count := len(req.Alerts)
	switch {
	case count == 0:
		respondJSON(w, http.StatusOK, alertResponse{Message: "no alerts to send"})
		return
	case s.Notifier == nil:
		respondJSON(w, http.StatusOK, alertResponse{AlertCount: count, Message: "no alert channel configured"})
		return
	}

	err := s.Notifier.Notify(r.Context(), req.Alerts)
	switch {
	case errors.Is(err, notifier.ErrAlreadyNotified):
		respondJSON(w, http.StatusOK, alertResponse{AlertCount: count, Message: "already notified"})
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "failed to send alert", err)
		return
	}

	logger.IncrCounter("alerts.sent")
	respondJSON(w, http.StatusOK, alertResponse{Sent: true, AlertCount: count, Message: "alert sent"})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   s.Version,
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"metrics":   logger.MetricsSnapshot(),
	})
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "BOATRACE Odds Proxy API",
		"version": s.Version,
		"endpoints": map[string]string{
			"odds":     "/odds/{venue}/{race}?date=YYYYMMDD",
			"schedule": "/schedule/{venue}?date=YYYYMMDD",
			"calendar": "/calendar/{venue}?date=YYYYMMDD",
			"board":    "/board",
			"health":   "/health",
			"alert":    "POST /alert",
		},
		"legacy": map[string]string{
			"odds":      "/api/odds/{venue}/{race}?hd=YYYYMMDD",
			"schedule":  "/api/race-schedule/{venue}?hd=YYYYMMDD",
			"health":    "/api/health",
			"sendAlert": "POST /api/send-alert",
		},
		"example": "/odds/01/1?date=" + race.FormatDate(time.Now()),
	})
}
