// Package board aggregates the next race of every venue into one view.
//
// A board cycle fans out over all venues concurrently. Each venue runs its
// own schedule, selection and odds pipeline, and any failure in one venue is
// reported as that venue being unavailable without affecting the others.
package board

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pfrederiksen/boatrace-odds/internal/extract"
	"github.com/pfrederiksen/boatrace-odds/internal/logger"
	"github.com/pfrederiksen/boatrace-odds/internal/notifier"
	"github.com/pfrederiksen/boatrace-odds/internal/race"
	"github.com/pfrederiksen/boatrace-odds/internal/service"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency    = 8
	DefaultAlertThreshold = 5.0
)

// ReasonVenueFailure marks a venue whose pipeline panicked.
const ReasonVenueFailure extract.Reason = "venue_failure"

// Source provides schedule and odds data for one venue
type Source interface {
	Schedule(ctx context.Context, venue string, date time.Time) service.ScheduleData
	Odds(ctx context.Context, venue string, raceIndex int, date time.Time) service.OddsData
}

// Config tunes a board cycle
type Config struct {
	Concurrency    int
	AlertThreshold float64
}

// VenueBoard is the outcome for one venue
type VenueBoard struct {
	Venue     race.Venue       `json:"venue"`
	Available bool             `json:"available"`
	Reason    extract.Reason   `json:"reason,omitempty"`
	Selection *race.Selection  `json:"selection,omitempty"`
	Odds      []race.OddsEntry `json:"odds"`
	Tier      string           `json:"tier,omitempty"`
}

// Result is one complete board cycle
type Result struct {
	Date         string            `json:"date"`
	LastRaceOnly bool              `json:"lastRaceOnly"`
	GeneratedAt  time.Time         `json:"generatedAt"`
	Venues       []VenueBoard      `json:"venues"`
	Notices      []notifier.Notice `json:"notices"`
}

// AvailableCount returns how many venues produced odds.
func (r Result) AvailableCount() int {
	n := 0
	for _, v := range r.Venues {
		if v.Available {
			n++
		}
	}
	return n
}

// Board runs board cycles over a fixed venue list
type Board struct {
	source    Source
	venues    []race.Venue
	limit     int
	threshold float64
}

// New creates a board over all venues.
func New(source Source, cfg Config) *Board {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.AlertThreshold <= 0 {
		cfg.AlertThreshold = DefaultAlertThreshold
	}
	return &Board{
		source:    source,
		venues:    race.Venues,
		limit:     cfg.Concurrency,
		threshold: cfg.AlertThreshold,
	}
}

// Run executes one cycle for the racing day in asOf. It never fails: every
// venue appears in the result, available or not.
func (b *Board) Run(ctx context.Context, asOf race.AsOf) Result {
	start := time.Now()
	boards := make([]VenueBoard, len(b.venues))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(b.limit)
	for i, v := range b.venues {
		i, v := i, v
		g.Go(func() error {
			boards[i] = b.runVenue(gCtx, v, asOf)
			return nil
		})
	}
	_ = g.Wait()

	SortByCutoff(boards)
	result := Result{
		Date:         asOf.DateString(),
		LastRaceOnly: asOf.LastRaceOnly,
		GeneratedAt:  asOf.Now,
		Venues:       boards,
		Notices:      b.notices(boards, asOf),
	}

	logger.RecordTiming("board.cycle", time.Since(start))
	logger.SetGauge("board.available", float64(result.AvailableCount()))
	logger.Info("board cycle complete", logger.Fields{
		"date":      result.Date,
		"available": result.AvailableCount(),
		"venues":    len(boards),
		"notices":   len(result.Notices),
	})
	return result
}

// runVenue converts any failure of one venue pipeline, including a panic,
// into an unavailable entry for that venue.
func (b *Board) runVenue(ctx context.Context, v race.Venue, asOf race.AsOf) (vb VenueBoard) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("venue pipeline failed", logger.Fields{"venue": v.Code}, fmt.Errorf("panic: %v", r))
			logger.IncrCounter("board.venue_failure")
			vb = VenueBoard{Venue: v, Reason: ReasonVenueFailure}
		}
	}()

	vb = VenueBoard{Venue: v}
	schedule := b.source.Schedule(ctx, v.Code, asOf.Date)
	if !schedule.HasSchedule {
		vb.Reason = schedule.Reason
		return vb
	}

	selection := race.SelectRace(schedule.Races, asOf.LastRaceOnly, asOf.Now)
	vb.Selection = &selection

	odds := b.source.Odds(ctx, v.Code, selection.RaceIndex, asOf.Date)
	if !odds.HasRace {
		vb.Reason = odds.Reason
		return vb
	}

	vb.Available = true
	vb.Odds = odds.Odds
	vb.Tier = odds.Tier
	return vb
}

// notices raises one notice per venue whose boat 1 low odds exceed the
// threshold.
func (b *Board) notices(boards []VenueBoard, asOf race.AsOf) []notifier.Notice {
	notices := make([]notifier.Notice, 0)
	for _, vb := range boards {
		if !vb.Available || len(vb.Odds) == 0 || vb.Selection == nil {
			continue
		}
		boat1 := vb.Odds[0]
		if boat1.Position != 1 || boat1.OddsLow <= b.threshold {
			continue
		}
		notices = append(notices, notifier.NewNotice(vb.Venue, vb.Selection.RaceIndex, asOf.DateString(), vb.Selection.CutoffTime, boat1))
	}
	return notices
}

// SortByCutoff orders venues by nearest cutoff. Venues without odds and
// selections without a known cutoff go last; ties keep venue code order.
func SortByCutoff(boards []VenueBoard) {
	rank := func(vb VenueBoard) int {
		switch {
		case !vb.Available:
			return 2
		case vb.Selection == nil || vb.Selection.CutoffInstant.IsZero():
			return 1
		default:
			return 0
		}
	}

	sort.SliceStable(boards, func(i, j int) bool {
		ri, rj := rank(boards[i]), rank(boards[j])
		if ri != rj {
			return ri < rj
		}
		if ri == 0 && !boards[i].Selection.CutoffInstant.Equal(boards[j].Selection.CutoffInstant) {
			return boards[i].Selection.CutoffInstant.Before(boards[j].Selection.CutoffInstant)
		}
		return boards[i].Venue.Code < boards[j].Venue.Code
	})
}
