// Package service fetches upstream pages and runs them through the
// extraction core. Every outcome is normalized into a result value; content
// and upstream problems are logged and never returned as errors.
package service

import (
	"context"
	"time"

	"github.com/pfrederiksen/boatrace-odds/internal/extract"
	"github.com/pfrederiksen/boatrace-odds/internal/logger"
	"github.com/pfrederiksen/boatrace-odds/internal/race"
)

// Fetcher retrieves raw upstream pages
type Fetcher interface {
	FetchSchedule(ctx context.Context, venue, date string) (string, error)
	FetchOdds(ctx context.Context, venue string, race int, date string) (string, error)
}

// OddsData is the normalized odds payload for one race
type OddsData struct {
	Venue    string           `json:"venue"`
	Race     int              `json:"race"`
	Date     string           `json:"date"`
	HasRace  bool             `json:"hasRace"`
	Odds     []race.OddsEntry `json:"odds"`
	Reason   extract.Reason   `json:"reason,omitempty"`
	Tier     string           `json:"tier,omitempty"`
	Finished bool             `json:"finished,omitempty"`
}

// ScheduleData is the normalized schedule payload for one venue-day
type ScheduleData struct {
	Venue       string               `json:"venue"`
	Date        string               `json:"date"`
	HasSchedule bool                 `json:"hasSchedule"`
	Races       []race.ScheduleEntry `json:"races"`
	Reason      extract.Reason       `json:"reason,omitempty"`
}

// Service combines a Fetcher with an Extractor
type Service struct {
	fetcher   Fetcher
	extractor *extract.Extractor
	now       func() time.Time
}

// Option customizes a Service
type Option func(*Service)

// WithClock replaces the wall clock used for AsOf.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a service.
func New(fetcher Fetcher, extractor *extract.Extractor, opts ...Option) *Service {
	s := &Service{fetcher: fetcher, extractor: extractor, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AsOf computes the date context for one request or board cycle.
func (s *Service) AsOf() race.AsOf {
	return race.NewAsOf(s.now())
}

// Odds fetches and extracts the odds for one race. The venue and race are
// expected to be validated by the caller.
func (s *Service) Odds(ctx context.Context, venue string, raceIndex int, date time.Time) OddsData {
	data := OddsData{Venue: venue, Race: raceIndex, Date: race.FormatDate(date)}
	fields := logger.Fields{"venue": venue, "race": raceIndex, "date": data.Date}

	text, err := s.fetcher.FetchOdds(ctx, venue, raceIndex, data.Date)
	if err != nil {
		logger.Warn("odds page unavailable", withError(fields, err))
		logger.IncrCounter("odds.unavailable." + string(extract.ReasonUpstream))
		data.Reason = extract.ReasonUpstream
		return data
	}

	result := s.extractor.Odds(text)
	fields["yields"] = result.Report.Yields
	if !result.Available {
		if result.Err != nil {
			fields["error"] = result.Err.Error()
		}
		fields["reason"] = result.Reason
		logger.Info("odds not extracted", fields)
		logger.IncrCounter("odds.unavailable." + string(result.Reason))
		data.Reason = result.Reason
		return data
	}

	logger.Debug("odds extracted", withTier(fields, result.Report.Winner))
	logger.IncrCounter("extract.tier." + result.Report.Winner)
	data.HasRace = true
	data.Odds = result.Entries
	data.Tier = result.Report.Winner
	data.Finished = result.Finished
	return data
}

// Schedule fetches and extracts the race schedule for one venue-day.
func (s *Service) Schedule(ctx context.Context, venue string, date time.Time) ScheduleData {
	data := ScheduleData{Venue: venue, Date: race.FormatDate(date)}
	fields := logger.Fields{"venue": venue, "date": data.Date}

	text, err := s.fetcher.FetchSchedule(ctx, venue, data.Date)
	if err != nil {
		logger.Warn("schedule page unavailable", withError(fields, err))
		logger.IncrCounter("schedule.unavailable." + string(extract.ReasonUpstream))
		data.Reason = extract.ReasonUpstream
		return data
	}

	result := s.extractor.Schedule(text, date)
	if !result.Available {
		if result.Err != nil {
			fields["error"] = result.Err.Error()
		}
		fields["reason"] = result.Reason
		logger.Info("schedule not extracted", fields)
		logger.IncrCounter("schedule.unavailable." + string(result.Reason))
		data.Reason = result.Reason
		return data
	}

	fields["races"] = len(result.Entries)
	logger.Debug("schedule extracted", fields)
	data.HasSchedule = true
	data.Races = result.Entries
	return data
}

func withError(fields logger.Fields, err error) logger.Fields {
	fields["error"] = err.Error()
	return fields
}

func withTier(fields logger.Fields, tier string) logger.Fields {
	fields["tier"] = tier
	return fields
}
