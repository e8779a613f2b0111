package scraper

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pfrederiksen/boatrace-odds/internal/logger"
)

const (
	BaseURL   = "https://www.boatrace.jp"
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	Timeout   = 15 * time.Second

	SchedulePath = "/owpc/pc/race/raceindex"
	OddsPath     = "/owpc/pc/race/oddstf"
)

// ErrUpstreamStatus is returned when the site answers with a non-200 status.
var ErrUpstreamStatus = errors.New("unexpected upstream status")

// Options configures a Scraper. Zero values fall back to the package defaults.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Scraper fetches raw upstream pages
type Scraper struct {
	client *resty.Client
}

// New creates a new Scraper instance
func New(opts Options) *Scraper {
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = Timeout
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Accept-Language", "ja,en;q=0.8")
	client.SetTimeout(opts.Timeout)

	return &Scraper{client: client}
}

// FetchSchedule fetches the race index page for a venue-day.
func (s *Scraper) FetchSchedule(ctx context.Context, venue, date string) (string, error) {
	return s.fetch(ctx, "schedule", SchedulePath, map[string]string{
		"jcd": venue,
		"hd":  date,
	})
}

// FetchOdds fetches the win/place odds page for one race.
func (s *Scraper) FetchOdds(ctx context.Context, venue string, race int, date string) (string, error) {
	return s.fetch(ctx, "odds", OddsPath, map[string]string{
		"jcd": venue,
		"rno": strconv.Itoa(race),
		"hd":  date,
	})
}

func (s *Scraper) fetch(ctx context.Context, kind, path string, params map[string]string) (string, error) {
	start := time.Now()
	res, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	logger.RecordTiming("upstream."+kind, time.Since(start))
	if err != nil {
		logger.IncrCounter("upstream." + kind + ".error")
		return "", fmt.Errorf("fetching %s page: %w", kind, err)
	}

	if res.StatusCode() != 200 {
		logger.IncrCounter("upstream." + kind + ".error")
		return "", fmt.Errorf("%w: %d from %s", ErrUpstreamStatus, res.StatusCode(), res.Request.URL)
	}

	logger.Debug("upstream page fetched", logger.Fields{
		"kind":     kind,
		"params":   params,
		"bytes":    len(res.Body()),
		"duration": res.Time().String(),
	})
	return res.String(), nil
}
