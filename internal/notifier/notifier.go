package notifier

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pfrederiksen/boatrace-odds/internal/race"
)

// Notice is a high-odds alert for boat 1 of one race
type Notice struct {
	VenueName  string  `json:"venue"`
	Venue      string  `json:"jcd"`
	Race       int     `json:"race"`
	Odds       string  `json:"odds"`
	OddsLow    float64 `json:"oddsLow"`
	Date       string  `json:"date,omitempty"`
	CutoffTime string  `json:"cutoffTime,omitempty"`
}

// NewNotice builds a notice from a boat's odds entry.
func NewNotice(venue race.Venue, raceIndex int, date, cutoff string, entry race.OddsEntry) Notice {
	return Notice{
		VenueName:  venue.Name,
		Venue:      venue.Code,
		Race:       raceIndex,
		Odds:       formatOdds(entry.OddsLow) + "-" + formatOdds(entry.OddsHigh),
		OddsLow:    entry.OddsLow,
		Date:       date,
		CutoffTime: cutoff,
	}
}

// Key identifies the race a notice is about, for deduplication.
func (n Notice) Key() string {
	return fmt.Sprintf("alert:dedup:%s:%s:%d", n.Date, n.Venue, n.Race)
}

func formatOdds(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Notifier delivers notices to one channel
type Notifier interface {
	// Notify sends the given notices. An empty slice is a no-op.
	Notify(ctx context.Context, notices []Notice) error
}
