package race

import (
	"fmt"
	"time"
)

// DateLayout is the upstream hd= query format.
const DateLayout = "20060102"

// Location is the venue timezone. All cutoffs are wall-clock JST.
var Location = loadLocation()

func loadLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// ParseDate parses a YYYYMMDD string into midnight of that day in Location.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate formats t as YYYYMMDD in Location.
func FormatDate(t time.Time) string {
	return t.In(Location).Format(DateLayout)
}

// CutoffAt combines the calendar day of date with an hour and minute.
// Only the year, month and day of date are used; the wall clock of the
// caller never leaks into the result.
func CutoffAt(date time.Time, hour, minute int) time.Time {
	d := date.In(Location)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, Location)
}

const (
	racingStartHour = 8
	lateNightHour   = 23
)

// AsOf is the date context of one request or board cycle.
type AsOf struct {
	Now          time.Time // wall clock the context was computed from, in Location
	Date         time.Time // racing day, midnight in Location
	LastRaceOnly bool      // show the final race result instead of the next race
}

// NewAsOf derives the racing day from the wall clock.
//
// Before 08:00 JST the previous day's card is still the one of interest and
// only its final race is shown; from 23:00 the current day is shown the same
// way. In between the current day is live.
func NewAsOf(now time.Time) AsOf {
	jst := now.In(Location)
	today := time.Date(jst.Year(), jst.Month(), jst.Day(), 0, 0, 0, 0, Location)

	switch hour := jst.Hour(); {
	case hour < racingStartHour:
		return AsOf{Now: jst, Date: today.AddDate(0, 0, -1), LastRaceOnly: true}
	case hour >= lateNightHour:
		return AsOf{Now: jst, Date: today, LastRaceOnly: true}
	default:
		return AsOf{Now: jst, Date: today, LastRaceOnly: false}
	}
}

// DateString returns the racing day as YYYYMMDD.
func (a AsOf) DateString() string {
	return FormatDate(a.Date)
}
