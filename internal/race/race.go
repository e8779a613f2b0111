package race

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	// BoatCount is the fixed number of slots (lanes) in every race.
	BoatCount = 6
	// FinalRace is the race index of the last race of a venue-day.
	FinalRace = 12
	// NoCutoff is shown when the final race is selected but absent from the schedule.
	NoCutoff = "--:--"
)

var (
	ErrInvalidVenue = errors.New("invalid venue code")
	ErrInvalidRace  = errors.New("invalid race number")
	ErrInvalidDate  = errors.New("invalid date")
)

// OddsEntry is the win/place odds band and vote totals for one boat
type OddsEntry struct {
	Position   int     `json:"position"`
	OddsLow    float64 `json:"oddsLow"`
	OddsHigh   float64 `json:"oddsHigh"`
	VoteCount  int64   `json:"voteCount"`
	VoteAmount int64   `json:"voteAmount"`
}

// ScheduleEntry is the betting cutoff of one race
type ScheduleEntry struct {
	RaceIndex     int       `json:"raceIndex"`
	CutoffTime    string    `json:"cutoffTime"`
	CutoffInstant time.Time `json:"cutoffInstant"`
}

// Venue is one of the fixed racing locations
type Venue struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Venues lists all 24 venues in official code order.
var Venues = []Venue{
	{"01", "桐生"},
	{"02", "戸田"},
	{"03", "江戸川"},
	{"04", "平和島"},
	{"05", "多摩川"},
	{"06", "浜名湖"},
	{"07", "蒲郡"},
	{"08", "常滑"},
	{"09", "津"},
	{"10", "三国"},
	{"11", "びわこ"},
	{"12", "住之江"},
	{"13", "尼崎"},
	{"14", "鳴門"},
	{"15", "丸亀"},
	{"16", "児島"},
	{"17", "宮島"},
	{"18", "徳山"},
	{"19", "下関"},
	{"20", "若松"},
	{"21", "芦屋"},
	{"22", "福岡"},
	{"23", "唐津"},
	{"24", "大村"},
}

var venueCodePattern = regexp.MustCompile(`^\d{2}$`)

// LookupVenue returns the venue for a two-digit code.
func LookupVenue(code string) (Venue, error) {
	if !venueCodePattern.MatchString(code) {
		return Venue{}, fmt.Errorf("%w: %q", ErrInvalidVenue, code)
	}
	for _, v := range Venues {
		if v.Code == code {
			return v, nil
		}
	}
	return Venue{}, fmt.Errorf("%w: %q is not a known venue", ErrInvalidVenue, code)
}

// ParseRace parses a race number in the range 1..FinalRace.
func ParseRace(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > FinalRace {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRace, s)
	}
	return n, nil
}
