package extract

import "strings"

// Reason explains why a page produced no data
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonNotHeld      Reason = "not_held"
	ReasonVoid         Reason = "race_void"
	ReasonNoData       Reason = "no_data"
	ReasonUnderYield   Reason = "under_yield"
	ReasonParseFailure Reason = "parse_failure"
	ReasonUpstream     Reason = "upstream_unavailable"
)

// Marker is a substring whose presence means the page carries no race data
type Marker struct {
	Text   string
	Reason Reason
}

var (
	markerNoRacingToday = Marker{"本日の開催はございません", ReasonNotHeld}
	markerRaceVoid      = Marker{"レース不成立", ReasonVoid}
	markerNoData        = Marker{"データがありません", ReasonNoData}
	markerNotHeld       = Marker{"開催なし", ReasonNotHeld}
)

// OddsMarkers are checked on odds pages.
var OddsMarkers = []Marker{markerNoRacingToday, markerRaceVoid, markerNoData}

// ScheduleMarkers are checked on race index pages, which also show
// "not held" for dark venues.
var ScheduleMarkers = []Marker{markerNoRacingToday, markerNoData, markerNotHeld, markerRaceVoid}

// FinishedMarker is shown once the day's racing is over. It does not make a
// page unavailable: final odds are still on the page.
const FinishedMarker = "本日のレースは終了しました"

// Availability is the classifier verdict for one page
type Availability struct {
	Available bool
	Reason    Reason
	Marker    string
}

// Classifier detects pages that carry no race data
type Classifier struct {
	markers []Marker
}

// NewClassifier creates a classifier for the given markers.
func NewClassifier(markers []Marker) *Classifier {
	return &Classifier{markers: markers}
}

// Classify reports the page unavailable when any marker is present.
// Absence of every marker is trusted as available.
func (c *Classifier) Classify(text string) Availability {
	for _, m := range c.markers {
		if strings.Contains(text, m.Text) {
			return Availability{Available: false, Reason: m.Reason, Marker: m.Text}
		}
	}
	return Availability{Available: true}
}

// RacingFinished reports whether the page says the day's racing is over.
func RacingFinished(text string) bool {
	return strings.Contains(text, FinishedMarker)
}
