package extract

import (
	"fmt"
	"time"

	"github.com/pfrederiksen/boatrace-odds/internal/race"
)

// Config selects the odds tiers and the vote policy
type Config struct {
	Tiers      []string
	VotePolicy string
}

// Extractor turns upstream page text into odds and schedule results
type Extractor struct {
	cascade  *Cascade
	policy   VotePolicy
	odds     *Classifier
	schedule *Classifier
}

// New creates an extractor from configuration.
func New(cfg Config) (*Extractor, error) {
	strategies, err := StrategiesByName(cfg.Tiers)
	if err != nil {
		return nil, err
	}
	policy, err := VotePolicyByName(cfg.VotePolicy)
	if err != nil {
		return nil, err
	}
	return NewWith(policy, strategies...), nil
}

// NewWith creates an extractor from explicit strategies and policy.
func NewWith(policy VotePolicy, strategies ...OddsStrategy) *Extractor {
	return &Extractor{
		cascade:  NewCascade(race.BoatCount, strategies...),
		policy:   policy,
		odds:     NewClassifier(OddsMarkers),
		schedule: NewClassifier(ScheduleMarkers),
	}
}

// Default creates an extractor with every tier and paired votes.
func Default() *Extractor {
	return NewWith(PairedVotes{AmountUnit: DefaultAmountUnit},
		PrimaryStrategy{}, LegacyStrategy{}, FreeTextStrategy{})
}

// OddsResult is the outcome of odds extraction. Entries holds exactly
// race.BoatCount records when Available is true and is nil otherwise.
type OddsResult struct {
	Available bool
	Reason    Reason
	Entries   []race.OddsEntry
	Report    CascadeReport
	Finished  bool
	Err       error
}

// ScheduleResult is the outcome of schedule extraction
type ScheduleResult struct {
	Available bool
	Reason    Reason
	Entries   []race.ScheduleEntry
	Err       error
}

// Odds extracts the six win/place odds entries from an odds page.
func (e *Extractor) Odds(text string) (result OddsResult) {
	defer func() {
		if r := recover(); r != nil {
			result = OddsResult{Reason: ReasonParseFailure, Err: fmt.Errorf("odds extraction panic: %v", r)}
		}
	}()

	if a := e.odds.Classify(text); !a.Available {
		return OddsResult{Reason: a.Reason}
	}

	page := NewPage(text)
	ranges, report, ok := e.cascade.Run(page)
	if !ok {
		result := OddsResult{Reason: ReasonUnderYield, Report: report}
		if _, err := page.Document(); err != nil {
			result.Reason = ReasonParseFailure
			result.Err = err
		}
		return result
	}

	secondary := SecondaryNumbers(page, race.BoatCount*2)
	return OddsResult{
		Available: true,
		Entries:   Assemble(ranges, secondary, e.policy),
		Report:    report,
		Finished:  RacingFinished(text),
	}
}

// Schedule extracts the race schedule for the venue-day `date`. Cutoff
// instants are anchored on date, never on the current time.
func (e *Extractor) Schedule(text string, date time.Time) (result ScheduleResult) {
	defer func() {
		if r := recover(); r != nil {
			result = ScheduleResult{Reason: ReasonParseFailure, Err: fmt.Errorf("schedule extraction panic: %v", r)}
		}
	}()

	if a := e.schedule.Classify(text); !a.Available {
		return ScheduleResult{Reason: a.Reason}
	}

	entries, err := parseSchedule(NewPage(text), date)
	if err != nil {
		return ScheduleResult{Reason: ReasonParseFailure, Err: err}
	}
	if len(entries) == 0 {
		return ScheduleResult{Reason: ReasonNoData}
	}
	return ScheduleResult{Available: true, Entries: entries}
}

// PolicyName reports the configured vote policy.
func (e *Extractor) PolicyName() string { return e.policy.Name() }
