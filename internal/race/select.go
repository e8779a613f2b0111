package race

import (
	"sort"
	"time"
)

// Selection is the race whose odds should be shown for a venue
type Selection struct {
	RaceIndex     int       `json:"raceIndex"`
	CutoffTime    string    `json:"cutoffTime"`
	CutoffInstant time.Time `json:"cutoffInstant"`
}

// SelectRace picks the race to show from a venue schedule.
//
// With lastRaceOnly the final race is always chosen, even when its cutoff has
// passed. Otherwise the upcoming race closing soonest is chosen, falling back
// to the final race when every cutoff is in the past. now must be the live
// wall clock of the current request.
func SelectRace(schedule []ScheduleEntry, lastRaceOnly bool, now time.Time) Selection {
	if lastRaceOnly {
		return finalRace(schedule)
	}

	upcoming := make([]ScheduleEntry, 0, len(schedule))
	for _, e := range schedule {
		if e.CutoffInstant.After(now) {
			upcoming = append(upcoming, e)
		}
	}
	if len(upcoming) == 0 {
		return finalRace(schedule)
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].CutoffInstant.Before(upcoming[j].CutoffInstant)
	})
	best := upcoming[0]
	return Selection{
		RaceIndex:     best.RaceIndex,
		CutoffTime:    best.CutoffTime,
		CutoffInstant: best.CutoffInstant,
	}
}

func finalRace(schedule []ScheduleEntry) Selection {
	for _, e := range schedule {
		if e.RaceIndex == FinalRace {
			return Selection{
				RaceIndex:     FinalRace,
				CutoffTime:    e.CutoffTime,
				CutoffInstant: e.CutoffInstant,
			}
		}
	}
	return Selection{RaceIndex: FinalRace, CutoffTime: NoCutoff}
}
