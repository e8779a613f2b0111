package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/boatrace-odds/internal/race"
)

var (
	raceIndexPattern = regexp.MustCompile(`^(\d+)R$`)
	cutoffPattern    = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
)

// parseSchedule reads (race index, cutoff) rows from a race index page.
// Malformed rows are skipped; a repeated race index keeps its first row.
func parseSchedule(p *Page, date time.Time) ([]race.ScheduleEntry, error) {
	doc, err := p.Document()
	if err != nil {
		return nil, err
	}

	var entries []race.ScheduleEntry
	seen := make(map[int]bool)
	doc.Find(`td[class*="is-fs14"]`).Each(func(_ int, cell *goquery.Selection) {
		m := raceIndexPattern.FindStringSubmatch(strings.TrimSpace(cell.Find("a").First().Text()))
		if m == nil {
			return
		}
		index, err := strconv.Atoi(m[1])
		if err != nil || index < 1 || seen[index] {
			return
		}

		t := cutoffPattern.FindStringSubmatch(strings.TrimSpace(cell.Next().Text()))
		if t == nil {
			return
		}
		hour, _ := strconv.Atoi(t[1])
		minute, _ := strconv.Atoi(t[2])
		if hour > 23 || minute > 59 {
			return
		}

		seen[index] = true
		entries = append(entries, race.ScheduleEntry{
			RaceIndex:     index,
			CutoffTime:    t[0],
			CutoffInstant: race.CutoffAt(date, hour, minute),
		})
	})
	return entries, nil
}
