package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pfrederiksen/boatrace-odds/internal/board"
	"github.com/pfrederiksen/boatrace-odds/internal/calendar"
	"github.com/pfrederiksen/boatrace-odds/internal/race"
	"github.com/pfrederiksen/boatrace-odds/internal/service"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// writeJSON outputs a payload as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func writeOdds(w io.Writer, venue race.Venue, data service.OddsData, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, data)
	}

	fmt.Fprintf(w, "%s (%s) %dR  %s\n", venue.Name, venue.Code, data.Race, data.Date)
	if !data.HasRace {
		fmt.Fprintf(w, "No odds available: %s\n", data.Reason)
		return nil
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Boat", "Place odds", "Votes", "Amount (yen)"})
	for _, e := range data.Odds {
		t.AppendRow(table.Row{e.Position, oddsRange(e), voteText(e.VoteCount), voteText(e.VoteAmount)})
	}
	t.Render()

	if data.Finished {
		fmt.Fprintln(w, "Racing has finished for the day.")
	}
	return nil
}

func writeSchedule(w io.Writer, venue race.Venue, data service.ScheduleData, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, data)
	case FormatICS:
		if !data.HasSchedule {
			return fmt.Errorf("no schedule available: %s", data.Reason)
		}
		_, err := io.WriteString(w, calendar.GenerateICS(venue, data.Date, data.Races, time.Now()))
		return err
	}

	fmt.Fprintf(w, "%s (%s)  %s\n", venue.Name, venue.Code, data.Date)
	if !data.HasSchedule {
		fmt.Fprintf(w, "No schedule available: %s\n", data.Reason)
		return nil
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Race", "Cutoff"})
	for _, e := range data.Races {
		t.AppendRow(table.Row{fmt.Sprintf("%dR", e.RaceIndex), e.CutoffTime})
	}
	t.Render()
	return nil
}

func writeBoard(w io.Writer, result board.Result, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}

	fmt.Fprintf(w, "Board for %s", result.Date)
	if result.LastRaceOnly {
		fmt.Fprint(w, " (final races only)")
	}
	fmt.Fprintln(w)

	t := newTable(w)
	t.AppendHeader(table.Row{"Venue", "Race", "Cutoff", "Boat 1", "Status"})
	for _, vb := range result.Venues {
		raceText, cutoff := "-", "-"
		if vb.Selection != nil {
			raceText = fmt.Sprintf("%dR", vb.Selection.RaceIndex)
			cutoff = vb.Selection.CutoffTime
		}
		boatOne, status := "-", "ok"
		if len(vb.Odds) > 0 {
			boatOne = oddsRange(vb.Odds[0])
		}
		if !vb.Available {
			status = string(vb.Reason)
		}
		t.AppendRow(table.Row{fmt.Sprintf("%s %s", vb.Venue.Code, vb.Venue.Name), raceText, cutoff, boatOne, status})
	}
	t.AppendFooter(table.Row{"", "", "", "Available", fmt.Sprintf("%d/%d", result.AvailableCount(), len(result.Venues))})
	t.Render()

	if len(result.Notices) > 0 {
		fmt.Fprintf(w, "\n%d high-odds notice(s):\n", len(result.Notices))
		for _, n := range result.Notices {
			fmt.Fprintf(w, "  %s %dR  boat 1 %s  cutoff %s\n", n.VenueName, n.Race, n.Odds, n.CutoffTime)
		}
	}
	return nil
}

func oddsRange(e race.OddsEntry) string {
	return fmt.Sprintf("%.1f-%.1f", e.OddsLow, e.OddsHigh)
}

func voteText(n int64) string {
	if n == 0 {
		return "-"
	}
	return strconv.FormatInt(n, 10)
}
