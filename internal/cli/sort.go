package cli

import (
	"fmt"
	"sort"

	"github.com/pfrederiksen/boatrace-odds/internal/board"
)

// SortOrder represents the available board orderings
type SortOrder string

const (
	SortByCutoff SortOrder = "cutoff"
	SortByVenue  SortOrder = "venue"
	SortByOdds   SortOrder = "odds"
)

func parseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(s); order {
	case SortByCutoff, SortByVenue, SortByOdds:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort: %s (must be 'cutoff', 'venue' or 'odds')", s)
	}
}

// sortVenues reorders board rows in place
func sortVenues(venues []board.VenueBoard, order SortOrder) {
	switch order {
	case SortByCutoff:
		board.SortByCutoff(venues)
	case SortByVenue:
		sort.SliceStable(venues, func(i, j int) bool {
			return venues[i].Venue.Code < venues[j].Venue.Code
		})
	case SortByOdds:
		// Highest boat 1 odds first; venues without odds go last
		sort.SliceStable(venues, func(i, j int) bool {
			oi, okI := boatOneLow(venues[i])
			oj, okJ := boatOneLow(venues[j])
			if okI != okJ {
				return okI
			}
			if oi != oj {
				return oi > oj
			}
			return venues[i].Venue.Code < venues[j].Venue.Code
		})
	}
}

func boatOneLow(vb board.VenueBoard) (float64, bool) {
	if !vb.Available || len(vb.Odds) == 0 {
		return 0, false
	}
	return vb.Odds[0].OddsLow, true
}
