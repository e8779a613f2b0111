package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxOdds is the largest odds value the site ever displays.
const MaxOdds = 999.9

// Range is a (low, high) payout band for one boat
type Range struct {
	Low  float64
	High float64
}

func plausible(r Range) bool {
	return r.Low >= 0 && r.High >= r.Low && r.High <= MaxOdds
}

// OddsStrategy is one tier of the odds extraction cascade
type OddsStrategy interface {
	// Name identifies the tier in logs, metrics and configuration
	Name() string
	// Extract returns every plausible range the tier finds, in page order
	Extract(p *Page) []Range
}

const (
	TierPrimary  = "primary"
	TierLegacy   = "legacy"
	TierFreeText = "freetext"
)

// DefaultTiers is the cascade order used when none is configured.
var DefaultTiers = []string{TierPrimary, TierLegacy, TierFreeText}

// cellRangePattern matches the whole text of an odds cell, "1.0-1.5".
var cellRangePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)$`)

// freeTextRangePattern matches "1.0 - 1.5" anywhere.
var freeTextRangePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)`)

func parseRange(low, high string) (Range, bool) {
	l, err := strconv.ParseFloat(low, 64)
	if err != nil {
		return Range{}, false
	}
	h, err := strconv.ParseFloat(high, 64)
	if err != nil {
		return Range{}, false
	}
	r := Range{Low: l, High: h}
	return r, plausible(r)
}

func rangeFromCell(sel *goquery.Selection) (Range, bool) {
	matches := cellRangePattern.FindStringSubmatch(strings.TrimSpace(sel.Text()))
	if matches == nil {
		return Range{}, false
	}
	return parseRange(matches[1], matches[2])
}

// PrimaryStrategy reads cells annotated with the oddsPoint class.
type PrimaryStrategy struct{}

func (PrimaryStrategy) Name() string { return TierPrimary }

func (PrimaryStrategy) Extract(p *Page) []Range {
	doc, err := p.Document()
	if err != nil {
		return nil
	}

	var ranges []Range
	doc.Find(`td[class*="oddsPoint"]`).Each(func(_ int, cell *goquery.Selection) {
		// 0.0-0.0 marks a scratched boat and still occupies its slot
		if r, ok := rangeFromCell(cell); ok {
			ranges = append(ranges, r)
		}
	})
	return ranges
}

// LegacyStrategy reads plain cells whose numbers are split by line breaks,
// the layout used before the oddsPoint class was introduced.
type LegacyStrategy struct{}

func (LegacyStrategy) Name() string { return TierLegacy }

func (LegacyStrategy) Extract(p *Page) []Range {
	doc, err := p.Document()
	if err != nil {
		return nil
	}

	var ranges []Range
	doc.Find("td").Each(func(_ int, cell *goquery.Selection) {
		if cell.ChildrenFiltered("br").Length() == 0 {
			return
		}
		if r, ok := rangeFromCell(cell); ok {
			ranges = append(ranges, r)
		}
	})
	return ranges
}

// FreeTextStrategy scans the raw page for any "number - number" token. It has
// the highest recall and the lowest precision of all tiers.
type FreeTextStrategy struct{}

func (FreeTextStrategy) Name() string { return TierFreeText }

func (FreeTextStrategy) Extract(p *Page) []Range {
	var ranges []Range
	for _, m := range freeTextRangePattern.FindAllStringSubmatch(p.Text, -1) {
		if r, ok := parseRange(m[1], m[2]); ok {
			ranges = append(ranges, r)
		}
	}
	return ranges
}

// StrategiesByName resolves configured tier names in order.
func StrategiesByName(names []string) ([]OddsStrategy, error) {
	if len(names) == 0 {
		names = DefaultTiers
	}

	strategies := make([]OddsStrategy, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if seen[name] {
			return nil, fmt.Errorf("tier %q listed twice", name)
		}
		seen[name] = true

		switch name {
		case TierPrimary:
			strategies = append(strategies, PrimaryStrategy{})
		case TierLegacy:
			strategies = append(strategies, LegacyStrategy{})
		case TierFreeText:
			strategies = append(strategies, FreeTextStrategy{})
		default:
			return nil, fmt.Errorf("unknown extraction tier %q", name)
		}
	}
	return strategies, nil
}
