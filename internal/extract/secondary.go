package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxVoteNumber bounds the numbers accepted as vote counts or amounts.
const MaxVoteNumber = 10_000_000

var (
	voteCellPattern  = regexp.MustCompile(`^[\d,]+$`)
	broadVotePattern = regexp.MustCompile(`>([\d,]{2,})<`)
)

// parseVoteNumber parses a comma-formatted integer and applies the
// plausibility window 0 < n < MaxVoteNumber.
func parseVoteNumber(s string) (int64, bool) {
	digits := strings.ReplaceAll(s, ",", "")
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n <= 0 || n >= MaxVoteNumber {
		return 0, false
	}
	return n, true
}

// collectVoteCells returns numbers held by table cells that contain nothing
// but a comma-formatted integer, in document order.
func collectVoteCells(p *Page) []int64 {
	doc, err := p.Document()
	if err != nil {
		return nil
	}

	var numbers []int64
	doc.Find("td").Each(func(_ int, cell *goquery.Selection) {
		if cell.Find("td").Length() > 0 {
			return
		}
		text := strings.TrimSpace(cell.Text())
		if !voteCellPattern.MatchString(text) {
			return
		}
		if n, ok := parseVoteNumber(text); ok {
			numbers = append(numbers, n)
		}
	})
	return numbers
}

// collectVoteText returns every bare integer run between two tags in the raw
// page text.
func collectVoteText(p *Page) []int64 {
	var numbers []int64
	for _, m := range broadVotePattern.FindAllStringSubmatch(p.Text, -1) {
		if n, ok := parseVoteNumber(m[1]); ok {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

// SecondaryNumbers gathers the vote number stream for a page. The broad
// collector only runs when table cells yield fewer than `want` numbers, and
// its result replaces the cell result.
func SecondaryNumbers(p *Page, want int) []int64 {
	numbers := collectVoteCells(p)
	if len(numbers) >= want {
		return numbers
	}
	return collectVoteText(p)
}
