package extract

// TierYield is how many plausible ranges one tier produced
type TierYield struct {
	Tier  string `json:"tier"`
	Yield int    `json:"yield"`
}

// CascadeReport records which tiers ran and which one, if any, won
type CascadeReport struct {
	Winner string      `json:"winner,omitempty"`
	Yields []TierYield `json:"yields"`
}

// Cascade runs odds strategies in priority order until one meets the
// required yield. Tiers after the winner are never invoked, and the partial
// yield of a losing tier is discarded rather than merged.
type Cascade struct {
	strategies []OddsStrategy
	required   int
}

// NewCascade creates a cascade that needs `required` ranges.
func NewCascade(required int, strategies ...OddsStrategy) *Cascade {
	return &Cascade{strategies: strategies, required: required}
}

// Run returns exactly `required` ranges from the first tier that found at
// least that many, or ok=false.
func (c *Cascade) Run(p *Page) (ranges []Range, report CascadeReport, ok bool) {
	for _, s := range c.strategies {
		found := s.Extract(p)
		report.Yields = append(report.Yields, TierYield{Tier: s.Name(), Yield: len(found)})

		if len(found) >= c.required {
			report.Winner = s.Name()
			out := make([]Range, c.required)
			copy(out, found[:c.required])
			return out, report, true
		}
	}
	return nil, report, false
}
