package extract

import (
	"fmt"

	"github.com/pfrederiksen/boatrace-odds/internal/race"
)

// Votes is the vote attribution for one slot
type Votes struct {
	Count  int64
	Amount int64
}

// VotePolicy maps the secondary number stream onto slots. The upstream page
// gives no reliable link between a number and a boat, so every policy is a
// heuristic.
type VotePolicy interface {
	Name() string
	// Assign returns exactly `slots` vote records
	Assign(numbers []int64, slots int) []Votes
}

const (
	PolicyPaired = "paired"
	PolicyNone   = "none"
)

// PairedVotes consumes two numbers per slot in page order: a vote count and
// a vote amount in AmountUnit yen. The pair is swapped when the count is the
// larger of the two. With fewer than two numbers per slot no slot gets votes.
//
// Low confidence: the pairing is positional and unverified against the site.
type PairedVotes struct {
	AmountUnit int64
}

// DefaultAmountUnit converts the hundred-yen unit shown upstream to yen.
const DefaultAmountUnit = 100

func (PairedVotes) Name() string { return PolicyPaired }

func (v PairedVotes) Assign(numbers []int64, slots int) []Votes {
	votes := make([]Votes, slots)
	if len(numbers) < slots*2 {
		return votes
	}

	unit := v.AmountUnit
	if unit <= 0 {
		unit = DefaultAmountUnit
	}
	for i := range votes {
		count, amount := numbers[i*2], numbers[i*2+1]
		if count > amount {
			count, amount = amount, count
		}
		votes[i] = Votes{Count: count, Amount: amount * unit}
	}
	return votes
}

// NoVotes never attributes votes.
type NoVotes struct{}

func (NoVotes) Name() string { return PolicyNone }

func (NoVotes) Assign(_ []int64, slots int) []Votes {
	return make([]Votes, slots)
}

// VotePolicyByName resolves a configured policy name.
func VotePolicyByName(name string) (VotePolicy, error) {
	switch name {
	case "", PolicyPaired:
		return PairedVotes{AmountUnit: DefaultAmountUnit}, nil
	case PolicyNone:
		return NoVotes{}, nil
	default:
		return nil, fmt.Errorf("unknown vote policy %q", name)
	}
}

// Assemble builds one entry per range, positions 1..len(ranges) in lane
// order, with votes from the policy.
func Assemble(ranges []Range, secondary []int64, policy VotePolicy) []race.OddsEntry {
	votes := policy.Assign(secondary, len(ranges))

	entries := make([]race.OddsEntry, len(ranges))
	for i, r := range ranges {
		entries[i] = race.OddsEntry{
			Position: i + 1,
			OddsLow:  r.Low,
			OddsHigh: r.High,
		}
		if i < len(votes) {
			entries[i].VoteCount = votes[i].Count
			entries[i].VoteAmount = votes[i].Amount
		}
	}
	return entries
}
