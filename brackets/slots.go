package brackets

import (
	"math"
	"sort"
	"strconv"

	"github.com/frostpuck/hockey-tournaments/models"
)

// Slot is one bracket position in a round. Match is nil for a "TBD"
// placeholder the generation procedure has not filled yet.
type Slot struct {
	SlotNumber int                     `json:"slot_number"`
	Match      *models.MatchWithResult `json:"match,omitempty"`
}

type Round struct {
	Number int    `json:"number"`
	Label  string `json:"label"`
	Slots  []Slot `json:"slots"`
}

// BuildOptions controls placeholder handling. OmitUndecided drops slots
// (and whole rounds) that are still TBD-vs-TBD; the placement bracket is
// rendered that way, the winners bracket always shows its full shape.
type BuildOptions struct {
	OmitUndecided bool
}

// BuildBracket reconstructs the round-by-round shape of one bracket from
// its flat match list. Round r is expected to hold
// ceil(firstRoundSlots / 2^(r-1)) slots; missing (round, slot) pairs are
// synthesized as TBD placeholders.
func BuildBracket(matches []models.MatchWithResult, opts BuildOptions) []Round {
	if len(matches) == 0 {
		return nil
	}

	byPosition := make(map[[2]int]*models.MatchWithResult, len(matches))
	firstRoundSlots := 0
	maxRound := 0
	for i := range matches {
		m := &matches[i]
		byPosition[[2]int{m.Round, m.BracketSlot}] = m
		if m.Round == 1 {
			firstRoundSlots++
		}
		if m.Round > maxRound {
			maxRound = m.Round
		}
	}
	if firstRoundSlots == 0 {
		// Degenerate snapshot without a first round; show what exists.
		firstRoundSlots = 1
	}

	totalRounds := roundCount(firstRoundSlots)
	if maxRound > totalRounds {
		totalRounds = maxRound
	}

	rounds := make([]Round, 0, totalRounds)
	for r := 1; r <= totalRounds; r++ {
		expected := expectedSlots(firstRoundSlots, r)
		slots := make([]Slot, 0, expected)
		for s := 1; s <= expected; s++ {
			match := byPosition[[2]int{r, s}]
			if opts.OmitUndecided && slotUndecided(match) {
				continue
			}
			slots = append(slots, Slot{SlotNumber: s, Match: match})
		}
		if opts.OmitUndecided && len(slots) == 0 {
			continue
		}
		rounds = append(rounds, Round{
			Number: r,
			Label:  RoundLabel(r, totalRounds),
			Slots:  slots,
		})
	}

	sort.Slice(rounds, func(i, j int) bool { return rounds[i].Number < rounds[j].Number })
	return rounds
}

// expectedSlots is ceil(firstRoundSlots / 2^(r-1)).
func expectedSlots(firstRoundSlots, round int) int {
	div := 1 << uint(round-1)
	return (firstRoundSlots + div - 1) / div
}

// roundCount returns how many rounds an elimination bracket with the
// given number of first-round slots plays until a single match remains.
func roundCount(firstRoundSlots int) int {
	if firstRoundSlots <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(firstRoundSlots)))) + 1
}

// RoundLabel names a round by its distance from the final. A one-round
// bracket is always "Final".
func RoundLabel(round, totalRounds int) string {
	switch totalRounds - round {
	case 0:
		return "Final"
	case 1:
		return "Semi-finals"
	case 2:
		return "Quarter-finals"
	case 3:
		return "Round of 16"
	default:
		return "Round " + strconv.Itoa(round)
	}
}

func slotUndecided(m *models.MatchWithResult) bool {
	if m == nil {
		return true
	}
	return m.Result == nil && m.HomeParticipantID == nil && m.AwayParticipantID == nil
}
