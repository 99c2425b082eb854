package brackets

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/frostpuck/hockey-tournaments/models"
)

var ErrNotEnoughParticipants = errors.New("at least 2 locked participants are required to generate a bracket")

// PlayoffGenerator builds a single-elimination winners bracket and,
// for presets with a placement bracket, a parallel consolation tree for
// first-round losers. It replaces the generate_playoff_bracket database
// procedure.
type PlayoffGenerator struct {
	WithLosersBracket bool
}

func NewPlayoffGenerator(withLosers bool) Generator {
	return &PlayoffGenerator{WithLosersBracket: withLosers}
}

func (g *PlayoffGenerator) Name() string {
	if g.WithLosersBracket {
		return "SingleEliminationWithPlacement"
	}
	return "SingleElimination"
}

// Generate lays out the full winners tree, including bye slots: a bye
// match keeps its single participant as a row (home side populated, away
// empty) and the participant is pre-advanced into the next round, which
// is the wiring the skip resolver relies on.
//
// Participant order is the seed order; seed s meets the mirrored seed of
// the first round, so byes land on the top seeds.
func (g *PlayoffGenerator) Generate(ctx context.Context, params GenerateParams) ([]*BracketMatch, error) {
	participants := params.Participants
	n := len(participants)
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}

	numRounds := int(math.Ceil(math.Log2(float64(n))))
	bracketSize := 1 << uint(numRounds)
	firstRoundSlots := bracketSize / 2

	matches := make([]*BracketMatch, 0, bracketSize)
	byPosition := make(map[[2]int]*BracketMatch, bracketSize)

	for r := 1; r <= numRounds; r++ {
		slots := firstRoundSlots >> uint(r-1)
		for s := 1; s <= slots; s++ {
			bm := &BracketMatch{
				Bracket: models.BracketWinners,
				Round:   r,
				Slot:    s,
			}
			if r < numRounds {
				bm.NextBracket = models.BracketWinners
				bm.NextRound = r + 1
				bm.NextSlot = (s + 1) / 2
				if s%2 == 1 {
					bm.NextSide = models.SideHome
				} else {
					bm.NextSide = models.SideAway
				}
			}
			matches = append(matches, bm)
			byPosition[[2]int{r, s}] = bm
		}
	}

	// Seed round 1: slot s pairs seed s against seed 2K+1-s. Mirrored
	// seeds past n are byes.
	for s := 1; s <= firstRoundSlots; s++ {
		bm := byPosition[[2]int{1, s}]
		homeIdx := s - 1
		awayIdx := 2*firstRoundSlots - s
		if homeIdx < n {
			id := participants[homeIdx].ID
			bm.HomeID = &id
		}
		if awayIdx < n {
			id := participants[awayIdx].ID
			bm.AwayID = &id
		}

		// Pre-advance byes the way the generation procedure wires them.
		if bm.HomeID != nil && bm.AwayID == nil && bm.NextRound > 0 {
			next := byPosition[[2]int{bm.NextRound, bm.NextSlot}]
			if bm.NextSide == models.SideHome {
				next.HomeID = bm.HomeID
			} else {
				next.AwayID = bm.HomeID
			}
		}
	}

	if g.WithLosersBracket {
		decided := 0
		for s := 1; s <= firstRoundSlots; s++ {
			bm := byPosition[[2]int{1, s}]
			if bm.HomeID != nil && bm.AwayID != nil {
				decided++
			}
		}
		matches = append(matches, g.placementTree(decided)...)
	}

	return matches, nil
}

// placementTree builds the all-TBD consolation bracket for the losers of
// the decided first-round matches. Losers are routed in at lock time
// (RouteLoser); only winner advancement is wired here.
func (g *PlayoffGenerator) placementTree(firstRoundLosers int) []*BracketMatch {
	if firstRoundLosers < 2 {
		return nil
	}
	slots := (firstRoundLosers + 1) / 2
	numRounds := roundCount(slots)

	var matches []*BracketMatch
	for r := 1; r <= numRounds; r++ {
		count := expectedSlots(slots, r)
		for s := 1; s <= count; s++ {
			bm := &BracketMatch{
				Bracket: models.BracketLosers,
				Round:   r,
				Slot:    s,
			}
			if r < numRounds {
				bm.NextBracket = models.BracketLosers
				bm.NextRound = r + 1
				bm.NextSlot = (s + 1) / 2
				if s%2 == 1 {
					bm.NextSide = models.SideHome
				} else {
					bm.NextSide = models.SideAway
				}
			}
			matches = append(matches, bm)
		}
	}
	return matches
}

// RouteLoser resolves where the loser of a first-round winners match
// drops into the placement bracket: the j-th decided first-round match
// (ordered by slot) feeds placement slot ceil(j/2), home side when j is
// odd. Returns ok=false for byes and for matches past round 1.
func RouteLoser(winners []models.MatchWithResult, matchID int) (slot int, side models.MatchSide, ok bool) {
	decided := make([]models.MatchWithResult, 0, len(winners))
	for i := range winners {
		m := &winners[i]
		if m.Round == 1 && m.HomeParticipantID != nil && m.AwayParticipantID != nil {
			decided = append(decided, *m)
		}
	}
	sort.Slice(decided, func(i, j int) bool { return decided[i].BracketSlot < decided[j].BracketSlot })

	j := 0
	for i := range decided {
		m := &decided[i]
		j++
		if m.ID == matchID {
			side = models.SideAway
			if j%2 == 1 {
				side = models.SideHome
			}
			return (j + 1) / 2, side, true
		}
	}
	return 0, "", false
}
