package brackets

import (
	"sort"

	"github.com/frostpuck/hockey-tournaments/models"
)

type Medal string

const (
	MedalGold   Medal = "gold"
	MedalSilver Medal = "silver"
	MedalBronze Medal = "bronze"
)

// Eliminated in the placement bracket outranks any winners-bracket exit;
// within a bracket, a later exit ranks higher.
const (
	losersBracketBonus    = 10000
	eliminationRoundScale = 100
)

// Placements maps participants to their final rank and medal. It is
// derived from locked playoff results on every load and never persisted.
type Placements struct {
	ranks    map[int]int
	medals   map[int]Medal
	revealed map[int]bool
}

// RankOf returns the participant's final place, if resolved.
func (p *Placements) RankOf(participantID int) (int, bool) {
	r, ok := p.ranks[participantID]
	return r, ok
}

// MedalOf returns the participant's medal, if any (ranks 1..3).
func (p *Placements) MedalOf(participantID int) (Medal, bool) {
	m, ok := p.medals[participantID]
	return m, ok
}

// RevealedFor gates display of a placement: it only shows once the
// participant's bracket position stopped being speculative, i.e. they
// appear in a slot with a concrete opponent or a recorded result. A
// bye-advanced participant whose next match is still TBD stays hidden.
func (p *Placements) RevealedFor(participantID int) bool {
	return p.revealed[participantID]
}

// Resolved reports whether any ranks were derived at all.
func (p *Placements) Resolved() bool {
	return len(p.ranks) > 0
}

func emptyPlacements() *Placements {
	return &Placements{
		ranks:    map[int]int{},
		medals:   map[int]Medal{},
		revealed: map[int]bool{},
	}
}

// ResolvePlacements derives the total ordering of playoff participants
// once every displayable playoff match across the winners and, when
// present, placement bracket is locked. When the precondition does not
// hold the result is empty, which the presentation layer reads as "not
// yet available" rather than an error.
//
// Rank 1/2 come from the winners-bracket final, rank 3/4 from the
// lowest-slot match of the placement bracket's last locked round. Every
// remaining participant is ordered by elimination depth, then playoff
// goal differential, goals for, goals against, and finally participant
// id for determinism.
func ResolvePlacements(winners, losers []models.MatchWithResult) *Placements {
	p := emptyPlacements()
	all := make([]models.MatchWithResult, 0, len(winners)+len(losers))
	all = append(all, winners...)
	all = append(all, losers...)
	markRevealed(p, all)

	if len(winners) == 0 || !allDisplayableLocked(all) {
		return p
	}

	// Step 1: the final decides gold and silver.
	final := lastRoundMatch(winners)
	if final == nil || !final.HasLockedResult() {
		return p
	}
	assign(p, final.WinnerID(), 1)
	assign(p, final.LoserID(), 2)

	// Step 2: the bronze match, when a placement bracket exists.
	if bronze := lastRoundMatch(losers); bronze != nil && bronze.HasLockedResult() {
		assign(p, bronze.WinnerID(), 3)
		assign(p, bronze.LoserID(), 4)
	}

	// Step 3: everyone else, by elimination depth and goal differential.
	rest := unrankedParticipants(p, all)
	stats := collectPlayoffStats(all)
	sort.Slice(rest, func(i, j int) bool {
		a, b := stats[rest[i]], stats[rest[j]]
		if a.depthScore != b.depthScore {
			return a.depthScore > b.depthScore
		}
		if ad, bd := a.goalsFor-a.goalsAgainst, b.goalsFor-b.goalsAgainst; ad != bd {
			return ad > bd
		}
		if a.goalsFor != b.goalsFor {
			return a.goalsFor > b.goalsFor
		}
		if a.goalsAgainst != b.goalsAgainst {
			return a.goalsAgainst < b.goalsAgainst
		}
		return rest[i] < rest[j]
	})

	next := maxRank(p) + 1
	for _, id := range rest {
		p.ranks[id] = next
		next++
	}

	for id, rank := range p.ranks {
		switch rank {
		case 1:
			p.medals[id] = MedalGold
		case 2:
			p.medals[id] = MedalSilver
		case 3:
			p.medals[id] = MedalBronze
		}
	}
	return p
}

// allDisplayableLocked: every match with both sides known must carry a
// locked result. Skipped byes and TBD slots do not block resolution.
func allDisplayableLocked(matches []models.MatchWithResult) bool {
	for i := range matches {
		m := &matches[i]
		if m.HomeParticipantID != nil && m.AwayParticipantID != nil && !m.HasLockedResult() {
			return false
		}
	}
	return true
}

// lastRoundMatch picks the lowest-slot match of the highest round.
func lastRoundMatch(matches []models.MatchWithResult) *models.MatchWithResult {
	var best *models.MatchWithResult
	for i := range matches {
		m := &matches[i]
		if !m.HasLockedResult() {
			continue
		}
		if best == nil || m.Round > best.Round || (m.Round == best.Round && m.BracketSlot < best.BracketSlot) {
			best = m
		}
	}
	return best
}

func assign(p *Placements, participantID *int, rank int) {
	if participantID != nil {
		p.ranks[*participantID] = rank
	}
}

func maxRank(p *Placements) int {
	max := 0
	for _, r := range p.ranks {
		if r > max {
			max = r
		}
	}
	return max
}

func unrankedParticipants(p *Placements, matches []models.MatchWithResult) []int {
	seen := map[int]bool{}
	var rest []int
	for i := range matches {
		for _, side := range []*int{matches[i].HomeParticipantID, matches[i].AwayParticipantID} {
			if side == nil || seen[*side] {
				continue
			}
			seen[*side] = true
			if _, ranked := p.ranks[*side]; !ranked {
				rest = append(rest, *side)
			}
		}
	}
	return rest
}

type playoffStats struct {
	depthScore   int
	goalsFor     int
	goalsAgainst int
}

// collectPlayoffStats aggregates goals over every locked playoff match a
// participant appears in and records the depth of their elimination.
func collectPlayoffStats(matches []models.MatchWithResult) map[int]playoffStats {
	stats := map[int]playoffStats{}
	for i := range matches {
		m := &matches[i]
		if !m.HasLockedResult() {
			continue
		}
		res := m.Result
		if m.HomeParticipantID != nil {
			s := stats[*m.HomeParticipantID]
			s.goalsFor += res.HomeScore
			s.goalsAgainst += res.AwayScore
			stats[*m.HomeParticipantID] = s
		}
		if m.AwayParticipantID != nil {
			s := stats[*m.AwayParticipantID]
			s.goalsFor += res.AwayScore
			s.goalsAgainst += res.HomeScore
			stats[*m.AwayParticipantID] = s
		}
		if loser := m.LoserID(); loser != nil {
			score := m.Round * eliminationRoundScale
			if m.Bracket != nil && *m.Bracket == models.BracketLosers {
				score += losersBracketBonus
			}
			s := stats[*loser]
			if score > s.depthScore {
				s.depthScore = score
			}
			stats[*loser] = s
		}
	}
	return stats
}

// markRevealed flags participants whose slot has a concrete non-TBD
// side somewhere in the bracket.
func markRevealed(p *Placements, matches []models.MatchWithResult) {
	for i := range matches {
		m := &matches[i]
		concrete := m.Result != nil || (m.HomeParticipantID != nil && m.AwayParticipantID != nil)
		if !concrete {
			continue
		}
		if m.HomeParticipantID != nil {
			p.revealed[*m.HomeParticipantID] = true
		}
		if m.AwayParticipantID != nil {
			p.revealed[*m.AwayParticipantID] = true
		}
	}
}
