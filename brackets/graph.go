package brackets

import (
	"errors"
	"fmt"

	"github.com/frostpuck/hockey-tournaments/models"
)

var (
	ErrBracketCycle   = errors.New("bracket advancement graph contains a cycle")
	ErrOrphanPointer  = errors.New("bracket advancement pointer targets an unknown match")
	ErrSlotConflict   = errors.New("more than one match advances into the same slot")
	ErrMultipleFinals = errors.New("bracket has more than one terminal match")
)

// ValidateBracketGraph checks that the next_match_id wiring produced by
// the generation procedure is self-consistent: no cycles, no pointers to
// matches outside the snapshot, at most one feeder per (match, side),
// and a single terminal match per bracket. The generation procedure is
// trusted in production; this runs after generation and in tests.
func ValidateBracketGraph(matches []models.MatchWithResult) error {
	byID := make(map[int]*models.MatchWithResult, len(matches))
	for i := range matches {
		byID[matches[i].ID] = &matches[i]
	}

	type slotKey struct {
		matchID int
		side    models.MatchSide
	}
	feeders := map[slotKey]int{}
	terminals := map[models.BracketType]int{}

	for i := range matches {
		m := &matches[i]
		bracket := models.BracketWinners
		if m.Bracket != nil {
			bracket = *m.Bracket
		}
		if m.NextMatchID == nil {
			terminals[bracket]++
			continue
		}
		if _, ok := byID[*m.NextMatchID]; !ok {
			return fmt.Errorf("%w: match %d -> %d", ErrOrphanPointer, m.ID, *m.NextMatchID)
		}
		side := models.SideHome
		if m.NextMatchSide != nil {
			side = *m.NextMatchSide
		}
		k := slotKey{*m.NextMatchID, side}
		if prev, taken := feeders[k]; taken {
			return fmt.Errorf("%w: matches %d and %d both feed match %d side %s", ErrSlotConflict, prev, m.ID, k.matchID, side)
		}
		feeders[k] = m.ID
	}

	for bracket, count := range terminals {
		if count > 1 {
			return fmt.Errorf("%w: %d terminal matches in %s bracket", ErrMultipleFinals, count, bracket)
		}
	}

	// Cycle check: walk the next pointers from every node; any walk
	// longer than the match count revisited a node.
	for i := range matches {
		steps := 0
		cur := &matches[i]
		for cur.NextMatchID != nil {
			steps++
			if steps > len(matches) {
				return fmt.Errorf("%w: starting from match %d", ErrBracketCycle, matches[i].ID)
			}
			cur = byID[*cur.NextMatchID]
		}
	}
	return nil
}

// DescendantIndex answers "does any downstream match of X already carry
// a locked result" over one immutable snapshot. Lookups are memoized;
// the walk is iterative so bracket depth never hits recursion limits.
type DescendantIndex struct {
	next   map[int]*int
	locked map[int]bool
	memo   map[int]bool
}

func NewDescendantIndex(matches []models.MatchWithResult) *DescendantIndex {
	idx := &DescendantIndex{
		next:   make(map[int]*int, len(matches)),
		locked: make(map[int]bool, len(matches)),
		memo:   make(map[int]bool, len(matches)),
	}
	for i := range matches {
		m := &matches[i]
		idx.next[m.ID] = m.NextMatchID
		idx.locked[m.ID] = m.HasLockedResult()
	}
	return idx
}

// HasLockedDescendant reports whether any match downstream of matchID is
// locked. A locked descendant means the winner of matchID has already
// been consumed, so re-opening its result would corrupt the bracket.
func (idx *DescendantIndex) HasLockedDescendant(matchID int) bool {
	if v, ok := idx.memo[matchID]; ok {
		return v
	}

	var path []int
	found := false
	cur := idx.next[matchID]
	for cur != nil {
		id := *cur
		if v, ok := idx.memo[id]; ok {
			found = v || idx.locked[id]
			break
		}
		if idx.locked[id] {
			found = true
			break
		}
		path = append(path, id)
		if len(path) > len(idx.next) {
			// Defective wiring; treat as locked to stay safe.
			found = true
			break
		}
		cur = idx.next[id]
	}

	idx.memo[matchID] = found
	// Every unlocked node on the walked path shares the answer.
	for _, id := range path {
		if _, ok := idx.memo[id]; !ok {
			idx.memo[id] = found
		}
	}
	return found
}
