package brackets

import (
	"context"
	"fmt"

	"github.com/frostpuck/hockey-tournaments/models"
)

// GroupStageGenerator deals participants into groups and builds a
// single round-robin schedule per group. It replaces the
// generate_group_stage database procedure.
type GroupStageGenerator struct {
	GroupCount int
}

func NewGroupStageGenerator(groupCount int) Generator {
	return &GroupStageGenerator{GroupCount: groupCount}
}

func (g *GroupStageGenerator) Name() string {
	return "GroupRoundRobin"
}

func (g *GroupStageGenerator) Generate(ctx context.Context, params GenerateParams) ([]*BracketMatch, error) {
	participants := params.Participants
	if len(participants) < 2 {
		return nil, ErrNotEnoughParticipants
	}
	groupCount := g.GroupCount
	if groupCount < 1 {
		groupCount = 1
	}

	// Snake deal keeps group strength roughly even when the caller
	// passes participants in seed order.
	groups := make([][]*models.Participant, groupCount)
	for i, p := range participants {
		lap := i / groupCount
		pos := i % groupCount
		if lap%2 == 1 {
			pos = groupCount - 1 - pos
		}
		groups[pos] = append(groups[pos], p)
	}

	var matches []*BracketMatch
	for gi, members := range groups {
		if len(members) < 2 {
			return nil, fmt.Errorf("group %d has %d participants, need at least 2", gi+1, len(members))
		}
		matches = append(matches, roundRobin(gi, members)...)
	}
	return matches, nil
}

// roundRobin schedules one group with the circle method: fix the first
// participant, rotate the rest. Odd group sizes use a phantom slot whose
// pairings are simply not emitted.
func roundRobin(groupIndex int, members []*models.Participant) []*BracketMatch {
	ids := make([]*int, 0, len(members)+1)
	for _, p := range members {
		id := p.ID
		ids = append(ids, &id)
	}
	if len(ids)%2 == 1 {
		ids = append(ids, nil)
	}
	k := len(ids)
	roundsTotal := k - 1

	var matches []*BracketMatch
	for r := 1; r <= roundsTotal; r++ {
		slot := 0
		for i := 0; i < k/2; i++ {
			home := ids[i]
			away := ids[k-1-i]
			if home == nil || away == nil {
				continue
			}
			slot++
			matches = append(matches, &BracketMatch{
				Round:      r,
				Slot:       slot,
				GroupIndex: groupIndex,
				HomeID:     home,
				AwayID:     away,
			})
		}
		// Rotate everything but the pivot.
		last := ids[k-1]
		copy(ids[2:], ids[1:k-1])
		ids[1] = last
	}
	return matches
}

// SanitizeGroupCount clamps a requested group count to something the
// participant count can sustain: 1..4 groups, at least 3 participants
// per group. Returns the effective count and a note when it was
// adjusted.
func SanitizeGroupCount(participants, requested int) (count int, note string, err error) {
	if participants < 3 {
		return 0, "", fmt.Errorf("%d participants cannot form a group stage", participants)
	}
	count = requested
	if count < 1 {
		count = 1
	}
	if count > 4 {
		count = 4
	}
	for count > 1 && participants/count < 3 {
		count--
	}
	if count != requested {
		note = fmt.Sprintf("group count adjusted to %d so every group keeps at least 3 participants", count)
	}
	return count, note, nil
}
