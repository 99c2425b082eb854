package brackets

import (
	"testing"

	"github.com/frostpuck/hockey-tournaments/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateBracketGraph(t *testing.T) {
	testCases := []struct {
		name        string
		matches     []models.MatchWithResult
		expectedErr error
	}{
		{
			name: "valid tree",
			matches: []models.MatchWithResult{
				playoffMatch(1, models.BracketWinners, 1, 1, withNext(3, models.SideHome)),
				playoffMatch(2, models.BracketWinners, 1, 2, withNext(3, models.SideAway)),
				playoffMatch(3, models.BracketWinners, 2, 1),
			},
		},
		{
			name: "orphan pointer",
			matches: []models.MatchWithResult{
				playoffMatch(1, models.BracketWinners, 1, 1, withNext(99, models.SideHome)),
				playoffMatch(2, models.BracketWinners, 2, 1),
			},
			expectedErr: ErrOrphanPointer,
		},
		{
			name: "two feeders into the same side",
			matches: []models.MatchWithResult{
				playoffMatch(1, models.BracketWinners, 1, 1, withNext(3, models.SideHome)),
				playoffMatch(2, models.BracketWinners, 1, 2, withNext(3, models.SideHome)),
				playoffMatch(3, models.BracketWinners, 2, 1),
			},
			expectedErr: ErrSlotConflict,
		},
		{
			name: "two finals in one bracket",
			matches: []models.MatchWithResult{
				playoffMatch(1, models.BracketWinners, 2, 1),
				playoffMatch(2, models.BracketWinners, 2, 2),
			},
			expectedErr: ErrMultipleFinals,
		},
		{
			name: "cycle",
			matches: []models.MatchWithResult{
				playoffMatch(1, models.BracketWinners, 1, 1, withNext(2, models.SideHome)),
				playoffMatch(2, models.BracketWinners, 2, 1, withNext(1, models.SideHome)),
			},
			expectedErr: ErrBracketCycle,
		},
		{
			name: "winners and losers finals coexist",
			matches: []models.MatchWithResult{
				playoffMatch(1, models.BracketWinners, 1, 1),
				playoffMatch(2, models.BracketLosers, 1, 1),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateBracketGraph(tc.matches)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDescendantIndex(t *testing.T) {
	matches := []models.MatchWithResult{
		playoffMatch(1, models.BracketWinners, 1, 1, withSides(10, 11), withNext(5, models.SideHome), withLockedScore(2, 1)),
		playoffMatch(2, models.BracketWinners, 1, 2, withSides(12, 13), withNext(5, models.SideAway), withLockedScore(0, 3)),
		playoffMatch(3, models.BracketWinners, 1, 3, withSides(14, 15), withNext(6, models.SideHome), withLockedScore(1, 0)),
		playoffMatch(4, models.BracketWinners, 1, 4, withSides(16, 17), withNext(6, models.SideAway)),
		playoffMatch(5, models.BracketWinners, 2, 1, withSides(10, 13), withNext(7, models.SideHome), withLockedScore(4, 2)),
		playoffMatch(6, models.BracketWinners, 2, 2, withNext(7, models.SideAway)),
		playoffMatch(7, models.BracketWinners, 3, 1),
	}

	idx := NewDescendantIndex(matches)

	assert.True(t, idx.HasLockedDescendant(1), "semi-final above is locked")
	assert.True(t, idx.HasLockedDescendant(2))
	assert.False(t, idx.HasLockedDescendant(3), "its semi-final has no result yet")
	assert.False(t, idx.HasLockedDescendant(4))
	assert.False(t, idx.HasLockedDescendant(5), "final is not locked")
	assert.False(t, idx.HasLockedDescendant(7), "terminal match has no descendants")

	// Повторный запрос идёт из кэша и даёт тот же ответ.
	assert.True(t, idx.HasLockedDescendant(1))
}
