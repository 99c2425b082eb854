package brackets

import (
	"testing"

	"github.com/frostpuck/hockey-tournaments/models"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		match    models.MatchWithResult
		expected MatchDisplay
		skipped  bool
	}{
		{
			name:     "both sides known",
			match:    playoffMatch(1, models.BracketWinners, 1, 1, withSides(10, 11)),
			expected: DisplayPlayable,
		},
		{
			name:     "home-only bye",
			match:    playoffMatch(2, models.BracketWinners, 1, 2, withHome(10)),
			expected: DisplaySkipped,
			skipped:  true,
		},
		{
			name: "away-only bye",
			match: func() models.MatchWithResult {
				m := playoffMatch(3, models.BracketWinners, 1, 3)
				m.AwayParticipantID = intPtr(11)
				return m
			}(),
			expected: DisplaySkipped,
			skipped:  true,
		},
		{
			name:     "structural TBD",
			match:    playoffMatch(4, models.BracketWinners, 2, 1),
			expected: DisplayPending,
		},
		{
			name:     "locked result overrides the bye shape",
			match:    playoffMatch(5, models.BracketWinners, 1, 4, withHome(10), withLockedScore(1, 0)),
			expected: DisplayPlayable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := tc.match
			assert.Equal(t, tc.expected, Classify(&m))
			assert.Equal(t, tc.skipped, IsSkipped(&m))
		})
	}
}

func TestIsDisplayableHidesByes(t *testing.T) {
	bye := playoffMatch(1, models.BracketWinners, 1, 1, withHome(10))
	assert.False(t, IsDisplayable(&bye))

	pending := playoffMatch(2, models.BracketWinners, 2, 1)
	assert.True(t, IsDisplayable(&pending), "TBD slots stay visible in bracket views")

	decided := playoffMatch(3, models.BracketWinners, 1, 2, withSides(10, 11), withUnlockedScore(2, 1))
	assert.True(t, IsDisplayable(&decided))
}
