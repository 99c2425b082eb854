package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidDecision(t *testing.T) {
	assert.True(t, ValidDecision("R"))
	assert.True(t, ValidDecision("OT"))
	assert.True(t, ValidDecision("SO"))
	assert.False(t, ValidDecision(""))
	assert.False(t, ValidDecision("r"))
	assert.False(t, ValidDecision("2OT"))
}

func TestWinnerAndLoser(t *testing.T) {
	home, away := 10, 11
	m := MatchWithResult{
		Match: Match{HomeParticipantID: &home, AwayParticipantID: &away},
	}

	assert.Nil(t, m.WinnerID(), "no result yet")
	assert.Nil(t, m.LoserID())
	assert.False(t, m.HasLockedResult())

	m.Result = &MatchResult{HomeScore: 3, AwayScore: 2, Decision: DecisionOvertime}
	assert.Nil(t, m.WinnerID(), "unlocked result does not decide the match")

	m.Result.Locked = true
	require.True(t, m.HasLockedResult())
	require.NotNil(t, m.WinnerID())
	assert.Equal(t, home, *m.WinnerID())
	assert.Equal(t, away, *m.LoserID())

	m.Result.HomeScore, m.Result.AwayScore = 1, 4
	assert.Equal(t, away, *m.WinnerID())
	assert.Equal(t, home, *m.LoserID())
}

func TestWinnerOfNilMatch(t *testing.T) {
	var m *MatchWithResult
	assert.False(t, m.HasLockedResult())
}
