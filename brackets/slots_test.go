package brackets

import (
	"testing"

	"github.com/frostpuck/hockey-tournaments/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedSlots(t *testing.T) {
	testCases := []struct {
		firstRoundSlots int
		round           int
		expected        int
	}{
		{8, 1, 8},
		{8, 2, 4},
		{8, 3, 2},
		{8, 4, 1},
		{5, 1, 5},
		{5, 2, 3},
		{5, 3, 2},
		{5, 4, 1},
		{1, 1, 1},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, expectedSlots(tc.firstRoundSlots, tc.round),
			"slots=%d round=%d", tc.firstRoundSlots, tc.round)
	}
}

func TestRoundCount(t *testing.T) {
	testCases := []struct {
		firstRoundSlots int
		expected        int
	}{
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 3},
		{5, 4},
		{8, 4},
		{16, 5},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, roundCount(tc.firstRoundSlots), "slots=%d", tc.firstRoundSlots)
	}
}

func TestRoundLabel(t *testing.T) {
	testCases := []struct {
		name        string
		round       int
		totalRounds int
		expected    string
	}{
		{"final of one-round bracket", 1, 1, "Final"},
		{"final", 4, 4, "Final"},
		{"semi-finals", 3, 4, "Semi-finals"},
		{"quarter-finals", 2, 4, "Quarter-finals"},
		{"round of 16", 1, 4, "Round of 16"},
		{"deep early round keeps its number", 1, 5, "Round 1"},
		{"second round of a deep bracket", 2, 6, "Round 2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RoundLabel(tc.round, tc.totalRounds))
		})
	}
}

func TestBuildBracketSynthesizesMissingSlots(t *testing.T) {
	// Четыре слота в первом круге, но снапшот знает только о трёх
	// матчах: второй слот второго круга ещё не создан.
	matches := []models.MatchWithResult{
		playoffMatch(1, models.BracketWinners, 1, 1, withSides(10, 11)),
		playoffMatch(2, models.BracketWinners, 1, 2, withSides(12, 13)),
		playoffMatch(3, models.BracketWinners, 1, 3, withSides(14, 15)),
		playoffMatch(4, models.BracketWinners, 1, 4, withSides(16, 17)),
		playoffMatch(5, models.BracketWinners, 2, 1),
	}

	rounds := BuildBracket(matches, BuildOptions{})
	require.Len(t, rounds, 3)

	assert.Equal(t, "Quarter-finals", rounds[0].Label)
	assert.Equal(t, "Semi-finals", rounds[1].Label)
	assert.Equal(t, "Final", rounds[2].Label)

	require.Len(t, rounds[1].Slots, 2)
	assert.NotNil(t, rounds[1].Slots[0].Match)
	assert.Nil(t, rounds[1].Slots[1].Match, "missing slot must surface as TBD")

	require.Len(t, rounds[2].Slots, 1)
	assert.Nil(t, rounds[2].Slots[0].Match)
}

func TestBuildBracketOmitUndecided(t *testing.T) {
	matches := []models.MatchWithResult{
		playoffMatch(1, models.BracketLosers, 1, 1, withSides(10, 11)),
		playoffMatch(2, models.BracketLosers, 1, 2),
		playoffMatch(3, models.BracketLosers, 2, 1),
	}

	rounds := BuildBracket(matches, BuildOptions{OmitUndecided: true})
	require.Len(t, rounds, 1, "fully undecided rounds are dropped")
	require.Len(t, rounds[0].Slots, 1)
	assert.Equal(t, 1, rounds[0].Slots[0].SlotNumber)
}

func TestBuildBracketEmpty(t *testing.T) {
	assert.Nil(t, BuildBracket(nil, BuildOptions{}))
}
