package brackets

import (
	"context"
	"testing"

	"github.com/frostpuck/hockey-tournaments/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededParticipants(n int) []*models.Participant {
	out := make([]*models.Participant, n)
	for i := range out {
		out[i] = &models.Participant{ID: 100 + i, TournamentID: 1}
	}
	return out
}

func matchesAt(matches []*BracketMatch, bracket models.BracketType, round int) []*BracketMatch {
	var out []*BracketMatch
	for _, m := range matches {
		if m.Bracket == bracket && m.Round == round {
			out = append(out, m)
		}
	}
	return out
}

func TestPlayoffGeneratorShape(t *testing.T) {
	testCases := []struct {
		name            string
		participants    int
		expectedRounds  int
		firstRoundSlots int
	}{
		{"four teams", 4, 2, 2},
		{"five teams", 5, 3, 4},
		{"eight teams", 8, 3, 4},
		{"nine teams", 9, 4, 8},
		{"twenty four teams", 24, 5, 16},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewPlayoffGenerator(false)
			matches, err := g.Generate(context.Background(), GenerateParams{
				Participants: seededParticipants(tc.participants),
			})
			require.NoError(t, err)

			assert.Len(t, matchesAt(matches, models.BracketWinners, 1), tc.firstRoundSlots)
			assert.Len(t, matchesAt(matches, models.BracketWinners, tc.expectedRounds), 1, "single final")
			assert.Empty(t, matchesAt(matches, models.BracketWinners, tc.expectedRounds+1))
			assert.Empty(t, matchesAt(matches, models.BracketLosers, 1))
		})
	}
}

func TestPlayoffGeneratorMirroredSeeding(t *testing.T) {
	g := NewPlayoffGenerator(false)
	matches, err := g.Generate(context.Background(), GenerateParams{
		Participants: seededParticipants(8),
	})
	require.NoError(t, err)

	round1 := matchesAt(matches, models.BracketWinners, 1)
	require.Len(t, round1, 4)

	// Слот s: посев s против посева 2K+1-s.
	expected := [][2]int{{100, 107}, {101, 106}, {102, 105}, {103, 104}}
	for i, m := range round1 {
		require.NotNil(t, m.HomeID, "slot %d", i+1)
		require.NotNil(t, m.AwayID, "slot %d", i+1)
		assert.Equal(t, expected[i][0], *m.HomeID)
		assert.Equal(t, expected[i][1], *m.AwayID)
	}
}

func TestPlayoffGeneratorByes(t *testing.T) {
	// Шесть участников в сетке на восемь: два бая у верхних посевов.
	g := NewPlayoffGenerator(false)
	matches, err := g.Generate(context.Background(), GenerateParams{
		Participants: seededParticipants(6),
	})
	require.NoError(t, err)

	round1 := matchesAt(matches, models.BracketWinners, 1)
	require.Len(t, round1, 4)

	// Слоты 1 и 2: соперники с индексами 7 и 6 не существуют.
	assert.NotNil(t, round1[0].HomeID)
	assert.Nil(t, round1[0].AwayID)
	assert.NotNil(t, round1[1].HomeID)
	assert.Nil(t, round1[1].AwayID)
	assert.NotNil(t, round1[2].AwayID)
	assert.NotNil(t, round1[3].AwayID)

	// Баи заранее продвинуты: оба верхних посева сходятся во втором
	// круге, слот 1.
	round2 := matchesAt(matches, models.BracketWinners, 2)
	require.Len(t, round2, 2)
	require.NotNil(t, round2[0].HomeID)
	assert.Equal(t, 100, *round2[0].HomeID)
	require.NotNil(t, round2[0].AwayID)
	assert.Equal(t, 101, *round2[0].AwayID)
	assert.Nil(t, round2[1].HomeID)
	assert.Nil(t, round2[1].AwayID)
}

func TestPlayoffGeneratorNextWiring(t *testing.T) {
	g := NewPlayoffGenerator(false)
	matches, err := g.Generate(context.Background(), GenerateParams{
		Participants: seededParticipants(4),
	})
	require.NoError(t, err)

	round1 := matchesAt(matches, models.BracketWinners, 1)
	require.Len(t, round1, 2)

	assert.Equal(t, 2, round1[0].NextRound)
	assert.Equal(t, 1, round1[0].NextSlot)
	assert.Equal(t, models.SideHome, round1[0].NextSide)
	assert.Equal(t, models.SideAway, round1[1].NextSide)

	final := matchesAt(matches, models.BracketWinners, 2)[0]
	assert.Zero(t, final.NextRound, "final advances nowhere")
}

func TestPlayoffGeneratorPlacementTree(t *testing.T) {
	testCases := []struct {
		name            string
		participants    int
		placementRound1 int
		placementRounds int
		expectPlacement bool
	}{
		{"eight teams, four losers", 8, 2, 2, true},
		{"four teams, two losers", 4, 1, 1, true},
		{"six teams, two decided matches", 6, 1, 1, true},
		{"three teams, single decided match", 3, 0, 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewPlayoffGenerator(true)
			matches, err := g.Generate(context.Background(), GenerateParams{
				Participants: seededParticipants(tc.participants),
			})
			require.NoError(t, err)

			round1 := matchesAt(matches, models.BracketLosers, 1)
			if !tc.expectPlacement {
				assert.Empty(t, round1)
				return
			}
			assert.Len(t, round1, tc.placementRound1)
			assert.Len(t, matchesAt(matches, models.BracketLosers, tc.placementRounds), 1, "single placement final")
			assert.Empty(t, matchesAt(matches, models.BracketLosers, tc.placementRounds+1))
		})
	}
}

func TestPlayoffGeneratorTooFewParticipants(t *testing.T) {
	g := NewPlayoffGenerator(false)
	_, err := g.Generate(context.Background(), GenerateParams{
		Participants: seededParticipants(1),
	})
	assert.ErrorIs(t, err, ErrNotEnoughParticipants)
}

func TestRouteLoser(t *testing.T) {
	winners := []models.MatchWithResult{
		// Слот 2: бай, в маршрутизации не участвует.
		playoffMatch(1, models.BracketWinners, 1, 1, withSides(10, 11)),
		playoffMatch(2, models.BracketWinners, 1, 2, withHome(12)),
		playoffMatch(3, models.BracketWinners, 1, 3, withSides(13, 14)),
		playoffMatch(4, models.BracketWinners, 1, 4, withSides(15, 16)),
		playoffMatch(5, models.BracketWinners, 2, 1, withSides(10, 13)),
	}

	testCases := []struct {
		name         string
		matchID      int
		expectedSlot int
		expectedSide models.MatchSide
		expectedOK   bool
	}{
		{"first decided match goes home of slot 1", 1, 1, models.SideHome, true},
		{"second decided match goes away of slot 1", 3, 1, models.SideAway, true},
		{"third decided match goes home of slot 2", 4, 2, models.SideHome, true},
		{"bye is never routed", 2, 0, "", false},
		{"second round match is never routed", 5, 0, "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			slot, side, ok := RouteLoser(winners, tc.matchID)
			assert.Equal(t, tc.expectedOK, ok)
			if !tc.expectedOK {
				return
			}
			assert.Equal(t, tc.expectedSlot, slot)
			assert.Equal(t, tc.expectedSide, side)
		})
	}
}
