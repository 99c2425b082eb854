package brackets

import (
	"testing"

	"github.com/frostpuck/hockey-tournaments/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Полная сетка на четверых: два полуфинала, финал и матч за бронзу.
func fourTeamBracket(finalLocked bool) (winners, losers []models.MatchWithResult) {
	winners = []models.MatchWithResult{
		playoffMatch(1, models.BracketWinners, 1, 1, withSides(10, 11), withNext(3, models.SideHome), withLockedScore(3, 1)),
		playoffMatch(2, models.BracketWinners, 1, 2, withSides(12, 13), withNext(3, models.SideAway), withLockedScore(2, 4)),
		playoffMatch(3, models.BracketWinners, 2, 1, withSides(10, 13)),
	}
	if finalLocked {
		winners[2] = playoffMatch(3, models.BracketWinners, 2, 1, withSides(10, 13), withLockedScore(5, 2))
	}
	losers = []models.MatchWithResult{
		playoffMatch(4, models.BracketLosers, 1, 1, withSides(11, 12), withLockedScore(1, 2)),
	}
	return winners, losers
}

func TestResolvePlacementsFullBracket(t *testing.T) {
	winners, losers := fourTeamBracket(true)

	p := ResolvePlacements(winners, losers)
	require.True(t, p.Resolved())

	expected := map[int]int{10: 1, 13: 2, 12: 3, 11: 4}
	for id, want := range expected {
		rank, ok := p.RankOf(id)
		require.True(t, ok, "participant %d must be ranked", id)
		assert.Equal(t, want, rank, "participant %d", id)
	}

	gold, _ := p.MedalOf(10)
	silver, _ := p.MedalOf(13)
	bronze, _ := p.MedalOf(12)
	assert.Equal(t, MedalGold, gold)
	assert.Equal(t, MedalSilver, silver)
	assert.Equal(t, MedalBronze, bronze)
	_, hasMedal := p.MedalOf(11)
	assert.False(t, hasMedal)
}

func TestResolvePlacementsWaitsForAllResults(t *testing.T) {
	winners, losers := fourTeamBracket(false)

	p := ResolvePlacements(winners, losers)
	assert.False(t, p.Resolved(), "an unlocked playable match blocks resolution")
	_, ok := p.RankOf(10)
	assert.False(t, ok)
}

func TestResolvePlacementsWithoutBronzeMatch(t *testing.T) {
	winners := []models.MatchWithResult{
		playoffMatch(1, models.BracketWinners, 1, 1, withSides(10, 11), withLockedScore(2, 0)),
		playoffMatch(2, models.BracketWinners, 1, 2, withSides(12, 13), withLockedScore(0, 1)),
		playoffMatch(3, models.BracketWinners, 2, 1, withSides(10, 13), withLockedScore(3, 2)),
	}

	p := ResolvePlacements(winners, nil)
	require.True(t, p.Resolved())

	r10, _ := p.RankOf(10)
	r13, _ := p.RankOf(13)
	assert.Equal(t, 1, r10)
	assert.Equal(t, 2, r13)

	// Проигравшие полуфиналов упорядочены по разнице шайб в плей-офф.
	r12, ok12 := p.RankOf(12)
	r11, ok11 := p.RankOf(11)
	require.True(t, ok12)
	require.True(t, ok11)
	assert.Equal(t, 3, r12, "12 lost 0:1, better diff than 11 losing 0:2")
	assert.Equal(t, 4, r11)

	bronze, ok := p.MedalOf(12)
	require.True(t, ok)
	assert.Equal(t, MedalBronze, bronze)
}

func TestResolvePlacementsSkippedByeDoesNotBlock(t *testing.T) {
	winners := []models.MatchWithResult{
		playoffMatch(1, models.BracketWinners, 1, 1, withSides(10, 11), withLockedScore(4, 2)),
		// Бай: одна сторона заполнена, результата не требуется.
		playoffMatch(2, models.BracketWinners, 1, 2, withHome(12)),
		playoffMatch(3, models.BracketWinners, 2, 1, withSides(10, 12), withLockedScore(1, 3)),
	}

	p := ResolvePlacements(winners, nil)
	require.True(t, p.Resolved())

	r12, _ := p.RankOf(12)
	assert.Equal(t, 1, r12)
}

func TestPlacementsRevealGating(t *testing.T) {
	winners := []models.MatchWithResult{
		playoffMatch(1, models.BracketWinners, 1, 1, withSides(10, 11)),
		// Участник 12 прошёл баем и ждёт соперника.
		playoffMatch(2, models.BracketWinners, 1, 2, withHome(12)),
		playoffMatch(3, models.BracketWinners, 2, 1, withHome(12)),
	}

	p := ResolvePlacements(winners, nil)
	assert.True(t, p.RevealedFor(10))
	assert.True(t, p.RevealedFor(11))
	assert.False(t, p.RevealedFor(12), "bye winner stays hidden until the pairing is concrete")
}

func TestResolvePlacementsEmptyInput(t *testing.T) {
	p := ResolvePlacements(nil, nil)
	assert.False(t, p.Resolved())
}
