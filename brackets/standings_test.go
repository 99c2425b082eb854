package brackets

import (
	"testing"

	"github.com/frostpuck/hockey-tournaments/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withResult(home, away, homeShots, awayShots int, locked bool) matchOption {
	return func(m *models.MatchWithResult) {
		m.Result = &models.MatchResult{
			MatchID:   m.ID,
			HomeScore: home,
			AwayScore: away,
			HomeShots: homeShots,
			AwayShots: awayShots,
			Decision:  models.DecisionRegulation,
			Locked:    locked,
		}
	}
}

func baseRow(groupID, participantID, points int) models.GroupStanding {
	return models.GroupStanding{
		TournamentID:  1,
		GroupID:       groupID,
		ParticipantID: participantID,
		Points:        points,
	}
}

func TestAggregateGroupStandingsCounters(t *testing.T) {
	matches := []models.MatchWithResult{
		groupMatch(1, 1, withSides(10, 11), withResult(4, 2, 30, 25, true)),
		groupMatch(2, 1, withSides(11, 12), withResult(1, 3, 20, 28, true)),
		// Незалоченный результат не попадает в таблицу.
		groupMatch(3, 1, withSides(10, 12), withResult(5, 0, 40, 10, false)),
	}
	base := []models.GroupStanding{
		baseRow(1, 10, 2),
		baseRow(1, 11, 0),
		baseRow(1, 12, 2),
	}

	out := AggregateGroupStandings(matches, base)
	require.Len(t, out, 3)

	byID := map[int]models.GroupStanding{}
	for _, row := range out {
		byID[row.ParticipantID] = row
	}

	p10 := byID[10]
	assert.Equal(t, 1, p10.GamesPlayed)
	assert.Equal(t, 1, p10.Wins)
	assert.Equal(t, 0, p10.Losses)
	assert.Equal(t, 4, p10.GoalsFor)
	assert.Equal(t, 2, p10.GoalsAgainst)
	assert.Equal(t, 2, p10.GoalDiff)
	assert.Equal(t, 5, p10.ShotsDiff)

	p11 := byID[11]
	assert.Equal(t, 2, p11.GamesPlayed)
	assert.Equal(t, 0, p11.Wins)
	assert.Equal(t, 2, p11.Losses)
	assert.Equal(t, -4, p11.GoalDiff)
	assert.Equal(t, -13, p11.ShotsDiff)

	p12 := byID[12]
	assert.Equal(t, 1, p12.GamesPlayed)
	assert.Equal(t, 1, p12.Wins)
	assert.Equal(t, 2, p12.GoalDiff)
}

func TestAggregateGroupStandingsRanking(t *testing.T) {
	// Равные очки у 10 и 12: решает разница шайб.
	matches := []models.MatchWithResult{
		groupMatch(1, 1, withSides(10, 11), withResult(4, 1, 30, 25, true)),
		groupMatch(2, 1, withSides(12, 11), withResult(2, 1, 22, 20, true)),
	}
	base := []models.GroupStanding{
		baseRow(1, 10, 2),
		baseRow(1, 11, 0),
		baseRow(1, 12, 2),
	}

	out := AggregateGroupStandings(matches, base)
	require.Len(t, out, 3)

	assert.Equal(t, 10, out[0].ParticipantID)
	assert.Equal(t, 12, out[1].ParticipantID)
	assert.Equal(t, 11, out[2].ParticipantID)

	require.NotNil(t, out[0].RankInGroup)
	assert.Equal(t, 1, *out[0].RankInGroup)
	assert.Equal(t, 2, *out[1].RankInGroup)
	assert.Equal(t, 3, *out[2].RankInGroup)
}

func TestAggregateGroupStandingsGroupsSorted(t *testing.T) {
	matches := []models.MatchWithResult{
		groupMatch(1, 2, withSides(20, 21), withResult(3, 0, 25, 15, true)),
		groupMatch(2, 1, withSides(10, 11), withResult(2, 1, 20, 18, true)),
	}
	base := []models.GroupStanding{
		baseRow(2, 20, 2), baseRow(2, 21, 0),
		baseRow(1, 10, 2), baseRow(1, 11, 0),
	}

	out := AggregateGroupStandings(matches, base)
	require.Len(t, out, 4)
	assert.Equal(t, 1, out[0].GroupID)
	assert.Equal(t, 1, out[1].GroupID)
	assert.Equal(t, 2, out[2].GroupID)
	assert.Equal(t, 2, out[3].GroupID)

	// Ранги считаются внутри каждой группы заново.
	assert.Equal(t, 1, *out[0].RankInGroup)
	assert.Equal(t, 1, *out[2].RankInGroup)
}

func TestAggregateGroupStandingsSynthesizesMissingRows(t *testing.T) {
	// Участник 13 сыграл матч, но view ещё не отдала по нему строку.
	matches := []models.MatchWithResult{
		groupMatch(1, 1, withSides(10, 13), withResult(0, 2, 10, 15, true)),
	}
	base := []models.GroupStanding{baseRow(1, 10, 0)}

	out := AggregateGroupStandings(matches, base)
	require.Len(t, out, 2)
	assert.Equal(t, 13, out[0].ParticipantID, "winner with zero stored points still ranks by goal diff")
	assert.Equal(t, 1, out[0].GamesPlayed)
}

func TestGlobalPlacement(t *testing.T) {
	one, two := 1, 2
	standings := []models.GroupStanding{
		{GroupID: 1, ParticipantID: 10, Points: 4, GoalDiff: 3, RankInGroup: &one},
		{GroupID: 1, ParticipantID: 11, Points: 2, GoalDiff: -1, RankInGroup: &two},
		{GroupID: 2, ParticipantID: 20, Points: 4, GoalDiff: 5, RankInGroup: &one},
		{GroupID: 2, ParticipantID: 21, Points: 0, GoalDiff: -7, RankInGroup: &two},
	}

	places := GlobalPlacement(standings)
	assert.Equal(t, map[int]int{20: 1, 10: 2, 11: 3, 21: 4}, places)
}

func TestGlobalPlacementTieFallsBackToStoredRank(t *testing.T) {
	one, two := 1, 2
	standings := []models.GroupStanding{
		{GroupID: 1, ParticipantID: 11, Points: 3, RankInGroup: &two},
		{GroupID: 2, ParticipantID: 20, Points: 3, RankInGroup: &one},
	}

	places := GlobalPlacement(standings)
	assert.Equal(t, 1, places[20])
	assert.Equal(t, 2, places[11])
}
