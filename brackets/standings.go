package brackets

import (
	"sort"

	"github.com/frostpuck/hockey-tournaments/models"
)

// AggregateGroupStandings recomputes the derived columns of the group
// tables from locked group-stage results. Points are supplied by the
// external ranking view and carried over from base; only the secondary
// sort keys (goal diff, shots diff) and counters are re-derived here.
// Rows are ranked within each group and returned ordered by group, rank.
func AggregateGroupStandings(matches []models.MatchWithResult, base []models.GroupStanding) []models.GroupStanding {
	type key struct{ groupID, participantID int }

	rows := make(map[key]*models.GroupStanding, len(base))
	for i := range base {
		b := base[i]
		b.GamesPlayed, b.Wins, b.Losses = 0, 0, 0
		b.GoalsFor, b.GoalsAgainst, b.GoalDiff, b.ShotsDiff = 0, 0, 0, 0
		rows[key{b.GroupID, b.ParticipantID}] = &b
	}
	storedRank := make(map[key]*int, len(base))
	for i := range base {
		storedRank[key{base[i].GroupID, base[i].ParticipantID}] = base[i].RankInGroup
	}

	row := func(groupID, participantID, tournamentID int) *models.GroupStanding {
		k := key{groupID, participantID}
		if r, ok := rows[k]; ok {
			return r
		}
		r := &models.GroupStanding{
			TournamentID:  tournamentID,
			GroupID:       groupID,
			ParticipantID: participantID,
		}
		rows[k] = r
		return r
	}

	for i := range matches {
		m := &matches[i]
		if m.Stage != models.StageGroup || m.GroupID == nil || !m.HasLockedResult() {
			continue
		}
		if m.HomeParticipantID == nil || m.AwayParticipantID == nil {
			continue
		}
		res := m.Result
		home := row(*m.GroupID, *m.HomeParticipantID, m.TournamentID)
		away := row(*m.GroupID, *m.AwayParticipantID, m.TournamentID)

		home.GamesPlayed++
		away.GamesPlayed++
		home.GoalsFor += res.HomeScore
		home.GoalsAgainst += res.AwayScore
		away.GoalsFor += res.AwayScore
		away.GoalsAgainst += res.HomeScore
		home.ShotsDiff += res.HomeShots - res.AwayShots
		away.ShotsDiff += res.AwayShots - res.HomeShots
		if res.HomeScore > res.AwayScore {
			home.Wins++
			away.Losses++
		} else {
			away.Wins++
			home.Losses++
		}
	}

	out := make([]models.GroupStanding, 0, len(rows))
	for _, r := range rows {
		r.GoalDiff = r.GoalsFor - r.GoalsAgainst
		out = append(out, *r)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if a.GroupID != b.GroupID {
			return a.GroupID < b.GroupID
		}
		return lessByStandingKeys(a, b, storedRank[key{a.GroupID, a.ParticipantID}], storedRank[key{b.GroupID, b.ParticipantID}])
	})

	rank := 0
	lastGroup := -1
	for i := range out {
		if out[i].GroupID != lastGroup {
			lastGroup = out[i].GroupID
			rank = 0
		}
		rank++
		r := rank
		out[i].RankInGroup = &r
	}
	return out
}

// GlobalPlacement re-sorts every participant across all groups by the
// group ranking key tuple and assigns places 1..N. Used once every group
// match is locked, to seed the playoff bracket.
func GlobalPlacement(standings []models.GroupStanding) map[int]int {
	rows := make([]models.GroupStanding, len(standings))
	copy(rows, standings)

	sort.Slice(rows, func(i, j int) bool {
		return lessByStandingKeys(&rows[i], &rows[j], rows[i].RankInGroup, rows[j].RankInGroup)
	})

	places := make(map[int]int, len(rows))
	for i := range rows {
		places[rows[i].ParticipantID] = i + 1
	}
	return places
}

// Ranking key: points desc, goal diff desc, shots diff desc, stored rank
// asc as the fallback, participant id for a stable order.
func lessByStandingKeys(a, b *models.GroupStanding, aStored, bStored *int) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.GoalDiff != b.GoalDiff {
		return a.GoalDiff > b.GoalDiff
	}
	if a.ShotsDiff != b.ShotsDiff {
		return a.ShotsDiff > b.ShotsDiff
	}
	if ar, br := derefRank(aStored), derefRank(bStored); ar != br {
		return ar < br
	}
	return a.ParticipantID < b.ParticipantID
}

func derefRank(r *int) int {
	if r == nil {
		return 1 << 30
	}
	return *r
}
