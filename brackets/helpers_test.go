package brackets

import "github.com/frostpuck/hockey-tournaments/models"

// Конструкторы тестовых матчей.

func intPtr(v int) *int { return &v }

func bracketPtr(b models.BracketType) *models.BracketType { return &b }

func sidePtr(s models.MatchSide) *models.MatchSide { return &s }

type matchOption func(*models.MatchWithResult)

func withSides(homeID, awayID int) matchOption {
	return func(m *models.MatchWithResult) {
		m.HomeParticipantID = intPtr(homeID)
		m.AwayParticipantID = intPtr(awayID)
	}
}

func withHome(homeID int) matchOption {
	return func(m *models.MatchWithResult) {
		m.HomeParticipantID = intPtr(homeID)
	}
}

func withNext(nextID int, side models.MatchSide) matchOption {
	return func(m *models.MatchWithResult) {
		m.NextMatchID = intPtr(nextID)
		m.NextMatchSide = sidePtr(side)
	}
}

func withLockedScore(home, away int) matchOption {
	return func(m *models.MatchWithResult) {
		m.Result = &models.MatchResult{
			MatchID:   m.ID,
			HomeScore: home,
			AwayScore: away,
			HomeShots: home + 10,
			AwayShots: away + 10,
			Decision:  models.DecisionRegulation,
			Locked:    true,
		}
	}
}

func withUnlockedScore(home, away int) matchOption {
	return func(m *models.MatchWithResult) {
		m.Result = &models.MatchResult{
			MatchID:   m.ID,
			HomeScore: home,
			AwayScore: away,
			HomeShots: home + 10,
			AwayShots: away + 10,
			Decision:  models.DecisionRegulation,
		}
	}
}

func withGroup(groupID int) matchOption {
	return func(m *models.MatchWithResult) {
		m.Stage = models.StageGroup
		m.GroupID = intPtr(groupID)
	}
}

func playoffMatch(id int, bracket models.BracketType, round, slot int, opts ...matchOption) models.MatchWithResult {
	m := models.MatchWithResult{
		Match: models.Match{
			ID:           id,
			TournamentID: 1,
			Stage:        models.StagePlayoff,
			Bracket:      bracketPtr(bracket),
			Round:        round,
			BracketSlot:  slot,
		},
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func groupMatch(id, groupID int, opts ...matchOption) models.MatchWithResult {
	m := models.MatchWithResult{
		Match: models.Match{
			ID:           id,
			TournamentID: 1,
			Stage:        models.StageGroup,
			GroupID:      intPtr(groupID),
			Round:        1,
			BracketSlot:  1,
		},
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}
