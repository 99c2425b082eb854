package models

import "time"

type BracketType string

const (
	BracketWinners BracketType = "WINNERS"
	BracketLosers  BracketType = "LOSERS"
)

// MatchSide names the slot of the downstream match a winner advances to.
type MatchSide string

const (
	SideHome MatchSide = "home"
	SideAway MatchSide = "away"
)

// Decision записывает, как завершился матч: в основное время, в
// овертайме или по буллитам. Ничьих не бывает.
type Decision string

const (
	DecisionRegulation Decision = "R"
	DecisionOvertime   Decision = "OT"
	DecisionShootout   Decision = "SO"
)

// ValidDecision reports whether raw is one of R/OT/SO.
func ValidDecision(raw string) bool {
	switch Decision(raw) {
	case DecisionRegulation, DecisionOvertime, DecisionShootout:
		return true
	}
	return false
}

type Match struct {
	ID                int             `json:"id" db:"id"`
	TournamentID      int             `json:"tournament_id" db:"tournament_id"`
	Stage             TournamentStage `json:"stage" db:"stage"`
	Bracket           *BracketType    `json:"bracket,omitempty" db:"bracket"`
	Round             int             `json:"round" db:"round"`
	BracketSlot       int             `json:"bracket_slot" db:"bracket_slot"`
	GroupID           *int            `json:"group_id,omitempty" db:"group_id"`
	NextMatchID       *int            `json:"next_match_id,omitempty" db:"next_match_id"`
	NextMatchSide     *MatchSide      `json:"next_match_side,omitempty" db:"next_match_side"`
	HomeParticipantID *int            `json:"home_participant_id,omitempty" db:"home_participant_id"`
	AwayParticipantID *int            `json:"away_participant_id,omitempty" db:"away_participant_id"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}

// MatchResult is one-to-one with Match, upserted by match id.
type MatchResult struct {
	MatchID   int      `json:"match_id" db:"match_id"`
	HomeScore int      `json:"home_score" db:"home_score"`
	AwayScore int      `json:"away_score" db:"away_score"`
	HomeShots int      `json:"home_shots" db:"home_shots"`
	AwayShots int      `json:"away_shots" db:"away_shots"`
	Decision  Decision `json:"decision" db:"decision"`
	Locked    bool     `json:"locked" db:"locked"`
}

// MatchWithResult joins a match with its (possibly absent) result row.
type MatchWithResult struct {
	Match
	Result *MatchResult `json:"result,omitempty"`
}

// HasLockedResult reports whether the match carries a locked result.
func (m *MatchWithResult) HasLockedResult() bool {
	return m != nil && m.Result != nil && m.Result.Locked
}

// WinnerID returns the participant id of the winner for a locked result,
// or nil when the match is not decided yet.
func (m *MatchWithResult) WinnerID() *int {
	if !m.HasLockedResult() {
		return nil
	}
	if m.Result.HomeScore > m.Result.AwayScore {
		return m.HomeParticipantID
	}
	return m.AwayParticipantID
}

// LoserID mirrors WinnerID for the defeated side.
func (m *MatchWithResult) LoserID() *int {
	if !m.HasLockedResult() {
		return nil
	}
	if m.Result.HomeScore > m.Result.AwayScore {
		return m.AwayParticipantID
	}
	return m.HomeParticipantID
}
