package models

// GroupStanding is one row of a group table. Points come from the
// external ranking view; the secondary keys (goal diff, shots diff) are
// recomputed from locked results on every load.
type GroupStanding struct {
	TournamentID  int  `json:"tournament_id" db:"tournament_id"`
	GroupID       int  `json:"group_id" db:"group_id"`
	ParticipantID int  `json:"participant_id" db:"participant_id"`
	Points        int  `json:"points" db:"points"`
	GamesPlayed   int  `json:"games_played" db:"games_played"`
	Wins          int  `json:"wins" db:"wins"`
	Losses        int  `json:"losses" db:"losses"`
	GoalsFor      int  `json:"goals_for" db:"goals_for"`
	GoalsAgainst  int  `json:"goals_against" db:"goals_against"`
	GoalDiff      int  `json:"goal_diff" db:"goal_diff"`
	ShotsDiff     int  `json:"shots_diff" db:"shots_diff"`
	RankInGroup   *int `json:"rank_in_group,omitempty" db:"rank_in_group"`
}
