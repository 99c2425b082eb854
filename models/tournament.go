package models

import "time"

// TournamentPreset определяет состав стадий турнира.
type TournamentPreset string

const (
	PresetPlayoffsOnly   TournamentPreset = "playoffs_only"
	PresetFullWithLosers TournamentPreset = "full_with_losers"
	PresetFullNoLosers   TournamentPreset = "full_no_losers"
)

// NormalizePreset folds legacy spellings into the canonical enum.
// Older rows stored "full_tournament" before the losers-bracket split.
func NormalizePreset(raw string) (TournamentPreset, bool) {
	switch TournamentPreset(raw) {
	case PresetPlayoffsOnly:
		return PresetPlayoffsOnly, true
	case PresetFullWithLosers:
		return PresetFullWithLosers, true
	case PresetFullNoLosers:
		return PresetFullNoLosers, true
	}
	if raw == "full_tournament" {
		return PresetFullWithLosers, true
	}
	return "", false
}

// HasGroupStage reports whether the preset plays a group stage before
// the playoff bracket.
func (p TournamentPreset) HasGroupStage() bool {
	return p == PresetFullWithLosers || p == PresetFullNoLosers
}

// HasLosersBracket reports whether the playoff stage carries a parallel
// placement bracket for eliminated participants.
func (p TournamentPreset) HasLosersBracket() bool {
	return p == PresetFullWithLosers
}

type TournamentStage string

const (
	StageGroup   TournamentStage = "GROUP"
	StagePlayoff TournamentStage = "PLAYOFF"
)

type TournamentStatus string

const (
	StatusDraft   TournamentStatus = "Draft"
	StatusOngoing TournamentStatus = "Ongoing"
	StatusClosed  TournamentStatus = "Closed"
)

type TeamPool string

const (
	PoolNHL  TeamPool = "NHL"
	PoolINTL TeamPool = "INTL"
)

type Tournament struct {
	ID                  int              `json:"id" db:"id"`
	Name                string           `json:"name" db:"name"`
	Preset              TournamentPreset `json:"preset" db:"preset"`
	TeamPool            TeamPool         `json:"team_pool" db:"team_pool"`
	DefaultParticipants int              `json:"default_participants" db:"default_participants"`
	GroupCount          *int             `json:"group_count,omitempty" db:"group_count"`
	Stage               TournamentStage  `json:"stage" db:"stage"`
	Status              TournamentStatus `json:"status" db:"status"`
	CreatedBy           int              `json:"created_by" db:"created_by"`
	CreatedAt           time.Time        `json:"created_at" db:"created_at"`
	LogoKey             *string          `json:"-" db:"logo_key"`
	LogoURL             *string          `json:"logo_url,omitempty" db:"-"`

	// Связанные сущности, не мапятся напрямую.
	Members      []TournamentMember `json:"members,omitempty" db:"-"`
	Participants []Participant      `json:"participants,omitempty" db:"-"`
}

type MemberRole string

const (
	RoleHost   MemberRole = "host"
	RolePlayer MemberRole = "player"
)

type TournamentMember struct {
	ID           int        `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	UserID       int        `json:"user_id" db:"user_id"`
	Role         MemberRole `json:"role" db:"role"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
}

// TournamentGroup is one group of the group stage ("A", "B", ...).
type TournamentGroup struct {
	ID           int    `json:"id" db:"id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	GroupCode    string `json:"group_code" db:"group_code"`
}
