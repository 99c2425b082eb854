package models

import "time"

// Participant занимает один слот турнира. Ровно одно из UserID/GuestID
// должно быть заполнено.
type Participant struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	UserID       *int      `json:"user_id,omitempty" db:"user_id"`
	GuestID      *string   `json:"guest_id,omitempty" db:"guest_id"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	TeamID       *int      `json:"team_id,omitempty" db:"team_id"`
	Locked       bool      `json:"locked" db:"locked"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}

// ReadyForDraw reports whether the slot can take part in bracket or
// group generation: a team is chosen and the row is locked.
func (p *Participant) ReadyForDraw() bool {
	return p != nil && p.Locked && p.TeamID != nil
}

// Guest is an ad-hoc participant without a user account. The ID doubles
// as an opaque access token, so it is a UUID rather than a serial.
type Guest struct {
	ID           string    `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
