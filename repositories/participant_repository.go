package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frostpuck/hockey-tournaments/models"
	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrParticipantExists   = errors.New("participant already registered in this tournament")
	ErrTeamTaken           = errors.New("team is already taken by another participant")
	ErrGuestNotFound       = errors.New("guest not found")
)

type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error)
	UpdateTeam(ctx context.Context, id int, teamID *int) error
	SetLocked(ctx context.Context, id int, locked bool) error
	Delete(ctx context.Context, id int) error

	CreateGuest(ctx context.Context, guest *models.Guest) error
	GetGuest(ctx context.Context, id string) (*models.Guest, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	query := `
		INSERT INTO participants (tournament_id, user_id, guest_id, display_name, team_id, locked)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		participant.TournamentID,
		participant.UserID,
		participant.GuestID,
		participant.DisplayName,
		participant.TeamID,
		participant.Locked,
	).Scan(&participant.ID, &participant.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "participants_tournament_user_key", "participants_tournament_guest_key":
				return ErrParticipantExists
			case "participants_tournament_team_key":
				return ErrTeamTaken
			}
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) scanParticipant(rowScanner interface {
	Scan(dest ...interface{}) error
}, p *models.Participant) error {
	return rowScanner.Scan(
		&p.ID,
		&p.TournamentID,
		&p.UserID,
		&p.GuestID,
		&p.DisplayName,
		&p.TeamID,
		&p.Locked,
		&p.CreatedAt,
	)
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `
		SELECT id, tournament_id, user_id, guest_id, display_name, team_id, locked, created_at
		FROM participants
		WHERE id = $1`

	participant := &models.Participant{}
	if err := r.scanParticipant(r.db.QueryRowContext(ctx, query, id), participant); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant %d: %w", id, err)
	}
	return participant, nil
}

// ListByTournament returns participants with their teams attached, in
// registration order. Seeding callers re-sort by team overall.
func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	query := `
		SELECT p.id, p.tournament_id, p.user_id, p.guest_id, p.display_name, p.team_id, p.locked, p.created_at,
		       t.id, t.code, t.pool, t.name, t.short_name, t.primary_color, t.secondary_color, t.text_color,
		       t.overall, t.offense, t.defense, t.goalie
		FROM participants p
		LEFT JOIN teams t ON t.id = p.team_id
		WHERE p.tournament_id = $1
		ORDER BY p.created_at ASC, p.id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		var teamID sql.NullInt64
		var code, pool, name, shortName, primary, secondary, text sql.NullString
		var overall, offense, defense, goalie sql.NullInt64

		err := rows.Scan(
			&p.ID, &p.TournamentID, &p.UserID, &p.GuestID, &p.DisplayName, &p.TeamID, &p.Locked, &p.CreatedAt,
			&teamID, &code, &pool, &name, &shortName, &primary, &secondary, &text,
			&overall, &offense, &defense, &goalie,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		if teamID.Valid {
			p.Team = &models.Team{
				ID:             int(teamID.Int64),
				Code:           code.String,
				Pool:           models.TeamPool(pool.String),
				Name:           name.String,
				ShortName:      shortName.String,
				PrimaryColor:   primary.String,
				SecondaryColor: secondary.String,
				TextColor:      text.String,
				Overall:        int(overall.Int64),
				Offense:        int(offense.Int64),
				Defense:        int(defense.Int64),
				Goalie:         int(goalie.Int64),
			}
		}
		participants = append(participants, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) UpdateTeam(ctx context.Context, id int, teamID *int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE participants SET team_id = $1 WHERE id = $2`, teamID, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" && pqErr.Constraint == "participants_tournament_team_key" {
			return ErrTeamTaken
		}
		return fmt.Errorf("failed to update participant %d team: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) SetLocked(ctx context.Context, id int, locked bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE participants SET locked = $1 WHERE id = $2`, locked, id)
	if err != nil {
		return fmt.Errorf("failed to set participant %d locked: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) CreateGuest(ctx context.Context, guest *models.Guest) error {
	query := `
		INSERT INTO guests (id, tournament_id, name)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, guest.ID, guest.TournamentID, guest.Name).Scan(&guest.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create guest: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) GetGuest(ctx context.Context, id string) (*models.Guest, error) {
	query := `
		SELECT id, tournament_id, name, created_at
		FROM guests
		WHERE id = $1`

	guest := &models.Guest{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&guest.ID, &guest.TournamentID, &guest.Name, &guest.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuestNotFound
		}
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}
	return guest, nil
}
