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
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMemberNotFound     = errors.New("tournament member not found")
	ErrMemberExists       = errors.New("user is already a member of this tournament")
	ErrGroupNotFound      = errors.New("tournament group not found")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Tournament, error)
	UpdateStage(ctx context.Context, exec SQLExecutor, id int, stage models.TournamentStage) error
	UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error

	AddMember(ctx context.Context, member *models.TournamentMember) error
	GetMember(ctx context.Context, tournamentID, userID int) (*models.TournamentMember, error)
	ListMembers(ctx context.Context, tournamentID int) ([]*models.TournamentMember, error)
	RemoveMember(ctx context.Context, tournamentID, userID int) error

	CreateGroups(ctx context.Context, exec SQLExecutor, tournamentID int, groupCodes []string) ([]*models.TournamentGroup, error)
	ListGroups(ctx context.Context, tournamentID int) ([]*models.TournamentGroup, error)
	DeleteGroups(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, preset, team_pool, default_participants, group_count, stage, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		tournament.Name,
		tournament.Preset,
		tournament.TeamPool,
		tournament.DefaultParticipants,
		tournament.GroupCount,
		tournament.Stage,
		tournament.Status,
		tournament.CreatedBy,
	).Scan(&tournament.ID, &tournament.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) scanTournament(rowScanner interface {
	Scan(dest ...interface{}) error
}, t *models.Tournament) error {
	return rowScanner.Scan(
		&t.ID,
		&t.Name,
		&t.Preset,
		&t.TeamPool,
		&t.DefaultParticipants,
		&t.GroupCount,
		&t.Stage,
		&t.Status,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.LogoKey,
	)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT id, name, preset, team_pool, default_participants, group_count, stage, status, created_by, created_at, logo_key
		FROM tournaments
		WHERE id = $1`

	tournament := &models.Tournament{}
	if err := r.scanTournament(r.db.QueryRowContext(ctx, query, id), tournament); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return tournament, nil
}

func (r *postgresTournamentRepository) ListByUser(ctx context.Context, userID int) ([]*models.Tournament, error) {
	query := `
		SELECT t.id, t.name, t.preset, t.team_pool, t.default_participants, t.group_count, t.stage, t.status, t.created_by, t.created_at, t.logo_key
		FROM tournaments t
		JOIN tournament_members m ON m.tournament_id = t.id
		WHERE m.user_id = $1
		ORDER BY t.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments for user %d: %w", userID, err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := r.scanTournament(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) UpdateStage(ctx context.Context, exec SQLExecutor, id int, stage models.TournamentStage) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE tournaments SET stage = $1 WHERE id = $2`, stage, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament %d stage: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament %d status: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament %d logo: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) AddMember(ctx context.Context, member *models.TournamentMember) error {
	query := `
		INSERT INTO tournament_members (tournament_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		member.TournamentID,
		member.UserID,
		member.Role,
	).Scan(&member.ID, &member.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch {
			case pqErr.Code == "23505":
				return ErrMemberExists
			case pqErr.Code == "23503" && pqErr.Constraint == "tournament_members_tournament_id_fkey":
				return ErrTournamentNotFound
			case pqErr.Code == "23503" && pqErr.Constraint == "tournament_members_user_id_fkey":
				return ErrUserNotFound
			}
		}
		return fmt.Errorf("failed to add tournament member: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetMember(ctx context.Context, tournamentID, userID int) (*models.TournamentMember, error) {
	query := `
		SELECT id, tournament_id, user_id, role, created_at
		FROM tournament_members
		WHERE tournament_id = $1 AND user_id = $2`

	member := &models.TournamentMember{}
	err := r.db.QueryRowContext(ctx, query, tournamentID, userID).Scan(
		&member.ID,
		&member.TournamentID,
		&member.UserID,
		&member.Role,
		&member.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get tournament member: %w", err)
	}
	return member, nil
}

func (r *postgresTournamentRepository) ListMembers(ctx context.Context, tournamentID int) ([]*models.TournamentMember, error) {
	query := `
		SELECT m.id, m.tournament_id, m.user_id, m.role, m.created_at,
		       u.id, u.nickname, u.email, u.role, u.created_at
		FROM tournament_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.tournament_id = $1
		ORDER BY m.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	members := make([]*models.TournamentMember, 0)
	for rows.Next() {
		var m models.TournamentMember
		var u models.User
		err := rows.Scan(
			&m.ID, &m.TournamentID, &m.UserID, &m.Role, &m.CreatedAt,
			&u.ID, &u.Nickname, &u.Email, &u.Role, &u.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		m.User = &u
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during member rows iteration: %w", err)
	}
	return members, nil
}

func (r *postgresTournamentRepository) RemoveMember(ctx context.Context, tournamentID, userID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tournament_members WHERE tournament_id = $1 AND user_id = $2`,
		tournamentID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove tournament member: %w", err)
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}

func (r *postgresTournamentRepository) CreateGroups(ctx context.Context, exec SQLExecutor, tournamentID int, groupCodes []string) ([]*models.TournamentGroup, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO tournament_groups (tournament_id, group_code)
		VALUES ($1, $2)
		RETURNING id`

	groups := make([]*models.TournamentGroup, 0, len(groupCodes))
	for _, code := range groupCodes {
		group := &models.TournamentGroup{TournamentID: tournamentID, GroupCode: code}
		if err := exec.QueryRowContext(ctx, query, tournamentID, code).Scan(&group.ID); err != nil {
			return nil, fmt.Errorf("failed to create group %s: %w", code, err)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (r *postgresTournamentRepository) ListGroups(ctx context.Context, tournamentID int) ([]*models.TournamentGroup, error) {
	query := `
		SELECT id, tournament_id, group_code
		FROM tournament_groups
		WHERE tournament_id = $1
		ORDER BY group_code ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	groups := make([]*models.TournamentGroup, 0)
	for rows.Next() {
		var g models.TournamentGroup
		if err := rows.Scan(&g.ID, &g.TournamentID, &g.GroupCode); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during group rows iteration: %w", err)
	}
	return groups, nil
}

func (r *postgresTournamentRepository) DeleteGroups(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	if exec == nil {
		exec = r.db
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM tournament_groups WHERE tournament_id = $1`, tournamentID); err != nil {
		return fmt.Errorf("failed to delete groups for tournament %d: %w", tournamentID, err)
	}
	return nil
}
