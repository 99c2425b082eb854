package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/frostpuck/hockey-tournaments/models"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchResultNotFound = errors.New("match result not found")
)

// MatchFilter narrows ListByTournament. Zero value means no filtering.
type MatchFilter struct {
	Stage   models.TournamentStage
	Bracket *models.BracketType
	GroupID *int
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.MatchWithResult, error)
	ListByTournament(ctx context.Context, tournamentID int, filter MatchFilter) ([]models.MatchWithResult, error)
	SetNextMatchInfo(ctx context.Context, exec SQLExecutor, matchID int, nextMatchID int, side models.MatchSide) error
	SetParticipant(ctx context.Context, exec SQLExecutor, matchID int, side models.MatchSide, participantID *int) error
	DeleteByStage(ctx context.Context, exec SQLExecutor, tournamentID int, stage models.TournamentStage) error

	UpsertResult(ctx context.Context, result *models.MatchResult) error
	SetResultLocked(ctx context.Context, matchID int, locked bool) error
	DeleteResult(ctx context.Context, matchID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO matches (tournament_id, stage, bracket, round, bracket_slot, group_id,
		                     next_match_id, next_match_side, home_participant_id, away_participant_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.TournamentID,
		match.Stage,
		match.Bracket,
		match.Round,
		match.BracketSlot,
		match.GroupID,
		match.NextMatchID,
		match.NextMatchSide,
		match.HomeParticipantID,
		match.AwayParticipantID,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func scanMatchWithResult(rowScanner interface {
	Scan(dest ...interface{}) error
}, m *models.MatchWithResult) error {
	var (
		homeScore, awayScore sql.NullInt64
		homeShots, awayShots sql.NullInt64
		decision             sql.NullString
		locked               sql.NullBool
	)
	err := rowScanner.Scan(
		&m.ID,
		&m.TournamentID,
		&m.Stage,
		&m.Bracket,
		&m.Round,
		&m.BracketSlot,
		&m.GroupID,
		&m.NextMatchID,
		&m.NextMatchSide,
		&m.HomeParticipantID,
		&m.AwayParticipantID,
		&m.CreatedAt,
		&homeScore,
		&awayScore,
		&homeShots,
		&awayShots,
		&decision,
		&locked,
	)
	if err != nil {
		return err
	}
	if decision.Valid {
		m.Result = &models.MatchResult{
			MatchID:   m.ID,
			HomeScore: int(homeScore.Int64),
			AwayScore: int(awayScore.Int64),
			HomeShots: int(homeShots.Int64),
			AwayShots: int(awayShots.Int64),
			Decision:  models.Decision(decision.String),
			Locked:    locked.Bool,
		}
	}
	return nil
}

const matchSelectColumns = `
	m.id, m.tournament_id, m.stage, m.bracket, m.round, m.bracket_slot, m.group_id,
	m.next_match_id, m.next_match_side, m.home_participant_id, m.away_participant_id, m.created_at,
	r.home_score, r.away_score, r.home_shots, r.away_shots, r.decision, r.locked`

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.MatchWithResult, error) {
	query := `
		SELECT` + matchSelectColumns + `
		FROM matches m
		LEFT JOIN match_results r ON r.match_id = m.id
		WHERE m.id = $1`

	match := &models.MatchWithResult{}
	if err := scanMatchWithResult(r.db.QueryRowContext(ctx, query, id), match); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, filter MatchFilter) ([]models.MatchWithResult, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT` + matchSelectColumns + `
		FROM matches m
		LEFT JOIN match_results r ON r.match_id = m.id
		WHERE m.tournament_id = $1`)

	args := []interface{}{tournamentID}
	argPos := 2

	if filter.Stage != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND m.stage = $%d", argPos))
		args = append(args, filter.Stage)
		argPos++
	}
	if filter.Bracket != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND m.bracket = $%d", argPos))
		args = append(args, *filter.Bracket)
		argPos++
	}
	if filter.GroupID != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND m.group_id = $%d", argPos))
		args = append(args, *filter.GroupID)
		argPos++
	}
	queryBuilder.WriteString(" ORDER BY m.round ASC, m.bracket_slot ASC, m.id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]models.MatchWithResult, 0)
	for rows.Next() {
		var m models.MatchWithResult
		if err := scanMatchWithResult(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) SetNextMatchInfo(ctx context.Context, exec SQLExecutor, matchID int, nextMatchID int, side models.MatchSide) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx,
		`UPDATE matches SET next_match_id = $1, next_match_side = $2 WHERE id = $3`,
		nextMatchID, side, matchID)
	if err != nil {
		return fmt.Errorf("failed to set next match info for match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetParticipant(ctx context.Context, exec SQLExecutor, matchID int, side models.MatchSide, participantID *int) error {
	if exec == nil {
		exec = r.db
	}
	column := "home_participant_id"
	if side == models.SideAway {
		column = "away_participant_id"
	}
	result, err := exec.ExecContext(ctx,
		fmt.Sprintf(`UPDATE matches SET %s = $1 WHERE id = $2`, column),
		participantID, matchID)
	if err != nil {
		return fmt.Errorf("failed to set %s for match %d: %w", column, matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByStage(ctx context.Context, exec SQLExecutor, tournamentID int, stage models.TournamentStage) error {
	if exec == nil {
		exec = r.db
	}
	if _, err := exec.ExecContext(ctx,
		`DELETE FROM matches WHERE tournament_id = $1 AND stage = $2`,
		tournamentID, stage); err != nil {
		return fmt.Errorf("failed to delete %s matches for tournament %d: %w", stage, tournamentID, err)
	}
	return nil
}

func (r *postgresMatchRepository) UpsertResult(ctx context.Context, result *models.MatchResult) error {
	query := `
		INSERT INTO match_results (match_id, home_score, away_score, home_shots, away_shots, decision, locked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (match_id) DO UPDATE SET
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			home_shots = EXCLUDED.home_shots,
			away_shots = EXCLUDED.away_shots,
			decision   = EXCLUDED.decision,
			locked     = EXCLUDED.locked`

	_, err := r.db.ExecContext(ctx, query,
		result.MatchID,
		result.HomeScore,
		result.AwayScore,
		result.HomeShots,
		result.AwayShots,
		result.Decision,
		result.Locked,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert result for match %d: %w", result.MatchID, err)
	}
	return nil
}

func (r *postgresMatchRepository) SetResultLocked(ctx context.Context, matchID int, locked bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE match_results SET locked = $1 WHERE match_id = $2`,
		locked, matchID)
	if err != nil {
		return fmt.Errorf("failed to set result locked for match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchResultNotFound)
}

func (r *postgresMatchRepository) DeleteResult(ctx context.Context, matchID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM match_results WHERE match_id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("failed to delete result for match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchResultNotFound)
}
