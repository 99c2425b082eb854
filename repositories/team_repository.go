package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frostpuck/hockey-tournaments/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByPool(ctx context.Context, pool models.TeamPool) ([]*models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) scanTeam(rowScanner interface {
	Scan(dest ...interface{}) error
}, t *models.Team) error {
	return rowScanner.Scan(
		&t.ID,
		&t.Code,
		&t.Pool,
		&t.Name,
		&t.ShortName,
		&t.PrimaryColor,
		&t.SecondaryColor,
		&t.TextColor,
		&t.Overall,
		&t.Offense,
		&t.Defense,
		&t.Goalie,
	)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, code, pool, name, short_name, primary_color, secondary_color, text_color,
		       overall, offense, defense, goalie
		FROM teams
		WHERE id = $1`

	team := &models.Team{}
	if err := r.scanTeam(r.db.QueryRowContext(ctx, query, id), team); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return team, nil
}

func (r *postgresTeamRepository) ListByPool(ctx context.Context, pool models.TeamPool) ([]*models.Team, error) {
	query := `
		SELECT id, code, pool, name, short_name, primary_color, secondary_color, text_color,
		       overall, offense, defense, goalie
		FROM teams
		WHERE pool = $1
		ORDER BY overall DESC, name ASC`

	rows, err := r.db.QueryContext(ctx, query, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for pool %s: %w", pool, err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := r.scanTeam(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team rows iteration: %w", err)
	}
	return teams, nil
}
