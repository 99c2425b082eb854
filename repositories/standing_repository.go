package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/frostpuck/hockey-tournaments/models"
)

type StandingRepository interface {
	ListByTournament(ctx context.Context, tournamentID int) ([]models.GroupStanding, error)
}

// postgresStandingRepository reads the group_rankings view. The view
// supplies points and the stored rank; goal and shots differentials are
// recomputed in code from locked results so the two never disagree with
// the match list.
type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.GroupStanding, error) {
	query := `
		SELECT tournament_id, group_id, participant_id, points, rank_in_group
		FROM group_rankings
		WHERE tournament_id = $1
		ORDER BY group_id ASC, rank_in_group ASC NULLS LAST, participant_id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	standings := make([]models.GroupStanding, 0)
	for rows.Next() {
		var s models.GroupStanding
		if err := rows.Scan(&s.TournamentID, &s.GroupID, &s.ParticipantID, &s.Points, &s.RankInGroup); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		standings = append(standings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during standing rows iteration: %w", err)
	}
	return standings, nil
}
