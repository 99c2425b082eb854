package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/frostpuck/hockey-tournaments/models"
	"github.com/frostpuck/hockey-tournaments/repositories"
)

// TeamView декорирует команду производными полями для пикера.
type TeamView struct {
	models.Team
	Tier    models.TeamTier `json:"tier"`
	LogoURL string          `json:"logo_url"`
}

type TeamService interface {
	ListByPool(ctx context.Context, pool models.TeamPool, tierFilter *models.TeamTier) ([]TeamView, error)
	GetByID(ctx context.Context, id int) (*TeamView, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
}

func NewTeamService(teamRepo repositories.TeamRepository) TeamService {
	return &teamService{teamRepo: teamRepo}
}

func (s *teamService) ListByPool(ctx context.Context, pool models.TeamPool, tierFilter *models.TeamTier) ([]TeamView, error) {
	if pool != models.PoolNHL && pool != models.PoolINTL {
		return nil, ErrInvalidTeamPool
	}
	teams, err := s.teamRepo.ListByPool(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	views := make([]TeamView, 0, len(teams))
	for _, team := range teams {
		if tierFilter != nil && !team.MatchesFilter(*tierFilter) {
			continue
		}
		views = append(views, newTeamView(*team))
	}
	return views, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*TeamView, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	view := newTeamView(*team)
	return &view, nil
}

func newTeamView(team models.Team) TeamView {
	return TeamView{
		Team:    team,
		Tier:    team.Tier(),
		LogoURL: team.LogoURL(),
	}
}
