package services

import (
	"context"
	"fmt"

	"github.com/frostpuck/hockey-tournaments/brackets"
	"github.com/frostpuck/hockey-tournaments/models"
	"github.com/frostpuck/hockey-tournaments/repositories"
	"golang.org/x/sync/errgroup"
)

// GroupTable is one group's table, ready for rendering.
type GroupTable struct {
	GroupID   int            `json:"group_id"`
	GroupCode string         `json:"group_code"`
	Rows      []StandingRow  `json:"rows"`
}

type StandingRow struct {
	models.GroupStanding
	Participant *models.Participant `json:"participant,omitempty"`
}

type StandingsService interface {
	GetGroupTables(ctx context.Context, tournamentID int) ([]GroupTable, error)
	GetGlobalPlacement(ctx context.Context, tournamentID int) (map[int]int, error)
}

type standingsService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	standingRepo    repositories.StandingRepository
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
) StandingsService {
	return &standingsService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		standingRepo:    standingRepo,
	}
}

// GetGroupTables пересчитывает производные колонки таблиц из
// заблокированных результатов при каждой загрузке.
func (s *standingsService) GetGroupTables(ctx context.Context, tournamentID int) ([]GroupTable, error) {
	standings, participants, groups, err := s.loadStandingsData(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	participantByID := make(map[int]*models.Participant, len(participants))
	for _, p := range participants {
		participantByID[p.ID] = p
	}
	codeByGroupID := make(map[int]string, len(groups))
	for _, g := range groups {
		codeByGroupID[g.ID] = g.GroupCode
	}

	tableByGroup := make(map[int]*GroupTable)
	var ordered []*GroupTable
	for _, row := range standings {
		table, ok := tableByGroup[row.GroupID]
		if !ok {
			table = &GroupTable{
				GroupID:   row.GroupID,
				GroupCode: codeByGroupID[row.GroupID],
			}
			tableByGroup[row.GroupID] = table
			ordered = append(ordered, table)
		}
		table.Rows = append(table.Rows, StandingRow{
			GroupStanding: row,
			Participant:   participantByID[row.ParticipantID],
		})
	}

	tables := make([]GroupTable, 0, len(ordered))
	for _, t := range ordered {
		tables = append(tables, *t)
	}
	return tables, nil
}

// GetGlobalPlacement нумерует всех участников сквозным зачётом для
// посева плей-офф.
func (s *standingsService) GetGlobalPlacement(ctx context.Context, tournamentID int) (map[int]int, error) {
	standings, _, _, err := s.loadStandingsData(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return brackets.GlobalPlacement(standings), nil
}

func (s *standingsService) loadStandingsData(ctx context.Context, tournamentID int) ([]models.GroupStanding, []*models.Participant, []*models.TournamentGroup, error) {
	var (
		matches      []models.MatchWithResult
		base         []models.GroupStanding
		participants []*models.Participant
		groups       []*models.TournamentGroup
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.matchRepo.ListByTournament(gCtx, tournamentID, repositories.MatchFilter{Stage: models.StageGroup})
		if err != nil {
			return fmt.Errorf("failed to load group matches: %w", err)
		}
		matches = list
		return nil
	})
	g.Go(func() error {
		list, err := s.standingRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load ranking rows: %w", err)
		}
		base = list
		return nil
	})
	g.Go(func() error {
		list, err := s.participantRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load participants: %w", err)
		}
		participants = list
		return nil
	})
	g.Go(func() error {
		list, err := s.tournamentRepo.ListGroups(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load groups: %w", err)
		}
		groups = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	standings := brackets.AggregateGroupStandings(matches, base)
	return standings, participants, groups, nil
}
