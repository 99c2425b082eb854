package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/frostpuck/hockey-tournaments/brackets"
	"github.com/frostpuck/hockey-tournaments/models"
	"github.com/frostpuck/hockey-tournaments/repositories"
	"golang.org/x/sync/errgroup"
)

var groupCodes = []string{"A", "B", "C", "D"}

// PlacementRow is one line of the final placement table.
type PlacementRow struct {
	Rank        int                 `json:"rank"`
	Medal       *brackets.Medal     `json:"medal,omitempty"`
	Participant *models.Participant `json:"participant,omitempty"`
}

// BracketView is the full playoff snapshot for one tournament.
type BracketView struct {
	TournamentID int              `json:"tournament_id"`
	Winners      []brackets.Round `json:"winners"`
	Losers       []brackets.Round `json:"losers,omitempty"`
	Placements   []PlacementRow   `json:"placements,omitempty"`
}

type BracketService interface {
	GenerateGroupStage(ctx context.Context, hostID, tournamentID int) error
	GeneratePlayoffBracket(ctx context.Context, hostID, tournamentID int) error
	GetBracketView(ctx context.Context, tournamentID int) (*BracketView, error)
}

type bracketService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	standingRepo    repositories.StandingRepository
	userRepo        repositories.UserRepository
	hub             *brackets.Hub
	logger          *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	userRepo repositories.UserRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		standingRepo:    standingRepo,
		userRepo:        userRepo,
		hub:             hub,
		logger:          logger,
	}
}

// GenerateGroupStage создаёт группы и круговое расписание, переводит
// турнир в Ongoing.
func (s *bracketService) GenerateGroupStage(ctx context.Context, hostID, tournamentID int) error {
	tournament, participants, err := s.loadForGeneration(ctx, hostID, tournamentID)
	if err != nil {
		return err
	}
	if !tournament.Preset.HasGroupStage() {
		return ErrWrongStage
	}
	if tournament.Status != models.StatusDraft {
		return ErrStageAlreadyGenerated
	}

	requested := 1
	if tournament.GroupCount != nil {
		requested = *tournament.GroupCount
	}
	groupCount, note, err := brackets.SanitizeGroupCount(len(participants), requested)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if note != "" {
		s.logger.Info("group count adjusted for generation",
			slog.Int("tournament_id", tournamentID), slog.String("note", note))
	}

	generator := brackets.NewGroupStageGenerator(groupCount)
	blueprints, err := generator.Generate(ctx, brackets.GenerateParams{
		Tournament:   tournament,
		Participants: participants,
	})
	if err != nil {
		return fmt.Errorf("group stage generation failed: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	groups, err := s.tournamentRepo.CreateGroups(ctx, tx, tournamentID, groupCodes[:groupCount])
	if err != nil {
		return err
	}

	for _, bm := range blueprints {
		if bm.GroupIndex >= len(groups) {
			return fmt.Errorf("blueprint references unknown group index %d", bm.GroupIndex)
		}
		match := &models.Match{
			TournamentID:      tournamentID,
			Stage:             models.StageGroup,
			Round:             bm.Round,
			BracketSlot:       bm.Slot,
			GroupID:           &groups[bm.GroupIndex].ID,
			HomeParticipantID: bm.HomeID,
			AwayParticipantID: bm.AwayID,
		}
		if err := s.matchRepo.Create(ctx, tx, match); err != nil {
			return err
		}
	}

	if err := s.tournamentRepo.UpdateStage(ctx, tx, tournamentID, models.StageGroup); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit group stage: %w", err)
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, tournamentID, models.StatusOngoing); err != nil {
		return fmt.Errorf("group stage saved, failed to update status: %w", err)
	}

	s.broadcast(tournamentID, brackets.EventBracketUpdated, map[string]interface{}{
		"tournament_id": tournamentID,
		"stage":         models.StageGroup,
		"generator":     generator.Name(),
	})
	return nil
}

// GeneratePlayoffBracket строит сетку плей-офф. Для пресетов с группами
// посев берётся из глобального зачёта, который доступен только после
// блокировки всех групповых результатов.
func (s *bracketService) GeneratePlayoffBracket(ctx context.Context, hostID, tournamentID int) error {
	tournament, participants, err := s.loadForGeneration(ctx, hostID, tournamentID)
	if err != nil {
		return err
	}

	existing, err := s.matchRepo.ListByTournament(ctx, tournamentID, repositories.MatchFilter{Stage: models.StagePlayoff})
	if err != nil {
		return fmt.Errorf("failed to check existing playoff matches: %w", err)
	}
	if len(existing) > 0 {
		return ErrStageAlreadyGenerated
	}

	seeded, err := s.seedParticipants(ctx, tournament, participants)
	if err != nil {
		return err
	}

	generator := brackets.NewPlayoffGenerator(tournament.Preset.HasLosersBracket())
	blueprints, err := generator.Generate(ctx, brackets.GenerateParams{
		Tournament:   tournament,
		Participants: seeded,
	})
	if err != nil {
		if errors.Is(err, brackets.ErrNotEnoughParticipants) {
			return ErrParticipantCountRange
		}
		return fmt.Errorf("playoff generation failed: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Первый проход: создаём строки, запоминая id по позиции.
	type position struct {
		bracket models.BracketType
		round   int
		slot    int
	}
	created := make(map[position]*models.Match, len(blueprints))
	for _, bm := range blueprints {
		bracket := bm.Bracket
		match := &models.Match{
			TournamentID:      tournamentID,
			Stage:             models.StagePlayoff,
			Bracket:           &bracket,
			Round:             bm.Round,
			BracketSlot:       bm.Slot,
			HomeParticipantID: bm.HomeID,
			AwayParticipantID: bm.AwayID,
		}
		if err := s.matchRepo.Create(ctx, tx, match); err != nil {
			return err
		}
		created[position{bm.Bracket, bm.Round, bm.Slot}] = match
	}

	// Второй проход: переводим позиционные ссылки в next_match_id.
	for _, bm := range blueprints {
		if bm.NextRound == 0 {
			continue
		}
		from := created[position{bm.Bracket, bm.Round, bm.Slot}]
		to := created[position{bm.NextBracket, bm.NextRound, bm.NextSlot}]
		if from == nil || to == nil {
			return fmt.Errorf("advancement wiring references a missing match (round %d slot %d)", bm.NextRound, bm.NextSlot)
		}
		if err := s.matchRepo.SetNextMatchInfo(ctx, tx, from.ID, to.ID, bm.NextSide); err != nil {
			return err
		}
		from.NextMatchID = &to.ID
		side := bm.NextSide
		from.NextMatchSide = &side
	}

	// Проверяем согласованность графа до коммита.
	snapshot := make([]models.MatchWithResult, 0, len(created))
	for _, m := range created {
		snapshot = append(snapshot, models.MatchWithResult{Match: *m})
	}
	if err := brackets.ValidateBracketGraph(snapshot); err != nil {
		return fmt.Errorf("generated bracket failed validation: %w", err)
	}

	if err := s.tournamentRepo.UpdateStage(ctx, tx, tournamentID, models.StagePlayoff); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit playoff bracket: %w", err)
	}

	if tournament.Status == models.StatusDraft {
		if err := s.tournamentRepo.UpdateStatus(ctx, tournamentID, models.StatusOngoing); err != nil {
			return fmt.Errorf("bracket saved, failed to update status: %w", err)
		}
	}

	s.broadcast(tournamentID, brackets.EventBracketUpdated, map[string]interface{}{
		"tournament_id": tournamentID,
		"stage":         models.StagePlayoff,
		"generator":     generator.Name(),
	})
	return nil
}

// GetBracketView собирает снапшот плей-офф: обе сетки и, когда всё
// сыграно, таблицу итоговых мест.
func (s *bracketService) GetBracketView(ctx context.Context, tournamentID int) (*BracketView, error) {
	var (
		winners, losers []models.MatchWithResult
		participants    []*models.Participant
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w := models.BracketWinners
		matches, err := s.matchRepo.ListByTournament(gCtx, tournamentID, repositories.MatchFilter{
			Stage:   models.StagePlayoff,
			Bracket: &w,
		})
		if err != nil {
			return fmt.Errorf("failed to load winners bracket: %w", err)
		}
		winners = matches
		return nil
	})
	g.Go(func() error {
		l := models.BracketLosers
		matches, err := s.matchRepo.ListByTournament(gCtx, tournamentID, repositories.MatchFilter{
			Stage:   models.StagePlayoff,
			Bracket: &l,
		})
		if err != nil {
			return fmt.Errorf("failed to load placement bracket: %w", err)
		}
		losers = matches
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
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &BracketView{
		TournamentID: tournamentID,
		Winners:      brackets.BuildBracket(winners, brackets.BuildOptions{}),
		Losers:       brackets.BuildBracket(losers, brackets.BuildOptions{OmitUndecided: true}),
	}

	placements := brackets.ResolvePlacements(winners, losers)
	if placements.Resolved() {
		byID := make(map[int]*models.Participant, len(participants))
		for _, p := range participants {
			byID[p.ID] = p
		}
		for _, p := range participants {
			rank, ok := placements.RankOf(p.ID)
			if !ok || !placements.RevealedFor(p.ID) {
				continue
			}
			row := PlacementRow{Rank: rank, Participant: byID[p.ID]}
			if medal, ok := placements.MedalOf(p.ID); ok {
				m := medal
				row.Medal = &m
			}
			view.Placements = append(view.Placements, row)
		}
		sort.Slice(view.Placements, func(i, j int) bool {
			return view.Placements[i].Rank < view.Placements[j].Rank
		})
	}

	return view, nil
}

func (s *bracketService) loadForGeneration(ctx context.Context, hostID, tournamentID int) (*models.Tournament, []*models.Participant, error) {
	if err := ensureHostOrAdmin(ctx, s.tournamentRepo, s.userRepo, tournamentID, hostID); err != nil {
		return nil, nil, err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, nil, ErrTournamentNotFound
		}
		return nil, nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}
	if tournament.Status == models.StatusClosed {
		return nil, nil, ErrWrongStage
	}

	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list participants: %w", err)
	}
	if len(participants) < MinParticipants || len(participants) > MaxParticipants {
		return nil, nil, ErrParticipantCountRange
	}
	for _, p := range participants {
		if !p.ReadyForDraw() {
			return nil, nil, ErrParticipantsNotReady
		}
	}
	return tournament, participants, nil
}

// seedParticipants определяет порядок посева. Без группового этапа сеют
// по рейтингу команды, после группового этапа по глобальному зачёту.
func (s *bracketService) seedParticipants(ctx context.Context, tournament *models.Tournament, participants []*models.Participant) ([]*models.Participant, error) {
	seeded := make([]*models.Participant, len(participants))
	copy(seeded, participants)

	if !tournament.Preset.HasGroupStage() {
		sort.SliceStable(seeded, func(i, j int) bool {
			a, b := seeded[i], seeded[j]
			ao, bo := 0, 0
			if a.Team != nil {
				ao = a.Team.Overall
			}
			if b.Team != nil {
				bo = b.Team.Overall
			}
			if ao != bo {
				return ao > bo
			}
			return a.ID < b.ID
		})
		return seeded, nil
	}

	groupMatches, err := s.matchRepo.ListByTournament(ctx, tournament.ID, repositories.MatchFilter{Stage: models.StageGroup})
	if err != nil {
		return nil, fmt.Errorf("failed to load group matches: %w", err)
	}
	if len(groupMatches) == 0 {
		return nil, ErrWrongStage
	}
	for i := range groupMatches {
		m := &groupMatches[i]
		if m.HomeParticipantID != nil && m.AwayParticipantID != nil && !m.HasLockedResult() {
			return nil, ErrGroupStageNotFinished
		}
	}

	base, err := s.standingRepo.ListByTournament(ctx, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load standings: %w", err)
	}
	standings := brackets.AggregateGroupStandings(groupMatches, base)
	places := brackets.GlobalPlacement(standings)

	sort.SliceStable(seeded, func(i, j int) bool {
		pi, iOK := places[seeded[i].ID]
		pj, jOK := places[seeded[j].ID]
		if iOK != jOK {
			return iOK
		}
		if pi != pj {
			return pi < pj
		}
		return seeded[i].ID < seeded[j].ID
	})
	return seeded, nil
}

func (s *bracketService) broadcast(tournamentID int, event string, payload interface{}) {
	if s.hub != nil {
		s.hub.BroadcastToTournament(tournamentID, event, payload)
	}
}
