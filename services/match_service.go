package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frostpuck/hockey-tournaments/brackets"
	"github.com/frostpuck/hockey-tournaments/models"
	"github.com/frostpuck/hockey-tournaments/repositories"
)

// SubmitResultInput carries raw form values; validation parses them.
type SubmitResultInput struct {
	HomeScore string `json:"home_score"`
	AwayScore string `json:"away_score"`
	HomeShots string `json:"home_shots"`
	AwayShots string `json:"away_shots"`
	Decision  string `json:"decision"`
}

// MatchView joins a match with its display classification.
type MatchView struct {
	models.MatchWithResult
	Display brackets.MatchDisplay `json:"display"`
}

type MatchService interface {
	ListByTournament(ctx context.Context, tournamentID int, stage models.TournamentStage) ([]MatchView, error)
	SubmitResult(ctx context.Context, actorID, matchID int, input SubmitResultInput) (*models.MatchWithResult, error)
	LockResult(ctx context.Context, actorID, matchID int) (*models.MatchWithResult, error)
	UnlockResult(ctx context.Context, actorID, matchID int) (*models.MatchWithResult, error)
}

type matchService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	userRepo        repositories.UserRepository
	hub             *brackets.Hub
	logger          *slog.Logger
}

func NewMatchService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		userRepo:        userRepo,
		hub:             hub,
		logger:          logger,
	}
}

// ListByTournament возвращает матчи стадии, скрывая пропущенные
// bye-матчи из списков.
func (s *matchService) ListByTournament(ctx context.Context, tournamentID int, stage models.TournamentStage) ([]MatchView, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, repositories.MatchFilter{Stage: stage})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	views := make([]MatchView, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		if !brackets.IsDisplayable(m) {
			continue
		}
		views = append(views, MatchView{
			MatchWithResult: *m,
			Display:         brackets.Classify(m),
		})
	}
	return views, nil
}

// SubmitResult валидирует и сохраняет незаблокированный результат.
func (s *matchService) SubmitResult(ctx context.Context, actorID, matchID int, input SubmitResultInput) (*models.MatchWithResult, error) {
	match, err := s.loadEditableMatch(ctx, actorID, matchID)
	if err != nil {
		return nil, err
	}

	parsed, err := brackets.ValidateResult(
		input.HomeScore, input.AwayScore,
		input.HomeShots, input.AwayShots,
		models.Decision(input.Decision),
	)
	if err != nil {
		return nil, err
	}

	result := &models.MatchResult{
		MatchID:   matchID,
		HomeScore: parsed.HomeScore,
		AwayScore: parsed.AwayScore,
		HomeShots: parsed.HomeShots,
		AwayShots: parsed.AwayShots,
		Decision:  parsed.Decision,
	}
	if err := s.matchRepo.UpsertResult(ctx, result); err != nil {
		return nil, err
	}
	match.Result = result

	s.broadcast(match.TournamentID, brackets.EventMatchUpdated, match)
	return match, nil
}

// LockResult блокирует результат и продвигает победителя по сетке.
// Проигравший первого круга основной сетки, если пресет играет сетку
// размещения, опускается в неё по детерминированному правилу.
func (s *matchService) LockResult(ctx context.Context, actorID, matchID int) (*models.MatchWithResult, error) {
	match, err := s.loadEditableMatch(ctx, actorID, matchID)
	if err != nil {
		return nil, err
	}
	if match.Result == nil {
		return nil, ErrMatchNotPlayable
	}

	if err := s.matchRepo.SetResultLocked(ctx, matchID, true); err != nil {
		return nil, err
	}
	match.Result.Locked = true

	if match.Stage == models.StagePlayoff {
		if err := s.advanceWinner(ctx, match); err != nil {
			return nil, err
		}
		if err := s.routeLoserDown(ctx, match); err != nil {
			return nil, err
		}
		s.broadcast(match.TournamentID, brackets.EventBracketUpdated, map[string]interface{}{
			"tournament_id": match.TournamentID,
			"match_id":      match.ID,
		})
	} else {
		s.broadcast(match.TournamentID, brackets.EventStandingsUpdated, map[string]interface{}{
			"tournament_id": match.TournamentID,
		})
	}

	s.broadcast(match.TournamentID, brackets.EventMatchUpdated, match)
	return match, nil
}

// UnlockResult снимает блокировку. Доступно только хосту и только пока
// ни один матч ниже по сетке не заблокирован.
func (s *matchService) UnlockResult(ctx context.Context, actorID, matchID int) (*models.MatchWithResult, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}
	if err := ensureHostOrAdmin(ctx, s.tournamentRepo, s.userRepo, match.TournamentID, actorID); err != nil {
		return nil, err
	}
	if !match.HasLockedResult() {
		return nil, ErrResultNotLocked
	}

	if match.Stage == models.StagePlayoff {
		all, err := s.matchRepo.ListByTournament(ctx, match.TournamentID, repositories.MatchFilter{Stage: models.StagePlayoff})
		if err != nil {
			return nil, fmt.Errorf("failed to load playoff matches: %w", err)
		}
		idx := brackets.NewDescendantIndex(all)
		if idx.HasLockedDescendant(matchID) {
			return nil, ErrDownstreamResultLocked
		}
		if err := s.retractAdvancement(ctx, match, all); err != nil {
			return nil, err
		}
	}

	if err := s.matchRepo.SetResultLocked(ctx, matchID, false); err != nil {
		return nil, err
	}
	match.Result.Locked = false

	s.broadcast(match.TournamentID, brackets.EventMatchUpdated, match)
	return match, nil
}

func (s *matchService) loadEditableMatch(ctx context.Context, actorID, matchID int) (*models.MatchWithResult, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	if tournament.Status != models.StatusOngoing {
		return nil, ErrTournamentNotOngoing
	}

	if match.HomeParticipantID == nil || match.AwayParticipantID == nil {
		return nil, ErrMatchNotPlayable
	}
	if match.HasLockedResult() {
		return nil, ErrResultLocked
	}

	if err := s.ensureCanReport(ctx, actorID, match); err != nil {
		return nil, err
	}
	return match, nil
}

// ensureCanReport: результат вносит хост/админ или игрок одной из
// сторон матча.
func (s *matchService) ensureCanReport(ctx context.Context, actorID int, match *models.MatchWithResult) error {
	for _, side := range []*int{match.HomeParticipantID, match.AwayParticipantID} {
		if side == nil {
			continue
		}
		participant, err := s.participantRepo.GetByID(ctx, *side)
		if err != nil {
			continue
		}
		if participant.UserID != nil && *participant.UserID == actorID {
			return nil
		}
	}
	return ensureHostOrAdmin(ctx, s.tournamentRepo, s.userRepo, match.TournamentID, actorID)
}

func (s *matchService) advanceWinner(ctx context.Context, match *models.MatchWithResult) error {
	if match.NextMatchID == nil {
		return nil
	}
	side := models.SideHome
	if match.NextMatchSide != nil {
		side = *match.NextMatchSide
	}
	winner := match.WinnerID()
	if winner == nil {
		return nil
	}
	if err := s.matchRepo.SetParticipant(ctx, nil, *match.NextMatchID, side, winner); err != nil {
		return fmt.Errorf("failed to advance winner of match %d: %w", match.ID, err)
	}
	return nil
}

// routeLoserDown опускает проигравшего первого круга в сетку
// размещения.
func (s *matchService) routeLoserDown(ctx context.Context, match *models.MatchWithResult) error {
	if match.Bracket == nil || *match.Bracket != models.BracketWinners || match.Round != 1 {
		return nil
	}
	loser := match.LoserID()
	if loser == nil {
		return nil
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		return fmt.Errorf("failed to get tournament: %w", err)
	}
	if !tournament.Preset.HasLosersBracket() {
		return nil
	}

	w := models.BracketWinners
	winners, err := s.matchRepo.ListByTournament(ctx, match.TournamentID, repositories.MatchFilter{
		Stage:   models.StagePlayoff,
		Bracket: &w,
	})
	if err != nil {
		return fmt.Errorf("failed to load winners bracket: %w", err)
	}

	slot, side, ok := brackets.RouteLoser(winners, match.ID)
	if !ok {
		return nil
	}

	l := models.BracketLosers
	losers, err := s.matchRepo.ListByTournament(ctx, match.TournamentID, repositories.MatchFilter{
		Stage:   models.StagePlayoff,
		Bracket: &l,
	})
	if err != nil {
		return fmt.Errorf("failed to load placement bracket: %w", err)
	}
	for i := range losers {
		m := &losers[i]
		if m.Round == 1 && m.BracketSlot == slot {
			if err := s.matchRepo.SetParticipant(ctx, nil, m.ID, side, loser); err != nil {
				return fmt.Errorf("failed to route loser of match %d: %w", match.ID, err)
			}
			return nil
		}
	}
	s.logger.Warn("placement slot not found for routed loser",
		slog.Int("match_id", match.ID), slog.Int("slot", slot))
	return nil
}

// retractAdvancement убирает уже продвинутые стороны перед разблокировкой.
func (s *matchService) retractAdvancement(ctx context.Context, match *models.MatchWithResult, all []models.MatchWithResult) error {
	winner := match.WinnerID()
	if winner != nil && match.NextMatchID != nil {
		side := models.SideHome
		if match.NextMatchSide != nil {
			side = *match.NextMatchSide
		}
		if err := s.matchRepo.SetParticipant(ctx, nil, *match.NextMatchID, side, nil); err != nil {
			return fmt.Errorf("failed to retract winner of match %d: %w", match.ID, err)
		}
	}

	loser := match.LoserID()
	if loser == nil {
		return nil
	}
	for i := range all {
		m := &all[i]
		if m.Bracket == nil || *m.Bracket != models.BracketLosers {
			continue
		}
		if m.HomeParticipantID != nil && *m.HomeParticipantID == *loser {
			if err := s.matchRepo.SetParticipant(ctx, nil, m.ID, models.SideHome, nil); err != nil {
				return fmt.Errorf("failed to retract routed loser: %w", err)
			}
		}
		if m.AwayParticipantID != nil && *m.AwayParticipantID == *loser {
			if err := s.matchRepo.SetParticipant(ctx, nil, m.ID, models.SideAway, nil); err != nil {
				return fmt.Errorf("failed to retract routed loser: %w", err)
			}
		}
	}
	return nil
}

func (s *matchService) broadcast(tournamentID int, event string, payload interface{}) {
	if s.hub != nil {
		s.hub.BroadcastToTournament(tournamentID, event, payload)
	}
}
