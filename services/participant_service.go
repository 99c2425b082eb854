package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/frostpuck/hockey-tournaments/models"
	"github.com/frostpuck/hockey-tournaments/repositories"
	"github.com/google/uuid"
)

type ParticipantService interface {
	AddUserParticipant(ctx context.Context, hostID, tournamentID, userID int) (*models.Participant, error)
	AddGuestParticipant(ctx context.Context, hostID, tournamentID int, name string) (*models.Participant, *models.Guest, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error)
	AssignTeam(ctx context.Context, actorID, participantID int, teamID *int) (*models.Participant, error)
	RandomizeTeams(ctx context.Context, hostID, tournamentID int, tierFilter *models.TeamTier) ([]models.Participant, error)
	SetLocked(ctx context.Context, actorID, participantID int, locked bool) (*models.Participant, error)
	Remove(ctx context.Context, hostID, participantID int) error
}

type participantService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	teamRepo        repositories.TeamRepository
	userRepo        repositories.UserRepository
}

func NewParticipantService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
) ParticipantService {
	return &participantService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		teamRepo:        teamRepo,
		userRepo:        userRepo,
	}
}

func (s *participantService) AddUserParticipant(ctx context.Context, hostID, tournamentID, userID int) (*models.Participant, error) {
	tournament, err := s.loadDraftTournament(ctx, hostID, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCapacity(ctx, tournament); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	if err := ensureMember(ctx, s.tournamentRepo, tournamentID, userID); err != nil {
		return nil, err
	}

	participant := &models.Participant{
		TournamentID: tournamentID,
		UserID:       &user.ID,
		DisplayName:  user.Nickname,
	}
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		if errors.Is(err, repositories.ErrParticipantExists) {
			return nil, ErrParticipantConflict
		}
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}
	return participant, nil
}

// AddGuestParticipant создаёт гостя без аккаунта. UUID гостя служит
// ссылкой-приглашением.
func (s *participantService) AddGuestParticipant(ctx context.Context, hostID, tournamentID int, name string) (*models.Participant, *models.Guest, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, ErrValidationFailed
	}

	tournament, err := s.loadDraftTournament(ctx, hostID, tournamentID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkCapacity(ctx, tournament); err != nil {
		return nil, nil, err
	}

	guest := &models.Guest{
		ID:           uuid.NewString(),
		TournamentID: tournamentID,
		Name:         name,
	}
	if err := s.participantRepo.CreateGuest(ctx, guest); err != nil {
		return nil, nil, fmt.Errorf("failed to create guest: %w", err)
	}

	participant := &models.Participant{
		TournamentID: tournamentID,
		GuestID:      &guest.ID,
		DisplayName:  name,
	}
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		return nil, nil, fmt.Errorf("failed to create guest participant: %w", err)
	}
	return participant, guest, nil
}

func (s *participantService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error) {
	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participantsToValues(participants), nil
}

// AssignTeam ставит или снимает команду. Разрешено хосту и самому
// участнику, пока слот не заблокирован.
func (s *participantService) AssignTeam(ctx context.Context, actorID, participantID int, teamID *int) (*models.Participant, error) {
	participant, err := s.loadEditableParticipant(ctx, actorID, participantID)
	if err != nil {
		return nil, err
	}

	if teamID != nil {
		tournament, err := s.tournamentRepo.GetByID(ctx, participant.TournamentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get tournament: %w", err)
		}
		team, err := s.teamRepo.GetByID(ctx, *teamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to get team %d: %w", *teamID, err)
		}
		if team.Pool != tournament.TeamPool {
			return nil, ErrTeamPoolMismatch
		}
		participant.Team = team
	} else {
		participant.Team = nil
	}

	if err := s.participantRepo.UpdateTeam(ctx, participantID, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamTaken) {
			return nil, ErrTeamTakenConflict
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	participant.TeamID = teamID
	return participant, nil
}

// RandomizeTeams раздаёт свободные команды пула всем участникам без
// команды. Фильтр по тиру сужает колоду.
func (s *participantService) RandomizeTeams(ctx context.Context, hostID, tournamentID int, tierFilter *models.TeamTier) ([]models.Participant, error) {
	tournament, err := s.loadDraftTournament(ctx, hostID, tournamentID)
	if err != nil {
		return nil, err
	}

	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	teams, err := s.teamRepo.ListByPool(ctx, tournament.TeamPool)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	taken := make(map[int]bool)
	var unassigned []*models.Participant
	for _, p := range participants {
		if p.TeamID != nil {
			taken[*p.TeamID] = true
			continue
		}
		if !p.Locked {
			unassigned = append(unassigned, p)
		}
	}

	deck := make([]*models.Team, 0, len(teams))
	for _, t := range teams {
		if taken[t.ID] {
			continue
		}
		if tierFilter != nil && !t.MatchesFilter(*tierFilter) {
			continue
		}
		deck = append(deck, t)
	}
	if len(deck) < len(unassigned) {
		return nil, ErrNoTeamsLeft
	}

	rand.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	for i, p := range unassigned {
		team := deck[i]
		if err := s.participantRepo.UpdateTeam(ctx, p.ID, &team.ID); err != nil {
			return nil, fmt.Errorf("failed to assign team %d to participant %d: %w", team.ID, p.ID, err)
		}
		p.TeamID = &team.ID
		p.Team = team
	}

	return participantsToValues(participants), nil
}

func (s *participantService) SetLocked(ctx context.Context, actorID, participantID int, locked bool) (*models.Participant, error) {
	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant %d: %w", participantID, err)
	}

	if err := s.ensureCanEdit(ctx, actorID, participant); err != nil {
		return nil, err
	}
	if locked && participant.TeamID == nil {
		return nil, ErrValidationFailed
	}

	if err := s.participantRepo.SetLocked(ctx, participantID, locked); err != nil {
		return nil, fmt.Errorf("failed to set locked: %w", err)
	}
	participant.Locked = locked
	return participant, nil
}

func (s *participantService) Remove(ctx context.Context, hostID, participantID int) error {
	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return fmt.Errorf("failed to get participant %d: %w", participantID, err)
	}
	if _, err := s.loadDraftTournament(ctx, hostID, participant.TournamentID); err != nil {
		return err
	}
	if err := s.participantRepo.Delete(ctx, participantID); err != nil {
		return fmt.Errorf("failed to delete participant %d: %w", participantID, err)
	}
	return nil
}

func (s *participantService) loadDraftTournament(ctx context.Context, hostID, tournamentID int) (*models.Tournament, error) {
	if err := ensureHostOrAdmin(ctx, s.tournamentRepo, s.userRepo, tournamentID, hostID); err != nil {
		return nil, err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}
	if tournament.Status != models.StatusDraft {
		return nil, ErrWrongStage
	}
	return tournament, nil
}

func (s *participantService) checkCapacity(ctx context.Context, tournament *models.Tournament) error {
	participants, err := s.participantRepo.ListByTournament(ctx, tournament.ID)
	if err != nil {
		return fmt.Errorf("failed to count participants: %w", err)
	}
	if len(participants) >= MaxParticipants {
		return ErrParticipantCountRange
	}
	return nil
}

func (s *participantService) loadEditableParticipant(ctx context.Context, actorID, participantID int) (*models.Participant, error) {
	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant %d: %w", participantID, err)
	}
	if participant.Locked {
		return nil, ErrParticipantLocked
	}
	if err := s.ensureCanEdit(ctx, actorID, participant); err != nil {
		return nil, err
	}
	return participant, nil
}

// ensureCanEdit: хост/админ или владелец слота.
func (s *participantService) ensureCanEdit(ctx context.Context, actorID int, participant *models.Participant) error {
	if participant.UserID != nil && *participant.UserID == actorID {
		return nil
	}
	return ensureHostOrAdmin(ctx, s.tournamentRepo, s.userRepo, participant.TournamentID, actorID)
}
