package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/frostpuck/hockey-tournaments/brackets"
	"github.com/frostpuck/hockey-tournaments/models"
	"github.com/frostpuck/hockey-tournaments/repositories"
	"github.com/frostpuck/hockey-tournaments/storage"
	"golang.org/x/sync/errgroup"
)

const (
	MinParticipants = 3
	MaxParticipants = 24
)

type CreateTournamentInput struct {
	Name                string `json:"name"`
	Preset              string `json:"preset"`
	TeamPool            string `json:"team_pool"`
	DefaultParticipants int    `json:"default_participants"`
	GroupCount          *int   `json:"group_count,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, creatorID int, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Tournament, error)
	UpdateStatus(ctx context.Context, userID, id int, status models.TournamentStatus) (*models.Tournament, error)
	Delete(ctx context.Context, userID, id int) error
	UploadLogo(ctx context.Context, userID, id int, contentType string, file io.Reader) (*models.Tournament, error)

	InviteMember(ctx context.Context, hostID, tournamentID int, nickname string) (*models.TournamentMember, error)
	RemoveMember(ctx context.Context, hostID, tournamentID, userID int) error
}

type tournamentService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	userRepo        repositories.UserRepository
	uploader        storage.FileUploader
	logger          *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		uploader:        uploader,
		logger:          logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, creatorID int, input CreateTournamentInput) (*models.Tournament, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrValidationFailed
	}

	preset, ok := models.NormalizePreset(input.Preset)
	if !ok {
		return nil, ErrInvalidPreset
	}

	pool := models.TeamPool(input.TeamPool)
	if pool != models.PoolNHL && pool != models.PoolINTL {
		return nil, ErrInvalidTeamPool
	}

	if input.DefaultParticipants < MinParticipants || input.DefaultParticipants > MaxParticipants {
		return nil, ErrParticipantCountRange
	}

	tournament := &models.Tournament{
		Name:                input.Name,
		Preset:              preset,
		TeamPool:            pool,
		DefaultParticipants: input.DefaultParticipants,
		Stage:               models.StageGroup,
		Status:              models.StatusDraft,
		CreatedBy:           creatorID,
	}
	if !preset.HasGroupStage() {
		tournament.Stage = models.StagePlayoff
	} else {
		requested := 1
		if input.GroupCount != nil {
			requested = *input.GroupCount
		}
		count, note, err := brackets.SanitizeGroupCount(input.DefaultParticipants, requested)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		if note != "" {
			s.logger.Info("group count adjusted on create", slog.String("note", note))
		}
		tournament.GroupCount = &count
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	host := &models.TournamentMember{
		TournamentID: tournament.ID,
		UserID:       creatorID,
		Role:         models.RoleHost,
	}
	if err := s.tournamentRepo.AddMember(ctx, host); err != nil {
		return nil, fmt.Errorf("failed to add host member: %w", err)
	}
	tournament.Members = []models.TournamentMember{*host}

	return tournament, nil
}

// GetByID возвращает турнир со связанными сущностями. Участники и
// состав подгружаются параллельно.
func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		members, err := s.tournamentRepo.ListMembers(gCtx, id)
		if err != nil {
			return fmt.Errorf("failed to list members: %w", err)
		}
		tournament.Members = membersToValues(members)
		return nil
	})

	g.Go(func() error {
		participants, err := s.participantRepo.ListByTournament(gCtx, id)
		if err != nil {
			return fmt.Errorf("failed to list participants: %w", err)
		}
		tournament.Participants = participantsToValues(participants)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.populateLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) ListByUser(ctx context.Context, userID int) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for _, t := range tournaments {
		s.populateLogoURL(t)
	}
	return tournaments, nil
}

func (s *tournamentService) UpdateStatus(ctx context.Context, userID, id int, status models.TournamentStatus) (*models.Tournament, error) {
	if err := ensureHostOrAdmin(ctx, s.tournamentRepo, s.userRepo, id, userID); err != nil {
		return nil, err
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}

	if !isValidStatusTransition(tournament.Status, status) {
		return nil, ErrInvalidStatusTransition
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	tournament.Status = status
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, userID, id int) error {
	if err := ensureHostOrAdmin(ctx, s.tournamentRepo, s.userRepo, id, userID); err != nil {
		return err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to get tournament %d: %w", id, err)
	}

	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}

	if tournament.LogoKey != nil && s.uploader != nil {
		if err := s.uploader.Delete(ctx, *tournament.LogoKey); err != nil {
			s.logger.Warn("failed to delete tournament logo from storage",
				slog.Int("tournament_id", id), slog.Any("error", err))
		}
	}
	return nil
}

func (s *tournamentService) UploadLogo(ctx context.Context, userID, id int, contentType string, file io.Reader) (*models.Tournament, error) {
	if err := ensureHostOrAdmin(ctx, s.tournamentRepo, s.userRepo, id, userID); err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, errors.New("file storage is not configured")
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}

	ext := "png"
	if contentType == "image/jpeg" {
		ext = "jpg"
	} else if contentType == "image/svg+xml" {
		ext = "svg"
	}
	key := fmt.Sprintf("tournaments/%d/logo.%s", id, ext)

	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload logo: %w", err)
	}

	oldKey := tournament.LogoKey
	if err := s.tournamentRepo.UpdateLogoKey(ctx, id, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to persist logo key: %w", err)
	}
	if oldKey != nil && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous logo",
				slog.Int("tournament_id", id), slog.Any("error", err))
		}
	}

	tournament.LogoKey = &result.Key
	s.populateLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) InviteMember(ctx context.Context, hostID, tournamentID int, nickname string) (*models.TournamentMember, error) {
	if err := ensureHostOrAdmin(ctx, s.tournamentRepo, s.userRepo, tournamentID, hostID); err != nil {
		return nil, err
	}

	matches, err := s.userRepo.SearchByNickname(ctx, nickname, hostID, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to search user: %w", err)
	}
	var user *models.User
	for _, m := range matches {
		if strings.EqualFold(m.Nickname, nickname) {
			user = m
			break
		}
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	member := &models.TournamentMember{
		TournamentID: tournamentID,
		UserID:       user.ID,
		Role:         models.RolePlayer,
	}
	if err := s.tournamentRepo.AddMember(ctx, member); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMemberExists):
			return nil, ErrMemberConflict
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	member.User = user
	return member, nil
}

func (s *tournamentService) RemoveMember(ctx context.Context, hostID, tournamentID, userID int) error {
	if err := ensureHostOrAdmin(ctx, s.tournamentRepo, s.userRepo, tournamentID, hostID); err != nil {
		return err
	}

	member, err := s.tournamentRepo.GetMember(ctx, tournamentID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get member: %w", err)
	}
	// Хоста нельзя удалить из собственного турнира.
	if member.Role == models.RoleHost {
		return ErrForbiddenOperation
	}

	if err := s.tournamentRepo.RemoveMember(ctx, tournamentID, userID); err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

func (s *tournamentService) populateLogoURL(t *models.Tournament) {
	if t == nil || t.LogoKey == nil || *t.LogoKey == "" || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*t.LogoKey)
	if url != "" {
		t.LogoURL = &url
	}
}
