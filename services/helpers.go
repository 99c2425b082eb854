package services

import (
	"context"
	"errors"

	"github.com/frostpuck/hockey-tournaments/models"
	"github.com/frostpuck/hockey-tournaments/repositories"
)

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.TournamentStatus][]models.TournamentStatus{
		models.StatusDraft:   {models.StatusOngoing, models.StatusClosed},
		models.StatusOngoing: {models.StatusClosed},
		models.StatusClosed:  {},
	}
	for _, allowed := range allowedTransitions[current] {
		if next == allowed {
			return true
		}
	}
	return false
}

// ensureHostOrAdmin проверяет, что пользователь хост турнира или админ.
func ensureHostOrAdmin(ctx context.Context, tournamentRepo repositories.TournamentRepository, userRepo repositories.UserRepository, tournamentID, userID int) error {
	user, err := userRepo.GetByID(ctx, userID)
	if err == nil && user.Role == models.UserRoleAdmin {
		return nil
	}

	member, err := tournamentRepo.GetMember(ctx, tournamentID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return ErrHostActionForbidden
		}
		return err
	}
	if member.Role != models.RoleHost {
		return ErrHostActionForbidden
	}
	return nil
}

// ensureMember проверяет членство в турнире (любая роль).
func ensureMember(ctx context.Context, tournamentRepo repositories.TournamentRepository, tournamentID, userID int) error {
	if _, err := tournamentRepo.GetMember(ctx, tournamentID, userID); err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return ErrForbiddenOperation
		}
		return err
	}
	return nil
}

func participantsToValues(slice []*models.Participant) []models.Participant {
	if slice == nil {
		return []models.Participant{}
	}
	result := make([]models.Participant, len(slice))
	for i, ptr := range slice {
		if ptr != nil {
			result[i] = *ptr
		}
	}
	return result
}

func membersToValues(slice []*models.TournamentMember) []models.TournamentMember {
	if slice == nil {
		return []models.TournamentMember{}
	}
	result := make([]models.TournamentMember, len(slice))
	for i, ptr := range slice {
		if ptr != nil {
			result[i] = *ptr
		}
	}
	return result
}
