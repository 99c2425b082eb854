package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed        = errors.New("validation failed")
	ErrPasswordTooShort        = errors.New("password is too short")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrInvalidPreset           = errors.New("unknown tournament preset")
	ErrInvalidTeamPool         = errors.New("unknown team pool")
	ErrParticipantCountRange   = errors.New("tournament must have between 3 and 24 participants")
	ErrParticipantsNotReady    = errors.New("all participants must be locked with a team before generation")
	ErrGroupStageNotFinished   = errors.New("all group stage results must be locked first")
	ErrStageAlreadyGenerated   = errors.New("matches for this stage already exist")
	ErrWrongStage              = errors.New("operation not allowed in the current tournament stage")
	ErrTournamentNotOngoing    = errors.New("tournament is not ongoing")
	ErrMatchNotPlayable        = errors.New("match does not have both participants yet")
	ErrResultLocked            = errors.New("match result is locked")
	ErrResultNotLocked         = errors.New("match result is not locked")
	ErrDownstreamResultLocked  = errors.New("a later match already has a locked result")
	ErrTeamPoolMismatch        = errors.New("team does not belong to the tournament's pool")
	ErrParticipantLocked       = errors.New("participant is locked")
	ErrNoTeamsLeft             = errors.New("no unassigned teams match the requested tier")
	ErrInvalidStatusTransition = errors.New("invalid tournament status transition")

	// Ошибки конфликтов
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrUserNicknameConflict = errors.New("nickname is already in use")
	ErrMemberConflict       = errors.New("user is already a member of this tournament")
	ErrParticipantConflict  = errors.New("participant is already registered for this tournament")
	ErrTeamTakenConflict    = errors.New("team is already taken by another participant")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
	ErrHostActionForbidden  = errors.New("only the tournament host can perform this action")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound        = errors.New("user not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrGuestNotFound       = errors.New("guest not found")
)
