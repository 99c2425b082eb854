package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/frostpuck/hockey-tournaments/models"
	"github.com/frostpuck/hockey-tournaments/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// In-memory фейки ровно под сценарии lock/unlock.

type fakeMatchRepo struct {
	matches map[int]*models.MatchWithResult
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	panic("not used")
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.MatchWithResult, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	if m.Result != nil {
		res := *m.Result
		copied.Result = &res
	}
	return &copied, nil
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, tournamentID int, filter repositories.MatchFilter) ([]models.MatchWithResult, error) {
	var out []models.MatchWithResult
	for _, m := range r.matches {
		if m.TournamentID != tournamentID || m.Stage != filter.Stage {
			continue
		}
		if filter.Bracket != nil {
			if m.Bracket == nil || *m.Bracket != *filter.Bracket {
				continue
			}
		}
		copied := *m
		if m.Result != nil {
			res := *m.Result
			copied.Result = &res
		}
		out = append(out, copied)
	}
	return out, nil
}

func (r *fakeMatchRepo) SetNextMatchInfo(ctx context.Context, exec repositories.SQLExecutor, matchID, nextMatchID int, side models.MatchSide) error {
	panic("not used")
}

func (r *fakeMatchRepo) SetParticipant(ctx context.Context, exec repositories.SQLExecutor, matchID int, side models.MatchSide, participantID *int) error {
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if side == models.SideHome {
		m.HomeParticipantID = participantID
	} else {
		m.AwayParticipantID = participantID
	}
	return nil
}

func (r *fakeMatchRepo) DeleteByStage(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, stage models.TournamentStage) error {
	panic("not used")
}

func (r *fakeMatchRepo) UpsertResult(ctx context.Context, result *models.MatchResult) error {
	m, ok := r.matches[result.MatchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	res := *result
	m.Result = &res
	return nil
}

func (r *fakeMatchRepo) SetResultLocked(ctx context.Context, matchID int, locked bool) error {
	m, ok := r.matches[matchID]
	if !ok || m.Result == nil {
		return repositories.ErrMatchNotFound
	}
	m.Result.Locked = locked
	return nil
}

func (r *fakeMatchRepo) DeleteResult(ctx context.Context, matchID int) error {
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Result = nil
	return nil
}

type fakeTournamentRepo struct {
	repositories.TournamentRepository
	tournament *models.Tournament
	hostID     int
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	if r.tournament == nil || r.tournament.ID != id {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *r.tournament
	return &copied, nil
}

func (r *fakeTournamentRepo) GetMember(ctx context.Context, tournamentID, userID int) (*models.TournamentMember, error) {
	if userID == r.hostID {
		return &models.TournamentMember{TournamentID: tournamentID, UserID: userID, Role: models.RoleHost}, nil
	}
	return nil, repositories.ErrMemberNotFound
}

type fakeParticipantRepo struct {
	repositories.ParticipantRepository
	participants map[int]*models.Participant
}

func (r *fakeParticipantRepo) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	p, ok := r.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	copied := *p
	return &copied, nil
}

type fakeUserRepo struct {
	repositories.UserRepository
	users map[int]*models.User
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

const (
	hostID   = 1
	playerID = 2
)

func testMatch(id int, round, slot int, homeID, awayID *int) *models.MatchWithResult {
	w := models.BracketWinners
	return &models.MatchWithResult{
		Match: models.Match{
			ID:                id,
			TournamentID:      1,
			Stage:             models.StagePlayoff,
			Bracket:           &w,
			Round:             round,
			BracketSlot:       slot,
			HomeParticipantID: homeID,
			AwayParticipantID: awayID,
		},
	}
}

// Полуфиналы 1 и 2 сходятся в финале 3; пресет с сеткой размещения,
// матч за бронзу 4.
func newFixture() (*fakeMatchRepo, MatchService) {
	home1, away1 := 10, 11
	home2, away2 := 12, 13
	side := models.SideHome
	otherSide := models.SideAway
	final := 3

	m1 := testMatch(1, 1, 1, &home1, &away1)
	m1.NextMatchID = &final
	m1.NextMatchSide = &side
	m2 := testMatch(2, 1, 2, &home2, &away2)
	m2.NextMatchID = &final
	m2.NextMatchSide = &otherSide
	m3 := testMatch(3, 2, 1, nil, nil)
	l := models.BracketLosers
	m4 := testMatch(4, 1, 1, nil, nil)
	m4.Bracket = &l

	matchRepo := &fakeMatchRepo{matches: map[int]*models.MatchWithResult{1: m1, 2: m2, 3: m3, 4: m4}}

	uid := playerID
	participantRepo := &fakeParticipantRepo{participants: map[int]*models.Participant{
		10: {ID: 10, TournamentID: 1, UserID: &uid},
		11: {ID: 11, TournamentID: 1},
		12: {ID: 12, TournamentID: 1},
		13: {ID: 13, TournamentID: 1},
	}}
	tournamentRepo := &fakeTournamentRepo{
		tournament: &models.Tournament{
			ID:     1,
			Preset: models.PresetFullWithLosers,
			Stage:  models.StagePlayoff,
			Status: models.StatusOngoing,
		},
		hostID: hostID,
	}
	userRepo := &fakeUserRepo{users: map[int]*models.User{
		hostID:   {ID: hostID, Role: models.UserRoleUser},
		playerID: {ID: playerID, Role: models.UserRoleUser},
	}}

	svc := NewMatchService(tournamentRepo, participantRepo, matchRepo, userRepo, nil, discardLogger())
	return matchRepo, svc
}

func TestSubmitResultValidatesFirst(t *testing.T) {
	repo, svc := newFixture()
	ctx := context.Background()

	_, err := svc.SubmitResult(ctx, hostID, 1, SubmitResultInput{
		HomeScore: "3", AwayScore: "3", HomeShots: "20", AwayShots: "20", Decision: "R",
	})
	require.Error(t, err)
	assert.Nil(t, repo.matches[1].Result, "invalid result must never be written")

	match, err := svc.SubmitResult(ctx, hostID, 1, SubmitResultInput{
		HomeScore: "3", AwayScore: "2", HomeShots: "25", AwayShots: "30", Decision: "OT",
	})
	require.NoError(t, err)
	require.NotNil(t, match.Result)
	assert.False(t, match.Result.Locked)
	assert.Equal(t, models.DecisionOvertime, match.Result.Decision)
}

func TestSubmitResultPermissions(t *testing.T) {
	_, svc := newFixture()
	ctx := context.Background()

	// Игрок стороны матча может внести результат своего матча.
	_, err := svc.SubmitResult(ctx, playerID, 1, SubmitResultInput{
		HomeScore: "2", AwayScore: "1", HomeShots: "15", AwayShots: "12", Decision: "R",
	})
	assert.NoError(t, err)

	// Но не чужого.
	_, err = svc.SubmitResult(ctx, playerID, 2, SubmitResultInput{
		HomeScore: "2", AwayScore: "1", HomeShots: "15", AwayShots: "12", Decision: "R",
	})
	assert.ErrorIs(t, err, ErrHostActionForbidden)
}

func submitAndLock(t *testing.T, svc MatchService, matchID int, home, away string) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.SubmitResult(ctx, hostID, matchID, SubmitResultInput{
		HomeScore: home, AwayScore: away, HomeShots: "30", AwayShots: "30", Decision: "R",
	})
	require.NoError(t, err)
	_, err = svc.LockResult(ctx, hostID, matchID)
	require.NoError(t, err)
}

func TestLockAdvancesWinnerAndRoutesLoser(t *testing.T) {
	repo, svc := newFixture()

	submitAndLock(t, svc, 1, "4", "2")

	final := repo.matches[3]
	require.NotNil(t, final.HomeParticipantID)
	assert.Equal(t, 10, *final.HomeParticipantID, "winner of semi 1 takes the home slot of the final")

	bronze := repo.matches[4]
	require.NotNil(t, bronze.HomeParticipantID)
	assert.Equal(t, 11, *bronze.HomeParticipantID, "loser of the first decided semi drops to the placement bracket")

	submitAndLock(t, svc, 2, "1", "3")
	require.NotNil(t, final.AwayParticipantID)
	assert.Equal(t, 13, *final.AwayParticipantID)
	require.NotNil(t, bronze.AwayParticipantID)
	assert.Equal(t, 12, *bronze.AwayParticipantID)
}

func TestLockedResultRejectsResubmit(t *testing.T) {
	_, svc := newFixture()
	ctx := context.Background()

	submitAndLock(t, svc, 1, "4", "2")

	_, err := svc.SubmitResult(ctx, hostID, 1, SubmitResultInput{
		HomeScore: "5", AwayScore: "0", HomeShots: "20", AwayShots: "10", Decision: "R",
	})
	assert.ErrorIs(t, err, ErrResultLocked)

	_, err = svc.LockResult(ctx, hostID, 1)
	assert.ErrorIs(t, err, ErrResultLocked)
}

func TestUnlockRetractsAdvancement(t *testing.T) {
	repo, svc := newFixture()
	ctx := context.Background()

	submitAndLock(t, svc, 1, "4", "2")

	match, err := svc.UnlockResult(ctx, hostID, 1)
	require.NoError(t, err)
	assert.False(t, match.Result.Locked)

	assert.Nil(t, repo.matches[3].HomeParticipantID, "advanced winner is retracted")
	assert.Nil(t, repo.matches[4].HomeParticipantID, "routed loser is retracted")
}

func TestUnlockRefusedWithLockedDescendant(t *testing.T) {
	_, svc := newFixture()
	ctx := context.Background()

	submitAndLock(t, svc, 1, "4", "2")
	submitAndLock(t, svc, 2, "1", "3")
	submitAndLock(t, svc, 3, "2", "1")

	_, err := svc.UnlockResult(ctx, hostID, 1)
	assert.ErrorIs(t, err, ErrDownstreamResultLocked)
}

func TestUnlockIsHostOnly(t *testing.T) {
	_, svc := newFixture()
	ctx := context.Background()

	submitAndLock(t, svc, 1, "4", "2")

	_, err := svc.UnlockResult(ctx, playerID, 1)
	assert.ErrorIs(t, err, ErrHostActionForbidden)

	_, err = svc.UnlockResult(ctx, hostID, 99)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}
