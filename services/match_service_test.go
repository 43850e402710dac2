package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes for the repository interfaces.

type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match), nextID: 1}
}

func (f *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	m.ID = f.nextID
	m.CreatedAt = time.Now().UTC()
	f.nextID++
	stored := *m
	f.matches[m.ID] = &stored
	return nil
}

func (f *fakeMatchRepo) BatchCreate(ctx context.Context, exec repositories.SQLExecutor, ms []*models.Match) error {
	for _, m := range ms {
		if err := f.Create(ctx, exec, m); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (f *fakeMatchRepo) ListByTournament(_ context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	out := []*models.Match{}
	for _, m := range f.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		copied := *m
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeMatchRepo) UpdateScore(_ context.Context, id int, scoreA, scoreB int, payload json.RawMessage, playedAt time.Time) error {
	m, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.ScoreA = &scoreA
	m.ScoreB = &scoreB
	m.ScorePayload = payload
	m.Status = models.MatchStatusPlayed
	m.PlayedAt = &playedAt
	return nil
}

func (f *fakeMatchRepo) UpdateSchedule(_ context.Context, id int, matchday *int, scheduledAt *time.Time, location *string) error {
	m, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Matchday = matchday
	m.ScheduledAt = scheduledAt
	m.Location = location
	return nil
}

func (f *fakeMatchRepo) SetLocked(_ context.Context, id int, locked bool) error {
	m, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Locked = locked
	return nil
}

func (f *fakeMatchRepo) DeleteGeneratedByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	for id, m := range f.matches {
		if m.TournamentID == tournamentID && m.Origin == models.OriginGenerated {
			delete(f.matches, id)
		}
	}
	return nil
}

func (f *fakeMatchRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(f.matches, id)
	return nil
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo(ts ...*models.Tournament) *fakeTournamentRepo {
	repo := &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament)}
	for _, t := range ts {
		repo.tournaments[t.ID] = t
	}
	return repo
}

func (f *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	f.tournaments[t.ID] = t
	return nil
}

func (f *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTournamentRepo) List(_ context.Context, _ repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	return nil, nil
}

func (f *fakeTournamentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	t, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (f *fakeTournamentRepo) UpdateRules(_ context.Context, id int, _ repositories.UpdateRulesParams) error {
	if _, ok := f.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	return nil
}

func (f *fakeTournamentRepo) UpdateBadgeKey(_ context.Context, id int, key *string) error {
	t, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.BadgeKey = key
	return nil
}

func (f *fakeTournamentRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(f.tournaments, id)
	return nil
}

type fakeParticipantRepo struct {
	byTournament map[int][]string
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{byTournament: make(map[int][]string)}
}

func (f *fakeParticipantRepo) Add(_ context.Context, tournamentID int, participantID string) error {
	for _, p := range f.byTournament[tournamentID] {
		if p == participantID {
			return nil
		}
	}
	f.byTournament[tournamentID] = append(f.byTournament[tournamentID], participantID)
	return nil
}

func (f *fakeParticipantRepo) Remove(_ context.Context, tournamentID int, participantID string) error {
	list := f.byTournament[tournamentID]
	for i, p := range list {
		if p == participantID {
			f.byTournament[tournamentID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return repositories.ErrParticipantNotFound
}

func (f *fakeParticipantRepo) ListByTournament(_ context.Context, tournamentID int) ([]string, error) {
	return f.byTournament[tournamentID], nil
}

type fakeMatchdayRepo struct {
	locks map[[2]int]*models.MatchdayLock
}

func newFakeMatchdayRepo() *fakeMatchdayRepo {
	return &fakeMatchdayRepo{locks: make(map[[2]int]*models.MatchdayLock)}
}

func (f *fakeMatchdayRepo) Upsert(_ context.Context, lock *models.MatchdayLock) error {
	copied := *lock
	f.locks[[2]int{lock.TournamentID, lock.Matchday}] = &copied
	return nil
}

func (f *fakeMatchdayRepo) Get(_ context.Context, tournamentID, matchday int) (*models.MatchdayLock, error) {
	lock, ok := f.locks[[2]int{tournamentID, matchday}]
	if !ok {
		return nil, repositories.ErrMatchdayLockNotFound
	}
	copied := *lock
	return &copied, nil
}

func (f *fakeMatchdayRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.MatchdayLock, error) {
	out := []*models.MatchdayLock{}
	for key, lock := range f.locks {
		if key[0] == tournamentID {
			copied := *lock
			out = append(out, &copied)
		}
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type matchServiceFixture struct {
	service      MatchService
	matchRepo    *fakeMatchRepo
	matchdayRepo *fakeMatchdayRepo
}

func newMatchServiceFixture(t *testing.T, tournament *models.Tournament) *matchServiceFixture {
	t.Helper()
	matchRepo := newFakeMatchRepo()
	matchdayRepo := newFakeMatchdayRepo()
	service := NewMatchService(
		matchRepo,
		newFakeTournamentRepo(tournament),
		newFakeParticipantRepo(),
		matchdayRepo,
		nil, // no live hub in tests
		testLogger(),
	)
	return &matchServiceFixture{service: service, matchRepo: matchRepo, matchdayRepo: matchdayRepo}
}

func numericTournament() *models.Tournament {
	return &models.Tournament{
		ID:           1,
		Name:         "spring league",
		Kind:         models.KindLeague,
		Status:       models.StatusRunning,
		ScheduleMode: models.ScheduleSingleRoundRobin,
		MatchSchema:  models.SchemaNumeric,
		PointsWin:    3,
		PointsDraw:   1,
	}
}

func seedMatch(t *testing.T, fx *matchServiceFixture, mutate func(*models.Match)) *models.Match {
	t.Helper()
	matchday := 1
	match := &models.Match{
		TournamentID: 1,
		Matchday:     &matchday,
		PlayerA:      "alice",
		PlayerB:      "bob",
		Status:       models.MatchStatusScheduled,
		Origin:       models.OriginGenerated,
	}
	if mutate != nil {
		mutate(match)
	}
	require.NoError(t, fx.matchRepo.Create(context.Background(), nil, match))
	return match
}

func TestSubmitScoreUnknownMatch(t *testing.T) {
	fx := newMatchServiceFixture(t, numericTournament())

	_, err := fx.service.SubmitScore(context.Background(), 42, models.ScoreInput{}, nil)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestSubmitScoreLockedMatch(t *testing.T) {
	fx := newMatchServiceFixture(t, numericTournament())
	match := seedMatch(t, fx, func(m *models.Match) { m.Locked = true })

	// The lock wins even over malformed input: it is checked first.
	negative := -1
	_, err := fx.service.SubmitScore(context.Background(), match.ID, models.ScoreInput{ScoreA: &negative}, nil)
	assert.ErrorIs(t, err, ErrMatchLocked)
}

func TestSubmitScoreClosedMatchday(t *testing.T) {
	fx := newMatchServiceFixture(t, numericTournament())
	match := seedMatch(t, fx, nil)

	require.NoError(t, fx.matchdayRepo.Upsert(context.Background(), &models.MatchdayLock{
		TournamentID: 1, Matchday: 1, IsClosed: true,
	}))

	two := 2
	_, err := fx.service.SubmitScore(context.Background(), match.ID, models.ScoreInput{ScoreA: &two, ScoreB: &two}, nil)
	assert.ErrorIs(t, err, ErrMatchdayClosed)
}

func TestSubmitScoreReopenedMatchday(t *testing.T) {
	fx := newMatchServiceFixture(t, numericTournament())
	match := seedMatch(t, fx, nil)

	require.NoError(t, fx.matchdayRepo.Upsert(context.Background(), &models.MatchdayLock{
		TournamentID: 1, Matchday: 1, IsClosed: false,
	}))

	one := 1
	_, err := fx.service.SubmitScore(context.Background(), match.ID, models.ScoreInput{ScoreA: &one, ScoreB: &one}, nil)
	assert.NoError(t, err)
}

func TestSubmitScoreInvalidInput(t *testing.T) {
	fx := newMatchServiceFixture(t, numericTournament())
	match := seedMatch(t, fx, nil)

	negative := -2
	_, err := fx.service.SubmitScore(context.Background(), match.ID, models.ScoreInput{ScoreA: &negative}, nil)
	assert.ErrorIs(t, err, models.ErrInvalidScore)
}

func TestSubmitScoreSchemaMismatch(t *testing.T) {
	fx := newMatchServiceFixture(t, numericTournament())
	match := seedMatch(t, fx, nil)

	winner := "a"
	_, err := fx.service.SubmitScore(context.Background(), match.ID, models.ScoreInput{
		Schema: models.SchemaWinner,
		Winner: &winner,
	}, nil)
	assert.ErrorIs(t, err, models.ErrInvalidScore)
}

func TestSubmitScoreSuccess(t *testing.T) {
	fx := newMatchServiceFixture(t, numericTournament())
	match := seedMatch(t, fx, nil)

	two, one := 2, 1
	updated, err := fx.service.SubmitScore(context.Background(), match.ID, models.ScoreInput{
		ScoreA: &two, ScoreB: &one,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusPlayed, updated.Status)
	require.NotNil(t, updated.ScoreA)
	require.NotNil(t, updated.ScoreB)
	assert.Equal(t, 2, *updated.ScoreA)
	assert.Equal(t, 1, *updated.ScoreB)
	require.NotNil(t, updated.PlayedAt)

	stored, err := fx.matchRepo.GetByID(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusPlayed, stored.Status)
}

func TestSubmitScoreOverwritesPreviousResult(t *testing.T) {
	fx := newMatchServiceFixture(t, numericTournament())
	match := seedMatch(t, fx, nil)

	first, zero := 1, 0
	_, err := fx.service.SubmitScore(context.Background(), match.ID, models.ScoreInput{ScoreA: &first, ScoreB: &zero}, nil)
	require.NoError(t, err)

	three := 3
	updated, err := fx.service.SubmitScore(context.Background(), match.ID, models.ScoreInput{ScoreA: &zero, ScoreB: &three}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, *updated.ScoreA)
	assert.Equal(t, 3, *updated.ScoreB)
}

func TestCreateManualMatchValidation(t *testing.T) {
	fx := newMatchServiceFixture(t, numericTournament())
	ctx := context.Background()

	_, err := fx.service.CreateManualMatch(ctx, CreateMatchInput{TournamentID: 1, PlayerA: "alice", PlayerB: "alice"})
	assert.ErrorIs(t, err, ErrInvalidPlayers)

	_, err = fx.service.CreateManualMatch(ctx, CreateMatchInput{TournamentID: 1, PlayerA: "alice", PlayerB: ""})
	assert.ErrorIs(t, err, ErrInvalidPlayers)

	zero := 0
	_, err = fx.service.CreateManualMatch(ctx, CreateMatchInput{
		TournamentID: 1, PlayerA: "alice", PlayerB: "bob", Matchday: &zero,
	})
	assert.ErrorIs(t, err, ErrInvalidMatchday)

	_, err = fx.service.CreateManualMatch(ctx, CreateMatchInput{TournamentID: 99, PlayerA: "alice", PlayerB: "bob"})
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestCreateManualMatchSuccess(t *testing.T) {
	fx := newMatchServiceFixture(t, numericTournament())

	match, err := fx.service.CreateManualMatch(context.Background(), CreateMatchInput{
		TournamentID: 1,
		PlayerA:      "alice",
		PlayerB:      "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OriginManual, match.Origin)
	assert.Equal(t, models.MatchStatusScheduled, match.Status)
	assert.Nil(t, match.Matchday)
}

func TestRescheduleLockedMatch(t *testing.T) {
	fx := newMatchServiceFixture(t, numericTournament())
	match := seedMatch(t, fx, func(m *models.Match) { m.Locked = true })

	two := 2
	_, err := fx.service.RescheduleMatch(context.Background(), match.ID, RescheduleInput{Matchday: &two})
	assert.ErrorIs(t, err, ErrMatchLocked)
}

func TestDeleteLockedMatch(t *testing.T) {
	fx := newMatchServiceFixture(t, numericTournament())
	match := seedMatch(t, fx, func(m *models.Match) { m.Locked = true })

	err := fx.service.DeleteMatch(context.Background(), match.ID)
	assert.ErrorIs(t, err, ErrMatchLocked)
}

func TestSetMatchdayClosed(t *testing.T) {
	fx := newMatchServiceFixture(t, numericTournament())
	ctx := context.Background()

	_, err := fx.service.SetMatchdayClosed(ctx, 1, 0, true, nil)
	assert.ErrorIs(t, err, ErrInvalidMatchday)

	lock, err := fx.service.SetMatchdayClosed(ctx, 1, 3, true, nil)
	require.NoError(t, err)
	assert.True(t, lock.IsClosed)

	stored, err := fx.matchdayRepo.Get(ctx, 1, 3)
	require.NoError(t, err)
	assert.True(t, stored.IsClosed)
}
