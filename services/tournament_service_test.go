package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Dosada05/league-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTournamentServiceFixture(ts ...*models.Tournament) TournamentService {
	return NewTournamentService(newFakeTournamentRepo(ts...), newFakeParticipantRepo(), nil, testLogger())
}

func TestCreateTournamentDefaults(t *testing.T) {
	service := newTournamentServiceFixture()

	tournament, err := service.CreateTournament(context.Background(), CreateTournamentInput{Name: "  sunday cup  "})
	require.NoError(t, err)

	assert.Equal(t, "sunday cup", tournament.Name)
	assert.Equal(t, models.KindLeague, tournament.Kind)
	assert.Equal(t, models.StatusDraft, tournament.Status)
	assert.Equal(t, models.ScheduleSingleRoundRobin, tournament.ScheduleMode)
	assert.Equal(t, models.SchemaNumeric, tournament.MatchSchema)
	assert.Equal(t, 3, tournament.PointsWin)
	assert.Equal(t, 1, tournament.PointsDraw)
	assert.Equal(t, 0, tournament.PointsLoss)
}

func TestCreateTournamentValidation(t *testing.T) {
	service := newTournamentServiceFixture()
	ctx := context.Background()

	_, err := service.CreateTournament(ctx, CreateTournamentInput{Name: "   "})
	assert.ErrorIs(t, err, ErrTournamentNameRequired)

	_, err = service.CreateTournament(ctx, CreateTournamentInput{Name: "x", Kind: "ladder"})
	assert.ErrorIs(t, err, ErrTournamentInvalidKind)

	_, err = service.CreateTournament(ctx, CreateTournamentInput{Name: "x", ScheduleMode: "swiss"})
	assert.ErrorIs(t, err, ErrTournamentInvalidMode)

	_, err = service.CreateTournament(ctx, CreateTournamentInput{Name: "x", MatchSchema: "frames"})
	assert.ErrorIs(t, err, ErrTournamentInvalidSchema)

	negative := -1
	_, err = service.CreateTournament(ctx, CreateTournamentInput{Name: "x", PointsWin: &negative})
	assert.ErrorIs(t, err, ErrTournamentNegativePoints)
}

func TestSetStatusTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("draft to running", func(t *testing.T) {
		service := newTournamentServiceFixture(&models.Tournament{ID: 1, Status: models.StatusDraft})
		tournament, err := service.SetStatus(ctx, 1, models.StatusRunning)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRunning, tournament.Status)
	})

	t.Run("draft straight to finished", func(t *testing.T) {
		service := newTournamentServiceFixture(&models.Tournament{ID: 1, Status: models.StatusDraft})
		_, err := service.SetStatus(ctx, 1, models.StatusFinished)
		assert.NoError(t, err)
	})

	t.Run("finished is terminal", func(t *testing.T) {
		service := newTournamentServiceFixture(&models.Tournament{ID: 1, Status: models.StatusFinished})
		_, err := service.SetStatus(ctx, 1, models.StatusRunning)
		assert.ErrorIs(t, err, ErrTournamentInvalidTransition)
	})

	t.Run("running cannot return to draft", func(t *testing.T) {
		service := newTournamentServiceFixture(&models.Tournament{ID: 1, Status: models.StatusRunning})
		_, err := service.SetStatus(ctx, 1, models.StatusDraft)
		assert.ErrorIs(t, err, ErrTournamentInvalidTransition)
	})

	t.Run("unknown status", func(t *testing.T) {
		service := newTournamentServiceFixture(&models.Tournament{ID: 1, Status: models.StatusDraft})
		_, err := service.SetStatus(ctx, 1, "archived")
		assert.ErrorIs(t, err, ErrTournamentInvalidStatus)
	})

	t.Run("missing tournament", func(t *testing.T) {
		service := newTournamentServiceFixture()
		_, err := service.SetStatus(ctx, 404, models.StatusRunning)
		assert.ErrorIs(t, err, ErrTournamentNotFound)
	})
}

func TestAddParticipantValidation(t *testing.T) {
	service := newTournamentServiceFixture(&models.Tournament{ID: 1, Status: models.StatusDraft})
	ctx := context.Background()

	assert.ErrorIs(t, service.AddParticipant(ctx, 1, "  "), ErrValidationFailed)
	assert.ErrorIs(t, service.AddParticipant(ctx, 99, "alice"), ErrTournamentNotFound)

	require.NoError(t, service.AddParticipant(ctx, 1, "alice"))
	// Joining twice is a no-op.
	require.NoError(t, service.AddParticipant(ctx, 1, "alice"))

	participants, err := service.ListParticipants(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, participants)
}

func TestBadgeOperationsWithoutConfiguredStorage(t *testing.T) {
	ctx := context.Background()
	badgeKey := "tournaments/1/badge.png"
	service := newTournamentServiceFixture(&models.Tournament{
		ID: 1, Status: models.StatusDraft, BadgeKey: &badgeKey,
	})

	assert.NotPanics(t, func() {
		_, err := service.UploadBadge(ctx, 1, "image/png", strings.NewReader("png-bytes"))
		assert.ErrorIs(t, err, ErrBadgeStorageUnavailable)
	})

	assert.NotPanics(t, func() {
		assert.ErrorIs(t, service.RemoveBadge(ctx, 1), ErrBadgeStorageUnavailable)
	})

	// Reads still work, they just omit the public badge URL.
	tournament, err := service.GetTournamentByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, tournament.BadgeURL)
}

func TestUpdateRulesRejectsNegativePoints(t *testing.T) {
	service := newTournamentServiceFixture(&models.Tournament{ID: 1, Status: models.StatusDraft})

	negative := -3
	_, err := service.UpdateRules(context.Background(), 1, UpdateRulesInput{PointsDraw: &negative})
	assert.ErrorIs(t, err, ErrTournamentNegativePoints)
}
