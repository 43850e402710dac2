package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-engine/live"
	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/repositories"
	"github.com/Dosada05/league-engine/schedule"
)

var ErrScheduleGenerationFailed = errors.New("failed to generate schedule")

type ScheduleService interface {
	// GenerateSchedule replaces the tournament's generated fixtures with a
	// fresh round-robin. Manual matches are left untouched.
	GenerateSchedule(ctx context.Context, tournamentID int, requestedBy *string) ([]*models.Match, error)
}

type scheduleService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	hub             *live.Hub
	logger          *slog.Logger
}

func NewScheduleService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	hub *live.Hub,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		hub:             hub,
		logger:          logger,
	}
}

func (s *scheduleService) GenerateSchedule(ctx context.Context, tournamentID int, requestedBy *string) ([]*models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrScheduleGenerationFailed, err)
	}
	if tournament.ScheduleMode == models.ScheduleManual {
		return nil, ErrScheduleModeManual
	}

	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScheduleGenerationFailed, err)
	}

	pairings, err := schedule.Generate(participants, tournament.ScheduleMode)
	if err != nil {
		if errors.Is(err, schedule.ErrInsufficientParticipants) {
			return nil, ErrInsufficientParticipants
		}
		return nil, fmt.Errorf("%w: %w", ErrScheduleGenerationFailed, err)
	}

	matches := make([]*models.Match, 0, len(pairings))
	for _, pairing := range pairings {
		matchday := pairing.Matchday
		matches = append(matches, &models.Match{
			TournamentID: tournamentID,
			Matchday:     &matchday,
			PlayerA:      pairing.PlayerA,
			PlayerB:      pairing.PlayerB,
			Status:       models.MatchStatusScheduled,
			Origin:       models.OriginGenerated,
			CreatedBy:    requestedBy,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin tx: %w", ErrScheduleGenerationFailed, err)
	}
	defer tx.Rollback()

	// Serialize concurrent regenerations of the same tournament; the lock is
	// released automatically at commit or rollback.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(tournamentID)); err != nil {
		return nil, fmt.Errorf("%w: advisory lock: %w", ErrScheduleGenerationFailed, err)
	}
	if err := s.matchRepo.DeleteGeneratedByTournament(ctx, tx, tournamentID); err != nil {
		return nil, fmt.Errorf("%w: clear previous schedule: %w", ErrScheduleGenerationFailed, err)
	}
	if err := s.matchRepo.BatchCreate(ctx, tx, matches); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScheduleGenerationFailed, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %w", ErrScheduleGenerationFailed, err)
	}

	s.logger.InfoContext(ctx, "schedule generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("participants", len(participants)),
		slog.Int("matches", len(matches)),
		slog.String("schedule_mode", string(tournament.ScheduleMode)))

	if s.hub != nil {
		s.hub.BroadcastToRoom(roomID(tournamentID), live.Message{
			Type:    live.EventScheduleGenerated,
			Payload: matches,
			RoomID:  roomID(tournamentID),
		})
	}

	return matches, nil
}
