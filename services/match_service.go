package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/league-engine/live"
	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/repositories"
	"github.com/Dosada05/league-engine/standings"
)

var (
	ErrMatchCreationFailed = errors.New("failed to create match")
	ErrScoreSubmitFailed   = errors.New("failed to submit score")
)

type MatchService interface {
	SubmitScore(ctx context.Context, matchID int, input models.ScoreInput, submittedBy *string) (*models.Match, error)
	CreateManualMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetMatchByID(ctx context.Context, id int) (*models.Match, error)
	ListMatchesByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error)
	RescheduleMatch(ctx context.Context, matchID int, input RescheduleInput) (*models.Match, error)
	SetMatchLocked(ctx context.Context, matchID int, locked bool) (*models.Match, error)
	DeleteMatch(ctx context.Context, matchID int) error

	SetMatchdayClosed(ctx context.Context, tournamentID, matchday int, closed bool, updatedBy *string) (*models.MatchdayLock, error)
	ListMatchdayLocks(ctx context.Context, tournamentID int) ([]*models.MatchdayLock, error)
}

type CreateMatchInput struct {
	TournamentID int
	PlayerA      string
	PlayerB      string
	Matchday     *int
	ScheduledAt  *time.Time
	Location     *string
	CreatedBy    *string
}

type RescheduleInput struct {
	Matchday    *int
	ScheduledAt *time.Time
	Location    *string
}

type matchService struct {
	matchRepo       repositories.MatchRepository
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchdayRepo    repositories.MatchdayRepository
	hub             *live.Hub
	logger          *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchdayRepo repositories.MatchdayRepository,
	hub *live.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:       matchRepo,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchdayRepo:    matchdayRepo,
		hub:             hub,
		logger:          logger,
	}
}

// SubmitScore validates in a fixed order: the match must exist, must not be
// locked, its matchday must not be closed, and only then is the score input
// checked for shape. Resubmitting to a played match overwrites the previous
// result.
func (s *matchService) SubmitScore(ctx context.Context, matchID int, input models.ScoreInput, submittedBy *string) (*models.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Locked {
		return nil, ErrMatchLocked
	}
	closed, err := s.isMatchdayClosed(ctx, match.TournamentID, match.Matchday)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScoreSubmitFailed, err)
	}
	if closed {
		return nil, ErrMatchdayClosed
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScoreSubmitFailed, err)
	}
	if input.Schema == "" {
		input.Schema = tournament.MatchSchema
	} else if input.Schema != tournament.MatchSchema {
		return nil, fmt.Errorf("%w: tournament uses schema %q", models.ErrInvalidScore, tournament.MatchSchema)
	}

	scoreA, scoreB, payload, err := input.Normalize()
	if err != nil {
		return nil, err
	}

	playedAt := time.Now().UTC()
	if err := s.matchRepo.UpdateScore(ctx, matchID, scoreA, scoreB, payload, playedAt); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrScoreSubmitFailed, err)
	}

	match.ScoreA = &scoreA
	match.ScoreB = &scoreB
	match.ScorePayload = payload
	match.Status = models.MatchStatusPlayed
	match.PlayedAt = &playedAt

	s.logger.InfoContext(ctx, "score submitted",
		slog.Int("match_id", matchID),
		slog.Int("tournament_id", match.TournamentID),
		slog.Int("score_a", scoreA),
		slog.Int("score_b", scoreB))

	s.broadcastMatchUpdate(ctx, tournament, match)

	return match, nil
}

func (s *matchService) CreateManualMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	playerA := strings.TrimSpace(input.PlayerA)
	playerB := strings.TrimSpace(input.PlayerB)
	if playerA == "" || playerB == "" || playerA == playerB {
		return nil, ErrInvalidPlayers
	}
	if input.Matchday != nil && *input.Matchday < 1 {
		return nil, ErrInvalidMatchday
	}

	if _, err := s.tournamentRepo.GetByID(ctx, input.TournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrMatchCreationFailed, err)
	}

	match := &models.Match{
		TournamentID: input.TournamentID,
		Matchday:     input.Matchday,
		PlayerA:      playerA,
		PlayerB:      playerB,
		Status:       models.MatchStatusScheduled,
		ScheduledAt:  input.ScheduledAt,
		Location:     input.Location,
		Origin:       models.OriginManual,
		CreatedBy:    input.CreatedBy,
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		if errors.Is(err, repositories.ErrMatchTournamentInvalid) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrMatchCreationFailed, err)
	}
	return match, nil
}

func (s *matchService) GetMatchByID(ctx context.Context, id int) (*models.Match, error) {
	return s.getMatch(ctx, id)
}

func (s *matchService) ListMatchesByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	if matches == nil {
		return []*models.Match{}, nil
	}
	return matches, nil
}

func (s *matchService) RescheduleMatch(ctx context.Context, matchID int, input RescheduleInput) (*models.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Locked {
		return nil, ErrMatchLocked
	}
	if input.Matchday != nil && *input.Matchday < 1 {
		return nil, ErrInvalidMatchday
	}

	matchday := match.Matchday
	if input.Matchday != nil {
		matchday = input.Matchday
	}
	scheduledAt := match.ScheduledAt
	if input.ScheduledAt != nil {
		scheduledAt = input.ScheduledAt
	}
	location := match.Location
	if input.Location != nil {
		location = input.Location
	}

	if err := s.matchRepo.UpdateSchedule(ctx, matchID, matchday, scheduledAt, location); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to reschedule match %d: %w", matchID, err)
	}

	match.Matchday = matchday
	match.ScheduledAt = scheduledAt
	match.Location = location
	return match, nil
}

func (s *matchService) SetMatchLocked(ctx context.Context, matchID int, locked bool) (*models.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := s.matchRepo.SetLocked(ctx, matchID, locked); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to set lock on match %d: %w", matchID, err)
	}
	match.Locked = locked
	return match, nil
}

func (s *matchService) DeleteMatch(ctx context.Context, matchID int) error {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if match.Locked {
		return ErrMatchLocked
	}
	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to delete match %d: %w", matchID, err)
	}
	return nil
}

func (s *matchService) SetMatchdayClosed(ctx context.Context, tournamentID, matchday int, closed bool, updatedBy *string) (*models.MatchdayLock, error) {
	if matchday < 1 {
		return nil, ErrInvalidMatchday
	}
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	lock := &models.MatchdayLock{
		TournamentID: tournamentID,
		Matchday:     matchday,
		IsClosed:     closed,
		UpdatedBy:    updatedBy,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.matchdayRepo.Upsert(ctx, lock); err != nil {
		return nil, fmt.Errorf("failed to update matchday lock: %w", err)
	}

	s.logger.InfoContext(ctx, "matchday lock changed",
		slog.Int("tournament_id", tournamentID),
		slog.Int("matchday", matchday),
		slog.Bool("closed", closed))

	return lock, nil
}

func (s *matchService) ListMatchdayLocks(ctx context.Context, tournamentID int) ([]*models.MatchdayLock, error) {
	locks, err := s.matchdayRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matchday locks for tournament %d: %w", tournamentID, err)
	}
	if locks == nil {
		return []*models.MatchdayLock{}, nil
	}
	return locks, nil
}

func (s *matchService) getMatch(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return match, nil
}

// Matches without a matchday can never be behind a matchday lock.
func (s *matchService) isMatchdayClosed(ctx context.Context, tournamentID int, matchday *int) (bool, error) {
	if matchday == nil {
		return false, nil
	}
	lock, err := s.matchdayRepo.Get(ctx, tournamentID, *matchday)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchdayLockNotFound) {
			return false, nil
		}
		return false, err
	}
	return lock.IsClosed, nil
}

// broadcastMatchUpdate pushes the updated match and recomputed standings to
// the tournament's live room. Failures only log; the submission has already
// been persisted.
func (s *matchService) broadcastMatchUpdate(ctx context.Context, tournament *models.Tournament, match *models.Match) {
	if s.hub == nil {
		return
	}
	room := roomID(tournament.ID)
	s.hub.BroadcastToRoom(room, live.Message{
		Type:    live.EventMatchUpdated,
		Payload: match,
		RoomID:  room,
	})

	participants, err := s.participantRepo.ListByTournament(ctx, tournament.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "standings broadcast skipped",
			slog.Int("tournament_id", tournament.ID), slog.Any("error", err))
		return
	}
	matches, err := s.matchRepo.ListByTournament(ctx, tournament.ID, nil)
	if err != nil {
		s.logger.WarnContext(ctx, "standings broadcast skipped",
			slog.Int("tournament_id", tournament.ID), slog.Any("error", err))
		return
	}
	rows := standings.Compute(tournament.Rules(), participants, matches)
	s.hub.BroadcastToRoom(room, live.Message{
		Type:    live.EventStandingsUpdated,
		Payload: rows,
		RoomID:  room,
	})
}
