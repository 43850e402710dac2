package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/repositories"
	"github.com/Dosada05/league-engine/storage"
)

var (
	ErrTournamentCreationFailed = errors.New("failed to create tournament")
	ErrTournamentUpdateFailed   = errors.New("failed to update tournament")
	ErrTournamentDeleteFailed   = errors.New("failed to delete tournament")
	ErrBadgeUploadFailed        = errors.New("failed to upload tournament badge")

	// ErrBadgeStorageUnavailable is returned when badge storage was never
	// configured; badge reads degrade gracefully, badge writes fail fast.
	ErrBadgeStorageUnavailable = errors.New("badge storage is not configured")
)

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	SetStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error)
	UpdateRules(ctx context.Context, id int, input UpdateRulesInput) (*models.Tournament, error)
	DeleteTournament(ctx context.Context, id int) error

	AddParticipant(ctx context.Context, tournamentID int, participantID string) error
	RemoveParticipant(ctx context.Context, tournamentID int, participantID string) error
	ListParticipants(ctx context.Context, tournamentID int) ([]string, error)

	UploadBadge(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Tournament, error)
	RemoveBadge(ctx context.Context, id int) error
}

type CreateTournamentInput struct {
	Name          string
	Kind          models.TournamentKind
	ScheduleMode  models.ScheduleMode
	MatchSchema   models.MatchSchema
	PointsWin     *int
	PointsDraw    *int
	PointsLoss    *int
	AllowDraws    *bool
	TiebreakOrder []string
	CreatedBy     *string
}

type UpdateRulesInput struct {
	PointsWin     *int
	PointsDraw    *int
	PointsLoss    *int
	AllowDraws    *bool
	TiebreakOrder []string
}

type tournamentService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	uploader        storage.FileUploader
	logger          *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		uploader:        uploader,
		logger:          logger,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}

	kind := input.Kind
	if kind == "" {
		kind = models.KindLeague
	}
	if kind != models.KindLeague && kind != models.KindCup {
		return nil, fmt.Errorf("%w: %q", ErrTournamentInvalidKind, kind)
	}

	mode := input.ScheduleMode
	if mode == "" {
		mode = models.ScheduleSingleRoundRobin
	}
	switch mode {
	case models.ScheduleSingleRoundRobin, models.ScheduleDoubleRoundRobin, models.ScheduleManual:
	default:
		return nil, fmt.Errorf("%w: %q", ErrTournamentInvalidMode, mode)
	}

	schema := input.MatchSchema
	if schema == "" {
		schema = models.SchemaNumeric
	}
	switch schema {
	case models.SchemaNumeric, models.SchemaWinner, models.SchemaSets:
	default:
		return nil, fmt.Errorf("%w: %q", ErrTournamentInvalidSchema, schema)
	}

	pointsWin, pointsDraw, pointsLoss := 3, 1, 0
	if input.PointsWin != nil {
		pointsWin = *input.PointsWin
	}
	if input.PointsDraw != nil {
		pointsDraw = *input.PointsDraw
	}
	if input.PointsLoss != nil {
		pointsLoss = *input.PointsLoss
	}
	if pointsWin < 0 || pointsDraw < 0 || pointsLoss < 0 {
		return nil, ErrTournamentNegativePoints
	}

	tournament := &models.Tournament{
		Name:          name,
		Kind:          kind,
		Status:        models.StatusDraft,
		ScheduleMode:  mode,
		MatchSchema:   schema,
		PointsWin:     pointsWin,
		PointsDraw:    pointsDraw,
		PointsLoss:    pointsLoss,
		AllowDraws:    input.AllowDraws,
		TiebreakOrder: input.TiebreakOrder,
		CreatedBy:     input.CreatedBy,
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTournamentCreationFailed, err)
	}

	s.logger.InfoContext(ctx, "tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.String("name", tournament.Name),
		slog.String("schedule_mode", string(tournament.ScheduleMode)))

	return tournament, nil
}

func (s *tournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	s.populateBadgeURL(tournament)
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for i := range tournaments {
		s.populateBadgeURL(&tournaments[i])
	}
	return tournaments, nil
}

// isValidStatusTransition allows draft -> running -> finished, plus skipping
// straight from draft to finished for tournaments recorded after the fact.
func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.TournamentStatus][]models.TournamentStatus{
		models.StatusDraft:    {models.StatusRunning, models.StatusFinished},
		models.StatusRunning:  {models.StatusFinished},
		models.StatusFinished: {},
	}
	for _, allowed := range allowedTransitions[current] {
		if next == allowed {
			return true
		}
	}
	return false
}

func (s *tournamentService) SetStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error) {
	switch status {
	case models.StatusDraft, models.StatusRunning, models.StatusFinished:
	default:
		return nil, fmt.Errorf("%w: %q", ErrTournamentInvalidStatus, status)
	}

	tournament, err := s.GetTournamentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isValidStatusTransition(tournament.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrTournamentInvalidTransition, tournament.Status, status)
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, nil, id, status); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("%w (id: %d): %w", ErrTournamentUpdateFailed, id, err)
	}
	tournament.Status = status

	s.logger.InfoContext(ctx, "tournament status changed",
		slog.Int("tournament_id", id), slog.String("status", string(status)))

	return tournament, nil
}

func (s *tournamentService) UpdateRules(ctx context.Context, id int, input UpdateRulesInput) (*models.Tournament, error) {
	if (input.PointsWin != nil && *input.PointsWin < 0) ||
		(input.PointsDraw != nil && *input.PointsDraw < 0) ||
		(input.PointsLoss != nil && *input.PointsLoss < 0) {
		return nil, ErrTournamentNegativePoints
	}

	err := s.tournamentRepo.UpdateRules(ctx, id, repositories.UpdateRulesParams{
		PointsWin:     input.PointsWin,
		PointsDraw:    input.PointsDraw,
		PointsLoss:    input.PointsLoss,
		AllowDraws:    input.AllowDraws,
		TiebreakOrder: input.TiebreakOrder,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("%w (id: %d): %w", ErrTournamentUpdateFailed, id, err)
	}

	return s.GetTournamentByID(ctx, id)
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id int) error {
	err := s.tournamentRepo.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return ErrTournamentNotFound
		case errors.Is(err, repositories.ErrTournamentInUse):
			return ErrTournamentInUse
		default:
			return fmt.Errorf("%w (id: %d): %w", ErrTournamentDeleteFailed, id, err)
		}
	}
	return nil
}

func (s *tournamentService) AddParticipant(ctx context.Context, tournamentID int, participantID string) error {
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return fmt.Errorf("%w: participant id is required", ErrValidationFailed)
	}
	if _, err := s.GetTournamentByID(ctx, tournamentID); err != nil {
		return err
	}
	if err := s.participantRepo.Add(ctx, tournamentID, participantID); err != nil {
		if errors.Is(err, repositories.ErrParticipantTournamentInvalid) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

func (s *tournamentService) RemoveParticipant(ctx context.Context, tournamentID int, participantID string) error {
	err := s.participantRepo.Remove(ctx, tournamentID, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	return nil
}

func (s *tournamentService) ListParticipants(ctx context.Context, tournamentID int) ([]string, error) {
	if _, err := s.GetTournamentByID(ctx, tournamentID); err != nil {
		return nil, err
	}
	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}

func (s *tournamentService) UploadBadge(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrBadgeStorageUnavailable
	}

	tournament, err := s.GetTournamentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("tournaments/%d/badge%s", id, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadgeUploadFailed, err)
	}

	oldKey := tournament.BadgeKey
	if err := s.tournamentRepo.UpdateBadgeKey(ctx, id, &key); err != nil {
		return nil, fmt.Errorf("%w (id: %d): %w", ErrTournamentUpdateFailed, id, err)
	}
	if oldKey != nil && *oldKey != key {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.WarnContext(ctx, "failed to delete previous badge",
				slog.Int("tournament_id", id), slog.String("key", *oldKey), slog.Any("error", delErr))
		}
	}

	tournament.BadgeKey = &key
	s.populateBadgeURL(tournament)
	return tournament, nil
}

func (s *tournamentService) RemoveBadge(ctx context.Context, id int) error {
	if s.uploader == nil {
		return ErrBadgeStorageUnavailable
	}

	tournament, err := s.GetTournamentByID(ctx, id)
	if err != nil {
		return err
	}
	if tournament.BadgeKey == nil {
		return nil
	}

	if err := s.uploader.Delete(ctx, *tournament.BadgeKey); err != nil {
		return fmt.Errorf("failed to delete badge object: %w", err)
	}
	if err := s.tournamentRepo.UpdateBadgeKey(ctx, id, nil); err != nil {
		return fmt.Errorf("%w (id: %d): %w", ErrTournamentUpdateFailed, id, err)
	}
	return nil
}

func (s *tournamentService) populateBadgeURL(tournament *models.Tournament) {
	if tournament == nil || tournament.BadgeKey == nil || *tournament.BadgeKey == "" || s.uploader == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*tournament.BadgeKey); url != "" {
		tournament.BadgeURL = &url
	}
}

func extensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("unsupported badge content type: %q", contentType)
	}
}
