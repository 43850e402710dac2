package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/repositories"
	"github.com/Dosada05/league-engine/standings"
	"golang.org/x/sync/errgroup"
)

var ErrStandingsFailed = errors.New("failed to compute standings")

type StandingsService interface {
	GetStandings(ctx context.Context, tournamentID int) (*StandingsView, error)
	GetForm(ctx context.Context, tournamentID int, lastN int) (*FormView, error)
}

type StandingsView struct {
	TournamentID int                    `json:"tournament_id"`
	Rules        models.TournamentRules `json:"rules"`
	Rows         []models.StandingRow   `json:"rows"`
	GeneratedAt  time.Time              `json:"generated_at"`
}

type FormView struct {
	TournamentID int                           `json:"tournament_id"`
	LastN        int                           `json:"last_n"`
	Form         map[string]models.FormSummary `json:"form"`
}

type standingsService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
) StandingsService {
	return &standingsService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
	}
}

// loadSnapshot fetches the tournament, its participants and its matches
// concurrently; standings and form both consume the same triple.
func (s *standingsService) loadSnapshot(ctx context.Context, tournamentID int) (*models.Tournament, []string, []*models.Match, error) {
	var (
		tournament   *models.Tournament
		participants []string
		matches      []*models.Match
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tournament, err = s.tournamentRepo.GetByID(gctx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}
		return nil
	})
	g.Go(func() error {
		var err error
		participants, err = s.participantRepo.ListByTournament(gctx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gctx, tournamentID, nil)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrTournamentNotFound) {
			return nil, nil, nil, ErrTournamentNotFound
		}
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrStandingsFailed, err)
	}
	return tournament, participants, matches, nil
}

func (s *standingsService) GetStandings(ctx context.Context, tournamentID int) (*StandingsView, error) {
	tournament, participants, matches, err := s.loadSnapshot(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	rules := tournament.Rules()
	return &StandingsView{
		TournamentID: tournamentID,
		Rules:        rules,
		Rows:         standings.Compute(rules, participants, matches),
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

func (s *standingsService) GetForm(ctx context.Context, tournamentID int, lastN int) (*FormView, error) {
	_, participants, matches, err := s.loadSnapshot(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if lastN <= 0 {
		lastN = standings.DefaultFormSize
	}

	return &FormView{
		TournamentID: tournamentID,
		LastN:        lastN,
		Form:         standings.BuildFormMap(participants, matches, lastN),
	}, nil
}
