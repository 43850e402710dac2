package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/league-engine/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	BatchCreate(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error)
	UpdateScore(ctx context.Context, id int, scoreA, scoreB int, payload json.RawMessage, playedAt time.Time) error
	UpdateSchedule(ctx context.Context, id int, matchday *int, scheduledAt *time.Time, location *string) error
	SetLocked(ctx context.Context, id int, locked bool) error
	DeleteGeneratedByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
	Delete(ctx context.Context, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, tournament_id, matchday, player_a, player_b,
	score_a, score_b, score_payload, status, scheduled_at, location,
	locked, origin, played_at, created_by, created_at`

const matchInsert = `
	INSERT INTO tournament_matches
		(tournament_id, matchday, player_a, player_b, score_a, score_b,
		 score_payload, status, scheduled_at, location, locked, origin, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING id, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	err := executor.QueryRowContext(ctx, matchInsert,
		match.TournamentID,
		match.Matchday,
		match.PlayerA,
		match.PlayerB,
		match.ScoreA,
		match.ScoreB,
		nullableJSON(match.ScorePayload),
		match.Status,
		match.ScheduledAt,
		match.Location,
		match.Locked,
		match.Origin,
		match.CreatedBy,
	).Scan(&match.ID, &match.CreatedAt)
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) BatchCreate(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)
	for _, match := range matches {
		err := executor.QueryRowContext(ctx, matchInsert,
			match.TournamentID,
			match.Matchday,
			match.PlayerA,
			match.PlayerB,
			match.ScoreA,
			match.ScoreB,
			nullableJSON(match.ScorePayload),
			match.Status,
			match.ScheduledAt,
			match.Location,
			match.Locked,
			match.Origin,
			match.CreatedBy,
		).Scan(&match.ID, &match.CreatedAt)
		if err != nil {
			return fmt.Errorf("batch create failed for pairing %s vs %s: %w", match.PlayerA, match.PlayerB, r.handleMatchError(err))
		}
	}
	return nil
}

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	var payload []byte
	err := rowScanner.Scan(
		&m.ID, &m.TournamentID, &m.Matchday, &m.PlayerA, &m.PlayerB,
		&m.ScoreA, &m.ScoreB, &payload, &m.Status, &m.ScheduledAt, &m.Location,
		&m.Locked, &m.Origin, &m.PlayedAt, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if len(payload) > 0 {
		m.ScorePayload = json.RawMessage(payload)
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM tournament_matches WHERE id = $1`
	return r.scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM tournament_matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	if status != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(len(args)+1))
		args = append(args, *status)
	}
	queryBuilder.WriteString(" ORDER BY matchday ASC NULLS LAST, created_at ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// UpdateScore records a result and flips the match to played. Resubmitting a
// correction overwrites the previous score and played_at.
func (r *postgresMatchRepository) UpdateScore(ctx context.Context, id int, scoreA, scoreB int, payload json.RawMessage, playedAt time.Time) error {
	query := `
		UPDATE tournament_matches
		SET score_a = $1, score_b = $2, score_payload = $3, status = $4, played_at = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		scoreA, scoreB, nullableJSON(payload), models.MatchStatusPlayed, playedAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSchedule(ctx context.Context, id int, matchday *int, scheduledAt *time.Time, location *string) error {
	query := `
		UPDATE tournament_matches
		SET matchday = $1, scheduled_at = $2, location = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, matchday, scheduledAt, location, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetLocked(ctx context.Context, id int, locked bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournament_matches SET locked = $1 WHERE id = $2`, locked, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// DeleteGeneratedByTournament removes generator-created matches only; manual
// entries are never touched by schedule regeneration.
func (r *postgresMatchRepository) DeleteGeneratedByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM tournament_matches WHERE tournament_id = $1 AND origin = $2`
	_, err := executor.ExecContext(ctx, query, tournamentID, models.OriginGenerated)
	return err
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournament_matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Constraint == "tournament_matches_tournament_id_fkey" {
			return ErrMatchTournamentInvalid
		}
	}
	return err
}

// nullableJSON maps an empty payload to SQL NULL instead of an empty string.
func nullableJSON(payload json.RawMessage) interface{} {
	if len(payload) == 0 {
		return nil
	}
	return []byte(payload)
}
