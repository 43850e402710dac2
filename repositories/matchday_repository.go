package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/league-engine/models"
)

var ErrMatchdayLockNotFound = errors.New("matchday lock not found")

// MatchdayRepository stores per-matchday close flags, keyed by
// (tournament, matchday). A missing row means the matchday is open.
type MatchdayRepository interface {
	Upsert(ctx context.Context, lock *models.MatchdayLock) error
	Get(ctx context.Context, tournamentID, matchday int) (*models.MatchdayLock, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.MatchdayLock, error)
}

type postgresMatchdayRepository struct {
	db *sql.DB
}

func NewPostgresMatchdayRepository(db *sql.DB) MatchdayRepository {
	return &postgresMatchdayRepository{db: db}
}

func (r *postgresMatchdayRepository) Upsert(ctx context.Context, lock *models.MatchdayLock) error {
	if lock.UpdatedAt.IsZero() {
		lock.UpdatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO tournament_matchdays (tournament_id, matchday, is_closed, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tournament_id, matchday) DO UPDATE
		SET is_closed = EXCLUDED.is_closed,
		    updated_by = EXCLUDED.updated_by,
		    updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		lock.TournamentID, lock.Matchday, lock.IsClosed, lock.UpdatedBy, lock.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert matchday lock t:%d md:%d: %w", lock.TournamentID, lock.Matchday, err)
	}
	return nil
}

func (r *postgresMatchdayRepository) Get(ctx context.Context, tournamentID, matchday int) (*models.MatchdayLock, error) {
	query := `
		SELECT tournament_id, matchday, is_closed, updated_by, updated_at
		FROM tournament_matchdays
		WHERE tournament_id = $1 AND matchday = $2`

	var lock models.MatchdayLock
	err := r.db.QueryRowContext(ctx, query, tournamentID, matchday).Scan(
		&lock.TournamentID, &lock.Matchday, &lock.IsClosed, &lock.UpdatedBy, &lock.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchdayLockNotFound
		}
		return nil, err
	}
	return &lock, nil
}

func (r *postgresMatchdayRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.MatchdayLock, error) {
	query := `
		SELECT tournament_id, matchday, is_closed, updated_by, updated_at
		FROM tournament_matchdays
		WHERE tournament_id = $1
		ORDER BY matchday ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locks := make([]*models.MatchdayLock, 0)
	for rows.Next() {
		var lock models.MatchdayLock
		if scanErr := rows.Scan(&lock.TournamentID, &lock.Matchday, &lock.IsClosed, &lock.UpdatedBy, &lock.UpdatedAt); scanErr != nil {
			return nil, scanErr
		}
		locks = append(locks, &lock)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return locks, nil
}
