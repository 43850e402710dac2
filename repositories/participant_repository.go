package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound          = errors.New("participant registration not found")
	ErrParticipantTournamentInvalid = errors.New("participant tournament conflict or invalid")
)

// ParticipantRepository manages the externally-owned participant set of a
// tournament. Participant ids are opaque: the engine never interprets them.
type ParticipantRepository interface {
	Add(ctx context.Context, tournamentID int, participantID string) error
	Remove(ctx context.Context, tournamentID int, participantID string) error
	ListByTournament(ctx context.Context, tournamentID int) ([]string, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

// Add registers a participant; joining twice is a no-op.
func (r *postgresParticipantRepository) Add(ctx context.Context, tournamentID int, participantID string) error {
	query := `
		INSERT INTO tournament_participants (tournament_id, participant_id)
		VALUES ($1, $2)
		ON CONFLICT (tournament_id, participant_id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, tournamentID, participantID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "tournament_participants_tournament_id_fkey" {
			return ErrParticipantTournamentInvalid
		}
		return fmt.Errorf("failed to add participant %s to tournament %d: %w", participantID, tournamentID, err)
	}
	return nil
}

func (r *postgresParticipantRepository) Remove(ctx context.Context, tournamentID int, participantID string) error {
	query := `DELETE FROM tournament_participants WHERE tournament_id = $1 AND participant_id = $2`
	result, err := r.db.ExecContext(ctx, query, tournamentID, participantID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

// ListByTournament returns participant ids in join order; the scheduler
// relies on this order being stable within a single generation call only.
func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int) ([]string, error) {
	query := `
		SELECT participant_id
		FROM tournament_participants
		WHERE tournament_id = $1
		ORDER BY joined_at ASC, participant_id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	participants := make([]string, 0)
	for rows.Next() {
		var id string
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, scanErr
		}
		participants = append(participants, id)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return participants, nil
}
