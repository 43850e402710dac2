package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/league-engine/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentInUse    = errors.New("tournament is in use (matches or participants exist)")
)

type ListTournamentsFilter struct {
	Status *models.TournamentStatus
	Kind   *models.TournamentKind
	Limit  int
	Offset int
}

// UpdateRulesParams carries a partial rules edit; nil fields are left
// untouched.
type UpdateRulesParams struct {
	PointsWin     *int
	PointsDraw    *int
	PointsLoss    *int
	AllowDraws    *bool
	TiebreakOrder []string
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	UpdateRules(ctx context.Context, id int, params UpdateRulesParams) error
	UpdateBadgeKey(ctx context.Context, id int, badgeKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, name, kind, status, schedule_mode, match_schema,
	points_win, points_draw, points_loss, allow_draws, tiebreak_order,
	created_by, created_at, badge_key`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments
			(name, kind, status, schedule_mode, match_schema,
			 points_win, points_draw, points_loss, allow_draws, tiebreak_order, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name,
		t.Kind,
		t.Status,
		t.ScheduleMode,
		t.MatchSchema,
		t.PointsWin,
		t.PointsDraw,
		t.PointsLoss,
		t.AllowDraws,
		pq.Array(t.TiebreakOrder),
		t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) scanTournament(rowScanner interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	var t models.Tournament
	var tiebreak pq.StringArray
	err := rowScanner.Scan(
		&t.ID, &t.Name, &t.Kind, &t.Status, &t.ScheduleMode, &t.MatchSchema,
		&t.PointsWin, &t.PointsDraw, &t.PointsLoss, &t.AllowDraws, &tiebreak,
		&t.CreatedBy, &t.CreatedAt, &t.BadgeKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	t.TiebreakOrder = []string(tiebreak)
	return &t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	return r.scanTournament(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`)

	args := []interface{}{}
	placeholder := 1

	if filter.Status != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(placeholder))
		args = append(args, *filter.Status)
		placeholder++
	}
	if filter.Kind != nil {
		queryBuilder.WriteString(" AND kind = $" + strconv.Itoa(placeholder))
		args = append(args, *filter.Kind)
		placeholder++
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC, id DESC")

	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT $" + strconv.Itoa(placeholder))
		args = append(args, filter.Limit)
		placeholder++
	}
	if filter.Offset > 0 {
		queryBuilder.WriteString(" OFFSET $" + strconv.Itoa(placeholder))
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := r.scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	executor := SQLExecutor(r.db)
	if exec != nil {
		executor = exec
	}
	result, err := executor.ExecContext(ctx, `UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateRules(ctx context.Context, id int, params UpdateRulesParams) error {
	sets := []string{}
	args := []interface{}{}
	placeholder := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, column+" = $"+strconv.Itoa(placeholder))
		args = append(args, value)
		placeholder++
	}

	if params.PointsWin != nil {
		addSet("points_win", *params.PointsWin)
	}
	if params.PointsDraw != nil {
		addSet("points_draw", *params.PointsDraw)
	}
	if params.PointsLoss != nil {
		addSet("points_loss", *params.PointsLoss)
	}
	if params.AllowDraws != nil {
		addSet("allow_draws", *params.AllowDraws)
	}
	if len(params.TiebreakOrder) > 0 {
		addSet("tiebreak_order", pq.Array(params.TiebreakOrder))
	}

	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE tournaments SET " + strings.Join(sets, ", ") + " WHERE id = $" + strconv.Itoa(placeholder)
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update rules for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateBadgeKey(ctx context.Context, id int, badgeKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET badge_key = $1 WHERE id = $2`, badgeKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" { // foreign_key_violation
			return ErrTournamentInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
