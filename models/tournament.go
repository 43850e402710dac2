package models

import "time"

// TournamentKind mirrors the kind ENUM in the DB. Cups are accepted but the
// standings engine treats them exactly like leagues.
type TournamentKind string

const (
	KindLeague TournamentKind = "league"
	KindCup    TournamentKind = "cup"
)

type TournamentStatus string

const (
	StatusDraft    TournamentStatus = "draft"
	StatusRunning  TournamentStatus = "running"
	StatusFinished TournamentStatus = "finished"
)

// ScheduleMode selects how fixtures come into existence: generated single or
// double round-robin, or fully manual entry.
type ScheduleMode string

const (
	ScheduleSingleRoundRobin ScheduleMode = "rr1"
	ScheduleDoubleRoundRobin ScheduleMode = "rr2"
	ScheduleManual           ScheduleMode = "manual"
)

// DefaultTiebreakOrder is stored on tournaments that don't specify their own
// order. The standings computation currently hard-codes this exact chain.
var DefaultTiebreakOrder = []string{"points", "h2h_points", "h2h_diff", "diff", "scored", "random"}

type Tournament struct {
	ID            int              `json:"id" db:"id"`
	Name          string           `json:"name" db:"name"`
	Kind          TournamentKind   `json:"kind" db:"kind"`
	Status        TournamentStatus `json:"status" db:"status"`
	ScheduleMode  ScheduleMode     `json:"schedule_mode" db:"schedule_mode"`
	MatchSchema   MatchSchema      `json:"match_schema" db:"match_schema"`
	PointsWin     int              `json:"points_win" db:"points_win"`
	PointsDraw    int              `json:"points_draw" db:"points_draw"`
	PointsLoss    int              `json:"points_loss" db:"points_loss"`
	AllowDraws    *bool            `json:"allow_draws,omitempty" db:"allow_draws"`
	TiebreakOrder []string         `json:"tiebreak_order,omitempty" db:"tiebreak_order"`
	CreatedBy     *string          `json:"created_by,omitempty" db:"created_by"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	BadgeKey      *string          `json:"-" db:"badge_key"`
	BadgeURL      *string          `json:"badge_url,omitempty" db:"-"`
}

// TournamentRules is the fully resolved scoring configuration. Optional
// columns are defaulted exactly once, at load time, so the engine never has to
// re-detect capability per call.
type TournamentRules struct {
	PointsWin     int      `json:"points_win"`
	PointsDraw    int      `json:"points_draw"`
	PointsLoss    int      `json:"points_loss"`
	AllowDraws    bool     `json:"allow_draws"`
	TiebreakOrder []string `json:"tiebreak_order"`
}

// Rules resolves the tournament's optional rule fields: allow_draws defaults
// to "draws are worth points", tiebreak_order to the default chain.
func (t *Tournament) Rules() TournamentRules {
	allowDraws := t.PointsDraw > 0
	if t.AllowDraws != nil {
		allowDraws = *t.AllowDraws
	}
	order := t.TiebreakOrder
	if len(order) == 0 {
		order = DefaultTiebreakOrder
	}
	return TournamentRules{
		PointsWin:     t.PointsWin,
		PointsDraw:    t.PointsDraw,
		PointsLoss:    t.PointsLoss,
		AllowDraws:    allowDraws,
		TiebreakOrder: order,
	}
}
