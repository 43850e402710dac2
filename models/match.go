package models

import (
	"encoding/json"
	"time"
)

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusPlayed    MatchStatus = "played"
	MatchStatusCancelled MatchStatus = "cancelled"
)

// MatchOrigin tags how a match row came into existence. Schedule regeneration
// only ever deletes generated rows; manual entries survive it.
type MatchOrigin string

const (
	OriginGenerated MatchOrigin = "generated"
	OriginManual    MatchOrigin = "manual"
)

// Match participants are fixed at creation. ScoreA/ScoreB are both nil or
// both set; ScorePayload keeps the schema-specific raw input so the numeric
// pair can be regenerated deterministically.
type Match struct {
	ID           int             `json:"id" db:"id"`
	TournamentID int             `json:"tournament_id" db:"tournament_id"`
	Matchday     *int            `json:"matchday,omitempty" db:"matchday"`
	PlayerA      string          `json:"player_a" db:"player_a"`
	PlayerB      string          `json:"player_b" db:"player_b"`
	ScoreA       *int            `json:"score_a,omitempty" db:"score_a"`
	ScoreB       *int            `json:"score_b,omitempty" db:"score_b"`
	ScorePayload json.RawMessage `json:"score_payload,omitempty" db:"score_payload"`
	Status       MatchStatus     `json:"status" db:"status"`
	ScheduledAt  *time.Time      `json:"scheduled_at,omitempty" db:"scheduled_at"`
	Location     *string         `json:"location,omitempty" db:"location"`
	Locked       bool            `json:"locked" db:"locked"`
	Origin       MatchOrigin     `json:"origin" db:"origin"`
	PlayedAt     *time.Time      `json:"played_at,omitempty" db:"played_at"`
	CreatedBy    *string         `json:"created_by,omitempty" db:"created_by"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// HasScore reports whether both sides of the score pair are recorded.
func (m *Match) HasScore() bool {
	return m.ScoreA != nil && m.ScoreB != nil
}
