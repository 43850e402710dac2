package models

import "time"

// MatchdayLock freezes score entry for every match of one matchday. It is
// independent of, and additive to, the per-match locked flag.
type MatchdayLock struct {
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Matchday     int       `json:"matchday" db:"matchday"`
	IsClosed     bool      `json:"is_closed" db:"is_closed"`
	UpdatedBy    *string   `json:"updated_by,omitempty" db:"updated_by"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
