package models

import "time"

// StandingRow is derived on every read, never persisted.
type StandingRow struct {
	ParticipantID string `json:"participant_id"`
	Played        int    `json:"played"`
	Wins          int    `json:"wins"`
	Draws         int    `json:"draws"`
	Losses        int    `json:"losses"`
	Scored        int    `json:"scored"`
	Conceded      int    `json:"conceded"`
	Diff          int    `json:"diff"`
	Points        int    `json:"points"`
}

type FormToken string

const (
	FormWin  FormToken = "W"
	FormDraw FormToken = "D"
	FormLoss FormToken = "L"
)

type FormEntry struct {
	Token    FormToken `json:"token"`
	PlayedAt time.Time `json:"played_at"`
}

// FormSummary holds a participant's last-N results in chronological order
// (oldest of the kept window first) plus the current streak, e.g. "W3".
type FormSummary struct {
	Last   []FormEntry `json:"last"`
	Streak string      `json:"streak"`
}
