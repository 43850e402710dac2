package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MatchSchema selects how raw score input is shaped before normalization.
type MatchSchema string

const (
	SchemaNumeric MatchSchema = "numeric"
	SchemaWinner  MatchSchema = "winner"
	SchemaSets    MatchSchema = "sets"
)

// ErrInvalidScore marks malformed schema input: negative numbers, missing
// required fields, unknown winner tokens.
var ErrInvalidScore = errors.New("invalid score input")

type SetScore struct {
	A int `json:"a"`
	B int `json:"b"`
}

// WinnerPayload keeps the raw winner token so consumers that only care about
// win/loss intent can reconstruct it without reading the numeric pair.
type WinnerPayload struct {
	Winner string `json:"winner"`
}

type SetsPayload struct {
	Sets []SetScore `json:"sets"`
}

// ScoreInput is the tagged variant for score submissions. Exactly the fields
// belonging to Schema are consulted; the rest are ignored.
type ScoreInput struct {
	Schema MatchSchema `json:"schema"`
	ScoreA *int        `json:"score_a,omitempty"`
	ScoreB *int        `json:"score_b,omitempty"`
	Winner *string     `json:"winner,omitempty"`
	Sets   []SetScore  `json:"sets,omitempty"`
}

// Normalize converts the schema-specific input into the canonical
// (scoreA, scoreB, payload) triple:
//
//   - numeric: scores taken directly, absent values default to 0, nil payload
//   - winner:  "a" -> 1-0, "b" -> 0-1, none -> 0-0 with nil payload (clears a
//     previous result); the token is kept in the payload
//   - sets:    at least one (a, b) pair, scores are the per-side sums
func (in ScoreInput) Normalize() (scoreA, scoreB int, payload json.RawMessage, err error) {
	switch in.Schema {
	case SchemaNumeric, "":
		if in.ScoreA != nil {
			scoreA = *in.ScoreA
		}
		if in.ScoreB != nil {
			scoreB = *in.ScoreB
		}
		if scoreA < 0 || scoreB < 0 {
			return 0, 0, nil, fmt.Errorf("%w: scores must be non-negative", ErrInvalidScore)
		}
		return scoreA, scoreB, nil, nil

	case SchemaWinner:
		winner := ""
		if in.Winner != nil {
			winner = *in.Winner
		}
		switch winner {
		case "a":
			payload, err = json.Marshal(WinnerPayload{Winner: "a"})
			return 1, 0, payload, err
		case "b":
			payload, err = json.Marshal(WinnerPayload{Winner: "b"})
			return 0, 1, payload, err
		case "", "none":
			return 0, 0, nil, nil
		default:
			return 0, 0, nil, fmt.Errorf("%w: unknown winner token %q", ErrInvalidScore, winner)
		}

	case SchemaSets:
		if len(in.Sets) == 0 {
			return 0, 0, nil, fmt.Errorf("%w: at least one set is required", ErrInvalidScore)
		}
		for i, set := range in.Sets {
			if set.A < 0 || set.B < 0 {
				return 0, 0, nil, fmt.Errorf("%w: set %d has negative scores", ErrInvalidScore, i+1)
			}
			scoreA += set.A
			scoreB += set.B
		}
		payload, err = json.Marshal(SetsPayload{Sets: in.Sets})
		return scoreA, scoreB, payload, err

	default:
		return 0, 0, nil, fmt.Errorf("%w: unknown schema %q", ErrInvalidScore, in.Schema)
	}
}
