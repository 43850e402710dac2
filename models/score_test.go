package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestNormalizeNumeric(t *testing.T) {
	scoreA, scoreB, payload, err := ScoreInput{
		Schema: SchemaNumeric,
		ScoreA: intPtr(2),
		ScoreB: intPtr(1),
	}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, 2, scoreA)
	assert.Equal(t, 1, scoreB)
	assert.Nil(t, payload)
}

func TestNormalizeNumericDefaultsMissingToZero(t *testing.T) {
	scoreA, scoreB, _, err := ScoreInput{Schema: SchemaNumeric, ScoreA: intPtr(3)}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, 3, scoreA)
	assert.Equal(t, 0, scoreB)
}

func TestNormalizeNumericRejectsNegative(t *testing.T) {
	_, _, _, err := ScoreInput{Schema: SchemaNumeric, ScoreA: intPtr(-1), ScoreB: intPtr(0)}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestNormalizeWinnerTokens(t *testing.T) {
	tests := []struct {
		name       string
		winner     *string
		wantA      int
		wantB      int
		wantToken  string
		nilPayload bool
	}{
		{name: "side a", winner: strPtr("a"), wantA: 1, wantB: 0, wantToken: "a"},
		{name: "side b", winner: strPtr("b"), wantA: 0, wantB: 1, wantToken: "b"},
		{name: "none clears", winner: strPtr("none"), nilPayload: true},
		{name: "empty clears", winner: strPtr(""), nilPayload: true},
		{name: "absent clears", winner: nil, nilPayload: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			scoreA, scoreB, payload, err := ScoreInput{Schema: SchemaWinner, Winner: tc.winner}.Normalize()
			require.NoError(t, err)
			assert.Equal(t, tc.wantA, scoreA)
			assert.Equal(t, tc.wantB, scoreB)
			if tc.nilPayload {
				assert.Nil(t, payload)
			} else {
				var decoded WinnerPayload
				require.NoError(t, json.Unmarshal(payload, &decoded))
				assert.Equal(t, tc.wantToken, decoded.Winner)
			}
		})
	}
}

func TestNormalizeWinnerRejectsUnknownToken(t *testing.T) {
	_, _, _, err := ScoreInput{Schema: SchemaWinner, Winner: strPtr("left")}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestNormalizeSetsSumsPerSide(t *testing.T) {
	scoreA, scoreB, payload, err := ScoreInput{
		Schema: SchemaSets,
		Sets: []SetScore{
			{A: 6, B: 4},
			{A: 3, B: 6},
			{A: 6, B: 2},
		},
	}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, 15, scoreA)
	assert.Equal(t, 12, scoreB)

	var decoded SetsPayload
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Len(t, decoded.Sets, 3)
	assert.Equal(t, SetScore{A: 3, B: 6}, decoded.Sets[1])
}

func TestNormalizeSetsRequiresAtLeastOne(t *testing.T) {
	_, _, _, err := ScoreInput{Schema: SchemaSets}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestNormalizeSetsRejectsNegative(t *testing.T) {
	_, _, _, err := ScoreInput{Schema: SchemaSets, Sets: []SetScore{{A: 6, B: -1}}}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestNormalizeUnknownSchema(t *testing.T) {
	_, _, _, err := ScoreInput{Schema: "golf"}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestNormalizeEmptySchemaActsNumeric(t *testing.T) {
	scoreA, scoreB, payload, err := ScoreInput{ScoreA: intPtr(1), ScoreB: intPtr(1)}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, 1, scoreA)
	assert.Equal(t, 1, scoreB)
	assert.Nil(t, payload)
}
