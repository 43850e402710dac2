package standings

import (
	"testing"
	"time"

	"github.com/Dosada05/league-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playedAt(id int, a, b string, scoreA, scoreB int, at time.Time) *models.Match {
	m := played(id, a, b, scoreA, scoreB)
	m.PlayedAt = &at
	return m
}

func TestBuildFormMapWindowAndStreak(t *testing.T) {
	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	day := func(n int) time.Time { return base.AddDate(0, 0, n) }

	// "a" plays six matches: L W W D W W chronologically.
	matches := []*models.Match{
		playedAt(1, "a", "b", 0, 1, day(0)), // L
		playedAt(2, "a", "b", 2, 0, day(1)), // W
		playedAt(3, "b", "a", 0, 3, day(2)), // W (away)
		playedAt(4, "a", "b", 1, 1, day(3)), // D
		playedAt(5, "a", "b", 4, 2, day(4)), // W
		playedAt(6, "b", "a", 1, 2, day(5)), // W
	}

	form := BuildFormMap([]string{"a", "b"}, matches, 5)

	a := form["a"]
	require.Len(t, a.Last, 5, "window drops the oldest result")
	tokens := make([]models.FormToken, 0, 5)
	for _, e := range a.Last {
		tokens = append(tokens, e.Token)
	}
	// Chronological within the kept window.
	assert.Equal(t, []models.FormToken{
		models.FormWin, models.FormWin, models.FormDraw, models.FormWin, models.FormWin,
	}, tokens)
	assert.True(t, a.Last[0].PlayedAt.Before(a.Last[4].PlayedAt))
	assert.Equal(t, "W2", a.Streak)

	b := form["b"]
	assert.Equal(t, "L2", b.Streak)
}

func TestBuildFormMapDrawTokenIgnoresRules(t *testing.T) {
	// Form reports a tied score as D even when the tournament forbids draw
	// points; no rules are consulted here at all.
	at := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	form := BuildFormMap([]string{"a", "b"}, []*models.Match{playedAt(1, "a", "b", 1, 1, at)}, 5)

	require.Len(t, form["a"].Last, 1)
	assert.Equal(t, models.FormDraw, form["a"].Last[0].Token)
	assert.Equal(t, "D1", form["a"].Streak)
}

func TestBuildFormMapNoPlayedMatches(t *testing.T) {
	scheduled := &models.Match{ID: 1, PlayerA: "a", PlayerB: "b", Status: models.MatchStatusScheduled}
	form := BuildFormMap([]string{"a", "b"}, []*models.Match{scheduled}, 5)

	assert.Empty(t, form["a"].Last)
	assert.Equal(t, "", form["a"].Streak)
}

func TestBuildFormMapSkipsMatchesWithoutPlayedAt(t *testing.T) {
	noTimestamp := played(1, "a", "b", 2, 0)
	form := BuildFormMap([]string{"a", "b"}, []*models.Match{noTimestamp}, 5)
	assert.Empty(t, form["a"].Last)
}

func TestBuildFormMapSameTimestampOrdersByID(t *testing.T) {
	at := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	matches := []*models.Match{
		playedAt(1, "a", "b", 2, 0, at), // W
		playedAt(2, "a", "b", 0, 1, at), // L, higher id wins the tie: most recent
	}

	form := BuildFormMap([]string{"a", "b"}, matches, 5)
	require.Len(t, form["a"].Last, 2)
	assert.Equal(t, models.FormLoss, form["a"].Last[1].Token)
	assert.Equal(t, "L1", form["a"].Streak)
}

func TestBuildFormMapDefaultsWindowSize(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	matches := make([]*models.Match, 0, 8)
	for i := 0; i < 8; i++ {
		matches = append(matches, playedAt(i+1, "a", "b", 1, 0, base.AddDate(0, 0, i)))
	}

	form := BuildFormMap([]string{"a", "b"}, matches, 0)
	assert.Len(t, form["a"].Last, DefaultFormSize)
	assert.Equal(t, "W5", form["a"].Streak)
}
