package standings

import (
	"fmt"
	"sort"

	"github.com/Dosada05/league-engine/models"
)

// DefaultFormSize is the number of recent results kept per participant.
const DefaultFormSize = 5

// BuildFormMap derives each participant's last-N results and current streak.
//
// Only played matches with both scores count. They are scanned most recent
// first by played_at. A tied score is always token D here regardless of the
// tournament's allow_draws rule, since form reports what happened on the
// pitch rather than how it was scored. Kept entries are reversed back to
// chronological order; the streak is the leading run of the
// reverse-chronological scan, formatted like "W3", empty when nothing was
// played.
func BuildFormMap(participants []string, matches []*models.Match, lastN int) map[string]models.FormSummary {
	if lastN <= 0 {
		lastN = DefaultFormSize
	}

	recent := make(map[string][]models.FormEntry, len(participants))
	for _, p := range participants {
		recent[p] = []models.FormEntry{}
	}

	played := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if m.Status == models.MatchStatusPlayed && m.HasScore() && m.PlayedAt != nil {
			played = append(played, m)
		}
	}
	sort.Slice(played, func(i, j int) bool {
		if !played[i].PlayedAt.Equal(*played[j].PlayedAt) {
			return played[i].PlayedAt.After(*played[j].PlayedAt)
		}
		return played[i].ID > played[j].ID
	})

	for _, m := range played {
		tokenA, tokenB := models.FormDraw, models.FormDraw
		if *m.ScoreA > *m.ScoreB {
			tokenA, tokenB = models.FormWin, models.FormLoss
		} else if *m.ScoreA < *m.ScoreB {
			tokenA, tokenB = models.FormLoss, models.FormWin
		}

		if len(recent[m.PlayerA]) < lastN {
			recent[m.PlayerA] = append(recent[m.PlayerA], models.FormEntry{Token: tokenA, PlayedAt: *m.PlayedAt})
		}
		if len(recent[m.PlayerB]) < lastN {
			recent[m.PlayerB] = append(recent[m.PlayerB], models.FormEntry{Token: tokenB, PlayedAt: *m.PlayedAt})
		}
	}

	out := make(map[string]models.FormSummary, len(recent))
	for id, entries := range recent {
		summary := models.FormSummary{Streak: streak(entries)}

		// Reverse to chronological order for display.
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
		summary.Last = entries
		out[id] = summary
	}
	return out
}

// streak expects entries most recent first and returns the leading run of
// identical tokens, e.g. "W3".
func streak(entries []models.FormEntry) string {
	if len(entries) == 0 {
		return ""
	}
	first := entries[0].Token
	n := 0
	for _, e := range entries {
		if e.Token != first {
			break
		}
		n++
	}
	return fmt.Sprintf("%s%d", first, n)
}
