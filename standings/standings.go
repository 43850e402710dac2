// Package standings derives ranking tables and recent form from a snapshot
// of a tournament's matches. Everything here is a pure fold: no storage, no
// caching, recomputed from scratch on every call.
package standings

import (
	"sort"
	"strings"

	"github.com/Dosada05/league-engine/models"
)

// Compute folds the played matches into a ranked table.
//
// Every current participant gets a zero row even without played matches, and
// ids that appear only inside match records are kept too, so membership
// changes never drop historical rows. Equal scores always increment both
// draw counters, but points are only awarded when the rules allow draws: a
// recorded draw under a no-draws rule stays a zero-point statistic rather
// than being rewritten.
//
// Rows are ordered by points desc, diff desc, scored desc, id asc; groups of
// rows tied on points are then re-ordered by a head-to-head sub-table over
// the matches played strictly among the tied participants.
func Compute(rules models.TournamentRules, participants []string, matches []*models.Match) []models.StandingRow {
	table := make(map[string]*models.StandingRow, len(participants))
	order := make([]string, 0, len(participants))

	row := func(id string) *models.StandingRow {
		if r, ok := table[id]; ok {
			return r
		}
		r := &models.StandingRow{ParticipantID: id}
		table[id] = r
		order = append(order, id)
		return r
	}

	for _, p := range participants {
		row(p)
	}

	for _, m := range matches {
		a := row(m.PlayerA)
		b := row(m.PlayerB)

		if m.Status != models.MatchStatusPlayed || !m.HasScore() {
			continue
		}

		a.Played++
		b.Played++
		a.Scored += *m.ScoreA
		a.Conceded += *m.ScoreB
		b.Scored += *m.ScoreB
		b.Conceded += *m.ScoreA

		switch {
		case *m.ScoreA > *m.ScoreB:
			a.Wins++
			b.Losses++
			a.Points += rules.PointsWin
			b.Points += rules.PointsLoss
		case *m.ScoreA < *m.ScoreB:
			b.Wins++
			a.Losses++
			b.Points += rules.PointsWin
			a.Points += rules.PointsLoss
		case rules.AllowDraws:
			a.Draws++
			b.Draws++
			a.Points += rules.PointsDraw
			b.Points += rules.PointsDraw
		default:
			a.Draws++
			b.Draws++
		}
	}

	rows := make([]models.StandingRow, 0, len(order))
	for _, id := range order {
		r := table[id]
		r.Diff = r.Scored - r.Conceded
		rows = append(rows, *r)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Diff != b.Diff {
			return a.Diff > b.Diff
		}
		if a.Scored != b.Scored {
			return a.Scored > b.Scored
		}
		return a.ParticipantID < b.ParticipantID
	})

	resolveTiesHeadToHead(rules, rows, matches)
	return rows
}

// resolveTiesHeadToHead re-sorts each maximal run of rows sharing the same
// points by a sub-table restricted to matches among the tied participants.
// Order across different point groups is untouched.
func resolveTiesHeadToHead(rules models.TournamentRules, rows []models.StandingRow, matches []*models.Match) {
	start := 0
	for start < len(rows) {
		end := start + 1
		for end < len(rows) && rows[end].Points == rows[start].Points {
			end++
		}
		if end-start > 1 {
			group := rows[start:end]
			ids := make([]string, len(group))
			for i, r := range group {
				ids[i] = r.ParticipantID
			}
			h2h := headToHead(rules, ids, matches)

			sort.Slice(group, func(i, j int) bool {
				ha, hb := h2h[group[i].ParticipantID], h2h[group[j].ParticipantID]
				if ha.points != hb.points {
					return ha.points > hb.points
				}
				if da, db := ha.scored-ha.conceded, hb.scored-hb.conceded; da != db {
					return da > db
				}
				if ha.scored != hb.scored {
					return ha.scored > hb.scored
				}
				return strings.Compare(group[i].ParticipantID, group[j].ParticipantID) < 0
			})
		}
		start = end
	}
}

type h2hRecord struct {
	points   int
	scored   int
	conceded int
}

// headToHead reuses the points logic, scoped to matches where both players
// belong to the tied group.
func headToHead(rules models.TournamentRules, tied []string, matches []*models.Match) map[string]h2hRecord {
	set := make(map[string]bool, len(tied))
	table := make(map[string]h2hRecord, len(tied))
	for _, id := range tied {
		set[id] = true
		table[id] = h2hRecord{}
	}

	for _, m := range matches {
		if m.Status != models.MatchStatusPlayed || !m.HasScore() {
			continue
		}
		if !set[m.PlayerA] || !set[m.PlayerB] {
			continue
		}

		a := table[m.PlayerA]
		b := table[m.PlayerB]
		a.scored += *m.ScoreA
		a.conceded += *m.ScoreB
		b.scored += *m.ScoreB
		b.conceded += *m.ScoreA

		switch {
		case *m.ScoreA > *m.ScoreB:
			a.points += rules.PointsWin
			b.points += rules.PointsLoss
		case *m.ScoreA < *m.ScoreB:
			b.points += rules.PointsWin
			a.points += rules.PointsLoss
		case rules.AllowDraws:
			a.points += rules.PointsDraw
			b.points += rules.PointsDraw
		}

		table[m.PlayerA] = a
		table[m.PlayerB] = b
	}

	return table
}
