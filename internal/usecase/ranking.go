package usecase

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/fixture"
	"github.com/riskibarqy/prode/internal/domain/group"
	"github.com/riskibarqy/prode/internal/domain/prediction"
)

const DefaultRecentActivityLimit = 3

// RankedRow is one member's standing inside a group. It is recomputed on every read.
type RankedRow struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Rank        int    `json:"rank"`
	Points      int    `json:"points"`
	Exact       int    `json:"exact"`
	WinDraw     int    `json:"win_draw"`
	Miss        int    `json:"miss"`
	Scored      int    `json:"scored"`
}

// BuildGroupStandings scores every complete prediction that has a resolved result
// and ranks members by points, exact hits, display name and user id.
func BuildGroupStandings(members []group.Member, predictions []prediction.Prediction, scores fixture.ScoreMap) []RankedRow {
	rows := make(map[string]*RankedRow, len(members))
	for _, m := range members {
		if _, exists := rows[m.UserID]; exists || strings.TrimSpace(m.UserID) == "" {
			continue
		}
		name := strings.TrimSpace(m.DisplayName)
		if name == "" {
			name = m.UserID
		}
		rows[m.UserID] = &RankedRow{UserID: m.UserID, DisplayName: name}
	}

	for _, p := range predictions {
		row, ok := rows[p.UserID]
		if !ok {
			continue
		}
		guess, complete := p.Guess()
		if !complete {
			continue
		}
		result, resolved := scores[p.FixtureID]
		if !resolved {
			continue
		}

		points := prediction.CalculatePoints(guess, result)
		row.Points += points
		row.Scored++
		switch prediction.OutcomeOf(points) {
		case prediction.OutcomeExact:
			row.Exact++
		case prediction.OutcomeWinDraw:
			row.WinDraw++
		default:
			row.Miss++
		}
	}

	out := make([]RankedRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Exact != b.Exact {
			return a.Exact > b.Exact
		}
		if a.DisplayName != b.DisplayName {
			return a.DisplayName < b.DisplayName
		}
		return a.UserID < b.UserID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// FindRow returns the row of userID, if ranked.
func FindRow(rows []RankedRow, userID string) (RankedRow, bool) {
	for _, row := range rows {
		if row.UserID == userID {
			return row, true
		}
	}
	return RankedRow{}, false
}

type ProfileStats struct {
	TotalPoints int `json:"total_points"`
	AccuracyPct int `json:"accuracy_pct"`
	Scored      int `json:"scored"`
	Correct     int `json:"correct"`
	GroupCount  int `json:"group_count"`
}

type ProfileStatsInput struct {
	Predictions []prediction.Prediction
	// GroupScopes resolves the competition scope of each group a prediction belongs to.
	GroupScopes map[string]competition.Scope
	// ScoreMaps is keyed by competition.Scope.Key().
	ScoreMaps  map[string]fixture.ScoreMap
	GroupCount int
}

// BuildProfileStats sums points across groups. Predictions without a resolvable
// result count neither as scored nor as misses.
func BuildProfileStats(input ProfileStatsInput) ProfileStats {
	stats := ProfileStats{GroupCount: input.GroupCount}
	for _, p := range input.Predictions {
		guess, complete := p.Guess()
		if !complete {
			continue
		}
		scope, ok := input.GroupScopes[p.GroupID]
		if !ok {
			continue
		}
		result, resolved := input.ScoreMaps[scope.Key()][p.FixtureID]
		if !resolved {
			continue
		}

		points := prediction.CalculatePoints(guess, result)
		stats.TotalPoints += points
		stats.Scored++
		if points > 0 {
			stats.Correct++
		}
	}
	if stats.Scored > 0 {
		stats.AccuracyPct = int(math.Round(100 * float64(stats.Correct) / float64(stats.Scored)))
	}
	return stats
}

type ActivityKind string

const (
	ActivityPredictionSubmitted ActivityKind = "prediction_submitted"
	ActivityGroupJoined         ActivityKind = "group_joined"
)

type ActivityEvent struct {
	Kind      ActivityKind `json:"kind"`
	ID        string       `json:"id"`
	GroupID   string       `json:"group_id"`
	GroupName string       `json:"group_name,omitempty"`
	FixtureID string       `json:"fixture_id,omitempty"`
	Period    string       `json:"period,omitempty"`
	At        time.Time    `json:"at"`
}

// BuildRecentActivity merges prediction and join events, newest first.
func BuildRecentActivity(predictions []prediction.Prediction, memberships []group.Member, groupNames map[string]string, limit int) []ActivityEvent {
	events := make([]ActivityEvent, 0, len(predictions)+len(memberships))
	for _, p := range predictions {
		if p.SubmittedAt.IsZero() {
			continue
		}
		id := p.ID
		if id == "" {
			id = p.GroupID + ":" + p.FixtureID
		}
		events = append(events, ActivityEvent{
			Kind:      ActivityPredictionSubmitted,
			ID:        id,
			GroupID:   p.GroupID,
			GroupName: groupNames[p.GroupID],
			FixtureID: p.FixtureID,
			Period:    p.Period,
			At:        p.SubmittedAt,
		})
	}
	for _, m := range memberships {
		if m.JoinedAt.IsZero() {
			continue
		}
		events = append(events, ActivityEvent{
			Kind:      ActivityGroupJoined,
			ID:        m.GroupID + ":" + m.UserID,
			GroupID:   m.GroupID,
			GroupName: groupNames[m.GroupID],
			At:        m.JoinedAt,
		})
	}

	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.At.Equal(b.At) {
			return a.At.After(b.At)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.ID < b.ID
	})
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events
}
