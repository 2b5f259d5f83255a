package fixture

import (
	"strings"
	"time"
)

// Status is the lifecycle state derived from a raw provider status code.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusLive     Status = "live"
	StatusFinal    Status = "final"
)

var liveCodes = map[string]struct{}{
	"1H":   {},
	"HT":   {},
	"2H":   {},
	"ET":   {},
	"BT":   {},
	"P":    {},
	"SUSP": {},
	"INT":  {},
	"LIVE": {},
}

var finalCodes = map[string]struct{}{
	"FT":  {},
	"AET": {},
	"PEN": {},
}

// Fixture represents one scheduled match as reported by the fixtures provider.
type Fixture struct {
	ID        string
	Round     string
	KickoffAt time.Time
	RawStatus string
	Elapsed   *int
	HomeTeam  string
	AwayTeam  string
	Venue     string
	HomeGoals *int
	AwayGoals *int
}

// Score is the current or final result of a fixture.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// ScoreMap indexes resolved scores by fixture id.
type ScoreMap map[string]Score

func NormalizeStatus(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// ClassifyStatus is total: every code outside the live and final sets is upcoming.
func ClassifyStatus(raw string) Status {
	code := NormalizeStatus(raw)
	if _, ok := liveCodes[code]; ok {
		return StatusLive
	}
	if _, ok := finalCodes[code]; ok {
		return StatusFinal
	}
	return StatusUpcoming
}

func (f Fixture) Status() Status {
	return ClassifyStatus(f.RawStatus)
}

// Score reports the result only for live or final fixtures. Missing goals read as zero.
func (f Fixture) Score() (Score, bool) {
	switch f.Status() {
	case StatusLive, StatusFinal:
	default:
		return Score{}, false
	}

	score := Score{}
	if f.HomeGoals != nil {
		score.Home = *f.HomeGoals
	}
	if f.AwayGoals != nil {
		score.Away = *f.AwayGoals
	}
	return score, true
}

// IsSecondHalf is true for 2H/ET codes or once the clock passes 45 minutes.
func (f Fixture) IsSecondHalf() bool {
	switch NormalizeStatus(f.RawStatus) {
	case "2H", "ET":
		return true
	}
	return f.Elapsed != nil && *f.Elapsed > 45
}

// Scores collects the results of every live or final fixture.
func Scores(fixtures []Fixture) ScoreMap {
	out := make(ScoreMap, len(fixtures))
	for _, item := range fixtures {
		score, ok := item.Score()
		if !ok || item.ID == "" {
			continue
		}
		out[item.ID] = score
	}
	return out
}
