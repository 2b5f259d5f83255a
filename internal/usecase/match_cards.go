package usecase

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/riskibarqy/prode/internal/domain/fixture"
	"github.com/riskibarqy/prode/internal/domain/prediction"
)

const (
	DefaultMatchCardLimit = 12
	defaultLiveProgress   = 50
	minLiveProgress       = 8
	maxLiveProgress       = 100
	regulationMinutes     = 90
)

// MatchCard is the presentation shape of one fixture. Score is set only for
// live and final fixtures and Progress only for live ones.
type MatchCard struct {
	ID         string          `json:"id"`
	Status     fixture.Status  `json:"status"`
	HomeCode   string          `json:"home_code"`
	AwayCode   string          `json:"away_code"`
	HomeTeam   string          `json:"home_team"`
	AwayTeam   string          `json:"away_team"`
	KickoffAt  time.Time       `json:"kickoff_at"`
	Venue      string          `json:"venue,omitempty"`
	Score      *fixture.Score  `json:"score,omitempty"`
	Prediction *fixture.Score  `json:"prediction,omitempty"`
	Label      string          `json:"label"`
	Points     *int            `json:"points,omitempty"`
	Tone       prediction.Tone `json:"tone,omitempty"`
	Progress   *int            `json:"progress,omitempty"`
}

type MatchCardOptions struct {
	Location *time.Location
	Now      time.Time
	// Guesses holds the caller's predictions keyed by fixture id.
	Guesses map[string]prediction.Guess
	Tones   prediction.ToneScale
	// Limit caps the result; zero or less keeps every card.
	Limit int
}

// DateCard groups the fixtures of one local calendar day.
type DateCard struct {
	Date       string        `json:"date"`
	Label      string        `json:"label"`
	LiveAccent bool          `json:"live_accent"`
	Rows       []DateCardRow `json:"rows"`
}

type DateCardRow struct {
	FixtureID string         `json:"fixture_id"`
	Line      string         `json:"line"`
	Tone      fixture.Status `json:"tone"`
}

type LiveDigest struct {
	Count   int         `json:"count"`
	Matches []LiveMatch `json:"matches"`
}

type LiveMatch struct {
	ID       string        `json:"id"`
	HomeCode string        `json:"home_code"`
	AwayCode string        `json:"away_code"`
	Score    fixture.Score `json:"score"`
	Label    string        `json:"label"`
	Progress int           `json:"progress"`
}

var statusPriority = map[fixture.Status]int{
	fixture.StatusLive:     0,
	fixture.StatusUpcoming: 1,
	fixture.StatusFinal:    2,
}

var weekdayNames = [...]string{"DOMINGO", "LUNES", "MARTES", "MIÉRCOLES", "JUEVES", "VIERNES", "SÁBADO"}

// MapToMatchCards orders cards live, then upcoming, then final, each group by kickoff.
func MapToMatchCards(fixtures []fixture.Fixture, opts MatchCardOptions) []MatchCard {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	ordered := sortedFixtures(fixtures)
	if opts.Limit > 0 && len(ordered) > opts.Limit {
		ordered = ordered[:opts.Limit]
	}

	cards := make([]MatchCard, 0, len(ordered))
	for _, item := range ordered {
		cards = append(cards, buildMatchCard(item, opts, loc, now))
	}
	return cards
}

func buildMatchCard(item fixture.Fixture, opts MatchCardOptions, loc *time.Location, now time.Time) MatchCard {
	status := item.Status()
	card := MatchCard{
		ID:        item.ID,
		Status:    status,
		HomeCode:  fixture.FormatTeamCode(item.HomeTeam),
		AwayCode:  fixture.FormatTeamCode(item.AwayTeam),
		HomeTeam:  item.HomeTeam,
		AwayTeam:  item.AwayTeam,
		KickoffAt: item.KickoffAt,
		Venue:     item.Venue,
		Label:     fixtureLabel(item, loc, now),
	}

	score, hasScore := item.Score()
	if hasScore {
		card.Score = &score
	}
	if status == fixture.StatusLive {
		progress := LiveProgress(item.Elapsed)
		card.Progress = &progress
	}

	guess, hasGuess := opts.Guesses[item.ID]
	if hasGuess && guess.Home != nil && guess.Away != nil {
		card.Prediction = &fixture.Score{Home: *guess.Home, Away: *guess.Away}
		if hasScore {
			points := prediction.CalculatePoints(*card.Prediction, score)
			card.Points = &points
			card.Tone = opts.Tones.ToneFor(points)
		}
	}
	if card.Tone == "" && status == fixture.StatusFinal {
		card.Tone = opts.Tones.FallbackTone()
	}
	return card
}

func fixtureLabel(item fixture.Fixture, loc *time.Location, now time.Time) string {
	switch item.Status() {
	case fixture.StatusLive:
		if item.Elapsed == nil {
			return "EN VIVO"
		}
		half := "PT"
		if item.IsSecondHalf() {
			half = "ST"
		}
		return fmt.Sprintf("EN VIVO · %d' %s", *item.Elapsed, half)
	case fixture.StatusFinal:
		return "FINALIZADO"
	default:
		kickoff := item.KickoffAt.In(loc)
		day := kickoff.Format("02/01")
		switch dayOffset(kickoff, now.In(loc)) {
		case 0:
			day = "HOY"
		case 1:
			day = "MAÑANA"
		}
		return day + " · " + kickoff.Format("15:04")
	}
}

// MapToFixtureDateCards groups fixtures by local calendar day in chronological order.
func MapToFixtureDateCards(fixtures []fixture.Fixture, loc *time.Location, now time.Time) []DateCard {
	if loc == nil {
		loc = time.UTC
	}

	ordered := make([]fixture.Fixture, len(fixtures))
	copy(ordered, fixtures)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].KickoffAt.Before(ordered[j].KickoffAt)
	})

	localNow := now.In(loc)
	cards := make([]DateCard, 0)
	index := make(map[string]int)
	for _, item := range ordered {
		kickoff := item.KickoffAt.In(loc)
		date := kickoff.Format(time.DateOnly)

		pos, ok := index[date]
		if !ok {
			pos = len(cards)
			index[date] = pos
			cards = append(cards, DateCard{Date: date, Label: dateLabel(kickoff, localNow)})
		}

		status := item.Status()
		if status == fixture.StatusLive {
			cards[pos].LiveAccent = true
		}
		cards[pos].Rows = append(cards[pos].Rows, DateCardRow{
			FixtureID: item.ID,
			Line:      dateCardLine(item, kickoff),
			Tone:      status,
		})
	}
	return cards
}

func dateLabel(day, now time.Time) string {
	switch dayOffset(day, now) {
	case 0:
		return "HOY"
	case 1:
		return "MAÑANA"
	}
	return weekdayNames[day.Weekday()] + " " + day.Format("02/01")
}

func dateCardLine(item fixture.Fixture, kickoff time.Time) string {
	home := fixture.FormatTeamCode(item.HomeTeam)
	away := fixture.FormatTeamCode(item.AwayTeam)
	if score, ok := item.Score(); ok {
		return fmt.Sprintf("%s %d-%d %s", home, score.Home, score.Away, away)
	}
	return fmt.Sprintf("%s vs %s · %s", home, away, kickoff.Format("15:04"))
}

// BuildLiveDigest summarises the fixtures currently in play.
func BuildLiveDigest(fixtures []fixture.Fixture, loc *time.Location) LiveDigest {
	if loc == nil {
		loc = time.UTC
	}

	digest := LiveDigest{Matches: make([]LiveMatch, 0)}
	for _, item := range sortedFixtures(fixtures) {
		if item.Status() != fixture.StatusLive {
			continue
		}
		score, _ := item.Score()
		digest.Matches = append(digest.Matches, LiveMatch{
			ID:       item.ID,
			HomeCode: fixture.FormatTeamCode(item.HomeTeam),
			AwayCode: fixture.FormatTeamCode(item.AwayTeam),
			Score:    score,
			Label:    fixtureLabel(item, loc, time.Time{}),
			Progress: LiveProgress(item.Elapsed),
		})
	}
	digest.Count = len(digest.Matches)
	return digest
}

// LiveProgress maps elapsed minutes to a 8..100 progress value; unknown elapsed is 50.
func LiveProgress(elapsed *int) int {
	if elapsed == nil {
		return defaultLiveProgress
	}
	value := int(math.Round(float64(*elapsed) / regulationMinutes * 100))
	return min(max(value, minLiveProgress), maxLiveProgress)
}

func sortedFixtures(fixtures []fixture.Fixture) []fixture.Fixture {
	out := make([]fixture.Fixture, len(fixtures))
	copy(out, fixtures)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := statusPriority[out[i].Status()], statusPriority[out[j].Status()]
		if pi != pj {
			return pi < pj
		}
		return out[i].KickoffAt.Before(out[j].KickoffAt)
	})
	return out
}

// dayOffset is the number of calendar days from now to t, both already in the same location.
func dayOffset(t, now time.Time) int {
	a := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b).Hours() / 24)
}
