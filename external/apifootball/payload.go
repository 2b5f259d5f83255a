package apifootball

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/prode/internal/domain/fixture"
)

// The provider reports request problems inside a 200 response: "errors" is an
// empty array on success and an object keyed by field otherwise.
type envelope struct {
	Errors json.RawMessage `json:"errors"`
}

type roundsEnvelope struct {
	envelope
	Response []string `json:"response"`
}

type fixturesEnvelope struct {
	envelope
	Response []json.RawMessage `json:"response"`
}

// ProviderError carries the messages the provider put in the "errors" field.
type ProviderError struct {
	Messages map[string]string
}

func (e *ProviderError) Error() string {
	keys := make([]string, 0, len(e.Messages))
	for key := range e.Messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Messages[key])
	}
	return "provider rejected request: " + strings.Join(parts, "; ")
}

func (e envelope) providerError() error {
	raw := strings.TrimSpace(string(e.Errors))
	if raw == "" || raw == "null" || raw == "[]" || raw == "{}" {
		return nil
	}

	var messages map[string]string
	if err := sonic.Unmarshal(e.Errors, &messages); err != nil {
		var list []string
		if listErr := sonic.Unmarshal(e.Errors, &list); listErr != nil || len(list) == 0 {
			return &ProviderError{Messages: map[string]string{"errors": raw}}
		}
		messages = make(map[string]string, len(list))
		for i, msg := range list {
			messages[strconv.Itoa(i)] = msg
		}
	}
	if len(messages) == 0 {
		return nil
	}
	return &ProviderError{Messages: messages}
}

type fixtureItem struct {
	Fixture *struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short   string `json:"short"`
			Elapsed *int   `json:"elapsed"`
		} `json:"status"`
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
	} `json:"fixture"`
	League struct {
		Round string `json:"round"`
	} `json:"league"`
	Teams *struct {
		Home teamItem `json:"home"`
		Away teamItem `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type teamItem struct {
	Name string `json:"name"`
}

// ParseError describes one provider fixture that could not be turned into a fixture.Fixture.
type ParseError struct {
	Index     int
	FixtureID int64
	Field     string
	Reason    string
}

func (e *ParseError) Error() string {
	if e.FixtureID > 0 {
		return fmt.Sprintf("fixture[%d] id=%d: %s: %s", e.Index, e.FixtureID, e.Field, e.Reason)
	}
	return fmt.Sprintf("fixture[%d]: %s: %s", e.Index, e.Field, e.Reason)
}

// parseFixtures converts every well-formed item and reports the rest.
func parseFixtures(items []json.RawMessage) ([]fixture.Fixture, []*ParseError) {
	out := make([]fixture.Fixture, 0, len(items))
	var errs []*ParseError
	for i, raw := range items {
		item, err := parseFixture(i, raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, item)
	}
	return out, errs
}

func parseFixture(index int, raw json.RawMessage) (fixture.Fixture, *ParseError) {
	var item fixtureItem
	if err := sonic.Unmarshal(raw, &item); err != nil {
		return fixture.Fixture{}, &ParseError{Index: index, Field: "item", Reason: err.Error()}
	}
	if item.Fixture == nil {
		return fixture.Fixture{}, &ParseError{Index: index, Field: "fixture", Reason: "missing"}
	}

	id := item.Fixture.ID
	fail := func(field, reason string) (fixture.Fixture, *ParseError) {
		return fixture.Fixture{}, &ParseError{Index: index, FixtureID: id, Field: field, Reason: reason}
	}

	if id <= 0 {
		return fail("fixture.id", "must be positive")
	}
	kickoff, err := time.Parse(time.RFC3339, strings.TrimSpace(item.Fixture.Date))
	if err != nil {
		return fail("fixture.date", "not RFC3339")
	}
	if item.Teams == nil {
		return fail("teams", "missing")
	}
	home := strings.TrimSpace(item.Teams.Home.Name)
	away := strings.TrimSpace(item.Teams.Away.Name)
	if home == "" || away == "" {
		return fail("teams", "home and away names are required")
	}
	if item.Goals.Home != nil && *item.Goals.Home < 0 {
		return fail("goals.home", "negative")
	}
	if item.Goals.Away != nil && *item.Goals.Away < 0 {
		return fail("goals.away", "negative")
	}

	return fixture.Fixture{
		ID:        strconv.FormatInt(id, 10),
		Round:     strings.TrimSpace(item.League.Round),
		KickoffAt: kickoff,
		RawStatus: fixture.NormalizeStatus(item.Fixture.Status.Short),
		Elapsed:   item.Fixture.Status.Elapsed,
		HomeTeam:  home,
		AwayTeam:  away,
		Venue:     strings.TrimSpace(item.Fixture.Venue.Name),
		HomeGoals: item.Goals.Home,
		AwayGoals: item.Goals.Away,
	}, nil
}
