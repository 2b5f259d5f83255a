package apifootball

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseFixture_ReportsStructuredErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		raw   string
		field string
	}{
		{name: "not an object", raw: `[1,2]`, field: "item"},
		{name: "missing fixture", raw: `{"teams":{"home":{"name":"A"},"away":{"name":"B"}}}`, field: "fixture"},
		{name: "zero id", raw: `{"fixture":{"id":0,"date":"2025-10-18T21:30:00Z"}}`, field: "fixture.id"},
		{name: "bad date", raw: `{"fixture":{"id":7,"date":"18/10/2025"}}`, field: "fixture.date"},
		{name: "missing teams", raw: `{"fixture":{"id":7,"date":"2025-10-18T21:30:00Z"}}`, field: "teams"},
		{name: "blank away", raw: `{"fixture":{"id":7,"date":"2025-10-18T21:30:00Z"},"teams":{"home":{"name":"A"},"away":{"name":" "}}}`, field: "teams"},
		{name: "negative goals", raw: `{"fixture":{"id":7,"date":"2025-10-18T21:30:00Z"},"teams":{"home":{"name":"A"},"away":{"name":"B"}},"goals":{"home":-1}}`, field: "goals.home"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, parseErr := parseFixture(3, json.RawMessage(tc.raw))
			if parseErr == nil {
				t.Fatalf("expected parse error")
			}
			if parseErr.Field != tc.field || parseErr.Index != 3 {
				t.Fatalf("unexpected parse error: %+v", parseErr)
			}
		})
	}
}

func TestParseFixture_CarriesFixtureIDInError(t *testing.T) {
	t.Parallel()

	_, parseErr := parseFixture(0, json.RawMessage(`{"fixture":{"id":42,"date":"bad"}}`))
	var err error = parseErr
	var target *ParseError
	if !errors.As(err, &target) || target.FixtureID != 42 {
		t.Fatalf("expected fixture id in parse error, got %v", err)
	}
	if got := target.Error(); got != "fixture[0] id=42: fixture.date: not RFC3339" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestEnvelopeProviderError(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{``, `null`, `[]`, `{}`} {
		if err := (envelope{Errors: json.RawMessage(raw)}).providerError(); err != nil {
			t.Fatalf("expected no error for %q, got %v", raw, err)
		}
	}

	err := (envelope{Errors: json.RawMessage(`["rate limit","plan"]`)}).providerError()
	if err == nil || err.Error() != "provider rejected request: 0: rate limit; 1: plan" {
		t.Fatalf("unexpected error %v", err)
	}
}
