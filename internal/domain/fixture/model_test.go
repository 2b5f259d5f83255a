package fixture

import "testing"

func TestClassifyStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]Status{
		"1H":   StatusLive,
		"ht":   StatusLive,
		" 2H ": StatusLive,
		"ET":   StatusLive,
		"BT":   StatusLive,
		"P":    StatusLive,
		"SUSP": StatusLive,
		"INT":  StatusLive,
		"LIVE": StatusLive,
		"FT":   StatusFinal,
		"AET":  StatusFinal,
		"PEN":  StatusFinal,
		"NS":   StatusUpcoming,
		"TBD":  StatusUpcoming,
		"PST":  StatusUpcoming,
		"CANC": StatusUpcoming,
		"":     StatusUpcoming,
		"???":  StatusUpcoming,
	}

	for raw, want := range cases {
		if got := ClassifyStatus(raw); got != want {
			t.Fatalf("ClassifyStatus(%q)=%q want %q", raw, got, want)
		}
	}
}

func TestFixtureScore(t *testing.T) {
	t.Parallel()

	two := 2
	upcoming := Fixture{ID: "1", RawStatus: "NS", HomeGoals: &two}
	if _, ok := upcoming.Score(); ok {
		t.Fatalf("upcoming fixture must not expose a score")
	}

	live := Fixture{ID: "2", RawStatus: "1H", HomeGoals: &two}
	score, ok := live.Score()
	if !ok {
		t.Fatalf("live fixture must expose a score")
	}
	if score.Home != 2 || score.Away != 0 {
		t.Fatalf("unexpected score: %+v", score)
	}

	scores := Scores([]Fixture{upcoming, live, {ID: "3", RawStatus: "FT", HomeGoals: &two, AwayGoals: &two}})
	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}
	if scores["3"] != (Score{Home: 2, Away: 2}) {
		t.Fatalf("unexpected final score: %+v", scores["3"])
	}
}

func TestFixtureIsSecondHalf(t *testing.T) {
	t.Parallel()

	thirty, fifty := 30, 50
	cases := []struct {
		name    string
		fixture Fixture
		want    bool
	}{
		{name: "first half", fixture: Fixture{RawStatus: "1H", Elapsed: &thirty}, want: false},
		{name: "second half code", fixture: Fixture{RawStatus: "2H"}, want: true},
		{name: "extra time code", fixture: Fixture{RawStatus: "ET"}, want: true},
		{name: "elapsed past half", fixture: Fixture{RawStatus: "LIVE", Elapsed: &fifty}, want: true},
		{name: "unknown elapsed", fixture: Fixture{RawStatus: "LIVE"}, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.fixture.IsSecondHalf(); got != tc.want {
				t.Fatalf("IsSecondHalf()=%v want %v", got, tc.want)
			}
		})
	}
}
