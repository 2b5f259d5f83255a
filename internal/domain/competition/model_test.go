package competition

import "testing"

func TestScopeKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		scope Scope
		want  string
	}{
		{name: "apertura", scope: Scope{LeagueID: 128, Season: "2025", Stage: StageApertura}, want: "128:2025:apertura"},
		{name: "empty stage defaults to general", scope: Scope{LeagueID: 128, Season: "2025"}, want: "128:2025:general"},
		{name: "built from raw input", scope: NewScope(129, " 2024 ", "CLAUSURA"), want: "129:2024:clausura"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.scope.Key(); got != tc.want {
				t.Fatalf("unexpected key: got=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestSeasonEncoding(t *testing.T) {
	t.Parallel()

	if got := EncodeSeason("2025", StageApertura); got != "2025:apertura" {
		t.Fatalf("unexpected encoded season: %q", got)
	}
	if got := EncodeSeason("2025", StageGeneral); got != "2025" {
		t.Fatalf("general stage must encode as bare season, got %q", got)
	}

	season, stage := DecodeSeason("2025:clausura")
	if season != "2025" || stage != StageClausura {
		t.Fatalf("unexpected decode: season=%q stage=%q", season, stage)
	}

	season, stage = DecodeSeason("2024")
	if season != "2024" || stage != StageGeneral {
		t.Fatalf("unexpected decode of bare season: season=%q stage=%q", season, stage)
	}
}

func TestScopeValidate(t *testing.T) {
	t.Parallel()

	if err := (Scope{LeagueID: 0, Season: "2025"}).Validate(); err == nil {
		t.Fatalf("expected error for missing league id")
	}
	if err := (Scope{LeagueID: 128}).Validate(); err == nil {
		t.Fatalf("expected error for missing season")
	}
	if err := (Scope{LeagueID: 128, Season: "2025"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFormatRoundLabel(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Regular Season - 7":  "Fecha 7",
		"1st Phase - 3":       "Fecha 3",
		"Apertura - 12":       "Fecha 12",
		"  Quarter-finals  ":  "Quarter-finals",
		"Regular Season - x1": "Regular Season - x1",
	}

	for in, want := range cases {
		if got := FormatRoundLabel(in); got != want {
			t.Fatalf("FormatRoundLabel(%q)=%q want %q", in, got, want)
		}
	}
}
