package prediction

import (
	"testing"

	"github.com/riskibarqy/prode/internal/domain/fixture"
)

func TestCalculatePointsExamples(t *testing.T) {
	t.Parallel()

	cases := []struct {
		guess  fixture.Score
		result fixture.Score
		want   int
	}{
		{guess: fixture.Score{Home: 2, Away: 1}, result: fixture.Score{Home: 2, Away: 1}, want: 3},
		{guess: fixture.Score{Home: 3, Away: 1}, result: fixture.Score{Home: 1, Away: 0}, want: 1},
		{guess: fixture.Score{Home: 1, Away: 1}, result: fixture.Score{Home: 0, Away: 0}, want: 1},
		{guess: fixture.Score{Home: 0, Away: 2}, result: fixture.Score{Home: 2, Away: 0}, want: 0},
		{guess: fixture.Score{Home: 0, Away: 0}, result: fixture.Score{Home: 1, Away: 0}, want: 0},
		{guess: fixture.Score{Home: 0, Away: 1}, result: fixture.Score{Home: 1, Away: 4}, want: 1},
	}

	for _, tc := range cases {
		if got := CalculatePoints(tc.guess, tc.result); got != tc.want {
			t.Fatalf("CalculatePoints(%+v, %+v)=%d want %d", tc.guess, tc.result, got, tc.want)
		}
	}
}

func TestCalculatePointsExhaustive(t *testing.T) {
	t.Parallel()

	for ph := 0; ph <= 4; ph++ {
		for pa := 0; pa <= 4; pa++ {
			for sh := 0; sh <= 4; sh++ {
				for sa := 0; sa <= 4; sa++ {
					guess := fixture.Score{Home: ph, Away: pa}
					result := fixture.Score{Home: sh, Away: sa}
					got := CalculatePoints(guess, result)

					want := PointsMiss
					switch {
					case ph == sh && pa == sa:
						want = PointsExact
					case sign(ph-pa) == sign(sh-sa):
						want = PointsOutcome
					}
					if got != want {
						t.Fatalf("CalculatePoints(%+v, %+v)=%d want %d", guess, result, got, want)
					}
				}
			}
		}
	}
}

func TestOutcomeOf(t *testing.T) {
	t.Parallel()

	if OutcomeOf(3) != OutcomeExact || OutcomeOf(1) != OutcomeWinDraw || OutcomeOf(0) != OutcomeMiss {
		t.Fatalf("unexpected outcome classification")
	}
}

func TestToneScale(t *testing.T) {
	t.Parallel()

	scale := DefaultToneScale()
	if scale.ToneFor(3) != TonePositive || scale.ToneFor(1) != ToneWarning || scale.ToneFor(0) != ToneDanger {
		t.Fatalf("unexpected default tones")
	}
	if scale.ToneFor(7) != ToneNeutral {
		t.Fatalf("expected neutral fallback for unmapped points")
	}

	custom, err := ParseToneScale("3:gold, 1:silver")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if custom.ToneFor(3) != Tone("gold") || custom.ToneFor(1) != Tone("silver") {
		t.Fatalf("unexpected custom tones")
	}
	if custom.ToneFor(0) != ToneNeutral {
		t.Fatalf("expected unmapped 0 to be neutral, got %q", custom.ToneFor(0))
	}

	empty, err := ParseToneScale("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.ToneFor(0) != ToneDanger {
		t.Fatalf("empty input must yield default scale")
	}

	if _, err := ParseToneScale("three:positive"); err == nil {
		t.Fatalf("expected error for non-numeric points")
	}
	if _, err := ParseToneScale("3positive"); err == nil {
		t.Fatalf("expected error for missing separator")
	}
}

func TestPredictionGuessAndValidate(t *testing.T) {
	t.Parallel()

	two, minus := 2, -1
	item := Prediction{GroupID: "g1", UserID: "u1", FixtureID: "f1", Home: &two}
	if _, ok := item.Guess(); ok {
		t.Fatalf("incomplete prediction must not produce a guess")
	}
	if err := item.Validate(); err != nil {
		t.Fatalf("incomplete prediction is still valid: %v", err)
	}

	item.Away = &minus
	if err := item.Validate(); err == nil {
		t.Fatalf("expected error for negative away goals")
	}

	item.Away = &two
	guess, ok := item.Guess()
	if !ok || guess != (fixture.Score{Home: 2, Away: 2}) {
		t.Fatalf("unexpected guess: %+v ok=%v", guess, ok)
	}
}
