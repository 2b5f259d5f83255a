package prediction

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/prode/internal/domain/fixture"
)

const (
	PointsExact   = 3
	PointsOutcome = 1
	PointsMiss    = 0
)

// CalculatePoints scores a guess against a result: 3 for the exact score,
// 1 for the right winner or draw, 0 otherwise.
func CalculatePoints(guess, result fixture.Score) int {
	if guess.Home == result.Home && guess.Away == result.Away {
		return PointsExact
	}
	if sign(guess.Home-guess.Away) == sign(result.Home-result.Away) {
		return PointsOutcome
	}
	return PointsMiss
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

type Outcome string

const (
	OutcomeExact   Outcome = "exact"
	OutcomeWinDraw Outcome = "win_draw"
	OutcomeMiss    Outcome = "miss"
)

func OutcomeOf(points int) Outcome {
	switch {
	case points >= PointsExact:
		return OutcomeExact
	case points >= PointsOutcome:
		return OutcomeWinDraw
	default:
		return OutcomeMiss
	}
}

// Tone is a display sentiment for a point value. It carries no scoring meaning.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneWarning  Tone = "warning"
	ToneDanger   Tone = "danger"
	ToneNeutral  Tone = "neutral"
)

// ToneScale maps point values to tones. Unmapped values fall back to Fallback.
type ToneScale struct {
	byPoints map[int]Tone
	Fallback Tone
}

func DefaultToneScale() ToneScale {
	return ToneScale{
		byPoints: map[int]Tone{
			PointsExact:   TonePositive,
			PointsOutcome: ToneWarning,
			PointsMiss:    ToneDanger,
		},
		Fallback: ToneNeutral,
	}
}

// ParseToneScale reads "3:positive,1:warning,0:danger". Empty input yields the default scale.
func ParseToneScale(raw string) (ToneScale, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultToneScale(), nil
	}

	scale := ToneScale{byPoints: make(map[int]Tone), Fallback: ToneNeutral}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			return ToneScale{}, fmt.Errorf("invalid tone mapping %q, expected points:tone", pair)
		}
		points, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return ToneScale{}, fmt.Errorf("invalid points in tone mapping %q: %w", pair, err)
		}
		tone := Tone(strings.ToLower(strings.TrimSpace(value)))
		if tone == "" {
			return ToneScale{}, fmt.Errorf("empty tone in mapping %q", pair)
		}
		scale.byPoints[points] = tone
	}
	return scale, nil
}

func (s ToneScale) ToneFor(points int) Tone {
	if tone, ok := s.byPoints[points]; ok {
		return tone
	}
	return s.FallbackTone()
}

// FallbackTone is used for unmapped point values and for finished fixtures nobody scored.
func (s ToneScale) FallbackTone() Tone {
	if s.Fallback == "" {
		return ToneNeutral
	}
	return s.Fallback
}
