package competition

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Stage string

const (
	StageApertura Stage = "apertura"
	StageClausura Stage = "clausura"
	StageGeneral  Stage = "general"
)

// ParseStage maps free-form input to a known stage; unknown or empty values become general.
func ParseStage(value string) Stage {
	switch Stage(strings.ToLower(strings.TrimSpace(value))) {
	case StageApertura:
		return StageApertura
	case StageClausura:
		return StageClausura
	default:
		return StageGeneral
	}
}

// Scope identifies one tournament instance: which league, which year, which half.
// Groups sharing a scope share the same fixture universe and round list.
type Scope struct {
	LeagueID int
	Season   string
	Stage    Stage
}

func NewScope(leagueID int, season string, stage string) Scope {
	return Scope{
		LeagueID: leagueID,
		Season:   strings.TrimSpace(season),
		Stage:    ParseStage(stage),
	}
}

// Key returns "{leagueId}:{season}:{stage}" with general as the empty-stage default.
func (s Scope) Key() string {
	stage := s.Stage
	if stage == "" {
		stage = StageGeneral
	}
	return fmt.Sprintf("%d:%s:%s", s.LeagueID, s.Season, stage)
}

func (s Scope) Validate() error {
	if s.LeagueID <= 0 {
		return fmt.Errorf("league id must be positive")
	}
	if strings.TrimSpace(s.Season) == "" {
		return fmt.Errorf("season is required")
	}
	return nil
}

func (s Scope) IsZero() bool {
	return s.LeagueID == 0 && s.Season == ""
}

// EncodeSeason stores the stage next to the season the way group records keep it,
// e.g. "2025:apertura". The general stage is stored as the bare season.
func EncodeSeason(season string, stage Stage) string {
	season = strings.TrimSpace(season)
	if stage == "" || stage == StageGeneral {
		return season
	}
	return season + ":" + string(stage)
}

// DecodeSeason is the inverse of EncodeSeason.
func DecodeSeason(encoded string) (string, Stage) {
	encoded = strings.TrimSpace(encoded)
	season, stage, found := strings.Cut(encoded, ":")
	if !found {
		return encoded, StageGeneral
	}
	return strings.TrimSpace(season), ParseStage(stage)
}

var roundNumberPattern = regexp.MustCompile(`^(?:Regular Season|[0-9]+(?:st|nd|rd|th) Phase|Apertura|Clausura)\s*-\s*([0-9]+)$`)

// FormatRoundLabel beautifies provider round identifiers for display.
// Identifiers it does not recognise are returned trimmed and otherwise untouched.
func FormatRoundLabel(round string) string {
	round = strings.TrimSpace(round)
	match := roundNumberPattern.FindStringSubmatch(round)
	if len(match) != 2 {
		return round
	}
	number, err := strconv.Atoi(match[1])
	if err != nil {
		return round
	}
	return fmt.Sprintf("Fecha %d", number)
}
