package prediction

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/prode/internal/domain/fixture"
)

// Prediction is one user's guessed final score for one fixture inside one group.
type Prediction struct {
	ID          string
	GroupID     string
	UserID      string
	FixtureID   string
	Period      string
	Home        *int
	Away        *int
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// Guess returns the predicted score when both sides are present.
func (p Prediction) Guess() (fixture.Score, bool) {
	if p.Home == nil || p.Away == nil {
		return fixture.Score{}, false
	}
	return fixture.Score{Home: *p.Home, Away: *p.Away}, true
}

func (p Prediction) Validate() error {
	if strings.TrimSpace(p.GroupID) == "" {
		return fmt.Errorf("group id is required")
	}
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(p.FixtureID) == "" {
		return fmt.Errorf("fixture id is required")
	}
	if p.Home != nil && *p.Home < 0 {
		return fmt.Errorf("home goals must be non-negative")
	}
	if p.Away != nil && *p.Away < 0 {
		return fmt.Errorf("away goals must be non-negative")
	}
	return nil
}
