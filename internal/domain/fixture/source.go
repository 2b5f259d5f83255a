package fixture

import (
	"context"
	"time"

	"github.com/riskibarqy/prode/internal/domain/competition"
)

// Source exposes fixture read operations for one competition scope.
type Source interface {
	Rounds(ctx context.Context, scope competition.Scope) ([]string, error)
	ListByRound(ctx context.Context, scope competition.Scope, round string) ([]Fixture, error)
	ListByWindow(ctx context.Context, scope competition.Scope, from, to time.Time) ([]Fixture, error)
}
