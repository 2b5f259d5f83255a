package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/fixture"
	"github.com/riskibarqy/prode/internal/domain/group"
	"github.com/riskibarqy/prode/internal/domain/prediction"
)

type SubmitPredictionInput struct {
	UserID    string
	GroupID   string
	FixtureID string
	Period    string
	Home      *int
	Away      *int
}

// GuestPredictionInput addresses the shared guest store, which has no user or group isolation.
type GuestPredictionInput struct {
	Scope     competition.Scope
	FixtureID string
	Period    string
	Home      *int
	Away      *int
}

type PredictionService struct {
	groupRepo      group.Repository
	predictionRepo prediction.Repository
	source         fixture.Source
	guests         *prediction.ScopedStore
	now            func() time.Time
}

func NewPredictionService(
	groupRepo group.Repository,
	predictionRepo prediction.Repository,
	source fixture.Source,
	guests *prediction.ScopedStore,
) *PredictionService {
	if guests == nil {
		guests = prediction.NewScopedStore()
	}
	return &PredictionService{
		groupRepo:      groupRepo,
		predictionRepo: predictionRepo,
		source:         source,
		guests:         guests,
		now:            time.Now,
	}
}

// Submit upserts the caller's guess for a fixture that has not kicked off yet.
func (s *PredictionService) Submit(ctx context.Context, input SubmitPredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit")
	defer span.End()

	if err := validateGuess(input.FixtureID, input.Period, input.Home, input.Away); err != nil {
		return prediction.Prediction{}, err
	}

	item, err := requireMembership(ctx, s.groupRepo, input.UserID, input.GroupID)
	if err != nil {
		return prediction.Prediction{}, err
	}

	period := strings.TrimSpace(input.Period)
	fixtureID := strings.TrimSpace(input.FixtureID)
	if err := s.ensureOpen(ctx, item.Scope, period, fixtureID); err != nil {
		return prediction.Prediction{}, err
	}

	now := s.now().UTC()
	candidate := prediction.Prediction{
		GroupID:     item.ID,
		UserID:      strings.TrimSpace(input.UserID),
		FixtureID:   fixtureID,
		Period:      period,
		Home:        intPtr(*input.Home),
		Away:        intPtr(*input.Away),
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	if err := candidate.Validate(); err != nil {
		return prediction.Prediction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	stored, err := s.predictionRepo.Upsert(ctx, candidate)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}
	return stored, nil
}

// ListMine returns the caller's predictions in a group, optionally limited to one period.
func (s *PredictionService) ListMine(ctx context.Context, userID, groupID, period string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListMine")
	defer span.End()

	item, err := requireMembership(ctx, s.groupRepo, userID, groupID)
	if err != nil {
		return nil, err
	}

	items, err := s.predictionRepo.ListByGroupAndUser(ctx, item.ID, strings.TrimSpace(userID))
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	period = strings.TrimSpace(period)
	out := make([]prediction.Prediction, 0, len(items))
	for _, p := range items {
		if period != "" && p.Period != period {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// SubmitGuest stores a guest guess in the shared in-process store. Last write wins.
func (s *PredictionService) SubmitGuest(ctx context.Context, input GuestPredictionInput) (prediction.Guess, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.SubmitGuest")
	defer span.End()

	if err := input.Scope.Validate(); err != nil {
		return prediction.Guess{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := validateGuess(input.FixtureID, input.Period, input.Home, input.Away); err != nil {
		return prediction.Guess{}, err
	}

	period := strings.TrimSpace(input.Period)
	fixtureID := strings.TrimSpace(input.FixtureID)
	if err := s.ensureOpen(ctx, input.Scope, period, fixtureID); err != nil {
		return prediction.Guess{}, err
	}

	guess := prediction.Guess{Home: intPtr(*input.Home), Away: intPtr(*input.Away)}
	s.guests.Set(period, input.Scope, fixtureID, guess)
	stored, _ := s.guests.Get(period, input.Scope, fixtureID)
	return stored, nil
}

// ensureOpen checks that the fixture belongs to period and has not kicked off.
func (s *PredictionService) ensureOpen(ctx context.Context, scope competition.Scope, period, fixtureID string) error {
	items, err := s.source.ListByRound(ctx, scope, period)
	if err != nil {
		return fmt.Errorf("%w: load fixtures of round %q: %v", ErrDependencyUnavailable, period, err)
	}

	for _, item := range items {
		if item.ID != fixtureID {
			continue
		}
		if item.Status() != fixture.StatusUpcoming || !item.KickoffAt.After(s.now()) {
			return fmt.Errorf("%w for fixture=%s", ErrPredictionClosed, fixtureID)
		}
		return nil
	}
	return fmt.Errorf("%w: fixture=%s is not part of round %q", ErrInvalidInput, fixtureID, period)
}

func validateGuess(fixtureID, period string, home, away *int) error {
	if strings.TrimSpace(fixtureID) == "" {
		return fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(period) == "" {
		return fmt.Errorf("%w: period is required", ErrInvalidInput)
	}
	if home == nil || away == nil {
		return fmt.Errorf("%w: both home and away goals are required", ErrInvalidInput)
	}
	if *home < 0 || *away < 0 {
		return fmt.Errorf("%w: goals must be non-negative", ErrInvalidInput)
	}
	return nil
}

func intPtr(v int) *int {
	return &v
}
