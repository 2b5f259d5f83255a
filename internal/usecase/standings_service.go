package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/fixture"
	"github.com/riskibarqy/prode/internal/domain/group"
	"github.com/riskibarqy/prode/internal/domain/prediction"
)

type scoreMapResolver interface {
	ScoreMap(ctx context.Context, scope competition.Scope, periods []string) fixture.ScoreMap
}

type GroupStandings struct {
	Group group.Group `json:"-"`
	Rows  []RankedRow `json:"rows"`
	Me    *RankedRow  `json:"me,omitempty"`
}

type StandingsService struct {
	groupRepo      group.Repository
	predictionRepo prediction.Repository
	scores         scoreMapResolver
}

func NewStandingsService(groupRepo group.Repository, predictionRepo prediction.Repository, scores scoreMapResolver) *StandingsService {
	return &StandingsService{
		groupRepo:      groupRepo,
		predictionRepo: predictionRepo,
		scores:         scores,
	}
}

// GroupStandings ranks the active members of groupID. The caller must be an active member.
func (s *StandingsService) GroupStandings(ctx context.Context, userID, groupID string) (GroupStandings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.GroupStandings")
	defer span.End()

	item, err := requireMembership(ctx, s.groupRepo, userID, groupID)
	if err != nil {
		return GroupStandings{}, err
	}

	rows, err := s.rank(ctx, item)
	if err != nil {
		return GroupStandings{}, err
	}

	out := GroupStandings{Group: item, Rows: rows}
	if row, ok := FindRow(rows, strings.TrimSpace(userID)); ok {
		out.Me = &row
	}
	return out, nil
}

func (s *StandingsService) rank(ctx context.Context, item group.Group) ([]RankedRow, error) {
	members, err := s.groupRepo.ListMembers(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	predictions, err := s.predictionRepo.ListByGroup(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list group predictions: %w", err)
	}

	scores := s.scores.ScoreMap(ctx, item.Scope, distinctPeriods(predictions))
	return BuildGroupStandings(group.ActiveMembers(members), predictions, scores), nil
}

// requireMembership loads the group and checks that userID is an active member of it.
func requireMembership(ctx context.Context, repo group.Repository, userID, groupID string) (group.Group, error) {
	userID = strings.TrimSpace(userID)
	groupID = strings.TrimSpace(groupID)
	if userID == "" {
		return group.Group{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if groupID == "" {
		return group.Group{}, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}

	item, exists, err := repo.GetByID(ctx, groupID)
	if err != nil {
		return group.Group{}, fmt.Errorf("get group: %w", err)
	}
	if !exists {
		return group.Group{}, fmt.Errorf("%w: group=%s", ErrNotFound, groupID)
	}

	member, exists, err := repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return group.Group{}, fmt.Errorf("get group member: %w", err)
	}
	if !exists || !member.IsActive() {
		return group.Group{}, fmt.Errorf("%w: not a member of group=%s", ErrForbidden, groupID)
	}
	return item, nil
}

func distinctPeriods(predictions []prediction.Prediction) []string {
	periods := make([]string, 0, len(predictions))
	for _, p := range predictions {
		periods = append(periods, p.Period)
	}
	return normalizePeriods(periods)
}
