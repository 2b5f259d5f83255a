package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/fixture"
	"github.com/riskibarqy/prode/internal/domain/group"
	"github.com/riskibarqy/prode/internal/domain/prediction"
)

const defaultProfileWorkers = 4

type ProfileGroup struct {
	GroupID     string `json:"group_id"`
	Name        string `json:"name"`
	Scope       string `json:"scope"`
	Rank        int    `json:"rank"`
	Points      int    `json:"points"`
	MemberCount int    `json:"member_count"`
}

type Profile struct {
	UserID   string          `json:"user_id"`
	Stats    ProfileStats    `json:"stats"`
	Groups   []ProfileGroup  `json:"groups"`
	Activity []ActivityEvent `json:"activity"`
}

type ProfileService struct {
	groupRepo      group.Repository
	predictionRepo prediction.Repository
	scores         scoreMapResolver
	workers        int
}

func NewProfileService(groupRepo group.Repository, predictionRepo prediction.Repository, scores scoreMapResolver, workers int) *ProfileService {
	if workers <= 0 {
		workers = defaultProfileWorkers
	}
	return &ProfileService{
		groupRepo:      groupRepo,
		predictionRepo: predictionRepo,
		scores:         scores,
		workers:        workers,
	}
}

type profileGroupResult struct {
	group       group.Group
	rows        []RankedRow
	members     int
	predictions []prediction.Prediction
	scores      fixture.ScoreMap
	err         error
}

// Profile aggregates the caller's points, accuracy and recent activity across every active group.
func (s *ProfileService) Profile(ctx context.Context, userID string) (Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.Profile")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}

	memberships, err := s.groupRepo.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("list memberships: %w", err)
	}
	memberships = group.ActiveMembers(memberships)

	groupIDs := make([]string, 0, len(memberships))
	for _, m := range memberships {
		groupIDs = append(groupIDs, m.GroupID)
	}
	groups, err := s.groupRepo.ListByIDs(ctx, groupIDs)
	if err != nil {
		return Profile{}, fmt.Errorf("list groups: %w", err)
	}

	results, err := s.collect(ctx, groups)
	if err != nil {
		return Profile{}, err
	}

	profile := Profile{UserID: userID, Groups: make([]ProfileGroup, 0, len(results))}
	groupNames := make(map[string]string, len(results))
	input := ProfileStatsInput{
		GroupScopes: make(map[string]competition.Scope, len(results)),
		ScoreMaps:   make(map[string]fixture.ScoreMap),
		GroupCount:  len(results),
	}
	for _, res := range results {
		groupNames[res.group.ID] = res.group.Name
		input.GroupScopes[res.group.ID] = res.group.Scope

		key := res.group.Scope.Key()
		merged, ok := input.ScoreMaps[key]
		if !ok {
			merged = make(fixture.ScoreMap, len(res.scores))
			input.ScoreMaps[key] = merged
		}
		for id, score := range res.scores {
			merged[id] = score
		}

		for _, p := range res.predictions {
			if p.UserID == userID {
				input.Predictions = append(input.Predictions, p)
			}
		}

		summary := ProfileGroup{
			GroupID:     res.group.ID,
			Name:        res.group.Name,
			Scope:       key,
			MemberCount: res.members,
		}
		if row, ok := FindRow(res.rows, userID); ok {
			summary.Rank = row.Rank
			summary.Points = row.Points
		}
		profile.Groups = append(profile.Groups, summary)
	}

	sort.Slice(profile.Groups, func(i, j int) bool {
		if profile.Groups[i].Name != profile.Groups[j].Name {
			return profile.Groups[i].Name < profile.Groups[j].Name
		}
		return profile.Groups[i].GroupID < profile.Groups[j].GroupID
	})

	profile.Stats = BuildProfileStats(input)
	profile.Activity = BuildRecentActivity(input.Predictions, memberships, groupNames, DefaultRecentActivityLimit)
	return profile, nil
}

// collect ranks every group on an ants worker pool.
func (s *ProfileService) collect(ctx context.Context, groups []group.Group) ([]profileGroupResult, error) {
	results := make([]profileGroupResult, len(groups))
	if len(groups) == 0 {
		return results, nil
	}

	workerPool, err := ants.NewPool(min(s.workers, len(groups)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for i, item := range groups {
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()
			results[i] = s.rankGroup(ctx, item)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	for _, res := range results {
		if res.err != nil {
			return nil, res.err
		}
	}
	return results, nil
}

func (s *ProfileService) rankGroup(ctx context.Context, item group.Group) profileGroupResult {
	members, err := s.groupRepo.ListMembers(ctx, item.ID)
	if err != nil {
		return profileGroupResult{err: fmt.Errorf("list members of group=%s: %w", item.ID, err)}
	}
	predictions, err := s.predictionRepo.ListByGroup(ctx, item.ID)
	if err != nil {
		return profileGroupResult{err: fmt.Errorf("list predictions of group=%s: %w", item.ID, err)}
	}

	active := group.ActiveMembers(members)
	scores := s.scores.ScoreMap(ctx, item.Scope, distinctPeriods(predictions))
	return profileGroupResult{
		group:       item,
		rows:        BuildGroupStandings(active, predictions, scores),
		members:     len(active),
		predictions: predictions,
		scores:      scores,
	}
}
