package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/fixture"
	"github.com/riskibarqy/prode/internal/domain/group"
	"github.com/riskibarqy/prode/internal/domain/prediction"
	groupmock "github.com/riskibarqy/prode/internal/mocks/domain/group"
	predictionmock "github.com/riskibarqy/prode/internal/mocks/domain/prediction"
)

// stubScores resolves every scope to the same score map and records the periods it was asked for.
type stubScores struct {
	mu      sync.Mutex
	scores  fixture.ScoreMap
	periods [][]string
}

func (s *stubScores) ScoreMap(_ context.Context, _ competition.Scope, periods []string) fixture.ScoreMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.periods = append(s.periods, periods)
	if s.scores == nil {
		return fixture.ScoreMap{}
	}
	return s.scores
}

var testGroup = group.Group{ID: "g1", Name: "Amigos", Scope: testScope, OwnerUserID: "u1"}

func activeMember(groupID, userID, name string) group.Member {
	return group.Member{GroupID: groupID, UserID: userID, DisplayName: name, Role: group.RoleMember, Status: group.MemberStatusActive, JoinedAt: testNow.Add(-24 * time.Hour)}
}

func expectMembership(repo *groupmock.Repository, item group.Group, userID string) {
	repo.On("GetByID", mock.Anything, item.ID).Return(item, true, nil).Once()
	repo.On("GetMember", mock.Anything, item.ID, userID).Return(activeMember(item.ID, userID, ""), true, nil).Once()
}

func TestGroupStandings_RanksActiveMembers(t *testing.T) {
	t.Parallel()

	groupRepo := groupmock.NewRepository(t)
	predictionRepo := predictionmock.NewRepository(t)
	scores := &stubScores{scores: fixture.ScoreMap{"f1": {Home: 1, Away: 0}}}

	expectMembership(groupRepo, testGroup, "u1")
	banned := activeMember("g1", "u3", "Tercero")
	banned.Status = group.MemberStatusBanned
	groupRepo.On("ListMembers", mock.Anything, "g1").Return([]group.Member{
		activeMember("g1", "u1", "Uno"),
		activeMember("g1", "u2", "Dos"),
		banned,
	}, nil).Once()

	first := guessFor("g1", "u1", "f1", 2, 1)
	first.Period = "Clausura - 1"
	second := guessFor("g1", "u2", "f1", 1, 0)
	second.Period = "Clausura - 1"
	third := guessFor("g1", "u3", "f1", 1, 0)
	third.Period = "Clausura - 2"
	predictionRepo.On("ListByGroup", mock.Anything, "g1").Return([]prediction.Prediction{first, second, third}, nil).Once()

	svc := NewStandingsService(groupRepo, predictionRepo, scores)
	got, err := svc.GroupStandings(context.Background(), "u1", "g1")
	if err != nil {
		t.Fatalf("GroupStandings error: %v", err)
	}

	if len(got.Rows) != 2 || got.Rows[0].UserID != "u2" || got.Rows[0].Points != 3 || got.Rows[1].Points != 1 {
		t.Fatalf("unexpected rows: %+v", got.Rows)
	}
	if got.Me == nil || got.Me.UserID != "u1" || got.Me.Rank != 2 {
		t.Fatalf("unexpected caller row: %+v", got.Me)
	}
	if len(scores.periods) != 1 || len(scores.periods[0]) != 2 {
		t.Fatalf("expected both distinct periods to be resolved, got %v", scores.periods)
	}
}

func TestGroupStandings_MembershipChecks(t *testing.T) {
	t.Parallel()

	t.Run("anonymous caller", func(t *testing.T) {
		svc := NewStandingsService(groupmock.NewRepository(t), predictionmock.NewRepository(t), &stubScores{})
		if _, err := svc.GroupStandings(context.Background(), "", "g1"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("missing group id", func(t *testing.T) {
		svc := NewStandingsService(groupmock.NewRepository(t), predictionmock.NewRepository(t), &stubScores{})
		if _, err := svc.GroupStandings(context.Background(), "u1", " "); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		groupRepo := groupmock.NewRepository(t)
		groupRepo.On("GetByID", mock.Anything, "g404").Return(group.Group{}, false, nil).Once()

		svc := NewStandingsService(groupRepo, predictionmock.NewRepository(t), &stubScores{})
		if _, err := svc.GroupStandings(context.Background(), "u1", "g404"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("former member", func(t *testing.T) {
		groupRepo := groupmock.NewRepository(t)
		left := activeMember("g1", "u1", "Uno")
		left.Status = group.MemberStatusLeft
		groupRepo.On("GetByID", mock.Anything, "g1").Return(testGroup, true, nil).Once()
		groupRepo.On("GetMember", mock.Anything, "g1", "u1").Return(left, true, nil).Once()

		svc := NewStandingsService(groupRepo, predictionmock.NewRepository(t), &stubScores{})
		if _, err := svc.GroupStandings(context.Background(), "u1", "g1"); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestGroupStandings_RepositoryFailure(t *testing.T) {
	t.Parallel()

	groupRepo := groupmock.NewRepository(t)
	predictionRepo := predictionmock.NewRepository(t)
	expectMembership(groupRepo, testGroup, "u1")
	groupRepo.On("ListMembers", mock.Anything, "g1").Return([]group.Member{activeMember("g1", "u1", "Uno")}, nil).Once()
	predictionRepo.On("ListByGroup", mock.Anything, "g1").Return(nil, errors.New("record store down")).Once()

	_, err := NewStandingsService(groupRepo, predictionRepo, &stubScores{}).GroupStandings(context.Background(), "u1", "g1")
	if err == nil {
		t.Fatalf("expected error")
	}
}
