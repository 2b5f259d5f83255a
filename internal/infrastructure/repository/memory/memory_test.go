package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/fixture"
	"github.com/riskibarqy/prode/internal/domain/prediction"
	"github.com/riskibarqy/prode/internal/usecase"
)

type sequenceIDs struct {
	next int
}

func (s *sequenceIDs) NewID() (string, error) {
	s.next++
	return "p" + string(rune('0'+s.next)), nil
}

func TestPredictionRepositoryUpsertKeepsSlotIdentity(t *testing.T) {
	t.Parallel()

	repo := NewPredictionRepository(&sequenceIDs{}, nil)
	ctx := context.Background()
	first := time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)

	created, err := repo.Upsert(ctx, prediction.Prediction{GroupID: "g", UserID: "u", FixtureID: "f", Home: intPtr(1), Away: intPtr(0), SubmittedAt: first, UpdatedAt: first})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "p1" {
		t.Fatalf("expected generated id, got %q", created.ID)
	}

	later := first.Add(time.Hour)
	updated, err := repo.Upsert(ctx, prediction.Prediction{GroupID: "g", UserID: "u", FixtureID: "f", Home: intPtr(2), Away: intPtr(2), SubmittedAt: later, UpdatedAt: later})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != "p1" || !updated.SubmittedAt.Equal(first) || !updated.UpdatedAt.Equal(later) {
		t.Fatalf("unexpected updated prediction: %+v", updated)
	}

	items, _ := repo.ListByGroup(ctx, "g")
	if len(items) != 1 || *items[0].Home != 2 {
		t.Fatalf("expected single overwritten slot, got %+v", items)
	}

	*items[0].Home = 9
	again, _ := repo.ListByGroupAndUser(ctx, "g", "u")
	if *again[0].Home != 2 {
		t.Fatalf("listed predictions must be copies")
	}

	if _, err := repo.Upsert(ctx, prediction.Prediction{GroupID: "g", FixtureID: "f"}); err == nil {
		t.Fatalf("expected validation error for missing user")
	}
}

func TestGroupRepositoryMemberships(t *testing.T) {
	t.Parallel()

	repo := NewGroupRepository(SeedGroups(), SeedMembers())
	ctx := context.Background()

	memberships, _ := repo.ListMembershipsByUser(ctx, UserIDDemo)
	if len(memberships) != 2 || memberships[0].GroupID != GroupIDAmigos {
		t.Fatalf("unexpected memberships: %+v", memberships)
	}

	member, ok, _ := repo.GetMember(ctx, GroupIDAmigos, UserIDFormer)
	if !ok || member.IsActive() {
		t.Fatalf("expected inactive former member, got %+v %v", member, ok)
	}

	groups, _ := repo.ListByIDs(ctx, []string{GroupIDOficina, "missing", GroupIDAmigos})
	if len(groups) != 2 || groups[0].ID != GroupIDOficina {
		t.Fatalf("unexpected groups: %+v", groups)
	}
}

func TestStaticFixtureSourceFromSeed(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 10, 18, 18, 0, 0, 0, time.UTC)
	source := NewStaticFixtureSource(SeedFixtures(now))
	ctx := context.Background()

	rounds, _ := source.Rounds(ctx, SeedScope)
	if len(rounds) != 3 || rounds[0] != "Clausura - 1" || rounds[2] != "Clausura - 3" {
		t.Fatalf("unexpected rounds: %v", rounds)
	}

	inPlay, _ := source.ListByRound(ctx, SeedScope, "Clausura - 2")
	statuses := map[fixture.Status]int{}
	for _, item := range inPlay {
		statuses[item.Status()]++
	}
	if statuses[fixture.StatusFinal] != 1 || statuses[fixture.StatusLive] != 1 || statuses[fixture.StatusUpcoming] != 1 {
		t.Fatalf("unexpected round 2 statuses: %v", statuses)
	}

	window, _ := source.ListByWindow(ctx, SeedScope, now.Add(-24*time.Hour), now.Add(24*time.Hour))
	if len(window) != 3 {
		t.Fatalf("expected the in-play round inside the window, got %d", len(window))
	}

	if other, _ := source.Rounds(ctx, competition.Scope{LeagueID: LeagueIDLigaProfesional, Season: SeedSeason, Stage: competition.StageApertura}); len(other) != 0 {
		t.Fatalf("unknown scope must be empty, got %v", other)
	}
}

func TestTokenVerifier_SeededMembers(t *testing.T) {
	t.Parallel()

	verifier := NewTokenVerifier(SeedMembers())
	principal, err := verifier.VerifyAccessToken(context.Background(), DevToken(UserIDLucia))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if principal.DisplayName != "Lucía" {
		t.Fatalf("unexpected principal: %+v", principal)
	}

	for _, token := range []string{"", "dev-token:nobody", UserIDLucia} {
		if _, err := verifier.VerifyAccessToken(context.Background(), token); !errors.Is(err, usecase.ErrUnauthorized) {
			t.Fatalf("token %q: expected unauthorized, got %v", token, err)
		}
	}
}
