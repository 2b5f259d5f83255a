package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/prode/internal/domain/fixture"
	"github.com/riskibarqy/prode/internal/domain/group"
	"github.com/riskibarqy/prode/internal/domain/prediction"
	fixturemock "github.com/riskibarqy/prode/internal/mocks/domain/fixture"
	groupmock "github.com/riskibarqy/prode/internal/mocks/domain/group"
	predictionmock "github.com/riskibarqy/prode/internal/mocks/domain/prediction"
)

type homeFixture struct {
	svc            *HomeService
	groupRepo      *groupmock.Repository
	predictionRepo *predictionmock.Repository
	source         *fixturemock.Source
	guests         *prediction.ScopedStore
	scores         *stubScores
}

func newHomeFixture(t *testing.T) homeFixture {
	t.Helper()

	h := homeFixture{
		groupRepo:      groupmock.NewRepository(t),
		predictionRepo: predictionmock.NewRepository(t),
		source:         fixturemock.NewSource(t),
		guests:         prediction.NewScopedStore(),
		scores:         &stubScores{},
	}

	periods := newTestPeriodService(h.source)
	fixtures := newTestFixtureService(t, h.source)
	standings := NewStandingsService(h.groupRepo, h.predictionRepo, h.scores)
	h.svc = NewHomeService(h.groupRepo, h.predictionRepo, periods, fixtures, standings, h.guests, HomeServiceConfig{
		DefaultScope: testScope,
		Tones:        prediction.DefaultToneScale(),
		CardLimit:    DefaultMatchCardLimit,
	})
	h.svc.now = func() time.Time { return testNow }
	return h
}

// expectRounds serves two rounds: a finished one and one currently in play.
func (h homeFixture) expectRounds() {
	h.source.On("Rounds", mock.Anything, testScope).Return([]string{"Clausura - 1", "Clausura - 2"}, nil).Maybe()
	h.source.On("ListByRound", mock.Anything, testScope, "Clausura - 1").
		Return([]fixture.Fixture{finalFixture("f1", testNow.Add(-7*24*time.Hour), 2, 1)}, nil).Maybe()
	h.source.On("ListByRound", mock.Anything, testScope, "Clausura - 2").Return([]fixture.Fixture{
		liveFixture("f2", testNow.Add(-50*time.Minute), 50),
		upcomingFixture("f3", testNow.Add(5*time.Hour)),
	}, nil).Maybe()
}

func TestHome_GuestUsesDefaultScopeAndSharedStore(t *testing.T) {
	t.Parallel()

	h := newHomeFixture(t)
	h.expectRounds()
	h.guests.Set("Clausura - 2", testScope, "f3", prediction.Guess{Home: goals(1), Away: goals(0)})

	got, err := h.svc.Home(context.Background(), HomeInput{})
	if err != nil {
		t.Fatalf("Home error: %v", err)
	}

	if got.Scope != testScope.Key() || got.Period != "Clausura - 2" || got.PeriodLabel != "Fecha 2" {
		t.Fatalf("unexpected period resolution: scope=%s period=%s label=%s", got.Scope, got.Period, got.PeriodLabel)
	}
	if len(got.Fechas) != 2 || got.Fechas[0].Label != "Fecha 1" {
		t.Fatalf("unexpected fechas: %+v", got.Fechas)
	}
	if len(got.Groups) != 0 || len(got.Standings) != 0 || got.Me != nil {
		t.Fatalf("guest must not see groups or standings: %+v", got)
	}
	if got.Live.Count != 1 || len(got.Matches) != 2 || got.Matches[0].ID != "f2" {
		t.Fatalf("unexpected cards: live=%+v matches=%+v", got.Live, got.Matches)
	}
	if got.Matches[1].Prediction == nil || got.Matches[1].Prediction.Home != 1 {
		t.Fatalf("expected guest guess on upcoming card: %+v", got.Matches[1])
	}

	snapshot := h.guests.Snapshot("Clausura - 2", testScope)
	if _, seeded := snapshot["f2"]; !seeded {
		t.Fatalf("expected every displayed fixture to be seeded, got %+v", snapshot)
	}
}

func TestHome_MemberSeesSelectedGroup(t *testing.T) {
	t.Parallel()

	h := newHomeFixture(t)
	h.expectRounds()
	h.scores.scores = fixture.ScoreMap{"f1": {Home: 2, Away: 1}, "f2": {Home: 0, Away: 0}}

	other := group.Group{ID: "g0", Name: "Familia", Scope: testScope}
	owner := activeMember("g1", "u1", "Uno")
	owner.Role = group.RoleOwner
	h.groupRepo.On("ListMembershipsByUser", mock.Anything, "u1").
		Return([]group.Member{owner, activeMember("g0", "u1", "Uno")}, nil).Once()
	h.groupRepo.On("ListByIDs", mock.Anything, []string{"g1", "g0"}).Return([]group.Group{other, testGroup}, nil).Once()
	h.groupRepo.On("ListMembers", mock.Anything, "g1").
		Return([]group.Member{activeMember("g1", "u1", "Uno"), activeMember("g1", "u2", "Dos")}, nil).Once()

	mine := guessFor("g1", "u1", "f2", 0, 0)
	mine.Period = "Clausura - 2"
	theirs := guessFor("g1", "u2", "f1", 2, 1)
	theirs.Period = "Clausura - 1"
	h.predictionRepo.On("ListByGroup", mock.Anything, "g1").Return([]prediction.Prediction{mine, theirs}, nil).Once()
	h.predictionRepo.On("ListByGroupAndUser", mock.Anything, "g1", "u1").Return([]prediction.Prediction{mine}, nil).Once()

	got, err := h.svc.Home(context.Background(), HomeInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("Home error: %v", err)
	}

	if len(got.Groups) != 2 || got.Groups[0].ID != "g1" || got.Groups[0].Role != group.RoleOwner {
		t.Fatalf("groups must follow membership order: %+v", got.Groups)
	}
	if got.SelectedGroupID != "g1" {
		t.Fatalf("expected first group selected, got %q", got.SelectedGroupID)
	}
	if len(got.Standings) != 2 || got.Me == nil || got.Me.Points != 3 {
		t.Fatalf("unexpected standings: rows=%+v me=%+v", got.Standings, got.Me)
	}
	live := got.Matches[0]
	if live.ID != "f2" || live.Points == nil || *live.Points != 3 || live.Tone != prediction.TonePositive {
		t.Fatalf("expected live points for caller guess: %+v", live)
	}
	if len(h.guests.Snapshot("Clausura - 2", testScope)) != 0 {
		t.Fatalf("member views must not touch the guest store")
	}
}

func TestHome_RequestedGroupMustBeMembership(t *testing.T) {
	t.Parallel()

	h := newHomeFixture(t)
	h.groupRepo.On("ListMembershipsByUser", mock.Anything, "u1").Return([]group.Member{activeMember("g1", "u1", "")}, nil).Once()
	h.groupRepo.On("ListByIDs", mock.Anything, []string{"g1"}).Return([]group.Group{testGroup}, nil).Once()

	_, err := h.svc.Home(context.Background(), HomeInput{UserID: "u1", GroupID: "g9"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestHome_ProviderDownStillRenders(t *testing.T) {
	t.Parallel()

	h := newHomeFixture(t)
	h.source.On("Rounds", mock.Anything, testScope).Return(nil, errors.New("503")).Maybe()
	h.source.On("ListByWindow", mock.Anything, testScope, mock.Anything, mock.Anything).Return(nil, errors.New("503")).Maybe()

	got, err := h.svc.Home(context.Background(), HomeInput{})
	if err != nil {
		t.Fatalf("Home error: %v", err)
	}
	if got.Period != "" || len(got.Fechas) != 0 || len(got.Matches) != 0 || got.Live.Count != 0 {
		t.Fatalf("expected empty but valid home, got %+v", got)
	}
}

func TestHomeFechasAndFixtures(t *testing.T) {
	t.Parallel()

	h := newHomeFixture(t)
	h.expectRounds()
	h.groupRepo.On("GetByID", mock.Anything, "g1").Return(testGroup, true, nil).Twice()
	h.groupRepo.On("GetMember", mock.Anything, "g1", "u1").Return(activeMember("g1", "u1", ""), true, nil).Twice()

	list, err := h.svc.Fechas(context.Background(), "u1", "g1")
	if err != nil {
		t.Fatalf("Fechas error: %v", err)
	}
	if list.Default != "Clausura - 2" || len(list.Fechas) != 2 {
		t.Fatalf("unexpected fechas: %+v", list)
	}

	mine := guessFor("g1", "u1", "f1", 1, 0)
	h.predictionRepo.On("ListByGroupAndUser", mock.Anything, "g1", "u1").Return([]prediction.Prediction{mine}, nil).Once()

	cards, err := h.svc.Fixtures(context.Background(), "u1", "g1", "Clausura - 1")
	if err != nil {
		t.Fatalf("Fixtures error: %v", err)
	}
	if cards.Period != "Clausura - 1" || len(cards.Matches) != 1 || *cards.Matches[0].Points != 1 || cards.Matches[0].Tone != prediction.ToneWarning {
		t.Fatalf("unexpected round cards: %+v", cards)
	}
	if len(cards.Dates) != 1 || cards.Dates[0].Rows[0].Line != "RAC 2-1 IND" {
		t.Fatalf("unexpected date cards: %+v", cards.Dates)
	}
}
