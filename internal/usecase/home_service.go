package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/fixture"
	"github.com/riskibarqy/prode/internal/domain/group"
	"github.com/riskibarqy/prode/internal/domain/prediction"
)

type HomeInput struct {
	UserID  string
	GroupID string
	Period  string
	// Scope is only honoured for guests; members always see their group's scope.
	Scope competition.Scope
}

type HomeGroup struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Scope string     `json:"scope"`
	Role  group.Role `json:"role"`
}

type FechaOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type Home struct {
	Groups          []HomeGroup   `json:"groups"`
	SelectedGroupID string        `json:"selected_group_id,omitempty"`
	Scope           string        `json:"scope"`
	Fechas          []FechaOption `json:"fechas"`
	Period          string        `json:"period"`
	PeriodLabel     string        `json:"period_label"`
	Matches         []MatchCard   `json:"matches"`
	Dates           []DateCard    `json:"dates"`
	Live            LiveDigest    `json:"live"`
	Standings       []RankedRow   `json:"standings"`
	Me              *RankedRow    `json:"me,omitempty"`
}

type HomeServiceConfig struct {
	DefaultScope competition.Scope
	Tones        prediction.ToneScale
	CardLimit    int
}

type HomeService struct {
	groupRepo      group.Repository
	predictionRepo prediction.Repository
	periods        *PeriodService
	fixtures       *FixtureService
	standings      *StandingsService
	guests         *prediction.ScopedStore
	cfg            HomeServiceConfig
	now            func() time.Time
}

func NewHomeService(
	groupRepo group.Repository,
	predictionRepo prediction.Repository,
	periods *PeriodService,
	fixtures *FixtureService,
	standings *StandingsService,
	guests *prediction.ScopedStore,
	cfg HomeServiceConfig,
) *HomeService {
	if guests == nil {
		guests = prediction.NewScopedStore()
	}
	return &HomeService{
		groupRepo:      groupRepo,
		predictionRepo: predictionRepo,
		periods:        periods,
		fixtures:       fixtures,
		standings:      standings,
		guests:         guests,
		cfg:            cfg,
		now:            time.Now,
	}
}

// Home builds the landing view: the caller's groups, the round on display with
// its match cards and the selected group's standings.
func (s *HomeService) Home(ctx context.Context, input HomeInput) (Home, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HomeService.Home")
	defer span.End()

	out := Home{Groups: []HomeGroup{}, Standings: []RankedRow{}}
	scope := s.cfg.DefaultScope
	var selected *group.Group

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		if !input.Scope.IsZero() {
			scope = input.Scope
		}
	} else {
		groups, roles, err := s.userGroups(ctx, userID)
		if err != nil {
			return Home{}, err
		}
		for _, g := range groups {
			out.Groups = append(out.Groups, HomeGroup{ID: g.ID, Name: g.Name, Scope: g.Scope.Key(), Role: roles[g.ID]})
		}

		requested := strings.TrimSpace(input.GroupID)
		for i := range groups {
			if requested == "" || groups[i].ID == requested {
				selected = &groups[i]
				break
			}
		}
		if requested != "" && selected == nil {
			return Home{}, fmt.Errorf("%w: not a member of group=%s", ErrForbidden, requested)
		}
		if selected != nil {
			scope = selected.Scope
			out.SelectedGroupID = selected.ID
		}
	}
	out.Scope = scope.Key()

	fechas := s.periods.AvailableFechas(ctx, scope)
	out.Fechas = make([]FechaOption, 0, len(fechas))
	for _, f := range fechas {
		out.Fechas = append(out.Fechas, FechaOption{ID: f, Label: competition.FormatRoundLabel(f)})
	}
	out.Period = strings.TrimSpace(input.Period)
	if out.Period == "" {
		out.Period = s.periods.ResolveDefaultFecha(ctx, scope, fechas)
	}
	out.PeriodLabel = competition.FormatRoundLabel(out.Period)

	var (
		items     []fixture.Fixture
		rows      []RankedRow
		mine      []prediction.Prediction
		rankErr   error
		mineErr   error
		waitGroup conc.WaitGroup
	)
	waitGroup.Go(func() {
		items = s.fixtures.FetchFixtures(ctx, scope, out.Period)
	})
	if selected != nil {
		waitGroup.Go(func() {
			rows, rankErr = s.standings.rank(ctx, *selected)
		})
		waitGroup.Go(func() {
			mine, mineErr = s.predictionRepo.ListByGroupAndUser(ctx, selected.ID, userID)
		})
	}
	waitGroup.Wait()

	if rankErr != nil {
		return Home{}, rankErr
	}
	if mineErr != nil {
		return Home{}, fmt.Errorf("list caller predictions: %w", mineErr)
	}

	var guesses map[string]prediction.Guess
	if selected != nil {
		guesses = make(map[string]prediction.Guess, len(mine))
		for _, p := range mine {
			guesses[p.FixtureID] = prediction.Guess{Home: p.Home, Away: p.Away}
		}
	} else {
		guesses = s.guestGuesses(out.Period, scope, items)
	}

	now := s.now()
	loc := s.fixtures.Location()
	out.Matches = MapToMatchCards(items, MatchCardOptions{
		Location: loc,
		Now:      now,
		Guesses:  guesses,
		Tones:    s.cfg.Tones,
		Limit:    s.cfg.CardLimit,
	})
	out.Dates = MapToFixtureDateCards(items, loc, now)
	out.Live = BuildLiveDigest(items, loc)
	if rows != nil {
		out.Standings = rows
		if row, ok := FindRow(rows, userID); ok {
			out.Me = &row
		}
	}
	return out, nil
}

// guestGuesses seeds an empty guess for every displayed fixture and returns the round's guesses.
func (s *HomeService) guestGuesses(period string, scope competition.Scope, items []fixture.Fixture) map[string]prediction.Guess {
	if period == "" {
		return nil
	}
	for _, item := range items {
		s.guests.EnsureDefault(period, scope, item.ID, prediction.Guess{})
	}
	return s.guests.Snapshot(period, scope)
}

// userGroups returns the caller's active groups in membership order with the caller's role in each.
func (s *HomeService) userGroups(ctx context.Context, userID string) ([]group.Group, map[string]group.Role, error) {
	memberships, err := s.groupRepo.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list memberships: %w", err)
	}
	memberships = group.ActiveMembers(memberships)

	ids := make([]string, 0, len(memberships))
	roles := make(map[string]group.Role, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.GroupID)
		roles[m.GroupID] = m.Role
	}

	groups, err := s.groupRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("list groups: %w", err)
	}
	byID := make(map[string]group.Group, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}

	ordered := make([]group.Group, 0, len(groups))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			ordered = append(ordered, g)
		}
	}
	return ordered, roles, nil
}

type FechaList struct {
	Fechas  []FechaOption `json:"fechas"`
	Default string        `json:"default"`
}

// Fechas lists the rounds of a group's scope and the one shown by default.
func (s *HomeService) Fechas(ctx context.Context, userID, groupID string) (FechaList, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HomeService.Fechas")
	defer span.End()

	item, err := requireMembership(ctx, s.groupRepo, userID, groupID)
	if err != nil {
		return FechaList{}, err
	}

	fechas := s.periods.AvailableFechas(ctx, item.Scope)
	out := FechaList{Fechas: make([]FechaOption, 0, len(fechas))}
	for _, f := range fechas {
		out.Fechas = append(out.Fechas, FechaOption{ID: f, Label: competition.FormatRoundLabel(f)})
	}
	out.Default = s.periods.ResolveDefaultFecha(ctx, item.Scope, fechas)
	return out, nil
}

type GroupFixtures struct {
	Period  string      `json:"period"`
	Matches []MatchCard `json:"matches"`
	Dates   []DateCard  `json:"dates"`
}

// Fixtures returns every card of one round of a group with the caller's guesses and points.
func (s *HomeService) Fixtures(ctx context.Context, userID, groupID, period string) (GroupFixtures, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HomeService.Fixtures")
	defer span.End()

	item, err := requireMembership(ctx, s.groupRepo, userID, groupID)
	if err != nil {
		return GroupFixtures{}, err
	}

	period = strings.TrimSpace(period)
	if period == "" {
		period = s.periods.ResolveDefaultFecha(ctx, item.Scope, s.periods.AvailableFechas(ctx, item.Scope))
	}

	items := s.fixtures.FetchFixtures(ctx, item.Scope, period)
	mine, err := s.predictionRepo.ListByGroupAndUser(ctx, item.ID, strings.TrimSpace(userID))
	if err != nil {
		return GroupFixtures{}, fmt.Errorf("list caller predictions: %w", err)
	}
	guesses := make(map[string]prediction.Guess, len(mine))
	for _, p := range mine {
		guesses[p.FixtureID] = prediction.Guess{Home: p.Home, Away: p.Away}
	}

	now := s.now()
	loc := s.fixtures.Location()
	return GroupFixtures{
		Period: period,
		Matches: MapToMatchCards(items, MatchCardOptions{
			Location: loc,
			Now:      now,
			Guesses:  guesses,
			Tones:    s.cfg.Tones,
		}),
		Dates: MapToFixtureDateCards(items, loc, now),
	}, nil
}

// Live summarises fixtures in play around today for a scope; the default scope when zero.
func (s *HomeService) Live(ctx context.Context, scope competition.Scope) LiveDigest {
	ctx, span := startUsecaseSpan(ctx, "usecase.HomeService.Live")
	defer span.End()

	if scope.IsZero() {
		scope = s.cfg.DefaultScope
	}
	return BuildLiveDigest(s.fixtures.FetchFixtures(ctx, scope, ""), s.fixtures.Location())
}
