package memory

import (
	"time"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/fixture"
	"github.com/riskibarqy/prode/internal/domain/group"
	"github.com/riskibarqy/prode/internal/domain/prediction"
)

const (
	LeagueIDLigaProfesional = 128
	SeedSeason              = "2025"

	GroupIDAmigos  = "grp-amigos"
	GroupIDOficina = "grp-oficina"

	UserIDDemo   = "usr-demo"
	UserIDLucia  = "usr-lucia"
	UserIDMateo  = "usr-mateo"
	UserIDValen  = "usr-valen"
	UserIDFormer = "usr-former"
)

var SeedScope = competition.Scope{LeagueID: LeagueIDLigaProfesional, Season: SeedSeason, Stage: competition.StageClausura}

type seedMatch struct {
	id        string
	home      string
	away      string
	venue     string
	homeGoals int
	awayGoals int
}

var seedRounds = []struct {
	round   string
	matches []seedMatch
}{
	{
		round: "Clausura - 1",
		matches: []seedMatch{
			{id: "fx-c1-01", home: "Boca Juniors", away: "Newell's Old Boys", venue: "La Bombonera", homeGoals: 2, awayGoals: 0},
			{id: "fx-c1-02", home: "River Plate", away: "Talleres Córdoba", venue: "Estadio Monumental", homeGoals: 1, awayGoals: 1},
			{id: "fx-c1-03", home: "Racing Club", away: "Independiente", venue: "El Cilindro", homeGoals: 0, awayGoals: 1},
		},
	},
	{
		round: "Clausura - 2",
		matches: []seedMatch{
			{id: "fx-c2-01", home: "San Lorenzo", away: "Huracán", venue: "Nuevo Gasómetro", homeGoals: 1, awayGoals: 0},
			{id: "fx-c2-02", home: "Estudiantes de La Plata", away: "Gimnasia y Esgrima", venue: "UNO", homeGoals: 0, awayGoals: 0},
			{id: "fx-c2-03", home: "Vélez Sarsfield", away: "Argentinos Juniors", venue: "José Amalfitani", homeGoals: 2, awayGoals: 2},
		},
	},
	{
		round: "Clausura - 3",
		matches: []seedMatch{
			{id: "fx-c3-01", home: "Independiente", away: "Boca Juniors", venue: "Libertadores de América"},
			{id: "fx-c3-02", home: "Talleres Córdoba", away: "Racing Club", venue: "Mario Alberto Kempes"},
			{id: "fx-c3-03", home: "Huracán", away: "River Plate", venue: "Tomás Adolfo Ducó"},
		},
	},
}

// SeedFixtures lays the demo rounds out around now: the first one finished a
// week ago, the second is in play and the third kicks off in a few days.
func SeedFixtures(now time.Time) map[competition.Scope][]fixture.Fixture {
	now = now.UTC().Truncate(time.Minute)
	starts := []time.Time{
		now.Add(-7 * 24 * time.Hour),
		now.Add(-3 * time.Hour),
		now.Add(3 * 24 * time.Hour),
	}

	items := make([]fixture.Fixture, 0, 9)
	for i, r := range seedRounds {
		for j, m := range r.matches {
			kickoff := starts[i].Add(time.Duration(j) * 150 * time.Minute)
			item := fixture.Fixture{
				ID:        m.id,
				Round:     r.round,
				KickoffAt: kickoff,
				RawStatus: "NS",
				HomeTeam:  m.home,
				AwayTeam:  m.away,
				Venue:     m.venue,
			}
			if !kickoff.After(now) {
				item.HomeGoals = intPtr(m.homeGoals)
				item.AwayGoals = intPtr(m.awayGoals)
				item.RawStatus, item.Elapsed = seedClock(now.Sub(kickoff))
			}
			items = append(items, item)
		}
	}
	return map[competition.Scope][]fixture.Fixture{SeedScope: items}
}

// seedClock maps minutes since kickoff to a provider status code and elapsed clock.
func seedClock(sinceKickoff time.Duration) (string, *int) {
	minutes := int(sinceKickoff.Minutes())
	switch {
	case minutes >= 110:
		return "FT", intPtr(90)
	case minutes > 60:
		return "2H", intPtr(min(minutes-15, 90))
	case minutes >= 45:
		return "HT", intPtr(45)
	default:
		return "1H", intPtr(minutes)
	}
}

func SeedGroups() []group.Group {
	created := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	return []group.Group{
		{ID: GroupIDAmigos, Name: "Los del Barrio", Scope: SeedScope, OwnerUserID: UserIDDemo, CreatedAt: created},
		{ID: GroupIDOficina, Name: "Oficina", Scope: SeedScope, OwnerUserID: UserIDLucia, CreatedAt: created.Add(48 * time.Hour)},
	}
}

func SeedMembers() []group.Member {
	joined := time.Date(2025, 7, 2, 9, 0, 0, 0, time.UTC)
	return []group.Member{
		{GroupID: GroupIDAmigos, UserID: UserIDDemo, DisplayName: "Demo", Role: group.RoleOwner, Status: group.MemberStatusActive, JoinedAt: joined},
		{GroupID: GroupIDAmigos, UserID: UserIDMateo, DisplayName: "Mateo", Role: group.RoleMember, Status: group.MemberStatusActive, JoinedAt: joined.Add(time.Hour)},
		{GroupID: GroupIDAmigos, UserID: UserIDValen, DisplayName: "Valen", Role: group.RoleAdmin, Status: group.MemberStatusActive, JoinedAt: joined.Add(2 * time.Hour)},
		{GroupID: GroupIDAmigos, UserID: UserIDFormer, DisplayName: "Ex Integrante", Role: group.RoleMember, Status: group.MemberStatusLeft, JoinedAt: joined.Add(3 * time.Hour)},
		{GroupID: GroupIDOficina, UserID: UserIDLucia, DisplayName: "Lucía", Role: group.RoleOwner, Status: group.MemberStatusActive, JoinedAt: joined.Add(48 * time.Hour)},
		{GroupID: GroupIDOficina, UserID: UserIDDemo, DisplayName: "Demo", Role: group.RoleMember, Status: group.MemberStatusActive, JoinedAt: joined.Add(50 * time.Hour)},
	}
}

func SeedPredictions(now time.Time) []prediction.Prediction {
	submitted := now.UTC().Add(-8 * 24 * time.Hour)
	entry := func(groupID, userID, fixtureID, period string, home, away int, offset time.Duration) prediction.Prediction {
		at := submitted.Add(offset)
		return prediction.Prediction{
			ID:          groupID + ":" + userID + ":" + fixtureID,
			GroupID:     groupID,
			UserID:      userID,
			FixtureID:   fixtureID,
			Period:      period,
			Home:        intPtr(home),
			Away:        intPtr(away),
			SubmittedAt: at,
			UpdatedAt:   at,
		}
	}

	return []prediction.Prediction{
		entry(GroupIDAmigos, UserIDDemo, "fx-c1-01", "Clausura - 1", 2, 0, 0),
		entry(GroupIDAmigos, UserIDDemo, "fx-c1-02", "Clausura - 1", 2, 1, time.Minute),
		entry(GroupIDAmigos, UserIDDemo, "fx-c2-01", "Clausura - 2", 1, 1, 5*24*time.Hour),
		entry(GroupIDAmigos, UserIDMateo, "fx-c1-01", "Clausura - 1", 1, 0, time.Hour),
		entry(GroupIDAmigos, UserIDMateo, "fx-c1-03", "Clausura - 1", 0, 1, time.Hour),
		entry(GroupIDAmigos, UserIDValen, "fx-c1-02", "Clausura - 1", 1, 1, 2*time.Hour),
		entry(GroupIDAmigos, UserIDFormer, "fx-c1-01", "Clausura - 1", 2, 0, 3*time.Hour),
		entry(GroupIDOficina, UserIDLucia, "fx-c2-02", "Clausura - 2", 0, 0, 6*24*time.Hour),
		entry(GroupIDOficina, UserIDDemo, "fx-c2-02", "Clausura - 2", 1, 0, 6*24*time.Hour+time.Hour),
	}
}

func intPtr(v int) *int {
	return &v
}
