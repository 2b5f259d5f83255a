package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "fixture_id").
		From("predictions").
		Where(Eq("group_id", "g1"), In("user_id", []string{"u1", "u2"})).
		OrderBy("submitted_at DESC").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, fixture_id FROM predictions WHERE group_id = $1 AND user_id IN ($2, $3) ORDER BY submitted_at DESC LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "g1" || args[1] != "u1" || args[2] != "u2" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("id").From("groups").Where(In("id", []string{})).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM groups WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query=%q args=%v", query, args)
	}
}

func TestInsertBuilder_OnConflictUpdate(t *testing.T) {
	query, args, err := InsertInto("predictions").
		Columns("id", "group_id", "user_id", "fixture_id", "home_pred").
		Values("p1", "g1", "u1", "f1", 2).
		OnConflictUpdate([]string{"group_id", "user_id", "fixture_id"}, "home_pred").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO predictions (id, group_id, user_id, fixture_id, home_pred) VALUES ($1, $2, $3, $4, $5) " +
		"ON CONFLICT (group_id, user_id, fixture_id) DO UPDATE SET home_pred = EXCLUDED.home_pred RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 5 || args[4] != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_ValueCountMismatch(t *testing.T) {
	if _, _, err := InsertInto("t").Columns("a", "b").Values(1).ToSQL(); err == nil {
		t.Fatalf("expected error for value count mismatch")
	}
}

func TestUpsertModel(t *testing.T) {
	type row struct {
		ID        string `db:"id"`
		GroupID   string `db:"group_id"`
		FixtureID string `db:"fixture_id"`
		Home      int    `db:"home_pred"`
		ignored   string
		Skip      string `db:"-"`
	}

	query, args, err := UpsertModel("predictions", row{ID: "p1", GroupID: "g1", FixtureID: "f1", Home: 1}, []string{"group_id", "fixture_id"}, "")
	if err != nil {
		t.Fatalf("build upsert: %v", err)
	}
	wantQuery := "INSERT INTO predictions (id, group_id, fixture_id, home_pred) VALUES ($1, $2, $3, $4) " +
		"ON CONFLICT (group_id, fixture_id) DO UPDATE SET home_pred = EXCLUDED.home_pred"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestFilter(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "conjunction",
			got:  Filter(Eq("group_id", "g1"), Eq("user_id", "u1")),
			want: "group_id='g1' && user_id='u1'",
		},
		{
			name: "escapes quotes and backslashes",
			got:  Filter(Eq("name", `O'Higgins \ Club`)),
			want: `name='O\'Higgins \\ Club'`,
		},
		{
			name: "numbers are bare",
			got:  Filter(Eq("league_id", 128)),
			want: "league_id=128",
		},
		{
			name: "in becomes disjunction",
			got:  Filter(In("id", []string{"a", "b"})),
			want: "(id='a' || id='b')",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("unexpected filter:\nwant: %s\ngot:  %s", tc.want, tc.got)
			}
		})
	}
}
