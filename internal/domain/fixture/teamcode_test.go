package fixture

import "testing"

func TestFormatTeamCode(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"San Lorenzo":         "SAN",
		"Atlético Tucumán":    "ATL",
		"Ñublense":            "NUB",
		"U":                   "UXX",
		"":                    "XXX",
		"  ":                  "XXX",
		"Club Atlético Tigre": "CAT",
		"Boca Juniors":        "BOC",
		"FC Porto":            "FCP",
		"Vélez Sarsfield":     "VEL",
		"river":               "RIV",
		"Estudiantes (LP)":    "EST",
		"O'Higgins":           "OHI",
		"Newell's Old Boys":   "NOB",
		"Gimnasia y Esgrima":  "GYE",
		"Godoy-Cruz":          "GOD",
	}

	for name, want := range cases {
		got := FormatTeamCode(name)
		if got != want {
			t.Fatalf("FormatTeamCode(%q)=%q want %q", name, got, want)
		}
		if len([]rune(got)) != 3 {
			t.Fatalf("FormatTeamCode(%q) must be 3 characters, got %q", name, got)
		}
	}
}
