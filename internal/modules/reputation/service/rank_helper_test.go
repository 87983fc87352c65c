package service

import "testing"

func TestGetRankStatusWithWeekly(t *testing.T) {
	testCases := []struct {
		name         string
		points       int
		weekly       int
		wantRank     string
		wantNext     string
		wantProgress float64
		wantLabel    string
	}{
		{"negative reputation", -30, 0, "Nybörjare", "Medlem", 0, ""},
		{"zero", 0, 0, "Nybörjare", "Medlem", 0, ""},
		{"first steps", 5, 5, "Nybörjare", "Medlem", 20, ""},
		{"member", 30, 12, "Medlem", "Stammis", 30, "📈 Aktiv"},
		{"connoisseur", 450, 35, "Kännare", "Expert", 45, "⚡ På gång"},
		{"legend", 5000, 90, "Legend", "Max", 100, "🔥 Het vecka"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := GetRankStatusWithWeekly(tc.points, tc.weekly)
			if got.RankName != tc.wantRank || got.NextRank != tc.wantNext {
				t.Errorf("rank = %s -> %s, want %s -> %s", got.RankName, got.NextRank, tc.wantRank, tc.wantNext)
			}
			if got.Progress != tc.wantProgress {
				t.Errorf("progress = %v, want %v", got.Progress, tc.wantProgress)
			}
			if got.WeeklyLabel != tc.wantLabel {
				t.Errorf("weekly label = %q, want %q", got.WeeklyLabel, tc.wantLabel)
			}
		})
	}
}
