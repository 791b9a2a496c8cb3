package domain

import "testing"

func turns(n int) []ConversationTurn {
	out := make([]ConversationTurn, n)
	for i := range out {
		out[i] = ConversationTurn{Question: string(rune('a' + i)), Answer: "ans"}
	}
	return out
}

func TestRecentTurns(t *testing.T) {
	tests := []struct {
		name      string
		history   []ConversationTurn
		n         int
		wantLen   int
		wantFirst string
	}{
		{"empty", nil, 3, 0, ""},
		{"fewer than window", turns(2), 3, 2, "a"},
		{"exactly window", turns(3), 3, 3, "a"},
		{"longer than window keeps newest", turns(5), 3, 3, "c"},
		{"zero window", turns(5), 0, 0, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RecentTurns(tc.history, tc.n)
			if len(got) != tc.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tc.wantLen)
			}
			if tc.wantLen > 0 && got[0].Question != tc.wantFirst {
				t.Errorf("first = %q, want %q", got[0].Question, tc.wantFirst)
			}
		})
	}
}

func TestRecentTurns_DoesNotAliasInput(t *testing.T) {
	h := turns(4)
	got := RecentTurns(h, 3)
	got[0].Question = "mutated"
	if h[1].Question == "mutated" {
		t.Error("RecentTurns must copy the window")
	}
}
