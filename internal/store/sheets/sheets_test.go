package sheets

import "testing"

func TestQuoteTab(t *testing.T) {
	cases := []struct {
		tab  string
		want string
	}{
		{"Invites", "'Invites'"},
		{"Livre d'or", "'Livre d''or'"},
		{"Réponses 2026", "'Réponses 2026'"},
	}
	for _, c := range cases {
		if got := quoteTab(c.tab); got != c.want {
			t.Errorf("quoteTab(%q) = %q, want %q", c.tab, got, c.want)
		}
	}
}
