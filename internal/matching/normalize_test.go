package matching

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t ", ""},
		{"lowercases", "POULET", "poulet"},
		{"strips diacritics", "Crème brûlée", "creme brulee"},
		{"cedilla and accents", "maïs soufflé, haché", "mais souffle hache"},
		{"punctuation to space", "beurre d'arachide", "beurre d arachide"},
		{"collapses whitespace", "lait   2%  ", "lait 2"},
		{"keeps digits", "yogourt 750g", "yogourt 750g"},
		{"symbols dropped", "pommes & poires (frais!)", "pommes poires frais"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Crème fraîche d'Isigny",
		"PÂTES À LA BOLOGNAISE",
		"beurre d'arachide croquant, 1kg",
		"",
		"déjà normalisé",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
