package matching

import "testing"

func TestTranslateName(t *testing.T) {
	translator, err := NewTranslator()
	if err != nil {
		t.Fatalf("NewTranslator() error = %v", err)
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single word", "butter", "beurre"},
		{"case folded", "Milk", "lait"},
		{"phrase beats component word", "Chicken Breast", "poitrine de poulet"},
		{"compound product phrase", "peanut butter", "beurre d arachide"},
		{"phrase found by substring", "fresh chicken breast fillet", "poitrine de poulet"},
		{"untranslated returns input", "quinoa", "quinoa"},
		{"empty returns empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translator.TranslateName(tt.input); got != tt.want {
				t.Errorf("TranslateName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTranslateUnit(t *testing.T) {
	translator, err := NewTranslator()
	if err != nil {
		t.Fatalf("NewTranslator() error = %v", err)
	}

	tests := []struct {
		input string
		want  string
	}{
		{"cup", "tasse"},
		{"Tablespoon", "cuillere a soupe"},
		{"tsp", "cuillere a the"},
		{"slices", "tranches"},
		{"dozen", "douzaine"},
		{"fathom", "fathom"}, // unknown unit passes through
	}

	for _, tt := range tests {
		if got := translator.TranslateUnit(tt.input); got != tt.want {
			t.Errorf("TranslateUnit(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
