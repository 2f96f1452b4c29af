package pricing

import "testing"

func TestConvertUnitPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		quantity float64
		unit     string
		want     float64
	}{
		{"tablespoons of a per-litre price", 12.00, 2, "cuillère à soupe", 0.36},
		{"grams of a per-kg price", 4.00, 500, "g", 2.00},
		{"kilograms", 3.50, 2, "kg", 7.00},
		{"cup", 5.00, 1, "tasse", 1.25},
		{"pound", 6.00, 1, "lb", 2.72},
		{"teaspoon english", 10.00, 3, "tsp", 0.15},
		{"dozen scales whole packages", 4.29, 2, "douzaine", 8.58},
		{"piece is a package fraction", 10.99, 3, "unité", 3.30},
		{"package", 3.99, 2, "paquet", 7.98},
		{"unknown unit treated as package", 2.50, 3, "botte", 7.50},
		{"zero price", 0, 2, "kg", 0},
		{"zero quantity", 4.99, 0, "kg", 0},
		{"negative quantity", 4.99, -1, "kg", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertUnitPrice(tt.price, tt.quantity, tt.unit)
			if got != tt.want {
				t.Errorf("ConvertUnitPrice(%v, %v, %q) = %v, want %v",
					tt.price, tt.quantity, tt.unit, got, tt.want)
			}
		})
	}
}

func TestConvertUnitPriceForSlices(t *testing.T) {
	t.Run("bacon packages hold fourteen slices", func(t *testing.T) {
		got := ConvertUnitPriceFor(6.99, 4, "tranches", "bacon fumé")
		if got != 2.00 {
			t.Errorf("bacon slices = %v, want 2.00", got)
		}
	})

	t.Run("other sliced products hold twelve", func(t *testing.T) {
		got := ConvertUnitPriceFor(4.80, 6, "tranches", "fromage suisse")
		if got != 2.40 {
			t.Errorf("cheese slices = %v, want 2.40", got)
		}
	})

	t.Run("name only affects slice units", func(t *testing.T) {
		withName := ConvertUnitPriceFor(3.50, 2, "kg", "bacon")
		without := ConvertUnitPrice(3.50, 2, "kg")
		if withName != without {
			t.Errorf("kg conversion differs by name: %v vs %v", withName, without)
		}
	})
}
