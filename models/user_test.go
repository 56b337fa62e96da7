package models

import "testing"

func TestValidTheme(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  bool
	}{
		{"service", ThemeService, true},
		{"ledger", ThemeLedger, true},
		{"night shift", ThemeNightShift, true},
		{"unknown", "galaxy", false},
		{"empty", "", false},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidTheme(tt.value); got != tt.want {
				t.Fatalf("ValidTheme(%q) = %t, want %t", tt.value, got, tt.want)
			}
		})
	}
}

func TestNormalizeTheme(t *testing.T) {
	t.Parallel()

	if got := NormalizeTheme(ThemeLedger); got != ThemeLedger {
		t.Fatalf("NormalizeTheme returned %q, want %q", got, ThemeLedger)
	}

	if got := NormalizeTheme("  invalid  "); got != DefaultTheme {
		t.Fatalf("NormalizeTheme returned %q, want %q", got, DefaultTheme)
	}
}

func TestNormalizeMealType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value string
		want  string
	}{
		{"Lunch", MealTypeLunch},
		{"  dinner ", MealTypeDinner},
		{"brunch", ""},
		{"", ""},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeMealType(tt.value); got != tt.want {
				t.Fatalf("NormalizeMealType(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestMealTypeRankFollowsServiceOrder(t *testing.T) {
	t.Parallel()

	types := MealTypes()
	for i := 1; i < len(types); i++ {
		if MealTypeRank(types[i-1]) >= MealTypeRank(types[i]) {
			t.Fatalf("MealTypeRank(%q) should be lower than MealTypeRank(%q)", types[i-1], types[i])
		}
	}
	if MealTypeRank("supper") != len(types) {
		t.Fatalf("MealTypeRank(unknown) = %d, want %d", MealTypeRank("supper"), len(types))
	}
}
