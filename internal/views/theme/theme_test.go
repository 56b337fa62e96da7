package theme

import (
	"testing"

	"kitchenops/models"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
	}{
		{key: "ledger", want: models.ThemeLedger},
		{key: "  NIGHT_SHIFT ", want: models.ThemeNightShift},
		{key: "nocturne", want: models.DefaultTheme},
		{key: "", want: models.DefaultTheme},
	}

	for _, tt := range tests {
		if got := Resolve(tt.key).Key; got != tt.want {
			t.Fatalf("Resolve(%q).Key = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestLookupRejectsUnknown(t *testing.T) {
	t.Parallel()

	if _, ok := Lookup("midnight"); ok {
		t.Fatal("Lookup(midnight) succeeded, want false")
	}
}

func TestOptionsCoverCatalogue(t *testing.T) {
	t.Parallel()

	for _, option := range Options() {
		if !models.ValidTheme(option.Value) {
			t.Fatalf("option %q is not a valid model theme", option.Value)
		}
		if _, ok := Lookup(option.Value); !ok {
			t.Fatalf("option %q has no catalogue entry", option.Value)
		}
	}
	if len(Options()) != len(catalogue) {
		t.Fatalf("Options() = %d entries, catalogue has %d", len(Options()), len(catalogue))
	}
}
