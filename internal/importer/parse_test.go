package importer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestParseLines(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"// poha for sixty",
		"Poha, 3, kg, ₹48",
		"",
		"# Tadka",
		"- Mustard seeds, 0.05, kg",
		"2 kg Onion, sliced thin",
		"200 g Curry leaves",
		"# Ungrouped",
		"1/2 kg Peanuts",
		"Salt, a pinch, g",
		"lemon",
	}, "\r\n")

	lines, warnings := ParseLines(text)

	want := []Line{
		{Name: "Poha", Quantity: decimal.NewFromInt(3), Unit: "kg", CostPerUnit: decimal.NewNullDecimal(decimal.NewFromInt(48))},
		{Group: "Tadka", Name: "Mustard seeds", Quantity: decimal.RequireFromString("0.05"), Unit: "kg"},
		{Group: "Tadka", Name: "Curry leaves", Quantity: decimal.NewFromInt(200), Unit: "g"},
		{Name: "Peanuts", Quantity: decimal.RequireFromString("0.5"), Unit: "kg"},
	}
	if diff := cmp.Diff(want, lines, decimalEqual); diff != "" {
		t.Fatalf("ParseLines() mismatch (-want +got):\n%s", diff)
	}

	if len(warnings) != 3 {
		t.Fatalf("ParseLines() warnings = %v, want 3", warnings)
	}
	if !strings.HasPrefix(warnings[0], "line 6:") {
		t.Fatalf("first warning = %q, want line 6", warnings[0])
	}
}

func TestParseQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    string
		wantErr bool
	}{
		{value: "2", want: "2"},
		{value: " 1.25 ", want: "1.25"},
		{value: "3/4", want: "0.75"},
		{value: "1/0", wantErr: true},
		{value: "abc", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseQuantity(tt.value)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseQuantity(%q) error = nil, want error", tt.value)
			}
			continue
		}
		if err != nil || !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Fatalf("ParseQuantity(%q) = %s, %v; want %s", tt.value, got, err, tt.want)
		}
	}
}

func TestParseCost(t *testing.T) {
	t.Parallel()

	got, err := ParseCost(" $12.50 ")
	if err != nil || !got.Valid || !got.Decimal.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("ParseCost($12.50) = %v, %v", got, err)
	}
	got, err = ParseCost("")
	if err != nil || got.Valid {
		t.Fatalf("ParseCost(\"\") = %v, %v; want invalid, nil", got, err)
	}
	if _, err := ParseCost("free"); err == nil {
		t.Fatalf("ParseCost(free) error = nil, want error")
	}
}
