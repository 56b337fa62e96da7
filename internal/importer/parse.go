// Package importer turns free-form ingredient text, PDF uploads and recipe spreadsheets into
// ingredient rows and persists them against a recipe.
package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Line is one parsed ingredient. An empty Group means ungrouped.
type Line struct {
	Group       string
	GroupOrder  *int
	Name        string
	Quantity    decimal.Decimal
	Unit        string
	CostPerUnit decimal.NullDecimal
}

var errMalformedQuantity = errors.New("quantity is not a number")

// ParseLines reads ingredient lines in any of these forms:
//
//	# Dough
//	Flour, 500, g, 0.05
//	2 kg Onion
//
// A heading starts a group that applies to the following lines until the next heading;
// "# Ungrouped" or a bare "#" returns to the ungrouped bucket. Blank lines and lines starting
// with "//" are skipped. Lines that cannot be parsed are reported as warnings.
func ParseLines(text string) ([]Line, []string) {
	var (
		lines    []Line
		warnings []string
		group    string
	)

	for idx, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			group = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			if strings.EqualFold(group, "ungrouped") {
				group = ""
			}
			continue
		}

		trimmed = strings.TrimSpace(strings.TrimLeft(trimmed, "-*•"))

		var (
			line Line
			err  error
		)
		if strings.Contains(trimmed, ",") {
			line, err = parseDelimited(trimmed)
		} else {
			line, err = parseNatural(trimmed)
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: %v", idx+1, err))
			continue
		}

		line.Group = group
		lines = append(lines, line)
	}

	return lines, warnings
}

func parseDelimited(value string) (Line, error) {
	fields := strings.Split(value, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) < 3 {
		return Line{}, fmt.Errorf("expected name, quantity, unit in %q", value)
	}
	if fields[0] == "" {
		return Line{}, fmt.Errorf("missing ingredient name in %q", value)
	}

	quantity, err := ParseQuantity(fields[1])
	if err != nil {
		return Line{}, fmt.Errorf("%q: %w", fields[1], err)
	}

	line := Line{Name: fields[0], Quantity: quantity, Unit: fields[2]}
	if len(fields) > 3 && fields[3] != "" {
		cost, err := ParseCost(fields[3])
		if err != nil {
			return Line{}, fmt.Errorf("cost %q: %w", fields[3], err)
		}
		line.CostPerUnit = cost
	}
	return line, nil
}

func parseNatural(value string) (Line, error) {
	fields := strings.Fields(value)
	if len(fields) < 3 {
		return Line{}, fmt.Errorf("expected quantity, unit and name in %q", value)
	}
	quantity, err := ParseQuantity(fields[0])
	if err != nil {
		return Line{}, fmt.Errorf("%q: %w", fields[0], err)
	}
	return Line{
		Name:     strings.Join(fields[2:], " "),
		Quantity: quantity,
		Unit:     fields[1],
	}, nil
}

// ParseQuantity accepts decimals ("1.5") and simple fractions ("1/2").
func ParseQuantity(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if num, den, ok := strings.Cut(value, "/"); ok {
		n, err := decimal.NewFromString(strings.TrimSpace(num))
		if err != nil {
			return decimal.Decimal{}, errMalformedQuantity
		}
		d, err := decimal.NewFromString(strings.TrimSpace(den))
		if err != nil || d.IsZero() {
			return decimal.Decimal{}, errMalformedQuantity
		}
		return n.DivRound(d, 4), nil
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, errMalformedQuantity
	}
	return parsed, nil
}

// ParseCost parses a cost per unit, ignoring a leading currency symbol. Blank means no cost.
func ParseCost(value string) (decimal.NullDecimal, error) {
	value = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(value), "₹$€£"))
	if value == "" {
		return decimal.NullDecimal{}, nil
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}, errMalformedQuantity
	}
	return decimal.NewNullDecimal(parsed), nil
}
