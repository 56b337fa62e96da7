package layout

import (
	"sort"

	"kitchenops/models"
)

// ThemeDefinition describes a visual theme that can be applied to the workspace layout.
type ThemeDefinition struct {
	ID          string
	Label       string
	Description string
}

var themeRegistry = map[string]ThemeDefinition{
	models.ThemeService: {
		ID:          models.ThemeService,
		Label:       "Service",
		Description: "Bright pass-side layout with lime highlights.",
	},
	models.ThemeLedger: {
		ID:          models.ThemeLedger,
		Label:       "Ledger",
		Description: "Warm paper tones for costing and stock counts.",
	},
	models.ThemeNightShift: {
		ID:          models.ThemeNightShift,
		Label:       "Night Shift",
		Description: "Low-glare dark workspace for late prep.",
	},
}

// ThemeByID returns a definition for the provided identifier, falling back to the default theme.
func ThemeByID(id string) ThemeDefinition {
	if def, ok := themeRegistry[id]; ok {
		return def
	}
	return themeRegistry[models.DefaultTheme]
}

// ThemeOptions exposes all theme definitions sorted by label for form rendering.
func ThemeOptions() []ThemeDefinition {
	options := make([]ThemeDefinition, 0, len(themeRegistry))
	for _, def := range themeRegistry {
		options = append(options, def)
	}
	sort.Slice(options, func(i, j int) bool {
		return options[i].Label < options[j].Label
	})
	return options
}
