package theme

import (
	"strings"

	"kitchenops/models"
)

// Option represents a selectable theme exposed to the UI.
type Option struct {
	Value string
	Label string
}

// WorkspaceTheme contains resolved styling primitives for the application shell.
type WorkspaceTheme struct {
	Key               string
	BodyClass         string
	ShellClass        string
	PanelSurfaceClass string
	BorderClass       string
	AccentTextClass   string
	MutedTextClass    string
}

// DefaultKey defines the fallback theme when no user preference exists.
const DefaultKey = models.DefaultTheme

var catalogue = map[string]WorkspaceTheme{
	models.ThemeService: {
		Key:               models.ThemeService,
		BodyClass:         "min-h-screen bg-stone-50 text-stone-900",
		ShellClass:        "workspace-shell light",
		PanelSurfaceClass: "rounded-lg bg-white shadow-sm",
		BorderClass:       "border-stone-200",
		AccentTextClass:   "text-lime-700",
		MutedTextClass:    "text-stone-500",
	},
	models.ThemeLedger: {
		Key:               models.ThemeLedger,
		BodyClass:         "min-h-screen bg-amber-50 text-neutral-900",
		ShellClass:        "workspace-shell paper",
		PanelSurfaceClass: "rounded bg-amber-50 ring-1 ring-amber-200",
		BorderClass:       "border-amber-300",
		AccentTextClass:   "text-amber-800",
		MutedTextClass:    "text-neutral-500",
	},
	models.ThemeNightShift: {
		Key:               models.ThemeNightShift,
		BodyClass:         "min-h-screen bg-zinc-950 text-zinc-100",
		ShellClass:        "workspace-shell dark",
		PanelSurfaceClass: "rounded-lg bg-zinc-900",
		BorderClass:       "border-zinc-800",
		AccentTextClass:   "text-orange-400",
		MutedTextClass:    "text-zinc-400",
	},
}

var options = []Option{
	{Value: models.ThemeService, Label: "Service (Light)"},
	{Value: models.ThemeLedger, Label: "Ledger (Paper)"},
	{Value: models.ThemeNightShift, Label: "Night Shift (Dark)"},
}

// Lookup returns the theme registered under key.
func Lookup(key string) (WorkspaceTheme, bool) {
	value, ok := catalogue[strings.ToLower(strings.TrimSpace(key))]
	return value, ok
}

// Resolve returns the registered theme configuration for the provided key, falling back to
// the default theme.
func Resolve(key string) WorkspaceTheme {
	if value, ok := Lookup(key); ok {
		return value
	}
	return catalogue[DefaultKey]
}

// Options exposes the available theme selections for rendering in a form control.
func Options() []Option {
	return options
}
