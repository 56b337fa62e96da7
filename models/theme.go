package models

import "strings"

const (
	ThemeService    = "service"
	ThemeLedger     = "ledger"
	ThemeNightShift = "night_shift"

	DefaultTheme = ThemeService
)

// ValidTheme reports whether value names a supported workspace theme.
func ValidTheme(value string) bool {
	switch value {
	case ThemeService, ThemeLedger, ThemeNightShift:
		return true
	default:
		return false
	}
}

// NormalizeTheme returns value when it is a supported theme and DefaultTheme otherwise.
func NormalizeTheme(value string) string {
	trimmed := strings.TrimSpace(value)
	if ValidTheme(trimmed) {
		return trimmed
	}
	return DefaultTheme
}
