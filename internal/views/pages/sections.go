package pages

import (
	"strings"

	"kitchenops/internal/views/components"
)

const defaultWorkspaceSection = "menus"

var workspaceSections = []components.SidebarLink{
	{Label: "Today's menus", Path: "/app/menus", Section: "menus"},
	{Label: "Recipes", Path: "/app/recipes", Section: "recipes"},
	{Label: "Kitchens", Path: "/app/kitchens", Section: "kitchens"},
	{Label: "Reports", Path: "/app/reports", Section: "reports"},
	{Label: "Preferences", Path: "/app/preferences", Section: "preferences"},
}

// DefaultWorkspaceSection is shown when no section is requested.
func DefaultWorkspaceSection() string {
	return defaultWorkspaceSection
}

// ValidWorkspaceSection reports whether section has a panel.
func ValidWorkspaceSection(section string) bool {
	for _, link := range workspaceSections {
		if link.Section == section {
			return true
		}
	}
	return false
}

// NormalizeWorkspaceSection lowercases section and falls back to the default.
func NormalizeWorkspaceSection(section string) string {
	normalized := strings.ToLower(strings.TrimSpace(section))
	if ValidWorkspaceSection(normalized) {
		return normalized
	}
	return defaultWorkspaceSection
}
