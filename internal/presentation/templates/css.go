package templates

import (
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
)

// shellCSS hides button labels while their request is in flight so the
// sibling .htmx-indicator text shows alone.
const shellCSS = `.htmx-indicator{display:none}.htmx-request .htmx-indicator,.htmx-request.htmx-indicator{display:inline}` +
	`.htmx-request .admini-label,.htmx-request.admini-label{display:none}`

// ThemeClasses are the shell classes for one theme.
type ThemeClasses struct {
	Body          string
	Sidebar       string
	SidebarTitle  string
	SectionLabel  string
	Link          string
	ActiveLink    string
	Main          string
	EmptySections string
}

var themeClasses = map[content.Theme]ThemeClasses{
	content.ThemeLight: {
		Body:          "bg-gray-50 text-gray-900",
		Sidebar:       "w-64 shrink-0 bg-white border-r border-gray-200 min-h-screen p-4",
		SidebarTitle:  "text-lg font-semibold text-gray-900",
		SectionLabel:  "px-3 mt-4 mb-1 text-xs font-semibold uppercase tracking-wider text-gray-500",
		Link:          "block px-3 py-2 rounded-md text-sm text-gray-700 hover:bg-gray-100",
		ActiveLink:    "block px-3 py-2 rounded-md text-sm font-medium bg-blue-50 text-blue-700",
		Main:          "flex-1 p-8",
		EmptySections: "px-3 py-2 text-sm text-gray-400",
	},
	content.ThemeDark: {
		Body:          "dark bg-gray-900 text-gray-100",
		Sidebar:       "w-64 shrink-0 bg-gray-800 border-r border-gray-700 min-h-screen p-4",
		SidebarTitle:  "text-lg font-semibold text-white",
		SectionLabel:  "px-3 mt-4 mb-1 text-xs font-semibold uppercase tracking-wider text-gray-400",
		Link:          "block px-3 py-2 rounded-md text-sm text-gray-300 hover:bg-gray-700",
		ActiveLink:    "block px-3 py-2 rounded-md text-sm font-medium bg-gray-700 text-white",
		Main:          "flex-1 p-8",
		EmptySections: "px-3 py-2 text-sm text-gray-500",
	},
}

// GetThemeClasses returns the classes for theme, falling back to light.
func GetThemeClasses(theme content.Theme) ThemeClasses {
	if classes, ok := themeClasses[theme]; ok {
		return classes
	}
	return themeClasses[content.ThemeLight]
}
