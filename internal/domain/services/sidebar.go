package services

import (
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
)

// NavEntry is a resolved sidebar item ready for display.
type NavEntry struct {
	ID       string
	Label    string
	Section  bool
	Href     string
	Active   bool
	Children []NavEntry
}

// FilterSidebar keeps the items whose id is in the user's scopes; children
// of a kept section are filtered the same way. A nil user sees everything.
// The input is not modified.
func FilterSidebar(items []content.SidebarItem, user *content.User) []content.SidebarItem {
	if user == nil {
		return items
	}
	out := make([]content.SidebarItem, 0, len(items))
	for _, item := range items {
		if !user.HasScope(item.ID) {
			continue
		}
		if item.Children != nil {
			children := make([]content.SidebarItem, 0, len(item.Children))
			for _, child := range item.Children {
				if user.HasScope(child.ID) {
					children = append(children, child)
				}
			}
			item.Children = children
		}
		out = append(out, item)
	}
	return out
}

// LinkHref is "/" + the linked page's slug, or "#" when the page is gone.
func LinkHref(pages []content.PageDefinition, pageID string) string {
	for i := range pages {
		if pages[i].ID == pageID {
			return "/" + NormalizePath(pages[i].Slug)
		}
	}
	return "#"
}

// ResolveSidebar filters the sidebar for user and resolves every link
// against pages, marking the entry matching currentPath as active.
func ResolveSidebar(items []content.SidebarItem, pages []content.PageDefinition, user *content.User, currentPath string) []NavEntry {
	current := "/" + NormalizePath(currentPath)
	var resolve func([]content.SidebarItem) []NavEntry
	resolve = func(list []content.SidebarItem) []NavEntry {
		entries := make([]NavEntry, 0, len(list))
		for _, item := range list {
			entry := NavEntry{
				ID:      item.ID,
				Label:   item.Label,
				Section: item.Type == content.SidebarSection,
			}
			if entry.Section {
				entry.Children = resolve(item.Children)
			} else {
				entry.Href = LinkHref(pages, item.PageID)
				entry.Active = entry.Href == current
			}
			entries = append(entries, entry)
		}
		return entries
	}
	return resolve(FilterSidebar(items, user))
}
