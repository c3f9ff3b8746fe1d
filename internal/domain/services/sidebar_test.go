package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
)

func sampleSidebar() []content.SidebarItem {
	return []content.SidebarItem{
		{ID: "s1", Label: "Sales", Type: content.SidebarSection, Children: []content.SidebarItem{
			{ID: "l1", Label: "Orders", Type: content.SidebarLink, PageID: "orders"},
			{ID: "l2", Label: "Refunds", Type: content.SidebarLink, PageID: "gone"},
		}},
		{ID: "s2", Label: "Admin", Type: content.SidebarSection, Children: []content.SidebarItem{
			{ID: "l3", Label: "Users", Type: content.SidebarLink, PageID: "users"},
		}},
	}
}

func TestFilterSidebarByScopes(t *testing.T) {
	items := sampleSidebar()
	user := &content.User{Scopes: []string{"s1", "l1"}}

	filtered := FilterSidebar(items, user)
	require.Len(t, filtered, 1)
	assert.Equal(t, "s1", filtered[0].ID)
	require.Len(t, filtered[0].Children, 1)
	assert.Equal(t, "l1", filtered[0].Children[0].ID)

	assert.Len(t, items[0].Children, 2, "input is left unchanged")
	assert.Len(t, FilterSidebar(items, nil), 2)
	assert.Empty(t, FilterSidebar(items, &content.User{}))
}

func TestResolveSidebarLinks(t *testing.T) {
	pages := []content.PageDefinition{
		{ID: "orders", Slug: "orders"},
		{ID: "users", Slug: "/admin/users"},
	}

	entries := ResolveSidebar(sampleSidebar(), pages, nil, "/orders")
	require.Len(t, entries, 2)
	require.Len(t, entries[0].Children, 2)

	orders := entries[0].Children[0]
	assert.Equal(t, "/orders", orders.Href)
	assert.True(t, orders.Active)

	assert.Equal(t, "#", entries[0].Children[1].Href)
	assert.Equal(t, "/admin/users", entries[1].Children[0].Href)
	assert.False(t, entries[1].Children[0].Active)
}
