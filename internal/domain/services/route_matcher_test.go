package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
)

func TestMatchRouteDynamicSegment(t *testing.T) {
	pages := []content.PageDefinition{
		{ID: "list", Slug: "users"},
		{ID: "show", Slug: "users/:id"},
	}

	match, ok := MatchRoute(pages, "users/7")
	require.True(t, ok)
	assert.Equal(t, "show", match.Page.ID)
	id, _ := match.Params.Get("id")
	assert.Equal(t, "7", id)

	match, ok = MatchRoute(pages, "/users/")
	require.True(t, ok)
	assert.Equal(t, "list", match.Page.ID)
	assert.Equal(t, 0, match.Params.Len())
}

func TestMatchRouteStaticBeforeDynamic(t *testing.T) {
	pages := []content.PageDefinition{
		{ID: "dynamic", Slug: "users/:id"},
		{ID: "static", Slug: "users/new"},
	}
	match, ok := MatchRoute(pages, "users/new")
	require.True(t, ok)
	assert.Equal(t, "static", match.Page.ID)
}

func TestMatchRouteDynamicTieUsesListOrder(t *testing.T) {
	pages := []content.PageDefinition{
		{ID: "first", Slug: "items/:a"},
		{ID: "second", Slug: "items/:b"},
	}
	match, ok := MatchRoute(pages, "items/3")
	require.True(t, ok)
	assert.Equal(t, "first", match.Page.ID)
	assert.Equal(t, []string{"a"}, match.Params.Keys())
}

func TestMatchRouteMultipleCaptures(t *testing.T) {
	pages := []content.PageDefinition{{ID: "p", Slug: "orgs/:org/repos/:repo"}}
	match, ok := MatchRoute(pages, "orgs/acme/repos/site")
	require.True(t, ok)
	assert.Equal(t, []string{"org", "repo"}, match.Params.Keys())
	assert.Equal(t, map[string]string{"org": "acme", "repo": "site"}, match.Params.ToMap())
}

func TestMatchRouteNoMatch(t *testing.T) {
	pages := []content.PageDefinition{
		{ID: "a", Slug: "users/:id"},
		{ID: "b", Slug: "v1.0/docs"},
	}
	_, ok := MatchRoute(pages, "users/7/edit")
	assert.False(t, ok)

	// Literal parts of a slug are not patterns.
	_, ok = MatchRoute(pages, "v1x0/docs")
	assert.False(t, ok)

	_, ok = MatchRoute(nil, "anything")
	assert.False(t, ok)
}

func TestPagePath(t *testing.T) {
	page := &content.PageDefinition{Slug: "orders/:id"}
	params := paramsOf("id", "42")
	assert.Equal(t, "/orders/42", PagePath(page, params))
	assert.Equal(t, "#", PagePath(nil, params))
}
