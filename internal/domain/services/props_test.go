package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
)

func TestPropList(t *testing.T) {
	props := map[string]any{
		"csv":   " id, name ,,email",
		"array": []any{"a", "b"},
	}
	assert.Equal(t, []string{"id", "name", "email"}, PropList(props, "csv"))
	assert.Equal(t, []string{"a", "b"}, PropList(props, "array"))
	assert.Nil(t, PropList(props, "missing"))
}

func TestRowActionsDefaults(t *testing.T) {
	props := map[string]any{
		"rowActions": []any{
			map[string]any{"id": "r1", "label": "View", "targetPageId": "p", "navParams": map[string]any{"id": "%id%"}},
			map[string]any{"id": "r2", "label": "Delete", "action": "api", "apiId": "del", "variant": "danger"},
		},
	}
	actions := RowActions(props)
	require.Len(t, actions, 2)
	assert.Equal(t, "navigate", actions[0].Action)
	assert.Equal(t, "primary", actions[0].Variant)
	assert.Equal(t, map[string]string{"id": "%id%"}, actions[0].NavParams)

	action, ok := FindRowAction(props, "r2")
	require.True(t, ok)
	assert.Equal(t, "del", action.ApiID)

	assert.Nil(t, RowActions(map[string]any{}))
}

func TestFieldName(t *testing.T) {
	assert.Equal(t, "email", FieldName(content.ComponentNode{ID: "abcdef", Props: map[string]any{"name": "email"}}))
	assert.Equal(t, "field_abcd", FieldName(content.ComponentNode{ID: "abcdef"}))
	assert.Equal(t, "field_ab", FieldName(content.ComponentNode{ID: "ab"}))
}

func TestLegacyFormFields(t *testing.T) {
	api := &content.ApiDefinition{Body: `{"title":"","attachment":""}`}
	form := content.ComponentNode{Props: map[string]any{
		"fields": map[string]any{
			"attachment": map[string]any{"type": "file"},
		},
	}}

	fields := LegacyFormFields(form, api)
	require.Len(t, fields, 2)
	assert.Equal(t, LegacyField{Name: "title", Type: "text"}, fields[0])
	assert.Equal(t, "file", fields[1].Type)

	form.Props["customFields"] = []any{"status"}
	form.Props["fields"] = map[string]any{"status": map[string]any{"type": "select", "options": "open,closed"}}
	fields = LegacyFormFields(form, api)
	require.Len(t, fields, 1)
	assert.Equal(t, []string{"open", "closed"}, fields[0].Options)
}

func TestResolveNavigation(t *testing.T) {
	pages := []content.PageDefinition{
		{ID: "detail", Slug: "users/:id/posts/:postId"},
	}
	params := paramsOf("uid", "9", "pid", "3")

	href, ok := ResolveNavigation(pages, "detail", map[string]string{"id": "%uid%", "postId": ":pid"}, params)
	require.True(t, ok)
	assert.Equal(t, "/users/9/posts/3", href)

	_, ok = ResolveNavigation(pages, "missing", nil, params)
	assert.False(t, ok)
	_, ok = ResolveNavigation(pages, "", nil, params)
	assert.False(t, ok)
}

func TestRowParams(t *testing.T) {
	rows := CoerceRecords([]byte(`[{"id":5,"name":"Ann","meta":{"a":1},"gone":null}]`))
	require.Len(t, rows, 1)

	merged := RowParams(paramsOf("org", "acme", "id", "route"), rows[0])
	assert.Equal(t, []string{"org", "id", "name", "meta"}, merged.Keys())
	id, _ := merged.Get("id")
	assert.Equal(t, "5", id)
	meta, _ := merged.Get("meta")
	assert.Equal(t, `{"a":1}`, meta)
}
