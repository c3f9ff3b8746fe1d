package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
)

func TestFormAggregatorRegisterKeepsExisting(t *testing.T) {
	agg := NewFormAggregator()
	agg.Register("email", "a@example.com")
	agg.Register("email", "other@example.com")
	agg.Register("note", nil)

	values := agg.Values()
	assert.Equal(t, "a@example.com", values["email"])
	assert.Equal(t, "", values["note"])

	agg.SetValue("email", "b@example.com")
	v, ok := agg.Value("email")
	require.True(t, ok)
	assert.Equal(t, "b@example.com", v)

	values["email"] = "mutated"
	v, _ = agg.Value("email")
	assert.Equal(t, "b@example.com", v, "Values returns a copy")
}

func TestFormAggregatorHasFile(t *testing.T) {
	agg := NewFormAggregator()
	agg.Register("name", "x")
	assert.False(t, agg.HasFile())

	agg.SetValue("upload", &FileUpload{Filename: "a.txt"})
	assert.True(t, agg.HasFile())
	assert.Equal(t, []string{"name", "upload"}, entryNames(agg.Entries()))
}

func entryNames(entries []FormEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestMultipartText(t *testing.T) {
	assert.Equal(t, "a,b", MultipartText([]string{"a", "b"}))
	assert.Equal(t, "false", MultipartText(false))
	assert.Equal(t, "hi", MultipartText("hi"))
}

func TestNewContainerAggregator(t *testing.T) {
	container := content.ComponentNode{
		ID:   "fc",
		Type: content.ComponentFormContainer,
		Children: []content.ComponentNode{
			{ID: "abcdef", Type: content.ComponentFormText, Props: map[string]any{"defaultValue": "hello"}},
			{ID: "f2", Type: content.ComponentFormCheckbox, Props: map[string]any{"name": "agree", "defaultValue": "true"}},
			{ID: "layout", Type: content.ComponentLayout2Col, Children: []content.ComponentNode{
				{ID: "f3", Type: content.ComponentFormMultiCheckbox, Props: map[string]any{"name": "tags", "defaultValue": "a, b"}},
			}},
			{ID: "f4", Type: content.ComponentFormText, ApiID: "profile", Props: map[string]any{
				"name":                 "city",
				"defaultValueSource":   "api",
				"defaultValueJsonPath": "address.city",
			}},
			{ID: "nested", Type: content.ComponentFormContainer, Children: []content.ComponentNode{
				{ID: "f5", Type: content.ComponentFormText, Props: map[string]any{"name": "other"}},
			}},
		},
	}

	profile, err := DecodeJSON([]byte(`{"address":{"city":"Oslo"}}`))
	require.NoError(t, err)

	agg := NewContainerAggregator(container, map[string]any{"f4": profile})
	values := agg.Values()

	assert.Equal(t, "hello", values["field_abcd"])
	assert.Equal(t, true, values["agree"])
	assert.Equal(t, []string{"a", "b"}, values["tags"])
	assert.Equal(t, "Oslo", values["city"])
	_, nested := values["other"]
	assert.False(t, nested, "fields of a nested form_container belong to it")
}

func TestFormAggregatorMarshalsInRegistrationOrder(t *testing.T) {
	agg := NewFormAggregator()
	agg.Register("zip", "0150")
	agg.Register("agree", false)
	agg.Register("tags", []string{"a"})
	agg.SetValue("avatar", &FileUpload{Filename: "me.png", Data: []byte{1}})
	agg.SetValue("zip", "0151")

	data, err := agg.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"zip":"0151","agree":false,"tags":["a"],"avatar":"me.png"}`, string(data))
	assert.Equal(t, []string{"zip", "agree", "tags", "avatar"}, entryNames(agg.Entries()))
}
