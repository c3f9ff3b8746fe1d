package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
)

func TestResolvePlaceholders(t *testing.T) {
	tests := []struct {
		name     string
		template string
		params   *rendering.ParameterMap
		want     string
	}{
		{"colon and percent tokens", "/users/:id?ref=%id%", rendering.NewParameterMap("id", "7"), "/users/7?ref=7"},
		{"prefix key leaves longer token", "/a/:id/:idx", rendering.NewParameterMap("id", "7"), "/a/7/:idx"},
		{"both prefix keys", "/a/:id/:idx", rendering.NewParameterMap("id", "7", "idx", "9"), "/a/7/9"},
		{"unknown token passes through", "/orders/:orderId", rendering.NewParameterMap("id", "1"), "/orders/:orderId"},
		{"empty template", "", rendering.NewParameterMap("id", "1"), ""},
		{"nil params", "/x/:id", nil, "/x/:id"},
		{"every occurrence", ":id-:id-%id%%id%", rendering.NewParameterMap("id", "z"), "z-z-zz"},
		{"replacement is literal", "/x/:id", rendering.NewParameterMap("id", "$1"), "/x/$1"},
		{"key with regexp metacharacters", "/x/:a.b", rendering.NewParameterMap("a.b", "v"), "/x/v"},
		{"token at end of body", `{"user": ":user"}`, rendering.NewParameterMap("user", "ann"), `{"user": "ann"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePlaceholders(tt.template, tt.params))
		})
	}
}

func TestResolvePlaceholdersInsertionOrder(t *testing.T) {
	// The first key's value introduces a token the second key resolves.
	params := rendering.NewParameterMap("a", "%b%", "b", "done")
	assert.Equal(t, "done", ResolvePlaceholders(":a", params))

	reversed := rendering.NewParameterMap("b", "done", "a", "%b%")
	assert.Equal(t, "%b%", ResolvePlaceholders(":a", reversed))
}
