package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
)

func paramsOf(pairs ...string) *rendering.ParameterMap {
	return rendering.NewParameterMap(pairs...)
}

func node(id string, typ content.ComponentType, children ...content.ComponentNode) content.ComponentNode {
	return content.ComponentNode{ID: id, Type: typ, Props: map[string]any{}, Children: children}
}

func ids(nodes []content.ComponentNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestInsertComponentColumnInterleaving(t *testing.T) {
	tree := []content.ComponentNode{node("layout", content.ComponentLayout2Col)}
	columns := []int{0, 1, 0, 1, 0}
	names := []string{"A", "B", "C", "D", "E"}

	for i, col := range columns {
		var err error
		tree, err = InsertComponent(tree, "layout", node(names[i], content.ComponentText), col)
		require.NoError(t, err)

		children := tree[0].Children
		at := -1
		for idx, child := range children {
			if child.ID == names[i] {
				at = idx
			}
		}
		require.GreaterOrEqual(t, at, 0)
		assert.Equal(t, col, at%2, "item %s landed in the wrong column", names[i])
	}

	children := tree[0].Children
	assert.Equal(t, []string{"E", "C", "A", "B", "D"}, ids(children))
	for i := range children {
		assert.Contains(t, ids(ColumnChildren(tree[0], i%2)), children[i].ID)
	}
}

func TestInsertComponentThreeColumns(t *testing.T) {
	layout := node("l", content.ComponentLayout3Col,
		node("a", content.ComponentText), node("b", content.ComponentText), node("c", content.ComponentText))
	tree, err := InsertComponent([]content.ComponentNode{layout}, "l", node("x", content.ComponentText), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "x", "c"}, ids(tree[0].Children))
}

func TestInsertComponentRootAndContainer(t *testing.T) {
	tree := []content.ComponentNode{node("box", content.ComponentContainer, node("inner", content.ComponentText))}

	out, err := InsertComponent(tree, "", node("root2", content.ComponentText), -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"box", "root2"}, ids(out))

	out, err = InsertComponent(out, "box", node("inner2", content.ComponentButton), -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"inner", "inner2"}, ids(out[0].Children))

	// The caller's tree is untouched.
	assert.Len(t, tree, 1)
	assert.Len(t, tree[0].Children, 1)
}

func TestInsertComponentErrors(t *testing.T) {
	tree := []content.ComponentNode{
		node("txt", content.ComponentText),
		node("layout", content.ComponentLayout2Col),
	}

	_, err := InsertComponent(tree, "missing", node("x", content.ComponentText), -1)
	assert.ErrorIs(t, err, ErrComponentNotFound)

	_, err = InsertComponent(tree, "txt", node("x", content.ComponentText), -1)
	assert.ErrorIs(t, err, ErrNotContainer)

	_, err = InsertComponent(tree, "layout", node("x", content.ComponentText), 2)
	assert.ErrorIs(t, err, ErrInvalidColumn)
}

func TestDeleteComponentCascades(t *testing.T) {
	tree := []content.ComponentNode{
		node("keep", content.ComponentText),
		node("box", content.ComponentContainer,
			node("child1", content.ComponentText),
			node("child2", content.ComponentContainer, node("grandchild", content.ComponentText))),
	}

	out, err := DeleteComponent(tree, "box")
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, ids(out))
	for _, id := range []string{"box", "child1", "child2", "grandchild"} {
		_, found := FindComponent(out, id)
		assert.False(t, found, id)
	}
	assert.Equal(t, 1, CountComponents(out))
	assert.Equal(t, 5, CountComponents(tree))

	_, err = DeleteComponent(out, "box")
	assert.ErrorIs(t, err, ErrComponentNotFound)
}

func TestDeleteNestedComponent(t *testing.T) {
	tree := []content.ComponentNode{
		node("box", content.ComponentContainer, node("a", content.ComponentText), node("b", content.ComponentText)),
	}
	out, err := DeleteComponent(tree, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(out[0].Children))
}

func TestUpdateComponent(t *testing.T) {
	tree := []content.ComponentNode{
		node("box", content.ComponentContainer, node("t", content.ComponentText)),
	}
	tree[0].Children[0].Props["content"] = "old"

	label := "Greeting"
	out, err := UpdateComponent(tree, "t", ComponentPatch{
		Label: &label,
		Props: map[string]any{"content": "hello"},
	})
	require.NoError(t, err)

	updated, ok := FindComponent(out, "t")
	require.True(t, ok)
	assert.Equal(t, "Greeting", updated.Label)
	assert.Equal(t, "hello", updated.Props["content"])
	assert.Equal(t, "old", tree[0].Children[0].Props["content"])

	_, err = UpdateComponent(tree, "nope", ComponentPatch{Label: &label})
	assert.ErrorIs(t, err, ErrComponentNotFound)
}

func TestMoveComponent(t *testing.T) {
	tree := []content.ComponentNode{
		node("a", content.ComponentText),
		node("box", content.ComponentContainer, node("inner", content.ComponentContainer)),
	}

	out, err := MoveComponent(tree, "a", "inner", -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"box"}, ids(out))
	moved, ok := FindComponent(out, "a")
	require.True(t, ok)
	assert.Equal(t, content.ComponentText, moved.Type)
	assert.Equal(t, []string{"a"}, ids(out[0].Children[0].Children))

	_, err = MoveComponent(out, "box", "inner", -1)
	assert.ErrorIs(t, err, ErrInvalidMove)
}

func TestWalkComponentsStops(t *testing.T) {
	tree := []content.ComponentNode{
		node("a", content.ComponentContainer, node("b", content.ComponentText)),
		node("c", content.ComponentText),
	}
	var seen []string
	WalkComponents(tree, func(n *content.ComponentNode, _ *content.ComponentNode) bool {
		seen = append(seen, n.ID)
		return n.ID != "b"
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}
