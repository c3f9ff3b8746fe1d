package services

import (
	"errors"
	"fmt"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
)

var (
	ErrComponentNotFound = errors.New("component not found")
	ErrNotContainer      = errors.New("component cannot hold children")
	ErrInvalidColumn     = errors.New("column index out of range")
	ErrInvalidMove       = errors.New("component cannot be moved into its own subtree")
)

// ComponentPatch is a partial update. Nil fields are left untouched; Props
// replaces the whole props map when set.
type ComponentPatch struct {
	Label *string        `json:"label,omitempty"`
	ApiID *string        `json:"apiId,omitempty"`
	Props map[string]any `json:"props,omitempty"`
}

func (p ComponentPatch) apply(node content.ComponentNode) content.ComponentNode {
	if p.Label != nil {
		node.Label = *p.Label
	}
	if p.ApiID != nil {
		node.ApiID = *p.ApiID
	}
	if p.Props != nil {
		node.Props = content.ComponentNode{Props: p.Props}.Clone().Props
	}
	return node
}

// FindComponent returns a copy of the node with the given id anywhere in the tree.
func FindComponent(tree []content.ComponentNode, id string) (content.ComponentNode, bool) {
	for _, node := range tree {
		if node.ID == id {
			return node.Clone(), true
		}
		if found, ok := FindComponent(node.Children, id); ok {
			return found, true
		}
	}
	return content.ComponentNode{}, false
}

// WalkComponents visits nodes depth-first, parents before children. The
// walk stops when fn returns false.
func WalkComponents(tree []content.ComponentNode, fn func(node *content.ComponentNode, parent *content.ComponentNode) bool) {
	walkComponents(tree, nil, fn)
}

func walkComponents(tree []content.ComponentNode, parent *content.ComponentNode, fn func(*content.ComponentNode, *content.ComponentNode) bool) bool {
	for i := range tree {
		if !fn(&tree[i], parent) {
			return false
		}
		if !walkComponents(tree[i].Children, &tree[i], fn) {
			return false
		}
	}
	return true
}

// UpdateComponent returns a new tree with patch applied to the node with id.
func UpdateComponent(tree []content.ComponentNode, id string, patch ComponentPatch) ([]content.ComponentNode, error) {
	out, ok := updateComponent(tree, id, patch)
	if !ok {
		return nil, fmt.Errorf("failed to update component %s: %w", id, ErrComponentNotFound)
	}
	return out, nil
}

func updateComponent(tree []content.ComponentNode, id string, patch ComponentPatch) ([]content.ComponentNode, bool) {
	out := content.CloneComponents(tree)
	for i := range out {
		if out[i].ID == id {
			out[i] = patch.apply(out[i])
			return out, true
		}
		if children, ok := updateComponent(out[i].Children, id, patch); ok {
			out[i].Children = children
			return out, true
		}
	}
	return out, false
}

// DeleteComponent returns a new tree without the node and its descendants.
func DeleteComponent(tree []content.ComponentNode, id string) ([]content.ComponentNode, error) {
	out, ok := deleteComponent(tree, id)
	if !ok {
		return nil, fmt.Errorf("failed to delete component %s: %w", id, ErrComponentNotFound)
	}
	return out, nil
}

func deleteComponent(tree []content.ComponentNode, id string) ([]content.ComponentNode, bool) {
	out := make([]content.ComponentNode, 0, len(tree))
	removed := false
	for _, node := range tree {
		if node.ID == id {
			removed = true
			continue
		}
		node = node.Clone()
		if !removed && node.Children != nil {
			if children, ok := deleteComponent(node.Children, id); ok {
				node.Children = children
				removed = true
			}
		}
		out = append(out, node)
	}
	return out, removed
}

// ColumnInsertIndex is the splice position that puts a new child in column
// of an N-column layout: right after the last child whose column is lower
// than the target, or 0 when there is none.
func ColumnInsertIndex(childCount, columns, column int) int {
	insertAt := 0
	for i := 0; i < childCount; i++ {
		if i%columns < column {
			insertAt = i + 1
		}
	}
	return insertAt
}

// InsertComponent returns a new tree with node added under parentID. An
// empty parentID appends to the top level. columnIndex only applies to
// layout parents; a negative value appends.
func InsertComponent(tree []content.ComponentNode, parentID string, node content.ComponentNode, columnIndex int) ([]content.ComponentNode, error) {
	node = node.Clone()
	if parentID == "" {
		out := content.CloneComponents(tree)
		return append(out, node), nil
	}
	out, err := insertComponent(tree, parentID, node, columnIndex)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", parentID, ErrComponentNotFound)
	}
	return out, nil
}

func insertComponent(tree []content.ComponentNode, parentID string, node content.ComponentNode, columnIndex int) ([]content.ComponentNode, error) {
	out := content.CloneComponents(tree)
	for i := range out {
		if out[i].ID == parentID {
			children, err := spliceChild(out[i], node, columnIndex)
			if err != nil {
				return nil, err
			}
			out[i].Children = children
			return out, nil
		}
		children, err := insertComponent(out[i].Children, parentID, node, columnIndex)
		if err != nil {
			return nil, err
		}
		if children != nil {
			out[i].Children = children
			return out, nil
		}
	}
	return nil, nil
}

func spliceChild(parent content.ComponentNode, node content.ComponentNode, columnIndex int) ([]content.ComponentNode, error) {
	if !parent.Type.IsContainer() {
		return nil, fmt.Errorf("failed to insert into %s (%s): %w", parent.ID, parent.Type, ErrNotContainer)
	}
	children := parent.Children
	columns := parent.Type.ColumnCount()
	if columns == 0 || columnIndex < 0 {
		return append(children, node), nil
	}
	if columnIndex >= columns {
		return nil, fmt.Errorf("failed to insert into %s column %d: %w", parent.ID, columnIndex, ErrInvalidColumn)
	}
	at := ColumnInsertIndex(len(children), columns, columnIndex)
	spliced := make([]content.ComponentNode, 0, len(children)+1)
	spliced = append(spliced, children[:at]...)
	spliced = append(spliced, node)
	spliced = append(spliced, children[at:]...)
	return spliced, nil
}

// MoveComponent detaches the node with id and re-inserts it under parentID.
func MoveComponent(tree []content.ComponentNode, id, parentID string, columnIndex int) ([]content.ComponentNode, error) {
	node, ok := FindComponent(tree, id)
	if !ok {
		return nil, fmt.Errorf("failed to move component %s: %w", id, ErrComponentNotFound)
	}
	if parentID == id {
		return nil, fmt.Errorf("failed to move component %s: %w", id, ErrInvalidMove)
	}
	if parentID != "" {
		if _, inside := FindComponent(node.Children, parentID); inside {
			return nil, fmt.Errorf("failed to move component %s: %w", id, ErrInvalidMove)
		}
	}
	detached, err := DeleteComponent(tree, id)
	if err != nil {
		return nil, err
	}
	return InsertComponent(detached, parentID, node, columnIndex)
}

// ColumnChildren returns the children of a layout node that render in column.
func ColumnChildren(node content.ComponentNode, column int) []content.ComponentNode {
	columns := node.Type.ColumnCount()
	if columns == 0 {
		return node.Children
	}
	var out []content.ComponentNode
	for i, child := range node.Children {
		if i%columns == column {
			out = append(out, child)
		}
	}
	return out
}

// CountComponents is the number of nodes in the tree.
func CountComponents(tree []content.ComponentNode) int {
	n := 0
	WalkComponents(tree, func(*content.ComponentNode, *content.ComponentNode) bool {
		n++
		return true
	})
	return n
}
