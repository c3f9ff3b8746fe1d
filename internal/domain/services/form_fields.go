package services

import (
	"github.com/spf13/cast"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
)

const (
	DefaultSourceManual = "manual"
	DefaultSourceAPI    = "api"
)

// ContainerFields returns the form_* nodes that belong to a form_container:
// every descendant field that is not inside a nested form_container.
func ContainerFields(container content.ComponentNode) []content.ComponentNode {
	var fields []content.ComponentNode
	var collect func([]content.ComponentNode)
	collect = func(nodes []content.ComponentNode) {
		for _, node := range nodes {
			switch {
			case node.Type == content.ComponentFormContainer:
				continue
			case node.Type.IsFormField():
				fields = append(fields, node)
			case node.Type.IsContainer():
				collect(node.Children)
			}
		}
	}
	collect(container.Children)
	return fields
}

// UsesAPIDefault reports whether a field takes its default from its API.
func UsesAPIDefault(field content.ComponentNode) bool {
	return PropString(field.Props, "defaultValueSource") == DefaultSourceAPI && field.ApiID != ""
}

// FieldDefault is the initial value of a field. apiData is the decoded
// response of the field's API, used when defaultValueSource is "api".
func FieldDefault(field content.ComponentNode, apiData any) any {
	var raw any
	if PropStringDefault(field.Props, "defaultValueSource", DefaultSourceManual) == DefaultSourceAPI {
		if path := PropString(field.Props, "defaultValueJsonPath"); path != "" {
			raw, _ = ExtractJSONPath(apiData, path)
		}
	} else {
		raw = field.Props["defaultValue"]
	}
	return coerceFieldValue(field.Type, raw)
}

func coerceFieldValue(kind content.ComponentType, raw any) any {
	switch kind {
	case content.ComponentFormCheckbox:
		return cast.ToBool(raw)
	case content.ComponentFormMultiCheckbox:
		if raw == nil {
			return []string{}
		}
		if s, ok := raw.(string); ok {
			return PropList(map[string]any{"v": s}, "v")
		}
		return cast.ToStringSlice(raw)
	case content.ComponentFormFile:
		return ""
	default:
		if raw == nil {
			return ""
		}
		return FormatValue(raw)
	}
}

// NewContainerAggregator registers every field of container with its
// default. defaults maps field component ids to their API responses.
func NewContainerAggregator(container content.ComponentNode, defaults map[string]any) *FormAggregator {
	agg := NewFormAggregator()
	for _, field := range ContainerFields(container) {
		agg.Register(FieldName(field), FieldDefault(field, defaults[field.ID]))
	}
	return agg
}
