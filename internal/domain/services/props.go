package services

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
)

// PropString returns props[key] as text, or "" when absent.
func PropString(props map[string]any, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	return cast.ToString(v)
}

// PropStringDefault returns props[key] as text, falling back to def when empty.
func PropStringDefault(props map[string]any, key, def string) string {
	if s := PropString(props, key); s != "" {
		return s
	}
	return def
}

// PropBool returns props[key] as a boolean; "true" strings count.
func PropBool(props map[string]any, key string) bool {
	return cast.ToBool(props[key])
}

// PropList accepts either an array or a comma-separated string and returns
// the trimmed, non-empty entries.
func PropList(props map[string]any, key string) []string {
	var raw []string
	switch v := props[key].(type) {
	case nil:
		return nil
	case string:
		raw = strings.Split(v, ",")
	default:
		raw = cast.ToStringSlice(v)
	}
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

// PropStringMap returns an object prop such as navParams.
func PropStringMap(props map[string]any, key string) map[string]string {
	v, ok := props[key]
	if !ok || v == nil {
		return map[string]string{}
	}
	return cast.ToStringMapString(v)
}

// RowActions decodes the table's rowActions prop.
func RowActions(props map[string]any) []rendering.RowAction {
	raw, ok := props["rowActions"]
	if !ok || raw == nil {
		return nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var actions []rendering.RowAction
	if err := json.Unmarshal(encoded, &actions); err != nil {
		return nil
	}
	for i := range actions {
		if actions[i].Action == "" {
			actions[i].Action = rendering.ActionNavigate
		}
		if actions[i].Variant == "" {
			actions[i].Variant = "primary"
		}
	}
	return actions
}

// FindRowAction returns the row action with id.
func FindRowAction(props map[string]any, id string) (rendering.RowAction, bool) {
	for _, action := range RowActions(props) {
		if action.ID == id {
			return action, true
		}
	}
	return rendering.RowAction{}, false
}

// FieldName is the submission key of a form_* node: props.name, or
// "field_" plus the first four characters of its id.
func FieldName(node content.ComponentNode) string {
	if name := strings.TrimSpace(PropString(node.Props, "name")); name != "" {
		return name
	}
	id := node.ID
	if len(id) > 4 {
		id = id[:4]
	}
	return "field_" + id
}

// LegacyField describes one input of a plain form component.
type LegacyField struct {
	Name    string
	Type    string // text, checkbox, radio, select, file
	Options []string
}

// LegacyFormFields lists the inputs of a form component: customFields when
// set, otherwise the keys of the API body template.
func LegacyFormFields(node content.ComponentNode, api *content.ApiDefinition) []LegacyField {
	names := PropList(node.Props, "customFields")
	if len(names) == 0 && api != nil {
		names = TemplateKeys(api.Body)
	}
	configs := map[string]any{}
	if raw, ok := node.Props["fields"]; ok {
		configs = cast.ToStringMap(raw)
	}
	fields := make([]LegacyField, 0, len(names))
	for _, name := range names {
		field := LegacyField{Name: name, Type: "text"}
		if cfg, ok := configs[name]; ok {
			m := cast.ToStringMap(cfg)
			if t := PropString(m, "type"); t != "" {
				field.Type = t
			}
			field.Options = PropList(m, "options")
		}
		fields = append(fields, field)
	}
	return fields
}

// ResolveNavigation builds the link to targetPageID. Each navParams value is
// resolved against params first, then substituted into the target slug.
func ResolveNavigation(pages []content.PageDefinition, targetPageID string, navParams map[string]string, params *rendering.ParameterMap) (string, bool) {
	if targetPageID == "" {
		return "", false
	}
	var target *content.PageDefinition
	for i := range pages {
		if pages[i].ID == targetPageID {
			target = &pages[i]
			break
		}
	}
	if target == nil {
		return "", false
	}
	keys := make([]string, 0, len(navParams))
	for k := range navParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	resolved := &rendering.ParameterMap{}
	for _, k := range keys {
		resolved.Set(k, ResolvePlaceholders(navParams[k], params))
	}
	return PagePath(target, resolved), true
}

// RowParams merges a table row into the route params. Null values are
// skipped; objects are stored as JSON.
func RowParams(params *rendering.ParameterMap, row *Record) *rendering.ParameterMap {
	merged := params.Clone()
	for _, field := range RecordFields(row) {
		if field.Value == nil {
			continue
		}
		merged.Set(field.Key, FormatValue(field.Value))
	}
	return merged
}
