package services

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is a JSON object that keeps its key order.
type Record = orderedmap.OrderedMap[string, any]

// Field is one key/value pair of a Record.
type Field struct {
	Key   string
	Value any
}

// DecodeJSON decodes raw into generic values; numbers stay json.Number.
func DecodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExtractJSONPath walks a dot-separated path through decoded JSON. Numeric
// segments index arrays. An empty path returns data itself.
func ExtractJSONPath(data any, path string) (any, bool) {
	if path == "" {
		return data, data != nil
	}
	current := data
	for _, key := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[key]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		case *Record:
			next, ok := node.Get(key)
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, current != nil
}

// ExtractToken returns the string at tokenPath, if any.
func ExtractToken(data any, tokenPath string) (string, bool) {
	value, ok := ExtractJSONPath(data, tokenPath)
	if !ok {
		return "", false
	}
	token, isString := value.(string)
	if !isString || token == "" {
		return "", false
	}
	return token, true
}

// CoerceRecords turns a response body into table rows: a top-level array,
// or the array under "data", else nothing. Non-object elements become
// empty rows.
func CoerceRecords(raw []byte) []*Record {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '[':
		return decodeRecordArray(trimmed)
	case '{':
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil
		}
		data := bytes.TrimSpace(envelope.Data)
		if len(data) > 0 && data[0] == '[' {
			return decodeRecordArray(data)
		}
	}
	return nil
}

func decodeRecordArray(raw []byte) []*Record {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil
	}
	records := make([]*Record, 0, len(elements))
	for _, el := range elements {
		records = append(records, decodeRecord(el))
	}
	return records
}

func decodeRecord(raw []byte) *Record {
	record := orderedmap.New[string, any]()
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return record
	}
	if err := json.Unmarshal(trimmed, record); err != nil {
		return orderedmap.New[string, any]()
	}
	return record
}

// DecodeRecord decodes a JSON object keeping key order; ok is false when
// raw is not an object.
func DecodeRecord(raw []byte) (*Record, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	record := orderedmap.New[string, any]()
	if err := json.Unmarshal(trimmed, record); err != nil {
		return nil, false
	}
	return record, true
}

// RecordFields lists a record's fields in document order.
func RecordFields(record *Record) []Field {
	if record == nil {
		return nil
	}
	fields := make([]Field, 0, record.Len())
	for pair := record.Oldest(); pair != nil; pair = pair.Next() {
		fields = append(fields, Field{Key: pair.Key, Value: pair.Value})
	}
	return fields
}

// RecordKeys lists a record's keys in document order.
func RecordKeys(record *Record) []string {
	fields := RecordFields(record)
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	return keys
}

// TemplateKeys returns the top-level keys of a JSON body template, or nil
// when the template is not a JSON object.
func TemplateKeys(body string) []string {
	record, ok := DecodeRecord([]byte(body))
	if !ok {
		return nil
	}
	return RecordKeys(record)
}

// FormatValue renders a JSON value for display: objects and arrays as
// JSON, null and missing values as empty, scalars as text.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case map[string]any, []any, *Record:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	default:
		return cast.ToString(v)
	}
}
