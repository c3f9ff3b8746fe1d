package services

import (
	"strings"

	"github.com/spf13/cast"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FileUpload is a file value held by a form field.
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// FormEntry is one named form value.
type FormEntry struct {
	Name  string
	Value any
}

// FormAggregator collects the field values of one form_container subtree.
// Values are string, bool, []string or *FileUpload. It is not safe for
// concurrent use; each render and each submission owns its aggregator.
type FormAggregator struct {
	values *orderedmap.OrderedMap[string, any]
}

// NewFormAggregator returns an empty aggregator.
func NewFormAggregator() *FormAggregator {
	return &FormAggregator{values: orderedmap.New[string, any]()}
}

// Register adds a field with its initial value. A field that is already
// registered keeps its current value.
func (f *FormAggregator) Register(name string, initial any) {
	if name == "" {
		return
	}
	if _, exists := f.values.Get(name); exists {
		return
	}
	if initial == nil {
		initial = ""
	}
	f.values.Set(name, initial)
}

// SetValue stores value for name, registering the field if needed.
func (f *FormAggregator) SetValue(name string, value any) {
	if name == "" {
		return
	}
	f.values.Set(name, value)
}

// Value returns the current value of a field.
func (f *FormAggregator) Value(name string) (any, bool) {
	return f.values.Get(name)
}

// Values returns a copy of all values keyed by field name.
func (f *FormAggregator) Values() map[string]any {
	out := make(map[string]any, f.values.Len())
	for pair := f.values.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

// Entries returns the values in registration order.
func (f *FormAggregator) Entries() []FormEntry {
	out := make([]FormEntry, 0, f.values.Len())
	for pair := f.values.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, FormEntry{Name: pair.Key, Value: pair.Value})
	}
	return out
}

// HasFile reports whether any field holds file data.
func (f *FormAggregator) HasFile() bool {
	for pair := f.values.Oldest(); pair != nil; pair = pair.Next() {
		if file, ok := pair.Value.(*FileUpload); ok && file != nil {
			return true
		}
	}
	return false
}

// MarshalJSON encodes the values as an object in registration order. File
// values are encoded by name only.
func (f *FormAggregator) MarshalJSON() ([]byte, error) {
	encoded := orderedmap.New[string, any]()
	for pair := f.values.Oldest(); pair != nil; pair = pair.Next() {
		value := pair.Value
		if file, ok := value.(*FileUpload); ok {
			value = file.Filename
		}
		encoded.Set(pair.Key, value)
	}
	return encoded.MarshalJSON()
}

// MultipartText is the text form of a non-file value in a multipart body.
func MultipartText(value any) string {
	switch v := value.(type) {
	case []string:
		return strings.Join(v, ",")
	case []any:
		return strings.Join(cast.ToStringSlice(v), ",")
	default:
		return FormatValue(v)
	}
}
