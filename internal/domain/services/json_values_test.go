package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONPath(t *testing.T) {
	data, err := DecodeJSON([]byte(`{"data":{"token":"abc","items":[{"name":"first"}]},"count":3}`))
	require.NoError(t, err)

	token, ok := ExtractToken(data, "data.token")
	require.True(t, ok)
	assert.Equal(t, "abc", token)

	name, ok := ExtractJSONPath(data, "data.items.0.name")
	require.True(t, ok)
	assert.Equal(t, "first", name)

	count, ok := ExtractJSONPath(data, "count")
	require.True(t, ok)
	assert.Equal(t, json.Number("3"), count)

	_, ok = ExtractJSONPath(data, "data.missing.deeper")
	assert.False(t, ok)

	_, ok = ExtractToken(data, "count")
	assert.False(t, ok, "a non-string value is not a token")
}

func TestCoerceRecords(t *testing.T) {
	rows := CoerceRecords([]byte(`[{"id":1,"name":"a"},{"id":2,"name":"b"}]`))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"id", "name"}, RecordKeys(rows[0]))

	rows = CoerceRecords([]byte(`{"data":[{"z":1,"a":2}],"total":1}`))
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"z", "a"}, RecordKeys(rows[0]), "document order is kept")

	assert.Empty(t, CoerceRecords([]byte(`{"items":[{"id":1}]}`)))
	assert.Empty(t, CoerceRecords([]byte(`"text"`)))
	assert.Empty(t, CoerceRecords(nil))

	rows = CoerceRecords([]byte(`[1, {"id": 2}]`))
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Len())
}

func TestTemplateKeys(t *testing.T) {
	assert.Equal(t, []string{"title", "body", "userId"}, TemplateKeys(`{"title":"","body":"","userId":1}`))
	assert.Nil(t, TemplateKeys(`{"id": :id}`))
	assert.Nil(t, TemplateKeys(""))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "x", FormatValue("x"))
	assert.Equal(t, "42", FormatValue(float64(42)))
	assert.Equal(t, "3.5", FormatValue(json.Number("3.5")))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, `{"a":1}`, FormatValue(map[string]any{"a": 1}))
	assert.Equal(t, `[1,"b"]`, FormatValue([]any{1, "b"}))

	record, ok := DecodeRecord([]byte(`{"b":1,"a":2}`))
	require.True(t, ok)
	assert.Equal(t, `{"b":1,"a":2}`, FormatValue(record))
}
