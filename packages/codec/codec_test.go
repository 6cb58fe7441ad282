package codec

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestUnmarshal_Plain(t *testing.T) {
	var got record
	err := Unmarshal([]byte(`{"id":7,"name":"x"}`), &got)

	require.NoError(t, err)
	assert.Equal(t, record{ID: 7, Name: "x"}, got)
}

func TestUnmarshal_RequiredFieldPresent(t *testing.T) {
	var got record
	err := Unmarshal([]byte(`{"id":7,"name":"x"}`), &got, WithRequired("id", "name"))

	require.NoError(t, err)
	assert.Equal(t, 7, got.ID)
}

func TestUnmarshal_RequiredFieldMissing(t *testing.T) {
	var got record
	err := Unmarshal([]byte(`{}`), &got, WithRequired("id"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"id"`)
}

func TestUnmarshal_FieldConverter(t *testing.T) {
	var got record
	err := Unmarshal([]byte(`{"id":"42","name":"x"}`), &got,
		WithFieldConverter("id", func(value any) (any, error) {
			s, ok := value.(string)
			if !ok {
				return value, nil
			}
			n, err := strconv.Atoi(s)
			return n, err
		}))

	require.NoError(t, err)
	assert.Equal(t, record{ID: 42, Name: "x"}, got)
}

func TestUnmarshal_NestedFieldConverter(t *testing.T) {
	type wrapper struct {
		User record `json:"user"`
	}

	var got wrapper
	err := Unmarshal([]byte(`{"user":{"id":"7","name":"x"}}`), &got,
		WithFieldConverter("user.id", func(value any) (any, error) {
			n, err := strconv.Atoi(value.(string))
			return n, err
		}))

	require.NoError(t, err)
	assert.Equal(t, record{ID: 7, Name: "x"}, got.User)
}

func TestUnmarshal_ConverterFault(t *testing.T) {
	var got record
	err := Unmarshal([]byte(`{"id":"not-a-number"}`), &got,
		WithFieldConverter("id", func(value any) (any, error) {
			n, err := strconv.Atoi(value.(string))
			return n, err
		}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"id"`)
}

func TestUnmarshal_ConverterPathAbsent(t *testing.T) {
	var got record
	err := Unmarshal([]byte(`{"id":7}`), &got,
		WithFieldConverter("missing.path", func(value any) (any, error) {
			t.Fatal("converter must not run for absent paths")
			return nil, nil
		}))

	require.NoError(t, err)
	assert.Equal(t, 7, got.ID)
}

func TestUnmarshal_Schema(t *testing.T) {
	schema := `{
		"type": "object",
		"required": ["id"],
		"properties": {
			"id": {"type": "integer"},
			"name": {"type": "string"}
		}
	}`

	var got record
	require.NoError(t, Unmarshal([]byte(`{"id":7,"name":"x"}`), &got, WithSchema(schema)))

	err := Unmarshal([]byte(`{"name":"x"}`), &got, WithSchema(schema))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation")
}

func TestExtract(t *testing.T) {
	data := []byte(`{"user":{"id":7,"name":"x"},"tags":["a","b"]}`)

	value, ok := Extract(data, "user.name")
	require.True(t, ok)
	assert.Equal(t, "x", value)

	value, ok = Extract(data, "tags.1")
	require.True(t, ok)
	assert.Equal(t, "b", value)

	_, ok = Extract(data, "user.missing")
	assert.False(t, ok)

	whole, ok := Extract(data, "")
	require.True(t, ok)
	assert.Contains(t, whole.(map[string]any), "user")
}
