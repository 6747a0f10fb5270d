package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() ParameterSchema {
	return NewParameterSchema(
		Field{Name: "url", Type: TypeString, Required: true},
		Field{Name: "method", Type: TypeString, Default: "GET"},
		Field{Name: "headers", Type: TypeStringMap, Default: map[string]string{}},
		Field{Name: "body", Type: TypeObject, Default: map[string]any{}},
		Field{Name: "retries", Type: TypeInteger},
		Field{Name: "verbose", Type: TypeBoolean},
		Field{Name: "ratio", Type: TypeNumber},
	)
}

func TestConstruct_DefaultsFilled(t *testing.T) {
	v, err := testSchema().Construct(map[string]string{"url": "https://example.com"})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", v["url"])
	assert.Equal(t, "GET", v["method"])
	assert.Equal(t, map[string]string{}, v["headers"])
	assert.Equal(t, map[string]any{}, v["body"])
	assert.NotContains(t, v, "retries")
}

func TestConstruct_TypedValues(t *testing.T) {
	v, err := testSchema().Construct(map[string]string{
		"url":     "https://example.com",
		"headers": `{"Accept":"application/json"}`,
		"body":    `{"n":1}`,
		"retries": "3",
		"verbose": "true",
		"ratio":   "0.5",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"Accept": "application/json"}, v["headers"])
	assert.Equal(t, map[string]any{"n": float64(1)}, v["body"])
	assert.Equal(t, int64(3), v["retries"])
	assert.Equal(t, true, v["verbose"])
	assert.Equal(t, 0.5, v["ratio"])
}

func TestConstruct_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		raw    map[string]string
		fields []string
	}{
		{"unknown field", map[string]string{"url": "https://x.com", "colour": "red"}, []string{"colour"}},
		{"missing required", map[string]string{"method": "POST"}, []string{"url"}},
		{"no params at all", map[string]string{}, []string{"url"}},
		{"bad integer", map[string]string{"url": "u", "retries": "three"}, []string{"retries"}},
		{"bad boolean", map[string]string{"url": "u", "verbose": "maybe"}, []string{"verbose"}},
		{"bad object", map[string]string{"url": "u", "body": "[1,2]"}, []string{"body"}},
		{"bad string map", map[string]string{"url": "u", "headers": `{"a":1}`}, []string{"headers"}},
		{"several at once", map[string]string{"zzz": "1", "aaa": "2"}, []string{"aaa", "zzz", "url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := testSchema().Construct(tt.raw)
			require.Error(t, err)
			assert.Nil(t, v)

			var sve *SchemaValidationError
			require.True(t, errors.As(err, &sve))
			assert.Equal(t, tt.fields, sve.Fields())
		})
	}
}

func TestConstruct_DefaultsAreIsolated(t *testing.T) {
	s := testSchema()
	v1, err := s.Construct(map[string]string{"url": "u"})
	require.NoError(t, err)
	v1["headers"].(map[string]string)["X-Mutated"] = "yes"

	v2, err := s.Construct(map[string]string{"url": "u"})
	require.NoError(t, err)
	assert.Empty(t, v2["headers"])
}

func TestDecode_IntoStruct(t *testing.T) {
	type params struct {
		URL     string            `mapstructure:"url"`
		Method  string            `mapstructure:"method"`
		Headers map[string]string `mapstructure:"headers"`
		Body    map[string]any    `mapstructure:"body"`
		Retries int64             `mapstructure:"retries"`
		Verbose bool              `mapstructure:"verbose"`
		Ratio   float64           `mapstructure:"ratio"`
	}

	s := testSchema()
	v, err := s.Construct(map[string]string{"url": "https://x.com", "method": "POST", "retries": "2"})
	require.NoError(t, err)

	var p params
	require.NoError(t, s.Decode(v, &p))
	assert.Equal(t, "https://x.com", p.URL)
	assert.Equal(t, "POST", p.Method)
	assert.Equal(t, int64(2), p.Retries)
}

func TestDecode_UnusedValueFails(t *testing.T) {
	type narrow struct {
		URL string `mapstructure:"url"`
	}
	var p narrow
	err := testSchema().Decode(Values{"url": "u", "method": "GET"}, &p)
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	d := testSchema().Describe()

	assert.Equal(t, "object", d["type"])
	assert.Equal(t, false, d["additionalProperties"])
	assert.Equal(t, []string{"url"}, d["required"])

	props := d["properties"].(map[string]any)
	require.Len(t, props, 7)

	method := props["method"].(map[string]any)
	assert.Equal(t, "string", method["type"])
	assert.Equal(t, "GET", method["default"])

	headers := props["headers"].(map[string]any)
	assert.Equal(t, "object", headers["type"])
	assert.NotContains(t, props["url"].(map[string]any), "default")
}

func TestNewParameterSchema_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewParameterSchema(Field{Name: "a", Type: TypeString}, Field{Name: "a", Type: TypeString})
	})
}
