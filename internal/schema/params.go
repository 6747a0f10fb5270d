package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// FieldType is the declared type of a tool parameter.
type FieldType string

const (
	TypeString    FieldType = "string"
	TypeInteger   FieldType = "integer"
	TypeNumber    FieldType = "number"
	TypeBoolean   FieldType = "boolean"
	TypeObject    FieldType = "object"     // JSON object → map[string]any
	TypeStringMap FieldType = "string_map" // JSON object of strings → map[string]string
)

// Field declares one named parameter. A field is either Required or carries
// a Default; a non-required field without a Default is simply omitted from
// the constructed Values when absent.
type Field struct {
	Name        string
	Type        FieldType
	Required    bool
	Default     any
	Description string
}

// Values holds constructed, type-coerced parameter values keyed by field name.
type Values map[string]any

// ParameterSchema is a closed-world declaration of a tool's input fields.
// It is immutable once built with NewParameterSchema.
type ParameterSchema struct {
	fields []Field
	index  map[string]int
}

// NewParameterSchema builds a schema from the given fields. Panics on a
// duplicate or empty field name since schemas are declared statically.
func NewParameterSchema(fields ...Field) ParameterSchema {
	s := ParameterSchema{
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if f.Name == "" {
			panic("schema: field with empty name")
		}
		if _, dup := s.index[f.Name]; dup {
			panic("schema: duplicate field " + f.Name)
		}
		s.fields[i] = f
		s.index[f.Name] = i
	}
	return s
}

// Fields returns a copy of the declared fields in declaration order.
func (s ParameterSchema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Construct validates raw key/value strings against the schema and returns
// the coerced Values. Every undeclared key, missing required field and type
// mismatch is reported in a single *SchemaValidationError.
func (s ParameterSchema) Construct(raw map[string]string) (Values, error) {
	var issues []FieldIssue

	unknown := make([]string, 0)
	for key := range raw {
		if _, ok := s.index[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		issues = append(issues, FieldIssue{Field: key, Reason: "unknown field"})
	}

	values := make(Values, len(s.fields))
	for _, f := range s.fields {
		rv, present := raw[f.Name]
		if !present {
			if f.Required {
				issues = append(issues, FieldIssue{Field: f.Name, Reason: "missing required field"})
				continue
			}
			if f.Default != nil {
				values[f.Name] = cloneDefault(f.Default)
			}
			continue
		}
		v, err := coerce(f.Type, rv)
		if err != nil {
			issues = append(issues, FieldIssue{Field: f.Name, Reason: err.Error()})
			continue
		}
		values[f.Name] = v
	}

	if len(issues) > 0 {
		return nil, &SchemaValidationError{Issues: issues}
	}
	return values, nil
}

// Decode maps constructed values onto a typed params struct. Struct fields
// are matched through `mapstructure` tags; values with no matching struct
// field are an error.
func (s ParameterSchema) Decode(values Values, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "mapstructure",
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(values)); err != nil {
		return fmt.Errorf("decode params: %w", err)
	}
	return nil
}

// Describe returns a JSON-schema-like description suitable for help output.
func (s ParameterSchema) Describe() map[string]any {
	props := make(map[string]any, len(s.fields))
	required := make([]string, 0)
	for _, f := range s.fields {
		p := map[string]any{"type": jsonType(f.Type)}
		if f.Type == TypeStringMap {
			p["additionalProperties"] = map[string]any{"type": "string"}
		}
		if f.Description != "" {
			p["description"] = f.Description
		}
		if f.Required {
			required = append(required, f.Name)
		} else if f.Default != nil {
			p["default"] = cloneDefault(f.Default)
		}
		props[f.Name] = p
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func jsonType(t FieldType) string {
	if t == TypeStringMap {
		return string(TypeObject)
	}
	return string(t)
}

func coerce(t FieldType, raw string) (any, error) {
	switch t {
	case TypeString:
		return raw, nil
	case TypeInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expected integer, got %q", raw)
		}
		return n, nil
	case TypeNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("expected number, got %q", raw)
		}
		return n, nil
	case TypeBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("expected boolean, got %q", raw)
		}
		return b, nil
	case TypeObject:
		var m map[string]any
		if err := json.Unmarshal([]byte(raw), &m); err != nil || m == nil {
			return nil, fmt.Errorf("expected JSON object, got %q", raw)
		}
		return m, nil
	case TypeStringMap:
		var m map[string]string
		if err := json.Unmarshal([]byte(raw), &m); err != nil || m == nil {
			return nil, fmt.Errorf("expected JSON object of strings, got %q", raw)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported field type %q", t)
	}
}

// cloneDefault copies map defaults so callers can't mutate the schema.
func cloneDefault(v any) any {
	switch m := v.(type) {
	case map[string]string:
		out := make(map[string]string, len(m))
		for k, x := range m {
			out[k] = x
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(m))
		for k, x := range m {
			out[k] = x
		}
		return out
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice {
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	}
	return v
}
