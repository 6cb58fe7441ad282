// Package codec decodes JSON response bodies into typed values.
//
// Decoding is pluggable per call:
//   - WithFieldConverter rewrites individual fields before the final decode
//   - WithRequired fails when a path is absent from the document
//   - WithSchema validates the document against a JSON schema first
//
// The target may be any shape encoding/json can populate; no constructor or
// structural constraint is placed on it.
package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// ConverterFunc transforms one decoded field value before the document is
// decoded into the target type.
type ConverterFunc func(value any) (any, error)

type converter struct {
	path string
	fn   ConverterFunc
}

type options struct {
	converters []converter
	required   []string
	schema     string
}

type Option func(*options)

// WithFieldConverter applies fn to the value at a dot-separated path before
// the final decode. Converters run in the order they were given.
func WithFieldConverter(path string, fn ConverterFunc) Option {
	return func(o *options) {
		o.converters = append(o.converters, converter{path: path, fn: fn})
	}
}

// WithRequired fails the decode when any of the given paths is absent.
func WithRequired(paths ...string) Option {
	return func(o *options) {
		o.required = append(o.required, paths...)
	}
}

// WithSchema validates the document against a JSON schema before decoding.
func WithSchema(schemaJSON string) Option {
	return func(o *options) {
		o.schema = schemaJSON
	}
}

// Unmarshal decodes data into v, applying the given options first. Any
// validation or conversion fault is returned as an error; v is never left
// holding a silently defaulted value on failure.
func Unmarshal(data []byte, v any, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.schema != "" {
		if err := validateSchema(data, o.schema); err != nil {
			return err
		}
	}

	for _, path := range o.required {
		if !gjson.GetBytes(data, path).Exists() {
			return fmt.Errorf("missing required field %q", path)
		}
	}

	if len(o.converters) == 0 {
		return json.Unmarshal(data, v)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	for _, c := range o.converters {
		converted, err := convertAt(doc, strings.Split(c.path, "."), c.fn)
		if err != nil {
			return fmt.Errorf("converting field %q: %w", c.path, err)
		}
		doc = converted
	}
	rewritten, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(rewritten, v)
}

func validateSchema(data []byte, schemaJSON string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("schema validation: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// convertAt walks a decoded document along path and replaces the addressed
// value with fn's result. Paths that do not resolve leave the document
// untouched; only converter faults are errors.
func convertAt(doc any, path []string, fn ConverterFunc) (any, error) {
	if len(path) == 0 || path[0] == "" {
		return fn(doc)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return doc, nil
	}
	child, ok := obj[path[0]]
	if !ok {
		return doc, nil
	}
	converted, err := convertAt(child, path[1:], fn)
	if err != nil {
		return nil, err
	}
	obj[path[0]] = converted
	return obj, nil
}

// Extract returns the value at a gjson path in data, reporting whether it
// exists. An empty path returns the whole document.
func Extract(data []byte, path string) (any, bool) {
	if path == "" {
		parsed := gjson.ParseBytes(data)
		if !parsed.Exists() {
			return nil, false
		}
		return parsed.Value(), true
	}
	result := gjson.GetBytes(data, path)
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}
