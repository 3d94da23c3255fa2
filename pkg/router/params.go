package router

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// DefaultParamName is the parameter bound by the legacy generator shapes.
const DefaultParamName = "slug"

// ParamValue is a matched parameter: a single string for a dynamic
// segment, or an ordered sequence for a catch-all segment. A sequence of
// one element is still a sequence.
type ParamValue struct {
	values []string
	many   bool
}

// One returns a single-valued parameter.
func One(s string) ParamValue {
	return ParamValue{values: []string{s}}
}

// Many returns a sequence parameter.
func Many(ss ...string) ParamValue {
	return ParamValue{values: append([]string(nil), ss...), many: true}
}

// IsCatchAll reports whether the value is a sequence.
func (v ParamValue) IsCatchAll() bool { return v.many }

// String returns the single value, or the sequence joined with "/".
func (v ParamValue) String() string {
	return strings.Join(v.values, "/")
}

// Strings returns the sequence. A single value is returned as a
// one-element slice.
func (v ParamValue) Strings() []string {
	return append([]string(nil), v.values...)
}

// Len returns the number of values held.
func (v ParamValue) Len() int { return len(v.values) }

// MarshalJSON encodes a single value as a string and a sequence as an array.
func (v ParamValue) MarshalJSON() ([]byte, error) {
	if v.many {
		if v.values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.values)
	}
	return json.Marshal(v.String())
}

// UnmarshalJSON accepts a string or an array of strings.
func (v *ParamValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = One(s)
		return nil
	}
	var ss []string
	if err := json.Unmarshal(data, &ss); err != nil {
		return fmt.Errorf("param value must be a string or an array of strings")
	}
	*v = Many(ss...)
	return nil
}

// Params maps parameter names to their values.
type Params map[string]ParamValue

// Get returns the named parameter as a string, or "" if absent.
func (p Params) Get(name string) string {
	return p[name].String()
}

// Strings returns the named parameter as a sequence, or nil if absent.
func (p Params) Strings(name string) []string {
	v, ok := p[name]
	if !ok {
		return nil
	}
	return v.Strings()
}

// ExtractParams binds the parameters of pattern from pathname. The
// pathname is assumed to match the pattern. Catch-all segments bind every
// remaining path segment as a sequence; dynamic segments bind one.
// Percent-escapes in bound values are decoded.
func ExtractParams(pattern, pathname string) Params {
	segments, err := ParsePattern(pattern)
	if err != nil {
		return nil
	}
	return extractParams(segments, pathname)
}

func extractParams(segments []Segment, pathname string) Params {
	pathParts := splitPath(pathname)
	var params Params

	for i, seg := range segments {
		if seg.Kind == SegmentLiteral {
			continue
		}
		if params == nil {
			params = make(Params)
		}
		switch seg.Kind {
		case SegmentCatchAll:
			var rest []string
			if i < len(pathParts) {
				rest = pathParts[i:]
			}
			values := make([]string, len(rest))
			for j, part := range rest {
				values[j] = decodeSegment(part, true)
			}
			params[seg.Value] = Many(values...)
		case SegmentDynamic:
			var value string
			if i < len(pathParts) {
				value = decodeSegment(pathParts[i], false)
			}
			params[seg.Value] = One(value)
		}
	}

	return params
}

func splitPath(p string) []string {
	raw := strings.Split(p, "/")
	parts := raw[:0]
	for _, s := range raw {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// StaticStrings adapts a generator returning bare strings. Each string
// binds DefaultParamName.
func StaticStrings(fn func(ctx context.Context) ([]string, error)) StaticParamsFunc {
	return func(ctx context.Context) ([]Params, error) {
		values, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		records := make([]Params, len(values))
		for i, v := range values {
			records[i] = Params{DefaultParamName: One(v)}
		}
		return records, nil
	}
}

// StaticSegments adapts a generator returning segment lists. Each list
// binds DefaultParamName as a sequence.
func StaticSegments(fn func(ctx context.Context) ([][]string, error)) StaticParamsFunc {
	return func(ctx context.Context) ([]Params, error) {
		values, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		records := make([]Params, len(values))
		for i, v := range values {
			records[i] = Params{DefaultParamName: Many(v...)}
		}
		return records, nil
	}
}

// Decode populates a struct with values from params.
// The target must be a pointer to a struct with `param` tags:
//
//	type PostParams struct {
//	    Slug string   `param:"slug"`
//	    Path []string `param:"path"`
//	}
func Decode(params Params, target any) error {
	if target == nil {
		return nil
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer, got %s", v.Kind())
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct, got pointer to %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		paramName := field.Tag.Get("param")
		if paramName == "" {
			continue
		}

		value, ok := params[paramName]
		if !ok {
			continue
		}

		fieldValue := v.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		if err := setField(fieldValue, value); err != nil {
			return fmt.Errorf("parsing param %q: %w", paramName, err)
		}
	}

	return nil
}

// setField sets a field from a parameter value.
func setField(field reflect.Value, value ParamValue) error {
	if field.Kind() == reflect.Slice {
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type: %s", field.Type().Elem().Kind())
		}
		field.Set(reflect.ValueOf(value.Strings()))
		return nil
	}

	if value.IsCatchAll() {
		return fmt.Errorf("catch-all value needs a []string field, got %s", field.Kind())
	}
	s := value.String()

	switch field.Kind() {
	case reflect.String:
		field.SetString(s)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %s", s)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", s)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(s, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float: %s", s)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", s)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported type: %s", field.Kind())
	}

	return nil
}
