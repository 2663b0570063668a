/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package contract

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/dynarest/schema"
)

// Codec is the (parse, serialize) pair bound to a single attribute.
// Parse coerces a request value into the attribute's internal form;
// Serialize converts a stored value back to its external JSON form.
// Codecs are resolved once per contract and never consult the attribute
// kind again on the request path.
type Codec struct {
	Parse     func(v any) (any, error)
	Serialize func(v any) any
}

// timestampLayout is the canonical external timestamp form: RFC 3339 UTC
// with millisecond precision. Timestamps always round-trip as ISO-8601
// strings, never as epoch numbers.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func codecFor(attr schema.Attribute) (Codec, error) {
	switch attr.Kind {
	case schema.String:
		return Codec{Parse: parseString, Serialize: passthrough}, nil
	case schema.Number:
		return Codec{Parse: parseNumber, Serialize: passthrough}, nil
	case schema.Bool:
		return Codec{Parse: parseBool, Serialize: passthrough}, nil
	case schema.Binary:
		return Codec{Parse: parseBinary, Serialize: serializeBinary}, nil
	case schema.Timestamp:
		return Codec{Parse: parseTimestamp, Serialize: serializeTimestamp}, nil
	case schema.StringSet:
		return Codec{Parse: parseStringSet, Serialize: serializeStringSet}, nil
	case schema.NumberSet:
		return Codec{Parse: parseNumberSet, Serialize: serializeNumberSet}, nil
	case schema.Map:
		return mapCodec(attr)
	case schema.List:
		return listCodec(attr)
	default:
		return Codec{}, fmt.Errorf("unknown kind %q", attr.Kind)
	}
}

func passthrough(v any) any { return v }

func parseString(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected a string, got %T", v)
	}
	return s, nil
}

// parseNumber accepts JSON numbers and numeric strings (the latter arrive
// from path and query parameters). Whole values normalize to int64 so they
// serialize without a decimal point.
func parseNumber(v any) (any, error) {
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return int64(n), nil
		}
		return n, nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number, got %q", n)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("expected a number, got %T", v)
	}
}

func parseBool(v any) (any, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return nil, fmt.Errorf("expected a boolean, got %q", b)
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("expected a boolean, got %T", v)
	}
}

func parseBinary(v any) (any, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		data, err := base64.StdEncoding.DecodeString(b)
		if err != nil {
			return nil, fmt.Errorf("expected base64-encoded binary: %v", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("expected base64-encoded binary, got %T", v)
	}
}

func serializeBinary(v any) any {
	if b, ok := v.([]byte); ok {
		return base64.StdEncoding.EncodeToString(b)
	}
	return v
}

// parseTimestamp accepts an ISO-8601 string, an epoch-like numeric string,
// or an epoch number, and normalizes to the canonical external form.
func parseTimestamp(v any) (any, error) {
	t, err := coerceTime(v)
	if err != nil {
		return nil, err
	}
	return canonicalTimestamp(t), nil
}

// serializeTimestamp re-canonicalizes whatever representation the store
// returned. Unparsable values pass through unchanged rather than corrupting
// the response.
func serializeTimestamp(v any) any {
	t, err := coerceTime(v)
	if err != nil {
		return v
	}
	return canonicalTimestamp(t)
}

func coerceTime(v any) (time.Time, error) {
	switch tv := v.(type) {
	case time.Time:
		return tv, nil
	case strfmt.DateTime:
		return time.Time(tv), nil
	case float64:
		sec := int64(tv)
		nsec := int64((tv - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec), nil
	case int:
		return time.Unix(int64(tv), 0), nil
	case int64:
		return time.Unix(tv, 0), nil
	case string:
		if isEpochString(tv) {
			sec, err := strconv.ParseInt(tv, 10, 64)
			if err != nil {
				return time.Time{}, fmt.Errorf("expected an ISO-8601 timestamp, got %q", tv)
			}
			return time.Unix(sec, 0), nil
		}
		dt, err := strfmt.ParseDateTime(tv)
		if err != nil {
			return time.Time{}, fmt.Errorf("expected an ISO-8601 timestamp, got %q", tv)
		}
		return time.Time(dt), nil
	default:
		return time.Time{}, fmt.Errorf("expected an ISO-8601 timestamp, got %T", v)
	}
}

func isEpochString(s string) bool {
	if s == "" {
		return false
	}
	body := strings.TrimPrefix(s, "-")
	if body == "" {
		return false
	}
	for _, r := range body {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func canonicalTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Millisecond).Format(timestampLayout)
}

// parseStringSet coerces an ordered sequence of strings into a set:
// duplicates collapse, external order is discarded.
func parseStringSet(v any) (any, error) {
	elems, err := sequence(v)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(elems))
	set := make([]string, 0, len(elems))
	for _, e := range elems {
		s, ok := e.(string)
		if !ok {
			return nil, fmt.Errorf("expected an array of strings, got element %T", e)
		}
		if !seen[s] {
			seen[s] = true
			set = append(set, s)
		}
	}
	return set, nil
}

func serializeStringSet(v any) any {
	elems, err := sequence(v)
	if err != nil {
		return v
	}
	set := make([]string, 0, len(elems))
	for _, e := range elems {
		if s, ok := e.(string); ok {
			set = append(set, s)
		}
	}
	sort.Strings(set)
	return set
}

func parseNumberSet(v any) (any, error) {
	elems, err := sequence(v)
	if err != nil {
		return nil, err
	}
	seen := make(map[float64]bool, len(elems))
	set := make([]float64, 0, len(elems))
	for _, e := range elems {
		parsed, err := parseNumber(e)
		if err != nil {
			return nil, fmt.Errorf("expected an array of numbers, got element %T", e)
		}
		f := toFloat(parsed)
		if !seen[f] {
			seen[f] = true
			set = append(set, f)
		}
	}
	return set, nil
}

func serializeNumberSet(v any) any {
	elems, err := sequence(v)
	if err != nil {
		return v
	}
	set := make([]float64, 0, len(elems))
	for _, e := range elems {
		if parsed, err := parseNumber(e); err == nil {
			set = append(set, toFloat(parsed))
		}
	}
	sort.Float64s(set)
	return set
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

// sequence normalizes the supported slice forms to []any.
func sequence(v any) ([]any, error) {
	switch s := v.(type) {
	case []any:
		return s, nil
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, nil
	case []float64:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected an array, got %T", v)
	}
}

// mapCodec applies nested field codecs when the attribute declares them,
// otherwise values pass through as opaque JSON objects. Unknown nested keys
// always pass through untouched.
func mapCodec(attr schema.Attribute) (Codec, error) {
	nested := make(map[string]Codec, len(attr.Fields))
	for _, f := range attr.Fields {
		c, err := codecFor(f)
		if err != nil {
			return Codec{}, err
		}
		nested[f.Name] = c
	}

	parse := func(v any) (any, error) {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected an object, got %T", v)
		}
		if len(nested) == 0 {
			return m, nil
		}
		out := make(map[string]any, len(m))
		for k, val := range m {
			c, declared := nested[k]
			if !declared || val == nil {
				out[k] = val
				continue
			}
			parsed, err := c.Parse(val)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			out[k] = parsed
		}
		return out, nil
	}

	serialize := func(v any) any {
		m, ok := v.(map[string]any)
		if !ok || len(nested) == 0 {
			return v
		}
		out := make(map[string]any, len(m))
		for k, val := range m {
			if c, declared := nested[k]; declared && val != nil {
				out[k] = c.Serialize(val)
			} else {
				out[k] = val
			}
		}
		return out
	}

	return Codec{Parse: parse, Serialize: serialize}, nil
}

// listCodec applies the declared element codec (Fields[0]) to each element
// when present, otherwise lists pass through as opaque JSON arrays.
func listCodec(attr schema.Attribute) (Codec, error) {
	if len(attr.Fields) > 1 {
		return Codec{}, errors.New("list attributes declare at most one element descriptor")
	}

	var elem *Codec
	if len(attr.Fields) == 1 {
		c, err := codecFor(attr.Fields[0])
		if err != nil {
			return Codec{}, err
		}
		elem = &c
	}

	parse := func(v any) (any, error) {
		elems, err := sequence(v)
		if err != nil {
			return nil, err
		}
		if elem == nil {
			return elems, nil
		}
		out := make([]any, len(elems))
		for i, e := range elems {
			parsed, err := elem.Parse(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = parsed
		}
		return out, nil
	}

	serialize := func(v any) any {
		elems, err := sequence(v)
		if err != nil || elem == nil {
			return v
		}
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = elem.Serialize(e)
		}
		return out
	}

	return Codec{Parse: parse, Serialize: serialize}, nil
}
