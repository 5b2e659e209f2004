package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Document represents a structured JSON-like object stored in an index
type Document map[string]interface{}

// Record is a keyed value held by an index. Value may be any structured
// value: nil, bool, a number, a string, a slice or a Document.
type Record struct {
	Key   string      `json:"key" msgpack:"key"`
	Value interface{} `json:"value" msgpack:"value"`
}

// GetPath extracts the value addressed by a dot-path such as "user.address.city".
// Numeric segments index into arrays. A missing segment yields nil.
func GetPath(value interface{}, path string) interface{} {
	if path == "" {
		return value
	}
	current := value
	for _, segment := range strings.Split(path, ".") {
		switch v := current.(type) {
		case Document:
			next, ok := v[segment]
			if !ok {
				return nil
			}
			current = next
		case map[string]interface{}:
			next, ok := v[segment]
			if !ok {
				return nil
			}
			current = next
		case []interface{}:
			i, err := strconv.Atoi(segment)
			if err != nil || i < 0 || i >= len(v) {
				return nil
			}
			current = v[i]
		default:
			return nil
		}
	}
	return current
}

// Clone returns a deep copy of a structured value so callers never alias
// data owned by an index.
func Clone(value interface{}) interface{} {
	switch v := value.(type) {
	case Document:
		out := make(Document, len(v))
		for k, item := range v {
			out[k] = Clone(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, item := range v {
			out[k] = Clone(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = Clone(item)
		}
		return out
	default:
		return v
	}
}

// CloneRecords deep copies a slice of records.
func CloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = Record{Key: r.Key, Value: Clone(r.Value)}
	}
	return out
}

// Normalize converts decoder artefacts into the value model used by the
// indexes. json.Number becomes int64 when it has an integer form and float64
// otherwise, so the integer/float distinction survives msgpack round trips.
// A number outside the float64 range returns ErrInvalidNumber.
func Normalize(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidNumber, v.String())
		}
		return f, nil
	case Document:
		for k, item := range v {
			n, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			v[k] = n
		}
		return v, nil
	case map[string]interface{}:
		for k, item := range v {
			n, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			v[k] = n
		}
		return v, nil
	case []interface{}:
		for i, item := range v {
			n, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			v[i] = n
		}
		return v, nil
	default:
		return v, nil
	}
}
