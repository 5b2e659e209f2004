package domain

import (
	"encoding/json"
	"math"
)

// ScalarKind identifies which secondary tree family a value belongs to.
type ScalarKind uint8

const (
	KindNone ScalarKind = iota
	KindInt
	KindFloat
	KindString
)

func (k ScalarKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "none"
	}
}

// Scalar is the tagged-variant form of a value: exactly one of Int, Float or
// Str is meaningful, selected by Kind. Non-scalar values have KindNone.
type Scalar struct {
	Kind  ScalarKind
	Int   int64
	Float float64
	Str   string
}

// ScalarOf classifies a value once so indexing and filtering share the result.
func ScalarOf(value interface{}) Scalar {
	switch v := value.(type) {
	case string:
		return Scalar{Kind: KindString, Str: v}
	case int:
		return Scalar{Kind: KindInt, Int: int64(v)}
	case int8:
		return Scalar{Kind: KindInt, Int: int64(v)}
	case int16:
		return Scalar{Kind: KindInt, Int: int64(v)}
	case int32:
		return Scalar{Kind: KindInt, Int: int64(v)}
	case int64:
		return Scalar{Kind: KindInt, Int: v}
	case uint:
		return unsignedScalar(uint64(v))
	case uint8:
		return Scalar{Kind: KindInt, Int: int64(v)}
	case uint16:
		return Scalar{Kind: KindInt, Int: int64(v)}
	case uint32:
		return Scalar{Kind: KindInt, Int: int64(v)}
	case uint64:
		return unsignedScalar(v)
	case float32:
		return Scalar{Kind: KindFloat, Float: float64(v)}
	case float64:
		return Scalar{Kind: KindFloat, Float: v}
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Scalar{Kind: KindInt, Int: i}
		}
		if f, err := v.Float64(); err == nil {
			return Scalar{Kind: KindFloat, Float: f}
		}
		return Scalar{}
	default:
		return Scalar{}
	}
}

// unsigned values above MaxInt64 have no int64 form and are kept as floats
func unsignedScalar(v uint64) Scalar {
	if v > math.MaxInt64 {
		return Scalar{Kind: KindFloat, Float: float64(v)}
	}
	return Scalar{Kind: KindInt, Int: int64(v)}
}

// IsNumber reports whether the scalar is an integer or a float.
func (s Scalar) IsNumber() bool {
	return s.Kind == KindInt || s.Kind == KindFloat
}

// AsFloat returns the numeric value as float64. Non-numbers return 0.
func (s Scalar) AsFloat() float64 {
	switch s.Kind {
	case KindInt:
		return float64(s.Int)
	case KindFloat:
		return s.Float
	default:
		return 0
	}
}
