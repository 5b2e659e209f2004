package domain

import (
	"fmt"
	"strings"
)

// ConfigKind selects the acceptance rule and key derivation of an index.
type ConfigKind string

const (
	ConfigJSON    ConfigKind = "json"
	ConfigInteger ConfigKind = "integer"
	ConfigFloat   ConfigKind = "float"
	ConfigString  ConfigKind = "string"
)

// Direction is the sort direction of an index or of one path within it.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// PathOrder is one (dot-path, direction) pair of a json index. The order of
// PathOrders in a config defines tie-break precedence.
type PathOrder struct {
	Path      string    `json:"path" msgpack:"path"`
	Direction Direction `json:"direction" msgpack:"direction"`
}

// IndexConfig declares what an index accepts and how it orders and buckets
// its records.
type IndexConfig struct {
	Kind       ConfigKind  `json:"kind" msgpack:"kind"`
	Direction  Direction   `json:"direction,omitempty" msgpack:"direction,omitempty"`
	PathOrders []PathOrder `json:"path_orders,omitempty" msgpack:"path_orders,omitempty"`
}

// JSONConfig builds a composite config over document paths.
func JSONConfig(orders ...PathOrder) IndexConfig {
	return IndexConfig{Kind: ConfigJSON, PathOrders: orders}
}

// IntegerConfig builds a config over whole integer values.
func IntegerConfig(dir Direction) IndexConfig {
	return IndexConfig{Kind: ConfigInteger, Direction: dir}
}

// FloatConfig builds a config over whole float values.
func FloatConfig(dir Direction) IndexConfig {
	return IndexConfig{Kind: ConfigFloat, Direction: dir}
}

// StringConfig builds a config over whole string values.
func StringConfig(dir Direction) IndexConfig {
	return IndexConfig{Kind: ConfigString, Direction: dir}
}

// Validate checks the config for unknown kinds, directions and empty paths.
func (c IndexConfig) Validate() error {
	switch c.Kind {
	case ConfigJSON:
		if len(c.PathOrders) == 0 {
			return fmt.Errorf("%w: json index requires at least one path", ErrInvalidConfig)
		}
		for i, po := range c.PathOrders {
			if po.Path == "" {
				return fmt.Errorf("%w: path %d is empty", ErrInvalidConfig, i)
			}
			if !po.Direction.valid() {
				return fmt.Errorf("%w: unknown direction %q for path %s", ErrInvalidConfig, po.Direction, po.Path)
			}
		}
	case ConfigInteger, ConfigFloat, ConfigString:
		if !c.Direction.valid() {
			return fmt.Errorf("%w: unknown direction %q", ErrInvalidConfig, c.Direction)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidConfig, c.Kind)
	}
	return nil
}

// Clone returns a copy that shares no slices with c.
func (c IndexConfig) Clone() IndexConfig {
	out := c
	if c.PathOrders != nil {
		out.PathOrders = append([]PathOrder(nil), c.PathOrders...)
	}
	return out
}

// an empty direction is treated as ascending
func (d Direction) valid() bool {
	return d == "" || d == Asc || d == Desc
}

// ParseDirection maps "asc"/"desc" (any case) to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return "", fmt.Errorf("%w: unknown direction %q", ErrInvalidConfig, s)
	}
}

// Operator is a query comparison.
type Operator uint8

const (
	OpEQ Operator = iota + 1
	OpLT
	OpGT
	OpLike
)

func (o Operator) String() string {
	switch o {
	case OpEQ:
		return "eq"
	case OpLT:
		return "lt"
	case OpGT:
		return "gt"
	case OpLike:
		return "like"
	default:
		return fmt.Sprintf("Operator(%d)", uint8(o))
	}
}

// ParseOperator maps eq/lt/gt/like (any case) to an Operator.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(s) {
	case "eq":
		return OpEQ, nil
	case "lt":
		return OpLT, nil
	case "gt":
		return OpGT, nil
	case "like":
		return OpLike, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedOperator, s)
	}
}

// WriteResult distinguishes applied writes from filter rejections.
type WriteResult uint8

const (
	Applied WriteResult = iota + 1
	Rejected
)

func (r WriteResult) String() string {
	switch r {
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// BatchStats reports what a committed batch changed.
type BatchStats struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Deleted  int `json:"deleted"`
	Rejected int `json:"rejected"`
}

// IndexInfo describes a named index.
type IndexInfo struct {
	Name   string      `json:"name"`
	Config IndexConfig `json:"config"`
	Size   int         `json:"size"`
}
