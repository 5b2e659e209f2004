package indexing

import (
	"cmp"
	"strings"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

// sortKey is the per-record tuple the comparator works on: one scalar per
// path for json configs, a single coerced scalar for scalar configs.
type sortKey []domain.Scalar

// Compare orders a and b under config. For json configs each path is compared
// in declared order and the first non-equal result wins; operands that are
// missing or of different types compare equal for that path.
func Compare(config domain.IndexConfig, a, b interface{}) int {
	return compareKeys(config, keyOf(config, a), keyOf(config, b))
}

func keyOf(config domain.IndexConfig, value interface{}) sortKey {
	switch config.Kind {
	case domain.ConfigJSON:
		key := make(sortKey, len(config.PathOrders))
		for i, po := range config.PathOrders {
			key[i] = domain.ScalarOf(domain.GetPath(value, po.Path))
		}
		return key
	case domain.ConfigInteger:
		s := domain.ScalarOf(value)
		if s.Kind != domain.KindInt {
			s = domain.Scalar{Kind: domain.KindInt}
		}
		return sortKey{s}
	case domain.ConfigFloat:
		s := domain.ScalarOf(value)
		return sortKey{{Kind: domain.KindFloat, Float: s.AsFloat()}}
	case domain.ConfigString:
		s := domain.ScalarOf(value)
		if s.Kind != domain.KindString {
			s = domain.Scalar{Kind: domain.KindString}
		}
		return sortKey{s}
	default:
		return nil
	}
}

func compareKeys(config domain.IndexConfig, a, b sortKey) int {
	if config.Kind != domain.ConfigJSON {
		if len(a) == 0 || len(b) == 0 {
			return 0
		}
		return directed(config.Direction, compareScalars(a[0], b[0]))
	}
	for i, po := range config.PathOrders {
		if i >= len(a) || i >= len(b) {
			break
		}
		if c := directed(po.Direction, compareScalars(a[i], b[i])); c != 0 {
			return c
		}
	}
	return 0
}

// compareScalars compares strings with strings and numbers with numbers as
// float64. NaN sorts below every other number. Anything else is equal.
func compareScalars(a, b domain.Scalar) int {
	switch {
	case a.Kind == domain.KindString && b.Kind == domain.KindString:
		return strings.Compare(a.Str, b.Str)
	case a.Kind == domain.KindInt && b.Kind == domain.KindInt:
		return cmp.Compare(a.Int, b.Int)
	case a.IsNumber() && b.IsNumber():
		return cmp.Compare(a.AsFloat(), b.AsFloat())
	default:
		return 0
	}
}

func directed(dir domain.Direction, c int) int {
	if dir == domain.Desc {
		return -c
	}
	return c
}
