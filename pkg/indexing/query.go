package indexing

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

// globMeta are the characters that end the literal prefix of a pattern.
const globMeta = "*?[{\\"

// FindWhere runs a single comparison against the tree selected by the type of
// value. For json indexes field names a configured path; scalar indexes use "*".
// Fields without a tree fall back to a scan of the primary store with the same
// semantics. A value with no tree (null, bool, object) matches nothing.
func (idx *Index) FindWhere(field string, op domain.Operator, value interface{}) (*QueryResult, error) {
	s := domain.ScalarOf(value)
	var g glob.Glob
	switch op {
	case domain.OpEQ, domain.OpLT, domain.OpGT:
	case domain.OpLike:
		if s.Kind != domain.KindString {
			return nil, fmt.Errorf("%w: like requires a string pattern, got %s", domain.ErrInvalidPattern, s.Kind)
		}
		var err error
		if g, err = idx.compile(s.Str); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedOperator, op)
	}

	if !idx.indexed(field) {
		return newQueryResult(idx.config, idx.scan(field, op, s, g), idx.opts), nil
	}
	var matches []domain.Record
	switch op {
	case domain.OpEQ:
		matches = idx.eq(field, s)
	case domain.OpLT:
		matches = idx.lt(field, s)
	case domain.OpGT:
		matches = idx.gt(field, s)
	case domain.OpLike:
		matches = idx.like(field, s.Str, g)
	}
	return newQueryResult(idx.config, matches, idx.opts), nil
}

// Find parses op and runs FindWhere.
func (idx *Index) Find(field, op string, value interface{}) (*QueryResult, error) {
	parsed, err := domain.ParseOperator(op)
	if err != nil {
		return nil, err
	}
	return idx.FindWhere(field, parsed, value)
}

func (idx *Index) eq(field string, s domain.Scalar) []domain.Record {
	switch s.Kind {
	case domain.KindInt:
		return idx.ints.eq(field, s.Int)
	case domain.KindFloat:
		return idx.floats.eq(field, s.Float)
	case domain.KindString:
		return idx.strs.eq(field, s.Str)
	default:
		return nil
	}
}

func (idx *Index) lt(field string, s domain.Scalar) []domain.Record {
	switch s.Kind {
	case domain.KindInt:
		return idx.ints.lt(field, s.Int)
	case domain.KindFloat:
		return idx.floats.lt(field, s.Float)
	case domain.KindString:
		return idx.strs.lt(field, s.Str)
	default:
		return nil
	}
}

func (idx *Index) gt(field string, s domain.Scalar) []domain.Record {
	switch s.Kind {
	case domain.KindInt:
		return idx.ints.gt(field, s.Int)
	case domain.KindFloat:
		return idx.floats.gt(field, s.Float)
	case domain.KindString:
		return idx.strs.gt(field, s.Str)
	default:
		return nil
	}
}

// compile builds the matcher for a LIKE pattern, lower-casing it when the
// index folds case.
func (idx *Index) compile(pattern string) (glob.Glob, error) {
	if idx.opts.caseInsensitiveLike {
		pattern = strings.ToLower(pattern)
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrInvalidPattern, pattern, err)
	}
	return g, nil
}

// like matches the string tree of field against a compiled pattern. When the
// pattern has a literal prefix only keys carrying that prefix are visited;
// in bytewise order they are contiguous, so the scan stops at the first key
// without it.
func (idx *Index) like(field, pattern string, g glob.Glob) []domain.Record {
	fold := idx.opts.caseInsensitiveLike
	prefix := ""
	if !fold {
		prefix = literalPrefix(pattern)
	}

	var out []domain.Record
	idx.strs.scanFrom(field, prefix, prefix == "", func(b *bucket[string]) bool {
		if prefix != "" && !strings.HasPrefix(b.key, prefix) {
			return false
		}
		if idx.matchString(g, b.key) {
			out = cloneEntries(out, b.entries)
		}
		return true
	})
	return out
}

func (idx *Index) matchString(g glob.Glob, s string) bool {
	if idx.opts.caseInsensitiveLike {
		s = strings.ToLower(s)
	}
	return g.Match(s)
}

// indexed reports whether field has secondary trees.
func (idx *Index) indexed(field string) bool {
	if idx.config.Kind != domain.ConfigJSON {
		return field == wildcardField
	}
	return seenPath(idx.config.PathOrders, field)
}

// scan evaluates a comparison over the primary store for fields without a
// tree. Only values of the operand's scalar type are comparable.
func (idx *Index) scan(field string, op domain.Operator, s domain.Scalar, g glob.Glob) []domain.Record {
	if s.Kind == domain.KindNone {
		return nil
	}
	var out []domain.Record
	for _, r := range idx.store.snapshot() {
		c := domain.ScalarOf(domain.GetPath(r.Value, field))
		if c.Kind != s.Kind {
			continue
		}
		var ok bool
		switch op {
		case domain.OpEQ:
			ok = compareScalars(c, s) == 0
		case domain.OpLT:
			ok = compareScalars(c, s) < 0
		case domain.OpGT:
			ok = compareScalars(c, s) > 0
		case domain.OpLike:
			ok = idx.matchString(g, c.Str)
		}
		if ok {
			out = append(out, domain.Record{Key: r.Key, Value: domain.Clone(r.Value)})
		}
	}
	return out
}

// literalPrefix returns the part of pattern before its first glob token.
func literalPrefix(pattern string) string {
	if i := strings.IndexAny(pattern, globMeta); i >= 0 {
		return pattern[:i]
	}
	return pattern
}
