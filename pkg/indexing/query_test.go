package indexing_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
	"github.com/adfharrison1/go-jsonindex/pkg/indexing"
)

func TestFindWhereLike(t *testing.T) {
	tests := []struct {
		name     string
		opts     []indexing.IndexOption
		pattern  string
		expected []string
	}{
		{"case insensitive prefix", []indexing.IndexOption{indexing.WithCaseInsensitiveLike(true)}, "k*", []string{"user.1", "user.2"}},
		{"case sensitive prefix", nil, "K*", []string{"user.1", "user.2"}},
		{"case sensitive lower prefix", nil, "k*", nil},
		{"longer prefix", nil, "Kwa?e", []string{"user.2"}},
		{"no prefix", nil, "*a*", []string{"user.1", "user.2", "user.4", "user.5", "user.6"}},
		{"character class", nil, "J[ao]*", []string{"user.3", "user.4"}},
		{"exact literal", nil, "Ama", []string{"user.6"}},
		{"literal miss", nil, "Am", nil},
		{"suffix", nil, "*e", []string{"user.2", "user.4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := indexing.NewWithRecords(domain.StringConfig(domain.Asc), names(), tt.opts...)
			require.NoError(t, err)

			res, err := idx.FindWhere("*", domain.OpLike, tt.pattern)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.expected, keys(res.Records()))
		})
	}
}

func TestLikeMatchesEqualScanRegardlessOfLayout(t *testing.T) {
	var records []domain.Record
	words := []string{"apple", "apricot", "app", "b", "banana", "ap", "a", "ápice", "apz", "aq"}
	for i, w := range words {
		records = append(records, domain.Record{Key: fmt.Sprintf("w%d", i), Value: domain.Document{"word": w}})
	}
	idx, err := indexing.NewWithRecords(domain.JSONConfig(domain.PathOrder{Path: "word", Direction: domain.Desc}), records)
	require.NoError(t, err)

	for _, pattern := range []string{"ap*", "app*", "a*", "ápi*", "?p*", "*", "apple", "b*a"} {
		res, err := idx.FindWhere("word", domain.OpLike, pattern)
		require.NoError(t, err)

		var expected []string
		for _, r := range records {
			if globMatch(t, pattern, r.Value.(domain.Document)["word"].(string)) {
				expected = append(expected, r.Key)
			}
		}
		assert.ElementsMatch(t, expected, keys(res.Records()), "pattern %q", pattern)
	}
}

func TestLikeErrors(t *testing.T) {
	idx, err := indexing.NewWithRecords(domain.StringConfig(domain.Asc), names())
	require.NoError(t, err)

	_, err = idx.FindWhere("*", domain.OpLike, "[unterminated")
	assert.ErrorIs(t, err, domain.ErrInvalidPattern)

	_, err = idx.FindWhere("*", domain.OpLike, 42)
	assert.ErrorIs(t, err, domain.ErrInvalidPattern)
}

func TestUnsupportedOperator(t *testing.T) {
	idx, err := indexing.NewWithRecords(domain.StringConfig(domain.Asc), names())
	require.NoError(t, err)

	_, err = idx.Find("*", "between", "A")
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperator)

	_, err = idx.FindWhere("*", domain.Operator(99), "A")
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperator)

	res, err := idx.Find("*", "EQ", "Ama")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count())
}

func TestRangeBoundariesAreExclusive(t *testing.T) {
	idx, err := indexing.New(domain.IntegerConfig(domain.Asc))
	require.NoError(t, err)
	for i := 1; i <= 5; i++ {
		idx.Insert(fmt.Sprintf("k%d", i), i)
	}
	idx.Insert("dup", 3)

	lt, err := idx.FindWhere("*", domain.OpLT, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"k1", "k2"}, keys(lt.Records()))

	gt, err := idx.FindWhere("*", domain.OpGT, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"k4", "k5"}, keys(gt.Records()))

	eq, err := idx.FindWhere("*", domain.OpEQ, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"k3", "dup"}, keys(eq.Records()))

	missing, err := idx.FindWhere("*", domain.OpEQ, 42)
	require.NoError(t, err)
	assert.Equal(t, 0, missing.Count())
}

func TestRangeCompleteness(t *testing.T) {
	var records []domain.Record
	for i := 0; i < 40; i++ {
		var v interface{}
		switch i % 4 {
		case 0:
			v = i
		case 1:
			v = float64(i) / 3
		case 2:
			v = fmt.Sprintf("s%02d", i)
		default:
			v = nil
		}
		records = append(records, domain.Record{Key: fmt.Sprintf("r%02d", i), Value: domain.Document{"f": v, "id": i}})
	}
	idx, err := indexing.NewWithRecords(domain.JSONConfig(
		domain.PathOrder{Path: "id", Direction: domain.Asc},
		domain.PathOrder{Path: "f", Direction: domain.Asc},
	), records)
	require.NoError(t, err)

	for _, needle := range []interface{}{12, 5.0, "s18", 1000, -1.5, "a"} {
		kind := domain.ScalarOf(needle).Kind
		var expected []string
		for _, r := range records {
			if domain.ScalarOf(r.Value.(domain.Document)["f"]).Kind == kind {
				expected = append(expected, r.Key)
			}
		}

		var got []string
		for _, op := range []domain.Operator{domain.OpLT, domain.OpEQ, domain.OpGT} {
			res, err := idx.FindWhere("f", op, needle)
			require.NoError(t, err)
			got = append(got, keys(res.Records())...)
		}
		assert.ElementsMatch(t, expected, got, "needle %v", needle)
	}
}

func TestFloatTree(t *testing.T) {
	idx, err := indexing.New(domain.FloatConfig(domain.Desc))
	require.NoError(t, err)
	idx.Insert("a", 1.5)
	idx.Insert("b", -0.25)
	idx.Insert("c", 9.75)
	assert.Equal(t, domain.Rejected, idx.Insert("d", 3))

	assert.Equal(t, []interface{}{9.75, 1.5, -0.25}, values(idx))

	res, err := idx.FindWhere("*", domain.OpGT, 0.0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, keys(res.Records()))
}

func TestFindWhereNonScalarValue(t *testing.T) {
	idx, err := indexing.NewWithRecords(domain.StringConfig(domain.Asc), names())
	require.NoError(t, err)

	for _, v := range []interface{}{nil, true, domain.Document{}} {
		res, err := idx.FindWhere("*", domain.OpEQ, v)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Count())
	}
}

func TestFindWhereUnknownFieldOnScalarIndex(t *testing.T) {
	idx, err := indexing.NewWithRecords(domain.StringConfig(domain.Asc), names())
	require.NoError(t, err)

	res, err := idx.FindWhere("name", domain.OpEQ, "Ama")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count())
}

func TestLikeOnUnindexedField(t *testing.T) {
	idx, err := indexing.NewWithRecords(domain.JSONConfig(domain.PathOrder{Path: "name", Direction: domain.Asc}), students())
	require.NoError(t, err)

	res, err := idx.FindWhere("state", domain.OpLike, "?A")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"student:0", "student:2"}, keys(res.Records()))

	res, err = idx.FindWhere("age", domain.OpLT, 14)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"student:1", "student:2"}, keys(res.Records()))
}
