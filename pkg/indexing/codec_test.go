package indexing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
	"github.com/adfharrison1/go-jsonindex/pkg/indexing"
)

func TestToBytesFromBytes(t *testing.T) {
	idx := studentIndex(t)

	b, err := idx.ToBytes()
	require.NoError(t, err)

	loaded, err := indexing.FromBytes(b)
	require.NoError(t, err)

	assert.Equal(t, idx.Config(), loaded.Config())
	assert.Equal(t, keys(idx.Records()), keys(loaded.Records()))

	// trees are rebuilt on load and keep the integer/float split
	res, err := loaded.FindWhere("age", domain.OpEQ, 13)
	require.NoError(t, err)
	assert.Equal(t, []string{"student:1"}, keys(res.Records()))

	res, err = loaded.FindWhere("state", domain.OpEQ, "CA")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count())
}

func TestFromBytesScalarIndexes(t *testing.T) {
	tests := []struct {
		name   string
		config domain.IndexConfig
		values []interface{}
	}{
		{"integer", domain.IntegerConfig(domain.Asc), []interface{}{int64(3), int64(-1), int64(1 << 40)}},
		{"float", domain.FloatConfig(domain.Desc), []interface{}{1.5, -2.25, 0.125}},
		{"string", domain.StringConfig(domain.Asc), []interface{}{"b", "a", "ä"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := indexing.New(tt.config)
			require.NoError(t, err)
			for i, v := range tt.values {
				require.Equal(t, domain.Applied, idx.Insert(string(rune('a'+i)), v))
			}

			b, err := idx.ToBytes()
			require.NoError(t, err)
			loaded, err := indexing.FromBytes(b)
			require.NoError(t, err)

			assert.Equal(t, idx.Size(), loaded.Size())
			assert.Equal(t, keys(idx.Records()), keys(loaded.Records()))
		})
	}
}

func TestFromBytesGarbage(t *testing.T) {
	_, err := indexing.FromBytes([]byte{0xc1, 0x00})
	assert.Error(t, err)
}
