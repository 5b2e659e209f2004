package indexing

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

func TestFieldTrees_BucketsAndCleanup(t *testing.T) {
	trees := newFieldTrees[int64]()
	trees.insertIndex("age", 21, "a", nil)
	trees.insertIndex("age", 13, "b", nil)
	trees.insertIndex("age", 21, "c", nil)

	assert.Equal(t, []bucketView[int64]{
		{Value: 13, Keys: []string{"b"}},
		{Value: 21, Keys: []string{"a", "c"}},
	}, trees.snapshot("age"))

	trees.removeIndex("age", 21, "a")
	trees.removeIndex("age", 21, "missing")
	trees.removeIndex("height", 1, "a")
	assert.Equal(t, []bucketView[int64]{
		{Value: 13, Keys: []string{"b"}},
		{Value: 21, Keys: []string{"c"}},
	}, trees.snapshot("age"))

	trees.removeIndex("age", 21, "c")
	trees.removeIndex("age", 13, "b")
	assert.Nil(t, trees.snapshot("age"))
	assert.Empty(t, trees.fieldNames())
}

func TestFieldTrees_Ranges(t *testing.T) {
	trees := newFieldTrees[string]()
	for i, name := range []string{"Kwame", "Ama", "Kwadwo", "Esi", "Ama"} {
		trees.insertIndex("name", name, string(rune('a'+i)), name)
	}

	assert.Equal(t, []string{"b", "e"}, recordKeys(trees.eq("name", "Ama")))
	assert.Equal(t, []string{"b", "e", "d"}, recordKeys(trees.lt("name", "Kwadwo")))
	assert.Equal(t, []string{"a"}, recordKeys(trees.gt("name", "Kwadwo")))
	assert.Empty(t, trees.eq("other", "Ama"))

	var visited []string
	trees.scanFrom("name", "K", false, func(b *bucket[string]) bool {
		visited = append(visited, b.key)
		return true
	})
	assert.Equal(t, []string{"Kwadwo", "Kwame"}, visited)
}

// every record's scalar paths appear in exactly one bucket and nothing else does
func TestIndex_TreesAgreeWithStore(t *testing.T) {
	config := domain.JSONConfig(
		domain.PathOrder{Path: "name", Direction: domain.Asc},
		domain.PathOrder{Path: "age", Direction: domain.Desc},
		domain.PathOrder{Path: "gpa", Direction: domain.Asc},
	)
	idx, err := New(config, WithParallelThreshold(1), WithWorkers(3))
	require.NoError(t, err)

	idx.Insert("s1", domain.Document{"name": "Ama", "age": 21, "gpa": 3.5})
	idx.Insert("s2", domain.Document{"name": "Kofi", "age": 19, "gpa": 3.1})
	idx.Insert("s3", domain.Document{"name": "Esi", "age": 21, "gpa": 3.9})
	idx.Insert("s1", domain.Document{"name": "Ama", "age": 22, "gpa": 3.5})
	idx.Remove("s2")
	_, err = idx.Batch(func(b *Batch) error {
		_, err := b.Insert("s4", domain.Document{"name": "Yaw", "age": 18, "gpa": 2.8})
		return err
	})
	require.NoError(t, err)

	fields := append(idx.ints.fieldNames(), idx.floats.fieldNames()...)
	fields = append(fields, idx.strs.fieldNames()...)
	sort.Strings(fields)
	assert.Equal(t, []string{"age", "gpa", "name"}, fields)

	ages := idx.ints.snapshot("age")
	assert.Equal(t, []bucketView[int64]{
		{Value: 18, Keys: []string{"s4"}},
		{Value: 21, Keys: []string{"s3"}},
		{Value: 22, Keys: []string{"s1"}},
	}, ages)

	total := 0
	for _, b := range idx.strs.snapshot("name") {
		total += len(b.Keys)
	}
	assert.Equal(t, idx.Size(), total)
	assertTreesMatchStore(t, idx)
}

// assertTreesMatchStore checks that every tree bucket holds exactly the keys
// whose current stored value resolves to that bucket's scalar.
func assertTreesMatchStore(t *testing.T, idx *Index) {
	t.Helper()
	expected := map[string][]string{}
	for _, r := range idx.store.snapshot() {
		for _, e := range idx.fieldEntries(r.Value) {
			id := fmt.Sprintf("%s/%s/%v", e.field, e.scalar.Kind, e.scalar)
			expected[id] = append(expected[id], r.Key)
		}
	}

	actual := map[string][]string{}
	collect := func(field string, kind domain.ScalarKind, scalar domain.Scalar, keys []string) {
		id := fmt.Sprintf("%s/%s/%v", field, kind, scalar)
		actual[id] = append(actual[id], keys...)
	}
	for _, field := range idx.ints.fieldNames() {
		for _, b := range idx.ints.snapshot(field) {
			collect(field, domain.KindInt, domain.Scalar{Kind: domain.KindInt, Int: b.Value}, b.Keys)
		}
	}
	for _, field := range idx.floats.fieldNames() {
		for _, b := range idx.floats.snapshot(field) {
			collect(field, domain.KindFloat, domain.Scalar{Kind: domain.KindFloat, Float: b.Value}, b.Keys)
		}
	}
	for _, field := range idx.strs.fieldNames() {
		for _, b := range idx.strs.snapshot(field) {
			collect(field, domain.KindString, domain.Scalar{Kind: domain.KindString, Str: b.Value}, b.Keys)
		}
	}

	for id := range expected {
		sort.Strings(expected[id])
	}
	for id := range actual {
		sort.Strings(actual[id])
	}
	assert.Equal(t, expected, actual)
}

func TestIndex_ConcurrentWritersKeepTreesInSync(t *testing.T) {
	config := domain.JSONConfig(
		domain.PathOrder{Path: "name", Direction: domain.Asc},
		domain.PathOrder{Path: "age", Direction: domain.Asc},
	)
	idx, err := New(config, WithParallelThreshold(1), WithWorkers(4))
	require.NoError(t, err)

	const writers = 8
	const rounds = 200
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				doc := domain.Document{"name": fmt.Sprintf("w%d-%d", w, i), "age": w*rounds + i}
				switch i % 4 {
				case 0, 1:
					// every writer fights over the same few keys
					idx.Insert(fmt.Sprintf("shared-%d", i%3), doc)
				case 2:
					idx.Remove(fmt.Sprintf("shared-%d", (i+w)%3))
				default:
					_, err := idx.Batch(func(b *Batch) error {
						_, err := b.Insert(fmt.Sprintf("own-%d-%d", w, i), doc)
						if err != nil {
							return err
						}
						update := domain.Document{"name": fmt.Sprintf("w%d-%d-u", w, i), "age": i}
						_, err = b.Update(fmt.Sprintf("shared-%d", w%3), update)
						return err
					})
					assert.NoError(t, err)
				}
			}
		}(w)
	}
	wg.Wait()

	assertTreesMatchStore(t, idx)
	for _, r := range idx.Records() {
		name := r.Value.(domain.Document)["name"].(string)
		res, err := idx.FindWhere("name", domain.OpEQ, name)
		require.NoError(t, err)
		require.Equal(t, 1, res.Count(), name)
		assert.Equal(t, r, res.Records()[0])
	}
}

func recordKeys(records []domain.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Key
	}
	return out
}
