package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
	"github.com/adfharrison1/go-jsonindex/pkg/indexing"
)

func studentConfig() domain.IndexConfig {
	return domain.JSONConfig(
		domain.PathOrder{Path: "name", Direction: domain.Asc},
		domain.PathOrder{Path: "gpa", Direction: domain.Desc},
	)
}

func seedStudents(t *testing.T, engine *StorageEngine) {
	t.Helper()
	require.NoError(t, engine.CreateIndex("students", studentConfig()))
	students := map[string]domain.Document{
		"s1": {"name": "Ama", "gpa": 3.9, "state": "CA"},
		"s2": {"name": "Kofi", "gpa": 3.1, "state": "NY"},
		"s3": {"name": "Esi", "gpa": 3.5, "state": "CA"},
		"s4": {"name": "Yaw", "gpa": 2.8, "state": "TX"},
	}
	for key, doc := range students {
		result, err := engine.Insert("students", key, doc)
		require.NoError(t, err)
		require.Equal(t, domain.Applied, result)
	}
}

func recordKeys(records []domain.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Key
	}
	return out
}

func TestStorageEngine_CreateIndex(t *testing.T) {
	engine := NewStorageEngine(WithDataDir(t.TempDir()))

	require.NoError(t, engine.CreateIndex("names", domain.StringConfig(domain.Asc)))

	err := engine.CreateIndex("names", domain.StringConfig(domain.Asc))
	assert.ErrorIs(t, err, domain.ErrIndexExists)

	for _, bad := range []string{"", "../escape", "a/b", ".hidden"} {
		err := engine.CreateIndex(bad, domain.StringConfig(domain.Asc))
		assert.ErrorIs(t, err, domain.ErrInvalidConfig, "name %q", bad)
	}

	st, ok := engine.Status("names")
	require.True(t, ok)
	assert.Equal(t, IndexStateDirty, st.State)
}

func TestStorageEngine_InsertGetRemove(t *testing.T) {
	engine := NewStorageEngine(WithDataDir(t.TempDir()))
	seedStudents(t, engine)

	result, err := engine.Insert("students", "bad", domain.Document{"name": "NoGPA"})
	require.NoError(t, err)
	assert.Equal(t, domain.Rejected, result)

	v, err := engine.Get("students", "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ama", v.(domain.Document)["name"])

	_, err = engine.Get("students", "bad")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	removed, err := engine.Remove("students", "s1")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = engine.Remove("students", "s1")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = engine.Insert("missing", "k", "v")
	assert.ErrorIs(t, err, domain.ErrIndexNotFound)
}

func TestStorageEngine_Records(t *testing.T) {
	engine := NewStorageEngine(WithDataDir(t.TempDir()))
	seedStudents(t, engine)

	page, err := engine.Records("students", &domain.PaginationOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s3"}, recordKeys(page.Records))
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)
	assert.Equal(t, 4, page.Total)

	page, err = engine.Records("students", &domain.PaginationOptions{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s4"}, recordKeys(page.Records))
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)

	_, err = engine.Records("students", &domain.PaginationOptions{Limit: -1})
	assert.Error(t, err)
}

func TestStorageEngine_RecordsStream(t *testing.T) {
	engine := NewStorageEngine(WithDataDir(t.TempDir()))
	seedStudents(t, engine)

	ch, err := engine.RecordsStream(context.Background(), "students")
	require.NoError(t, err)
	var got []string
	for r := range ch {
		got = append(got, r.Key)
	}
	assert.Equal(t, []string{"s1", "s3", "s2", "s4"}, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch, err = engine.RecordsStream(ctx, "students")
	require.NoError(t, err)
	for range ch {
	}
}

func TestStorageEngine_Batch(t *testing.T) {
	engine := NewStorageEngine(WithDataDir(t.TempDir()))
	seedStudents(t, engine)

	stats, err := engine.Batch("students", domain.BatchOps{
		Inserts: map[string]interface{}{
			"s5": domain.Document{"name": "Abena", "gpa": 3.3},
			"s6": domain.Document{"name": "Kojo", "gpa": 3.0},
			"s7": domain.Document{"name": "NoGPA"},
		},
		Updates: map[string]interface{}{"s2": domain.Document{"name": "Kofi", "gpa": 4.0}},
		Deletes: []string{"nope"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BatchStats{Inserted: 2, Updated: 1, Rejected: 1}, stats)

	info, err := engine.GetIndexInfo("students")
	require.NoError(t, err)
	assert.Equal(t, 6, info.Size)

	_, err = engine.Batch("missing", domain.BatchOps{})
	assert.ErrorIs(t, err, domain.ErrIndexNotFound)
}

func TestStorageEngine_FindWhere(t *testing.T) {
	engine := NewStorageEngine(WithDataDir(t.TempDir()))
	seedStudents(t, engine)

	records, err := engine.FindWhere("students", domain.Query{Field: "state", Op: domain.OpEQ, Value: "CA"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s1", "s3"}, recordKeys(records))

	orderBy := domain.JSONConfig(domain.PathOrder{Path: "gpa", Direction: domain.Asc})
	records, err = engine.FindWhere("students", domain.Query{
		Field: "gpa", Op: domain.OpGT, Value: 3.0, OrderBy: &orderBy, Limit: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s3"}, recordKeys(records))

	records, err = engine.FindWhere("students", domain.Query{Field: "name", Op: domain.OpLike, Value: "*a*", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, recordKeys(records))

	_, err = engine.FindWhere("students", domain.Query{Field: "name", Op: domain.OpLike, Value: "[x"})
	assert.ErrorIs(t, err, domain.ErrInvalidPattern)

	bad := domain.IndexConfig{Kind: "bogus"}
	_, err = engine.FindWhere("students", domain.Query{Field: "name", Op: domain.OpEQ, Value: "Ama", OrderBy: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestStorageEngine_IndexOptions(t *testing.T) {
	engine := NewStorageEngine(
		WithDataDir(t.TempDir()),
		WithIndexOptions(indexing.WithCaseInsensitiveLike(true)),
	)
	require.NoError(t, engine.CreateIndex("names", domain.StringConfig(domain.Asc)))
	_, err := engine.Insert("names", "u1", "Kwadwo")
	require.NoError(t, err)

	records, err := engine.FindWhere("names", domain.Query{Field: "*", Op: domain.OpLike, Value: "k*"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, recordKeys(records))
}

func TestStorageEngine_MemoryStats(t *testing.T) {
	engine := NewStorageEngine(WithDataDir(t.TempDir()))
	seedStudents(t, engine)

	stats := engine.GetMemoryStats()
	assert.Equal(t, 1, stats["indexes"])
	assert.Equal(t, 4, stats["records"])
}
