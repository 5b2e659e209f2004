package indexing_test

import (
	"testing"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/require"
)

func globMatch(t *testing.T, pattern, s string) bool {
	t.Helper()
	g, err := glob.Compile(pattern)
	require.NoError(t, err)
	return g.Match(s)
}
