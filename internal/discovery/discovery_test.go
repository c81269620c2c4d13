package discovery_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/programme-lv/grader/internal/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticList(names ...string) discovery.ListFunc {
	return func() ([]string, error) { return names, nil }
}

func TestParsePattern(t *testing.T) {
	_, err := discovery.ParsePattern("$.in")
	require.NoError(t, err)

	for _, bad := range []string{"test.in", "$$.in", "$.in$", ""} {
		_, err := discovery.ParsePattern(bad)
		require.ErrorIs(t, err, discovery.ErrBadPattern, bad)
	}
}

func TestPatternLabel(t *testing.T) {
	p := discovery.MustParsePattern("test$.in")

	cases := []struct {
		name  string
		label string
		ok    bool
	}{
		{"test1.in", "1", true},
		{"test042.in", "042", true},
		{"test12.in.zst", "12", true},
		{"test.in", "", false},
		{"testa1.in", "", false},
		{"test1.out", "", false},
		{"1.in", "", false},
		{"test1x.in", "", false},
	}
	for _, c := range cases {
		label, ok := p.Label(c.name)
		assert.Equal(t, c.ok, ok, c.name)
		assert.Equal(t, c.label, label, c.name)
	}

	assert.Equal(t, "test7.in", p.Path("7"))
	assert.Equal(t, "test$.in", p.String())
}

func TestLabelsDeterministic(t *testing.T) {
	in := discovery.MustParsePattern("$.in")
	list := staticList("10.in", "notatest.txt", "2.in", "1.out", "1.in")

	labels, err := discovery.Labels(list, in)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "10"}, labels)
}

func TestLabelsDeduplicatesCompressed(t *testing.T) {
	in := discovery.MustParsePattern("$.in")
	list := staticList("3.in", "3.in.zst", "01.in", "1.in")

	labels, err := discovery.Labels(list, in)
	require.NoError(t, err)
	require.Equal(t, []string{"01", "1", "3"}, labels)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1.in", "1.out", "2.in", "10.in", "10.out", "notatest.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "5.in"), 0755))

	tests, err := discovery.Discover(dir, discovery.DirLister(dir),
		discovery.MustParsePattern("$.in"), discovery.MustParsePattern("$.out"))
	require.NoError(t, err)
	require.Len(t, tests, 3)

	assert.Equal(t, "1", tests[0].Label)
	assert.Equal(t, filepath.Join(dir, "1.in"), tests[0].InputPath)
	assert.True(t, tests[0].HasAnswer())

	assert.Equal(t, "2", tests[1].Label)
	assert.False(t, tests[1].HasAnswer())

	assert.Equal(t, "10", tests[2].Label)
	assert.Equal(t, filepath.Join(dir, "10.out"), tests[2].AnswerPath)
}

func TestDiscoverEmpty(t *testing.T) {
	dir := t.TempDir()
	tests, err := discovery.Discover(dir, discovery.DirLister(dir),
		discovery.MustParsePattern("$.in"), discovery.MustParsePattern("$.out"))
	require.NoError(t, err)
	require.Empty(t, tests)
}
