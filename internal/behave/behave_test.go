//go:build unix

package behave_test

import (
	"context"
	"testing"

	"github.com/programme-lv/grader/internal/behave"
	"github.com/programme-lv/grader/internal/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios(t *testing.T) {
	cases, err := behave.Parse("testdata/scenarios.toml")
	require.NoError(t, err)
	require.Len(t, cases, 5)

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			report, err := c.Run(context.Background(), lang.Default(), t.TempDir())
			require.NoError(t, err)
			assert.NoError(t, c.Check(report))
		})
	}
}

func TestParseRejectsCompareWithoutReference(t *testing.T) {
	_, err := behave.ParseBytes([]byte(`
[[scenarios]]
description = "x"
mode = "compare"
[scenarios.program]
fname = "a.sh"
`))
	require.Error(t, err)
}

func TestCheckReportsDifference(t *testing.T) {
	cases, err := behave.ParseBytes([]byte(`
[[scenarios]]
description = "x"
[scenarios.program]
fname = "a.sh"
code = "cat\n"
[scenarios.expect]
verdicts = ["A"]
`))
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, []string{".sh"}, cases[0].Extensions())

	report, err := cases[0].Run(context.Background(), lang.Default(), t.TempDir())
	require.NoError(t, err)
	assert.ErrorContains(t, cases[0].Check(report), "expected verdicts [A], got []")
}
