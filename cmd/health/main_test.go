package main

import (
	"testing"

	"github.com/programme-lv/grader/internal/behave"
	"github.com/programme-lv/grader/internal/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryBuiltinLanguageHasScenario(t *testing.T) {
	cases, err := behave.ParseBytes(helloScenarios)
	require.NoError(t, err)

	for _, l := range lang.Default().Languages() {
		found := false
		for _, c := range cases {
			found = found || handles(l, c)
		}
		assert.True(t, found, "no scenario for %s", l.ID)
	}
}

func TestMissingToolchain(t *testing.T) {
	row := ensureToolchainOk(&lang.Language{Name: "Nothing", ExecCmd: "no-such-interpreter-9f2 {src}"})
	assert.Equal(t, fail, row.health)
	assert.Contains(t, row.message, "no-such-interpreter-9f2")
}
