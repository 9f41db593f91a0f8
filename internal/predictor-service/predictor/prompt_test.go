package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt_Basic(t *testing.T) {
	p, err := BuildPrompt(VersionBasic, map[string]string{
		"query":    "over 2.5",
		"fixtures": `[{"id":1}]`,
	})
	require.NoError(t, err)
	assert.Contains(t, p, `"over 2.5"`)
	assert.Contains(t, p, `[{"id":1}]`)
	assert.Contains(t, p, "Turkish")
	assert.NotContains(t, p, "{{")
}

func TestBuildPrompt_EnrichedFillsAllPlaceholders(t *testing.T) {
	p, err := BuildPrompt(VersionEnriched, map[string]string{
		"query":      "btts",
		"fixtures":   "F",
		"standings":  "S",
		"team_stats": "T",
		"players":    "P",
	})
	require.NoError(t, err)
	assert.NotContains(t, p, "{{")
	for _, s := range []string{"btts", "\nS\n", "\nT\n", "\nP\n"} {
		assert.Contains(t, p, s)
	}
}

func TestBuildPrompt_ValuesAreNotReinterpreted(t *testing.T) {
	p, err := BuildPrompt(VersionBasic, map[string]string{
		"query":    "{{fixtures}}",
		"fixtures": "REAL",
	})
	require.NoError(t, err)
	assert.Contains(t, p, `"{{fixtures}}"`)
}

func TestBuildPrompt_UnknownVersion(t *testing.T) {
	_, err := BuildPrompt("v42", nil)
	assert.Error(t, err)
}
