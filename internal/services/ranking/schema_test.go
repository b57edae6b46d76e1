package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeptToleratesFences(t *testing.T) {
	parsed, err := parseKept("Here you go:\n```json\n{\"kept\": [\"a\", 2]}\n```")
	require.NoError(t, err)
	assert.Len(t, parsed.Kept, 2)
}

func TestParseKeptRejectsExtraProperties(t *testing.T) {
	_, err := parseKept(`{"kept": ["a"], "commentary": "looks good"}`)
	assert.Error(t, err)
}

func TestParseKeptRejectsMissingField(t *testing.T) {
	_, err := parseKept(`{"selected": ["a"]}`)
	assert.Error(t, err)

	_, err = parseKept("no json here")
	assert.Error(t, err)
}

func TestParseRanked(t *testing.T) {
	parsed, err := parseRanked(`{"ranked": [1, 0], "rationale": "closest matches first"}`)
	require.NoError(t, err)
	assert.Len(t, parsed.Ranked, 2)
	assert.Equal(t, "closest matches first", parsed.Rationale)

	// rationale is optional
	parsed, err = parseRanked(`{"ranked": ["x"]}`)
	require.NoError(t, err)
	assert.Empty(t, parsed.Rationale)

	_, err = parseRanked(`{"ranked": [{"id": "x"}]}`)
	assert.Error(t, err)
}
