//go:build integration

package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/mtgio/pkg/mtg"
)

// TestSetsWorkflow lists a block, fetches one of its sets and opens a booster.
func TestSetsWorkflow(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	runner := NewCommandRunner(config, t)

	stdout, stderr, err := runner.Run("sets", "list",
		"--name", "Khans of Tarkir", "--block", "Khans of Tarkir", "--output", "json")
	require.NoError(t, err, "Failed to list sets: %s", stderr)

	var sets mtg.Response[[]mtg.Set]
	DecodeJSONOutput(t, stdout, &sets)
	require.NotEmpty(t, sets.Content)
	assert.NotNil(t, sets.RatelimitRemaining)

	code := sets.Content[0].Code

	stdout, stderr, err = runner.Run("sets", "get", code, "--output", "json")
	require.NoError(t, err, "Failed to get set %s: %s", code, stderr)

	var set mtg.Response[mtg.Set]
	DecodeJSONOutput(t, stdout, &set)
	assert.Equal(t, code, set.Content.Code)

	stdout, stderr, err = runner.Run("sets", "booster", code, "--output", "json")
	require.NoError(t, err, "Failed to open booster for %s: %s", code, stderr)

	var booster mtg.Response[[]mtg.Card]
	DecodeJSONOutput(t, stdout, &booster)
	assert.NotEmpty(t, booster.Content)
}

// TestCatalogWorkflow lists every catalog.
func TestCatalogWorkflow(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	runner := NewCommandRunner(config, t)

	for _, catalog := range mtg.Catalogs {
		stdout, stderr, err := runner.Run("catalog", string(catalog), "--output", "json")
		require.NoError(t, err, "Failed to list %s: %s", catalog, stderr)

		var values mtg.Response[[]string]
		DecodeJSONOutput(t, stdout, &values)
		assert.NotEmpty(t, values.Content, catalog)
	}
}

// TestCardWorkflow fetches a card by multiverse id and checks not-found handling.
func TestCardWorkflow(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	runner := NewCommandRunner(config, t)

	stdout, stderr, err := runner.Run("cards", "get", "386616", "--output", "json")
	require.NoError(t, err, "Failed to get card: %s", stderr)

	var card mtg.Response[mtg.Card]
	DecodeJSONOutput(t, stdout, &card)
	assert.Equal(t, "Narset, Enlightened Master", card.Content.Name)

	_, _, err = runner.Run("sets", "get", "NO-SUCH-SET")
	require.Error(t, err)
}
