package app

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipfinder/internal/analysis"
	"flipfinder/internal/config"
)

func testLogger() zerolog.Logger { return zerolog.Nop() }

func TestRootCommandConfiguration(t *testing.T) {
	assert.Equal(t, "flipfinder", RootCmd.Use)
	assert.NotEmpty(t, RootCmd.Short)
	assert.Contains(t, RootCmd.Long, "Quick Start")
	assert.True(t, RootCmd.SilenceUsage)
	assert.True(t, RootCmd.SilenceErrors)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	found := map[string]bool{}
	for _, cmd := range RootCmd.Commands() {
		found[cmd.Name()] = true
	}

	for _, want := range []string{"search", "history", "version"} {
		assert.True(t, found[want], "expected %s subcommand to be registered", want)
	}
}

func TestSearchCommandFlags(t *testing.T) {
	for _, name := range []string{
		"area", "budget", "roi", "source", "export", "notify", "visualize",
		"roi-weight", "margin-weight", "repair-weight", "risk-weight",
	} {
		assert.NotNil(t, searchCmd.Flags().Lookup(name), "expected --%s flag", name)
	}

	roi := searchCmd.Flags().Lookup("roi")
	require.NotNil(t, roi)
	assert.Equal(t, "20", roi.DefValue)
}

func TestResolveWeights_DefaultsWhenUntouched(t *testing.T) {
	w, err := resolveWeights(searchCmd)
	require.NoError(t, err)
	assert.Equal(t, analysis.DefaultWeights(), w)
}

func TestResolveWeights_PartialOverrideRejected(t *testing.T) {
	require.NoError(t, searchCmd.Flags().Set("roi-weight", "0.5"))
	defer resetWeightFlags(t)

	_, err := resolveWeights(searchCmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, analysis.ErrMissingWeight)
}

func TestResolveWeights_FullOverride(t *testing.T) {
	for flag, value := range map[string]string{
		"roi-weight":    "0.4",
		"margin-weight": "0.3",
		"repair-weight": "0.2",
		"risk-weight":   "0.1",
	} {
		require.NoError(t, searchCmd.Flags().Set(flag, value))
	}
	defer resetWeightFlags(t)

	w, err := resolveWeights(searchCmd)
	require.NoError(t, err)
	assert.Equal(t, analysis.Weights{ROI: 0.4, Margin: 0.3, Repair: 0.2, Risk: 0.1}, w)
}

// resetWeightFlags clears the Changed state the Set calls left behind so
// tests do not leak into each other.
func resetWeightFlags(t *testing.T) {
	t.Helper()
	for _, name := range []string{"roi-weight", "margin-weight", "repair-weight", "risk-weight"} {
		flag := searchCmd.Flags().Lookup(name)
		require.NotNil(t, flag)
		flag.Changed = false
	}
}

func TestBuildSources(t *testing.T) {
	cfg := &config.Config{}
	cfg.Redfin.BaseURL = "https://www.redfin.com"

	origSource := searchSource
	defer func() { searchSource = origSource }()

	searchSource = "redfin"
	sources, err := buildSources(cfg, testLogger())
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "redfin", sources[0].Name())

	// Explicit mls without credentials is an error
	searchSource = "mls"
	_, err = buildSources(cfg, testLogger())
	assert.Error(t, err)

	// both degrades to Redfin only when MLS is unconfigured
	searchSource = "both"
	sources, err = buildSources(cfg, testLogger())
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "redfin", sources[0].Name())

	// With credentials both sources are active
	cfg.MLS.ClientID = "id"
	cfg.MLS.ClientSecret = "secret"
	sources, err = buildSources(cfg, testLogger())
	require.NoError(t, err)
	assert.Len(t, sources, 2)

	searchSource = "smoke-signals"
	_, err = buildSources(cfg, testLogger())
	assert.Error(t, err)
}
