// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/persona-engine/pkg/types"
)

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
		_, err := newLogger(level)
		assert.NoError(t, err, level)
	}
	_, err := newLogger("loud")
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Reset()
	setDefaults()
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultPipelineConfig(), cfg)

	viper.Set("analysis.top_k", 3)
	viper.Set("lexicon", "custom.yaml")
	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Analysis.TopK)
	assert.Equal(t, "custom.yaml", cfg.Analysis.LexiconPath)

	viper.Set("output.format", "xml")
	_, err = loadConfig()
	assert.Error(t, err)
}

func TestSortedPriorities(t *testing.T) {
	got := sortedPriorities(map[types.SectionType]float64{
		types.SectionResults:     0.8,
		types.SectionMethodology: 0.9,
		types.SectionAnalysis:    0.8,
	})
	assert.Equal(t, []types.SectionType{types.SectionMethodology, types.SectionAnalysis, types.SectionResults}, got)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "3f2b8c1e", shortID("3f2b8c1e-0000-4000-8000-000000000000"))
	assert.Equal(t, "plain", shortID("plain"))
}
