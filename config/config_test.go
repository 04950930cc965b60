package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "langid.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []int{10, 20, 50}, cfg.MinSamplesSplits(1000))
	assert.Equal(t, ".json", cfg.ModelExt())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[data]
path = "it_nl.txt"
sample_size = 0
seed = 7
standardize = true

[tree]
max_depths = [2, 8]
min_samples_splits = [5, 1, 5]

[adaboost]
n_learners = [1, 2]
weight_update = "exponential"

[output]
format = "msgpack"
plot = false

[log]
level = "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "it_nl.txt", cfg.Data.Path)
	assert.Zero(t, cfg.Data.SampleSize)
	assert.Equal(t, 0.2, cfg.Data.TestSize, "unset keys keep their defaults")
	assert.Equal(t, uint64(7), cfg.Data.Seed)
	assert.True(t, cfg.Data.Standardize)
	assert.Equal(t, []int{2, 8}, cfg.Tree.MaxDepths)
	assert.Equal(t, []int{1, 5}, cfg.MinSamplesSplits(1000))
	assert.Equal(t, "exponential", cfg.AdaBoost.WeightUpdate)
	assert.Equal(t, []string{"it", "nl", "en"}, cfg.AdaBoost.Classes)
	assert.Equal(t, ".msgpack", cfg.ModelExt())
	assert.False(t, cfg.Output.Plot)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
		assert.Error(t, err)
	})
	t.Run("syntax", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[data\npath = 1"))
		assert.Error(t, err)
	})
	t.Run("unknown key", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[tree]\nmax_depth = 3\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tree.max_depth")
	})
	t.Run("invalid value", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[data]\ntest_size = 1.5\n"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"npy without labels", func(c *Config) { c.Data.Path = "X.npy" }},
		{"negative sample size", func(c *Config) { c.Data.SampleSize = -1 }},
		{"zero test size", func(c *Config) { c.Data.TestSize = 0 }},
		{"no depths", func(c *Config) { c.Tree.MaxDepths = nil }},
		{"bad depth", func(c *Config) { c.Tree.MaxDepths = []int{-2} }},
		{"no min splits", func(c *Config) { c.Tree.MinSamplesSplitFractions = nil }},
		{"fraction above one", func(c *Config) { c.Tree.MinSamplesSplitFractions = []float64{1.5} }},
		{"zero min split", func(c *Config) { c.Tree.MinSamplesSplits = []int{0} }},
		{"no learners", func(c *Config) { c.AdaBoost.NLearners = nil }},
		{"negative learners", func(c *Config) { c.AdaBoost.NLearners = []int{-1} }},
		{"weight update", func(c *Config) { c.AdaBoost.WeightUpdate = "quadratic" }},
		{"output format", func(c *Config) { c.Output.Format = "gob" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestMinSamplesSplits_SmallSample(t *testing.T) {
	cfg := Default()
	// 小さいサンプルでも1未満にはならない
	assert.Equal(t, []int{1, 2}, cfg.MinSamplesSplits(40))
}
