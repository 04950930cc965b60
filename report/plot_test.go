package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/langid/sklearn/ensemble"
	"github.com/YuminosukeSato/langid/sklearn/tree"
)

func TestPlotTreeGrid(t *testing.T) {
	scores := []tree.GridScore{
		{MaxDepth: 3, MinSamplesSplit: 10, Accuracy: 0.81},
		{MaxDepth: 3, MinSamplesSplit: 20, Accuracy: 0.80},
		{MaxDepth: 4, MinSamplesSplit: 10, Accuracy: 0.84},
		{MaxDepth: 4, MinSamplesSplit: 20, Accuracy: 0.83},
	}
	for _, ext := range []string{".png", ".svg"} {
		path := filepath.Join(t.TempDir(), "grid"+ext)
		require.NoError(t, PlotTreeGrid(scores, path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestPlotLearnerCurve(t *testing.T) {
	scores := []ensemble.LearnerScore{
		{NLearners: 50, Accuracy: 0.9},
		{NLearners: 10, Accuracy: 0.85},
	}
	path := filepath.Join(t.TempDir(), "it.png")
	require.NoError(t, PlotLearnerCurve(scores, "it", path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestPlot_Errors(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, PlotTreeGrid(nil, filepath.Join(dir, "a.png")))
	assert.Error(t, PlotLearnerCurve(nil, "it", filepath.Join(dir, "b.png")))
	assert.Error(t, PlotLearnerCurve([]ensemble.LearnerScore{{NLearners: 1, Accuracy: 1}}, "it", filepath.Join(dir, "c.unknown")))
}
