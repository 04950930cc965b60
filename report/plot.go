// Package report はハイパーパラメータ探索の結果をグラフに描画します。
// 出力形式は保存先の拡張子（.png, .svg, .pdf など）で決まります。
package report

import (
	"cmp"
	"fmt"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/langid/pkg/errors"
	"github.com/YuminosukeSato/langid/pkg/log"
	"github.com/YuminosukeSato/langid/sklearn/ensemble"
	"github.com/YuminosukeSato/langid/sklearn/tree"
)

// 画像サイズ
const (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// PlotTreeGrid は決定木のグリッドサーチ結果を、min_samples_split ごとに
// 深さと検証精度の折れ線として path に保存する。
func PlotTreeGrid(scores []tree.GridScore, path string) error {
	if len(scores) == 0 {
		return errors.NewValidationError("scores", "nothing to plot", 0)
	}

	lines := make(map[int]plotter.XYs)
	var splits []int
	for _, s := range scores {
		if _, ok := lines[s.MinSamplesSplit]; !ok {
			splits = append(splits, s.MinSamplesSplit)
		}
		lines[s.MinSamplesSplit] = append(lines[s.MinSamplesSplit], plotter.XY{X: float64(s.MaxDepth), Y: s.Accuracy})
	}
	slices.Sort(splits)

	p := plot.New()
	p.Title.Text = "Decision tree grid search"
	p.X.Label.Text = "max_depth"
	p.Y.Label.Text = "validation accuracy"

	args := make([]interface{}, 0, 2*len(splits))
	for _, m := range splits {
		xys := lines[m]
		slices.SortStableFunc(xys, byX)
		args = append(args, fmt.Sprintf("min_samples_split=%d", m), xys)
	}
	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return errors.Wrap(err, "failed to add grid lines")
	}
	return save(p, path)
}

// PlotLearnerCurve は弱学習器の数ごとの検証精度を path に保存する。
// label は凡例に使う（例: 言語タグ）。
func PlotLearnerCurve(scores []ensemble.LearnerScore, label, path string) error {
	if len(scores) == 0 {
		return errors.NewValidationError("scores", "nothing to plot", 0)
	}
	xys := make(plotter.XYs, len(scores))
	for i, s := range scores {
		xys[i] = plotter.XY{X: float64(s.NLearners), Y: s.Accuracy}
	}
	slices.SortStableFunc(xys, byX)

	p := plot.New()
	p.Title.Text = "AdaBoost learner count"
	p.X.Label.Text = "n_learners"
	p.Y.Label.Text = "validation accuracy"
	if err := plotutil.AddLinePoints(p, label, xys); err != nil {
		return errors.Wrap(err, "failed to add learner curve")
	}
	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(Width, Height, path); err != nil {
		return errors.Wrapf(err, "failed to save plot %s", path)
	}
	log.GetLoggerWithName("report").Debug("Saved plot", log.PathKey, path)
	return nil
}

func byX(a, b plotter.XY) int {
	return cmp.Compare(a.X, b.X)
}
