// Package metrics は分類モデルの評価指標を提供します。
package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/langid/pkg/errors"
)

// vecLen はnilのベクトルを長さ0として扱う
func vecLen(v *mat.VecDense) int {
	if v == nil {
		return 0
	}
	return v.Len()
}

// Accuracy は正解率（一致したラベルの割合）を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n := vecLen(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if vecLen(yPred) != n {
		return 0, errors.NewDimensionError("Accuracy", n, vecLen(yPred), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassificationError は誤分類率（1 - 正解率）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, errors.Wrap(err, "ClassificationError")
	}
	return 1 - acc, nil
}

// AccuracyScore はラベルのスライスに対する正解率。
// グリッドサーチの各評価で行列を作らずに済むよう用意している。
func AccuracyScore(yTrue, yPred []int) (float64, error) {
	if len(yTrue) == 0 {
		return 0, errors.NewValueError("AccuracyScore", "empty labels")
	}
	if len(yPred) != len(yTrue) {
		return 0, errors.NewDimensionError("AccuracyScore", len(yTrue), len(yPred), 0)
	}

	correct := 0
	for i, y := range yTrue {
		if yPred[i] == y {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// ConfusionMatrix は行が真のラベル、列が予測ラベルの混同行列を返す。
// labels の順序で行・列が並ぶ。labels に含まれないラベルのサンプルは数えない。
func ConfusionMatrix(yTrue, yPred, labels []int) (*mat.Dense, error) {
	if len(labels) == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "no labels")
	}
	if len(yPred) != len(yTrue) {
		return nil, errors.NewDimensionError("ConfusionMatrix", len(yTrue), len(yPred), 0)
	}

	index := make(map[int]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	cm := mat.NewDense(len(labels), len(labels), nil)
	for i, y := range yTrue {
		r, okTrue := index[y]
		c, okPred := index[yPred[i]]
		if !okTrue || !okPred {
			continue
		}
		cm.Set(r, c, cm.At(r, c)+1)
	}
	return cm, nil
}
