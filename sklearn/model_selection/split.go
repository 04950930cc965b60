// Package model_selection は学習・検証データの分割と交差検証を提供します。
package model_selection

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/langid/core/model"
	"github.com/YuminosukeSato/langid/metrics"
	"github.com/YuminosukeSato/langid/pkg/errors"
)

// DefaultTestSize は TrainTestSplit の既定の検証データ割合
const DefaultTestSize = 0.2

// TrainTestSplit は (X, y) の組をシード付きPCGでシャッフルし、
// 先頭 int(n*(1-testSize)) 件を学習用、残りを検証用として返す。
// 行はコピーせず共有する。
func TrainTestSplit(X [][]float64, y []int, testSize float64, seed uint64) (Xtrain [][]float64, ytrain []int, Xtest [][]float64, ytest []int, err error) {
	if len(X) == 0 {
		return nil, nil, nil, nil, errors.NewModelError("TrainTestSplit", "empty data", errors.ErrEmptyData)
	}
	if len(X) != len(y) {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", len(X), len(y), 0)
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, nil, nil, errors.NewValidationError("test_size", "must be in (0, 1)", testSize)
	}

	indices := shuffled(len(X), seed)
	cut := int(float64(len(X)) * (1 - testSize))

	Xtrain, ytrain = gather(X, y, indices[:cut])
	Xtest, ytest = gather(X, y, indices[cut:])
	return Xtrain, ytrain, Xtest, ytest, nil
}

func shuffled(n int, seed uint64) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	return indices
}

func gather(X [][]float64, y []int, indices []int) ([][]float64, []int) {
	xs := make([][]float64, len(indices))
	ys := make([]int, len(indices))
	for k, i := range indices {
		xs[k] = X[i]
		ys[k] = y[i]
	}
	return xs, ys
}

// Fold は交差検証の1分割
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold はk分割交差検証の分割器
type KFold struct {
	NSplits int
	Shuffle bool
	Seed    uint64
}

// NewKFold は新しいKFoldを作成する。nSplits が2未満なら5分割。
func NewKFold(nSplits int, shuffle bool, seed uint64) *KFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &KFold{NSplits: nSplits, Shuffle: shuffle, Seed: seed}
}

// Split は n サンプルの各分割の学習・検証インデックスを返す。
// 先頭 n%NSplits 個の分割は1件多く検証データを持つ。
func (kf *KFold) Split(n int) ([]Fold, error) {
	if n < kf.NSplits {
		return nil, errors.NewValidationError("n_splits", "cannot exceed the number of samples", kf.NSplits)
	}

	var indices []int
	if kf.Shuffle {
		indices = shuffled(n, kf.Seed)
	} else {
		indices = make([]int, n)
		for i := range indices {
			indices[i] = i
		}
	}

	folds := make([]Fold, kf.NSplits)
	foldSize := n / kf.NSplits
	remainder := n % kf.NSplits

	current := 0
	for i := range folds {
		testSize := foldSize
		if i < remainder {
			testSize++
		}
		test := append([]int(nil), indices[current:current+testSize]...)
		train := make([]int, 0, n-testSize)
		train = append(train, indices[:current]...)
		train = append(train, indices[current+testSize:]...)
		folds[i] = Fold{TrainIndices: train, TestIndices: test}
		current += testSize
	}
	return folds, nil
}

// CrossValScore は分割ごとに newModel で作った分類器を学習させ、検証正解率を返す。
func CrossValScore(newModel func() model.SampleClassifier, X [][]float64, y []int, kf *KFold) ([]float64, error) {
	if len(X) != len(y) {
		return nil, errors.NewDimensionError("CrossValScore", len(X), len(y), 0)
	}
	folds, err := kf.Split(len(X))
	if err != nil {
		return nil, err
	}

	scores := make([]float64, len(folds))
	for i, fold := range folds {
		Xtr, ytr := gather(X, y, fold.TrainIndices)
		Xte, yte := gather(X, y, fold.TestIndices)

		m := newModel()
		if err := m.FitSamples(Xtr, ytr); err != nil {
			return nil, errors.Wrapf(err, "fold %d", i)
		}
		pred, err := m.PredictSamples(Xte)
		if err != nil {
			return nil, errors.Wrapf(err, "fold %d", i)
		}
		if scores[i], err = metrics.AccuracyScore(yte, pred); err != nil {
			return nil, err
		}
	}
	return scores, nil
}
