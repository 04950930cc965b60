// Package model は推定器が共有するインターフェース、学習状態の管理、
// 学習済みモデル文書の永続化を提供します。
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる。y は列ベクトル。
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は各行に対するラベルを列ベクトルで返す
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer は正解率を計算できるモデルのインターフェース
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// Classifier は分類器が満たすインターフェース
type Classifier interface {
	Fitter
	Predictor
	Scorer
	IsFitted() bool
}

// SampleClassifier はgonumの行列を介さずに [][]float64 を直接扱う分類器。
// グリッドサーチの内側ループで使う。
type SampleClassifier interface {
	FitSamples(samples [][]float64, labels []int) error
	PredictSamples(samples [][]float64) ([]int, error)
}

// Transformer はデータ変換のインターフェース
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// ParameterGetter はハイパーパラメータを公開するモデル
type ParameterGetter interface {
	GetParams() map[string]interface{}
}

// ParameterSetter はハイパーパラメータを変更できるモデル
type ParameterSetter interface {
	SetParams(params map[string]interface{}) error
}
