// Package preprocessing はテキスト断片の特徴量抽出と特徴量の標準化を提供します。
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/langid/core/model"
	"github.com/YuminosukeSato/langid/pkg/errors"
)

// StandardScaler はscikit-learn互換の標準化スケーラー
// データを平均0、標準偏差1に変換する
type StandardScaler struct {
	state *model.StateManager

	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の標準偏差
	Scale []float64

	// WithMean は平均を引くかどうか (デフォルト: true)
	WithMean bool

	// WithStd は標準偏差で割るかどうか (デフォルト: true)
	WithStd bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	err := scaler.Fit(X)
//	XScaled, err := scaler.Transform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault はデフォルト設定でStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// IsFitted は学習済みかどうかを返す
func (s *StandardScaler) IsFitted() bool {
	return s.state.IsFitted()
}

// NFeatures は学習時の特徴量数
func (s *StandardScaler) NFeatures() int {
	n, _ := s.state.GetDimensions()
	return n
}

// Fit は訓練データから統計情報（平均、標準偏差）を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	return s.FitSamples(model.Rows(X))
}

// FitSamples は行のスライスから統計情報を計算する
func (s *StandardScaler) FitSamples(samples [][]float64) error {
	r := len(samples)
	if r == 0 || len(samples[0]) == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	c := len(samples[0])

	mean := make([]float64, c)
	scale := make([]float64, c)
	col := make([]float64, 0, r)
	for j := 0; j < c; j++ {
		// 無限大（子音のない断片の母音子音比など）は統計から除外する
		col = col[:0]
		for _, row := range samples {
			if len(row) != c {
				return errors.NewDimensionError("StandardScaler.Fit", c, len(row), 1)
			}
			if !math.IsInf(row[j], 0) && !math.IsNaN(row[j]) {
				col = append(col, row[j])
			}
		}

		scale[j] = 1.0
		if len(col) == 0 {
			continue
		}
		if s.WithMean {
			mean[j] = floats.Sum(col) / float64(len(col))
		}
		if s.WithStd {
			sumSquares := 0.0
			for _, v := range col {
				diff := v - mean[j]
				sumSquares += diff * diff
			}
			// 定数特徴量はスケーリングしない
			if std := math.Sqrt(sumSquares / float64(len(col))); std >= 1e-8 {
				scale[j] = std
			}
		}
	}

	s.Mean = mean
	s.Scale = scale
	s.state.SetDimensions(c, r)
	s.state.SetFitted()
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	out, err := s.TransformSamples(model.Rows(X))
	if err != nil {
		return nil, err
	}
	return model.FromRows(out)
}

// TransformSamples は行ごとに標準化した新しいスライスを返す
func (s *StandardScaler) TransformSamples(samples [][]float64) ([][]float64, error) {
	if err := s.state.RequireFitted("StandardScaler", "Transform"); err != nil {
		return nil, err
	}
	out := make([][]float64, len(samples))
	for i, row := range samples {
		if len(row) != len(s.Mean) {
			return nil, errors.NewDimensionError("StandardScaler.Transform", len(s.Mean), len(row), 1)
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.state.RequireFitted("StandardScaler", "InverseTransform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != len(s.Mean) {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", len(s.Mean), c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(_, j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}, X)
	return result, nil
}

// GetParams はスケーラーのパラメータを取得する
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// ToDocument は学習済みの平均と標準偏差をモデル文書に書き出す
func (s *StandardScaler) ToDocument() (*model.Document, error) {
	if err := s.state.RequireFitted("StandardScaler", "ToDocument"); err != nil {
		return nil, err
	}
	doc := model.NewDocument(model.KindScaler, len(s.Mean))
	doc.Mean = append([]float64(nil), s.Mean...)
	doc.Scale = append([]float64(nil), s.Scale...)
	return doc, nil
}

// FromDocument は文書の Mean と Scale からスケーラーを復元する。
// 分類器の文書に同梱された統計情報もそのまま読める。
func (s *StandardScaler) FromDocument(doc *model.Document) error {
	if len(doc.Mean) == 0 || len(doc.Mean) != len(doc.Scale) {
		return errors.NewValidationError("scale", "document carries no standardization statistics", len(doc.Mean))
	}
	if s.state == nil {
		s.state = model.NewStateManager()
	}
	s.Mean = append([]float64(nil), doc.Mean...)
	s.Scale = append([]float64(nil), doc.Scale...)
	s.state.SetDimensions(len(s.Mean), 0)
	s.state.SetFitted()
	return nil
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures())
}
