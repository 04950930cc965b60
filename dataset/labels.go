package dataset

import (
	"slices"

	"github.com/YuminosukeSato/langid/pkg/errors"
)

// LabelEncoder はタグと整数ラベルを相互変換する。
// ラベルは最初に現れた順に 0, 1, 2, ... と振られる。
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// NewLabelEncoder は classes を既知のタグとして登録した LabelEncoder を返す
func NewLabelEncoder(classes ...string) *LabelEncoder {
	e := &LabelEncoder{index: make(map[string]int)}
	e.Fit(classes)
	return e
}

// Fit は未登録のタグを出現順に追加する
func (e *LabelEncoder) Fit(tags []string) {
	for _, t := range tags {
		if _, ok := e.index[t]; !ok {
			e.index[t] = len(e.classes)
			e.classes = append(e.classes, t)
		}
	}
}

// Transform はタグを整数ラベルに変換する。未知のタグはエラー。
func (e *LabelEncoder) Transform(tags []string) ([]int, error) {
	out := make([]int, len(tags))
	for i, t := range tags {
		label, ok := e.index[t]
		if !ok {
			return nil, errors.Wrapf(errors.NewValidationError("tag", "unknown label", t), "sample %d", i)
		}
		out[i] = label
	}
	return out, nil
}

// FitTransform は Fit の後に Transform する
func (e *LabelEncoder) FitTransform(tags []string) []int {
	e.Fit(tags)
	out, _ := e.Transform(tags)
	return out
}

// Decode は整数ラベルをタグに戻す
func (e *LabelEncoder) Decode(label int) (string, error) {
	if label < 0 || label >= len(e.classes) {
		return "", errors.NewValidationError("label", "out of range", label)
	}
	return e.classes[label], nil
}

// Classes は登録順のタグを返す
func (e *LabelEncoder) Classes() []string {
	return slices.Clone(e.classes)
}

// Labels は各タグのラベル 0..n-1 を返す
func (e *LabelEncoder) Labels() []int {
	out := make([]int, len(e.classes))
	for i := range out {
		out[i] = i
	}
	return out
}
