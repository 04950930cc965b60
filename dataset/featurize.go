package dataset

import (
	"github.com/YuminosukeSato/langid/pkg/errors"
	"github.com/YuminosukeSato/langid/preprocessing"
)

// Featurize は各断片の特徴量を tag 付きのレコードにする。
// 特徴量を計算できない断片（文字が無い、語が長すぎる）は除外し、その件数を返す。
func Featurize(texts []string, tag string, f *preprocessing.TextFeaturizer) (records []Record, rejected int, err error) {
	for _, text := range texts {
		features, ferr := f.Features(text)
		if errors.Is(ferr, errors.ErrRejectedSegment) {
			rejected++
			continue
		}
		if ferr != nil {
			return nil, rejected, ferr
		}
		records = append(records, Record{Tag: tag, Features: features})
	}
	return records, rejected, nil
}
