package main

import (
	"strconv"
	"strings"

	"github.com/YuminosukeSato/langid/config"
	"github.com/YuminosukeSato/langid/core/model"
	"github.com/YuminosukeSato/langid/dataset"
	"github.com/YuminosukeSato/langid/pkg/log"
	"github.com/YuminosukeSato/langid/preprocessing"
	"github.com/YuminosukeSato/langid/sklearn/model_selection"
)

// split は学習に使う分割済みデータ。ラベルは encoder の整数ラベル。
type split struct {
	encoder *dataset.LabelEncoder
	scaler  *preprocessing.StandardScaler

	Xtrain [][]float64
	ytrain []int
	Xtest  [][]float64
	ytest  []int
}

// loadRecords は data.path を読む。.npy の場合は labels_path の整数ラベルをタグとして使う。
func loadRecords(cfg *config.Config) ([]dataset.Record, error) {
	if strings.HasSuffix(cfg.Data.Path, ".npy") {
		X, y, err := dataset.ReadNpy(cfg.Data.Path, cfg.Data.LabelsPath)
		if err != nil {
			return nil, err
		}
		records := make([]dataset.Record, len(X))
		for i := range X {
			records[i] = dataset.Record{Tag: strconv.Itoa(y[i]), Features: X[i]}
		}
		return records, nil
	}
	records, _, err := dataset.ReadRecordsFile(cfg.Data.Path)
	return records, err
}

// prepare はサンプリング、ラベル付け、学習/評価分割、必要なら標準化までを行う。
// classes が空でなければそのタグのレコードだけを使い、ラベルもその順に振る。
func prepare(cfg *config.Config, classes []string) (*split, error) {
	records, err := loadRecords(cfg)
	if err != nil {
		return nil, err
	}
	if len(classes) > 0 {
		keep := make(map[string]bool, len(classes))
		for _, c := range classes {
			keep[c] = true
		}
		filtered := records[:0:0]
		for _, r := range records {
			if keep[r.Tag] {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}
	// ラベルはサンプリング前のファイル順で振る
	enc := dataset.NewLabelEncoder(classes...)
	enc.Fit(dataset.Tags(records))
	records = dataset.Sample(records, cfg.Data.SampleSize, cfg.Data.Seed)
	y, err := enc.Transform(dataset.Tags(records))
	if err != nil {
		return nil, err
	}
	Xtrain, ytrain, Xtest, ytest, err := model_selection.TrainTestSplit(dataset.Features(records), y, cfg.Data.TestSize, cfg.Data.Seed)
	if err != nil {
		return nil, err
	}
	s := &split{encoder: enc, Xtrain: Xtrain, ytrain: ytrain, Xtest: Xtest, ytest: ytest}

	if cfg.Data.Standardize {
		s.scaler = preprocessing.NewStandardScalerDefault()
		if err := s.scaler.FitSamples(Xtrain); err != nil {
			return nil, err
		}
		if s.Xtrain, err = s.scaler.TransformSamples(Xtrain); err != nil {
			return nil, err
		}
		if s.Xtest, err = s.scaler.TransformSamples(Xtest); err != nil {
			return nil, err
		}
	}

	log.GetLoggerWithName("cli").Info("Prepared data",
		log.PathKey, cfg.Data.Path,
		log.SamplesKey, len(records),
		log.ClassesKey, len(enc.Classes()),
		log.RandomSeedKey, cfg.Data.Seed)
	return s, nil
}

// annotate はクラス名と標準化の統計量を文書に付ける
func (s *split) annotate(doc *model.Document) {
	doc.ClassNames = s.encoder.Classes()
	if s.scaler != nil {
		doc.Mean = append([]float64(nil), s.scaler.Mean...)
		doc.Scale = append([]float64(nil), s.scaler.Scale...)
	}
	if doc.Meta == nil {
		doc.Meta = make(map[string]string)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
