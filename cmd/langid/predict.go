package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/langid/core/model"
	"github.com/YuminosukeSato/langid/dataset"
	"github.com/YuminosukeSato/langid/metrics"
	"github.com/YuminosukeSato/langid/pkg/errors"
	"github.com/YuminosukeSato/langid/preprocessing"
	"github.com/YuminosukeSato/langid/sklearn/ensemble"
	"github.com/YuminosukeSato/langid/sklearn/tree"
)

// loadedModel は保存済みモデルと、その入力の前処理
type loadedModel struct {
	doc        *model.Document
	classifier model.SampleClassifier
	scaler     *preprocessing.StandardScaler
}

func loadModel(path string) (*loadedModel, error) {
	doc, err := model.Load(path)
	if err != nil {
		return nil, err
	}
	m := &loadedModel{doc: doc}
	switch doc.Kind {
	case model.KindDecisionTree:
		dt := tree.NewDecisionTreeClassifier()
		err = dt.FromDocument(doc)
		m.classifier = dt
	case model.KindAdaBoost:
		ab := ensemble.NewAdaBoostClassifier()
		err = ab.FromDocument(doc)
		m.classifier = ab
	case model.KindOneVsRest:
		ovr := ensemble.NewOneVsRestClassifier()
		err = ovr.FromDocument(doc)
		m.classifier = ovr
	default:
		return nil, errors.NewValidationError("kind", "not a classifier model", doc.Kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to restore %s", path)
	}
	if len(doc.Mean) > 0 {
		m.scaler = preprocessing.NewStandardScalerDefault()
		if err := m.scaler.FromDocument(doc); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// featurizer はモデルの特徴量数に合わせたテキスト特徴量抽出器を返す
func (m *loadedModel) featurizer() *preprocessing.TextFeaturizer {
	capitalized := preprocessing.NewTextFeaturizer(preprocessing.WithCapitalization(true))
	if m.doc.FeatureCount == capitalized.NumFeatures() {
		return capitalized
	}
	return preprocessing.NewTextFeaturizer()
}

func (m *loadedModel) predict(X [][]float64) ([]int, error) {
	if m.scaler != nil {
		var err error
		if X, err = m.scaler.TransformSamples(X); err != nil {
			return nil, err
		}
	}
	return m.classifier.PredictSamples(X)
}

func (m *loadedModel) className(label int) string {
	if label >= 0 && label < len(m.doc.ClassNames) {
		return m.doc.ClassNames[label]
	}
	return strconv.Itoa(label)
}

// label はタグを整数ラベルに戻す。未知のタグは ok=false。
func (m *loadedModel) label(tag string) (int, bool) {
	for i, name := range m.doc.ClassNames {
		if name == tag {
			return i, true
		}
	}
	if len(m.doc.ClassNames) == 0 {
		if v, err := strconv.Atoi(tag); err == nil {
			return v, true
		}
	}
	return 0, false
}

func newPredictCmd() *cobra.Command {
	var modelPath, recordsPath string
	cmd := &cobra.Command{
		Use:   "predict --model FILE [text...]",
		Short: "Predict the language of text segments or evaluate a records file",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(modelPath)
			if err != nil {
				return err
			}
			if recordsPath != "" {
				return evaluateRecords(m, recordsPath, cmd.OutOrStdout())
			}
			if len(args) == 0 {
				return errors.New("no text given; pass segments as arguments or use --records")
			}
			return predictTexts(m, args, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&modelPath, "model", "m", "", "model file (.json or .msgpack)")
	cmd.Flags().StringVar(&recordsPath, "records", "", "tagged records file to evaluate")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func predictTexts(m *loadedModel, texts []string, out io.Writer) error {
	f := m.featurizer()
	for _, text := range texts {
		x, err := f.Features(text)
		if errors.Is(err, errors.ErrRejectedSegment) {
			fmt.Fprintf(out, "%s\t%s\n", color.YellowString("rejected"), text)
			continue
		}
		if err != nil {
			return err
		}
		pred, err := m.predict([][]float64{x})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\t%s\n", color.CyanString(m.className(pred[0])), text)
	}
	return nil
}

func evaluateRecords(m *loadedModel, path string, out io.Writer) error {
	records, _, err := dataset.ReadRecordsFile(path)
	if err != nil {
		return err
	}
	var (
		X       [][]float64
		y       []int
		unknown int
	)
	for _, r := range records {
		label, ok := m.label(r.Tag)
		if !ok {
			unknown++
			continue
		}
		X = append(X, r.Features)
		y = append(y, label)
	}
	if len(X) == 0 {
		return errors.NewModelError("evaluate", "no records with a known tag", errors.ErrEmptyData)
	}
	pred, err := m.predict(X)
	if err != nil {
		return err
	}
	acc, err := metrics.AccuracyScore(y, pred)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %d records, accuracy=%s", color.CyanString("evaluated"), len(X), color.GreenString("%.4f", acc))
	if unknown > 0 {
		fmt.Fprintf(out, " (%d with unknown tags skipped)", unknown)
	}
	fmt.Fprintln(out)
	return nil
}
