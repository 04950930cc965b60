package model

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/YuminosukeSato/langid/pkg/errors"
)

// 学習済みモデル文書のフォーマット識別子とバージョン
const (
	DocumentFormat  = "langid.model"
	DocumentVersion = 1
)

// Kind は文書に格納されたモデルの種類
const (
	KindDecisionTree = "decision_tree"
	KindAdaBoost     = "adaboost"
	KindOneVsRest    = "one_vs_rest"
	KindScaler       = "standard_scaler"
)

// Encoding はモデル文書のシリアライズ形式
type Encoding int

const (
	// EncodingJSON は人が読めるJSON形式
	EncodingJSON Encoding = iota
	// EncodingMsgpack はコンパクトなMessagePack形式
	EncodingMsgpack
)

func (e Encoding) String() string {
	if e == EncodingMsgpack {
		return "msgpack"
	}
	return "json"
}

// EncodingForPath はファイル拡張子からエンコーディングを決める。
// ".msgpack" と ".mp" はMessagePack、それ以外はJSON。
func EncodingForPath(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mp":
		return EncodingMsgpack
	default:
		return EncodingJSON
	}
}

// NodeRecord は決定木のノードを前順（pre-order）で平坦化した1要素。
// 内部ノードの直後に左部分木、その後に右部分木が続く。
// 葉は Leaf と Value だけを持つ。内部ノードは Feature と Threshold を持ち、
// Value は常にゼロでエンコード結果には現れない。
type NodeRecord struct {
	Leaf      bool    `json:"leaf" msgpack:"leaf"`
	Feature   uint32  `json:"feature,omitempty" msgpack:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty" msgpack:"threshold,omitempty"`
	Value     int     `json:"value,omitempty" msgpack:"value,omitempty"`
}

// StumpRecord は決定株1つ分の学習結果
type StumpRecord struct {
	Feature   uint32  `json:"feature" msgpack:"feature"`
	Threshold float64 `json:"threshold" msgpack:"threshold"`
	Polarity  int8    `json:"polarity" msgpack:"polarity"`
	Alpha     float64 `json:"alpha" msgpack:"alpha"`
}

// Document は学習済みモデルの永続化形式。
// 決定木は Nodes、AdaBoostは Learners を使う。
// ClassNames は整数ラベルを添字とするタグ名（ラベル i の名前が ClassNames[i]）。
// 二値AdaBoostは Learners が1要素、one-vs-restはクラスごとに1要素。
type Document struct {
	Format       string            `json:"format" msgpack:"format"`
	Version      int               `json:"version" msgpack:"version"`
	Kind         string            `json:"kind" msgpack:"kind"`
	ClassNames   []string          `json:"class_names,omitempty" msgpack:"class_names,omitempty"`
	Classes      []int             `json:"classes,omitempty" msgpack:"classes,omitempty"`
	FeatureCount int               `json:"feature_count" msgpack:"feature_count"`
	Nodes        []NodeRecord      `json:"nodes,omitempty" msgpack:"nodes,omitempty"`
	Learners     [][]StumpRecord   `json:"learners,omitempty" msgpack:"learners,omitempty"`
	Mean         []float64         `json:"mean,omitempty" msgpack:"mean,omitempty"`
	Scale        []float64         `json:"scale,omitempty" msgpack:"scale,omitempty"`
	Meta         map[string]string `json:"meta,omitempty" msgpack:"meta,omitempty"`
}

// NewDocument は Format と Version を埋めた空の文書を返す
func NewDocument(kind string, featureCount int) *Document {
	return &Document{
		Format:       DocumentFormat,
		Version:      DocumentVersion,
		Kind:         kind,
		FeatureCount: featureCount,
	}
}

// Validate は文書の構造的な整合性を検証する
func (d *Document) Validate() error {
	if d.Format != DocumentFormat {
		return errors.NewValidationError("format", "not a langid model document", d.Format)
	}
	if d.Version != DocumentVersion {
		return errors.Wrapf(errors.ErrUnsupportedVersion, "version %d", d.Version)
	}
	if d.FeatureCount < 0 {
		return errors.NewValidationError("feature_count", "must be non-negative", d.FeatureCount)
	}

	switch d.Kind {
	case KindDecisionTree:
		if len(d.Nodes) == 0 {
			return errors.NewValidationError("nodes", "decision tree has no nodes", 0)
		}
		for i, n := range d.Nodes {
			if !n.Leaf && int(n.Feature) >= d.FeatureCount {
				return errors.NewValidationError("nodes", "feature index out of range", i)
			}
		}
	case KindAdaBoost, KindOneVsRest:
		if d.Kind == KindAdaBoost && len(d.Learners) != 1 {
			return errors.NewValidationError("learners", "binary model must hold exactly one learner list", len(d.Learners))
		}
		if d.Kind == KindOneVsRest && len(d.Learners) != len(d.Classes) {
			return errors.NewValidationError("learners", "one learner list per class required", len(d.Learners))
		}
		for _, stumps := range d.Learners {
			for _, s := range stumps {
				if int(s.Feature) >= d.FeatureCount {
					return errors.NewValidationError("learners", "feature index out of range", s.Feature)
				}
				if s.Polarity != 1 && s.Polarity != -1 {
					return errors.NewValidationError("learners", "polarity must be +1 or -1", s.Polarity)
				}
			}
		}
	case KindScaler:
		if len(d.Mean) != d.FeatureCount || len(d.Scale) != d.FeatureCount {
			return errors.NewDimensionError("Document.Validate", d.FeatureCount, len(d.Mean), 1)
		}
	default:
		return errors.NewValidationError("kind", "unknown model kind", d.Kind)
	}
	return nil
}

// Encode は文書を指定形式で w に書き出す
func Encode(w io.Writer, doc *Document, enc Encoding) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	switch enc {
	case EncodingMsgpack:
		if err := msgpack.NewEncoder(w).Encode(doc); err != nil {
			return errors.Wrap(err, "failed to encode model document as msgpack")
		}
	default:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		if err := e.Encode(doc); err != nil {
			return errors.Wrap(err, "failed to encode model document as json")
		}
	}
	return nil
}

// Decode は r から文書を読み込み、検証する
func Decode(r io.Reader, enc Encoding) (*Document, error) {
	var doc Document
	switch enc {
	case EncodingMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "failed to decode msgpack model document")
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "failed to decode json model document")
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save は文書をファイルに保存する。形式は拡張子で決まる。
// 一時ファイルに書いてから rename するので、途中で失敗しても既存ファイルは壊れない。
func Save(path string, doc *Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}
	f, err := os.CreateTemp(dir, ".langid-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := Encode(f, doc, EncodingForPath(path)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "failed to close temp file")
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// Load はファイルから文書を読み込む
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open model file %s", path)
	}
	defer f.Close()
	return Decode(f, EncodingForPath(path))
}

// Persistable はモデル文書との相互変換ができるモデル
type Persistable interface {
	ToDocument() (*Document, error)
	FromDocument(doc *Document) error
}

// SaveModel は Persistable なモデルをファイルに保存する
//
//	clf := tree.NewDecisionTreeClassifier()
//	// ... 学習 ...
//	err := model.SaveModel(clf, "tree.json")
func SaveModel(m Persistable, path string) error {
	doc, err := m.ToDocument()
	if err != nil {
		return err
	}
	return Save(path, doc)
}

// LoadModel はファイルから読み込んだ文書で m を復元する
func LoadModel(m Persistable, path string) error {
	doc, err := Load(path)
	if err != nil {
		return err
	}
	return m.FromDocument(doc)
}
