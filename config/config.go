// Package config はCLIの学習・評価設定をTOMLファイルから読み込みます。
//
//	cfg, err := config.Load("langid.toml")
//	if err != nil {
//		return err
//	}
//	splits := cfg.MinSamplesSplits(len(records))
package config

import (
	"math"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/YuminosukeSato/langid/pkg/errors"
)

// Config は設定ファイル全体
type Config struct {
	Data     DataConfig     `toml:"data"`
	Tree     TreeConfig     `toml:"tree"`
	AdaBoost AdaBoostConfig `toml:"adaboost"`
	Output   OutputConfig   `toml:"output"`
	Log      LogConfig      `toml:"log"`
}

// DataConfig は入力データと分割の設定
type DataConfig struct {
	// Path は "tag: f1, f2, ..." 形式のレコードファイル
	Path string `toml:"path"`
	// LabelsPath は Path が .npy のときの整数ラベルファイル
	LabelsPath string `toml:"labels_path"`
	// SampleSize が 0 なら全件を使う
	SampleSize  int     `toml:"sample_size"`
	TestSize    float64 `toml:"test_size"`
	Seed        uint64  `toml:"seed"`
	Standardize bool    `toml:"standardize"`
}

// TreeConfig は決定木のグリッドサーチ範囲
type TreeConfig struct {
	MaxDepths []int `toml:"max_depths"`
	// MinSamplesSplitFractions はサンプル数に掛けて min_samples_split にする
	MinSamplesSplitFractions []float64 `toml:"min_samples_split_fractions"`
	// MinSamplesSplits を指定すると MinSamplesSplitFractions より優先される
	MinSamplesSplits []int `toml:"min_samples_splits"`
}

// AdaBoostConfig はAdaBoostの学習設定
type AdaBoostConfig struct {
	NLearners    []int    `toml:"n_learners"`
	WeightUpdate string   `toml:"weight_update"`
	Classes      []string `toml:"classes"`
}

// OutputConfig はモデルとプロットの出力先
type OutputConfig struct {
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
	Plot   bool   `toml:"plot"`
}

// LogConfig はログ設定
type LogConfig struct {
	Level string `toml:"level"`
}

// Default はデフォルト設定を返す
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Path:       "features.txt",
			SampleSize: 1000,
			TestSize:   0.2,
			Seed:       42,
		},
		Tree: TreeConfig{
			MaxDepths:                []int{3, 4, 5},
			MinSamplesSplitFractions: []float64{0.01, 0.02, 0.05},
		},
		AdaBoost: AdaBoostConfig{
			NLearners:    []int{10, 15, 50, 100},
			WeightUpdate: "linear",
			Classes:      []string{"it", "nl", "en"},
		},
		Output: OutputConfig{
			Dir:    "models",
			Format: "json",
			Plot:   true,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load は path のTOMLファイルを Default の上に読み込み、検証する。
// 未知のキーはエラーになる。
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: failed to parse TOML", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Newf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return cfg, nil
}

// Validate は設定値の範囲を検証する
func (c *Config) Validate() error {
	if strings.HasSuffix(c.Data.Path, ".npy") && c.Data.LabelsPath == "" {
		return errors.NewValidationError("data.labels_path", "required for .npy features", c.Data.Path)
	}
	if c.Data.SampleSize < 0 {
		return errors.NewValidationError("data.sample_size", "must be non-negative", c.Data.SampleSize)
	}
	if c.Data.TestSize <= 0 || c.Data.TestSize >= 1 {
		return errors.NewValidationError("data.test_size", "must be in (0, 1)", c.Data.TestSize)
	}

	if len(c.Tree.MaxDepths) == 0 {
		return errors.NewValidationError("tree.max_depths", "at least one depth required", c.Tree.MaxDepths)
	}
	for _, d := range c.Tree.MaxDepths {
		if d < -1 {
			return errors.NewValidationError("tree.max_depths", "must be -1 or non-negative", d)
		}
	}
	if len(c.Tree.MinSamplesSplits) == 0 && len(c.Tree.MinSamplesSplitFractions) == 0 {
		return errors.NewValidationError("tree.min_samples_splits", "either absolute values or fractions required", 0)
	}
	for _, f := range c.Tree.MinSamplesSplitFractions {
		if f <= 0 || f > 1 || math.IsNaN(f) {
			return errors.NewValidationError("tree.min_samples_split_fractions", "must be in (0, 1]", f)
		}
	}
	for _, m := range c.Tree.MinSamplesSplits {
		if m < 1 {
			return errors.NewValidationError("tree.min_samples_splits", "must be at least 1", m)
		}
	}

	if len(c.AdaBoost.NLearners) == 0 {
		return errors.NewValidationError("adaboost.n_learners", "at least one candidate required", c.AdaBoost.NLearners)
	}
	for _, n := range c.AdaBoost.NLearners {
		if n < 0 {
			return errors.NewValidationError("adaboost.n_learners", "must be non-negative", n)
		}
	}
	switch c.AdaBoost.WeightUpdate {
	case "", "linear", "exponential":
	default:
		return errors.NewValidationError("adaboost.weight_update", "must be linear or exponential", c.AdaBoost.WeightUpdate)
	}

	switch c.Output.Format {
	case "json", "msgpack":
	default:
		return errors.NewValidationError("output.format", "must be json or msgpack", c.Output.Format)
	}
	return nil
}

// MinSamplesSplits は min_samples_split の候補を返す。
// 絶対値が指定されていればそれを、なければ各割合に n を掛けた値（最低1）を使う。
// 重複は取り除き、昇順に並べる。
func (c *Config) MinSamplesSplits(n int) []int {
	var out []int
	if len(c.Tree.MinSamplesSplits) > 0 {
		out = slices.Clone(c.Tree.MinSamplesSplits)
	} else {
		for _, f := range c.Tree.MinSamplesSplitFractions {
			out = append(out, max(1, int(f*float64(n))))
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// ModelExt は出力形式に対応するモデルファイルの拡張子
func (c *Config) ModelExt() string {
	if c.Output.Format == "msgpack" {
		return ".msgpack"
	}
	return ".json"
}
