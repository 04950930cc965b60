// Command langid は短いテキスト断片の言語識別モデルを学習・評価するCLIです。
//
//	langid extract -o abstracts_it.json itwiki-abstract.xml
//	langid featurize --tag it --lengths 50,20,10 -o features.txt abstracts_it.json
//	langid train tree --config langid.toml
//	langid train adaboost --config langid.toml
//	langid predict --model models/adaboost.json "Il gatto dorme sul divano"
//	langid render --model models/tree.json -o tree.svg
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/langid/config"
	"github.com/YuminosukeSato/langid/pkg/errors"
	"github.com/YuminosukeSato/langid/pkg/log"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "langid",
		Short:         "Language identification with decision trees and AdaBoost",
		Long:          `langid extracts text segments from Wikipedia abstracts, turns them into features and trains tree and boosting classifiers on them`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			colorFlag, _ := cmd.Flags().GetString("color")
			switch colorFlag {
			case "on":
				color.NoColor = false
			case "off":
				color.NoColor = true
			}
			level, _ := cmd.Flags().GetString("log-level")
			return log.SetupLogger(level)
		},
	}
	root.Version = Version

	// グローバルフラグ
	root.PersistentFlags().String("config", "", "TOML config file (defaults are used when empty)")
	root.PersistentFlags().String("log-level", "warn", "log level (debug|info|warn|error)")
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	root.AddCommand(newExtractCmd())
	root.AddCommand(newFeaturizeCmd())
	root.AddCommand(newTrainCmd())
	root.AddCommand(newPredictCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig は --config が指定されていれば読み込み、なければデフォルトを返す。
// [log] level は --log-level が明示されたときは上書きしない。
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if !cmd.Flags().Changed("log-level") {
		if err := log.SetupLogger(cfg.Log.Level); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func main() {
	err := errors.SafeExecute("langid", func() error {
		return newRootCmd().Execute()
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}
