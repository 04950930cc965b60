package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/langid/config"
	"github.com/YuminosukeSato/langid/core/model"
	"github.com/YuminosukeSato/langid/metrics"
	"github.com/YuminosukeSato/langid/pkg/errors"
	"github.com/YuminosukeSato/langid/pkg/log"
	"github.com/YuminosukeSato/langid/report"
	"github.com/YuminosukeSato/langid/sklearn/ensemble"
	"github.com/YuminosukeSato/langid/sklearn/tree"
)

func newTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Tune and train a classifier on tagged feature records",
	}
	cmd.AddCommand(newTrainTreeCmd())
	cmd.AddCommand(newTrainAdaBoostCmd())
	return cmd
}

func newTrainTreeCmd() *cobra.Command {
	var printTree bool
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Grid-search max_depth and min_samples_split of a decision tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path, err := trainTree(cfg, cmd.OutOrStdout(), printTree)
			if err != nil {
				return err
			}
			cmd.Printf("%s %s\n", color.GreenString("saved"), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&printTree, "print", false, "print the selected tree")
	return cmd
}

// trainTree は決定木のグリッドサーチを行い、最良の木を保存してそのパスを返す
func trainTree(cfg *config.Config, out io.Writer, printTree bool) (string, error) {
	data, err := prepare(cfg, nil)
	if err != nil {
		return "", err
	}
	minSplits := cfg.MinSamplesSplits(len(data.Xtrain))
	res, err := tree.HyperparameterTuning(data.Xtrain, data.ytrain, data.Xtest, data.ytest, cfg.Tree.MaxDepths, minSplits)
	if err != nil {
		return "", err
	}

	nodes, err := tree.ToRecords(res.Tree)
	if err != nil {
		return "", err
	}
	doc := model.NewDocument(model.KindDecisionTree, len(data.Xtrain[0]))
	doc.Classes = data.encoder.Labels()
	doc.Nodes = nodes
	data.annotate(doc)
	doc.Meta["accuracy"] = formatFloat(res.Accuracy)
	doc.Meta["max_depth"] = strconv.Itoa(res.BestDepth)
	doc.Meta["min_samples_split"] = strconv.Itoa(res.BestMinSplit)

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create %s", cfg.Output.Dir)
	}
	path := filepath.Join(cfg.Output.Dir, "tree"+cfg.ModelExt())
	if err := model.Save(path, doc); err != nil {
		return "", err
	}
	if cfg.Output.Plot {
		if err := report.PlotTreeGrid(res.Scores, filepath.Join(cfg.Output.Dir, "tree_grid.png")); err != nil {
			return "", err
		}
	}

	fmt.Fprintf(out, "%s max_depth=%d min_samples_split=%d accuracy=%s\n",
		color.CyanString("best tree:"), res.BestDepth, res.BestMinSplit, color.GreenString("%.4f", res.Accuracy))
	fmt.Fprintf(out, "  depth %d, %d leaves\n", res.Tree.Depth(), res.Tree.NLeaves())
	if printTree {
		fmt.Fprint(out, tree.Format(res.Tree))
	}
	return path, nil
}

func newTrainAdaBoostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adaboost",
		Short: "Tune one AdaBoost model per language and combine them one-vs-rest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path, err := trainAdaBoost(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			cmd.Printf("%s %s\n", color.GreenString("saved"), path)
			return nil
		},
	}
}

// trainAdaBoost は言語ごとに弱学習器の数を調整し、one-vs-rest に組み合わせて保存する
func trainAdaBoost(cfg *config.Config, out io.Writer) (string, error) {
	update, err := ensemble.ParseWeightUpdate(cfg.AdaBoost.WeightUpdate)
	if err != nil {
		return "", err
	}
	data, err := prepare(cfg, cfg.AdaBoost.Classes)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create %s", cfg.Output.Dir)
	}

	logger := log.GetLoggerWithName("cli.train")
	tags := data.encoder.Classes()
	labels := data.encoder.Labels()
	models := make([]*ensemble.AdaBoostClassifier, len(labels))
	meta := make(map[string]string)
	for _, label := range labels {
		tag := tags[label]
		res, err := ensemble.TuneNumberOfLearners(
			data.Xtrain, ensemble.Binarize(data.ytrain, label),
			data.Xtest, ensemble.Binarize(data.ytest, label),
			cfg.AdaBoost.NLearners, ensemble.WithWeightUpdate(update))
		if err != nil {
			return "", errors.Wrapf(err, "class %s", tag)
		}
		models[label] = res.Model
		meta["n_learners."+tag] = strconv.Itoa(res.BestNLearners)
		meta["accuracy."+tag] = formatFloat(res.Accuracy)

		logger.Info("Tuned class model",
			log.ClassKey, tag,
			log.LearnersKey, res.BestNLearners,
			log.AccuracyKey, res.Accuracy)
		fmt.Fprintf(out, "%s n_learners=%d accuracy=%s\n",
			color.CyanString("%-4s", tag), res.BestNLearners, color.GreenString("%.4f", res.Accuracy))

		if cfg.Output.Plot {
			plotPath := filepath.Join(cfg.Output.Dir, "adaboost_"+tag+".png")
			if err := report.PlotLearnerCurve(res.Scores, tag, plotPath); err != nil {
				return "", err
			}
		}
	}

	ovr, err := ensemble.NewOneVsRestFromModels(labels, models)
	if err != nil {
		return "", err
	}
	pred, err := ovr.PredictSamples(data.Xtest)
	if err != nil {
		return "", err
	}
	acc, err := metrics.AccuracyScore(data.ytest, pred)
	if err != nil {
		return "", err
	}
	cm, err := metrics.ConfusionMatrix(data.ytest, pred, labels)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(out, "%s accuracy=%s\n", color.CyanString("one-vs-rest:"), color.GreenString("%.4f", acc))
	fmt.Fprintf(out, "  confusion (rows true, cols predicted: %s)\n", strings.Join(tags, ", "))
	for i := range labels {
		row := make([]string, len(labels))
		for j := range labels {
			row[j] = fmt.Sprintf("%5d", int(cm.At(i, j)))
		}
		fmt.Fprintf(out, "  %-4s%s\n", tags[i], strings.Join(row, " "))
	}

	doc, err := ovr.ToDocument()
	if err != nil {
		return "", err
	}
	data.annotate(doc)
	for k, v := range meta {
		doc.Meta[k] = v
	}
	doc.Meta["accuracy"] = formatFloat(acc)
	doc.Meta["weight_update"] = update.String()

	path := filepath.Join(cfg.Output.Dir, "adaboost"+cfg.ModelExt())
	if err := model.Save(path, doc); err != nil {
		return "", err
	}
	return path, nil
}
