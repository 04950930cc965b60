package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/langid/pkg/errors"
	"github.com/YuminosukeSato/langid/sklearn/tree"
)

// renderFormat は出力ファイルの拡張子から graphviz の形式を決める
func renderFormat(path string) (graphviz.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return graphviz.SVG, nil
	case ".png":
		return graphviz.PNG, nil
	case ".jpg", ".jpeg":
		return graphviz.JPG, nil
	case ".dot", ".gv":
		return graphviz.XDOT, nil
	default:
		return "", errors.NewValidationError("output", "unsupported image format (svg, png, jpg, dot)", path)
	}
}

func newRenderCmd() *cobra.Command {
	var modelPath, output string
	var text bool
	cmd := &cobra.Command{
		Use:   "render --model tree.json -o tree.svg",
		Short: "Draw a saved decision tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := loadModel(modelPath)
			if err != nil {
				return err
			}
			dt, ok := m.classifier.(*tree.DecisionTreeClassifier)
			if !ok {
				return errors.NewValidationError("model", "not a decision tree", m.doc.Kind)
			}
			if text {
				cmd.Print(tree.Format(dt.Root()))
				return nil
			}
			if err := renderTree(m, dt.Root(), output); err != nil {
				return err
			}
			cmd.Printf("%s %s\n", color.GreenString("rendered"), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&modelPath, "model", "m", "", "decision tree model file")
	cmd.Flags().StringVarP(&output, "output", "o", "tree.svg", "output image (format from extension)")
	cmd.Flags().BoolVar(&text, "text", false, "print the tree as text instead of drawing it")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func renderTree(m *loadedModel, root *tree.Node, output string) error {
	format, err := renderFormat(output)
	if err != nil {
		return err
	}
	opts := []tree.RenderOption{}
	if names := m.featurizer().FeatureNames(); len(names) == m.doc.FeatureCount {
		opts = append(opts, tree.WithFeatureNames(names))
	}
	if len(m.doc.ClassNames) > 0 {
		classNames := make(map[int]string, len(m.doc.ClassNames))
		for i, name := range m.doc.ClassNames {
			classNames[i] = name
		}
		opts = append(opts, tree.WithClassNames(classNames))
	}

	f, err := os.Create(output)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", output)
	}
	if err := tree.Render(root, format, f, opts...); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "failed to close %s", output)
}
