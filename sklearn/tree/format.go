package tree

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/YuminosukeSato/langid/pkg/errors"
)

// Format returns an indented text dump of the tree, one node per line:
//
//	Feature 0 <= 2
//	  Predict: 0
//	  Predict: 1
func Format(root *Node) string {
	var sb strings.Builder
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		indent := strings.Repeat("  ", depth)
		if n.IsLeaf() {
			fmt.Fprintf(&sb, "%sPredict: %d\n", indent, n.Value)
			return
		}
		fmt.Fprintf(&sb, "%sFeature %d <= %s\n", indent, n.FeatureIndex, formatThreshold(n.Threshold))
		walk(n.Left, depth+1)
		walk(n.Right, depth+1)
	}
	if root != nil {
		walk(root, 0)
	}
	return sb.String()
}

func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

type renderConfig struct {
	featureNames []string
	classNames   map[int]string
}

// RenderOption customizes node labels in Render.
type RenderOption func(*renderConfig)

// WithFeatureNames labels internal nodes with feature names instead of indices.
func WithFeatureNames(names []string) RenderOption {
	return func(c *renderConfig) {
		c.featureNames = names
	}
}

// WithClassNames labels leaves with class names instead of integer labels.
func WithClassNames(names map[int]string) RenderOption {
	return func(c *renderConfig) {
		c.classNames = names
	}
}

func (c *renderConfig) feature(i int) string {
	if i < len(c.featureNames) {
		return c.featureNames[i]
	}
	return "x[" + strconv.Itoa(i) + "]"
}

func (c *renderConfig) class(v int) string {
	if name, ok := c.classNames[v]; ok {
		return name
	}
	return strconv.Itoa(v)
}

// Render draws the tree with graphviz and writes it to w in the given format
// (graphviz.XDOT, graphviz.SVG, graphviz.PNG, graphviz.JPG).
func Render(root *Node, format graphviz.Format, w io.Writer, opts ...RenderOption) error {
	if root == nil {
		return errors.NewValueError("tree.Render", "nil tree")
	}
	cfg := &renderConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	gv := graphviz.New()
	defer gv.Close()
	graph, err := gv.Graph()
	if err != nil {
		return errors.Wrap(err, "failed to create graph")
	}
	defer graph.Close()

	id := 0
	var draw func(n *Node, parent *cgraph.Node, edgeLabel string) error
	draw = func(n *Node, parent *cgraph.Node, edgeLabel string) error {
		current, err := graph.CreateNode(strconv.Itoa(id))
		if err != nil {
			return errors.Wrap(err, "failed to create graph node")
		}
		id++
		if parent != nil {
			edge, err := graph.CreateEdge("", parent, current)
			if err != nil {
				return errors.Wrap(err, "failed to create graph edge")
			}
			edge.SetLabel(edgeLabel)
		}

		if n.IsLeaf() {
			current.Set("label", cfg.class(n.Value))
			current.Set("shape", "box")
			return nil
		}
		current.Set("label", fmt.Sprintf("%s <= %s", cfg.feature(n.FeatureIndex), formatThreshold(n.Threshold)))
		if err := draw(n.Left, current, "yes"); err != nil {
			return err
		}
		return draw(n.Right, current, "no")
	}
	if err := draw(root, nil, ""); err != nil {
		return err
	}

	if err := gv.Render(graph, format, w); err != nil {
		return errors.Wrapf(err, "failed to render tree as %s", format)
	}
	return nil
}
