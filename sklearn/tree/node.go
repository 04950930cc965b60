// Package tree implements a binary decision tree classifier that chooses each
// split by minimizing the size-weighted Shannon entropy of the two children.
//
// The tree is built recursively over numeric feature vectors. At every node
// the candidate thresholds of a feature are the distinct values that feature
// takes in the node's subset, and samples with x[f] <= threshold go left.
// Features are scanned in ascending order and thresholds in ascending order
// within a feature; the first candidate with the strictly smallest score wins,
// so the same input always yields the same tree.
package tree

import (
	"github.com/YuminosukeSato/langid/pkg/errors"
)

// Unlimited disables the depth limit of BuildTree.
const Unlimited = -1

// Node is a decision tree node. A node is a leaf iff both children are nil,
// and only leaves carry a meaningful Value. ToRecords drops Value for
// internal nodes, so their records hold only Feature and Threshold.
type Node struct {
	FeatureIndex int
	Threshold    float64
	Left         *Node
	Right        *Node
	Value        int
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Depth returns the number of edges on the longest root-to-leaf path.
func (n *Node) Depth() int {
	if n == nil || n.IsLeaf() {
		return 0
	}
	return 1 + max(n.Left.Depth(), n.Right.Depth())
}

// NLeaves returns the number of leaves below and including n.
func (n *Node) NLeaves() int {
	if n == nil {
		return 0
	}
	if n.IsLeaf() {
		return 1
	}
	return n.Left.NLeaves() + n.Right.NLeaves()
}

// NNodes returns the total number of nodes below and including n.
func (n *Node) NNodes() int {
	if n == nil {
		return 0
	}
	return 1 + n.Left.NNodes() + n.Right.NNodes()
}

// Predict routes sample from node to a leaf and returns the leaf's value.
// At each internal node it goes left when sample[FeatureIndex] <= Threshold.
func Predict(node *Node, sample []float64) (int, error) {
	if node == nil {
		return 0, errors.NewValueError("tree.Predict", "nil tree")
	}
	for !node.IsLeaf() {
		f := node.FeatureIndex
		if f >= len(sample) {
			return 0, errors.NewDimensionError("tree.Predict", f+1, len(sample), 1)
		}
		if sample[f] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value, nil
}

// PredictAll applies Predict to every sample.
func PredictAll(node *Node, samples [][]float64) ([]int, error) {
	out := make([]int, len(samples))
	for i, s := range samples {
		v, err := Predict(node, s)
		if err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
		out[i] = v
	}
	return out, nil
}
