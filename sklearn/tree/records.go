package tree

import (
	"slices"

	"github.com/YuminosukeSato/langid/core/model"
	"github.com/YuminosukeSato/langid/pkg/errors"
)

// ToRecords flattens the tree in pre-order: each internal node is followed
// by its left subtree, then its right subtree.
func ToRecords(root *Node) ([]model.NodeRecord, error) {
	if root == nil {
		return nil, errors.NewValueError("tree.ToRecords", "nil tree")
	}
	records := make([]model.NodeRecord, 0, root.NNodes())
	var walk func(n *Node) error
	walk = func(n *Node) error {
		if n.IsLeaf() {
			records = append(records, model.NodeRecord{Leaf: true, Value: n.Value})
			return nil
		}
		if n.Left == nil || n.Right == nil {
			return errors.NewValueError("tree.ToRecords", "internal node with a single child")
		}
		f, err := model.FeatureIndex(n.FeatureIndex)
		if err != nil {
			return errors.Wrapf(err, "feature index %d", n.FeatureIndex)
		}
		records = append(records, model.NodeRecord{Feature: f, Threshold: n.Threshold})
		if err := walk(n.Left); err != nil {
			return err
		}
		return walk(n.Right)
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return records, nil
}

// FromRecords rebuilds a tree from its pre-order records. A stream that ends
// inside a subtree or carries records past the root's last leaf is rejected.
func FromRecords(records []model.NodeRecord) (*Node, error) {
	pos := 0
	var read func() (*Node, error)
	read = func() (*Node, error) {
		if pos >= len(records) {
			return nil, errors.NewValueError("tree.FromRecords", "truncated pre-order stream")
		}
		r := records[pos]
		pos++
		if r.Leaf {
			return &Node{Value: r.Value}, nil
		}
		left, err := read()
		if err != nil {
			return nil, err
		}
		right, err := read()
		if err != nil {
			return nil, err
		}
		return &Node{FeatureIndex: int(r.Feature), Threshold: r.Threshold, Left: left, Right: right}, nil
	}

	root, err := read()
	if err != nil {
		return nil, err
	}
	if pos != len(records) {
		return nil, errors.NewValueError("tree.FromRecords", "trailing records after the root subtree")
	}
	return root, nil
}

// ToDocument exports the fitted tree as a model document.
func (dt *DecisionTreeClassifier) ToDocument() (*model.Document, error) {
	if err := dt.state.RequireFitted("DecisionTreeClassifier", "ToDocument"); err != nil {
		return nil, err
	}
	nodes, err := ToRecords(dt.root)
	if err != nil {
		return nil, err
	}
	nFeatures, _ := dt.state.GetDimensions()
	doc := model.NewDocument(model.KindDecisionTree, nFeatures)
	doc.Classes = slices.Clone(dt.classes)
	doc.Nodes = nodes
	return doc, nil
}

// FromDocument restores a tree saved by ToDocument.
func (dt *DecisionTreeClassifier) FromDocument(doc *model.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if doc.Kind != model.KindDecisionTree {
		return errors.NewValidationError("kind", "not a decision tree document", doc.Kind)
	}
	root, err := FromRecords(doc.Nodes)
	if err != nil {
		return err
	}
	if dt.state == nil {
		dt.state = model.NewStateManager()
	}
	dt.state.Reset()
	dt.root = root
	dt.classes = slices.Clone(doc.Classes)
	dt.featureImportances = make([]float64, doc.FeatureCount)
	dt.state.SetDimensions(doc.FeatureCount, 0)
	dt.state.SetFitted()
	return nil
}
