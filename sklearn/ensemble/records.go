package ensemble

import (
	"slices"

	"github.com/YuminosukeSato/langid/core/model"
	"github.com/YuminosukeSato/langid/pkg/errors"
)

// ToRecords converts stumps into their persisted form, keeping round order.
func ToRecords(stumps []DecisionStump) ([]model.StumpRecord, error) {
	records := make([]model.StumpRecord, len(stumps))
	for i, s := range stumps {
		f, err := model.FeatureIndex(s.FeatureIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "stump %d", i)
		}
		var polarity int8 = 1
		if s.Polarity < 0 {
			polarity = -1
		}
		records[i] = model.StumpRecord{Feature: f, Threshold: s.Threshold, Polarity: polarity, Alpha: s.Alpha}
	}
	return records, nil
}

// FromRecords is the inverse of ToRecords.
func FromRecords(records []model.StumpRecord) ([]DecisionStump, error) {
	stumps := make([]DecisionStump, len(records))
	for i, r := range records {
		if r.Polarity != 1 && r.Polarity != -1 {
			return nil, errors.Wrapf(errors.NewValidationError("polarity", "must be +1 or -1", r.Polarity), "stump %d", i)
		}
		stumps[i] = DecisionStump{
			FeatureIndex: int(r.Feature),
			Threshold:    r.Threshold,
			Polarity:     int(r.Polarity),
			Alpha:        r.Alpha,
		}
	}
	return stumps, nil
}

// ToDocument exports the fitted booster.
func (ab *AdaBoostClassifier) ToDocument() (*model.Document, error) {
	if err := ab.state.RequireFitted("AdaBoostClassifier", "ToDocument"); err != nil {
		return nil, err
	}
	records, err := ToRecords(ab.stumps)
	if err != nil {
		return nil, err
	}
	doc := model.NewDocument(model.KindAdaBoost, ab.NFeatures())
	doc.Classes = []int{-1, 1}
	doc.Learners = [][]model.StumpRecord{records}
	return doc, nil
}

// FromDocument restores a booster saved by ToDocument.
func (ab *AdaBoostClassifier) FromDocument(doc *model.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if doc.Kind != model.KindAdaBoost {
		return errors.NewValidationError("kind", "not an adaboost document", doc.Kind)
	}
	return ab.restore(doc.Learners[0], doc.FeatureCount)
}

func (ab *AdaBoostClassifier) restore(records []model.StumpRecord, nFeatures int) error {
	stumps, err := FromRecords(records)
	if err != nil {
		return err
	}
	if ab.state == nil {
		ab.state = model.NewStateManager()
	}
	ab.state.Reset()
	ab.stumps = stumps
	ab.nLearners = len(stumps)
	ab.state.SetDimensions(nFeatures, 0)
	ab.state.SetFitted()
	return nil
}

// ToDocument exports every per-class booster in class order.
func (o *OneVsRestClassifier) ToDocument() (*model.Document, error) {
	if err := o.state.RequireFitted("OneVsRestClassifier", "ToDocument"); err != nil {
		return nil, err
	}
	nFeatures, _ := o.state.GetDimensions()
	doc := model.NewDocument(model.KindOneVsRest, nFeatures)
	doc.Classes = slices.Clone(o.classes)
	doc.Learners = make([][]model.StumpRecord, len(o.models))
	for i, m := range o.models {
		records, err := ToRecords(m.stumps)
		if err != nil {
			return nil, errors.Wrapf(err, "class %d", o.classes[i])
		}
		doc.Learners[i] = records
	}
	return doc, nil
}

// FromDocument restores a classifier saved by ToDocument.
func (o *OneVsRestClassifier) FromDocument(doc *model.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if doc.Kind != model.KindOneVsRest {
		return errors.NewValidationError("kind", "not a one-vs-rest document", doc.Kind)
	}
	models := make([]*AdaBoostClassifier, len(doc.Learners))
	for i, records := range doc.Learners {
		m := NewAdaBoostClassifier()
		if err := m.restore(records, doc.FeatureCount); err != nil {
			return errors.Wrapf(err, "class %d", doc.Classes[i])
		}
		models[i] = m
	}
	if o.state == nil {
		o.state = model.NewStateManager()
	}
	o.state.Reset()
	o.classes = slices.Clone(doc.Classes)
	o.models = models
	o.state.SetDimensions(doc.FeatureCount, 0)
	o.state.SetFitted()
	return nil
}
