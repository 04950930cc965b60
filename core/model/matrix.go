package model

import (
	"math"

	"fortio.org/safecast"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/langid/pkg/errors"
)

// maxExactInt is the largest integer a float64 holds exactly.
const maxExactInt = 1 << 53

// Rows copies X into a slice of rows.
func Rows(X mat.Matrix) [][]float64 {
	r, c := X.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		row := make([]float64, c)
		for j := range row {
			row[j] = X.At(i, j)
		}
		rows[i] = row
	}
	return rows
}

// Labels reads an n×1 matrix of integral class labels.
func Labels(y mat.Matrix) ([]int, error) {
	r, c := y.Dims()
	if c != 1 {
		return nil, errors.NewDimensionError("Labels", 1, c, 1)
	}
	labels := make([]int, r)
	for i := range labels {
		v := y.At(i, 0)
		if v != math.Trunc(v) || math.Abs(v) > maxExactInt {
			return nil, errors.Wrapf(errors.NewValueError("Labels", "class labels must be integral"), "row %d", i)
		}
		labels[i] = int(v)
	}
	return labels, nil
}

// FromRows builds a dense matrix from equal-length rows.
func FromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, errors.ErrEmptyData
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, errors.ErrEmptyData
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, errors.Wrapf(errors.NewDimensionError("FromRows", cols, len(row), 1), "row %d", i)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

// LabelVec converts labels into a column vector.
func LabelVec(labels []int) *mat.VecDense {
	data := make([]float64, len(labels))
	for i, l := range labels {
		data[i] = float64(l)
	}
	return mat.NewVecDense(len(labels), data)
}

// FeatureIndex narrows a feature index for storage in a model document.
func FeatureIndex(i int) (uint32, error) {
	return safecast.Conv[uint32](i)
}
