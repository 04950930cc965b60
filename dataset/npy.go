package dataset

import (
	"math"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/langid/core/model"
	"github.com/YuminosukeSato/langid/pkg/errors"
)

// ReadNpy は特徴量行列 (n×d, float64) とラベル (n, float64) を .npy ファイルから読み込む。
// ラベルは整数値でなければならない。
func ReadNpy(xPath, yPath string) ([][]float64, []int, error) {
	var X mat.Dense
	if err := readNpy(xPath, &X); err != nil {
		return nil, nil, err
	}
	var raw []float64
	if err := readNpy(yPath, &raw); err != nil {
		return nil, nil, err
	}

	rows := model.Rows(&X)
	if len(rows) != len(raw) {
		return nil, nil, errors.NewDimensionError("ReadNpy", len(rows), len(raw), 0)
	}
	y := make([]int, len(raw))
	for i, v := range raw {
		if v != math.Trunc(v) {
			return nil, nil, errors.Wrapf(errors.NewValueError("ReadNpy", "labels must be integral"), "row %d", i)
		}
		y[i] = int(v)
	}
	return rows, y, nil
}

func readNpy(path string, ptr interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "failed to read npy header of %s", path)
	}
	if err := r.Read(ptr); err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}
	return nil
}

// WriteNpy は X と y を .npy ファイルに書き出す。ReadNpy と対になる。
func WriteNpy(xPath, yPath string, X [][]float64, y []int) error {
	m, err := model.FromRows(X)
	if err != nil {
		return err
	}
	if err := writeNpy(xPath, m); err != nil {
		return err
	}
	labels := make([]float64, len(y))
	for i, v := range y {
		labels[i] = float64(v)
	}
	return writeNpy(yPath, labels)
}

func writeNpy(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := npyio.Write(f, v); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return errors.Wrap(f.Close(), "failed to close npy file")
}
