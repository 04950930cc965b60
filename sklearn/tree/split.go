package tree

// SplitDataset partitions (X, y) on X[i][featureIndex] <= threshold.
// Both sides keep the relative order of the input. Rows are shared, not copied.
func SplitDataset(X [][]float64, y []int, featureIndex int, threshold float64) (leftX [][]float64, leftY []int, rightX [][]float64, rightY []int) {
	for i, row := range X {
		if row[featureIndex] <= threshold {
			leftX = append(leftX, row)
			leftY = append(leftY, y[i])
		} else {
			rightX = append(rightX, row)
			rightY = append(rightY, y[i])
		}
	}
	return leftX, leftY, rightX, rightY
}
