package tree

import (
	"math"
	"slices"
)

// Entropy returns the Shannon entropy of the label multiset in bits.
// It is 0 for an empty or single-class input.
func Entropy(y []int) float64 {
	if len(y) == 0 {
		return 0
	}
	counts := make(map[int]int)
	for _, label := range y {
		counts[label]++
	}
	labels := make([]int, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	dense := make([]int, len(labels))
	for i, label := range labels {
		dense[i] = counts[label]
	}
	return entropyFromCounts(dense, len(y))
}

// entropyFromCounts sums over counts in index order, so equal count vectors
// always produce bit-identical results.
func entropyFromCounts(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	h := 0.0
	total := float64(n)
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		h -= p * math.Log2(p)
	}
	return h
}

// weightedEntropy is len(S)*H(S) for a subset described by its class counts.
func weightedEntropy(counts []int, n int) float64 {
	return float64(n) * entropyFromCounts(counts, n)
}

// majority returns the index of the most frequent class; ties go to the lowest index.
// Classes are indexed in ascending label order, so this is the lowest label.
func majority(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}

func isPure(counts []int) bool {
	seen := 0
	for _, c := range counts {
		if c > 0 {
			seen++
		}
	}
	return seen <= 1
}
