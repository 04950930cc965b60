// Package langid identifies the language of short text segments with
// decision trees and AdaBoost over decision stumps.
//
// The library follows a scikit-learn-like API on top of gonum matrices, and
// every estimator also accepts plain [][]float64 rows for tight inner loops
// such as hyperparameter search.
//
// # Features
//
//   - Entropy-based decision trees with depth and minimum-split limits
//   - Binary AdaBoost of decision stumps, combined one-vs-rest for
//     multi-class problems
//   - Grid search over tree hyperparameters and boosting round counts
//   - Text features for Italian, Dutch and English segments
//   - Versioned model files in JSON or MessagePack
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/langid/sklearn/tree"
//	)
//
//	func main() {
//	    X := [][]float64{{1.2, 0.6}, {1.1, 0.7}, {0.6, 0.2}, {0.5, 0.3}}
//	    y := []int{0, 0, 1, 1}
//
//	    clf := tree.NewDecisionTreeClassifier(tree.WithMaxDepth(3))
//	    if err := clf.FitSamples(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//	    pred, err := clf.PredictSamples([][]float64{{1.0, 0.65}})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(pred)
//	}
//
// # Packages
//
//   - sklearn/tree: decision tree building, prediction, tuning and rendering
//   - sklearn/ensemble: decision stumps, AdaBoost, learner-count tuning, one-vs-rest
//   - sklearn/model_selection: seeded train/test split, k-fold cross validation
//   - preprocessing: text features and standardization
//   - dataset: abstract dumps, segment extraction, tagged feature records
//   - metrics: accuracy and confusion matrices
//   - core/model: estimator interfaces, fitted state and model documents
//   - core/parallel: bounded parallel loops
//   - config: TOML configuration for the langid command
//   - report: tuning plots
//
// The langid command in cmd/langid drives the whole pipeline from
// Wikipedia abstract dumps to saved models.
package langid
