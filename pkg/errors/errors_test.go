package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "BuildTree",
			kind:     "empty data",
			err:      fmt.Errorf("test error"),
			wantMsg:  "langid: BuildTree: empty data: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Predict",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "langid: Predict: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewModelError_WrapsSentinel(t *testing.T) {
	err := NewModelError("AdaBoost.Fit", "empty data", ErrEmptyData)
	if !Is(err, ErrEmptyData) {
		t.Error("Expected Is(err, ErrEmptyData) to be true")
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Predict", 3, 2, 1)

	want := "langid: Predict: dimension mismatch on axis 1 (features). Expected 3, got 2"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("DecisionTreeClassifier", "Predict")

	want := "langid: DecisionTreeClassifier: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("min_samples_split", "must be at least 1", 0)

	want := "langid: validation failed for parameter 'min_samples_split': must be at least 1 (got: 0)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValidationError")
	}
}

func TestWarn_UsesZerologFunc(t *testing.T) {
	var got []error
	SetZerologWarnFunc(func(w error) { got = append(got, w) })
	defer SetZerologWarnFunc(nil)

	Warn(NewNegativeWeightWarning(3, 2, 10))

	if len(got) != 1 {
		t.Fatalf("expected one warning, got %d", len(got))
	}
	want := "round 3: linear weight update produced 2 negative weights out of 10 samples"
	if got[0].Error() != want {
		t.Errorf("Error() = %v, want %v", got[0].Error(), want)
	}
}

func TestWarn_FallsBackToHandler(t *testing.T) {
	var got error
	SetWarningHandler(func(w error) { got = w })

	Warn(NewSkippedRecordWarning(7, "non-numeric value"))

	if got == nil || !strings.Contains(got.Error(), "line 7") {
		t.Errorf("expected handler to receive the warning, got %v", got)
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Predict", 10, 5)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "in Predict: expected 10, got 5"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestCheckScalar(t *testing.T) {
	if err := CheckScalar("alpha", 1.5, 0); err != nil {
		t.Errorf("finite value should pass, got %v", err)
	}

	err := CheckScalar("weight_sum", math.NaN(), 4)
	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Fatalf("expected NumericalInstabilityError, got %T", err)
	}
	if numErr.Iteration != 4 {
		t.Errorf("Iteration = %d, want 4", numErr.Iteration)
	}
}

func TestClipValue(t *testing.T) {
	if got := ClipValue(0, 1e-10, 1-1e-10); got != 1e-10 {
		t.Errorf("ClipValue low = %v", got)
	}
	if got := ClipValue(1, 1e-10, 1-1e-10); got != 1-1e-10 {
		t.Errorf("ClipValue high = %v", got)
	}
	if got := ClipValue(0.3, 1e-10, 1-1e-10); got != 0.3 {
		t.Errorf("ClipValue mid = %v", got)
	}
}
