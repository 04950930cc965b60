package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/langid/core/model"
	"github.com/YuminosukeSato/langid/pkg/errors"
)

func TestTextFeaturizer_Features(t *testing.T) {
	f := NewTextFeaturizer()

	// "il gatto" -> letters i,l,g,a,t,t,o : vowels i,a,o (3) consonants l,g,t,t (4)
	got, err := f.Features("il gatto!")
	require.NoError(t, err)
	require.Len(t, got, 6)

	assert.InDelta(t, 0.75, got[0], 1e-12)
	// only "gatto" ends in a vowel
	assert.InDelta(t, 0.5, got[1], 1e-12)
	assert.InDelta(t, 5.0, got[2], 1e-12)
	assert.InDelta(t, 3.5, got[3], 1e-12)
	// longest run "tt" over 8 runes
	assert.InDelta(t, 2.0/8.0, got[4], 1e-12)
	assert.InDelta(t, 4.0/8.0, got[5], 1e-12)
}

func TestTextFeaturizer_AccentedVowels(t *testing.T) {
	f := NewTextFeaturizer()

	// decomposed "è" (e + combining grave) is normalized to a single vowel rune
	got, err := f.Features("perche\u0300")
	require.NoError(t, err)
	assert.InDelta(t, 2.0/4.0, got[0], 1e-12)
	assert.InDelta(t, 1.0, got[1], 1e-12)
	assert.InDelta(t, 6.0, got[2], 1e-12)
}

func TestTextFeaturizer_NoConsonants(t *testing.T) {
	got, err := NewTextFeaturizer().Features("aia eo")
	require.NoError(t, err)
	assert.True(t, math.IsInf(got[0], 1))
	assert.Zero(t, got[4])
}

func TestTextFeaturizer_Rejections(t *testing.T) {
	f := NewTextFeaturizer(WithMaxWordLength(5))

	tests := []struct {
		name string
		text string
	}{
		{"no letters", "123 456 !!"},
		{"empty", "   "},
		{"long word", "supercalifragilistic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Features(tt.text)
			assert.True(t, errors.Is(err, errors.ErrRejectedSegment))
		})
	}
}

func TestTextFeaturizer_Capitalization(t *testing.T) {
	f := NewTextFeaturizer(WithCapitalization(true))
	assert.Equal(t, 7, f.NumFeatures())
	assert.Equal(t, FeatureCapitalization, f.FeatureNames()[6])

	got, err := f.Features("Roma is the Capital of ITALY")
	require.NoError(t, err)
	assert.InDelta(t, 2.0/6.0, got[6], 1e-12)
}

func TestIsTitle(t *testing.T) {
	assert.True(t, isTitle("Hello"))
	assert.True(t, isTitle("Élan"))
	assert.False(t, isTitle("hello"))
	assert.False(t, isTitle("HeLLo"))
	assert.False(t, isTitle("123"))
}

func TestTextFeaturizer_Clean(t *testing.T) {
	f := NewTextFeaturizer()
	assert.Equal(t, "Its a cats life", f.Clean("  It's a cat's life.  "))
	assert.Equal(t, "città", f.Clean("città"))
}

func TestStandardScaler(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 10,
		3, 10,
		4, 10,
	})

	s := NewStandardScalerDefault()
	out, err := s.FitTransform(X)
	require.NoError(t, err)

	assert.InDelta(t, 2.5, s.Mean[0], 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), s.Scale[0], 1e-12)
	// constant column keeps scale 1
	assert.Equal(t, 1.0, s.Scale[1])

	col := mat.Col(nil, 0, out)
	sum := 0.0
	for _, v := range col {
		sum += v
	}
	assert.InDelta(t, 0, sum, 1e-12)

	back, err := s.InverseTransform(out)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-12))
}

func TestStandardScaler_IgnoresInfinities(t *testing.T) {
	s := NewStandardScalerDefault()
	require.NoError(t, s.FitSamples([][]float64{{1}, {3}, {math.Inf(1)}}))
	assert.InDelta(t, 2.0, s.Mean[0], 1e-12)

	out, err := s.TransformSamples([][]float64{{math.Inf(1)}, {2}})
	require.NoError(t, err)
	assert.True(t, math.IsInf(out[0][0], 1))
	assert.Zero(t, out[1][0])
}

func TestStandardScaler_Errors(t *testing.T) {
	s := NewStandardScalerDefault()

	_, err := s.TransformSamples([][]float64{{1}})
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	err = s.FitSamples(nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	require.NoError(t, s.FitSamples([][]float64{{1, 2}, {3, 4}}))
	_, err = s.TransformSamples([][]float64{{1}})
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}

func TestStandardScaler_Document(t *testing.T) {
	s := NewStandardScalerDefault()
	require.NoError(t, s.FitSamples([][]float64{{1, 5}, {3, 9}}))

	doc, err := s.ToDocument()
	require.NoError(t, err)
	require.NoError(t, doc.Validate())
	assert.Equal(t, model.KindScaler, doc.Kind)

	restored := &StandardScaler{}
	require.NoError(t, restored.FromDocument(doc))
	assert.Equal(t, s.Mean, restored.Mean)
	assert.Equal(t, s.Scale, restored.Scale)
	assert.Equal(t, 2, restored.NFeatures())
}
