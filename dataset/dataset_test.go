package dataset

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/langid/pkg/errors"
	"github.com/YuminosukeSato/langid/preprocessing"
)

const dump = `<feed>
<doc>
<title>Wikipedia: Roma</title>
<url>https://it.wikipedia.org/wiki/Roma</url>
<abstract> Roma è la capitale d'Italia. </abstract>
<links><sublink linktype="nav"><anchor>Storia</anchor></sublink></links>
</doc>
<doc>
<title>Wikipedia: Vuoto</title>
<url>https://it.wikipedia.org/wiki/Vuoto</url>
</doc>
</feed>`

func TestParseWikiDump(t *testing.T) {
	got, err := ParseWikiDump(strings.NewReader(dump))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Wikipedia: Roma", got[0].Title)
	assert.Equal(t, "https://it.wikipedia.org/wiki/Roma", got[0].URL)
	assert.Equal(t, "Roma è la capitale d'Italia.", got[0].Abstract)
	assert.Empty(t, got[1].Abstract)

	_, err = ParseWikiDump(strings.NewReader("<feed><doc><title>x</doc>"))
	assert.Error(t, err)
}

func TestAbstractsJSON_RoundTrip(t *testing.T) {
	in := []Abstract{{Title: "Città", URL: "u", Abstract: "perché <no>"}}

	var buf bytes.Buffer
	require.NoError(t, WriteAbstractsJSON(&buf, in))
	assert.Contains(t, buf.String(), "perché <no>")

	out, err := ReadAbstractsJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = "w"
	}
	return strings.Join(w, " ")
}

func TestExtractSegments(t *testing.T) {
	abstracts := []Abstract{
		{Abstract: words(60)},
		{Abstract: words(25)},
		{Abstract: words(12)},
		{Abstract: words(5)},
	}

	segs := ExtractSegments(abstracts, []int{50, 20, 10}, 0, 1)
	lengths, grouped := ByLength(segs)
	assert.Equal(t, []int{10, 20, 50}, lengths)
	assert.Len(t, grouped[50], 1)
	assert.Len(t, grouped[20], 2)
	assert.Len(t, grouped[10], 3)
	for _, s := range segs {
		assert.Len(t, strings.Fields(s.Text), s.Length)
	}

	capped := ExtractSegments(abstracts, []int{10}, 2, 1)
	assert.Len(t, capped, 2)

	// 同じシードなら同じ順序
	assert.Equal(t, ExtractSegments(abstracts, []int{10}, 0, 9), ExtractSegments(abstracts, []int{10}, 0, 9))
}

func captureWarnings(t *testing.T) func() []error {
	t.Helper()
	var mu sync.Mutex
	var got []error
	errors.SetWarningHandler(func(w error) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, w)
	})
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })
	return func() []error {
		mu.Lock()
		defer mu.Unlock()
		return append([]error(nil), got...)
	}
}

func TestReadRecords(t *testing.T) {
	warnings := captureWarnings(t)
	input := strings.Join([]string{
		"it: 0.9, 0.5, 7, 4.2, 0.1, 0.4",
		"no separator here",
		"",
		"nl: 0.6, 0.2, 9, 5, 0.2, inf",
		"en: 0.7, abc, 8, 4, 0.1, 0.5",
		"en: 0.7, 0.3",
		": 1, 2, 3, 4, 5, 6",
	}, "\n")

	records, skipped, err := ReadRecords(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 4, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, "it", records[0].Tag)
	assert.Equal(t, []float64{0.9, 0.5, 7, 4.2, 0.1, 0.4}, records[0].Features)
	assert.True(t, math.IsInf(records[1].Features[5], 1))

	got := warnings()
	require.Len(t, got, 4)
	var w *errors.SkippedRecordWarning
	require.True(t, errors.As(got[0], &w))
	assert.Contains(t, w.Error(), "line 2")
}

func TestFormatRecord_RoundTrip(t *testing.T) {
	r := Record{Tag: "nl", Features: []float64{0.25, math.Inf(1), 12, 1.0 / 3.0}}
	line := FormatRecord(r)
	assert.True(t, strings.HasPrefix(line, "nl: 0.25, +Inf, 12, "))

	back, err := ParseRecord(line)
	require.NoError(t, err)
	assert.Equal(t, r, back)
}

func TestWriteAndReadRecordsFile(t *testing.T) {
	records := []Record{
		{Tag: "it", Features: []float64{1, 2}},
		{Tag: "en", Features: []float64{3, 4}},
	}
	path := filepath.Join(t.TempDir(), "features.txt")

	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, records))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	got, skipped, err := ReadRecordsFile(path)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, records, got)

	_, _, err = ReadRecordsFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestSample(t *testing.T) {
	records := make([]Record, 10)
	for i := range records {
		records[i] = Record{Tag: "t", Features: []float64{float64(i)}}
	}

	a := Sample(records, 4, 3)
	assert.Len(t, a, 4)
	assert.Equal(t, a, Sample(records, 4, 3))
	assert.Len(t, Sample(records, 0, 3), 10)
	assert.Len(t, Sample(records, 100, 3), 10)
	// 元のスライスは変更しない
	assert.Equal(t, 0.0, records[0].Features[0])
}

func TestLabelEncoder(t *testing.T) {
	e := NewLabelEncoder()
	labels := e.FitTransform([]string{"nl", "it", "nl", "en"})
	assert.Equal(t, []int{0, 1, 0, 2}, labels)
	assert.Equal(t, []string{"nl", "it", "en"}, e.Classes())
	assert.Equal(t, []int{0, 1, 2}, e.Labels())

	tag, err := e.Decode(1)
	require.NoError(t, err)
	assert.Equal(t, "it", tag)

	_, err = e.Decode(3)
	assert.Error(t, err)
	_, err = e.Transform([]string{"fr"})
	assert.Error(t, err)

	fixed := NewLabelEncoder("it", "nl", "en")
	got, err := fixed.Transform([]string{"en", "it"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, got)
}

func TestBinarizeAndColumns(t *testing.T) {
	records := []Record{
		{Tag: "it", Features: []float64{1}},
		{Tag: "en", Features: []float64{2}},
	}
	assert.Equal(t, []string{"it", "en"}, Tags(records))
	assert.Equal(t, [][]float64{{1}, {2}}, Features(records))
	assert.Equal(t, []int{1, -1}, Binarize(Tags(records), "it"))
}

func TestNpy_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	X := [][]float64{{1, 2, 3}, {4, 5, 6}}
	y := []int{0, 2}

	xPath := filepath.Join(dir, "X.npy")
	yPath := filepath.Join(dir, "y.npy")
	require.NoError(t, WriteNpy(xPath, yPath, X, y))

	gotX, gotY, err := ReadNpy(xPath, yPath)
	require.NoError(t, err)
	assert.Equal(t, X, gotX)
	assert.Equal(t, y, gotY)
}

func TestFeaturize(t *testing.T) {
	f := preprocessing.NewTextFeaturizer(preprocessing.WithMaxWordLength(10))
	records, rejected, err := Featurize([]string{"il gatto", "123", "supercalifragilistic", "de kat"}, "it", f)
	require.NoError(t, err)
	assert.Equal(t, 2, rejected)
	require.Len(t, records, 2)
	assert.Equal(t, "it", records[0].Tag)
	assert.Len(t, records[0].Features, f.NumFeatures())
}
