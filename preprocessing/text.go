package preprocessing

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/YuminosukeSato/langid/pkg/errors"
)

// vowels は母音として数える文字。イタリア語のアクセント付き母音を含む。
const vowels = "aeiouAEIOUàèéìíòóùúÀÈÉÌÍÒÓÙÚ"

// consonants は子音連続の計測に使うASCII子音
const consonants = "bcdfghjklmnpqrstvwxyzBCDFGHJKLMNPQRSTVWXYZ"

// asciiPunctuation は前処理で取り除く記号
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// DefaultMaxWordLength はこれより長い単語を含むテキスト断片を棄却する閾値
const DefaultMaxWordLength = 30

// 特徴量の名前。Features が返すスライスと同じ順序。
const (
	FeatureVowelConsonantRatio = "vowel_consonant_ratio"
	FeatureVowelEndingWords    = "vowel_ending_words"
	FeatureMaxWordLength       = "max_word_length"
	FeatureAvgWordLength       = "avg_word_length"
	FeatureMaxConsonantRun     = "max_consonant_run"
	FeatureConsonantDensity    = "consonant_density"
	FeatureCapitalization      = "capitalization"
)

// TextFeaturizer は短いテキスト断片から言語識別用の数値特徴量を計算する
type TextFeaturizer struct {
	maxWordLength  int
	capitalization bool
}

// TextOption は TextFeaturizer の設定オプション
type TextOption func(*TextFeaturizer)

// WithMaxWordLength は棄却に使う最大単語長を設定する
func WithMaxWordLength(n int) TextOption {
	return func(f *TextFeaturizer) {
		f.maxWordLength = n
	}
}

// WithCapitalization は大文字で始まる単語の割合を7番目の特徴量として追加する
func WithCapitalization(enabled bool) TextOption {
	return func(f *TextFeaturizer) {
		f.capitalization = enabled
	}
}

// NewTextFeaturizer は新しい TextFeaturizer を作成する
//
//	f := preprocessing.NewTextFeaturizer()
//	x, err := f.Features("Il gatto dorme sul divano")
func NewTextFeaturizer(opts ...TextOption) *TextFeaturizer {
	f := &TextFeaturizer{maxWordLength: DefaultMaxWordLength}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FeatureNames は特徴量の名前を返す
func (f *TextFeaturizer) FeatureNames() []string {
	names := []string{
		FeatureVowelConsonantRatio,
		FeatureVowelEndingWords,
		FeatureMaxWordLength,
		FeatureAvgWordLength,
		FeatureMaxConsonantRun,
		FeatureConsonantDensity,
	}
	if f.capitalization {
		names = append(names, FeatureCapitalization)
	}
	return names
}

// NumFeatures は Features が返す要素数
func (f *TextFeaturizer) NumFeatures() int {
	return len(f.FeatureNames())
}

// Clean はASCII記号を取り除き、NFC正規化して前後の空白を削る
func (f *TextFeaturizer) Clean(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf && strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(norm.NFC.String(cleaned))
}

// Features はテキスト断片の特徴量を計算する。
// 文字を1つも含まない断片と、最大単語長を超える単語を含む断片は
// ErrRejectedSegment をラップしたエラーで棄却する。
func (f *TextFeaturizer) Features(text string) ([]float64, error) {
	segment := f.Clean(text)

	ratio, ok := vowelConsonantRatio(segment)
	if !ok {
		return nil, errors.Wrap(errors.ErrRejectedSegment, "no letters")
	}

	words := strings.Fields(segment)
	maxLen, avgLen := wordLengths(words)
	if maxLen > f.maxWordLength {
		return nil, errors.Wrapf(errors.ErrRejectedSegment, "word of %d runes exceeds limit %d", maxLen, f.maxWordLength)
	}

	maxRun, density := consonantRuns(segment)
	features := []float64{
		ratio,
		vowelEndingFraction(words),
		float64(maxLen),
		avgLen,
		maxRun,
		density,
	}
	if f.capitalization {
		features = append(features, titleFraction(words))
	}
	return features, nil
}

// vowelConsonantRatio は文字中の母音数と子音数の比。
// 子音がなければ +Inf、文字がなければ ok=false。
func vowelConsonantRatio(text string) (float64, bool) {
	var v, c int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		if strings.ContainsRune(vowels, r) {
			v++
		} else {
			c++
		}
	}
	switch {
	case c > 0:
		return float64(v) / float64(c), true
	case v > 0:
		return math.Inf(1), true
	default:
		return 0, false
	}
}

func vowelEndingFraction(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	n := 0
	for _, w := range words {
		last, _ := utf8.DecodeLastRuneInString(w)
		if strings.ContainsRune(vowels, last) {
			n++
		}
	}
	return float64(n) / float64(len(words))
}

func wordLengths(words []string) (int, float64) {
	if len(words) == 0 {
		return 0, 0
	}
	maxLen, total := 0, 0
	for _, w := range words {
		n := utf8.RuneCountInString(w)
		total += n
		maxLen = max(maxLen, n)
	}
	return maxLen, float64(total) / float64(len(words))
}

// consonantRuns は最長の子音連続と子音の総数を、それぞれ文字数で割って返す
func consonantRuns(text string) (float64, float64) {
	length := utf8.RuneCountInString(text)
	if length == 0 {
		return 0, 0
	}
	var run, longest, total int
	for _, r := range text {
		if r < utf8.RuneSelf && strings.ContainsRune(consonants, r) {
			run++
			total++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return float64(longest) / float64(length), float64(total) / float64(length)
}

func titleFraction(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	n := 0
	for _, w := range words {
		if isTitle(w) {
			n++
		}
	}
	return float64(n) / float64(len(words))
}

// isTitle は大文字が大小区別のない文字の直後にだけ現れ、
// 小文字が大小区別のある文字の直後にだけ現れる単語を判定する
func isTitle(word string) bool {
	cased := false
	prevCased := false
	for _, r := range word {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased = true
			cased = true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased = true
		default:
			prevCased = false
		}
	}
	return cased
}
