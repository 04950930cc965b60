package dataset

import (
	"math/rand/v2"
	"slices"
	"strings"
)

// Segment は要約の先頭 Length 語からなるテキスト断片
type Segment struct {
	Length int
	Text   string
}

// ExtractSegments は要約をシード付きでシャッフルし、各要約から lengths の各長さについて
// 先頭N語の断片を切り出す。語数が足りない長さは飛ばす。
// maxPerLength > 0 のとき各長さの断片数はそこで打ち切り、全長さが上限に達したら終了する。
func ExtractSegments(abstracts []Abstract, lengths []int, maxPerLength int, seed uint64) []Segment {
	texts := make([]string, len(abstracts))
	for i, a := range abstracts {
		texts[i] = a.Abstract
	}
	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(len(texts), func(i, j int) {
		texts[i], texts[j] = texts[j], texts[i]
	})

	counts := make(map[int]int, len(lengths))
	full := func() bool {
		if maxPerLength <= 0 {
			return false
		}
		for _, l := range lengths {
			if counts[l] < maxPerLength {
				return false
			}
		}
		return true
	}

	var out []Segment
	for _, text := range texts {
		words := strings.Fields(text)
		for _, l := range lengths {
			if l <= 0 || len(words) < l {
				continue
			}
			if maxPerLength > 0 && counts[l] >= maxPerLength {
				continue
			}
			out = append(out, Segment{Length: l, Text: strings.Join(words[:l], " ")})
			counts[l]++
		}
		if full() {
			break
		}
	}
	return out
}

// ByLength は断片を長さごとにまとめる。lengths は昇順。
func ByLength(segments []Segment) (lengths []int, grouped map[int][]string) {
	grouped = make(map[int][]string)
	for _, s := range segments {
		if _, ok := grouped[s.Length]; !ok {
			lengths = append(lengths, s.Length)
		}
		grouped[s.Length] = append(grouped[s.Length], s.Text)
	}
	slices.Sort(lengths)
	return lengths, grouped
}
