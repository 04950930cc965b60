// Package dataset はコーパスの取り込みから学習用レコードまでのデータ処理を提供します。
//
// Wikipediaの要約ダンプ（XML）や要約のJSON配列を読み込み、
// 先頭N語のテキスト断片を切り出し、"tag: f1, f2, ..." 形式の特徴量レコードとして
// 読み書きします。
package dataset

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"strings"

	"github.com/YuminosukeSato/langid/pkg/errors"
)

// Abstract はWikipedia要約ダンプの1記事
type Abstract struct {
	Title    string `xml:"title" json:"title"`
	URL      string `xml:"url" json:"url"`
	Abstract string `xml:"abstract" json:"abstract"`
}

// ParseWikiDump は <feed><doc><title/><url/><abstract/></doc>...</feed> 形式のダンプを
// ストリームで読み、各 doc を返す。abstract が無い記事は空文字列になる。
func ParseWikiDump(r io.Reader) ([]Abstract, error) {
	dec := xml.NewDecoder(r)
	var out []Abstract
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read wiki dump")
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "doc" {
			continue
		}
		var a Abstract
		if err := dec.DecodeElement(&a, &start); err != nil {
			return nil, errors.Wrapf(err, "failed to decode doc %d", len(out))
		}
		a.Title = strings.TrimSpace(a.Title)
		a.URL = strings.TrimSpace(a.URL)
		a.Abstract = strings.TrimSpace(a.Abstract)
		out = append(out, a)
	}
	return out, nil
}

// ReadAbstractsJSON は要約のJSON配列を読み込む
func ReadAbstractsJSON(r io.Reader) ([]Abstract, error) {
	var out []Abstract
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "failed to decode abstracts json")
	}
	return out, nil
}

// WriteAbstractsJSON は要約をインデント付きJSON配列として書き出す。
// 非ASCII文字はエスケープしない。
func WriteAbstractsJSON(w io.Writer, abstracts []Abstract) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if abstracts == nil {
		abstracts = []Abstract{}
	}
	if err := enc.Encode(abstracts); err != nil {
		return errors.Wrap(err, "failed to encode abstracts json")
	}
	return nil
}
