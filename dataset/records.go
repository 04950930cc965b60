package dataset

import (
	"bufio"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/YuminosukeSato/langid/pkg/errors"
	"github.com/YuminosukeSato/langid/pkg/log"
)

// Record は言語タグ付きの特徴量ベクトル1件
type Record struct {
	Tag      string
	Features []float64
}

// ParseRecord は "tag: f1, f2, ..." 形式の1行を解析する
func ParseRecord(line string) (Record, error) {
	tag, rest, ok := strings.Cut(line, ":")
	if !ok {
		return Record{}, errors.New("missing ':' separator")
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return Record{}, errors.New("empty tag")
	}
	fields := strings.Split(rest, ",")
	features := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Record{}, errors.Wrapf(err, "feature %d", i)
		}
		features[i] = v
	}
	return Record{Tag: tag, Features: features}, nil
}

// FormatRecord は Record を "tag: f1, f2, ..." 形式の1行にする（改行なし）
func FormatRecord(r Record) string {
	parts := lo.Map(r.Features, func(v float64, _ int) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	})
	return r.Tag + ": " + strings.Join(parts, ", ")
}

// ReadRecords は1行1レコードのストリームを読み込む。
// 不正な行と、最初のレコードと特徴量数が異なる行は警告を出して読み飛ばし、その件数を返す。
// 空行は数えない。
func ReadRecords(r io.Reader) (records []Record, skipped int, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	width := -1
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		rec, perr := ParseRecord(line)
		if perr == nil && width >= 0 && len(rec.Features) != width {
			perr = errors.Newf("expected %d features, got %d", width, len(rec.Features))
		}
		if perr != nil {
			skipped++
			errors.Warn(errors.NewSkippedRecordWarning(lineNo, perr.Error()))
			continue
		}
		width = len(rec.Features)
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, skipped, errors.Wrap(err, "failed to read records")
	}
	return records, skipped, nil
}

// ReadRecordsFile はファイルからレコードを読み込む
func ReadRecordsFile(path string) ([]Record, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	records, skipped, err := ReadRecords(f)
	if err != nil {
		return nil, skipped, err
	}
	log.GetLoggerWithName("dataset").Info("Loaded records",
		log.PathKey, path,
		log.SamplesKey, len(records),
		log.SkippedKey, skipped)
	return records, skipped, nil
}

// WriteRecords はレコードを1行ずつ書き出す
func WriteRecords(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := bw.WriteString(FormatRecord(r) + "\n"); err != nil {
			return errors.Wrap(err, "failed to write record")
		}
	}
	return errors.Wrap(bw.Flush(), "failed to flush records")
}

// Sample はシード付きでシャッフルした先頭 n 件を返す。
// n <= 0 または n >= len(records) のときは全件をシャッフルして返す。
func Sample(records []Record, n int, seed uint64) []Record {
	out := append([]Record(nil), records...)
	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Features はレコードの特徴量を行として返す。行はレコードと共有する。
func Features(records []Record) [][]float64 {
	return lo.Map(records, func(r Record, _ int) []float64 { return r.Features })
}

// Tags はレコードのタグを返す
func Tags(records []Record) []string {
	return lo.Map(records, func(r Record, _ int) string { return r.Tag })
}

// Binarize は tag と一致するタグを +1、それ以外を -1 にする
func Binarize(tags []string, tag string) []int {
	return lo.Map(tags, func(t string, _ int) int {
		if t == tag {
			return 1
		}
		return -1
	})
}
