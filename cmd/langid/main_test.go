package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/langid/core/model"
)

var (
	italian = strings.Fields("il gatto dorme sulla sedia della casa mentre la nonna prepara una torta alle mele per tutta la famiglia")
	dutch   = strings.Fields("het kind speelt graag buiten met zijn vriendjes terwijl de zon schijnt boven het groene gras")
)

// writeDump はダミーの要約ダンプを書き出す。語順をずらして記事ごとに違う文にする。
func writeDump(t *testing.T, dir, name string, words []string, docs int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("<feed>\n")
	for i := 0; i < docs; i++ {
		rotated := append(append([]string(nil), words[i%len(words):]...), words[:i%len(words)]...)
		fmt.Fprintf(&b, "<doc><title>Wikipedia: %s %d</title><url>https://example.org/%d</url><abstract>%s</abstract></doc>\n",
			name, i, i, strings.Join(rotated, " "))
	}
	b.WriteString("<doc><title>empty</title><url>u</url><abstract></abstract></doc>\n</feed>\n")
	path := filepath.Join(dir, name+".xml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

// pipeline は extract から featurize までを実行し、レコードファイルのパスを返す
func pipeline(t *testing.T, dir string) string {
	t.Helper()
	records := filepath.Join(dir, "features.txt")
	for _, lang := range []struct {
		tag   string
		words []string
	}{{"it", italian}, {"nl", dutch}} {
		dump := writeDump(t, dir, lang.tag, lang.words, 30)
		abstracts := filepath.Join(dir, lang.tag+".json")

		out, err := run(t, "extract", "-o", abstracts, dump)
		require.NoError(t, err)
		assert.Contains(t, out, "extracted 30 abstracts")

		out, err = run(t, "featurize", "--tag", lang.tag, "--lengths", "12,6", "-o", records, abstracts)
		require.NoError(t, err)
		assert.Contains(t, out, "featurized 60 "+lang.tag+" records")
	}
	return records
}

func writeTestConfig(t *testing.T, dir, records string, extra string) string {
	t.Helper()
	body := fmt.Sprintf(`
[data]
path = %q
sample_size = 0
test_size = 0.25
seed = 3

[tree]
max_depths = [1, 3]
min_samples_splits = [2]

[adaboost]
n_learners = [1, 5]
classes = ["it", "nl"]

[output]
dir = %q
plot = false

[log]
level = "error"
%s`, records, filepath.Join(dir, "models"), extra)
	path := filepath.Join(dir, "langid.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestCLI_TreePipeline(t *testing.T) {
	dir := t.TempDir()
	records := pipeline(t, dir)
	cfgPath := writeTestConfig(t, dir, records, "")

	out, err := run(t, "--config", cfgPath, "train", "tree", "--print")
	require.NoError(t, err)
	assert.Contains(t, out, "best tree:")
	assert.Contains(t, out, "Predict:")

	modelPath := filepath.Join(dir, "models", "tree.json")
	doc, err := model.Load(modelPath)
	require.NoError(t, err)
	assert.Equal(t, model.KindDecisionTree, doc.Kind)
	assert.Equal(t, []string{"it", "nl"}, doc.ClassNames)
	assert.Contains(t, doc.Meta, "accuracy")
	assert.Contains(t, doc.Meta, "max_depth")

	out, err = run(t, "predict", "--model", modelPath, "--records", records)
	require.NoError(t, err)
	assert.Contains(t, out, "evaluated 120 records")

	out, err = run(t, "predict", "--model", modelPath, "il gatto dorme sulla sedia", "123")
	require.NoError(t, err)
	assert.Contains(t, out, "rejected\t123")

	out, err = run(t, "render", "--model", modelPath, "--text")
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = run(t, "render", "--model", modelPath, "-o", filepath.Join(dir, "tree.bmp"))
	assert.Error(t, err)
}

func TestCLI_AdaBoostPipeline(t *testing.T) {
	dir := t.TempDir()
	records := pipeline(t, dir)
	cfgPath := writeTestConfig(t, dir, records, "")

	out, err := run(t, "--config", cfgPath, "train", "adaboost")
	require.NoError(t, err)
	assert.Contains(t, out, "one-vs-rest:")
	assert.Contains(t, out, "confusion")

	modelPath := filepath.Join(dir, "models", "adaboost.json")
	doc, err := model.Load(modelPath)
	require.NoError(t, err)
	assert.Equal(t, model.KindOneVsRest, doc.Kind)
	assert.Equal(t, []int{0, 1}, doc.Classes)
	assert.Contains(t, doc.Meta, "n_learners.it")
	assert.Contains(t, doc.Meta, "n_learners.nl")
	assert.Equal(t, "linear", doc.Meta["weight_update"])

	out, err = run(t, "predict", "--model", modelPath, "--records", records)
	require.NoError(t, err)
	assert.Contains(t, out, "evaluated 120 records")

	// 木以外は描画できない
	_, err = run(t, "render", "--model", modelPath, "--text")
	assert.Error(t, err)
}

func TestCLI_StandardizedMsgpack(t *testing.T) {
	dir := t.TempDir()
	records := pipeline(t, dir)
	cfgPath := writeTestConfig(t, dir, records, "")
	body, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	patched := strings.Replace(string(body), "seed = 3", "seed = 3\nstandardize = true", 1)
	patched = strings.Replace(patched, "plot = false", "plot = false\nformat = \"msgpack\"", 1)
	require.NoError(t, os.WriteFile(cfgPath, []byte(patched), 0o644))

	_, err = run(t, "--config", cfgPath, "train", "tree")
	require.NoError(t, err)

	doc, err := model.Load(filepath.Join(dir, "models", "tree.msgpack"))
	require.NoError(t, err)
	assert.Len(t, doc.Mean, doc.FeatureCount)
	assert.Len(t, doc.Scale, doc.FeatureCount)
}

func TestCLI_Errors(t *testing.T) {
	_, err := run(t, "predict", "--model", filepath.Join(t.TempDir(), "missing.json"), "ciao")
	assert.Error(t, err)

	_, err = run(t, "featurize", "some.json")
	assert.Error(t, err, "--tag is required")

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "none.toml"), "train", "tree")
	assert.Error(t, err)
}

func TestCLI_Version(t *testing.T) {
	out, err := run(t, "version", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"model_format": "langid.model"`)

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "langid "+Version)

	_, err = run(t, "version", "--format", "xml")
	assert.Error(t, err)
}
