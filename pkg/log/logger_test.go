package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/YuminosukeSato/langid/pkg/errors"
)

func captureGlobal(t *testing.T, level Level) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	SetOutput(buf)
	SetLevel(level)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(LevelInfo)
	})
	return buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerologBackend_FieldsAndLevels(t *testing.T) {
	buf := captureGlobal(t, LevelInfo)

	logger := GetLoggerWithName("tree").With(ModelNameKey, "DecisionTreeClassifier")
	logger.Debug("hidden")
	logger.Info("Training completed", SamplesKey, 120, AccuracyKey, 0.95, DepthKey, 3)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	entry := lines[0]
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Training completed", entry["message"])
	assert.Equal(t, "tree", entry["component"])
	assert.Equal(t, "DecisionTreeClassifier", entry[ModelNameKey])
	assert.Equal(t, 120.0, entry[SamplesKey])
	assert.Equal(t, 0.95, entry[AccuracyKey])
}

func TestZerologBackend_ErrorCarriesStack(t *testing.T) {
	buf := captureGlobal(t, LevelDebug)

	err := lerrors.NewValidationError("n_learners", "must be non-negative", -1)
	GetLogger().Error("fit failed", err, OperationKey, OperationFit)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0]["error"], "n_learners")
	assert.Equal(t, OperationFit, lines[0][OperationKey])
	assert.NotEmpty(t, lines[0][StacktraceAttrKey])
}

func TestZerologBackend_Enabled(t *testing.T) {
	captureGlobal(t, LevelWarn)
	logger := GetLogger()
	ctx := context.Background()

	assert.False(t, logger.Enabled(ctx, LevelDebug))
	assert.False(t, logger.Enabled(ctx, LevelInfo))
	assert.True(t, logger.Enabled(ctx, LevelWarn))
	assert.True(t, logger.Enabled(ctx, LevelError))
}

func TestSetupLogger_RoutesWarnings(t *testing.T) {
	buf := captureGlobal(t, LevelInfo)
	require.NoError(t, SetupLogger("info"))
	t.Cleanup(func() { lerrors.SetZerologWarnFunc(nil) })

	lerrors.Warn(lerrors.NewNegativeWeightWarning(2, 1, 8))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "warn", lines[0]["level"])
	assert.Equal(t, "warnings", lines[0]["component"])
	assert.Equal(t, "*errors.NegativeWeightWarning", lines[0][ErrorTypeKey])
	detail, ok := lines[0]["detail"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2.0, detail["round"])
}

func TestToLogLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"debug": LevelDebug,
		"info":  LevelInfo,
		"":      LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
	} {
		got, err := ToLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ToLogLevel("verbose")
	var valErr *lerrors.ValidationError
	assert.True(t, lerrors.As(err, &valErr))
}

func TestTestLogger_CapturesEntries(t *testing.T) {
	logger, buffer := NewTestLogger(LevelDebug)

	logger.Debug("debug message", "key1", "value1", "number", 42)
	logger.Info("info message", OperationKey, OperationFit)
	logger.Warn("warning message")
	logger.Error("error message", fmt.Errorf("boom"), ErrorCodeKey, ErrorEmptyData)

	assert.NotEmpty(t, buffer.String())
	assert.True(t, logger.ContainsMessage("debug message"))
	assert.True(t, logger.ContainsMessage("warning message"))
	assert.True(t, logger.ContainsField("key1", "value1"))
	assert.True(t, logger.ContainsField("number", 42.0))
	assert.True(t, logger.ContainsField(ErrAttrKey, "boom"))
	assert.True(t, logger.ContainsField(ErrorCodeKey, ErrorEmptyData))

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	logger.Clear()
	assert.Empty(t, buffer.String())
}

func TestTestLogger_WithAndLevel(t *testing.T) {
	base, _ := NewTestLogger(LevelWarn)
	scoped := base.With(ModelNameKey, "AdaBoostClassifier", ClassKey, "it")

	scoped.Info("filtered out")
	scoped.Warn("kept")

	assert.False(t, base.ContainsMessage("filtered out"))
	assert.True(t, base.ContainsField(ModelNameKey, "AdaBoostClassifier"))
	assert.True(t, base.ContainsField(ClassKey, "it"))
	assert.False(t, scoped.Enabled(context.Background(), LevelInfo))
}

func TestTestLoggerProvider(t *testing.T) {
	provider, buffer := NewTestLoggerProvider(LevelInfo)
	provider.GetLoggerWithName("ensemble").Info("named")
	assert.Contains(t, buffer.String(), `"component":"ensemble"`)

	provider.SetLevel(LevelError)
	provider.GetLogger().Warn("dropped")
	assert.NotContains(t, buffer.String(), "dropped")
}

func TestTestLogger_Concurrent(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.With("worker", id).Info("round done", IterationKey, id)
		}(i)
	}
	wg.Wait()

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 8)
}
