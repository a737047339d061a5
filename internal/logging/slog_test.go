package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	return out
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newJSONTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "listing files", "op", "getFiles")
	log.Info(ctx, "file uploaded", "file_id", "f1")
	log.Warn(ctx, "bucket file id does not match", "file_id", "f2")
	log.Error(ctx, "failed to store file", "op", "upload")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 4)

	want := []struct{ level, msg, key, val string }{
		{"DEBUG", "listing files", "op", "getFiles"},
		{"INFO", "file uploaded", "file_id", "f1"},
		{"WARN", "bucket file id does not match", "file_id", "f2"},
		{"ERROR", "failed to store file", "op", "upload"},
	}
	for i, w := range want {
		assert.Equal(t, w.level, lines[i]["level"])
		assert.Equal(t, w.msg, lines[i]["msg"])
		assert.Equal(t, w.val, lines[i][w.key])
	}
}

func TestSlogLogger_WithIsScoped(t *testing.T) {
	log, buf := newJSONTestLogger(t)
	ctx := context.Background()

	child := log.With("module", "file_service")
	child.Info(ctx, "from child", "op", "renameFile")
	log.Info(ctx, "from parent")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "file_service", lines[0]["module"])
	assert.Equal(t, "renameFile", lines[0]["op"])
	assert.NotContains(t, lines[1], "module")
}

func TestSlogLogger_RespectsHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	log.Debug(context.TODO(), "hidden")
	log.Info(context.TODO(), "hidden")
	log.Warn(context.TODO(), "shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["msg"])
}
