package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	loc := time.FixedZone("WIB", 7*60*60)
	l := New(&buf, loc)

	l.Log(map[string]any{"component": "database", "status": "success"})
	l.Log(map[string]any{"component": "database", "status": "error"})
	l.Log(map[string]any{"level": "debug"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "database", lines[0]["component"])
	assert.Equal(t, "error", lines[1]["level"])
	assert.Equal(t, "debug", lines[2]["level"])

	ts, err := time.Parse(time.RFC3339Nano, lines[0]["ts"].(string))
	require.NoError(t, err)
	_, offset := ts.Zone()
	assert.Equal(t, 7*60*60, offset)
}

func TestLogger_InfoError(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, nil)

	fields := map[string]any{"component": "storage"}
	l.Info("upload_stored", fields)
	l.Error("upload_failed", errors.New("disk full"), fields)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "upload_stored", lines[0]["msg"])
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "upload_failed", lines[1]["msg"])
	assert.Equal(t, "error", lines[1]["level"])
	assert.Equal(t, "disk full", lines[1]["error_message"])

	// the caller's map is not mutated
	assert.Len(t, fields, 1)
}

func TestLogger_Nil(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Info("x", nil)
	})
}
