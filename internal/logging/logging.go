package logging

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Logger writes one JSON object per line.
// Every entry gets a "ts" in the configured location and a "level"
// ("error" when status is "error", otherwise "info") unless one is set.
type Logger struct {
	mu  sync.Mutex
	enc *json.Encoder
	loc *time.Location
}

// New returns a Logger writing to w with timestamps in loc (UTC when nil).
func New(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{enc: json.NewEncoder(w), loc: loc}
}

// Stdout is New(os.Stdout, loc).
func Stdout(loc *time.Location) *Logger {
	return New(os.Stdout, loc)
}

// Log writes data as a single line. data is modified in place.
func (l *Logger) Log(data map[string]any) {
	if l == nil {
		return
	}
	data["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.enc.Encode(data)
}

// Info logs msg with optional fields.
func (l *Logger) Info(msg string, fields map[string]any) {
	data := copyFields(fields)
	data["msg"] = msg
	data["level"] = "info"
	l.Log(data)
}

// Error logs msg with err under "error_message".
func (l *Logger) Error(msg string, err error, fields map[string]any) {
	data := copyFields(fields)
	data["msg"] = msg
	data["level"] = "error"
	if err != nil {
		data["error_message"] = err.Error()
	}
	l.Log(data)
}

func copyFields(fields map[string]any) map[string]any {
	data := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		data[k] = v
	}
	return data
}
