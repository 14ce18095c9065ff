package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"WARNING", WarnLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"invalid", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFieldConstructors(t *testing.T) {
	t.Run("Duration", func(t *testing.T) {
		f := Duration("timeout", 5*time.Second)
		if f.Key != "timeout" || f.Value != "5s" {
			t.Errorf("Duration() = %+v", f)
		}
	})

	t.Run("Error", func(t *testing.T) {
		f := Error(errors.New("test error"))
		if f.Key != "error" || f.Value != "test error" {
			t.Errorf("Error() = %+v", f)
		}
	})

	t.Run("Error_nil", func(t *testing.T) {
		f := Error(nil)
		if f.Key != "error" || f.Value != nil {
			t.Errorf("Error(nil) = %+v", f)
		}
	})

	t.Run("Node", func(t *testing.T) {
		f := Node("Inst_A/Q")
		if f.Key != "node" || f.Value != "Inst_A/Q" {
			t.Errorf("Node() = %+v", f)
		}
	})

	t.Run("Hops", func(t *testing.T) {
		f := Hops(3)
		if f.Key != "hops" || f.Value != 3 {
			t.Errorf("Hops() = %+v", f)
		}
	})

	t.Run("Sources", func(t *testing.T) {
		f := Sources([]string{"A", "B"})
		vals, ok := f.Value.([]string)
		if f.Key != "sources" || !ok || len(vals) != 2 {
			t.Errorf("Sources() = %+v", f)
		}
	})
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("graph built", Count(12), Mode("max"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}

	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "graph built" {
		t.Errorf("Message = %v, want 'graph built'", entry.Message)
	}
	if entry.Fields["count"] != float64(12) {
		t.Errorf("Fields[count] = %v, want 12", entry.Fields["count"])
	}
	if entry.Fields["mode"] != "max" {
		t.Errorf("Fields[mode] = %v, want max", entry.Fields["mode"])
	}
	if entry.Time == "" {
		t.Error("Time field is empty")
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(lines))
	}

	var warnEntry LogEntry
	if err := json.Unmarshal([]byte(lines[0]), &warnEntry); err != nil {
		t.Fatalf("Failed to unmarshal WARN entry: %v", err)
	}
	if warnEntry.Level != "WARN" {
		t.Errorf("First entry level = %v, want WARN", warnEntry.Level)
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("algorithms"), QueryID("q-1"))
	child.Info("query finished", Node("D"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if entry.Fields["component"] != "algorithms" {
		t.Errorf("component field = %v", entry.Fields["component"])
	}
	if entry.Fields["query_id"] != "q-1" {
		t.Errorf("query_id field = %v", entry.Fields["query_id"])
	}
	if entry.Fields["node"] != "D" {
		t.Errorf("node field = %v", entry.Fields["node"])
	}

	// Parent fields are not affected by the child.
	buf.Reset()
	logger.Info("parent")
	if strings.Contains(buf.String(), "query_id") {
		t.Error("child fields leaked into parent logger")
	}
}

func TestJSONLogger_ConcurrentChildrenDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		child := logger.With(Int("worker", i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				child.Info("tick", Int("n", j))
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 400 {
		t.Fatalf("Expected 400 entries, got %d", len(lines))
	}
	for i, line := range lines {
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %d is not a whole JSON object: %v", i, err)
		}
	}
}

func TestJSONLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.SetLevel(ErrorLevel)
	if logger.GetLevel() != ErrorLevel {
		t.Errorf("After SetLevel, level = %v, want ErrorLevel", logger.GetLevel())
	}

	logger.Info("info")
	if buf.Len() != 0 {
		t.Error("Expected no output for Info at ErrorLevel")
	}
	logger.Error("error")
	if buf.Len() == 0 {
		t.Error("Expected output for Error at ErrorLevel")
	}
}

func TestJSONLogger_NoFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("message without fields")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if _, exists := entry["fields"]; exists {
		t.Error("Expected fields key to be omitted when empty")
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("TIMING_LOG_LEVEL", "")
	t.Setenv("LOG_LEVEL", "")
	if _, ok := LevelFromEnv(); ok {
		t.Error("LevelFromEnv should report unset")
	}

	t.Setenv("LOG_LEVEL", "warn")
	if level, ok := LevelFromEnv(); !ok || level != WarnLevel {
		t.Errorf("LevelFromEnv() = %v, %v; want WARN, true", level, ok)
	}

	t.Setenv("TIMING_LOG_LEVEL", "debug")
	if level, _ := LevelFromEnv(); level != DebugLevel {
		t.Errorf("TIMING_LOG_LEVEL should take precedence, got %v", level)
	}
}

func TestGlobalHelperFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))
	defer SetDefaultLogger(nil)

	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	ErrorLog("error msg")
	With(Component("cli")).Info("child msg")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected 5 log entries, got %d", len(lines))
	}

	levels := []string{"DEBUG", "INFO", "WARN", "ERROR", "INFO"}
	for i, expectedLevel := range levels {
		var entry LogEntry
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			t.Fatalf("Failed to unmarshal entry %d: %v", i, err)
		}
		if entry.Level != expectedLevel {
			t.Errorf("Entry %d level = %v, want %v", i, entry.Level, expectedLevel)
		}
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	timer := StartTimer(logger, "build graph", Path("fabric.yaml"))
	timer.End(Count(3))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Message != "build graph" {
		t.Errorf("Message = %q", entry.Message)
	}
	if _, ok := entry.Fields["latency"]; !ok {
		t.Error("latency field missing")
	}
	if entry.Fields["count"] != float64(3) || entry.Fields["path"] != "fabric.yaml" {
		t.Errorf("unexpected fields: %v", entry.Fields)
	}

	buf.Reset()
	StartTimer(logger, "query").EndError(errors.New("unknown node"))
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Level != "ERROR" || entry.Fields["error"] != "unknown node" {
		t.Errorf("EndError entry = %+v", entry)
	}
}

func TestNopLogger(t *testing.T) {
	l := OrNop(nil)
	if _, ok := l.(NopLogger); !ok {
		t.Fatalf("OrNop(nil) = %T, want NopLogger", l)
	}
	l.Info("discarded")
	if l.With(Count(1)) == nil {
		t.Error("NopLogger.With returned nil")
	}

	var buf bytes.Buffer
	j := NewJSONLogger(&buf, InfoLevel)
	if OrNop(j) != Logger(j) {
		t.Error("OrNop should return a non-nil logger unchanged")
	}
}

func BenchmarkJSONLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message",
			Node("Inst_A/Q"),
			Hops(2),
		)
	}
}
