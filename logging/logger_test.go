package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go_fsr2/fsr2"
)

func newBufferLogger(t *testing.T, opts Options) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	opts.Console = zapcore.AddSync(&buf)
	logger, err := NewLogger(opts)
	if err != nil {
		t.Fatalf("NewLogger() error: %v", err)
	}
	return logger, &buf
}

// lastEntry decodes the last JSON line written to buf.
func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("invalid JSON %q: %v", lines[len(lines)-1], err)
	}
	return entry
}

func TestNewLogger_Levels(t *testing.T) {
	warn := zapcore.WarnLevel

	tests := []struct {
		name string
		opts Options
		want zapcore.Level
	}{
		{"production defaults to info", Options{}, zapcore.InfoLevel},
		{"development defaults to debug", Options{Development: true}, zapcore.DebugLevel},
		{"explicit level wins", Options{Development: true, Level: &warn}, zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := newBufferLogger(t, tt.opts)
			if logger.Level() != tt.want {
				t.Errorf("Level() = %v, want %v", logger.Level(), tt.want)
			}
			if logger.IsDevelopment() != tt.opts.Development {
				t.Errorf("IsDevelopment() = %v", logger.IsDevelopment())
			}
		})
	}
}

func TestNewLogger_WithFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "build.log")
	logger, console := newBufferLogger(t, Options{FilePath: logPath})

	logger.Info("relocate finished", StepFields("relocate", 1500*time.Millisecond)...)
	logger.Sync()

	if logger.LogFilePath() != logPath {
		t.Errorf("LogFilePath() = %q", logger.LogFilePath())
	}
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(content), `"step":"relocate"`) {
		t.Errorf("log file missing step field: %s", content)
	}
	if !strings.Contains(console.String(), "relocate finished") {
		t.Errorf("console missing entry: %s", console.String())
	}
}

func TestNewLogger_BadFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	os.WriteFile(blocker, nil, 0o644)

	if _, err := NewLogger(Options{FilePath: filepath.Join(blocker, "x.log")}); err == nil {
		t.Error("expected error for unwritable log path")
	}
}

func TestLogger_CallerPointsAtCaller(t *testing.T) {
	logger, buf := newBufferLogger(t, Options{})

	logger.Info("checkout finished")

	caller, _ := lastEntry(t, buf)[FieldCaller].(string)
	if !strings.HasPrefix(caller, "logging/logger_test.go") {
		t.Errorf("caller = %q, want this test file", caller)
	}
}

func TestLogger_WithAndNamed(t *testing.T) {
	logger, buf := newBufferLogger(t, Options{})

	child := logger.Named("nativebuild").With(zap.String("build_id", "abc"))
	child.Warn("artifact skipped", zap.String("artifact", "libffx_fsr2_api_x64.so"))

	entry := lastEntry(t, buf)
	if entry[FieldLogger] != "nativebuild" {
		t.Errorf("logger = %v", entry[FieldLogger])
	}
	if entry["build_id"] != "abc" || entry["artifact"] != "libffx_fsr2_api_x64.so" {
		t.Errorf("fields missing: %v", entry)
	}
}

func TestLogger_SetLevelSharedWithChildren(t *testing.T) {
	logger, buf := newBufferLogger(t, Options{})
	child := logger.Named("child")

	logger.SetLevel(zapcore.ErrorLevel)
	child.Info("suppressed")

	if buf.Len() != 0 {
		t.Errorf("child logged below shared level: %s", buf.String())
	}
}

func TestNewNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("nothing")
	if err := logger.Sync(); err != nil {
		t.Errorf("Sync() error: %v", err)
	}
	var nilLogger *Logger
	if err := nilLogger.Sync(); err != nil {
		t.Errorf("nil Sync() error: %v", err)
	}
}

func TestNativeMessageHandler(t *testing.T) {
	// DOING: Route native debug messages into the logger
	// EXPECT: Errors at error level, warnings at warn, under the fsr2 name
	// IF YES: Validation layer output lands in the build log
	// IF NO: Native diagnostics are lost

	logger, buf := newBufferLogger(t, Options{})
	handler := NativeMessageHandler(logger)

	tests := []struct {
		msgType   fsr2.MsgType
		message   string
		wantLevel string
	}{
		{fsr2.MsgTypeError, "resource not registered", "error"},
		{fsr2.MsgTypeWarning, "jitter out of range", "warn"},
	}

	for _, tt := range tests {
		handler(tt.msgType, tt.message)
		entry := lastEntry(t, buf)
		if entry[FieldMessage] != tt.message {
			t.Errorf("message = %v, want %q", entry[FieldMessage], tt.message)
		}
		if entry[FieldLevel] != tt.wantLevel {
			t.Errorf("level = %v, want %s", entry[FieldLevel], tt.wantLevel)
		}
		if entry[FieldLogger] != "fsr2" {
			t.Errorf("logger = %v, want fsr2", entry[FieldLogger])
		}
		if entry["msg_type"] != tt.msgType.String() {
			t.Errorf("msg_type = %v", entry["msg_type"])
		}
	}
}
