package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if got := ParseLevel(tc.input); got != tc.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestInitWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWriter(&buf, "warn", ""); err != nil {
		t.Fatalf("InitWriter() error = %v", err)
	}
	defer func() { Logger = nil }()

	Get().Info().Msg("hidden message")
	Get().Warn().Msg("visible message")

	output := buf.String()
	if strings.Contains(output, "hidden message") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(output, "visible message") {
		t.Error("warn message should be written")
	}
}

func TestInitWriter_File(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "organize.log")

	var buf bytes.Buffer
	if err := InitWriter(&buf, "info", logFile); err != nil {
		t.Fatalf("InitWriter() error = %v", err)
	}
	defer func() { Logger = nil }()

	Get().Info().Str("path", "/tmp/a.txt").Msg("written to file")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file should contain message, got %q", string(data))
	}
}

func TestGet_Uninitialized(t *testing.T) {
	Logger = nil
	if Get() == nil {
		t.Fatal("Get() should never return nil")
	}
	Logger = nil
}

func TestInitWriter_ReinitClosesPreviousFile(t *testing.T) {
	tempDir := t.TempDir()
	first := filepath.Join(tempDir, "first.log")
	second := filepath.Join(tempDir, "second.log")
	t.Cleanup(func() {
		_ = Close()
		Logger = nil
	})

	var buf bytes.Buffer
	if err := InitWriter(&buf, "info", first); err != nil {
		t.Fatalf("InitWriter() error = %v", err)
	}
	prev := logFile
	if prev == nil {
		t.Fatal("Expected log file handle to be kept")
	}

	if err := InitWriter(&buf, "info", second); err != nil {
		t.Fatalf("InitWriter() error = %v", err)
	}
	if logFile == prev {
		t.Fatal("Expected a new log file handle")
	}
	if _, err := prev.Write([]byte("x")); !errors.Is(err, os.ErrClosed) {
		t.Errorf("Expected previous handle to be closed, got %v", err)
	}

	Get().Info().Msg("after reinit")
	data, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if !strings.Contains(string(data), "after reinit") {
		t.Errorf("Expected message in new log file, got %q", string(data))
	}

	// 不写文件时也要释放旧句柄
	cur := logFile
	if err := InitWriter(&buf, "info", ""); err != nil {
		t.Fatalf("InitWriter() error = %v", err)
	}
	if logFile != nil {
		t.Error("Expected no log file handle without a file")
	}
	if _, err := cur.Write([]byte("x")); !errors.Is(err, os.ErrClosed) {
		t.Errorf("Expected handle to be closed, got %v", err)
	}
}

func TestClose(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "organize.log")
	t.Cleanup(func() { Logger = nil })

	var buf bytes.Buffer
	if err := InitWriter(&buf, "info", logPath); err != nil {
		t.Fatalf("InitWriter() error = %v", err)
	}
	f := logFile

	if err := Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if logFile != nil {
		t.Error("Expected handle to be released")
	}
	if _, err := f.Write([]byte("x")); !errors.Is(err, os.ErrClosed) {
		t.Errorf("Expected file to be closed, got %v", err)
	}
	if err := Close(); err != nil {
		t.Errorf("Second Close() error = %v", err)
	}
}
