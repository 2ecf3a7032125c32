package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInitializeSilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be a no-op when no level is configured")
	}
}

func TestLogTokenEvent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := GetLogger()
	SetLogger(zap.New(core))
	defer SetLogger(prev)

	LogTokenEvent("get", "AB", true, 5)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["token"] != "AB" {
		t.Errorf("token field = %v, want AB", fields["token"])
	}
	if fields["length"] != int64(5) {
		t.Errorf("length field = %v, want 5", fields["length"])
	}
}

func TestLogRawBytesRespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := GetLogger()
	SetLogger(zap.New(core))
	defer SetLogger(prev)

	LogRawBytes("value", []byte("on"))
	if logs.Len() != 0 {
		t.Fatalf("got %d entries at info level, want 0", logs.Len())
	}

	core, logs = observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	LogRawBytes("value", []byte("on"))
	if logs.Len() != 1 {
		t.Fatalf("got %d entries at debug level, want 1", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["hex"]; got != "6f6e" {
		t.Errorf("hex field = %v, want 6f6e", got)
	}
}

func TestInitializeFromEnv(t *testing.T) {
	prev := GetLogger()
	defer SetLogger(prev)

	t.Setenv(LogLevelEnvVar, "error")
	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be disabled at error level")
	}
	SetLevel(zapcore.DebugLevel)
	if !GetLogger().Core().Enabled(zapcore.DebugLevel) {
		t.Error("SetLevel(debug) should enable debug")
	}
}

func TestDumps(t *testing.T) {
	data := []byte{'h', 'i', 0x00, 0x7f}
	if got := hexDump(data); got != "6869007f" {
		t.Errorf("hexDump() = %q", got)
	}
	if got := asciiDump(data); got != "hi.." {
		t.Errorf("asciiDump() = %q", got)
	}
	if hexDump(nil) != "" || asciiDump(nil) != "" {
		t.Error("empty input should produce empty dumps")
	}

	long := make([]byte, maxDumpLen+10)
	if got := hexDump(long); len(got) != 2*maxDumpLen+3 {
		t.Errorf("hexDump() length = %d, want %d", len(got), 2*maxDumpLen+3)
	}
}
