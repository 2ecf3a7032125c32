package logging

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevelEnvVar selects the log level when Initialize is given none.
// Unset or empty means no logging.
const LogLevelEnvVar = "SLHTTPD_LOG_LEVEL"

// maxDumpLen caps hex and ascii dumps.
const maxDumpLen = 128

var (
	current atomic.Pointer[zap.Logger]
	level   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Initialize installs a console logger on stderr. An empty level falls back
// to SLHTTPD_LOG_LEVEL; if that is empty too, logging is disabled. Unknown
// names log at info.
func Initialize(name string) error {
	if name == "" {
		name = os.Getenv(LogLevelEnvVar)
	}
	if name == "" {
		current.Store(zap.NewNop())
		return nil
	}

	lvl, err := ParseLevel(name)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	level.SetLevel(lvl)

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeCaller = zapcore.ShortCallerEncoder

	sink, _, err := zap.Open("stderr")
	if err != nil {
		return fmt.Errorf("failed to open log output: %w", err)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), sink, level)
	current.Store(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)))
	return nil
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// SetLevel changes the level of a logger created by Initialize.
func SetLevel(l zapcore.Level) { level.SetLevel(l) }

// SetLogger replaces the global logger, e.g. with an observer in tests.
func SetLogger(l *zap.Logger) { current.Store(l) }

// GetLogger returns the global logger, a no-op one before Initialize.
func GetLogger() *zap.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

func Info(msg string, fields ...zap.Field)  { GetLogger().Info(msg, fields...) }
func Debug(msg string, fields ...zap.Field) { GetLogger().Debug(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { GetLogger().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { GetLogger().Error(msg, fields...) }

// LogTokenEvent records one token dispatch. matched is false when no
// callback is registered for the token.
func LogTokenEvent(direction, token string, matched bool, length int) {
	Debug("Token event",
		zap.String("direction", direction),
		zap.String("token", token),
		zap.Bool("matched", matched),
		zap.Int("length", length),
	)
}

// LogHTTPRequest records a request served by the emulator or sent by the
// client.
func LogHTTPRequest(peer, method, path string, status int) {
	Info("HTTP request",
		zap.String("peer", peer),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
	)
}

// LogRawBytes dumps data as hex and printable ASCII at debug level.
func LogRawBytes(label string, data []byte) {
	if !GetLogger().Core().Enabled(zapcore.DebugLevel) {
		return
	}
	Debug(label,
		zap.Int("length", len(data)),
		zap.String("hex", hexDump(data)),
		zap.String("ascii", asciiDump(data)),
	)
}

func hexDump(data []byte) string {
	if len(data) > maxDumpLen {
		return hex.EncodeToString(data[:maxDumpLen]) + "..."
	}
	return hex.EncodeToString(data)
}

func asciiDump(data []byte) string {
	if len(data) > maxDumpLen {
		data = data[:maxDumpLen]
	}
	out := []byte(string(data))
	for i, b := range out {
		if b < 0x20 || b > 0x7e {
			out[i] = '.'
		}
	}
	return string(out)
}

// Sync flushes buffered entries.
func Sync() {
	_ = GetLogger().Sync()
}
