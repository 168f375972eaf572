// Package logging writes structured JSON logs to a file under the tool's
// state directory, with an optional human-readable console mirror on
// stderr. Commands stay quiet on stdout; diagnostics go here.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logFileName is the single log file all commands append to.
const logFileName = "confluence.log"

// Field aliases zap.Field so callers import one package.
type Field = zap.Field

var (
	String   = zap.String
	Int      = zap.Int
	Error    = zap.Error
	Duration = zap.Duration
)

// LevelFromString maps a config-file level name to a zap level. Unknown
// names fall back to info rather than failing startup.
func LevelFromString(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger is a thin wrapper around zap.Logger.
type Logger struct {
	zap *zap.Logger
}

// Config controls where logs go and at what levels.
type Config struct {
	LogDir         string
	FileLevel      zapcore.Level
	ConsoleLevel   zapcore.Level
	ConsoleEnabled bool
	EnableCaller   bool
}

// DefaultConfig logs info and above to the state directory and mirrors
// warnings to the console.
func DefaultConfig() *Config {
	return &Config{
		LogDir:         ".confluence-skills/logs",
		FileLevel:      zapcore.InfoLevel,
		ConsoleLevel:   zapcore.WarnLevel,
		ConsoleEnabled: true,
	}
}

// LogFile returns the path of the file NewLogger appends to.
func (cfg *Config) LogFile() string {
	return filepath.Join(cfg.LogDir, logFileName)
}

// NewLogger opens the log file, creating the directory if needed, and
// builds a logger that writes JSON entries there. When the console is
// enabled, entries at ConsoleLevel and above are also printed to stderr
// in a human-readable form.
func NewLogger(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(cfg.LogFile(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	fileEncoding := zap.NewProductionEncoderConfig()
	fileEncoding.TimeKey = "timestamp"
	fileEncoding.EncodeTime = zapcore.ISO8601TimeEncoder
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(fileEncoding),
		zapcore.AddSync(file),
		cfg.FileLevel,
	)

	core := fileCore
	if cfg.ConsoleEnabled {
		consoleEncoding := zap.NewDevelopmentEncoderConfig()
		consoleEncoding.EncodeTime = zapcore.ISO8601TimeEncoder
		core = zapcore.NewTee(fileCore, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoding),
			zapcore.AddSync(os.Stderr),
			cfg.ConsoleLevel,
		))
	}

	opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}
	return &Logger{zap: zap.New(core, opts...)}, nil
}

// NewNopLogger returns a logger that discards everything. Tests use it.
func NewNopLogger() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zap.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zap.Error(msg, fields...)
}

// With returns a child logger that attaches fields to every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zap: l.zap.With(fields...)}
}
