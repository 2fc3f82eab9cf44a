// Package logging provides the structured logger used by the go_fsr2
// command and the build orchestrator.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures NewLogger.
type Options struct {
	// Development selects colored console output and debug level.
	Development bool

	// Level overrides the level implied by Development when non-nil.
	Level *zapcore.Level

	// FilePath enables a rotating JSON log file. Empty means console only.
	FilePath string

	// File configures rotation. Zero values use the defaults.
	File FileWriterConfig

	// Console receives console output. Defaults to stderr.
	Console zapcore.WriteSyncer
}

// Logger wraps zap.Logger with console and file output.
//
//	logger, err := logging.NewLogger(logging.Options{Development: true, FilePath: "logs/build.log"})
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	logger.Info("configure finished", logging.StepFields("configure", elapsed)...)
type Logger struct {
	zap   *zap.Logger
	level zap.AtomicLevel

	isDevelopment bool
	logFilePath   string
}

// NewLogger builds a Logger from opts. It fails only when the log file
// cannot be created.
func NewLogger(opts Options) (*Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Development {
		level.SetLevel(zapcore.DebugLevel)
	}
	if opts.Level != nil {
		level.SetLevel(*opts.Level)
	}

	console := opts.Console
	if console == nil {
		console = zapcore.Lock(os.Stderr)
	}

	var file zapcore.WriteSyncer
	if opts.FilePath != "" {
		var err error
		file, err = NewFileWriterWithConfig(opts.FilePath, opts.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", opts.FilePath, err)
		}
	}

	core := NewMultiCore(level, console, file, opts.Development)
	return newLogger(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)), level, opts.Development, opts.FilePath), nil
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() *Logger {
	return newLogger(zap.NewNop(), zap.NewAtomicLevelAt(zapcore.FatalLevel), false, "")
}

func newLogger(z *zap.Logger, level zap.AtomicLevel, dev bool, path string) *Logger {
	return &Logger{
		zap:           z,
		level:         level,
		isDevelopment: dev,
		logFilePath:   path,
	}
}

// Sync flushes buffered entries. Call it before exiting.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	return l.zap.Sync()
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.zap.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.zap.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.zap.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.zap.Error(msg, fields...) }

// With returns a child logger that adds fields to every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return newLogger(l.zap.With(fields...), l.level, l.isDevelopment, l.logFilePath)
}

// Named returns a child logger with name appended to the logger name.
func (l *Logger) Named(name string) *Logger {
	return newLogger(l.zap.Named(name), l.level, l.isDevelopment, l.logFilePath)
}

// SetLevel changes the level of this logger and every logger derived from it.
func (l *Logger) SetLevel(level zapcore.Level) {
	l.level.SetLevel(level)
}

// Level returns the current level.
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

// Zap returns the underlying zap.Logger without the wrapper's caller skip,
// for packages that take a *zap.Logger.
func (l *Logger) Zap() *zap.Logger {
	return l.zap.WithOptions(zap.AddCallerSkip(-1))
}

// IsDevelopment reports whether the logger was built for development.
func (l *Logger) IsDevelopment() bool {
	return l.isDevelopment
}

// LogFilePath returns the log file path, or "" for console-only loggers.
func (l *Logger) LogFilePath() string {
	return l.logFilePath
}
