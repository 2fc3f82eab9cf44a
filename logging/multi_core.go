package logging

import (
	"go.uber.org/zap/zapcore"
)

// NewConsoleCore returns the console half of the logger: colored and
// human-readable in development mode, JSON otherwise.
func NewConsoleCore(level zapcore.LevelEnabler, w zapcore.WriteSyncer, isDev bool) zapcore.Core {
	var enc zapcore.Encoder
	if isDev {
		enc = zapcore.NewConsoleEncoder(NewConsoleEncoderConfig())
	} else {
		enc = zapcore.NewJSONEncoder(NewEncoderConfig())
	}
	return zapcore.NewCore(enc, w, level)
}

// NewMultiCore tees the console core with a JSON core writing to
// fileWriter. A nil fileWriter yields the console core alone.
func NewMultiCore(level zapcore.LevelEnabler, consoleWriter, fileWriter zapcore.WriteSyncer, isDev bool) zapcore.Core {
	console := NewConsoleCore(level, consoleWriter, isDev)
	if fileWriter == nil {
		return console
	}
	file := zapcore.NewCore(zapcore.NewJSONEncoder(NewEncoderConfig()), fileWriter, level)
	return zapcore.NewTee(console, file)
}
