package logging

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// BuildMetrics summarizes one orchestrator run for the final log entry.
type BuildMetrics struct {
	BuildID       string
	Backend       string
	BuildConfig   string
	Steps         int
	Artifacts     int
	ArtifactBytes int64
	Duration      time.Duration
}

// MarshalLogObject implements zapcore.ObjectMarshaler. Duration is encoded
// in milliseconds.
func (m BuildMetrics) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("build_id", m.BuildID)
	enc.AddString("backend", m.Backend)
	enc.AddString("build_config", m.BuildConfig)
	enc.AddInt("steps", m.Steps)
	enc.AddInt("artifacts", m.Artifacts)
	enc.AddInt64("artifact_bytes", m.ArtifactBytes)
	enc.AddInt64("duration_ms", m.Duration.Milliseconds())
	return nil
}
