package logging

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// StepFields describes a finished build step.
func StepFields(step string, elapsed time.Duration) []zap.Field {
	return []zap.Field{
		zap.String("step", step),
		zap.Duration("elapsed", elapsed),
	}
}

// CommandField renders an external command line as one field.
func CommandField(name string, args []string) zap.Field {
	return zap.String("command", strings.TrimSpace(name+" "+strings.Join(args, " ")))
}

// ArtifactFields describes one relocated library.
func ArtifactFields(name string, size int64, sha256 string) []zap.Field {
	return []zap.Field{
		zap.String("artifact", name),
		zap.Int64("size_bytes", size),
		zap.String("sha256", sha256),
	}
}

// BackendFields names the graphics backend and build configuration.
func BackendFields(backend, gfxAPI, buildConfig string) []zap.Field {
	return []zap.Field{
		zap.String("backend", backend),
		zap.String("gfx_api", gfxAPI),
		zap.String("build_config", buildConfig),
	}
}

// BuildFields wraps BuildMetrics as a nested object.
func BuildFields(m BuildMetrics) zap.Field {
	return zap.Object("build", m)
}
