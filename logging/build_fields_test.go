package logging

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func encode(t *testing.T, fields ...zap.Field) map[string]interface{} {
	t.Helper()
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	return enc.Fields
}

func TestStepFields(t *testing.T) {
	got := encode(t, StepFields("compile", 2*time.Second)...)
	if got["step"] != "compile" {
		t.Errorf("step = %v", got["step"])
	}
	if got["elapsed"] != 2*time.Second {
		t.Errorf("elapsed = %v", got["elapsed"])
	}
}

func TestCommandField(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"cmake", []string{"--build", "build/VK", "--config", "Release"}, "cmake --build build/VK --config Release"},
		{"git", nil, "git"},
	}
	for _, tt := range tests {
		if got := encode(t, CommandField(tt.name, tt.args))["command"]; got != tt.want {
			t.Errorf("CommandField(%q) = %v, want %q", tt.name, got, tt.want)
		}
	}
}

func TestArtifactFields(t *testing.T) {
	got := encode(t, ArtifactFields("libffx_fsr2_api_x64.a", 4096, "ab12")...)
	if got["artifact"] != "libffx_fsr2_api_x64.a" || got["size_bytes"] != int64(4096) || got["sha256"] != "ab12" {
		t.Errorf("ArtifactFields = %v", got)
	}
}

func TestBackendFields(t *testing.T) {
	got := encode(t, BackendFields("vk", "VK", "Release")...)
	if got["backend"] != "vk" || got["gfx_api"] != "VK" || got["build_config"] != "Release" {
		t.Errorf("BackendFields = %v", got)
	}
}

func TestBuildMetrics_MarshalLogObject(t *testing.T) {
	m := BuildMetrics{
		BuildID:       "0b5c",
		Backend:       "dx12",
		BuildConfig:   "Debug",
		Steps:         6,
		Artifacts:     2,
		ArtifactBytes: 1 << 20,
		Duration:      90 * time.Second,
	}

	got := encode(t, BuildFields(m))["build"].(map[string]interface{})

	tests := []struct {
		key  string
		want interface{}
	}{
		{"build_id", "0b5c"},
		{"backend", "dx12"},
		{"build_config", "Debug"},
		{"steps", 6},
		{"artifacts", 2},
		{"artifact_bytes", int64(1 << 20)},
		{"duration_ms", int64(90000)},
	}
	for _, tt := range tests {
		if got[tt.key] != tt.want {
			t.Errorf("%s = %v (%T), want %v (%T)", tt.key, got[tt.key], got[tt.key], tt.want, tt.want)
		}
	}
}
