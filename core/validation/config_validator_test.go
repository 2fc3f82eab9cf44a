package validation

import (
	"os"
	"path/filepath"
	"testing"

	"go_fsr2/core"
	"go_fsr2/fsr2"
)

// sourceTree creates a minimal vendored FSR2 tree.
func sourceTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "CMakeLists.txt"), []byte("cmake_minimum_required(VERSION 3.15)\n"), 0644); err != nil {
		t.Fatalf("failed to write CMakeLists.txt: %v", err)
	}
	return dir
}

func TestConfigValidator_CheckBackend(t *testing.T) {
	tests := []struct {
		name        string
		backend     string
		compiled    fsr2.BackendKind
		wantValid   bool
		wantWarning bool
	}{
		{"vk", "vk", fsr2.BackendNone, true, false},
		{"dx12 alias", "d3d12", fsr2.BackendNone, true, false},
		{"unset", "", fsr2.BackendNone, false, false},
		{"unknown", "metal", fsr2.BackendNone, false, false},
		{"both", "vk,dx12", fsr2.BackendNone, false, false},
		{"differs from linked", "dx12", fsr2.BackendVulkan, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewConfigValidator(PreflightConfig{Backend: tt.backend})
			v.compiled = tt.compiled
			res := v.CheckBackend()
			if res.Valid != tt.wantValid || res.Warning != tt.wantWarning {
				t.Errorf("CheckBackend() = %+v", res)
			}
			if !tt.wantValid && core.GetErrorCode(res.Error) != core.ErrCodeBackendSelection {
				t.Errorf("expected BACKEND_SELECTION error, got %v", res.Error)
			}
		})
	}
}

func TestConfigValidator_CheckSourceTree(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		v := NewConfigValidator(PreflightConfig{SourceDir: sourceTree(t)})
		if res := v.CheckSourceTree(); !res.Valid {
			t.Errorf("CheckSourceTree() = %+v", res)
		}
	})

	t.Run("missing dir", func(t *testing.T) {
		v := NewConfigValidator(PreflightConfig{SourceDir: filepath.Join(t.TempDir(), "fsr2")})
		res := v.CheckSourceTree()
		if res.Valid || core.GetErrorCode(res.Error) != core.ErrCodeSourceMissing {
			t.Errorf("CheckSourceTree() = %+v", res)
		}
	})

	t.Run("empty submodule", func(t *testing.T) {
		v := NewConfigValidator(PreflightConfig{SourceDir: t.TempDir()})
		res := v.CheckSourceTree()
		if res.Valid || core.GetErrorCode(res.Error) != core.ErrCodeSourceMissing {
			t.Errorf("CheckSourceTree() = %+v", res)
		}
	})
}

func TestConfigValidator_CheckEnvFile(t *testing.T) {
	v := NewConfigValidator(PreflightConfig{EnvPath: filepath.Join(t.TempDir(), ".env")})
	res := v.CheckEnvFile()
	if !res.Valid || !res.Warning {
		t.Errorf("missing .env should warn, got %+v", res)
	}

	envPath := filepath.Join(t.TempDir(), ".env")
	os.WriteFile(envPath, []byte("FSR2_BACKEND=vk\n"), 0644)
	v = NewConfigValidator(PreflightConfig{EnvPath: envPath})
	if res := v.CheckEnvFile(); !res.Valid || res.Warning {
		t.Errorf("present .env should pass, got %+v", res)
	}
}

func TestConfigValidator_CheckOutputDir(t *testing.T) {
	v := NewConfigValidator(PreflightConfig{OutputDir: filepath.Join(t.TempDir(), "lib")})
	if res := v.CheckOutputDir(); !res.Valid {
		t.Errorf("CheckOutputDir() = %+v", res)
	}
}

func TestConfigValidator_CheckDiskSpace(t *testing.T) {
	dir := sourceTree(t)
	if _, err := GetDiskSpace(dir); err != nil {
		t.Skipf("disk space unavailable on this platform: %v", err)
	}

	v := NewConfigValidator(PreflightConfig{SourceDir: dir, MinFreeBytes: 1})
	if res := v.CheckDiskSpace(); !res.Valid || res.Warning {
		t.Errorf("CheckDiskSpace() = %+v", res)
	}

	v = NewConfigValidator(PreflightConfig{SourceDir: dir, MinFreeBytes: 1 << 62})
	if res := v.CheckDiskSpace(); res.Valid {
		t.Errorf("CheckDiskSpace() with huge requirement = %+v", res)
	}
}
