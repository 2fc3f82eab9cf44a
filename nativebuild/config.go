package nativebuild

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go_fsr2/core"
	"go_fsr2/core/validation"
	"go_fsr2/fsr2"
)

// Environment variables read by LoadConfig.
const (
	EnvBackend      = "FSR2_BACKEND"
	EnvSourceDir    = "FSR2_SOURCE_DIR"
	EnvOutputDir    = "FSR2_OUTPUT_DIR"
	EnvBuildConfig  = "FSR2_BUILD_CONFIG"
	EnvGit          = "FSR2_GIT"
	EnvCMake        = "FSR2_CMAKE"
	EnvBuildTimeout = "FSR2_BUILD_TIMEOUT"
	EnvMinFreeDisk  = "FSR2_MIN_FREE_DISK"
)

// Defaults for Config.
const (
	DefaultSourceDir          = "fsr2/vendor/fsr2"
	DefaultOutputDir          = "lib"
	DefaultBuildConfig        = "Release"
	DefaultBuildTimeoutSecond = 1800
)

// BuildConfigs lists the accepted CMake configurations.
var BuildConfigs = []string{"Release", "Debug"}

// Config describes one native build.
type Config struct {
	Backend      fsr2.BackendKind
	SourceDir    string
	OutputDir    string
	BuildConfig  string
	Git          string
	CMake        string
	Timeout      time.Duration // zero disables the overall deadline
	MinFreeBytes int64

	// GOOS is the target platform. It selects the -A x64 generator
	// platform on Windows.
	GOOS string
}

// DefaultConfig returns the defaults for backend.
func DefaultConfig(backend fsr2.BackendKind) Config {
	return Config{
		Backend:      backend,
		SourceDir:    DefaultSourceDir,
		OutputDir:    DefaultOutputDir,
		BuildConfig:  DefaultBuildConfig,
		Git:          "git",
		CMake:        "cmake",
		Timeout:      DefaultBuildTimeoutSecond * time.Second,
		MinFreeBytes: validation.DefaultMinFreeBytes,
		GOOS:         runtime.GOOS,
	}
}

// LoadConfig reads the build configuration from the environment. When
// FSR2_BACKEND is unset the backend linked into this binary is used.
func LoadConfig() (Config, error) {
	value := core.GetEnvOrDefault(EnvBackend, "")
	backend := fsr2.CompiledBackend()
	if value != "" || backend == fsr2.BackendNone {
		var err error
		if backend, err = ParseBackendSelection(value); err != nil {
			return Config{}, err
		}
	}

	cfg := DefaultConfig(backend)
	cfg.SourceDir = core.GetEnvOrDefault(EnvSourceDir, cfg.SourceDir)
	cfg.OutputDir = core.GetEnvOrDefault(EnvOutputDir, cfg.OutputDir)
	cfg.Git = core.GetEnvOrDefault(EnvGit, cfg.Git)
	cfg.CMake = core.GetEnvOrDefault(EnvCMake, cfg.CMake)
	cfg.Timeout = core.ParseDurationEnv(EnvBuildTimeout, DefaultBuildTimeoutSecond)
	cfg.MinFreeBytes = core.ParseBytesEnv(EnvMinFreeDisk, cfg.MinFreeBytes)

	buildConfig, err := core.ParseChoiceEnv(EnvBuildConfig, cfg.BuildConfig, BuildConfigs...)
	if err != nil {
		return Config{}, err
	}
	cfg.BuildConfig = buildConfig

	return cfg, cfg.Validate()
}

// ParseBackendSelection parses a backend list such as "vk" or "vk,dx12".
// Anything other than exactly one distinct backend is an error wrapping
// ErrBackendSelection.
func ParseBackendSelection(value string) (fsr2.BackendKind, error) {
	selected := map[fsr2.BackendKind]bool{}
	for _, name := range strings.FieldsFunc(value, isListSeparator) {
		kind, err := fsr2.ParseBackendKind(name)
		if err != nil {
			return fsr2.BackendNone, core.ErrBackendSelection(value, fmt.Errorf("%w: %w", ErrBackendSelection, err))
		}
		selected[kind] = true
	}
	if len(selected) != 1 {
		return fsr2.BackendNone, core.ErrBackendSelection(value, ErrBackendSelection)
	}
	var kind fsr2.BackendKind
	for k := range selected {
		kind = k
	}
	return kind, nil
}

func isListSeparator(r rune) bool {
	return r == ',' || r == ';' || r == ' ' || r == '\t'
}

// Validate checks the configuration for values the build cannot use.
func (c Config) Validate() error {
	if c.Backend != fsr2.BackendVulkan && c.Backend != fsr2.BackendDX12 {
		return core.ErrBackendSelection(c.Backend.String(), ErrBackendSelection)
	}
	if c.SourceDir == "" {
		return core.ErrMissingConfig(EnvSourceDir)
	}
	if c.OutputDir == "" {
		return core.ErrMissingConfig(EnvOutputDir)
	}
	if c.Git == "" {
		return core.ErrMissingConfig(EnvGit)
	}
	if c.CMake == "" {
		return core.ErrMissingConfig(EnvCMake)
	}
	for _, bc := range BuildConfigs {
		if c.BuildConfig == bc {
			return nil
		}
	}
	return core.ErrInvalidValue(EnvBuildConfig, c.BuildConfig, "Release or Debug")
}

// BuildDir returns the CMake binary directory for the selected backend.
func (c Config) BuildDir() string {
	return filepath.Join(c.SourceDir, "build", c.Backend.GFXAPI())
}

// Preflight returns the checks to run before building with c.
func (c Config) Preflight(envPath string) validation.PreflightConfig {
	return validation.PreflightConfig{
		EnvPath:      envPath,
		Backend:      c.Backend.String(),
		SourceDir:    c.SourceDir,
		OutputDir:    c.OutputDir,
		Git:          c.Git,
		CMake:        c.CMake,
		MinFreeBytes: c.MinFreeBytes,
	}
}

// PreflightFromEnv builds the preflight checks straight from the
// environment, without rejecting bad values, so that preflight can report
// every problem at once.
func PreflightFromEnv(envPath string) validation.PreflightConfig {
	cfg := DefaultConfig(fsr2.CompiledBackend())
	backend := core.GetEnvOrDefault(EnvBackend, "")
	if backend == "" && cfg.Backend != fsr2.BackendNone {
		backend = cfg.Backend.String()
	}
	return validation.PreflightConfig{
		EnvPath:      envPath,
		Backend:      backend,
		SourceDir:    core.GetEnvOrDefault(EnvSourceDir, cfg.SourceDir),
		OutputDir:    core.GetEnvOrDefault(EnvOutputDir, cfg.OutputDir),
		Git:          core.GetEnvOrDefault(EnvGit, cfg.Git),
		CMake:        core.GetEnvOrDefault(EnvCMake, cfg.CMake),
		MinFreeBytes: core.ParseBytesEnv(EnvMinFreeDisk, cfg.MinFreeBytes),
	}
}
