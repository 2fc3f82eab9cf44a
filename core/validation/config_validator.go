package validation

import (
	"fmt"
	"path/filepath"

	"go_fsr2/core"
	"go_fsr2/fsr2"
)

// ValidationResult represents the result of a single preflight check.
type ValidationResult struct {
	Valid   bool
	Warning bool // passed, but with something the user should know
	Message string
	Error   error
}

// PreflightConfig is the build configuration the checks run against.
type PreflightConfig struct {
	EnvPath      string // .env file; optional
	Backend      string // FSR2_BACKEND value
	SourceDir    string // vendored FSR2 tree
	OutputDir    string // where libraries are relocated
	Git          string // git executable name or path
	CMake        string // cmake executable name or path
	MinFreeBytes int64  // required free space for the build tree
}

// ConfigValidator checks a PreflightConfig against the local machine.
type ConfigValidator struct {
	cfg      PreflightConfig
	compiled fsr2.BackendKind
}

// NewConfigValidator creates a ConfigValidator for cfg.
func NewConfigValidator(cfg PreflightConfig) *ConfigValidator {
	if cfg.EnvPath == "" {
		cfg.EnvPath = ".env"
	}
	return &ConfigValidator{cfg: cfg, compiled: fsr2.CompiledBackend()}
}

// CheckEnvFile reports whether the .env file exists. A missing file is a
// warning: every setting can come from the process environment instead.
func (v *ConfigValidator) CheckEnvFile() ValidationResult {
	if err := CheckFileExists(v.cfg.EnvPath); err != nil {
		return ValidationResult{
			Valid:   true,
			Warning: true,
			Message: "No .env file, using process environment",
			Error:   core.ErrEnvFileMissing(v.cfg.EnvPath),
		}
	}
	return ValidationResult{Valid: true, Message: "Environment file found"}
}

// CheckBackend validates that exactly one graphics backend is selected.
func (v *ConfigValidator) CheckBackend() ValidationResult {
	if v.cfg.Backend == "" {
		return ValidationResult{
			Message: "FSR2_BACKEND required (vk or dx12)",
			Error:   core.ErrBackendSelection("", nil),
		}
	}
	kind, err := fsr2.ParseBackendKind(v.cfg.Backend)
	if err != nil {
		return ValidationResult{
			Message: fmt.Sprintf("Unknown backend %q", v.cfg.Backend),
			Error:   core.ErrBackendSelection(v.cfg.Backend, err),
		}
	}
	if v.compiled != fsr2.BackendNone && v.compiled != kind {
		return ValidationResult{
			Valid:   true,
			Warning: true,
			Message: fmt.Sprintf("Building %s, but this binary links %s", kind, v.compiled),
		}
	}
	return ValidationResult{Valid: true, Message: fmt.Sprintf("%s (GFX_API=%s)", kind, kind.GFXAPI())}
}

// CheckSourceTree validates that the vendored FSR2 tree is present.
func (v *ConfigValidator) CheckSourceTree() ValidationResult {
	if err := CheckDirExists(v.cfg.SourceDir); err != nil {
		return ValidationResult{
			Message: "Source tree missing",
			Error:   core.ErrSourceMissing(v.cfg.SourceDir, err),
		}
	}
	if err := CheckFileExists(filepath.Join(v.cfg.SourceDir, "CMakeLists.txt")); err != nil {
		return ValidationResult{
			Message: "CMakeLists.txt missing, submodule not checked out?",
			Error:   core.ErrSourceMissing(v.cfg.SourceDir, err),
		}
	}
	return ValidationResult{Valid: true, Message: v.cfg.SourceDir}
}

// CheckOutputDir validates that the output directory can be written.
func (v *ConfigValidator) CheckOutputDir() ValidationResult {
	if err := CheckDirWritable(v.cfg.OutputDir); err != nil {
		return ValidationResult{
			Message: "Output directory not writable",
			Error:   core.ErrOutputNotWritable(v.cfg.OutputDir, err),
		}
	}
	return ValidationResult{Valid: true, Message: v.cfg.OutputDir}
}

// CheckDiskSpace validates free space on the filesystem of the source tree,
// where CMake places its build directory.
func (v *ConfigValidator) CheckDiskSpace() ValidationResult {
	info, err := GetDiskSpace(v.cfg.SourceDir)
	if err != nil {
		return ValidationResult{
			Valid:   true,
			Warning: true,
			Message: "Could not determine free space",
			Error:   err,
		}
	}
	if err := CheckDiskSpace(info.Path, v.cfg.MinFreeBytes); err != nil {
		return ValidationResult{Message: "Insufficient disk space", Error: err}
	}
	return ValidationResult{Valid: true, Message: fmt.Sprintf("%s free", info.FreeFormatted)}
}
