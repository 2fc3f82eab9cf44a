package core

import (
	"errors"
	"fmt"
)

// ConfigError represents a configuration-related error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
	Err     error  // Underlying cause, if any
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Error codes for configuration errors
const (
	ErrCodeEnvFileMissing    = "ENV_FILE_MISSING"
	ErrCodeMissingConfig     = "MISSING_CONFIG"
	ErrCodeInvalidValue      = "INVALID_VALUE"
	ErrCodeBackendSelection  = "BACKEND_SELECTION"
	ErrCodeSourceMissing     = "SOURCE_MISSING"
	ErrCodeToolMissing       = "TOOL_MISSING"
	ErrCodeOutputNotWritable = "OUTPUT_NOT_WRITABLE"
)

// ErrEnvFileMissing returns an error for missing .env file
func ErrEnvFileMissing(path string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeEnvFileMissing,
		Message: fmt.Sprintf("Configuration file not found: %s", path),
		Action:  "Copy .env.example to .env or export the FSR2_* variables",
	}
}

// ErrMissingConfig returns an error for missing required configuration
func ErrMissingConfig(varName string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingConfig,
		Message: fmt.Sprintf("Missing required configuration: %s", varName),
		Action:  fmt.Sprintf("Set %s in your .env file", varName),
	}
}

// ErrInvalidValue returns an error for a variable holding an unusable value
func ErrInvalidValue(varName, value, want string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidValue,
		Message: fmt.Sprintf("Invalid %s '%s'", varName, value),
		Action:  fmt.Sprintf("Set %s to %s", varName, want),
	}
}

// ErrBackendSelection returns an error when zero or several graphics
// backends are selected.
func ErrBackendSelection(value string, cause error) *ConfigError {
	msg := "No graphics backend selected"
	if value != "" {
		msg = fmt.Sprintf("Invalid graphics backend selection '%s'", value)
	}
	return &ConfigError{
		Code:    ErrCodeBackendSelection,
		Message: msg,
		Action:  "Set FSR2_BACKEND to exactly one of vk or dx12",
		Err:     cause,
	}
}

// ErrSourceMissing returns an error when the vendored source tree is absent
func ErrSourceMissing(dir string, cause error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeSourceMissing,
		Message: fmt.Sprintf("FSR2 source tree not found at %s", dir),
		Action:  "Run 'git submodule update --init' in the repository or set FSR2_SOURCE_DIR",
		Err:     cause,
	}
}

// ErrToolMissing returns an error when a required executable is not on PATH
func ErrToolMissing(tool, envVar string, cause error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeToolMissing,
		Message: fmt.Sprintf("%s not found", tool),
		Action:  fmt.Sprintf("Install %s or point %s at the executable", tool, envVar),
		Err:     cause,
	}
}

// ErrOutputNotWritable returns an error when artifacts cannot be written
func ErrOutputNotWritable(dir string, cause error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeOutputNotWritable,
		Message: fmt.Sprintf("Output directory %s is not writable", dir),
		Action:  "Fix the permissions or set FSR2_OUTPUT_DIR to a writable directory",
		Err:     cause,
	}
}

// IsConfigError checks if an error is or wraps a ConfigError and returns it if so
func IsConfigError(err error) (*ConfigError, bool) {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error if it's a ConfigError
func GetErrorCode(err error) string {
	if configErr, ok := IsConfigError(err); ok {
		return configErr.Code
	}
	return ""
}
