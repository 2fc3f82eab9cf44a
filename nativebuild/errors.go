package nativebuild

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrToolNotFound is returned when git or cmake cannot be executed.
	ErrToolNotFound = errors.New("nativebuild: build tool not found")

	// ErrSourceMissing is returned when the vendored FSR2 tree is absent.
	ErrSourceMissing = errors.New("nativebuild: FSR2 source tree missing")

	// ErrBackendSelection is returned unless exactly one backend is selected.
	ErrBackendSelection = errors.New("nativebuild: exactly one backend must be selected")

	// ErrArtifactMissing is returned when the core or backend library was
	// not produced.
	ErrArtifactMissing = errors.New("nativebuild: expected library not produced")

	// ErrChecksumMismatch is returned by VerifyManifest for a relocated
	// library whose contents changed since the build.
	ErrChecksumMismatch = errors.New("nativebuild: artifact checksum mismatch")
)

// ProcessError reports an external command that exited unsuccessfully.
// Error returns the captured stderr verbatim.
type ProcessError struct {
	Step     string
	Command  Command
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return fmt.Sprintf("%s: %s: %v", e.Step, e.Command, e.Err)
}

// Unwrap returns the underlying *exec.ExitError.
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Diagnostic returns the stderr with surrounding whitespace removed, or the
// error text when the process wrote nothing.
func (e *ProcessError) Diagnostic() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return s
	}
	return fmt.Sprintf("%s exited with code %d", e.Command.Name, e.ExitCode)
}
