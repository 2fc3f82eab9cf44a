package validation

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go_fsr2/core"
)

// ToolChecker verifies that the external build tools can be found and run.
type ToolChecker struct {
	lookPath func(string) (string, error)
	version  func(ctx context.Context, path string) (string, error)
	timeout  time.Duration
}

// NewToolChecker returns a ToolChecker that searches PATH.
func NewToolChecker() *ToolChecker {
	return &ToolChecker{
		lookPath: exec.LookPath,
		version:  toolVersion,
		timeout:  10 * time.Second,
	}
}

// CheckTool resolves tool and reports its version. envVar names the
// variable that overrides it, for the error message.
func (c *ToolChecker) CheckTool(tool, envVar string) ValidationResult {
	path, err := c.lookPath(tool)
	if err != nil {
		return ValidationResult{
			Message: fmt.Sprintf("%s not on PATH", tool),
			Error:   core.ErrToolMissing(tool, envVar, err),
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	version, err := c.version(ctx, path)
	if err != nil {
		return ValidationResult{
			Valid:   true,
			Warning: true,
			Message: fmt.Sprintf("%s found but --version failed", path),
			Error:   err,
		}
	}
	return ValidationResult{Valid: true, Message: version}
}

// toolVersion returns the first line of `<path> --version`.
func toolVersion(ctx context.Context, path string) (string, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "--version")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(out.String(), "\n")
	return strings.TrimSpace(line), nil
}
