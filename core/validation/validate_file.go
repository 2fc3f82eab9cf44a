package validation

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileExistsError indicates a file or directory is missing or unusable,
// with a descriptive message.
type FileExistsError struct {
	Path    string
	Message string
	Err     error
}

func (e *FileExistsError) Error() string {
	return e.Message
}

// Unwrap returns the underlying filesystem error, if any.
func (e *FileExistsError) Unwrap() error {
	return e.Err
}

// CheckFileExists checks if a regular file exists at the given path.
// Returns nil if the file exists, or a *FileExistsError describing the failure.
func CheckFileExists(path string) error {
	info, err := stat(path, "file")
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &FileExistsError{
			Path:    path,
			Message: fmt.Sprintf("path is a directory, not a file: %s", path),
		}
	}
	return nil
}

// CheckDirExists checks if a directory exists at the given path.
func CheckDirExists(path string) error {
	info, err := stat(path, "directory")
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &FileExistsError{
			Path:    path,
			Message: fmt.Sprintf("path is a file, not a directory: %s", path),
		}
	}
	return nil
}

// CheckDirWritable creates path if needed and verifies a file can be
// written into it. The scratch file is removed again.
func CheckDirWritable(path string) error {
	if path == "" {
		return &FileExistsError{Path: path, Message: "directory path cannot be empty"}
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return &FileExistsError{
			Path:    path,
			Message: fmt.Sprintf("cannot create directory %s: %v", path, err),
			Err:     err,
		}
	}
	scratch, err := os.CreateTemp(path, ".fsr2-write-check-*")
	if err != nil {
		return &FileExistsError{
			Path:    path,
			Message: fmt.Sprintf("cannot write to %s: %v", path, err),
			Err:     err,
		}
	}
	name := scratch.Name()
	scratch.Close()
	os.Remove(name)
	return nil
}

func stat(path, kind string) (os.FileInfo, error) {
	if path == "" {
		return nil, &FileExistsError{
			Path:    path,
			Message: fmt.Sprintf("%s path cannot be empty", kind),
		}
	}
	info, err := os.Stat(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &FileExistsError{
				Path:    path,
				Message: fmt.Sprintf("%s not found: %s", kind, path),
				Err:     err,
			}
		}
		return nil, &FileExistsError{
			Path:    path,
			Message: fmt.Sprintf("error checking %s %s: %v", kind, path, err),
			Err:     err,
		}
	}
	return info, nil
}
