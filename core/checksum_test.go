package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const helloWorldSHA256 = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func TestComputeSHA256FromReader(t *testing.T) {
	got, err := ComputeSHA256FromReader(strings.NewReader("hello world"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != helloWorldSHA256 {
		t.Errorf("ComputeSHA256FromReader() = %q, want %q", got, helloWorldSHA256)
	}

	if _, err := ComputeSHA256FromReader(nil); err == nil {
		t.Error("expected error for nil reader")
	}
}

func TestComputeSHA256(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		content  []byte
		expected string
	}{
		{"empty file", []byte{}, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"text file", []byte("hello world"), helloWorldSHA256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFile := filepath.Join(tmpDir, tt.name+".bin")
			if err := os.WriteFile(testFile, tt.content, 0644); err != nil {
				t.Fatalf("failed to create test file: %v", err)
			}

			result, err := ComputeSHA256(testFile)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("ComputeSHA256() = %q, want %q", result, tt.expected)
			}
		})
	}

	t.Run("nonexistent file", func(t *testing.T) {
		if _, err := ComputeSHA256(filepath.Join(tmpDir, "nonexistent.so")); err == nil {
			t.Error("expected error for nonexistent file, got nil")
		}
	})

	t.Run("empty filepath", func(t *testing.T) {
		if _, err := ComputeSHA256(""); err == nil {
			t.Error("expected error for empty filepath, got nil")
		}
	})
}

func TestVerifyChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "libffx_fsr2_api_x64.a")
	if err := os.WriteFile(path, []byte("hello world"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name    string
		hash    string
		want    bool
		wantErr bool
	}{
		{"match", helloWorldSHA256, true, false},
		{"match uppercase", strings.ToUpper(helloWorldSHA256), true, false},
		{"mismatch", strings.Repeat("0", 64), false, false},
		{"short hash", "abc", false, true},
		{"not hex", strings.Repeat("z", 64), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VerifyChecksum(path, tt.hash)
			if (err != nil) != tt.wantErr {
				t.Fatalf("VerifyChecksum() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("VerifyChecksum() = %v, want %v", got, tt.want)
			}
		})
	}
}
