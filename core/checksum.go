package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// ComputeSHA256 computes the SHA256 hash of a file and returns it as a hexadecimal string.
// Used to fingerprint relocated native libraries in the build manifest.
func ComputeSHA256(filepath string) (string, error) {
	if filepath == "" {
		return "", fmt.Errorf("filepath cannot be empty")
	}

	file, err := os.Open(filepath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %q: %w", filepath, err)
	}
	defer file.Close()

	sum, err := ComputeSHA256FromReader(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file %q: %w", filepath, err)
	}
	return sum, nil
}

// ComputeSHA256FromReader computes the SHA256 hash from an io.Reader.
func ComputeSHA256FromReader(r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("reader cannot be nil")
	}

	hasher := sha256.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", fmt.Errorf("failed to read data: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// VerifyChecksum computes the SHA256 hash of a file and compares it against an expected value.
// Comparison is case-insensitive.
func VerifyChecksum(filepath string, expectedHash string) (bool, error) {
	if len(expectedHash) != sha256.Size*2 {
		return false, fmt.Errorf("invalid SHA256 hash length: expected %d characters, got %d", sha256.Size*2, len(expectedHash))
	}
	if _, err := hex.DecodeString(expectedHash); err != nil {
		return false, fmt.Errorf("invalid SHA256 hash format: %w", err)
	}

	computed, err := ComputeSHA256(filepath)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(computed, expectedHash), nil
}
