package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Byte size constants for human-readable formatting.
// Using binary units (1024 base) as is standard for file sizes.
const (
	BytesPerKB int64 = 1024
	BytesPerMB int64 = 1024 * BytesPerKB
	BytesPerGB int64 = 1024 * BytesPerMB
	BytesPerTB int64 = 1024 * BytesPerGB
)

// FormatBytes converts a byte count to a human-readable string.
// Uses binary units (KiB = 1024 bytes) but displays as KB/MB/GB/TB for familiarity.
// Examples:
//   - FormatBytes(512) returns "512 B"
//   - FormatBytes(1536) returns "1.50 KB"
//   - FormatBytes(1073741824) returns "1.00 GB"
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}

	switch {
	case bytes >= BytesPerTB:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(BytesPerTB))
	case bytes >= BytesPerGB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(BytesPerGB))
	case bytes >= BytesPerMB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(BytesPerMB))
	case bytes >= BytesPerKB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(BytesPerKB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// ParseBytes converts a human-readable size string to bytes.
// Supported formats: "100B", "10KB", "5MB", "2GB", "1TB" (case-insensitive).
// A bare number is taken as bytes. Whitespace between number and unit is allowed.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	numEnd := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != '-'
	})
	if numEnd < 0 {
		numEnd = len(s)
	}
	if numEnd == 0 {
		return 0, fmt.Errorf("invalid size %q: no number found", s)
	}

	value, err := strconv.ParseFloat(s[:numEnd], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("invalid size %q: negative", s)
	}

	var multiplier int64
	switch strings.ToUpper(strings.TrimSpace(s[numEnd:])) {
	case "", "B":
		multiplier = 1
	case "KB", "K":
		multiplier = BytesPerKB
	case "MB", "M":
		multiplier = BytesPerMB
	case "GB", "G":
		multiplier = BytesPerGB
	case "TB", "T":
		multiplier = BytesPerTB
	default:
		return 0, fmt.Errorf("invalid size %q: unknown unit", s)
	}

	return int64(value * float64(multiplier)), nil
}

// ParseBytesEnv reads a size such as "2GB" from an environment variable.
// Returns the default value if the variable is not set or cannot be parsed.
func ParseBytesEnv(key string, defaultValue int64) int64 {
	value := GetEnvOrDefault(key, "")
	if value == "" {
		return defaultValue
	}
	n, err := ParseBytes(value)
	if err != nil {
		return defaultValue
	}
	return n
}
