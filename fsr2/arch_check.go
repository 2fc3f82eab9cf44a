//go:build !amd64 && !arm64

package fsr2

// The struct mirrors assume a 64-bit C ABI.
var _ = fsr2_bindings_require_a_64_bit_target
