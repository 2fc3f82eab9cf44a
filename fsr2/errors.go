package fsr2

import (
	"errors"
	"fmt"
)

// ErrorCode is the 32-bit status returned by every fallible FSR2 entry point.
// Zero is success; every failure has the high bit set.
//
// ErrorCode implements error so that wrappers can hand the native value back
// unchanged. Use Code to recover it from a returned error.
type ErrorCode int32

// Error codes from ffx_error.h.
const (
	Ok                  ErrorCode = 0
	InvalidPointer      ErrorCode = -0x80000000 // 0x80000000
	InvalidAlignment    ErrorCode = -0x7fffffff // 0x80000001
	InvalidSize         ErrorCode = -0x7ffffffe // 0x80000002
	EOF                 ErrorCode = -0x7ffffffd // 0x80000003
	InvalidPath         ErrorCode = -0x7ffffffc // 0x80000004
	ErrorEOF            ErrorCode = -0x7ffffffb // 0x80000005
	MalformedData       ErrorCode = -0x7ffffffa // 0x80000006
	OutOfMemory         ErrorCode = -0x7ffffff9 // 0x80000007
	IncompleteInterface ErrorCode = -0x7ffffff8 // 0x80000008
	InvalidEnum         ErrorCode = -0x7ffffff7 // 0x80000009
	InvalidArgument     ErrorCode = -0x7ffffff6 // 0x8000000a
	OutOfRange          ErrorCode = -0x7ffffff5 // 0x8000000b
	NullDevice          ErrorCode = -0x7ffffff4 // 0x8000000c
	BackendAPIError     ErrorCode = -0x7ffffff3 // 0x8000000d
	InsufficientMemory  ErrorCode = -0x7ffffff2 // 0x8000000e
)

var errorCodeNames = map[ErrorCode]string{
	Ok:                  "ok",
	InvalidPointer:      "invalid pointer",
	InvalidAlignment:    "invalid alignment",
	InvalidSize:         "invalid size",
	EOF:                 "end of file",
	InvalidPath:         "invalid path",
	ErrorEOF:            "error end of file",
	MalformedData:       "malformed data",
	OutOfMemory:         "out of memory",
	IncompleteInterface: "incomplete interface",
	InvalidEnum:         "invalid enum",
	InvalidArgument:     "invalid argument",
	OutOfRange:          "out of range",
	NullDevice:          "null device",
	BackendAPIError:     "backend API error",
	InsufficientMemory:  "insufficient memory",
}

// Uint32 returns the code as the unsigned value printed in the native header.
func (c ErrorCode) Uint32() uint32 {
	return uint32(c)
}

// IsError reports whether c denotes a failure.
func (c ErrorCode) IsError() bool {
	return c != Ok
}

// Known reports whether c is one of the documented codes.
func (c ErrorCode) Known() bool {
	_, ok := errorCodeNames[c]
	return ok
}

// String returns the documented name of the code.
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("unknown error code 0x%08x", uint32(c))
}

// Error implements the error interface.
func (c ErrorCode) Error() string {
	return fmt.Sprintf("fsr2: %s (0x%08x)", c.String(), uint32(c))
}

// result converts a native status to a Go error without translating it.
func result(c ErrorCode) error {
	if c == Ok {
		return nil
	}
	return c
}

// Code extracts the native status from an error returned by this package.
// It returns (Ok, true) for nil. ok is false for errors that carry no
// ErrorCode, such as ErrNotLinked, which never came from the native library.
func Code(err error) (code ErrorCode, ok bool) {
	if err == nil {
		return Ok, true
	}
	if errors.As(err, &code) {
		return code, true
	}
	return Ok, false
}

// Sentinel errors for conditions raised by the Go side of the binding.
var (
	// ErrNotLinked is returned by entry points that need the native library
	// when the package was built without it.
	ErrNotLinked = errors.New("fsr2: native library not linked")

	// ErrNilBackend is returned when a session is created without a backend.
	ErrNilBackend = errors.New("fsr2: nil backend")

	// ErrInvalidHandle is returned for unknown or stale arena handles.
	ErrInvalidHandle = errors.New("fsr2: invalid session handle")

	// ErrArenaClosed is returned by arena operations after Close.
	ErrArenaClosed = errors.New("fsr2: arena closed")
)
