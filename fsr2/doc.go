// Package fsr2 provides Go bindings for the FidelityFX Super Resolution 2
// (FSR2) temporal upscaler.
//
// The upscaling algorithm, GPU job scheduling and resource lifetime all
// live in the native library. This package only declares its entry points
// and mirrors its C structs, enums and flag sets byte for byte.
//
// # Building
//
// The native libraries are produced by the go_fsr2 command at the module
// root and copied to lib/:
//
//	go run . build          # FSR2_BACKEND=vk or dx12
//	CGO_ENABLED=1 go build -tags vk ./...
//
// Exactly one of the vk and dx12 tags links the native library; setting
// both is a compile error. Without either tag (or with CGO_ENABLED=0, or
// -tags stub) the portable build is used: context entry points return
// ErrNotLinked while the query functions (upscale ratio, render
// resolution, jitter) and ResourceIsNull follow the native formulas.
//
// # Quick Start
//
//	ratio := fsr2.GetUpscaleRatioFromQualityMode(fsr2.QualityModeBalanced)
//
//	w, h, err := fsr2.GetRenderResolutionFromQualityMode(3840, 2160, fsr2.QualityModeQuality)
//
//	arena := fsr2.NewArena()
//	defer arena.Close()
//
//	session, err := arena.Create(fsr2.ContextConfig{
//	    MaxRenderSize: fsr2.Dimensions2D{Width: w, Height: h},
//	    DisplaySize:   fsr2.Dimensions2D{Width: 3840, Height: 2160},
//	    Backend:       backend, // *vk.Backend or *dx12.Backend
//	})
//	...
//	err = arena.Dispatch(session, &dispatch)
//
// # Error Handling
//
// Native failures are returned as ErrorCode values, unchanged:
//
//	err := fsr2.ContextDispatch(ctx, &desc)
//	if code, ok := fsr2.Code(err); ok && code == fsr2.OutOfMemory {
//	    // free GPU memory and retry
//	}
//
// The two end-of-file codes of the native header (EOF and ErrorEOF) are
// both kept.
//
// # Thread Safety
//
// A Context must not be used concurrently. Arena serializes calls per
// handle. Recording into a command list in the correct state and
// submitting it are the caller's responsibility.
//
// # Layout
//
// All mirrors assume a 64-bit target. WChar is the platform wchar_t:
// 2 bytes on Windows, 4 bytes elsewhere, which changes the size of every
// struct with an inline name.
package fsr2
