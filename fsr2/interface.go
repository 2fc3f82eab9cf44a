package fsr2

import (
	"fmt"
	"strings"
)

// Pass identifies one of the FSR2 compute passes a backend builds a
// pipeline for.
type Pass int32

const (
	PassDepthClip Pass = iota
	PassReconstructPreviousDepth
	PassLock
	PassAccumulate
	PassAccumulateSharpen
	PassRCAS
	PassComputeLuminancePyramid
	PassGenerateReactive
	PassTCRAutogenerate

	PassCount = 9
)

func (p Pass) String() string {
	return enumName(int32(p), []string{
		"DepthClip", "ReconstructPreviousDepth", "Lock", "Accumulate",
		"AccumulateSharpen", "RCAS", "ComputeLuminancePyramid",
		"GenerateReactive", "TCRAutogenerate",
	}, "Pass")
}

// MsgType classifies messages delivered through the debug callback.
type MsgType int32

const (
	MsgTypeError   MsgType = 0
	MsgTypeWarning MsgType = 1

	MsgTypeCount = 2
)

func (m MsgType) String() string {
	return enumName(int32(m), []string{"error", "warning"}, "MsgType")
}

// Interface mirrors FfxFsr2Interface, the table of backend callbacks the
// native library drives. A backend's GetInterface fills it in; Go code only
// carries it from there into a ContextDescription.
type Interface struct {
	FpCreateBackendContext   uintptr
	FpGetDeviceCapabilities  uintptr
	FpDestroyBackendContext  uintptr
	FpCreateResource         uintptr
	FpRegisterResource       uintptr
	FpUnregisterResources    uintptr
	FpGetResourceDescription uintptr
	FpDestroyResource        uintptr
	FpCreatePipeline         uintptr
	FpDestroyPipeline        uintptr
	FpScheduleGpuJob         uintptr
	FpExecuteGpuJobs         uintptr

	ScratchBuffer     uintptr
	ScratchBufferSize uintptr
}

// Complete reports whether every callback slot is populated. The native
// library rejects incomplete tables with IncompleteInterface.
func (i *Interface) Complete() bool {
	for _, fp := range []uintptr{
		i.FpCreateBackendContext, i.FpGetDeviceCapabilities, i.FpDestroyBackendContext,
		i.FpCreateResource, i.FpRegisterResource, i.FpUnregisterResources,
		i.FpGetResourceDescription, i.FpDestroyResource, i.FpCreatePipeline,
		i.FpDestroyPipeline, i.FpScheduleGpuJob, i.FpExecuteGpuJobs,
	} {
		if fp == 0 {
			return false
		}
	}
	return true
}

// BackendKind names the graphics API the native library is built for.
type BackendKind int

const (
	BackendNone BackendKind = iota
	BackendVulkan
	BackendDX12
)

// CoreLibraryName is the backend-independent native library.
const CoreLibraryName = "ffx_fsr2_api_x64"

// ParseBackendKind accepts the build tag, the cmake GFX_API value or the
// API name, case-insensitively.
func ParseBackendKind(s string) (BackendKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vk", "vulkan":
		return BackendVulkan, nil
	case "dx12", "d3d12", "directx12":
		return BackendDX12, nil
	default:
		return BackendNone, fmt.Errorf("fsr2: unknown backend %q (want vk or dx12)", s)
	}
}

func (k BackendKind) String() string {
	switch k {
	case BackendVulkan:
		return "vk"
	case BackendDX12:
		return "dx12"
	default:
		return "none"
	}
}

// GFXAPI returns the value the native CMake project expects for -DGFX_API.
func (k BackendKind) GFXAPI() string {
	return strings.ToUpper(k.String())
}

// BuildTag returns the Go build tag that links this backend.
func (k BackendKind) BuildTag() string {
	if k == BackendNone {
		return ""
	}
	return k.String()
}

// LibraryName returns the backend-specific native library name.
func (k BackendKind) LibraryName() string {
	switch k {
	case BackendVulkan:
		return "ffx_fsr2_api_vk_x64"
	case BackendDX12:
		return "ffx_fsr2_api_dx12_x64"
	default:
		return ""
	}
}

// Backend supplies the capabilities a context is created with: the
// callback table and the wrapped device. vk.Backend and dx12.Backend
// implement it.
type Backend interface {
	Kind() BackendKind
	Interface() *Interface
	Device() Device
}

// CompiledBackend reports the backend selected by build tags, or
// BackendNone for the portable build.
func CompiledBackend() BackendKind {
	return compiledBackend
}
