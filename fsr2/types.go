package fsr2

import (
	"fmt"
	"strings"
	"unsafe"
)

// Array sizes fixed by ffx_types.h.
const (
	MaxNumSRVs         = 16
	MaxNumUAVs         = 8
	MaxNumConstBuffers = 2
	MaxConstSize       = 64
	ResourceNameSize   = 64
)

// SurfaceFormat mirrors FfxSurfaceFormat.
type SurfaceFormat int32

const (
	SurfaceFormatUnknown SurfaceFormat = iota
	SurfaceFormatRGBA32Typeless
	SurfaceFormatRGBA32Float
	SurfaceFormatRGBA16Float
	SurfaceFormatRGBA16Unorm
	SurfaceFormatRG32Float
	SurfaceFormatR32Uint
	SurfaceFormatRGBA8Typeless
	SurfaceFormatRGBA8Unorm
	SurfaceFormatR11G11B10Float
	SurfaceFormatRG16Float
	SurfaceFormatRG16Uint
	SurfaceFormatR16Float
	SurfaceFormatR16Uint
	SurfaceFormatR16Unorm
	SurfaceFormatR16Snorm
	SurfaceFormatR8Unorm
	SurfaceFormatR8Uint
	SurfaceFormatRG8Unorm
	SurfaceFormatR32Float
)

var surfaceFormatNames = [...]string{
	"Unknown", "RGBA32Typeless", "RGBA32Float", "RGBA16Float", "RGBA16Unorm",
	"RG32Float", "R32Uint", "RGBA8Typeless", "RGBA8Unorm", "R11G11B10Float",
	"RG16Float", "RG16Uint", "R16Float", "R16Uint", "R16Unorm", "R16Snorm",
	"R8Unorm", "R8Uint", "RG8Unorm", "R32Float",
}

func (f SurfaceFormat) String() string {
	return enumName(int32(f), surfaceFormatNames[:], "SurfaceFormat")
}

// ResourceDimension mirrors FfxResourceDimension.
type ResourceDimension int32

const (
	ResourceDimensionTexture1D ResourceDimension = 0
	ResourceDimensionTexture2D ResourceDimension = 1
)

func (d ResourceDimension) String() string {
	return enumName(int32(d), []string{"Texture1D", "Texture2D"}, "ResourceDimension")
}

// ResourceViewType mirrors FfxResourceViewType.
type ResourceViewType int32

const (
	ResourceViewUnorderedAccess ResourceViewType = 0
	ResourceViewShaderRead      ResourceViewType = 1
)

func (v ResourceViewType) String() string {
	return enumName(int32(v), []string{"UnorderedAccess", "ShaderRead"}, "ResourceViewType")
}

// FilterType mirrors FfxFilterType.
type FilterType int32

const (
	FilterTypePoint  FilterType = 0
	FilterTypeLinear FilterType = 1
)

func (f FilterType) String() string {
	return enumName(int32(f), []string{"Point", "Linear"}, "FilterType")
}

// ShaderModel mirrors FfxShaderModel.
type ShaderModel int32

const (
	ShaderModel5_1 ShaderModel = iota
	ShaderModel6_0
	ShaderModel6_1
	ShaderModel6_2
	ShaderModel6_3
	ShaderModel6_4
	ShaderModel6_5
	ShaderModel6_6
	ShaderModel6_7
)

func (m ShaderModel) String() string {
	return enumName(int32(m), []string{"5.1", "6.0", "6.1", "6.2", "6.3", "6.4", "6.5", "6.6", "6.7"}, "ShaderModel")
}

// ResourceType mirrors FfxResourceType.
type ResourceType int32

const (
	ResourceTypeBuffer ResourceType = iota
	ResourceTypeTexture1D
	ResourceTypeTexture2D
	ResourceTypeTexture3D
)

func (t ResourceType) String() string {
	return enumName(int32(t), []string{"Buffer", "Texture1D", "Texture2D", "Texture3D"}, "ResourceType")
}

// HeapType mirrors FfxHeapType.
type HeapType int32

const (
	HeapTypeDefault HeapType = 0
	HeapTypeUpload  HeapType = 1
)

func (h HeapType) String() string {
	return enumName(int32(h), []string{"Default", "Upload"}, "HeapType")
}

// JobType mirrors FfxGpuJobType.
type JobType int32

const (
	JobTypeClearFloat JobType = 0
	JobTypeCopy       JobType = 1
	JobTypeCompute    JobType = 2
)

func (j JobType) String() string {
	return enumName(int32(j), []string{"ClearFloat", "Copy", "Compute"}, "JobType")
}

func enumName(v int32, names []string, typ string) string {
	if v >= 0 && int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", typ, v)
}

// ResourceUsage mirrors FfxResourceUsage.
type ResourceUsage int32

const (
	ResourceUsageReadOnly     ResourceUsage = 0
	ResourceUsageRenderTarget ResourceUsage = 1 << 0
	ResourceUsageUAV          ResourceUsage = 1 << 1
)

// Has reports whether every bit of f is set in u.
func (u ResourceUsage) Has(f ResourceUsage) bool { return u&f == f }

func (u ResourceUsage) String() string {
	if u == ResourceUsageReadOnly {
		return "ReadOnly"
	}
	return flagString(uint32(u), []string{"RenderTarget", "UAV"})
}

// ResourceState mirrors FfxResourceStates.
type ResourceState int32

const (
	ResourceStateUnorderedAccess ResourceState = 1 << 0
	ResourceStateComputeRead     ResourceState = 1 << 1
	ResourceStateCopySrc         ResourceState = 1 << 2
	ResourceStateCopyDest        ResourceState = 1 << 3
	ResourceStateGenericRead                   = ResourceStateCopySrc | ResourceStateComputeRead
)

// Has reports whether every bit of f is set in s.
func (s ResourceState) Has(f ResourceState) bool { return s&f == f }

func (s ResourceState) String() string {
	return flagString(uint32(s), []string{"UnorderedAccess", "ComputeRead", "CopySrc", "CopyDest"})
}

// ResourceFlags mirrors FfxResourceFlags.
type ResourceFlags int32

const (
	ResourceFlagsNone      ResourceFlags = 0
	ResourceFlagsAliasable ResourceFlags = 1 << 0
)

// Has reports whether every bit of f is set in r.
func (r ResourceFlags) Has(f ResourceFlags) bool { return r&f == f }

func (r ResourceFlags) String() string {
	return flagString(uint32(r), []string{"Aliasable"})
}

// flagString renders set bits by name, unnamed bits in hex.
func flagString(v uint32, names []string) string {
	if v == 0 {
		return "None"
	}
	var parts []string
	for i, name := range names {
		bit := uint32(1) << i
		if v&bit != 0 {
			parts = append(parts, name)
			v &^= bit
		}
	}
	if v != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", v))
	}
	return strings.Join(parts, "|")
}

// Native handle types. They share a representation but are not
// interchangeable.
type (
	Device        uintptr
	CommandList   uintptr
	RootSignature uintptr
	Pipeline      uintptr
)

// DeviceCapabilities mirrors FfxDeviceCapabilities.
type DeviceCapabilities struct {
	MinimumSupportedShaderModel ShaderModel
	WaveLaneCountMin            uint32
	WaveLaneCountMax            uint32
	FP16Supported               bool
	RaytracingSupported         bool
}

// Dimensions2D mirrors FfxDimensions2D.
type Dimensions2D struct {
	Width  uint32
	Height uint32
}

// IntCoords2D mirrors FfxIntCoords2D.
type IntCoords2D struct {
	X int32
	Y int32
}

// FloatCoords2D mirrors FfxFloatCoords2D.
type FloatCoords2D struct {
	X float32
	Y float32
}

// ResourceDescription mirrors FfxResourceDescription.
type ResourceDescription struct {
	Type     ResourceType
	Format   SurfaceFormat
	Width    uint32
	Height   uint32
	Depth    uint32
	MipCount uint32
	Flags    ResourceFlags
}

// Resource mirrors FfxResource. The native library only reads it; the GPU
// object behind Resource stays owned by the caller.
type Resource struct {
	Resource       uintptr
	NameBuf        [ResourceNameSize]WChar
	Description    ResourceDescription
	State          ResourceState
	IsDepth        bool
	DescriptorData uint64
}

// NullResource returns the sentinel resource the native library treats as
// "not bound".
func NullResource() Resource {
	return Resource{}
}

// SetName stores name in the inline wide-character buffer.
func (r *Resource) SetName(name string) { encodeName(r.NameBuf[:], name) }

// Name decodes the inline wide-character buffer.
func (r *Resource) Name() string { return decodeName(r.NameBuf[:]) }

// ResourceInternal mirrors FfxResourceInternal.
type ResourceInternal struct {
	InternalIndex int32
}

// ResourceBinding mirrors FfxResourceBinding.
type ResourceBinding struct {
	SlotIndex          uint32
	ResourceIdentifier uint32
	NameBuf            [ResourceNameSize]WChar
}

// SetName stores name in the inline wide-character buffer.
func (b *ResourceBinding) SetName(name string) { encodeName(b.NameBuf[:], name) }

// Name decodes the inline wide-character buffer.
func (b *ResourceBinding) Name() string { return decodeName(b.NameBuf[:]) }

// PipelineState mirrors FfxPipelineState.
type PipelineState struct {
	RootSignature         RootSignature
	Pipeline              Pipeline
	UAVCount              uint32
	SRVCount              uint32
	ConstCount            uint32
	UAVResourceBindings   [MaxNumUAVs]ResourceBinding
	SRVResourceBindings   [MaxNumSRVs]ResourceBinding
	ConstResourceBindings [MaxNumConstBuffers]ResourceBinding
}

// CreateResourceDescription mirrors FfxCreateResourceDescription.
type CreateResourceDescription struct {
	HeapType            HeapType
	ResourceDescription ResourceDescription
	InitialState        ResourceState
	InitDataSize        uint32
	InitData            uintptr
	Name                uintptr // const wchar_t*
	Usage               ResourceUsage
	ID                  uint32
}

// PipelineDescription mirrors FfxPipelineDescription.
type PipelineDescription struct {
	ContextFlags            uint32
	Samplers                uintptr // FfxFilterType*
	SamplerCount            uintptr // size_t
	RootConstantBufferSizes uintptr // const uint32_t*
	RootConstantBufferCount uint32
}

// ConstantBuffer mirrors FfxConstantBuffer.
type ConstantBuffer struct {
	Uint32Size uint32
	Data       [MaxConstSize]uint32
}

// ClearFloatJobDescription mirrors FfxClearFloatJobDescription.
type ClearFloatJobDescription struct {
	Color  [4]float32
	Target ResourceInternal
}

// ComputeJobDescription mirrors FfxComputeJobDescription.
type ComputeJobDescription struct {
	Pipeline    PipelineState
	Dimensions  [3]uint32
	SRVs        [MaxNumSRVs]ResourceInternal
	SRVNames    [MaxNumSRVs][ResourceNameSize]WChar
	UAVs        [MaxNumUAVs]ResourceInternal
	UAVMip      [MaxNumUAVs]uint32
	UAVNames    [MaxNumUAVs][ResourceNameSize]WChar
	CBs         [MaxNumConstBuffers]ConstantBuffer
	CBNames     [MaxNumConstBuffers][ResourceNameSize]WChar
	CBSlotIndex [MaxNumConstBuffers]uint32
}

// CopyJobDescription mirrors FfxCopyJobDescription.
type CopyJobDescription struct {
	Src ResourceInternal
	Dst ResourceInternal
}

// GpuJob mirrors the anonymous union inside FfxGpuJobDescription. The
// largest member is the compute job, which also carries the strictest
// alignment, so uint64 words give the union its C size and alignment.
type GpuJob struct {
	raw [unsafe.Sizeof(ComputeJobDescription{}) / 8]uint64
}

// Clear views the union as a clear job.
func (j *GpuJob) Clear() *ClearFloatJobDescription {
	return (*ClearFloatJobDescription)(unsafe.Pointer(&j.raw))
}

// Copy views the union as a copy job.
func (j *GpuJob) Copy() *CopyJobDescription {
	return (*CopyJobDescription)(unsafe.Pointer(&j.raw))
}

// Compute views the union as a compute job.
func (j *GpuJob) Compute() *ComputeJobDescription {
	return (*ComputeJobDescription)(unsafe.Pointer(&j.raw))
}

// GpuJobDescription mirrors FfxGpuJobDescription.
type GpuJobDescription struct {
	JobType JobType
	Job     GpuJob
}
