package fsr2

import (
	"strings"
	"testing"
)

func TestEnumValues(t *testing.T) {
	// DOING: Pin enum values that cross the C boundary
	// EXPECT: Values match the native headers
	// IF YES: Descriptions are interpreted correctly by the library
	// IF NO: An iota block drifted

	tests := []struct {
		name string
		got  int64
		want int64
	}{
		{"SurfaceFormatUnknown", int64(SurfaceFormatUnknown), 0},
		{"SurfaceFormatR11G11B10Float", int64(SurfaceFormatR11G11B10Float), 9},
		{"SurfaceFormatR32Float", int64(SurfaceFormatR32Float), 19},
		{"ShaderModel5_1", int64(ShaderModel5_1), 0},
		{"ShaderModel6_7", int64(ShaderModel6_7), 8},
		{"ResourceTypeTexture3D", int64(ResourceTypeTexture3D), 3},
		{"JobTypeCompute", int64(JobTypeCompute), 2},
		{"QualityModeQuality", int64(QualityModeQuality), 1},
		{"QualityModeUltraPerformance", int64(QualityModeUltraPerformance), 4},
		{"PassTCRAutogenerate", int64(PassTCRAutogenerate), 8},
		{"PassCount", PassCount, 9},
		{"MsgTypeWarning", int64(MsgTypeWarning), 1},
		{"MsgTypeCount", MsgTypeCount, 2},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestFlagBits(t *testing.T) {
	tests := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"ResourceUsageReadOnly", uint32(ResourceUsageReadOnly), 0},
		{"ResourceUsageUAV", uint32(ResourceUsageUAV), 2},
		{"ResourceStateCopyDest", uint32(ResourceStateCopyDest), 8},
		{"ResourceStateGenericRead", uint32(ResourceStateGenericRead), 6},
		{"EnableHighDynamicRange", uint32(EnableHighDynamicRange), 1},
		{"EnableDepthInverted", uint32(EnableDepthInverted), 8},
		{"EnableAutoExposure", uint32(EnableAutoExposure), 32},
		{"EnableDebugChecking", uint32(EnableDebugChecking), 256},
		{"AutoReactiveUseComponentsMax", uint32(AutoReactiveUseComponentsMax), 8},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestResourceState_GenericRead(t *testing.T) {
	s := ResourceStateGenericRead
	if !s.Has(ResourceStateCopySrc) || !s.Has(ResourceStateComputeRead) {
		t.Errorf("GenericRead = %v, want CopySrc|ComputeRead", s)
	}
	if s.Has(ResourceStateUnorderedAccess) {
		t.Error("GenericRead must not include UnorderedAccess")
	}
	if got := s.String(); got != "ComputeRead|CopySrc" {
		t.Errorf("String() = %q", got)
	}
}

func TestFlagString(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"usage read only", ResourceUsageReadOnly.String(), "ReadOnly"},
		{"usage both", (ResourceUsageRenderTarget | ResourceUsageUAV).String(), "RenderTarget|UAV"},
		{"flags none", ResourceFlagsNone.String(), "None"},
		{"init unnamed bit", (EnableDepthInverted | InitializationFlags(1<<12)).String(), "DepthInverted|0x1000"},
		{"surface format", SurfaceFormatRGBA16Float.String(), "RGBA16Float"},
		{"surface format out of range", SurfaceFormat(42).String(), "SurfaceFormat(42)"},
		{"quality", QualityModeBalanced.String(), "Balanced"},
		{"quality invalid", QualityMode(0).String(), "QualityMode(0)"},
		{"pass", PassRCAS.String(), "RCAS"},
		{"msg", MsgTypeError.String(), "error"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestResource_Name(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"ascii", "FSR2_InputColor", "FSR2_InputColor"},
		{"non-ascii", "Farbe_Ü", "Farbe_Ü"},
		{"truncated", strings.Repeat("x", 100), strings.Repeat("x", ResourceNameSize-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Resource
			r.SetName(tt.input)
			if got := r.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
			if r.NameBuf[ResourceNameSize-1] != 0 {
				t.Error("name buffer must stay NUL-terminated")
			}
		})
	}
}

func TestResourceBinding_NameOverwrite(t *testing.T) {
	var b ResourceBinding
	b.SetName("a_much_longer_first_name")
	b.SetName("short")
	if got := b.Name(); got != "short" {
		t.Errorf("Name() = %q, want %q", got, "short")
	}
}

func TestNullResource(t *testing.T) {
	if !ResourceIsNull(NullResource()) {
		t.Error("NullResource() should be null")
	}
	r := NullResource()
	r.Resource = 0x1000
	if ResourceIsNull(r) {
		t.Error("resource with a native pointer should not be null")
	}
}

func TestParseBackendKind(t *testing.T) {
	tests := []struct {
		input   string
		want    BackendKind
		wantErr bool
	}{
		{"vk", BackendVulkan, false},
		{"Vulkan", BackendVulkan, false},
		{" DX12 ", BackendDX12, false},
		{"d3d12", BackendDX12, false},
		{"metal", BackendNone, true},
		{"", BackendNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBackendKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBackendKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBackendKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBackendKind_Names(t *testing.T) {
	tests := []struct {
		kind    BackendKind
		gfx     string
		tag     string
		library string
	}{
		{BackendVulkan, "VK", "vk", "ffx_fsr2_api_vk_x64"},
		{BackendDX12, "DX12", "dx12", "ffx_fsr2_api_dx12_x64"},
		{BackendNone, "NONE", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.GFXAPI(); got != tt.gfx {
				t.Errorf("GFXAPI() = %q, want %q", got, tt.gfx)
			}
			if got := tt.kind.BuildTag(); got != tt.tag {
				t.Errorf("BuildTag() = %q, want %q", got, tt.tag)
			}
			if got := tt.kind.LibraryName(); got != tt.library {
				t.Errorf("LibraryName() = %q, want %q", got, tt.library)
			}
		})
	}
}

func TestInterface_Complete(t *testing.T) {
	var iface Interface
	if iface.Complete() {
		t.Error("zero interface reported complete")
	}
	full := Interface{
		FpCreateBackendContext: 1, FpGetDeviceCapabilities: 1, FpDestroyBackendContext: 1,
		FpCreateResource: 1, FpRegisterResource: 1, FpUnregisterResources: 1,
		FpGetResourceDescription: 1, FpDestroyResource: 1, FpCreatePipeline: 1,
		FpDestroyPipeline: 1, FpScheduleGpuJob: 1, FpExecuteGpuJobs: 1,
	}
	if !full.Complete() {
		t.Error("populated interface reported incomplete")
	}
	full.FpExecuteGpuJobs = 0
	if full.Complete() {
		t.Error("interface with a missing callback reported complete")
	}
}
