package fsr2

import "math"

// Version of the native API these declarations mirror.
const (
	VersionMajor = 2
	VersionMinor = 2
	VersionPatch = 0
)

// ContextSize is the size of the opaque context in 32-bit words.
const ContextSize = 16536

// Context is the opaque state of one upscaling session. Its layout is
// private to the native library.
//
// A Context must not be used from more than one goroutine at a time, and
// it must stay at a fixed address between ContextCreate and ContextDestroy.
// Allocate it with NewContext so that it lives outside the Go heap.
type Context struct {
	data [ContextSize]uint32
}

// NewContext allocates a zeroed context that may be handed to the native
// library. Release it with Free after ContextDestroy.
func NewContext() *Context {
	return newContextImpl()
}

// Free releases memory obtained from NewContext. It is a no-op for nil and
// for contexts not allocated by NewContext.
func (c *Context) Free() {
	if c == nil {
		return
	}
	freeContextImpl(c)
}

// QualityMode selects a fixed upscale ratio.
type QualityMode int32

const (
	QualityModeQuality          QualityMode = 1
	QualityModeBalanced         QualityMode = 2
	QualityModePerformance      QualityMode = 3
	QualityModeUltraPerformance QualityMode = 4
)

// QualityModes lists every preset in ascending ratio order.
var QualityModes = []QualityMode{
	QualityModeQuality,
	QualityModeBalanced,
	QualityModePerformance,
	QualityModeUltraPerformance,
}

// Valid reports whether q is one of the four presets.
func (q QualityMode) Valid() bool {
	return q >= QualityModeQuality && q <= QualityModeUltraPerformance
}

func (q QualityMode) String() string {
	switch q {
	case QualityModeQuality:
		return "Quality"
	case QualityModeBalanced:
		return "Balanced"
	case QualityModePerformance:
		return "Performance"
	case QualityModeUltraPerformance:
		return "UltraPerformance"
	default:
		return enumName(int32(q), nil, "QualityMode")
	}
}

// InitializationFlags mirrors FfxFsr2InitializationFlagBits.
type InitializationFlags uint32

const (
	EnableHighDynamicRange                InitializationFlags = 1 << 0
	EnableDisplayResolutionMotionVectors  InitializationFlags = 1 << 1
	EnableMotionVectorsJitterCancellation InitializationFlags = 1 << 2
	EnableDepthInverted                   InitializationFlags = 1 << 3
	EnableDepthInfinite                   InitializationFlags = 1 << 4
	EnableAutoExposure                    InitializationFlags = 1 << 5
	EnableDynamicResolution               InitializationFlags = 1 << 6
	EnableTexture1DUsage                  InitializationFlags = 1 << 7
	EnableDebugChecking                   InitializationFlags = 1 << 8
)

// Has reports whether every bit of f is set.
func (i InitializationFlags) Has(f InitializationFlags) bool { return i&f == f }

func (i InitializationFlags) String() string {
	return flagString(uint32(i), []string{
		"HighDynamicRange", "DisplayResolutionMotionVectors",
		"MotionVectorsJitterCancellation", "DepthInverted", "DepthInfinite",
		"AutoExposure", "DynamicResolution", "Texture1DUsage", "DebugChecking",
	})
}

// AutoReactiveFlags mirrors the FFX_FSR2_AUTOREACTIVEFLAGS_* bits used by
// GenerateReactiveDescription.
type AutoReactiveFlags uint32

const (
	AutoReactiveApplyTonemap        AutoReactiveFlags = 1 << 0
	AutoReactiveApplyInverseTonemap AutoReactiveFlags = 1 << 1
	AutoReactiveApplyThreshold      AutoReactiveFlags = 1 << 2
	AutoReactiveUseComponentsMax    AutoReactiveFlags = 1 << 3
)

// Has reports whether every bit of f is set.
func (a AutoReactiveFlags) Has(f AutoReactiveFlags) bool { return a&f == f }

func (a AutoReactiveFlags) String() string {
	return flagString(uint32(a), []string{"ApplyTonemap", "ApplyInverseTonemap", "ApplyThreshold", "UseComponentsMax"})
}

// ContextDescription mirrors FfxFsr2ContextDescription.
type ContextDescription struct {
	Flags         InitializationFlags
	MaxRenderSize Dimensions2D
	DisplaySize   Dimensions2D
	Callbacks     Interface
	Device        Device
	FpMessage     uintptr
}

// DispatchDescription mirrors FfxFsr2DispatchDescription. It is read only
// for the duration of one ContextDispatch call.
type DispatchDescription struct {
	CommandList                CommandList
	Color                      Resource
	Depth                      Resource
	MotionVectors              Resource
	Exposure                   Resource
	Reactive                   Resource
	TransparencyAndComposition Resource
	Output                     Resource
	JitterOffset               FloatCoords2D
	MotionVectorScale          FloatCoords2D
	RenderSize                 Dimensions2D
	EnableSharpening           bool
	Sharpness                  float32
	FrameTimeDelta             float32 // milliseconds
	PreExposure                float32
	Reset                      bool
	CameraNear                 float32
	CameraFar                  float32
	CameraFovAngleVertical     float32
	ViewSpaceToMetersFactor    float32
	EnableAutoReactive         bool
	ColorOpaqueOnly            Resource
	AutoTcThreshold            float32
	AutoTcScale                float32
	AutoReactiveScale          float32
	AutoReactiveMax            float32
}

// GenerateReactiveDescription mirrors FfxFsr2GenerateReactiveDescription.
type GenerateReactiveDescription struct {
	CommandList     CommandList
	ColorOpaqueOnly Resource
	ColorPreUpscale Resource
	OutReactive     Resource
	RenderSize      Dimensions2D
	Scale           float32
	CutoffThreshold float32
	BinaryValue     float32
	Flags           AutoReactiveFlags
}

// ContextConfig is what a session is created from; the callback table and
// device come from the injected Backend.
type ContextConfig struct {
	Flags         InitializationFlags
	MaxRenderSize Dimensions2D
	DisplaySize   Dimensions2D
	Backend       Backend

	// Messages routes native debug messages to the handler installed with
	// SetMessageHandler.
	Messages bool
}

// Description builds the native description for cfg.
func (cfg ContextConfig) Description() (ContextDescription, error) {
	if cfg.Backend == nil {
		return ContextDescription{}, ErrNilBackend
	}
	desc := ContextDescription{
		Flags:         cfg.Flags,
		MaxRenderSize: cfg.MaxRenderSize,
		DisplaySize:   cfg.DisplaySize,
		Device:        cfg.Backend.Device(),
	}
	if iface := cfg.Backend.Interface(); iface != nil {
		desc.Callbacks = *iface
	}
	if cfg.Messages {
		desc.FpMessage = messageCallback()
	}
	return desc, nil
}

// Upscale ratios published for each preset.
var upscaleRatios = map[QualityMode]float32{
	QualityModeQuality:          1.5,
	QualityModeBalanced:         1.7,
	QualityModePerformance:      2.0,
	QualityModeUltraPerformance: 3.0,
}

// portableUpscaleRatio returns 0 for unknown modes, like the native call.
func portableUpscaleRatio(q QualityMode) float32 {
	return upscaleRatios[q]
}

func portableRenderResolution(displayWidth, displayHeight uint32, q QualityMode) (uint32, uint32, ErrorCode) {
	if !q.Valid() {
		return 0, 0, InvalidEnum
	}
	ratio := portableUpscaleRatio(q)
	return uint32(float32(displayWidth) / ratio), uint32(float32(displayHeight) / ratio), Ok
}

func portableJitterPhaseCount(renderWidth, displayWidth int32) int32 {
	const basePhaseCount = 8.0
	scale := float32(displayWidth) / float32(renderWidth)
	return int32(basePhaseCount * float32(math.Pow(float64(scale), 2)))
}

func portableJitterOffset(index, phaseCount int32) (float32, float32, ErrorCode) {
	if phaseCount <= 0 {
		return 0, 0, InvalidArgument
	}
	i := index%phaseCount + 1
	return halton(i, 2) - 0.5, halton(i, 3) - 0.5, Ok
}

func halton(index, base int32) float32 {
	f, r := float32(1), float32(0)
	for i := index; i > 0; {
		f /= float32(base)
		r += f * float32(i%base)
		i = int32(math.Floor(float64(float32(i) / float32(base))))
	}
	return r
}
