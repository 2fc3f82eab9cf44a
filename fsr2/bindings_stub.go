//go:build !cgo || stub || (!vk && !dx12)

// Portable build used when the native libraries are not linked: go build
// without the vk/dx12 tags, with CGO_ENABLED=0, or with -tags stub.
//
// Context entry points fail with ErrNotLinked. The query functions and
// ResourceIsNull follow the published formulas of the native library so
// that callers can size render targets and jitter without a GPU.

package fsr2

const linkMode = "stub"

func newContextImpl() *Context {
	return new(Context)
}

func freeContextImpl(*Context) {}

func contextCreateImpl(*Context, *ContextDescription) error {
	return ErrNotLinked
}

func contextDispatchImpl(*Context, *DispatchDescription) error {
	return ErrNotLinked
}

func contextGenerateReactiveMaskImpl(*Context, *GenerateReactiveDescription) error {
	return ErrNotLinked
}

func contextDestroyImpl(*Context) error {
	return ErrNotLinked
}

func upscaleRatioImpl(q QualityMode) float32 {
	return portableUpscaleRatio(q)
}

func renderResolutionImpl(displayWidth, displayHeight uint32, q QualityMode) (uint32, uint32, error) {
	w, h, code := portableRenderResolution(displayWidth, displayHeight, q)
	return w, h, result(code)
}

func jitterPhaseCountImpl(renderWidth, displayWidth int32) int32 {
	return portableJitterPhaseCount(renderWidth, displayWidth)
}

func jitterOffsetImpl(index, phaseCount int32) (float32, float32, error) {
	x, y, code := portableJitterOffset(index, phaseCount)
	return x, y, result(code)
}

func resourceIsNullImpl(r Resource) bool {
	return r.Resource == 0
}

func messageCallback() uintptr {
	return 0
}
