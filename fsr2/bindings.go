package fsr2

// Entry points of the native library. Every call is synchronous from the
// caller's point of view; GPU work it records runs later on the GPU
// timeline, in the command list the caller submits.
//
// Failure codes are returned unchanged as ErrorCode values.

// ContextCreate initializes ctx from desc. ctx must be zeroed and should
// come from NewContext.
func ContextCreate(ctx *Context, desc *ContextDescription) error {
	return contextCreateImpl(ctx, desc)
}

// ContextDispatch records one upscaling pass into desc.CommandList.
func ContextDispatch(ctx *Context, desc *DispatchDescription) error {
	return contextDispatchImpl(ctx, desc)
}

// ContextGenerateReactiveMask records the auxiliary reactive-mask pass.
func ContextGenerateReactiveMask(ctx *Context, desc *GenerateReactiveDescription) error {
	return contextGenerateReactiveMaskImpl(ctx, desc)
}

// ContextDestroy releases every native resource held by ctx. The memory
// of ctx itself is released separately with Free.
func ContextDestroy(ctx *Context) error {
	return contextDestroyImpl(ctx)
}

// GetUpscaleRatioFromQualityMode returns the display/render ratio of a
// preset, or 0 for an unknown mode.
func GetUpscaleRatioFromQualityMode(q QualityMode) float32 {
	return upscaleRatioImpl(q)
}

// GetRenderResolutionFromQualityMode returns the render size recommended
// for displaying at displayWidth x displayHeight with preset q.
func GetRenderResolutionFromQualityMode(displayWidth, displayHeight uint32, q QualityMode) (renderWidth, renderHeight uint32, err error) {
	return renderResolutionImpl(displayWidth, displayHeight, q)
}

// GetJitterPhaseCount returns the length of the jitter sequence for the
// given render and display widths.
func GetJitterPhaseCount(renderWidth, displayWidth int32) int32 {
	return jitterPhaseCountImpl(renderWidth, displayWidth)
}

// GetJitterOffset returns the sub-pixel jitter for frame index within a
// sequence of phaseCount frames, in the range [-0.5, 0.5).
func GetJitterOffset(index, phaseCount int32) (x, y float32, err error) {
	return jitterOffsetImpl(index, phaseCount)
}

// ResourceIsNull reports whether r is the unbound sentinel resource.
func ResourceIsNull(r Resource) bool {
	return resourceIsNullImpl(r)
}

// LinkMode returns "native" when the package is linked against the FSR2
// libraries and "stub" otherwise.
func LinkMode() string {
	return linkMode
}
