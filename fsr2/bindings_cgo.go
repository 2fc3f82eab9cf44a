//go:build cgo && (vk || dx12) && !stub

// Native build. Requires the libraries produced by `go_fsr2 build` in
// lib/ at the module root (or CGO_LDFLAGS from lib/cgo_ldflags.env):
//
//	go_fsr2 build
//	CGO_ENABLED=1 go build -tags vk ./...

package fsr2

/*
#cgo CFLAGS: -I${SRCDIR}/include
#cgo LDFLAGS: -L${SRCDIR}/../lib -lffx_fsr2_api_x64
#cgo linux LDFLAGS: -Wl,-rpath,${SRCDIR}/../lib -lstdc++ -lm

#include <stdlib.h>
#include "fsr2_abi.h"

extern void goFsr2Message(int32_t, wchar_t*);

static uintptr_t fsr2MessageCallback(void) {
    return (uintptr_t)&goFsr2Message;
}
*/
import "C"

import (
	"sync"
	"unsafe"
)

const linkMode = "native"

// The C mirror of FfxResource is passed by value; keep it in lockstep with
// the Go mirror.
var (
	_ [unsafe.Sizeof(C.FfxResource{}) - unsafe.Sizeof(Resource{})]struct{}
	_ [unsafe.Sizeof(Resource{}) - unsafe.Sizeof(C.FfxResource{})]struct{}
)

// cContexts records contexts allocated in C memory.
var cContexts sync.Map

func newContextImpl() *Context {
	ptr := C.calloc(1, C.size_t(unsafe.Sizeof(Context{})))
	if ptr == nil {
		return nil
	}
	ctx := (*Context)(ptr)
	cContexts.Store(ctx, struct{}{})
	return ctx
}

func freeContextImpl(ctx *Context) {
	if _, ok := cContexts.LoadAndDelete(ctx); ok {
		C.free(unsafe.Pointer(ctx))
	}
}

func contextCreateImpl(ctx *Context, desc *ContextDescription) error {
	return result(ErrorCode(C.ffxFsr2ContextCreate(unsafe.Pointer(ctx), unsafe.Pointer(desc))))
}

func contextDispatchImpl(ctx *Context, desc *DispatchDescription) error {
	return result(ErrorCode(C.ffxFsr2ContextDispatch(unsafe.Pointer(ctx), unsafe.Pointer(desc))))
}

func contextGenerateReactiveMaskImpl(ctx *Context, desc *GenerateReactiveDescription) error {
	return result(ErrorCode(C.ffxFsr2ContextGenerateReactiveMask(unsafe.Pointer(ctx), unsafe.Pointer(desc))))
}

func contextDestroyImpl(ctx *Context) error {
	return result(ErrorCode(C.ffxFsr2ContextDestroy(unsafe.Pointer(ctx))))
}

func upscaleRatioImpl(q QualityMode) float32 {
	return float32(C.ffxFsr2GetUpscaleRatioFromQualityMode(C.int32_t(q)))
}

func renderResolutionImpl(displayWidth, displayHeight uint32, q QualityMode) (uint32, uint32, error) {
	var w, h C.uint32_t
	code := C.ffxFsr2GetRenderResolutionFromQualityMode(&w, &h, C.uint32_t(displayWidth), C.uint32_t(displayHeight), C.int32_t(q))
	return uint32(w), uint32(h), result(ErrorCode(code))
}

func jitterPhaseCountImpl(renderWidth, displayWidth int32) int32 {
	return int32(C.ffxFsr2GetJitterPhaseCount(C.int32_t(renderWidth), C.int32_t(displayWidth)))
}

func jitterOffsetImpl(index, phaseCount int32) (float32, float32, error) {
	var x, y C.float
	code := C.ffxFsr2GetJitterOffset(&x, &y, C.int32_t(index), C.int32_t(phaseCount))
	return float32(x), float32(y), result(ErrorCode(code))
}

func resourceIsNullImpl(r Resource) bool {
	return bool(C.ffxFsr2ResourceIsNull(*(*C.FfxResource)(unsafe.Pointer(&r))))
}

func messageCallback() uintptr {
	return uintptr(C.fsr2MessageCallback())
}
