//go:build cgo && vk && !dx12 && !stub

package vk

/*
#cgo CFLAGS: -I${SRCDIR}/../include
#cgo LDFLAGS: -L${SRCDIR}/../../lib -lffx_fsr2_api_vk_x64 -lffx_fsr2_api_x64
#cgo linux LDFLAGS: -Wl,-rpath,${SRCDIR}/../../lib -lvulkan -lstdc++ -lm
#cgo windows LDFLAGS: -lvulkan-1

#include <stdlib.h>
#include "fsr2_vk_abi.h"
*/
import "C"

import (
	"unsafe"

	"go_fsr2/fsr2"
)

const linkMode = "native"

var (
	_ [unsafe.Sizeof(C.FfxResource{}) - unsafe.Sizeof(fsr2.Resource{})]struct{}
	_ [unsafe.Sizeof(fsr2.Resource{}) - unsafe.Sizeof(C.FfxResource{})]struct{}
)

func toResource(r C.FfxResource) fsr2.Resource {
	return *(*fsr2.Resource)(unsafe.Pointer(&r))
}

func scratchMemorySizeImpl(pd PhysicalDevice) uintptr {
	return uintptr(C.ffxFsr2GetScratchMemorySizeVK(C.uint64_t(pd)))
}

func getInterfaceImpl(pd PhysicalDevice, device Device, proc ProcAddr) (*Backend, error) {
	size := C.ffxFsr2GetScratchMemorySizeVK(C.uint64_t(pd))
	scratch := C.malloc(size)
	if scratch == nil {
		return nil, fsr2.OutOfMemory
	}
	b := &Backend{scratch: uintptr(scratch)}
	code := fsr2.ErrorCode(C.ffxFsr2GetInterfaceVK(unsafe.Pointer(&b.iface), scratch, size, C.uint64_t(pd), C.uintptr_t(proc)))
	if code != fsr2.Ok {
		C.free(scratch)
		return nil, code
	}
	b.device = getDeviceImpl(device)
	return b, nil
}

func freeScratchImpl(p uintptr) {
	C.free(unsafe.Pointer(p))
}

func getDeviceImpl(device Device) fsr2.Device {
	return fsr2.Device(C.ffxGetDeviceVK(C.uint64_t(device)))
}

func getCommandListImpl(cmd CommandBuffer) fsr2.CommandList {
	return fsr2.CommandList(C.ffxGetCommandListVK(C.uint64_t(cmd)))
}

func textureResourceImpl(ctx *fsr2.Context, image Image, view ImageView, width, height uint32, format Format, state fsr2.ResourceState) fsr2.Resource {
	return toResource(C.ffxGetTextureResourceVK(unsafe.Pointer(ctx), C.uint64_t(image), C.uint64_t(view),
		C.uint32_t(width), C.uint32_t(height), C.int32_t(format), nil, C.int32_t(state)))
}

func bufferResourceImpl(ctx *fsr2.Context, buffer Buffer, size uint32, state fsr2.ResourceState) fsr2.Resource {
	return toResource(C.ffxGetBufferResourceVK(unsafe.Pointer(ctx), C.uint64_t(buffer), C.uint32_t(size), nil, C.int32_t(state)))
}

func imageImpl(ctx *fsr2.Context, resID uint32) Image {
	return Image(C.ffxGetVkImage(unsafe.Pointer(ctx), C.uint32_t(resID)))
}

func imageViewImpl(ctx *fsr2.Context, resID uint32) ImageView {
	return ImageView(C.ffxGetVkImageView(unsafe.Pointer(ctx), C.uint32_t(resID)))
}

func imageLayoutImpl(ctx *fsr2.Context, resID uint32) ImageLayout {
	return ImageLayout(C.ffxGetVkImageLayout(unsafe.Pointer(ctx), C.uint32_t(resID)))
}
