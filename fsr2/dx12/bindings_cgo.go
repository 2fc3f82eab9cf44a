//go:build cgo && windows && dx12 && !vk && !stub

package dx12

/*
#cgo CFLAGS: -I${SRCDIR}/../include
#cgo LDFLAGS: -L${SRCDIR}/../../lib -lffx_fsr2_api_dx12_x64 -lffx_fsr2_api_x64 -ld3d12 -ldxgi

#include <stdlib.h>
#include "fsr2_dx12_abi.h"
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

func scratchMemorySizeImpl() uintptr {
	return uintptr(C.ffxFsr2GetScratchMemorySizeDX12())
}

func getInterfaceImpl(device Device) (*Backend, error) {
	size := C.ffxFsr2GetScratchMemorySizeDX12()
	scratch := C.malloc(size)
	if scratch == nil {
		return nil, fsr2.OutOfMemory
	}
	b := &Backend{scratch: uintptr(scratch)}
	code := fsr2.ErrorCode(C.ffxFsr2GetInterfaceDX12(unsafe.Pointer(&b.iface), unsafe.Pointer(device), scratch, size))
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
	return fsr2.Device(C.ffxGetDeviceDX12(unsafe.Pointer(device)))
}

func getCommandListImpl(cmd CommandList) fsr2.CommandList {
	return fsr2.CommandList(C.ffxGetCommandListDX12(unsafe.Pointer(cmd)))
}

func resourceImpl(ctx *fsr2.Context, res Resource, state fsr2.ResourceState, mapping uint32) fsr2.Resource {
	r := C.ffxGetResourceDX12(unsafe.Pointer(ctx), unsafe.Pointer(res), nil, C.int32_t(state), C.uint32_t(mapping))
	return *(*fsr2.Resource)(unsafe.Pointer(&r))
}

func resourcePtrImpl(ctx *fsr2.Context, resID uint32) Resource {
	return Resource(C.ffxGetDX12ResourcePtr(unsafe.Pointer(ctx), C.uint32_t(resID)))
}
