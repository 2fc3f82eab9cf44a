// Package dx12 declares the DirectX 12 backend of the FSR2 binding. COM
// interface pointers (ID3D12Device, ID3D12CommandList, ID3D12Resource) are
// carried as distinct uintptr types; the caller keeps their reference
// counts.
//
// The native backend is linked on Windows with the dx12 build tag.
// Elsewhere the entry points return fsr2.ErrNotLinked or zero values.
package dx12

import (
	"sync"

	"go_fsr2/fsr2"
)

type (
	// Device is an ID3D12Device*.
	Device uintptr
	// CommandList is an ID3D12CommandList*.
	CommandList uintptr
	// Resource is an ID3D12Resource*.
	Resource uintptr
)

// DefaultShader4ComponentMapping is D3D12_DEFAULT_SHADER_4_COMPONENT_MAPPING.
const DefaultShader4ComponentMapping uint32 = 0x1688

// Backend is the DirectX 12 implementation of fsr2.Backend. Call Free after
// every context created from it has been destroyed.
type Backend struct {
	iface  fsr2.Interface
	device fsr2.Device

	mu      sync.Mutex
	scratch uintptr
}

// Kind implements fsr2.Backend.
func (b *Backend) Kind() fsr2.BackendKind { return fsr2.BackendDX12 }

// Interface implements fsr2.Backend.
func (b *Backend) Interface() *fsr2.Interface { return &b.iface }

// Device implements fsr2.Backend.
func (b *Backend) Device() fsr2.Device { return b.device }

// Free releases the scratch memory. It is safe to call more than once.
func (b *Backend) Free() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.scratch != 0 {
		freeScratchImpl(b.scratch)
		b.scratch = 0
	}
	b.iface = fsr2.Interface{}
}

// GetScratchMemorySize returns the scratch size the callback table needs.
func GetScratchMemorySize() uintptr {
	return scratchMemorySizeImpl()
}

// GetInterface builds the DirectX 12 callback table for device.
func GetInterface(device Device) (*Backend, error) {
	return getInterfaceImpl(device)
}

// GetDevice wraps an ID3D12Device as an fsr2.Device.
func GetDevice(device Device) fsr2.Device {
	return getDeviceImpl(device)
}

// GetCommandList wraps an ID3D12CommandList as an fsr2.CommandList.
func GetCommandList(cmd CommandList) fsr2.CommandList {
	return getCommandListImpl(cmd)
}

// GetResource wraps res for a dispatch with the default component
// mapping. name may be empty.
func GetResource(ctx *fsr2.Context, res Resource, name string, state fsr2.ResourceState) fsr2.Resource {
	return GetResourceMapped(ctx, res, name, state, DefaultShader4ComponentMapping)
}

// GetResourceMapped is GetResource with an explicit shader component
// mapping.
func GetResourceMapped(ctx *fsr2.Context, res Resource, name string, state fsr2.ResourceState, mapping uint32) fsr2.Resource {
	r := resourceImpl(ctx, res, state, mapping)
	if name != "" && !fsr2.ResourceIsNull(r) {
		r.SetName(name)
	}
	return r
}

// GetResourcePtr returns the ID3D12Resource behind an internal resource id
// of ctx.
func GetResourcePtr(ctx *fsr2.Context, resID uint32) Resource {
	return resourcePtrImpl(ctx, resID)
}

// LinkMode reports whether the DirectX 12 backend is linked ("native") or
// not ("stub").
func LinkMode() string {
	return linkMode
}
