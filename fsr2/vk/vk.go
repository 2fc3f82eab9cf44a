// Package vk declares the Vulkan backend of the FSR2 binding: Vulkan handle
// types, the callback table factory, and the helpers that wrap Vulkan
// objects as fsr2.Resource values or read them back out of a live context.
//
// Link it with the vk build tag. Without the tag (or without cgo) every
// entry point that needs the native backend returns fsr2.ErrNotLinked or a
// zero value.
package vk

import (
	"sync"

	"go_fsr2/fsr2"
)

// Vulkan handles. Each is a distinct type so that an image cannot be passed
// where a view or buffer is expected.
type (
	PhysicalDevice uint64
	Device         uint64
	CommandBuffer  uint64
	Image          uint64
	ImageView      uint64
	Buffer         uint64
)

// Format is a VkFormat value.
type Format int32

// ImageLayout is a VkImageLayout value.
type ImageLayout int32

// A few VkFormat values the upscaler inputs commonly use.
const (
	FormatUndefined          Format = 0
	FormatR8G8B8A8Unorm      Format = 37
	FormatR16G16Sfloat       Format = 83
	FormatR16G16B16A16Sfloat Format = 97
	FormatR32Sfloat          Format = 100
	FormatB10G11R11Ufloat    Format = 122
	FormatD32Sfloat          Format = 126
)

// Image layouts reported by GetImageLayout.
const (
	ImageLayoutUndefined             ImageLayout = 0
	ImageLayoutGeneral               ImageLayout = 1
	ImageLayoutShaderReadOnlyOptimal ImageLayout = 5
	ImageLayoutTransferSrcOptimal    ImageLayout = 6
	ImageLayoutTransferDstOptimal    ImageLayout = 7
)

// ProcAddr is a PFN_vkGetDeviceProcAddr obtained from the Vulkan loader.
type ProcAddr uintptr

// Backend is the Vulkan implementation of fsr2.Backend. It owns the
// scratch memory the callback table works in; call Free after every
// context created from it has been destroyed.
type Backend struct {
	iface  fsr2.Interface
	device fsr2.Device

	mu      sync.Mutex
	scratch uintptr
}

// Kind implements fsr2.Backend.
func (b *Backend) Kind() fsr2.BackendKind { return fsr2.BackendVulkan }

// Interface implements fsr2.Backend.
func (b *Backend) Interface() *fsr2.Interface { return &b.iface }

// Device implements fsr2.Backend.
func (b *Backend) Device() fsr2.Device { return b.device }

// ScratchSize returns the size of the scratch allocation in bytes.
func (b *Backend) ScratchSize() uintptr { return b.iface.ScratchBufferSize }

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

// GetScratchMemorySize returns the scratch size the callback table needs
// for physicalDevice.
func GetScratchMemorySize(physicalDevice PhysicalDevice) uintptr {
	return scratchMemorySizeImpl(physicalDevice)
}

// GetInterface builds the Vulkan callback table for physicalDevice and
// wraps device for use in a context description. Native failures are
// returned unchanged.
func GetInterface(physicalDevice PhysicalDevice, device Device, getDeviceProcAddr ProcAddr) (*Backend, error) {
	return getInterfaceImpl(physicalDevice, device, getDeviceProcAddr)
}

// GetDevice wraps a VkDevice as an fsr2.Device.
func GetDevice(device Device) fsr2.Device {
	return getDeviceImpl(device)
}

// GetCommandList wraps a VkCommandBuffer as an fsr2.CommandList.
func GetCommandList(cmd CommandBuffer) fsr2.CommandList {
	return getCommandListImpl(cmd)
}

// GetTextureResource wraps a 2D image and its view for a dispatch. name
// may be empty.
func GetTextureResource(ctx *fsr2.Context, image Image, view ImageView, width, height uint32, format Format, name string, state fsr2.ResourceState) fsr2.Resource {
	res := textureResourceImpl(ctx, image, view, width, height, format, state)
	if name != "" && !fsr2.ResourceIsNull(res) {
		res.SetName(name)
	}
	return res
}

// GetBufferResource wraps a buffer of size bytes for a dispatch. name may
// be empty.
func GetBufferResource(ctx *fsr2.Context, buffer Buffer, size uint32, name string, state fsr2.ResourceState) fsr2.Resource {
	res := bufferResourceImpl(ctx, buffer, size, state)
	if name != "" && !fsr2.ResourceIsNull(res) {
		res.SetName(name)
	}
	return res
}

// GetImage returns the image behind an internal resource id of ctx.
func GetImage(ctx *fsr2.Context, resID uint32) Image {
	return imageImpl(ctx, resID)
}

// GetImageView returns the view behind an internal resource id of ctx.
func GetImageView(ctx *fsr2.Context, resID uint32) ImageView {
	return imageViewImpl(ctx, resID)
}

// GetImageLayout returns the current layout of an internal resource of ctx.
func GetImageLayout(ctx *fsr2.Context, resID uint32) ImageLayout {
	return imageLayoutImpl(ctx, resID)
}

// LinkMode reports whether the Vulkan backend is linked ("native") or not
// ("stub").
func LinkMode() string {
	return linkMode
}
