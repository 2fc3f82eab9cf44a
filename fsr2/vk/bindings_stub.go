//go:build !cgo || !vk || dx12 || stub

package vk

import "go_fsr2/fsr2"

const linkMode = "stub"

func scratchMemorySizeImpl(PhysicalDevice) uintptr { return 0 }

func getInterfaceImpl(PhysicalDevice, Device, ProcAddr) (*Backend, error) {
	return nil, fsr2.ErrNotLinked
}

func freeScratchImpl(uintptr) {}

// Handle wrapping is a plain conversion in the native backend as well.
func getDeviceImpl(device Device) fsr2.Device { return fsr2.Device(device) }

func getCommandListImpl(cmd CommandBuffer) fsr2.CommandList { return fsr2.CommandList(cmd) }

func textureResourceImpl(*fsr2.Context, Image, ImageView, uint32, uint32, Format, fsr2.ResourceState) fsr2.Resource {
	return fsr2.NullResource()
}

func bufferResourceImpl(*fsr2.Context, Buffer, uint32, fsr2.ResourceState) fsr2.Resource {
	return fsr2.NullResource()
}

func imageImpl(*fsr2.Context, uint32) Image { return 0 }

func imageViewImpl(*fsr2.Context, uint32) ImageView { return 0 }

func imageLayoutImpl(*fsr2.Context, uint32) ImageLayout { return ImageLayoutUndefined }
