//go:build !cgo || !windows || !dx12 || vk || stub

package dx12

import "go_fsr2/fsr2"

const linkMode = "stub"

func scratchMemorySizeImpl() uintptr { return 0 }

func getInterfaceImpl(Device) (*Backend, error) {
	return nil, fsr2.ErrNotLinked
}

func freeScratchImpl(uintptr) {}

func getDeviceImpl(device Device) fsr2.Device { return fsr2.Device(device) }

func getCommandListImpl(cmd CommandList) fsr2.CommandList { return fsr2.CommandList(cmd) }

func resourceImpl(*fsr2.Context, Resource, fsr2.ResourceState, uint32) fsr2.Resource {
	return fsr2.NullResource()
}

func resourcePtrImpl(*fsr2.Context, uint32) Resource { return 0 }
