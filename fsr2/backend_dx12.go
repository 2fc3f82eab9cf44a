//go:build dx12 && !vk

package fsr2

const compiledBackend = BackendDX12
