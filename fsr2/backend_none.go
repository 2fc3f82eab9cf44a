//go:build !vk && !dx12

package fsr2

const compiledBackend = BackendNone
