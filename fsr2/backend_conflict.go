//go:build vk && dx12

package fsr2

// Only one of the vk and dx12 build tags may be set.
var _ = vk_and_dx12_build_tags_are_mutually_exclusive
