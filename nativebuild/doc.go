// Package nativebuild produces the FSR2 native libraries the fsr2 package
// links against.
//
// A build runs six steps for exactly one graphics backend:
//
//  1. Checkout: git submodule update --init --recursive in the source tree
//  2. Configure: cmake -DGFX_API=<VK|DX12> -S <src> -B <src>/build/<api>
//  3. Compile: cmake --build <src>/build/<api> --config <Release|Debug>
//  4. Relocate: copy the ffx_fsr2_api_* libraries to the output directory
//  5. EmitLinkerDirectives: write cgo_ldflags.env
//  6. WriteManifest: write fsr2-build.yaml with checksums
//
// Any external process that exits non-zero aborts the build with a
// *ProcessError carrying its stderr unchanged. Nothing is retried and a
// partially relocated output directory is left as is; run the build again.
package nativebuild
