// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements render.System and render.Context over a
// gogpu/wgpu HAL device.
//
// The host application owns the device: it passes a
// gpucontext.DeviceProvider (or the raw hal.Device and hal.Queue) in
// and receives draw commands recorded into its own render pass
// encoder. The package never creates a device or a surface of its own.
//
// Built-in pipelines are generated from the bound vertex layout and
// shade vertex colors only. Textures are created and staged here, but
// sampling them is left to the host: texture identity keeps sprite run
// grouping working, and Texture.View plus Texture.Pixels give hosts
// what they need to upload and bind through their own pipelines.
package wgpu
