// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render defines the boundary between g3d and the GPU device.
//
// g3d RECEIVES a device from the host, it does NOT create one. The host
// (or one of the backend packages) implements [System] and [Context],
// and the mesh and batch packages drive them: creating vertex/index
// buffers, writing ranges with discard/no-overwrite hints, and issuing
// draw calls. Exactly one device draw call is issued per flushed batch
// run.
//
// The package also carries the vocabulary shared by all of g3d:
// primitive topologies, vertex semantics and formats, vertex layouts,
// index formats, buffer usages, and render-state property bags with a
// dependency-injected provider of the standard predefined states.
package render
