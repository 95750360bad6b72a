// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package g3d provides the shared value types for the g3d rendering
// layer: float32 vectors, 4x4 matrices, rays, rectangles, and colors,
// plus the module-wide logger configuration.
//
// The heavy lifting lives in the sub-packages:
//
//   - mesh: vertex/index data management, tangent-basis computation,
//     ray intersection, merge and transform operations
//   - batch: PrimitiveBatch and SpriteBatch draw-call batching
//   - render: the GPU device abstraction boundary (interfaces, vertex
//     layouts, render states)
//   - shape: procedural geometry generators
//   - backend/wgpu: a render.System implementation over gogpu/wgpu
//   - backend/record: a recording backend for tests and diagnostics
//
// g3d sits between application code and a GPU device: applications
// build mesh data or submit batched primitives/sprites, and g3d packs
// them into as few device draw calls as the submissions allow.
package g3d
