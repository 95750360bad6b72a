// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package mesh implements the mesh data engine: typed data buffers,
// 16/32-bit index storage, and MeshData, the central repository for a
// mesh's vertex attribute streams, GPU buffer mirrors, and derived
// geometry.
//
// MeshData tracks mutations with dirty states and reconciles its GPU
// buffers lazily on Compile. It computes derived data (tangent basis),
// answers geometric queries (ray intersection), and supports mutations
// (transform, merge) while keeping stream bookkeeping consistent.
package mesh
