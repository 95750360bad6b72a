// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package batch collapses many small draw submissions into few GPU draw
// calls.
//
// PrimitiveBatch is a generic accumulator over any vertex type: between
// Begin and End it merges submissions that share a topology and index
// mode into one pending range, writing through a ring buffer with the
// discard/no-overwrite discipline and drawing each range exactly once.
//
// SpriteBatch builds on the same flush principles for textured quads,
// adding per-sprite transforms, pluggable sort order, and run-length
// grouping by texture.
package batch
