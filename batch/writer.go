// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package batch

import (
	"encoding/binary"
	"math"
)

// vertexWriter packs float32 vertex components into a byte slice in
// little-endian order.
type vertexWriter struct {
	dst []byte
	off int
}

func newVertexWriter(dst []byte) *vertexWriter {
	return &vertexWriter{dst: dst}
}

func (w *vertexWriter) putFloat32(values ...float32) {
	for _, v := range values {
		binary.LittleEndian.PutUint32(w.dst[w.off:], math.Float32bits(v))
		w.off += 4
	}
}
