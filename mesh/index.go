// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"encoding/binary"

	"github.com/gogpu/g3d/render"
)

// IndexData is a tagged union over 16-bit and 32-bit index storage,
// exposing a uniform int-valued interface regardless of the underlying
// width. Exactly one backing buffer is non-nil at any time.
type IndexData struct {
	b16 *Buffer[uint16]
	b32 *Buffer[uint32]
}

// NewIndexData16 wraps 16-bit index storage. A nil buffer is treated as
// an empty one.
func NewIndexData16(b *Buffer[uint16]) *IndexData {
	if b == nil {
		b = NewBuffer[uint16](0)
	}
	return &IndexData{b16: b}
}

// NewIndexData32 wraps 32-bit index storage. A nil buffer is treated as
// an empty one.
func NewIndexData32(b *Buffer[uint32]) *IndexData {
	if b == nil {
		b = NewBuffer[uint32](0)
	}
	return &IndexData{b32: b}
}

// Format returns the storage width.
func (d *IndexData) Format() render.IndexFormat {
	if d.b32 != nil {
		return render.IndexUint32
	}
	return render.IndexUint16
}

// Len returns the number of indices.
func (d *IndexData) Len() int {
	if d.b32 != nil {
		return d.b32.Len()
	}
	return d.b16.Len()
}

// Get returns the index value at position i.
func (d *IndexData) Get(i int) int {
	if d.b32 != nil {
		return int(d.b32.Get(i))
	}
	return int(d.b16.Get(i))
}

// Set stores an index value at position i, converting to the backing
// width. Values outside the 16-bit range require Widen first.
func (d *IndexData) Set(i, v int) {
	if d.b32 != nil {
		d.b32.Set(i, uint32(v))
		return
	}
	d.b16.Set(i, uint16(v))
}

// Resize changes the index count, zero-filling growth.
func (d *IndexData) Resize(length int) {
	if d.b32 != nil {
		d.b32.Resize(length)
		return
	}
	d.b16.Resize(length)
}

// Widen converts 16-bit storage to 32-bit in place. A no-op for
// already-32-bit data.
func (d *IndexData) Widen() {
	if d.b32 != nil {
		return
	}
	wide := NewBuffer[uint32](d.b16.Len())
	for i := 0; i < d.b16.Len(); i++ {
		wide.Set(i, uint32(d.b16.Get(i)))
	}
	d.b32 = wide
	d.b16 = nil
}

// Clone returns an independent deep copy.
func (d *IndexData) Clone() *IndexData {
	if d.b32 != nil {
		return &IndexData{b32: d.b32.Clone()}
	}
	return &IndexData{b16: d.b16.Clone()}
}

// Bytes serializes the indices to little-endian bytes for GPU upload.
func (d *IndexData) Bytes() []byte {
	if d.b32 != nil {
		data := d.b32.Data()
		out := make([]byte, len(data)*4)
		for i, v := range data {
			binary.LittleEndian.PutUint32(out[i*4:], v)
		}
		return out
	}
	data := d.b16.Data()
	out := make([]byte, len(data)*2)
	for i, v := range data {
		binary.LittleEndian.PutUint16(out[i*2:], v)
	}
	return out
}
