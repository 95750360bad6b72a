// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import "errors"

// Buffer errors.
var (
	// ErrBufferRange is returned when an access falls outside the buffer.
	ErrBufferRange = errors.New("mesh: buffer access out of range")
)

// Element constrains the types a Buffer can hold.
type Element interface {
	~float32 | ~uint16 | ~uint32
}

// Buffer is a contiguous, typed, resizable memory region with both
// positional (stream-style) and random access. It is the CPU-side
// staging store behind every vertex attribute stream and index stream.
//
// The zero value is an empty buffer ready for use.
type Buffer[T Element] struct {
	data []T
	pos  int
}

// NewBuffer creates a buffer with the given length, zero-filled.
func NewBuffer[T Element](length int) *Buffer[T] {
	return &Buffer[T]{data: make([]T, length)}
}

// NewBufferFrom creates a buffer that takes ownership of data.
func NewBufferFrom[T Element](data []T) *Buffer[T] {
	return &Buffer[T]{data: data}
}

// Len returns the buffer length in elements.
func (b *Buffer[T]) Len() int { return len(b.data) }

// Position returns the positional cursor.
func (b *Buffer[T]) Position() int { return b.pos }

// SetPosition moves the positional cursor.
func (b *Buffer[T]) SetPosition(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(b.data) {
		pos = len(b.data)
	}
	b.pos = pos
}

// Rewind moves the positional cursor back to the start.
func (b *Buffer[T]) Rewind() { b.pos = 0 }

// Put writes values at the cursor, growing the buffer if needed, and
// advances the cursor.
func (b *Buffer[T]) Put(values ...T) {
	need := b.pos + len(values)
	if need > len(b.data) {
		grown := make([]T, need)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:], values)
	b.pos = need
}

// Get returns the element at index i.
func (b *Buffer[T]) Get(i int) T { return b.data[i] }

// Set stores v at index i.
func (b *Buffer[T]) Set(i int, v T) { b.data[i] = v }

// SetRange copies src into the buffer starting at index i. The range
// must fit; Resize first when appending.
func (b *Buffer[T]) SetRange(i int, src []T) error {
	if i < 0 || i+len(src) > len(b.data) {
		return ErrBufferRange
	}
	copy(b.data[i:], src)
	return nil
}

// GetRange copies elements [i, i+len(dst)) into dst.
func (b *Buffer[T]) GetRange(i int, dst []T) error {
	if i < 0 || i+len(dst) > len(b.data) {
		return ErrBufferRange
	}
	copy(dst, b.data[i:])
	return nil
}

// Resize changes the buffer length, preserving existing data up to the
// new length. Growth zero-fills. The cursor is clamped.
func (b *Buffer[T]) Resize(length int) {
	if length == len(b.data) {
		return
	}
	resized := make([]T, length)
	copy(resized, b.data)
	b.data = resized
	if b.pos > length {
		b.pos = length
	}
}

// Clone returns an independent deep copy with the cursor rewound.
func (b *Buffer[T]) Clone() *Buffer[T] {
	data := make([]T, len(b.data))
	copy(data, b.data)
	return &Buffer[T]{data: data}
}

// Data returns the backing slice directly. Mutations through the slice
// are visible to the buffer; the mapping stays valid until the next
// Resize or growing Put.
func (b *Buffer[T]) Data() []T { return b.data }

// Float32Buffer holds float32 vertex attribute data.
type Float32Buffer = Buffer[float32]
