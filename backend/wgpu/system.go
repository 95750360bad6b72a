// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/render"
)

// Backend errors.
var (
	// ErrNilDevice is returned when creating a system without a device
	// or queue.
	ErrNilDevice = errors.New("wgpu: nil device or queue")

	// ErrNoHALProvider is returned when a device handle does not expose
	// the underlying HAL device and queue.
	ErrNoHALProvider = errors.New("wgpu: device handle does not expose HAL types")

	// ErrInvalidSize is returned for non-positive buffer sizes.
	ErrInvalidSize = errors.New("wgpu: invalid buffer size")
)

// System is a render.System backed by a HAL device. The device and
// queue are borrowed from the host application and never destroyed
// here.
type System struct {
	device hal.Device
	queue  hal.Queue
	states *render.StateProvider
}

// NewSystem wraps a host-provided device and queue.
func NewSystem(device hal.Device, queue hal.Queue) (*System, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	return &System{
		device: device,
		queue:  queue,
		states: render.NewStateProvider(),
	}, nil
}

// NewSystemFromHandle creates a system from a host device handle. The
// handle must additionally implement HalDevice() any and HalQueue() any
// returning the underlying hal.Device and hal.Queue, as gogpu providers
// do.
func NewSystemFromHandle(handle render.DeviceHandle) (*System, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := handle.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, ErrNilDevice
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, ErrNilDevice
	}
	return NewSystem(device, queue)
}

// Device returns the underlying HAL device.
func (s *System) Device() hal.Device { return s.device }

// Queue returns the underlying HAL queue.
func (s *System) Queue() hal.Queue { return s.queue }

// CreateVertexBuffer implements render.System.
func (s *System) CreateVertexBuffer(layout render.VertexLayout, count int, usage render.BufferUsage) (render.VertexBuffer, error) {
	size := count * layout.Stride
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	buf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "g3d_vertex",
		Size:  uint64(size),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create vertex buffer: %w", err)
	}
	g3d.Logger().Debug("vertex buffer created", "count", count, "stride", layout.Stride)
	return &VertexBuffer{sys: s, buf: buf, layout: layout, count: count, usage: usage}, nil
}

// CreateIndexBuffer implements render.System.
func (s *System) CreateIndexBuffer(format render.IndexFormat, count int, usage render.BufferUsage) (render.IndexBuffer, error) {
	size := count * format.SizeInBytes()
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	buf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "g3d_index",
		Size:  uint64(size),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create index buffer: %w", err)
	}
	return &IndexBuffer{sys: s, buf: buf, format: format, count: count, usage: usage}, nil
}

// States implements render.System.
func (s *System) States() *render.StateProvider { return s.states }

// VertexBuffer is a HAL-backed render.VertexBuffer.
type VertexBuffer struct {
	sys      *System
	buf      hal.Buffer
	layout   render.VertexLayout
	count    int
	usage    render.BufferUsage
	released bool
}

// Layout implements render.VertexBuffer.
func (b *VertexBuffer) Layout() render.VertexLayout { return b.layout }

// Count implements render.VertexBuffer.
func (b *VertexBuffer) Count() int { return b.count }

// Usage implements render.VertexBuffer.
func (b *VertexBuffer) Usage() render.BufferUsage { return b.usage }

// Write implements render.VertexBuffer. The write mode is advisory
// here: HAL queue writes are staged by the driver, so both modes take
// the same path.
func (b *VertexBuffer) Write(firstVertex int, data []byte, mode render.WriteMode) error {
	if b.released {
		return render.ErrReleased
	}
	if data == nil {
		return render.ErrNilData
	}
	offset := firstVertex * b.layout.Stride
	if firstVertex < 0 || offset+len(data) > b.count*b.layout.Stride {
		return render.ErrOutOfRange
	}
	b.sys.queue.WriteBuffer(b.buf, uint64(offset), data)
	return nil
}

// Release implements render.VertexBuffer.
func (b *VertexBuffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.sys.device.DestroyBuffer(b.buf)
}

// halBuffer returns the underlying HAL buffer for encoding.
func (b *VertexBuffer) halBuffer() hal.Buffer { return b.buf }

// IndexBuffer is a HAL-backed render.IndexBuffer.
type IndexBuffer struct {
	sys      *System
	buf      hal.Buffer
	format   render.IndexFormat
	count    int
	usage    render.BufferUsage
	released bool
}

// Format implements render.IndexBuffer.
func (b *IndexBuffer) Format() render.IndexFormat { return b.format }

// Count implements render.IndexBuffer.
func (b *IndexBuffer) Count() int { return b.count }

// Usage implements render.IndexBuffer.
func (b *IndexBuffer) Usage() render.BufferUsage { return b.usage }

// Write implements render.IndexBuffer.
func (b *IndexBuffer) Write(firstIndex int, data []byte, mode render.WriteMode) error {
	if b.released {
		return render.ErrReleased
	}
	if data == nil {
		return render.ErrNilData
	}
	offset := firstIndex * b.format.SizeInBytes()
	if firstIndex < 0 || offset+len(data) > b.count*b.format.SizeInBytes() {
		return render.ErrOutOfRange
	}
	b.sys.queue.WriteBuffer(b.buf, uint64(offset), data)
	return nil
}

// Release implements render.IndexBuffer.
func (b *IndexBuffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.sys.device.DestroyBuffer(b.buf)
}

func (b *IndexBuffer) halBuffer() hal.Buffer { return b.buf }

// gpuIndexFormat maps the boundary index format onto the HAL enum.
func gpuIndexFormat(f render.IndexFormat) gputypes.IndexFormat {
	if f == render.IndexUint32 {
		return gputypes.IndexFormatUint32
	}
	return gputypes.IndexFormatUint16
}
