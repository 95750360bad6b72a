package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/g3d/render"
)

func TestNewSystemNilDevice(t *testing.T) {
	if _, err := NewSystem(nil, nil); err != ErrNilDevice {
		t.Errorf("NewSystem(nil, nil) err = %v, want ErrNilDevice", err)
	}
}

// emptyHALHandle is a device handle whose HAL accessors yield nothing,
// standing in for a provider that has not acquired a device yet.
type emptyHALHandle struct {
	render.NullDeviceHandle
}

func (emptyHALHandle) HalDevice() any { return nil }
func (emptyHALHandle) HalQueue() any  { return nil }

func TestNewSystemFromHandle(t *testing.T) {
	_, err := NewSystemFromHandle(render.NullDeviceHandle{})
	if !errors.Is(err, ErrNoHALProvider) {
		t.Errorf("handle without HAL accessors err = %v, want ErrNoHALProvider", err)
	}

	_, err = NewSystemFromHandle(emptyHALHandle{})
	if !errors.Is(err, ErrNilDevice) {
		t.Errorf("handle with nil HAL device err = %v, want ErrNilDevice", err)
	}
}

func TestGPUIndexFormat(t *testing.T) {
	if got := gpuIndexFormat(render.IndexUint16); got != gputypes.IndexFormatUint16 {
		t.Errorf("IndexUint16 maps to %v", got)
	}
	if got := gpuIndexFormat(render.IndexUint32); got != gputypes.IndexFormatUint32 {
		t.Errorf("IndexUint32 maps to %v", got)
	}
}

func TestGPUCullMode(t *testing.T) {
	tests := []struct {
		name string
		mode render.CullMode
		want gputypes.CullMode
	}{
		{"none", render.CullNone, gputypes.CullModeNone},
		{"clockwise", render.CullClockwise, gputypes.CullModeFront},
		{"counterclockwise", render.CullCounterClockwise, gputypes.CullModeBack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gpuCullMode(tt.mode); got != tt.want {
				t.Errorf("gpuCullMode(%v) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}
