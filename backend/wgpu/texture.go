// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"
	"image"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	xdraw "golang.org/x/image/draw"
)

// textureIDs issues process-unique identities for texture run grouping.
var textureIDs atomic.Uint64

// Texture is a HAL-backed render.Texture. The built-in context
// pipelines never sample it; it provides identity for sprite run
// grouping and a HAL texture and view for hosts that upload and sample
// through their own pipelines. Pixel data is staged CPU-side in RGBA
// order for that upload path.
type Texture struct {
	id     uint64
	tex    hal.Texture
	view   hal.TextureView
	width  int
	height int
	pixels []byte
}

// NewTexture creates a sampleable 2D texture from img, converting any
// source format to RGBA.
func NewTexture(sys *System, img image.Image) (*Texture, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidSize
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(rgba, rgba.Bounds(), img, bounds.Min, xdraw.Src)

	tex, err := sys.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "g3d_texture",
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture: %w", err)
	}
	view, err := sys.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "g3d_texture_view",
	})
	if err != nil {
		sys.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create texture view: %w", err)
	}

	return &Texture{
		id:     textureIDs.Add(1),
		tex:    tex,
		view:   view,
		width:  w,
		height: h,
		pixels: rgba.Pix,
	}, nil
}

// NativeID implements render.Texture.
func (t *Texture) NativeID() uint64 { return t.id }

// Width implements render.Texture.
func (t *Texture) Width() int { return t.width }

// Height implements render.Texture.
func (t *Texture) Height() int { return t.height }

// Pixels returns the RGBA staging copy.
func (t *Texture) Pixels() []byte { return t.pixels }

// View returns the HAL texture view for bind group construction.
func (t *Texture) View() hal.TextureView { return t.view }

// Release destroys the HAL texture and view.
func (t *Texture) Release(sys *System) {
	if t.view != nil {
		sys.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		sys.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}
