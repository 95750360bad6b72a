// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/gputypes"

// BlendFactor is a source or destination blend multiplier.
type BlendFactor uint32

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcAlpha
	BlendInvSrcAlpha
	BlendDstAlpha
	BlendInvDstAlpha
	BlendSrcColor
	BlendInvSrcColor
)

// BlendState describes how source fragments combine with the render
// target. It is a plain property bag; backends translate it to their
// device representation when bound.
type BlendState struct {
	Enabled   bool
	SrcFactor BlendFactor
	DstFactor BlendFactor
}

// CompareFunc is a depth or stencil comparison function.
type CompareFunc uint32

const (
	CompareAlways CompareFunc = iota
	CompareNever
	CompareLess
	CompareLessEqual
	CompareEqual
	CompareGreaterEqual
	CompareGreater
	CompareNotEqual
)

// GPU returns the device comparison function.
func (c CompareFunc) GPU() gputypes.CompareFunction {
	switch c {
	case CompareNever:
		return gputypes.CompareFunctionNever
	case CompareLess:
		return gputypes.CompareFunctionLess
	case CompareLessEqual:
		return gputypes.CompareFunctionLessEqual
	case CompareEqual:
		return gputypes.CompareFunctionEqual
	case CompareGreaterEqual:
		return gputypes.CompareFunctionGreaterEqual
	case CompareGreater:
		return gputypes.CompareFunctionGreater
	case CompareNotEqual:
		return gputypes.CompareFunctionNotEqual
	default:
		return gputypes.CompareFunctionAlways
	}
}

// DepthStencilState describes depth testing and writing.
type DepthStencilState struct {
	DepthEnabled      bool
	DepthWriteEnabled bool
	DepthCompare      CompareFunc
}

// CullMode selects which triangle winding is discarded.
type CullMode uint32

const (
	CullNone CullMode = iota
	CullClockwise
	CullCounterClockwise
)

// RasterizerState describes triangle rasterization behavior.
type RasterizerState struct {
	Cull      CullMode
	Wireframe bool
}

// StateProvider owns the predefined render states for one System.
// It replaces process-wide static state caches: the provider's lifetime
// is tied to the render system that handed it out, and components that
// need predefined states receive the provider explicitly.
type StateProvider struct {
	opaque           BlendState
	alphaBlend       BlendState
	additive         BlendState
	nonPremultiplied BlendState

	depthDefault DepthStencilState
	depthRead    DepthStencilState
	depthNone    DepthStencilState

	cullNone             RasterizerState
	cullClockwise        RasterizerState
	cullCounterClockwise RasterizerState
}

// NewStateProvider creates a provider populated with the standard
// predefined states.
func NewStateProvider() *StateProvider {
	return &StateProvider{
		opaque:           BlendState{Enabled: false, SrcFactor: BlendOne, DstFactor: BlendZero},
		alphaBlend:       BlendState{Enabled: true, SrcFactor: BlendOne, DstFactor: BlendInvSrcAlpha},
		additive:         BlendState{Enabled: true, SrcFactor: BlendSrcAlpha, DstFactor: BlendOne},
		nonPremultiplied: BlendState{Enabled: true, SrcFactor: BlendSrcAlpha, DstFactor: BlendInvSrcAlpha},

		depthDefault: DepthStencilState{DepthEnabled: true, DepthWriteEnabled: true, DepthCompare: CompareLessEqual},
		depthRead:    DepthStencilState{DepthEnabled: true, DepthWriteEnabled: false, DepthCompare: CompareLessEqual},
		depthNone:    DepthStencilState{DepthEnabled: false, DepthWriteEnabled: false, DepthCompare: CompareAlways},

		cullNone:             RasterizerState{Cull: CullNone},
		cullClockwise:        RasterizerState{Cull: CullClockwise},
		cullCounterClockwise: RasterizerState{Cull: CullCounterClockwise},
	}
}

// Opaque returns the no-blend state.
func (p *StateProvider) Opaque() *BlendState { s := p.opaque; return &s }

// AlphaBlend returns the premultiplied alpha blend state.
func (p *StateProvider) AlphaBlend() *BlendState { s := p.alphaBlend; return &s }

// Additive returns the additive blend state.
func (p *StateProvider) Additive() *BlendState { s := p.additive; return &s }

// NonPremultiplied returns the straight-alpha blend state.
func (p *StateProvider) NonPremultiplied() *BlendState { s := p.nonPremultiplied; return &s }

// DepthDefault returns the read-write depth state.
func (p *StateProvider) DepthDefault() *DepthStencilState { s := p.depthDefault; return &s }

// DepthRead returns the read-only depth state.
func (p *StateProvider) DepthRead() *DepthStencilState { s := p.depthRead; return &s }

// DepthNone returns the depth-disabled state.
func (p *StateProvider) DepthNone() *DepthStencilState { s := p.depthNone; return &s }

// CullNone returns the no-culling rasterizer state.
func (p *StateProvider) CullNone() *RasterizerState { s := p.cullNone; return &s }

// CullClockwise returns the clockwise-culling rasterizer state.
func (p *StateProvider) CullClockwise() *RasterizerState { s := p.cullClockwise; return &s }

// CullCounterClockwise returns the counter-clockwise-culling rasterizer state.
func (p *StateProvider) CullCounterClockwise() *RasterizerState { s := p.cullCounterClockwise; return &s }
