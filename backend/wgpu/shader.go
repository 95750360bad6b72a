// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/g3d/render"
)

// ErrNoPositionElement is returned when building a pipeline for a
// vertex layout that has no position element.
var ErrNoPositionElement = errors.New("wgpu: vertex layout has no position element")

// layoutSignature returns a stable identity for the layout's element
// set. Shader modules and pipelines are cached under it.
func layoutSignature(l render.VertexLayout) string {
	var b strings.Builder
	for _, el := range l.Elements {
		fmt.Fprintf(&b, "%d.%d:%d;", el.Semantic, el.SemanticIndex, el.Format)
	}
	return b.String()
}

// generateWGSL synthesizes the forward shader for a vertex layout. The
// shader reads the position and color elements at the locations the
// layout's GPU form assigns them; remaining attributes are left
// unreferenced, which pipeline validation permits. Layouts without a
// color element shade opaque white.
func generateWGSL(l render.VertexLayout) (string, error) {
	var posEl, colorEl render.VertexElement
	posLoc, colorLoc := -1, -1
	for i, el := range l.Elements {
		if el.SemanticIndex != 0 {
			continue
		}
		switch el.Semantic {
		case render.SemanticPosition:
			posEl, posLoc = el, i
		case render.SemanticColor:
			colorEl, colorLoc = el, i
		}
	}
	if posLoc < 0 {
		return "", ErrNoPositionElement
	}

	var b strings.Builder
	b.WriteString("struct VertexOutput {\n")
	b.WriteString("    @builtin(position) position: vec4<f32>,\n")
	b.WriteString("    @location(0) color: vec4<f32>,\n")
	b.WriteString("};\n\n")

	b.WriteString("@vertex\n")
	fmt.Fprintf(&b, "fn vs_main(@location(%d) position: %s", posLoc, wgslType(posEl.Format))
	if colorLoc >= 0 {
		fmt.Fprintf(&b, ", @location(%d) color: %s", colorLoc, wgslType(colorEl.Format))
	}
	b.WriteString(") -> VertexOutput {\n")
	b.WriteString("    var out: VertexOutput;\n")
	fmt.Fprintf(&b, "    out.position = %s;\n", positionExpr(posEl.Format))
	fmt.Fprintf(&b, "    out.color = %s;\n", colorExpr(colorLoc, colorEl.Format))
	b.WriteString("    return out;\n")
	b.WriteString("}\n\n")

	b.WriteString("@fragment\n")
	b.WriteString("fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {\n")
	b.WriteString("    return in.color;\n")
	b.WriteString("}\n")
	return b.String(), nil
}

func wgslType(f render.VertexFormat) string {
	switch f {
	case render.Float32:
		return "f32"
	case render.Float32x2:
		return "vec2<f32>"
	case render.Float32x3:
		return "vec3<f32>"
	}
	return "vec4<f32>"
}

// positionExpr widens the position input to clip-space vec4.
func positionExpr(f render.VertexFormat) string {
	switch f {
	case render.Float32:
		return "vec4<f32>(position, 0.0, 0.0, 1.0)"
	case render.Float32x2:
		return "vec4<f32>(position, 0.0, 1.0)"
	case render.Float32x3:
		return "vec4<f32>(position, 1.0)"
	}
	return "position"
}

// colorExpr widens the color input to vec4, or yields opaque white when
// the layout carries no color.
func colorExpr(loc int, f render.VertexFormat) string {
	if loc < 0 {
		return "vec4<f32>(1.0, 1.0, 1.0, 1.0)"
	}
	switch f {
	case render.Float32x3:
		return "vec4<f32>(color, 1.0)"
	case render.Float32x4:
		return "color"
	}
	return "vec4<f32>(1.0, 1.0, 1.0, 1.0)"
}

// compileShaderToSPIRV compiles WGSL source to SPIR-V words via naga.
func compileShaderToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile shader: %w", err)
	}
	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

// createShaderModule builds a HAL shader module from SPIR-V code.
func createShaderModule(device hal.Device, label string, spirvCode []uint32) (hal.ShaderModule, error) {
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: spirvCode,
		},
	})
}
