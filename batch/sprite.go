// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package batch

import (
	"errors"
	"sort"

	"github.com/chewxy/math32"
	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/render"
)

// Sprite batch errors.
var (
	// ErrNilTexture is returned when drawing with a nil texture.
	ErrNilTexture = errors.New("batch: nil texture")

	// ErrEmptySource is returned when a source rectangle has zero width
	// or height.
	ErrEmptySource = errors.New("batch: empty source rectangle")
)

// SortMode selects the order sprites are drawn in at flush time.
type SortMode uint32

const (
	// Deferred draws in submission order, grouped by texture runs only.
	Deferred SortMode = iota

	// Immediate bypasses the queue; every Draw issues its own batch
	// synchronously.
	Immediate

	// Texture stable-sorts by texture identity so all sprites sharing a
	// texture coalesce into one run.
	Texture

	// BackToFront stable-sorts by depth descending, for alpha blending.
	BackToFront

	// FrontToBack stable-sorts by depth ascending, for early-z.
	FrontToBack
)

// String returns the sort mode name.
func (m SortMode) String() string {
	switch m {
	case Deferred:
		return "Deferred"
	case Immediate:
		return "Immediate"
	case Texture:
		return "Texture"
	case BackToFront:
		return "BackToFront"
	case FrontToBack:
		return "FrontToBack"
	}
	return "Unknown"
}

// DrawOptions carries the optional per-sprite parameters. The zero
// value draws the full texture, unrotated, origin at the top-left,
// at depth 0.
type DrawOptions struct {
	// Source selects a texel sub-rectangle; nil uses the full texture.
	Source *g3d.Rect

	// Rotation is the angle in radians around Origin.
	Rotation float32

	// Origin is the pivot inside the destination rectangle, in
	// destination units. The destination position places this point.
	Origin g3d.Vec2

	// FlipU and FlipV mirror the texture coordinates independently.
	FlipU bool
	FlipV bool

	// Depth is the sort key for the depth sort modes.
	Depth float32
}

// sprite is one queued draw.
type sprite struct {
	texture  render.Texture
	dst      g3d.Rect
	src      g3d.Rect
	color    g3d.Color
	rotation float32
	origin   g3d.Vec2
	flipU    bool
	flipV    bool
	depth    float32
}

const (
	// spriteBatchCapacity is the ring capacity in sprites. A flush
	// spanning more sprites splits into multiple writes and draws.
	spriteBatchCapacity = 2048

	// initialQueueCapacity is the starting queue length; the queue
	// doubles through append when exceeded.
	initialQueueCapacity = 256

	spriteVertexStride = 36 // Float32x3 position + Float32x4 color + Float32x2 uv
)

// SpriteBatch renders textured quads with minimal draw calls. Sprites
// queued between Begin and End are optionally sorted, then coalesced
// into one draw call per run of consecutive same-texture sprites.
type SpriteBatch struct {
	vb render.VertexBuffer
	ib render.IndexBuffer

	ctx          render.Context
	mode         SortMode
	accumulating bool

	queue  []sprite
	cursor int // ring cursor, in sprites

	staging []byte
}

// SpriteLayout returns the vertex layout sprite batches draw with.
func SpriteLayout() render.VertexLayout {
	return render.NewVertexLayout(
		render.VertexElement{Semantic: render.SemanticPosition, Format: render.Float32x3},
		render.VertexElement{Semantic: render.SemanticColor, Format: render.Float32x4},
		render.VertexElement{Semantic: render.SemanticTextureCoordinate, Format: render.Float32x2},
	)
}

// NewSpriteBatch creates a sprite batch with its GPU ring buffer and
// the static quad index pattern.
func NewSpriteBatch(sys render.System) (*SpriteBatch, error) {
	if sys == nil {
		return nil, ErrNilContext
	}
	vb, err := sys.CreateVertexBuffer(SpriteLayout(), spriteBatchCapacity*4, render.UsageDynamic)
	if err != nil {
		return nil, err
	}
	ib, err := sys.CreateIndexBuffer(render.IndexUint16, spriteBatchCapacity*6, render.UsageStatic)
	if err != nil {
		vb.Release()
		return nil, err
	}
	// Quad q spans vertices 4q..4q+3 wound TL, LL, LR, UR; two
	// triangles {TL,LL,LR} and {TL,LR,UR}.
	indices := make([]uint16, 0, spriteBatchCapacity*6)
	for q := 0; q < spriteBatchCapacity; q++ {
		v := uint16(q * 4)
		indices = append(indices, v, v+1, v+2, v, v+2, v+3)
	}
	if err := ib.Write(0, encodeIndices(indices), render.WriteDiscard); err != nil {
		vb.Release()
		ib.Release()
		return nil, err
	}
	return &SpriteBatch{
		vb:      vb,
		ib:      ib,
		queue:   make([]sprite, 0, initialQueueCapacity),
		staging: make([]byte, spriteBatchCapacity*4*spriteVertexStride),
	}, nil
}

// Release frees the batch's GPU buffers.
func (sb *SpriteBatch) Release() {
	sb.vb.Release()
	sb.ib.Release()
}

// Begin starts a sprite pass with the given sort mode. Deferred render
// contexts reset the ring cursor so the pass starts with a discard
// write.
func (sb *SpriteBatch) Begin(ctx render.Context, mode SortMode) error {
	if sb.accumulating {
		return ErrAlreadyAccumulating
	}
	if ctx == nil {
		return ErrNilContext
	}
	if ctx.Deferred() {
		sb.cursor = 0
	}
	sb.ctx = ctx
	sb.mode = mode
	sb.accumulating = true
	sb.queue = sb.queue[:0]
	return nil
}

// End flushes the queue and leaves the batch idle. An empty queue
// issues no draw calls.
func (sb *SpriteBatch) End() error {
	if !sb.accumulating {
		return ErrNotAccumulating
	}
	err := sb.flush()
	sb.accumulating = false
	sb.ctx = nil
	sb.queue = sb.queue[:0]
	return err
}

// Draw queues the full texture at position, scaled to its own size.
func (sb *SpriteBatch) Draw(tex render.Texture, position g3d.Vec2, tint g3d.Color) error {
	if tex == nil {
		return ErrNilTexture
	}
	dst := g3d.R(position.X, position.Y, float32(tex.Width()), float32(tex.Height()))
	return sb.DrawWith(tex, dst, tint, DrawOptions{})
}

// DrawRect queues the full texture stretched over dst.
func (sb *SpriteBatch) DrawRect(tex render.Texture, dst g3d.Rect, tint g3d.Color) error {
	return sb.DrawWith(tex, dst, tint, DrawOptions{})
}

// DrawWith is the canonical submission every overload reduces to.
func (sb *SpriteBatch) DrawWith(tex render.Texture, dst g3d.Rect, tint g3d.Color, opts DrawOptions) error {
	if !sb.accumulating {
		return ErrNotAccumulating
	}
	if tex == nil {
		return ErrNilTexture
	}
	src := g3d.R(0, 0, float32(tex.Width()), float32(tex.Height()))
	if opts.Source != nil {
		if opts.Source.IsEmpty() {
			return ErrEmptySource
		}
		src = *opts.Source
	}
	s := sprite{
		texture:  tex,
		dst:      dst,
		src:      src,
		color:    tint,
		rotation: opts.Rotation,
		origin:   opts.Origin,
		flipU:    opts.FlipU,
		flipV:    opts.FlipV,
		depth:    opts.Depth,
	}
	if sb.mode == Immediate {
		return sb.renderRun([]sprite{s})
	}
	sb.queue = append(sb.queue, s)
	return nil
}

// flush sorts the queue per the pass's sort mode, then walks it once,
// coalescing runs of consecutive same-texture sprites into one render
// batch each.
func (sb *SpriteBatch) flush() error {
	if len(sb.queue) == 0 {
		return nil
	}
	switch sb.mode {
	case Texture:
		sort.SliceStable(sb.queue, func(i, j int) bool {
			return sb.queue[i].texture.NativeID() < sb.queue[j].texture.NativeID()
		})
	case FrontToBack:
		sort.SliceStable(sb.queue, func(i, j int) bool {
			return sb.queue[i].depth < sb.queue[j].depth
		})
	case BackToFront:
		sort.SliceStable(sb.queue, func(i, j int) bool {
			return sb.queue[i].depth > sb.queue[j].depth
		})
	}

	runStart := 0
	for i := 1; i <= len(sb.queue); i++ {
		if i < len(sb.queue) && sb.queue[i].texture.NativeID() == sb.queue[runStart].texture.NativeID() {
			continue
		}
		if err := sb.renderRun(sb.queue[runStart:i]); err != nil {
			return err
		}
		runStart = i
	}
	return nil
}

// renderRun draws one same-texture run, splitting it across ring
// wraparounds into multiple writes and draw calls as needed.
func (sb *SpriteBatch) renderRun(run []sprite) error {
	sb.ctx.SetTexture(run[0].texture)
	sb.ctx.SetVertexBuffer(sb.vb)
	sb.ctx.SetIndexBuffer(sb.ib)

	for len(run) > 0 {
		room := spriteBatchCapacity - sb.cursor
		if room == 0 {
			sb.cursor = 0
			room = spriteBatchCapacity
		}
		n := len(run)
		if n > room {
			n = room
		}

		for i, s := range run[:n] {
			sb.buildSprite(sb.staging[i*4*spriteVertexStride:], &s)
		}
		mode := render.WriteNoOverwrite
		if sb.cursor == 0 {
			mode = render.WriteDiscard
		}
		if err := sb.vb.Write(sb.cursor*4, sb.staging[:n*4*spriteVertexStride], mode); err != nil {
			return err
		}
		if err := sb.ctx.DrawIndexed(render.TriangleList, sb.cursor*6, n*6, 0); err != nil {
			return err
		}
		sb.cursor += n
		run = run[n:]
	}
	return nil
}

// buildSprite writes a sprite's 4 corner vertices, wound top-left,
// lower-left, lower-right, upper-right, rotated around the
// origin-adjusted position.
func (sb *SpriteBatch) buildSprite(dst []byte, s *sprite) {
	sin, cos := math32.Sincos(s.rotation)

	texW := float32(s.texture.Width())
	texH := float32(s.texture.Height())
	u0 := s.src.X / texW
	v0 := s.src.Y / texH
	u1 := s.src.MaxX() / texW
	v1 := s.src.MaxY() / texH
	if s.flipU {
		u0, u1 = u1, u0
	}
	if s.flipV {
		v0, v1 = v1, v0
	}

	corners := [4]g3d.Vec2{
		{X: 0, Y: 0},
		{X: 0, Y: s.dst.H},
		{X: s.dst.W, Y: s.dst.H},
		{X: s.dst.W, Y: 0},
	}
	uvs := [4]g3d.Vec2{
		{X: u0, Y: v0},
		{X: u0, Y: v1},
		{X: u1, Y: v1},
		{X: u1, Y: v0},
	}

	w := newVertexWriter(dst)
	for i := 0; i < 4; i++ {
		local := corners[i].Sub(s.origin)
		x := s.dst.X + local.X*cos - local.Y*sin
		y := s.dst.Y + local.X*sin + local.Y*cos
		w.putFloat32(x, y, s.depth)
		w.putFloat32(s.color.R, s.color.G, s.color.B, s.color.A)
		w.putFloat32(uvs[i].X, uvs[i].Y)
	}
}
