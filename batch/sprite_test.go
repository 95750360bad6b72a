package batch

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/backend/record"
	"github.com/gogpu/g3d/render"
)

func newSpriteBatch(t *testing.T, sys *record.System) *SpriteBatch {
	t.Helper()
	sb, err := NewSpriteBatch(sys)
	if err != nil {
		t.Fatalf("NewSpriteBatch: %v", err)
	}
	return sb
}

func TestSpriteBatchDeferredTextureRuns(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewContext(sys)
	sb := newSpriteBatch(t, sys)

	texA := record.NewTexture(16, 16)
	texB := record.NewTexture(16, 16)

	if err := sb.Begin(ctx, Deferred); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	for _, tex := range []render.Texture{texA, texA, texB, texA} {
		if err := sb.Draw(tex, g3d.V2(0, 0), g3d.White); err != nil {
			t.Fatalf("Draw: %v", err)
		}
	}
	if err := sb.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	// Submission order [A,A,B,A] yields runs of 2, 1, 1.
	if len(ctx.Draws) != 3 {
		t.Fatalf("draw calls = %d, want 3", len(ctx.Draws))
	}
	wantCounts := []int{12, 6, 6}
	wantTex := []uint64{texA.NativeID(), texB.NativeID(), texA.NativeID()}
	for i, d := range ctx.Draws {
		if d.IndexCount != wantCounts[i] {
			t.Errorf("draw %d index count = %d, want %d", i, d.IndexCount, wantCounts[i])
		}
		if d.TextureID != wantTex[i] {
			t.Errorf("draw %d texture = %d, want %d", i, d.TextureID, wantTex[i])
		}
	}
}

func TestSpriteBatchTextureSortCoalesces(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewContext(sys)
	sb := newSpriteBatch(t, sys)

	texA := record.NewTexture(16, 16)
	texB := record.NewTexture(16, 16)

	if err := sb.Begin(ctx, Texture); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	for _, tex := range []render.Texture{texA, texA, texB, texA} {
		if err := sb.Draw(tex, g3d.V2(0, 0), g3d.White); err != nil {
			t.Fatalf("Draw: %v", err)
		}
	}
	if err := sb.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	// All three A's coalesce into one run.
	if len(ctx.Draws) != 2 {
		t.Fatalf("draw calls = %d, want 2", len(ctx.Draws))
	}
	if ctx.Draws[0].IndexCount != 18 || ctx.Draws[0].TextureID != texA.NativeID() {
		t.Errorf("first run = %+v, want 3 sprites of texture A", ctx.Draws[0])
	}
	if ctx.Draws[1].IndexCount != 6 || ctx.Draws[1].TextureID != texB.NativeID() {
		t.Errorf("second run = %+v, want 1 sprite of texture B", ctx.Draws[1])
	}
}

func TestSpriteBatchDepthSorting(t *testing.T) {
	tests := []struct {
		name   string
		mode   SortMode
		depths []float32
		want   []float32
	}{
		{"front to back ascending", FrontToBack, []float32{3, 1, 2}, []float32{1, 2, 3}},
		{"back to front descending", BackToFront, []float32{3, 1, 2}, []float32{3, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := record.NewSystem()
			ctx := record.NewContext(sys)
			sb := newSpriteBatch(t, sys)

			// One texture per depth so draw order is observable.
			byDepth := map[float32]uint64{}
			if err := sb.Begin(ctx, tt.mode); err != nil {
				t.Fatalf("Begin: %v", err)
			}
			for _, d := range tt.depths {
				tex := record.NewTexture(8, 8)
				byDepth[d] = tex.NativeID()
				err := sb.DrawWith(tex, g3d.R(0, 0, 8, 8), g3d.White, DrawOptions{Depth: d})
				if err != nil {
					t.Fatalf("DrawWith: %v", err)
				}
			}
			if err := sb.End(); err != nil {
				t.Fatalf("End: %v", err)
			}

			if len(ctx.Draws) != len(tt.want) {
				t.Fatalf("draw calls = %d, want %d", len(ctx.Draws), len(tt.want))
			}
			for i, d := range tt.want {
				if ctx.Draws[i].TextureID != byDepth[d] {
					t.Errorf("draw %d texture = %d, want depth %v's texture %d",
						i, ctx.Draws[i].TextureID, d, byDepth[d])
				}
			}
		})
	}
}

func TestSpriteBatchImmediateMode(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewContext(sys)
	sb := newSpriteBatch(t, sys)

	tex := record.NewTexture(16, 16)
	if err := sb.Begin(ctx, Immediate); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := sb.Draw(tex, g3d.V2(0, 0), g3d.White); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(ctx.Draws) != 1 {
		t.Fatalf("immediate Draw issued %d calls, want 1", len(ctx.Draws))
	}
	if err := sb.Draw(tex, g3d.V2(16, 0), g3d.White); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := sb.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if len(ctx.Draws) != 2 {
		t.Errorf("draw calls = %d, want 2 (End adds none)", len(ctx.Draws))
	}
}

func TestSpriteBatchEmptyEnd(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewContext(sys)
	sb := newSpriteBatch(t, sys)

	if err := sb.Begin(ctx, Deferred); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := sb.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if len(ctx.Draws) != 0 {
		t.Errorf("draw calls = %d, want 0", len(ctx.Draws))
	}
}

func TestSpriteBatchStateErrors(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewContext(sys)
	sb := newSpriteBatch(t, sys)
	tex := record.NewTexture(16, 16)

	if err := sb.Draw(tex, g3d.V2(0, 0), g3d.White); !errors.Is(err, ErrNotAccumulating) {
		t.Errorf("Draw before Begin = %v, want ErrNotAccumulating", err)
	}
	if err := sb.Begin(nil, Deferred); !errors.Is(err, ErrNilContext) {
		t.Errorf("Begin(nil) = %v, want ErrNilContext", err)
	}
	if err := sb.Begin(ctx, Deferred); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := sb.Begin(ctx, Deferred); !errors.Is(err, ErrAlreadyAccumulating) {
		t.Errorf("nested Begin = %v, want ErrAlreadyAccumulating", err)
	}
	if err := sb.DrawRect(nil, g3d.R(0, 0, 1, 1), g3d.White); !errors.Is(err, ErrNilTexture) {
		t.Errorf("nil texture = %v, want ErrNilTexture", err)
	}
	empty := g3d.R(0, 0, 0, 4)
	err := sb.DrawWith(tex, g3d.R(0, 0, 1, 1), g3d.White, DrawOptions{Source: &empty})
	if !errors.Is(err, ErrEmptySource) {
		t.Errorf("empty source = %v, want ErrEmptySource", err)
	}
}

func TestSpriteBatchVertexConstruction(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewContext(sys)
	sb := newSpriteBatch(t, sys)

	tex := record.NewTexture(32, 32)
	src := g3d.R(0, 0, 16, 16)
	if err := sb.Begin(ctx, Deferred); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	err := sb.DrawWith(tex, g3d.R(10, 20, 8, 8), g3d.White, DrawOptions{Source: &src, Depth: 0.5})
	if err != nil {
		t.Fatalf("DrawWith: %v", err)
	}
	if err := sb.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	readF32 := func(data []byte, off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	}
	data := sys.VertexBuffers[0].Data

	// Corners wound TL, LL, LR, UR; the top half of the texture maps
	// to uv [0,0.5].
	wantPos := [][2]float32{{10, 20}, {10, 28}, {18, 28}, {18, 20}}
	wantUV := [][2]float32{{0, 0}, {0, 0.5}, {0.5, 0.5}, {0.5, 0}}
	for i := 0; i < 4; i++ {
		base := i * spriteVertexStride
		if x, y := readF32(data, base), readF32(data, base+4); x != wantPos[i][0] || y != wantPos[i][1] {
			t.Errorf("corner %d = (%v,%v), want %v", i, x, y, wantPos[i])
		}
		if z := readF32(data, base+8); z != 0.5 {
			t.Errorf("corner %d depth = %v, want 0.5", i, z)
		}
		if u, v := readF32(data, base+28), readF32(data, base+32); u != wantUV[i][0] || v != wantUV[i][1] {
			t.Errorf("corner %d uv = (%v,%v), want %v", i, u, v, wantUV[i])
		}
	}
}

func TestSpriteBatchFlipUV(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewContext(sys)
	sb := newSpriteBatch(t, sys)

	tex := record.NewTexture(32, 32)
	if err := sb.Begin(ctx, Deferred); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	err := sb.DrawWith(tex, g3d.R(0, 0, 32, 32), g3d.White, DrawOptions{FlipU: true})
	if err != nil {
		t.Fatalf("DrawWith: %v", err)
	}
	if err := sb.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	data := sys.VertexBuffers[0].Data
	// Top-left corner carries u1 when flipped horizontally.
	u := math.Float32frombits(binary.LittleEndian.Uint32(data[28:]))
	if u != 1 {
		t.Errorf("flipped top-left u = %v, want 1", u)
	}
}

func TestSpriteBatchSplitsOversizedRuns(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewContext(sys)
	sb := newSpriteBatch(t, sys)

	tex := record.NewTexture(8, 8)
	if err := sb.Begin(ctx, Deferred); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	for i := 0; i < spriteBatchCapacity+10; i++ {
		if err := sb.Draw(tex, g3d.V2(0, 0), g3d.White); err != nil {
			t.Fatalf("Draw %d: %v", i, err)
		}
	}
	if err := sb.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	if len(ctx.Draws) != 2 {
		t.Fatalf("draw calls = %d, want 2 for a split run", len(ctx.Draws))
	}
	if ctx.Draws[0].IndexCount != spriteBatchCapacity*6 || ctx.Draws[1].IndexCount != 10*6 {
		t.Errorf("split counts = %d, %d", ctx.Draws[0].IndexCount, ctx.Draws[1].IndexCount)
	}

	// The split writes discard at the wrapped cursor.
	vb := sys.VertexBuffers[0]
	last := vb.Writes[len(vb.Writes)-1]
	if last.Mode != render.WriteDiscard || last.First != 0 {
		t.Errorf("wrapped write = %+v, want discard at 0", last)
	}
}
