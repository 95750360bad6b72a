package batch

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/g3d/backend/record"
	"github.com/gogpu/g3d/render"
)

type point struct {
	X, Y float32
}

func pointLayout() render.VertexLayout {
	return render.NewVertexLayout(
		render.VertexElement{Semantic: render.SemanticPosition, Format: render.Float32x2},
	)
}

func encodePoint(dst []byte, p point) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(p.X))
	binary.LittleEndian.PutUint32(dst[4:], math.Float32bits(p.Y))
}

func newTestBatch(t *testing.T, sys *record.System) *PrimitiveBatch[point] {
	t.Helper()
	b, err := NewPrimitiveBatch(sys, pointLayout(), encodePoint, 64, 96)
	if err != nil {
		t.Fatalf("NewPrimitiveBatch: %v", err)
	}
	return b
}

func points(n int) []point {
	out := make([]point, n)
	for i := range out {
		out[i] = point{X: float32(i), Y: float32(i)}
	}
	return out
}

func TestPrimitiveBatchMergesCompatibleDraws(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewContext(sys)
	b := newTestBatch(t, sys)

	if err := b.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := b.Draw(render.TriangleList, points(3)); err != nil {
			t.Fatalf("Draw %d: %v", i, err)
		}
	}
	if err := b.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	if len(ctx.Draws) != 1 {
		t.Fatalf("draw calls = %d, want 1", len(ctx.Draws))
	}
	if ctx.Draws[0].VertexCount != 15 {
		t.Errorf("merged vertex count = %d, want 15", ctx.Draws[0].VertexCount)
	}
}

func TestPrimitiveBatchTopologyChangeForcesFlush(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewContext(sys)
	b := newTestBatch(t, sys)

	if err := b.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := b.Draw(render.TriangleList, points(3)); err != nil {
		t.Fatalf("Draw triangles: %v", err)
	}
	if err := b.Draw(render.LineList, points(2)); err != nil {
		t.Fatalf("Draw lines: %v", err)
	}
	if err := b.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	if len(ctx.Draws) != 2 {
		t.Fatalf("draw calls = %d, want 2", len(ctx.Draws))
	}
	if ctx.Draws[0].Topology != render.TriangleList || ctx.Draws[1].Topology != render.LineList {
		t.Errorf("topologies = %v, %v", ctx.Draws[0].Topology, ctx.Draws[1].Topology)
	}
}

func TestPrimitiveBatchIndexModeChangeForcesFlush(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewContext(sys)
	b := newTestBatch(t, sys)

	if err := b.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := b.Draw(render.TriangleList, points(3)); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := b.DrawIndexed(render.TriangleList, points(3), []uint16{0, 1, 2}); err != nil {
		t.Fatalf("DrawIndexed: %v", err)
	}
	if err := b.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if len(ctx.Draws) != 2 {
		t.Fatalf("draw calls = %d, want 2", len(ctx.Draws))
	}
	if ctx.Draws[0].Kind != record.DrawNonIndexed || ctx.Draws[1].Kind != record.DrawIndexed {
		t.Errorf("kinds = %v, %v", ctx.Draws[0].Kind, ctx.Draws[1].Kind)
	}
}

func TestPrimitiveBatchQuadExpansion(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewContext(sys)
	b := newTestBatch(t, sys)

	if err := b.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	quad := []point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	if err := b.Draw(render.QuadList, quad); err != nil {
		t.Fatalf("Draw quad: %v", err)
	}
	// Quads batch together with plain triangle lists.
	if err := b.Draw(render.TriangleList, points(3)); err != nil {
		t.Fatalf("Draw triangles: %v", err)
	}
	if err := b.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	if len(ctx.Draws) != 1 {
		t.Fatalf("draw calls = %d, want 1", len(ctx.Draws))
	}
	if ctx.Draws[0].VertexCount != 9 {
		t.Errorf("vertex count = %d, want 9 (6 expanded + 3)", ctx.Draws[0].VertexCount)
	}

	// {p0,p1,p2} {p0,p2,p3} ordering in the written bytes.
	want := []point{quad[0], quad[1], quad[2], quad[0], quad[2], quad[3]}
	data := sys.VertexBuffers[0].Data
	for i, p := range want {
		x := math.Float32frombits(binary.LittleEndian.Uint32(data[i*8:]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(data[i*8+4:]))
		if x != p.X || y != p.Y {
			t.Errorf("vertex %d = (%v,%v), want (%v,%v)", i, x, y, p.X, p.Y)
		}
	}
}

func TestPrimitiveBatchQuadIndexExpansion(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewContext(sys)
	b := newTestBatch(t, sys)

	if err := b.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := b.DrawIndexed(render.QuadList, points(4), []uint16{0, 1, 2, 3}); err != nil {
		t.Fatalf("DrawIndexed quad: %v", err)
	}
	if err := b.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	if len(ctx.Draws) != 1 || ctx.Draws[0].IndexCount != 6 {
		t.Fatalf("draws = %+v, want one 6-index draw", ctx.Draws)
	}
	data := sys.IndexBuffers[0].Data
	want := []uint16{0, 1, 2, 0, 2, 3}
	for i, w := range want {
		if got := binary.LittleEndian.Uint16(data[i*2:]); got != w {
			t.Errorf("index %d = %d, want %d", i, got, w)
		}
	}
}

func TestPrimitiveBatchIndexedRebasesSubmissions(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewContext(sys)
	b := newTestBatch(t, sys)

	if err := b.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := b.DrawIndexed(render.TriangleList, points(3), []uint16{0, 1, 2}); err != nil {
		t.Fatalf("first DrawIndexed: %v", err)
	}
	if err := b.DrawIndexed(render.TriangleList, points(3), []uint16{0, 1, 2}); err != nil {
		t.Fatalf("second DrawIndexed: %v", err)
	}
	if err := b.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	if len(ctx.Draws) != 1 || ctx.Draws[0].IndexCount != 6 {
		t.Fatalf("draws = %+v, want one 6-index draw", ctx.Draws)
	}
	data := sys.IndexBuffers[0].Data
	want := []uint16{0, 1, 2, 3, 4, 5}
	for i, w := range want {
		if got := binary.LittleEndian.Uint16(data[i*2:]); got != w {
			t.Errorf("index %d = %d, want %d", i, got, w)
		}
	}
}

func TestPrimitiveBatchEmptyEnd(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewContext(sys)
	b := newTestBatch(t, sys)

	if err := b.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := b.End(); err != nil {
		t.Fatalf("End on empty batch: %v", err)
	}
	if len(ctx.Draws) != 0 {
		t.Errorf("draw calls = %d, want 0", len(ctx.Draws))
	}
}

func TestPrimitiveBatchStateErrors(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewContext(sys)
	b := newTestBatch(t, sys)

	if err := b.Draw(render.TriangleList, points(3)); !errors.Is(err, ErrNotAccumulating) {
		t.Errorf("Draw before Begin = %v, want ErrNotAccumulating", err)
	}
	if err := b.Begin(nil); !errors.Is(err, ErrNilContext) {
		t.Errorf("Begin(nil) = %v, want ErrNilContext", err)
	}
	if err := b.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := b.Begin(ctx); !errors.Is(err, ErrAlreadyAccumulating) {
		t.Errorf("nested Begin = %v, want ErrAlreadyAccumulating", err)
	}
	if err := b.Draw(render.TriangleList, nil); !errors.Is(err, ErrNilVertices) {
		t.Errorf("nil vertices = %v, want ErrNilVertices", err)
	}
	if err := b.DrawIndexed(render.TriangleList, points(3), nil); !errors.Is(err, ErrNilIndices) {
		t.Errorf("nil indices = %v, want ErrNilIndices", err)
	}
	if err := b.Draw(render.QuadList, points(3)); !errors.Is(err, ErrQuadVertexCount) {
		t.Errorf("ragged quad = %v, want ErrQuadVertexCount", err)
	}
	if err := b.Draw(render.TriangleList, points(65)); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("oversized draw = %v, want ErrCapacityExceeded", err)
	}
}

func TestPrimitiveBatchRingDiscipline(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewContext(sys)
	b := newTestBatch(t, sys)

	// First pass starts at cursor zero: discard write.
	if err := b.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := b.Draw(render.TriangleList, points(30)); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := b.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	vb := sys.VertexBuffers[0]
	if len(vb.Writes) != 1 || vb.Writes[0].Mode != render.WriteDiscard {
		t.Fatalf("first write = %+v, want discard", vb.Writes)
	}

	// Cursor persists on immediate contexts: second pass no-overwrites.
	if err := b.Begin(ctx); err != nil {
		t.Fatalf("second Begin: %v", err)
	}
	if err := b.Draw(render.TriangleList, points(30)); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := b.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if len(vb.Writes) != 2 || vb.Writes[1].Mode != render.WriteNoOverwrite {
		t.Fatalf("second write = %+v, want no-overwrite", vb.Writes)
	}
	if vb.Writes[1].First != 30 {
		t.Errorf("second write offset = %d, want 30", vb.Writes[1].First)
	}

	// Wraparound: 60/64 used, a 30-vertex draw resets to zero and
	// discard-writes again.
	if err := b.Begin(ctx); err != nil {
		t.Fatalf("third Begin: %v", err)
	}
	if err := b.Draw(render.TriangleList, points(30)); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := b.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if len(vb.Writes) != 3 || vb.Writes[2].Mode != render.WriteDiscard || vb.Writes[2].First != 0 {
		t.Errorf("wraparound write = %+v, want discard at 0", vb.Writes[len(vb.Writes)-1])
	}
}

func TestPrimitiveBatchDeferredContextResetsCursors(t *testing.T) {
	sys := record.NewSystem()
	ctx := record.NewDeferredContext(sys)
	b := newTestBatch(t, sys)

	for pass := 0; pass < 2; pass++ {
		if err := b.Begin(ctx); err != nil {
			t.Fatalf("Begin pass %d: %v", pass, err)
		}
		if err := b.Draw(render.TriangleList, points(3)); err != nil {
			t.Fatalf("Draw pass %d: %v", pass, err)
		}
		if err := b.End(); err != nil {
			t.Fatalf("End pass %d: %v", pass, err)
		}
	}
	vb := sys.VertexBuffers[0]
	for i, w := range vb.Writes {
		if w.Mode != render.WriteDiscard || w.First != 0 {
			t.Errorf("deferred write %d = %+v, want discard at 0", i, w)
		}
	}
}
