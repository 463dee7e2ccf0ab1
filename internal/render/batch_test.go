package render

import (
	"image/color"
	"slices"
	"testing"

	"terrasim/internal/core"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func TestChangesSinceTracksPerCursor(t *testing.T) {
	b := NewTerrainBatch(4)
	b.Reset()

	_, cur, full := b.ChangesSince(Cursor{})
	if !full {
		t.Fatal("stale cursor must request a full repaint")
	}

	b.Set(2, Primitive{Color: red})
	b.Set(0, Primitive{Color: red})

	changed, cur2, full := b.ChangesSince(cur)
	if full {
		t.Fatal("current cursor should receive a delta")
	}
	if !slices.Equal(changed, []int{2, 0}) {
		t.Fatalf("changed = %v, want [2 0]", changed)
	}

	changed, _, _ = b.ChangesSince(cur2)
	if len(changed) != 0 {
		t.Fatalf("no new changes expected, got %v", changed)
	}

	// A second backend that has not read yet still sees both changes.
	changed, _, _ = b.ChangesSince(cur)
	if len(changed) != 2 {
		t.Fatalf("independent cursor lost changes: %v", changed)
	}

	b.Reset()
	if _, _, full := b.ChangesSince(cur2); !full {
		t.Fatal("new generation must invalidate older cursors")
	}
}

func TestSetIgnoresOutOfRange(t *testing.T) {
	b := NewTerrainBatch(2)
	b.Set(5, Primitive{Color: red})
	b.Set(-1, Primitive{Color: red})
	if changed, _, _ := b.ChangesSince(Cursor{Generation: b.Generation()}); len(changed) != 0 {
		t.Fatalf("out-of-range Set recorded changes: %v", changed)
	}
}

func TestPaintTerrainOnlyTouchesListedCells(t *testing.T) {
	const w, h = 4, 2
	b := NewTerrainBatch(2)
	b.Set(0, Primitive{Bounds: core.RectXYWH(0, 0, 2, 2), Color: red})
	b.Set(1, Primitive{Bounds: core.RectXYWH(2, 0, 2, 2), Color: red})

	buf := make([]byte, w*h*4)
	PaintTerrain(buf, w, h, b, []int{1})

	if buf[0] != 0 {
		t.Fatal("cell 0 was painted although not listed")
	}
	if buf[2*4] != 255 || buf[2*4+3] != 255 {
		t.Fatal("cell 1 was not painted")
	}
}

func TestSampleColorShapes(t *testing.T) {
	prims := []Primitive{
		{Shape: ShapeCircle, Bounds: core.RectAround(core.Vec2{X: 10, Y: 10}, 5, 5), Color: red},
	}
	if got := SampleColor(prims, 10, 10, white); got != red {
		t.Fatalf("centre sample = %v", got)
	}
	if got := SampleColor(prims, 14.5, 14.5, white); got != white {
		t.Fatalf("corner outside inscribed disc should be background, got %v", got)
	}
}

func TestMultiFansOut(t *testing.T) {
	var a, b Recorder
	m := Multi{&a, nil, &b}
	m.SubmitBatch(NewTerrainBatch(1), []Primitive{{Color: red}})
	if a.Frames != 1 || b.Frames != 1 || len(b.Effects) != 1 {
		t.Fatalf("fan-out missed a backend: a=%d b=%d", a.Frames, b.Frames)
	}
}
