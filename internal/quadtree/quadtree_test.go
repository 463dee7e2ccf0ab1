package quadtree

import (
	"slices"
	"testing"

	"terrasim/internal/core"
)

func world() core.Rect { return core.RectXYWH(0, 0, 100, 100) }

func sorted(ids []EntityID) []EntityID {
	slices.Sort(ids)
	return ids
}

func TestInsertOutsideRootIsDropped(t *testing.T) {
	tr := New(world(), 4, 6)
	if tr.Insert(CellID(1), core.RectXYWH(150, 150, 5, 5)) {
		t.Fatal("box outside the root was kept")
	}
	if tr.Insert(CellID(2), core.RectXYWH(100, 10, 5, 5)) {
		t.Fatal("box touching only the root edge was kept")
	}
	if tr.Len() != 0 {
		t.Fatalf("len = %d, want 0", tr.Len())
	}
	if got := tr.Query(core.RectXYWH(-1000, -1000, 3000, 3000), nil); len(got) != 0 {
		t.Fatalf("query returned dropped ids %v", got)
	}
}

func TestQueryFindsOverlappingItemsOnce(t *testing.T) {
	tr := New(world(), 2, 6)
	var all []EntityID
	for row := 0; row < 10; row++ {
		for col := 0; col < 10; col++ {
			id := CellID(row*10 + col)
			tr.Insert(id, core.RectXYWH(float64(col)*10, float64(row)*10, 10, 10))
			all = append(all, id)
		}
	}
	if tr.Len() != 100 {
		t.Fatalf("len = %d, want 100", tr.Len())
	}

	got := sorted(tr.Query(core.RectXYWH(0, 0, 100, 100), nil))
	if !slices.Equal(got, all) {
		t.Fatalf("full query returned %d ids, want 100 unique", len(got))
	}

	got = sorted(tr.Query(core.RectXYWH(15, 15, 10, 10), nil))
	want := []EntityID{CellID(11), CellID(12), CellID(21), CellID(22)}
	if !slices.Equal(got, want) {
		t.Fatalf("range query = %v, want %v", got, want)
	}

	if got := tr.Query(core.Rect{MinX: 5, MinY: 5, MaxX: 5, MaxY: 20}, nil); len(got) != 0 {
		t.Fatalf("empty range returned %v", got)
	}
	if got := tr.Query(core.RectXYWH(200, 200, 10, 10), nil); len(got) != 0 {
		t.Fatalf("outside range returned %v", got)
	}
}

func TestLeavesRespectCapacity(t *testing.T) {
	tr := New(world(), 3, 8)
	for i := 0; i < 60; i++ {
		x := float64((i * 37) % 97)
		y := float64((i * 53) % 89)
		tr.Insert(EffectID(uint64(i)), core.RectXYWH(x, y, 2, 2))
	}
	s := tr.Stats()
	if s.Nodes == 1 {
		t.Fatal("tree never subdivided")
	}
	if s.MaxItems > tr.Capacity() {
		t.Fatalf("a leaf holds %d items, capacity %d", s.MaxItems, tr.Capacity())
	}
}

func TestResetKeepsBoundsAndEmpties(t *testing.T) {
	tr := New(world(), 1, 4)
	tr.Insert(CellID(1), core.RectXYWH(1, 1, 2, 2))
	tr.Insert(CellID(2), core.RectXYWH(80, 80, 2, 2))
	tr.Reset()
	if tr.Len() != 0 || tr.Stats().Nodes != 1 {
		t.Fatalf("reset left len=%d nodes=%d", tr.Len(), tr.Stats().Nodes)
	}
	tr.Insert(CellID(3), core.RectXYWH(50, 50, 2, 2))
	if got := tr.Query(world(), nil); !slices.Equal(got, []EntityID{CellID(3)}) {
		t.Fatalf("after reset query = %v", got)
	}
}

func TestEntityIDTags(t *testing.T) {
	c, e := CellID(42), EffectID(42)
	if c == e {
		t.Fatal("cell and effect ids collide")
	}
	if c.IsEffect() || !e.IsEffect() {
		t.Fatal("tags swapped")
	}
	if c.Cell() != 42 || e.Effect() != 42 {
		t.Fatalf("round trip: cell %d effect %d", c.Cell(), e.Effect())
	}
}

func bruteForce(items []Item, r core.Rect) []EntityID {
	var out []EntityID
	for _, it := range items {
		if it.Box.Intersects(r) {
			out = append(out, it.ID)
		}
	}
	return sorted(out)
}

func TestQueryMatchesBruteForce(t *testing.T) {
	rng := core.NewRNG(7)
	for round := 0; round < 20; round++ {
		tr := New(world(), 1+round%4, 8)
		var items []Item
		for i := 0; i < 150; i++ {
			box := core.RectXYWH(rng.Range(-5, 100), rng.Range(-5, 100), rng.Range(0.5, 12), rng.Range(0.5, 12))
			id := CellID(i)
			if tr.Insert(id, box) {
				items = append(items, Item{ID: id, Box: box})
			}
		}
		for q := 0; q < 150; q++ {
			r := core.RectXYWH(rng.Range(-10, 100), rng.Range(-10, 100), rng.Range(0.5, 30), rng.Range(0.5, 30))
			got := sorted(tr.Query(r, nil))
			if want := bruteForce(items, r); !slices.Equal(got, want) {
				t.Fatalf("round %d query %v: got %v want %v", round, r, got, want)
			}
		}
	}
}

func TestQueryFindsBoxCrossingMidline(t *testing.T) {
	tr := New(world(), 1, 4)
	// Centre (52, 20) sits in the NE quadrant; the box reaches into NW.
	tr.Insert(CellID(1), core.RectXYWH(44, 15, 16, 10))
	tr.Insert(CellID(2), core.RectXYWH(80, 80, 2, 2))
	tr.Insert(CellID(3), core.RectXYWH(10, 80, 2, 2))
	if tr.Stats().Nodes == 1 {
		t.Fatal("tree never subdivided")
	}
	got := tr.Query(core.RectXYWH(40, 10, 6, 6), nil)
	if !slices.Equal(got, []EntityID{CellID(1)}) {
		t.Fatalf("query west of the midline = %v, want [1]", got)
	}
}

func TestQueryFindsItemCentredOnBoundary(t *testing.T) {
	tr := New(world(), 1, 5)
	// Centre exactly on both root midlines, stored in the SE quadrant.
	tr.Insert(CellID(1), core.RectXYWH(45, 45, 10, 10))
	tr.Insert(CellID(2), core.RectXYWH(5, 5, 2, 2))
	tr.Insert(CellID(3), core.RectXYWH(90, 5, 2, 2))
	for _, r := range []core.Rect{
		core.RectXYWH(46, 46, 1, 1), // NW corner of the box
		core.RectXYWH(53, 46, 1, 1), // NE
		core.RectXYWH(46, 53, 1, 1), // SW
		core.RectXYWH(53, 53, 1, 1), // SE
	} {
		if got := tr.Query(r, nil); !slices.Equal(got, []EntityID{CellID(1)}) {
			t.Fatalf("query %v = %v, want [1]", r, got)
		}
	}
}

func TestPartialBoxKeyedInsideRoot(t *testing.T) {
	tr := New(world(), 1, 5)
	// Centre (103, 50) lies outside the root; the box still overlaps it.
	box := core.RectXYWH(96, 45, 14, 10)
	if !tr.Insert(CellID(1), box) {
		t.Fatal("box overlapping the root edge was dropped")
	}
	tr.Insert(CellID(2), core.RectXYWH(5, 5, 2, 2))
	tr.Insert(CellID(3), core.RectXYWH(5, 90, 2, 2))

	if items := tr.nodes[0].items; len(items) != 0 {
		t.Fatalf("root still holds %d items after subdividing", len(items))
	}
	ref := tr.ref(box)
	if ref.X != 100 || ref.Y != 50 {
		t.Fatalf("reference point = %v, want (100, 50)", ref)
	}
	for i, nd := range tr.nodes {
		for _, it := range nd.items {
			if !nd.bounds.ContainsPoint(tr.ref(it.Box)) {
				t.Fatalf("node %d %v holds item %d keyed outside it", i, nd.bounds, it.ID)
			}
		}
	}
	if got := tr.Query(core.RectXYWH(97, 48, 2, 2), nil); !slices.Equal(got, []EntityID{CellID(1)}) {
		t.Fatalf("query = %v, want [1]", got)
	}
	if got := tr.Query(core.RectXYWH(105, 48, 2, 2), nil); !slices.Equal(got, []EntityID{CellID(1)}) {
		t.Fatalf("query past the root edge = %v, want [1]", got)
	}
}
