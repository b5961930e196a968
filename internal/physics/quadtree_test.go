package physics

import (
	"math/rand"
	"slices"
	"testing"
)

func testBounds() AABB {
	return AABB{Max: V2(600, 600)}
}

func randomBoxes(rng *rand.Rand, n int) []AABB {
	boxes := make([]AABB, n)
	for i := range boxes {
		p := V2(rng.Float64()*600, rng.Float64()*600)
		boxes[i] = BoxAround(p, 1+rng.Float64()*5)
	}
	return boxes
}

func TestQuadtree_InsertOutsideRoot(t *testing.T) {
	qt := NewQuadtree(testBounds(), 4, 8)

	tests := []struct {
		name string
		p    Vec2
		want bool
	}{
		{"inside", V2(300, 300), true},
		{"on edge", V2(0, 600), true},
		{"left of root", V2(-1, 300), false},
		{"below root", V2(300, 600.5), false},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := qt.Insert(i, BoxAround(tt.p, 6)); got != tt.want {
				t.Errorf("Insert(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
	if qt.Len() != 2 {
		t.Errorf("Len() = %d, want 2", qt.Len())
	}
}

func TestQuadtree_SubdividesPastCapacity(t *testing.T) {
	qt := NewQuadtree(testBounds(), 4, 8)
	centres := []Vec2{V2(100, 100), V2(500, 100), V2(100, 500), V2(500, 500)}
	for i, p := range centres {
		qt.Insert(i, BoxAround(p, 5))
	}
	if qt.NodeCount() != 1 {
		t.Fatalf("NodeCount() = %d before overflow, want 1", qt.NodeCount())
	}

	qt.Insert(4, BoxAround(V2(150, 150), 5))

	snap := qt.Snapshot()
	if qt.NodeCount() != 5 || len(snap.Nodes) != 5 {
		t.Fatalf("NodeCount() = %d, snapshot nodes = %d, want 5", qt.NodeCount(), len(snap.Nodes))
	}
	root := snap.Nodes[0]
	if root.Leaf {
		t.Error("root should no longer be a leaf")
	}
	if len(root.Bodies) != 0 {
		t.Errorf("root holds %v, want none", root.Bodies)
	}
	for _, n := range snap.Nodes[1:] {
		if n.Depth != 1 {
			t.Errorf("child depth = %d, want 1", n.Depth)
		}
		for _, idx := range n.Bodies {
			var box AABB
			if idx < len(centres) {
				box = BoxAround(centres[idx], 5)
			} else {
				box = BoxAround(V2(150, 150), 5)
			}
			if !n.Bounds.Contains(box) {
				t.Errorf("body %d stored in node %+v that does not contain it", idx, n.Bounds)
			}
		}
	}
}

func TestQuadtree_StraddlingBodyStaysAtParent(t *testing.T) {
	qt := NewQuadtree(testBounds(), 1, 8)
	qt.Insert(0, BoxAround(V2(100, 100), 5))
	qt.Insert(1, BoxAround(V2(300, 300), 5)) // crosses both midlines

	snap := qt.Snapshot()
	root := snap.Nodes[0]
	if !slices.Equal(root.Bodies, []int{1}) {
		t.Errorf("root bodies = %v, want [1]", root.Bodies)
	}
}

func TestQuadtree_MaxDepthStopsSubdivision(t *testing.T) {
	qt := NewQuadtree(testBounds(), 1, 0)
	for i := 0; i < 10; i++ {
		qt.Insert(i, BoxAround(V2(10+float64(i)*50, 10), 2))
	}
	if qt.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", qt.NodeCount())
	}
	if got := len(qt.Snapshot().Nodes[0].Bodies); got != 10 {
		t.Errorf("root holds %d bodies, want 10", got)
	}

	deep := NewQuadtree(testBounds(), 1, 3)
	for i := 0; i < 20; i++ {
		deep.Insert(i, BoxAround(V2(1+float64(i)*0.01, 1), 0.001))
	}
	if got := deep.Snapshot().MaxDepth(); got != 3 {
		t.Errorf("MaxDepth() = %d, want 3", got)
	}
}

func TestQuadtree_QueryRootReturnsEverything(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	boxes := randomBoxes(rng, 500)
	qt := NewQuadtree(testBounds(), 4, 8)
	for i, b := range boxes {
		if !qt.Insert(i, b) {
			t.Fatalf("Insert(%d) rejected %+v", i, b)
		}
	}

	got := qt.Query(qt.Bounds(), nil)

	if len(got) != len(boxes) {
		t.Fatalf("Query(root) returned %d bodies, want %d", len(got), len(boxes))
	}
	slices.Sort(got)
	for i, idx := range got {
		if idx != i {
			t.Fatalf("Query(root) missing or duplicated index near %d (got %d)", i, idx)
		}
	}
}

func TestQuadtree_QueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	boxes := randomBoxes(rng, 300)
	qt := NewQuadtree(testBounds(), 4, 8)
	for i, b := range boxes {
		qt.Insert(i, b)
	}

	var buf []int
	for q := 0; q < 200; q++ {
		rngBox := BoxAround(V2(rng.Float64()*600, rng.Float64()*600), 5+rng.Float64()*40)

		buf = qt.Query(rngBox, buf[:0])
		got := slices.Clone(buf)
		slices.Sort(got)

		var want []int
		for i, b := range boxes {
			if b.Intersects(rngBox) {
				want = append(want, i)
			}
		}

		if !slices.Equal(got, want) {
			t.Fatalf("query %d %+v: got %v, want %v", q, rngBox, got, want)
		}
	}
}

func TestQuadtree_QueryAppends(t *testing.T) {
	qt := NewQuadtree(testBounds(), 4, 8)
	qt.Insert(3, BoxAround(V2(50, 50), 5))

	out := qt.Query(BoxAround(V2(50, 50), 1), []int{42})
	if !slices.Equal(out, []int{42, 3}) {
		t.Errorf("Query() = %v, want [42 3]", out)
	}
	if out := qt.Query(BoxAround(V2(500, 500), 1), nil); len(out) != 0 {
		t.Errorf("Query(far) = %v, want empty", out)
	}
}

func TestQuadtree_ClearResets(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	qt := NewQuadtree(testBounds(), 2, 8)
	for i, b := range randomBoxes(rng, 100) {
		qt.Insert(i, b)
	}
	if qt.NodeCount() == 1 {
		t.Fatal("expected subdivisions before Clear")
	}

	qt.Clear()

	if qt.Len() != 0 || qt.NodeCount() != 1 {
		t.Errorf("after Clear: Len() = %d, NodeCount() = %d, want 0, 1", qt.Len(), qt.NodeCount())
	}
	if got := qt.Query(qt.Bounds(), nil); len(got) != 0 {
		t.Errorf("Query() after Clear = %v, want empty", got)
	}

	// Reused arena slots must not leak old items.
	for i, b := range randomBoxes(rng, 50) {
		qt.Insert(i, b)
	}
	got := qt.Query(qt.Bounds(), nil)
	slices.Sort(got)
	for i, idx := range got {
		if idx != i {
			t.Fatalf("after rebuild: got indices %v", got)
		}
	}
	if len(got) != 50 {
		t.Errorf("after rebuild: %d bodies, want 50", len(got))
	}
}

func TestQuadtree_SnapshotIsCopy(t *testing.T) {
	qt := NewQuadtree(testBounds(), 4, 8)
	qt.Insert(0, BoxAround(V2(10, 10), 2))
	qt.Insert(1, BoxAround(V2(20, 20), 2))

	snap := qt.Snapshot()
	snap.Nodes[0].Bodies[0] = 99
	snap.Nodes = append(snap.Nodes, QuadNode{})

	again := qt.Snapshot()
	if !slices.Equal(again.Nodes[0].Bodies, []int{0, 1}) {
		t.Errorf("snapshot bodies = %v, want [0 1]", again.Nodes[0].Bodies)
	}
	if len(again.Nodes) != 1 {
		t.Errorf("snapshot nodes = %d, want 1", len(again.Nodes))
	}
}

func BenchmarkQuadtree_Rebuild(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	boxes := randomBoxes(rng, 1000)
	qt := NewQuadtree(testBounds(), 4, 8)
	var buf []int

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		qt.Clear()
		for j, box := range boxes {
			qt.Insert(j, box)
		}
		for _, box := range boxes {
			buf = qt.Query(box, buf[:0])
		}
	}
}
