package physics

// Quadtree is a region quadtree for broad-phase collision detection.
// Bodies are inserted by slice index together with their bounding box, then
// candidates near a query box can be collected without scanning every body.
//
// Nodes live in a flat arena that is reused between ticks (Clear truncates
// it), so a rebuild each tick does not allocate once the arena has grown.
type Quadtree struct {
	capacity int
	maxDepth int
	nodes    []quadNode // nodes[0] is the root
	count    int
}

// quadNode is one region of the tree. Children are stored as four
// consecutive arena entries starting at firstChild; 0 means leaf.
type quadNode struct {
	bounds     AABB
	depth      int
	items      []quadItem
	firstChild int
}

// quadItem is a stored body reference.
type quadItem struct {
	index int
	box   AABB
}

// NewQuadtree creates an empty tree covering bounds.
// capacity is the number of bodies a node holds before it subdivides;
// nodes at maxDepth never subdivide.
func NewQuadtree(bounds AABB, capacity, maxDepth int) *Quadtree {
	if capacity < 1 {
		capacity = 1
	}
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &Quadtree{
		capacity: capacity,
		maxDepth: maxDepth,
		nodes:    []quadNode{{bounds: bounds}},
	}
}

// Clear removes all bodies and subdivisions without freeing arena memory.
func (t *Quadtree) Clear() {
	t.nodes = t.nodes[:1]
	root := &t.nodes[0]
	root.items = root.items[:0]
	root.firstChild = 0
	t.count = 0
}

// Bounds returns the root region.
func (t *Quadtree) Bounds() AABB {
	return t.nodes[0].bounds
}

// Len returns the number of stored bodies.
func (t *Quadtree) Len() int {
	return t.count
}

// NodeCount returns the number of nodes, root included.
func (t *Quadtree) NodeCount() int {
	return len(t.nodes)
}

// Insert adds the body at index with bounding box box.
// Returns false and stores nothing if the box centre lies outside the root region.
func (t *Quadtree) Insert(index int, box AABB) bool {
	if !t.nodes[0].bounds.ContainsPoint(box.Center()) {
		return false
	}
	t.insert(0, quadItem{index: index, box: box})
	t.count++
	return true
}

// insert descends to the deepest existing node fully containing the item,
// stores it there and subdivides that node if it overflows.
func (t *Quadtree) insert(ni int, it quadItem) {
	for t.nodes[ni].firstChild != 0 {
		c := t.childFor(ni, it.box)
		if c < 0 {
			break
		}
		ni = c
	}

	t.nodes[ni].items = append(t.nodes[ni].items, it)

	n := &t.nodes[ni]
	if n.firstChild == 0 && len(n.items) > t.capacity && n.depth < t.maxDepth {
		t.subdivide(ni)
	}
}

// subdivide splits node ni into four quadrants and pushes down every item
// that fits entirely inside one of them.
func (t *Quadtree) subdivide(ni int) {
	quads := t.nodes[ni].bounds.quadrants()
	depth := t.nodes[ni].depth + 1

	first := len(t.nodes)
	for _, q := range quads {
		t.allocNode(q, depth)
	}
	t.nodes[ni].firstChild = first

	items := t.nodes[ni].items
	kept := items[:0]
	for _, it := range items {
		if c := t.childFor(ni, it.box); c >= 0 {
			t.insert(c, it)
		} else {
			kept = append(kept, it)
		}
	}
	t.nodes[ni].items = kept
}

// allocNode appends a node, reusing the item storage of a previous tick's
// node in the same arena slot when available.
func (t *Quadtree) allocNode(bounds AABB, depth int) {
	if len(t.nodes) < cap(t.nodes) {
		t.nodes = t.nodes[:len(t.nodes)+1]
		n := &t.nodes[len(t.nodes)-1]
		n.bounds = bounds
		n.depth = depth
		n.items = n.items[:0]
		n.firstChild = 0
		return
	}
	t.nodes = append(t.nodes, quadNode{bounds: bounds, depth: depth})
}

// childFor returns the child of ni that fully contains box, or -1.
func (t *Quadtree) childFor(ni int, box AABB) int {
	first := t.nodes[ni].firstChild
	for c := first; c < first+4; c++ {
		if t.nodes[c].bounds.Contains(box) {
			return c
		}
	}
	return -1
}

// Query appends to out the index of every stored body whose bounding box
// intersects rng and returns the extended slice. Subtrees whose region misses
// rng are skipped. Each body appears at most once.
func (t *Quadtree) Query(rng AABB, out []int) []int {
	return t.query(0, rng, out)
}

func (t *Quadtree) query(ni int, rng AABB, out []int) []int {
	n := &t.nodes[ni]
	if !n.bounds.Intersects(rng) {
		return out
	}
	for _, it := range n.items {
		if it.box.Intersects(rng) {
			out = append(out, it.index)
		}
	}
	if n.firstChild != 0 {
		first := n.firstChild
		for c := first; c < first+4; c++ {
			out = t.query(c, rng, out)
		}
	}
	return out
}

// QuadNode is a read-only copy of one quadtree node.
type QuadNode struct {
	Bounds AABB
	Depth  int
	Leaf   bool
	Bodies []int // Indices of the bodies held directly by this node
}

// QuadtreeSnapshot is a deep copy of a quadtree, safe to keep and share
// after the tree has been rebuilt.
type QuadtreeSnapshot struct {
	Bounds AABB
	Bodies int
	Nodes  []QuadNode // Depth-first order, root first
}

// Snapshot returns a deep copy of the current tree.
func (t *Quadtree) Snapshot() QuadtreeSnapshot {
	snap := QuadtreeSnapshot{
		Bounds: t.Bounds(),
		Bodies: t.count,
		Nodes:  make([]QuadNode, 0, len(t.nodes)),
	}
	t.snapshot(0, &snap)
	return snap
}

func (t *Quadtree) snapshot(ni int, snap *QuadtreeSnapshot) {
	n := &t.nodes[ni]
	bodies := make([]int, len(n.items))
	for i, it := range n.items {
		bodies[i] = it.index
	}
	snap.Nodes = append(snap.Nodes, QuadNode{
		Bounds: n.bounds,
		Depth:  n.depth,
		Leaf:   n.firstChild == 0,
		Bodies: bodies,
	})
	if n.firstChild != 0 {
		for c := n.firstChild; c < n.firstChild+4; c++ {
			t.snapshot(c, snap)
		}
	}
}

// MaxDepth returns the deepest node level in the snapshot.
func (s QuadtreeSnapshot) MaxDepth() int {
	depth := 0
	for _, n := range s.Nodes {
		if n.Depth > depth {
			depth = n.Depth
		}
	}
	return depth
}
