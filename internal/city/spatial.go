package city

// Quadtree tuning.
const (
	QuadCapacity = 16
	QuadMaxDepth = 8
)

// RectF is an axis-aligned rectangle on the XZ ground plane.
type RectF struct {
	X0, Z0 float64
	X1, Z1 float64
}

func (r RectF) Intersects(o RectF) bool {
	return r.X0 < o.X1 && r.X1 > o.X0 && r.Z0 < o.Z1 && r.Z1 > o.Z0
}

func (r RectF) Contains(o RectF) bool {
	return o.X0 >= r.X0 && o.X1 <= r.X1 && o.Z0 >= r.Z0 && o.Z1 <= r.Z1
}

type quadItem struct {
	key    ColliderHandle
	bounds RectF
}

// QuadNode is a loose quadtree over collider footprints. Items that straddle
// a split stay in the parent.
type QuadNode struct {
	bounds RectF
	depth  int
	items  []quadItem
	child  [4]*QuadNode
}

func NewQuadNode(bounds RectF, depth int) *QuadNode {
	return &QuadNode{
		bounds: bounds,
		depth:  depth,
		items:  make([]quadItem, 0, QuadCapacity),
	}
}

func (n *QuadNode) Insert(key ColliderHandle, bounds RectF) {
	if n.child[0] != nil {
		if c := n.childThatContains(bounds); c != nil {
			c.Insert(key, bounds)
			return
		}
	}

	n.items = append(n.items, quadItem{key: key, bounds: bounds})

	if len(n.items) > QuadCapacity && n.depth < QuadMaxDepth {
		n.subdivide()
		kept := n.items[:0]
		for _, it := range n.items {
			if c := n.childThatContains(it.bounds); c != nil {
				c.Insert(it.key, it.bounds)
			} else {
				kept = append(kept, it)
			}
		}
		n.items = kept
	}
}

// Remove deletes key, descending along the same path Insert took for bounds.
func (n *QuadNode) Remove(key ColliderHandle, bounds RectF) bool {
	for i, it := range n.items {
		if it.key == key {
			last := len(n.items) - 1
			n.items[i] = n.items[last]
			n.items = n.items[:last]
			return true
		}
	}
	if n.child[0] == nil {
		return false
	}
	if c := n.childThatContains(bounds); c != nil {
		return c.Remove(key, bounds)
	}
	return false
}

func (n *QuadNode) Query(r RectF, out *[]ColliderHandle) {
	if !n.bounds.Intersects(r) {
		return
	}
	for _, it := range n.items {
		if it.bounds.Intersects(r) {
			*out = append(*out, it.key)
		}
	}
	if n.child[0] == nil {
		return
	}
	for i := 0; i < 4; i++ {
		if n.child[i] != nil {
			n.child[i].Query(r, out)
		}
	}
}

func (n *QuadNode) subdivide() {
	if n.child[0] != nil {
		return
	}
	mx := (n.bounds.X0 + n.bounds.X1) * 0.5
	mz := (n.bounds.Z0 + n.bounds.Z1) * 0.5
	n.child[0] = NewQuadNode(RectF{X0: n.bounds.X0, Z0: n.bounds.Z0, X1: mx, Z1: mz}, n.depth+1)
	n.child[1] = NewQuadNode(RectF{X0: mx, Z0: n.bounds.Z0, X1: n.bounds.X1, Z1: mz}, n.depth+1)
	n.child[2] = NewQuadNode(RectF{X0: n.bounds.X0, Z0: mz, X1: mx, Z1: n.bounds.Z1}, n.depth+1)
	n.child[3] = NewQuadNode(RectF{X0: mx, Z0: mz, X1: n.bounds.X1, Z1: n.bounds.Z1}, n.depth+1)
}

func (n *QuadNode) childThatContains(b RectF) *QuadNode {
	for i := 0; i < 4; i++ {
		c := n.child[i]
		if c != nil && c.bounds.Contains(b) {
			return c
		}
	}
	return nil
}
