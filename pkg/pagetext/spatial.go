package pagetext

// SpatialItem is a rectangle tagged with the index of the box it belongs to
type SpatialItem struct {
	Rect  Rect
	Index int
}

// SpatialIndex answers page-position queries over word rectangles.
// It is built once from the full item set and is read-only afterwards.
type SpatialIndex interface {
	// Build replaces the contents of the index. bounds covers every item.
	Build(bounds Rect, items []SpatialItem)
	// At returns the indexes of items containing p
	At(p Point) []int
	// Intersecting returns the indexes of items overlapping r
	Intersecting(r Rect) []int
	// Nearest returns the index of the item closest to p
	Nearest(p Point) (int, bool)
}

// DefaultQuadCapacity is the number of items a quadtree leaf holds before splitting
const DefaultQuadCapacity = 8

// maxQuadDepth stops subdivision for piles of identical rectangles
const maxQuadDepth = 12

// QuadTree is the default SpatialIndex
type QuadTree struct {
	capacity int
	root     *quadNode
}

type quadNode struct {
	bounds Rect
	items  []SpatialItem
	nodes  []*quadNode
	depth  int
}

// NewQuadTree creates an empty quadtree whose leaves split past capacity items
func NewQuadTree(capacity int) *QuadTree {
	if capacity < 1 {
		capacity = DefaultQuadCapacity
	}
	return &QuadTree{capacity: capacity}
}

// Build implements SpatialIndex
func (qt *QuadTree) Build(bounds Rect, items []SpatialItem) {
	qt.root = &quadNode{bounds: bounds}
	for _, it := range items {
		qt.root.insert(it, qt.capacity)
	}
}

func (n *quadNode) insert(it SpatialItem, capacity int) {
	if n.nodes != nil {
		for _, child := range n.nodes {
			if contains(child.bounds, it.Rect) {
				child.insert(it, capacity)
				return
			}
		}
		// Straddles a split line, so it stays here
		n.items = append(n.items, it)
		return
	}

	n.items = append(n.items, it)
	if len(n.items) <= capacity || n.depth >= maxQuadDepth || n.bounds.Width < 2 || n.bounds.Height < 2 {
		return
	}

	// Split and redistribute
	n.subdivide()
	old := n.items
	n.items = nil
	for _, o := range old {
		n.insert(o, capacity)
	}
}

func (n *quadNode) subdivide() {
	b := n.bounds
	hw, hh := b.Width/2, b.Height/2
	d := n.depth + 1
	// Top-left, top-right, bottom-left, bottom-right
	n.nodes = []*quadNode{
		{bounds: Rect{X: b.X, Y: b.Y, Width: hw, Height: hh}, depth: d},
		{bounds: Rect{X: b.X + hw, Y: b.Y, Width: b.Width - hw, Height: hh}, depth: d},
		{bounds: Rect{X: b.X, Y: b.Y + hh, Width: hw, Height: b.Height - hh}, depth: d},
		{bounds: Rect{X: b.X + hw, Y: b.Y + hh, Width: b.Width - hw, Height: b.Height - hh}, depth: d},
	}
}

// At implements SpatialIndex
func (qt *QuadTree) At(p Point) []int {
	return qt.Intersecting(Rect{X: p.X, Y: p.Y})
}

// Intersecting implements SpatialIndex
func (qt *QuadTree) Intersecting(r Rect) []int {
	if qt.root == nil {
		return nil
	}
	var found []int
	qt.root.query(r, &found)
	return found
}

func (n *quadNode) query(r Rect, found *[]int) {
	if !n.bounds.Intersects(r) {
		return
	}
	for _, it := range n.items {
		if it.Rect.Intersects(r) {
			*found = append(*found, it.Index)
		}
	}
	for _, child := range n.nodes {
		child.query(r, found)
	}
}

// Nearest implements SpatialIndex. Ties go to the lower index.
func (qt *QuadTree) Nearest(p Point) (int, bool) {
	if qt.root == nil {
		return 0, false
	}
	best, bestDist := -1, 0
	qt.root.nearest(p, &best, &bestDist)
	return best, best >= 0
}

func (n *quadNode) nearest(p Point, best, bestDist *int) {
	if *best >= 0 && n.bounds.distance2(p) > *bestDist {
		return
	}
	for _, it := range n.items {
		d := it.Rect.distance2(p)
		if *best < 0 || d < *bestDist || (d == *bestDist && it.Index < *best) {
			*best, *bestDist = it.Index, d
		}
	}
	for _, child := range n.nodes {
		child.nearest(p, best, bestDist)
	}
}

func contains(outer, inner Rect) bool {
	return inner.X >= outer.X && inner.MaxX() <= outer.MaxX() &&
		inner.Y >= outer.Y && inner.MaxY() <= outer.MaxY()
}
