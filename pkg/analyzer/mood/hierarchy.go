package mood

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Hierarchy answers inheritance questions (ancestors, DIT, NOC) against an
// Index, memoizing per-class results. It is not safe for concurrent use;
// results it returns are never mutated afterwards and may be shared.
type Hierarchy struct {
	idx       *Index
	ancestors map[uint32]*roaring.Bitmap
	depths    map[uint32]int
	children  map[string]int
}

// NewHierarchy prepares hierarchy queries over idx. Direct-children counts
// are computed eagerly from every class's base list.
func NewHierarchy(idx *Index) *Hierarchy {
	h := &Hierarchy{
		idx:       idx,
		ancestors: make(map[uint32]*roaring.Bitmap, idx.Len()),
		depths:    make(map[uint32]int, idx.Len()),
		children:  make(map[string]int),
	}
	// A class listing the same base twice is counted twice.
	for _, cls := range idx.Classes() {
		for _, ref := range cls.Bases {
			h.children[ref.Name]++
		}
	}
	return h
}

// walkStack tracks the classes on the current recursion path.
type walkStack struct {
	on   map[uint32]bool
	path []uint32
}

func newWalkStack() *walkStack {
	return &walkStack{on: make(map[uint32]bool)}
}

func (s *walkStack) push(idx *Index, id uint32) error {
	if s.on[id] {
		var cycle []string
		start := 0
		for i, p := range s.path {
			if p == id {
				start = i
				break
			}
		}
		for _, p := range s.path[start:] {
			cycle = append(cycle, idx.Class(p).Name)
		}
		cycle = append(cycle, idx.Class(id).Name)
		return &CyclicHierarchyError{Cycle: cycle}
	}
	s.on[id] = true
	s.path = append(s.path, id)
	return nil
}

func (s *walkStack) pop() {
	last := s.path[len(s.path)-1]
	s.path = s.path[:len(s.path)-1]
	delete(s.on, last)
}

// Ancestors returns the IDs of every class reachable through any resolvable
// base reference of class id, transitively. Unresolved bases contribute
// nothing.
func (h *Hierarchy) Ancestors(id uint32) (*roaring.Bitmap, error) {
	return h.collectAncestors(id, newWalkStack())
}

func (h *Hierarchy) collectAncestors(id uint32, stack *walkStack) (*roaring.Bitmap, error) {
	if bm, ok := h.ancestors[id]; ok {
		return bm, nil
	}
	if err := stack.push(h.idx, id); err != nil {
		return nil, err
	}
	defer stack.pop()

	bm := roaring.New()
	for _, ref := range h.idx.Class(id).Bases {
		parent, ok := h.idx.Resolve(ref)
		if !ok {
			continue
		}
		bm.Add(parent)
		inherited, err := h.collectAncestors(parent, stack)
		if err != nil {
			return nil, err
		}
		bm.Or(inherited)
	}

	h.ancestors[id] = bm
	return bm, nil
}

// DIT returns the depth of inheritance of class id. Only one lineage is
// followed: the first base that resolves when scanning the base list from
// the end. With several resolvable bases this is not the maximum depth.
func (h *Hierarchy) DIT(id uint32) (int, error) {
	return h.depth(id, newWalkStack())
}

func (h *Hierarchy) depth(id uint32, stack *walkStack) (int, error) {
	if d, ok := h.depths[id]; ok {
		return d, nil
	}
	if err := stack.push(h.idx, id); err != nil {
		return 0, err
	}
	defer stack.pop()

	d := 0
	bases := h.idx.Class(id).Bases
	for i := len(bases) - 1; i >= 0; i-- {
		parent, ok := h.idx.Resolve(bases[i])
		if !ok {
			continue
		}
		pd, err := h.depth(parent, stack)
		if err != nil {
			return 0, err
		}
		d = pd + 1
		break
	}

	h.depths[id] = d
	return d, nil
}

// NOC returns how many base references across the corpus name class id.
// Shadowed duplicates share the count of their name.
func (h *Hierarchy) NOC(id uint32) int {
	return h.children[h.idx.Class(id).Name]
}
