package mood

import (
	"fmt"
	"sort"

	"github.com/panbanda/mood/pkg/models"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Validate fails with a *CyclicHierarchyError when any class inherits from
// itself through resolvable base references. Without this check the
// ancestor walk would never terminate on such input.
func (idx *Index) Validate() error {
	g := simple.NewDirectedGraph()
	for id := range idx.classes {
		if idx.Owner(uint32(id)) {
			g.AddNode(simple.Node(id))
		}
	}

	for id, cls := range idx.classes {
		if !idx.Owner(uint32(id)) {
			continue
		}
		for _, ref := range cls.Bases {
			parent, ok := idx.Resolve(ref)
			if !ok {
				continue
			}
			// simple graphs reject self-loops
			if parent == uint32(id) {
				return &CyclicHierarchyError{Cycle: []string{cls.Name, cls.Name}}
			}
			g.SetEdge(simple.Edge{F: simple.Node(id), T: simple.Node(int64(parent))})
		}
	}

	var cyclic []int64
	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) < 2 {
			continue
		}
		minID := scc[0].ID()
		for _, n := range scc[1:] {
			if n.ID() < minID {
				minID = n.ID()
			}
		}
		cyclic = append(cyclic, minID)
	}
	if len(cyclic) == 0 {
		return nil
	}

	// Walk from the earliest class on a cycle to report the actual path.
	sort.Slice(cyclic, func(i, j int) bool { return cyclic[i] < cyclic[j] })
	if _, err := NewHierarchy(idx).Ancestors(uint32(cyclic[0])); err != nil {
		return err
	}
	return fmt.Errorf("%w: strongly connected classes starting at %s", ErrCyclicHierarchy, idx.classes[cyclic[0]].Name)
}

// BuildGraph returns the resolved inheritance graph: one node per class
// owning its name, one child -> parent edge per resolvable base reference.
// With external set, unresolved bases get their own node and a dashed edge.
func BuildGraph(idx *Index, external bool) *models.InheritanceGraph {
	graph := models.NewInheritanceGraph()

	seen := make(map[[2]string]bool)
	externals := make(map[string]bool)
	for id, cls := range idx.classes {
		if !idx.Owner(uint32(id)) {
			continue
		}
		graph.AddNode(models.GraphNode{
			ID:   cls.Name,
			Name: cls.Name,
			Type: models.NodeClass,
			File: cls.Path,
			Line: cls.Line,
		})
		for _, ref := range cls.Bases {
			to, kind := "", models.EdgeInherit
			if parent, ok := idx.Resolve(ref); ok {
				to = idx.classes[parent].Name
			} else if external {
				to, kind = ref.String(), models.EdgeExternal
				externals[to] = true
			} else {
				continue
			}
			key := [2]string{cls.Name, to}
			if seen[key] {
				continue
			}
			seen[key] = true
			graph.AddEdge(models.GraphEdge{From: cls.Name, To: to, Type: kind})
		}
	}

	names := make([]string, 0, len(externals))
	for name := range externals {
		if _, ok := idx.Lookup(name); ok {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		graph.AddNode(models.GraphNode{ID: name, Name: name, Type: models.NodeExternal})
	}
	return graph
}
