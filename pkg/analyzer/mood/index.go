package mood

import (
	"github.com/panbanda/mood/pkg/models"
)

// Index is the run-scoped name -> class lookup used to resolve base
// references. Every class keeps a stable uint32 ID (its position in the
// load order); when two classes share a name, the later one owns the name.
type Index struct {
	classes []*models.Class
	byName  map[string]uint32
}

// NewIndex builds the hierarchy index from the complete class list. The
// index must be built from all classes before any resolution happens,
// since a class may name a base declared later.
func NewIndex(classes []models.Class) *Index {
	idx := &Index{
		classes: make([]*models.Class, len(classes)),
		byName:  make(map[string]uint32, len(classes)),
	}
	for i := range classes {
		idx.classes[i] = &classes[i]
		idx.byName[classes[i].Name] = uint32(i)
	}
	return idx
}

// Len returns the number of loaded classes, shadowed duplicates included.
func (idx *Index) Len() int {
	return len(idx.classes)
}

// Class returns the class with the given ID.
func (idx *Index) Class(id uint32) *models.Class {
	return idx.classes[id]
}

// Classes returns all classes in load order.
func (idx *Index) Classes() []*models.Class {
	return idx.classes
}

// Resolve looks a base reference up by its (trailing) name. A miss means
// the base lives outside the analyzed corpus and is not an error.
func (idx *Index) Resolve(ref models.BaseRef) (uint32, bool) {
	id, ok := idx.byName[ref.Name]
	return id, ok
}

// Lookup returns the class owning name, if any.
func (idx *Index) Lookup(name string) (*models.Class, bool) {
	id, ok := idx.byName[name]
	if !ok {
		return nil, false
	}
	return idx.classes[id], true
}

// Owner reports whether id is the class the index resolves its name to,
// i.e. it is not shadowed by a later class with the same name.
func (idx *Index) Owner(id uint32) bool {
	owner, ok := idx.byName[idx.classes[id].Name]
	return ok && owner == id
}
