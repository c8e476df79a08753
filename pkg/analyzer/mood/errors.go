package mood

import (
	"errors"
	"strings"
)

// ErrCyclicHierarchy is matched by every *CyclicHierarchyError.
var ErrCyclicHierarchy = errors.New("cyclic inheritance hierarchy")

// CyclicHierarchyError reports classes that (transitively) inherit from
// themselves through resolvable base references.
type CyclicHierarchyError struct {
	Cycle []string
}

func (e *CyclicHierarchyError) Error() string {
	return ErrCyclicHierarchy.Error() + ": " + strings.Join(e.Cycle, " -> ")
}

// Is makes errors.Is(err, ErrCyclicHierarchy) hold.
func (e *CyclicHierarchyError) Is(target error) bool {
	return target == ErrCyclicHierarchy
}
