package layout

import (
	"fmt"
	"strings"

	"cshape/internal/types"
)

// ErrorKind enumerates types of layout resolution errors.
type ErrorKind uint8

const (
	// ErrCycle indicates a dependency cycle through value-contained fields:
	// the type would have infinite size. Cycles through pointer edges are
	// legal and never reach here.
	ErrCycle ErrorKind = iota + 1
	// ErrInvalidPacking indicates a pack bound that is negative or not a
	// power of two, rejected at the struct where it was declared.
	ErrInvalidPacking
)

// Error represents a failure to produce a layout for one node. Sibling and
// unrelated nodes keep resolving; the failure is cached per node.
type Error struct {
	Kind  ErrorKind
	Type  types.TypeID
	Cycle []types.TypeID // for ErrCycle
	Pack  int            // for ErrInvalidPacking
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrCycle:
		if len(e.Cycle) == 0 {
			return fmt.Sprintf("value-contained type cycle has infinite size (type#%d)", e.Type)
		}
		parts := make([]string, 0, len(e.Cycle))
		for _, id := range e.Cycle {
			parts = append(parts, fmt.Sprintf("type#%d", id))
		}
		return fmt.Sprintf("value-contained type cycle has infinite size (cycle: %s)", strings.Join(parts, " -> "))
	case ErrInvalidPacking:
		return fmt.Sprintf("invalid pack bound %d (type#%d): must be a positive power of two", e.Pack, e.Type)
	default:
		return fmt.Sprintf("layout error kind=%d type#%d", e.Kind, e.Type)
	}
}
