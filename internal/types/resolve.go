package types

import (
	"fmt"
	"strings"
)

// AliasCycleError reports a typedef chain that revisits a node. Valid input
// cannot produce one (C requires the target to exist first), so this is a
// defensive check on hand-built graphs.
type AliasCycleError struct {
	Cycle []TypeID
}

func (e *AliasCycleError) Error() string {
	if e == nil || len(e.Cycle) == 0 {
		return "typedef chain cycle"
	}
	parts := make([]string, 0, len(e.Cycle))
	for _, id := range e.Cycle {
		parts = append(parts, fmt.Sprintf("type#%d", id))
	}
	return fmt.Sprintf("typedef chain cycle: %s", strings.Join(parts, " -> "))
}

// ResolveAliasChain follows typedef links to the first non-alias node.
// Non-alias inputs resolve to themselves.
func (in *Interner) ResolveAliasChain(id TypeID) (TypeID, error) {
	if id == NoTypeID {
		return NoTypeID, nil
	}
	var chain []TypeID
	seen := make(map[TypeID]struct{}, 4)
	for {
		tt, ok := in.Lookup(id)
		if !ok || tt.Kind != KindAlias {
			return id, nil
		}
		if _, revisited := seen[id]; revisited {
			return NoTypeID, &AliasCycleError{Cycle: append(chain, id)}
		}
		seen[id] = struct{}{}
		chain = append(chain, id)
		target, ok := in.AliasTarget(id)
		if !ok {
			return id, nil
		}
		id = target
	}
}
