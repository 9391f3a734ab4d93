package view

import (
	"cshape/internal/types"
)

// Canon memoizes alias canonicalization: a typedef chain is walked once per
// node, never re-walked per query. A typedef of an enum canonicalizes to
// the enum node, so both names compare and lay out identically.
type Canon struct {
	types *types.Interner
	memo  map[types.TypeID]types.TypeID
}

func NewCanon(typesIn *types.Interner) *Canon {
	return &Canon{
		types: typesIn,
		memo:  make(map[types.TypeID]types.TypeID, 32),
	}
}

// Canonical resolves id to its underlying non-alias node.
func (c *Canon) Canonical(id types.TypeID) (types.TypeID, error) {
	if c == nil || id == types.NoTypeID {
		return id, nil
	}
	if got, ok := c.memo[id]; ok {
		return got, nil
	}
	resolved, err := c.types.ResolveAliasChain(id)
	if err != nil {
		return types.NoTypeID, err
	}
	c.memo[id] = resolved
	return resolved, nil
}
