package layout

import (
	"cshape/internal/types"
)

// FieldLayout is the resolved position of one field, parallel to the
// struct's field slice. BitWidth < 0 for ordinary fields; for bitfields
// ByteOffset is the start of the storage unit and BitOffset counts from
// the unit's low bit (or high bit, per Target.BitOrder).
type FieldLayout struct {
	ByteOffset int
	BitOffset  int
	BitWidth   int
}

// IsBitfield reports whether this position is a bit range.
func (f FieldLayout) IsBitfield() bool {
	return f.BitWidth >= 0
}

// Hole is a padding byte range not occupied by any field.
type Hole struct {
	Offset int
	Len    int
}

// TypeLayout is the ABI layout of a type for a specific Target.
//
// Size is always a multiple of Align, trailing padding included; a pack
// bound of 1 makes Align 1 and so disables the padding. Unions place every
// member at offset 0 and record no holes.
type TypeLayout struct {
	Size  int
	Align int

	// Struct/union-only, parallel to StructInfo.Fields:
	Fields []FieldLayout
	Holes  []Hole
}

// Engine computes memory layout for type nodes.
//
// Resolution never mutates the graph: results go into a per-engine memo
// table keyed by (node, effective pack bound), so several engines may read
// one interner concurrently.
type Engine struct {
	Target Target
	Types  *types.Interner

	// ForcePack, when positive, applies as the pack bound to every struct
	// that does not carry its own declaration-site bound. It emulates
	// resolving the whole graph inside a pragma pack region.
	ForcePack int

	cache *cache
}

// New creates a layout engine for the target over the given graph.
func New(target Target, typesIn *types.Interner) *Engine {
	return &Engine{
		Target: target,
		Types:  typesIn,
		cache:  newCache(),
	}
}

type resolveState struct {
	stack []types.TypeID
	index map[types.TypeID]int
}

func newResolveState() *resolveState {
	return &resolveState{
		index: make(map[types.TypeID]int, 32),
	}
}

// LayoutOf computes and caches the layout of a type.
func (e *Engine) LayoutOf(id types.TypeID) (TypeLayout, error) {
	layout, err := e.layoutOf(id, newResolveState())
	if err != nil {
		// A typed nil inside a non-nil error interface is a classic trap;
		// return a plain nil instead.
		return layout, err
	}
	return layout, nil
}

// layoutOf resolves one node bottom-up, detecting value-containment cycles
// through the state stack. Only edges that contribute bytes recurse here:
// pointer and function-pointer nodes are leaves.
func (e *Engine) layoutOf(id types.TypeID, state *resolveState) (TypeLayout, *Error) {
	if id == types.NoTypeID || e == nil || e.Types == nil {
		return TypeLayout{Size: 0, Align: 1}, nil
	}
	if e.cache == nil {
		e.cache = newCache()
	}
	key := cacheKey{Type: id, Pack: e.effectivePackOf(id)}
	if cached, ok := e.cache.get(key); ok {
		return cached.Layout, cached.Err
	}

	if idx, onStack := state.index[id]; onStack {
		cycle := append([]types.TypeID(nil), state.stack[idx:]...)
		cycle = append(cycle, id)
		err := &Error{Kind: ErrCycle, Type: id, Cycle: cycle}
		e.cache.put(key, &cacheEntry{Layout: TypeLayout{Size: 0, Align: 1}, Err: err})
		return TypeLayout{Size: 0, Align: 1}, err
	}

	state.index[id] = len(state.stack)
	state.stack = append(state.stack, id)
	layout, err := e.computeLayout(id, state)
	state.stack = state.stack[:len(state.stack)-1]
	delete(state.index, id)

	e.cache.put(key, &cacheEntry{Layout: layout, Err: err})
	return layout, err
}

// SizeOf returns the size of a type in bytes.
func (e *Engine) SizeOf(id types.TypeID) (int, error) {
	l, err := e.LayoutOf(id)
	return l.Size, err
}

// AlignOf returns the alignment requirement of a type in bytes.
func (e *Engine) AlignOf(id types.TypeID) (int, error) {
	l, err := e.LayoutOf(id)
	return l.Align, err
}

// FieldOffset returns the byte offset of a struct field by index.
func (e *Engine) FieldOffset(structT types.TypeID, fieldIdx int) (int, error) {
	l, err := e.LayoutOf(structT)
	if err != nil {
		return 0, err
	}
	if fieldIdx < 0 || fieldIdx >= len(l.Fields) {
		return 0, nil
	}
	return l.Fields[fieldIdx].ByteOffset, nil
}

// effectivePackOf is the cache-key component: the pack bound the node will
// be resolved under, before validation.
func (e *Engine) effectivePackOf(id types.TypeID) int {
	info, ok := e.Types.StructInfo(id)
	if !ok || info == nil {
		return 0
	}
	if info.Pack != 0 {
		return info.Pack
	}
	return e.ForcePack
}

// effectivePack validates the bound for a struct about to be laid out.
func (e *Engine) effectivePack(id types.TypeID, info *types.StructInfo) (int, *Error) {
	pack := info.Pack
	if pack == 0 {
		pack = e.ForcePack
	}
	if pack == 0 {
		return 0, nil
	}
	if pack < 0 || pack&(pack-1) != 0 {
		return 0, &Error{Kind: ErrInvalidPacking, Type: id, Pack: pack}
	}
	return pack, nil
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
