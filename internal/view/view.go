// Package view provides read-only transforms over a type graph: the
// reachability filter and the flatten/alias normalizer. A View is an
// overlay referencing the interner's nodes; the graph itself is never
// mutated, so any number of views can coexist with the original.
package view

import (
	"cshape/internal/names"
	"cshape/internal/types"
)

// FlatField is one promoted member in a flattened struct view. Offsets are
// parent-absolute: byte and bit components are both shifted during
// promotion.
type FlatField struct {
	Name       names.StringID
	Type       types.TypeID
	ByteOffset int
	BitOffset  int
	BitWidth   int // < 0 for non-bitfields
}

// View is a selection of graph nodes plus optional flattened field lists.
type View struct {
	Types *types.Interner

	kept map[types.TypeID]struct{} // nil = every node
	flat map[types.TypeID][]FlatField
}

// Full returns the view containing the whole graph, unflattened.
func Full(typesIn *types.Interner) *View {
	return &View{Types: typesIn}
}

// Contains reports whether the node survives in this view.
func (v *View) Contains(id types.TypeID) bool {
	if v == nil || id == types.NoTypeID {
		return false
	}
	if v.kept == nil {
		return int(id) < v.Types.Len()
	}
	_, ok := v.kept[id]
	return ok
}

// Declared returns the named nodes of the view in declaration order.
func (v *View) Declared() []types.TypeID {
	if v == nil {
		return nil
	}
	all := v.Types.Declared()
	if v.kept == nil {
		return all
	}
	out := make([]types.TypeID, 0, len(v.kept))
	for _, id := range all {
		if v.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

// FlatFields returns the flattened field list for a struct node, when this
// view was produced by Flatten.
func (v *View) FlatFields(id types.TypeID) ([]FlatField, bool) {
	if v == nil || v.flat == nil {
		return nil, false
	}
	ff, ok := v.flat[id]
	return ff, ok
}

// Flattened reports whether this view carries flattened field lists.
func (v *View) Flattened() bool {
	return v != nil && v.flat != nil
}

// Reachable computes the subgraph reachable from the roots via dependency
// edges: field types, array elements, pointees, alias targets, enum
// underlying types, and function-pointer signatures. Pointer edges are
// followed because downstream binding generation needs the pointee's shape
// even though the pointer field itself is fixed-size.
//
// Applying Reachable twice with the same roots yields the same view.
func Reachable(base *View, roots []types.TypeID) *View {
	kept := make(map[types.TypeID]struct{}, len(roots)*4)
	var visit func(id types.TypeID)
	visit = func(id types.TypeID) {
		if id == types.NoTypeID || !base.Contains(id) {
			return
		}
		if _, seen := kept[id]; seen {
			return
		}
		kept[id] = struct{}{}

		tt, ok := base.Types.Lookup(id)
		if !ok {
			return
		}
		switch tt.Kind {
		case types.KindPointer, types.KindArray:
			visit(tt.Elem)
		case types.KindFuncPtr:
			if info, ok := base.Types.FuncInfo(id); ok {
				visit(info.Result)
				for _, p := range info.Params {
					visit(p)
				}
			}
		case types.KindEnum:
			if info, ok := base.Types.EnumInfo(id); ok {
				visit(info.Underlying)
			}
		case types.KindAlias:
			if target, ok := base.Types.AliasTarget(id); ok {
				visit(target)
			}
		case types.KindStruct:
			if info, ok := base.Types.StructInfo(id); ok {
				for _, f := range info.Fields {
					visit(f.Type)
				}
			}
		}
	}
	for _, root := range roots {
		visit(root)
	}

	out := &View{Types: base.Types, kept: kept}
	if base.flat != nil {
		out.flat = make(map[types.TypeID][]FlatField, len(kept))
		for id := range kept {
			if ff, ok := base.flat[id]; ok {
				out.flat[id] = ff
			}
		}
	}
	return out
}
