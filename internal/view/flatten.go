package view

import (
	"cshape/internal/layout"
	"cshape/internal/names"
	"cshape/internal/types"
)

// Flatten produces a view where every anonymous nested-composite member is
// replaced by its own fields at parent-absolute offsets. Named composite
// members stay intact. Nodes whose layout cannot be resolved (cycles,
// invalid packing) simply carry no flattened list.
//
// Flatten is idempotent: the flattened lists are derived from the
// underlying immutable nodes, so flattening a flattened view reproduces it.
func Flatten(engine *layout.Engine, base *View) *View {
	out := &View{Types: base.Types}
	if base.kept != nil {
		out.kept = base.kept
	}
	out.flat = make(map[types.TypeID][]FlatField, 64)

	for id := types.TypeID(1); int(id) < base.Types.Len(); id++ {
		if !base.Contains(id) {
			continue
		}
		tt, ok := base.Types.Lookup(id)
		if !ok || tt.Kind != types.KindStruct {
			continue
		}
		ff, ok := flattenStruct(engine, base.Types, id, 0)
		if !ok {
			continue
		}
		out.flat[id] = ff
	}
	return out
}

// flattenStruct returns the promoted field list of one composite, with
// every offset shifted by the composite's own position in its parent.
func flattenStruct(engine *layout.Engine, typesIn *types.Interner, id types.TypeID, baseOffset int) ([]FlatField, bool) {
	info, ok := typesIn.StructInfo(id)
	if !ok || info == nil {
		return nil, false
	}
	l, err := engine.LayoutOf(id)
	if err != nil {
		return nil, false
	}

	out := make([]FlatField, 0, len(info.Fields))
	for i, f := range info.Fields {
		if i >= len(l.Fields) {
			break
		}
		pos := l.Fields[i]

		// Zero-width padding bitfields are not addressable members.
		if f.IsBitfield() && f.Bits == 0 && f.Name == names.NoStringID {
			continue
		}

		if f.Anonymous {
			target, aliasErr := typesIn.ResolveAliasChain(f.Type)
			if aliasErr == nil {
				if tt, ok := typesIn.Lookup(target); ok && tt.Kind == types.KindStruct {
					nested, ok := flattenStruct(engine, typesIn, target, baseOffset+pos.ByteOffset)
					if !ok {
						return nil, false
					}
					out = append(out, nested...)
					continue
				}
			}
		}

		out = append(out, FlatField{
			Name:       f.Name,
			Type:       f.Type,
			ByteOffset: baseOffset + pos.ByteOffset,
			BitOffset:  pos.BitOffset,
			BitWidth:   pos.BitWidth,
		})
	}
	return out, true
}
