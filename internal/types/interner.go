package types

import (
	"fmt"

	"fortio.org/safecast"

	"cshape/internal/names"
)

// Builtins stores TypeIDs for the primitive types every graph starts with.
type Builtins struct {
	Void    TypeID
	Bool    TypeID
	Char    TypeID
	Int8    TypeID
	Int16   TypeID
	Int32   TypeID
	Int64   TypeID
	Uint8   TypeID
	Uint16  TypeID
	Uint32  TypeID
	Uint64  TypeID
	Float32 TypeID
	Float64 TypeID
}

// Interner owns every type node of one declaration graph and hands out
// stable TypeIDs. Structural types (pointers, arrays) are deduplicated by
// descriptor; named types are deduplicated by qualified name; anonymous
// composites get one node per declaration site and are never unified.
//
// Nodes are immutable once their metadata is filled in: layout results live
// in a separate per-run table, never on the node.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID // structural kinds only
	byName   map[names.StringID]TypeID
	declared []TypeID // named types in declaration order

	strings  *names.Interner
	builtins Builtins

	prims   []PrimInfo
	structs []StructInfo
	enums   []EnumInfo
	aliases []AliasInfo
	funcs   []FuncInfo
}

// NewInterner constructs an interner seeded with the built-in primitives.
func NewInterner(strings *names.Interner) *Interner {
	if strings == nil {
		strings = names.NewInterner()
	}
	in := &Interner{
		index:   make(map[typeKey]TypeID, 64),
		byName:  make(map[names.StringID]TypeID, 64),
		strings: strings,
	}
	// Reserve slot 0 of every table as the invalid sentinel.
	in.types = append(in.types, Type{Kind: KindInvalid})
	in.prims = append(in.prims, PrimInfo{})
	in.structs = append(in.structs, StructInfo{})
	in.enums = append(in.enums, EnumInfo{})
	in.aliases = append(in.aliases, AliasInfo{})
	in.funcs = append(in.funcs, FuncInfo{})

	b := &in.builtins
	b.Void = in.registerPrim("void", 0, 0, PrimVoid)
	b.Bool = in.registerPrim("bool", 1, 1, PrimBool)
	b.Char = in.registerPrim("char", 1, 1, PrimSigned)
	b.Int8 = in.registerPrim("int8", 1, 1, PrimSigned)
	b.Int16 = in.registerPrim("int16", 2, 2, PrimSigned)
	b.Int32 = in.registerPrim("int32", 4, 4, PrimSigned)
	b.Int64 = in.registerPrim("int64", 8, 8, PrimSigned)
	b.Uint8 = in.registerPrim("uint8", 1, 1, PrimUnsigned)
	b.Uint16 = in.registerPrim("uint16", 2, 2, PrimUnsigned)
	b.Uint32 = in.registerPrim("uint32", 4, 4, PrimUnsigned)
	b.Uint64 = in.registerPrim("uint64", 8, 8, PrimUnsigned)
	b.Float32 = in.registerPrim("float32", 4, 4, PrimFloat)
	b.Float64 = in.registerPrim("float64", 8, 8, PrimFloat)
	return in
}

// Builtins returns TypeIDs for the primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Strings returns the identifier interner shared by this graph.
func (in *Interner) Strings() *names.Interner {
	return in.strings
}

// Intern ensures the structural descriptor has a stable TypeID.
// Only pointer and array descriptors may be interned this way; nominal
// kinds go through their Register functions.
func (in *Interner) Intern(t Type) TypeID {
	switch t.Kind {
	case KindPointer, KindArray:
	default:
		return NoTypeID
	}
	key := typeKey{Kind: t.Kind, Elem: t.Elem, Count: t.Count}
	if id, ok := in.index[key]; ok {
		return id
	}
	id := in.appendType(t)
	in.index[key] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// LookupName returns the node registered under the qualified name.
func (in *Interner) LookupName(name names.StringID) (TypeID, bool) {
	id, ok := in.byName[name]
	return id, ok
}

// LookupQualified is LookupName over a raw string.
func (in *Interner) LookupQualified(qualified string) (TypeID, bool) {
	id, ok := in.byName[in.strings.Intern(qualified)]
	return id, ok
}

// Declared returns the named nodes in declaration order.
func (in *Interner) Declared() []TypeID {
	out := make([]TypeID, len(in.declared))
	copy(out, in.declared)
	return out
}

// Len returns the node count, the invalid sentinel included.
func (in *Interner) Len() int {
	return len(in.types)
}

// NameOf returns the qualified name of a nominal node, or "" for
// structural and invalid nodes.
func (in *Interner) NameOf(id TypeID) string {
	nameID := in.nameID(id)
	if nameID == names.NoStringID {
		return ""
	}
	s, _ := in.strings.Lookup(nameID)
	return s
}

func (in *Interner) nameID(id TypeID) names.StringID {
	tt, ok := in.Lookup(id)
	if !ok {
		return names.NoStringID
	}
	switch tt.Kind {
	case KindPrimitive:
		if info := in.primInfo(id); info != nil {
			return info.Name
		}
	case KindStruct:
		if info := in.structInfo(id); info != nil {
			return info.Name
		}
	case KindEnum:
		if info := in.enumInfo(id); info != nil {
			return info.Name
		}
	case KindAlias:
		if info := in.aliasInfo(id); info != nil {
			return info.Name
		}
	}
	return names.NoStringID
}

func (in *Interner) appendType(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	return id
}

func (in *Interner) bindName(name names.StringID, id TypeID) {
	if name == names.NoStringID {
		return
	}
	if _, taken := in.byName[name]; taken {
		return
	}
	in.byName[name] = id
	in.declared = append(in.declared, id)
}

type typeKey struct {
	Kind  Kind
	Elem  TypeID
	Count uint32
}
