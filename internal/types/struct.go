package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"cshape/internal/names"
)

// NotBitfield is the Bits value of an ordinary (non-bitfield) field.
const NotBitfield int32 = -1

// Field describes a single member of a struct or union.
//
// A Field with Bits >= 0 is a bitfield; Bits == 0 with no name is the
// zero-width padding bitfield that closes the open storage unit. An
// Anonymous field with a composite type has its members promoted by the
// flatten pass; a named composite member stays intact.
type Field struct {
	Name      names.StringID // NoStringID for unnamed members
	Type      TypeID
	Bits      int32
	Anonymous bool
}

// IsBitfield reports whether the field carries an explicit bit width.
func (f Field) IsBitfield() bool {
	return f.Bits >= 0
}

// StructInfo stores metadata for a struct or union type.
//
// Pack is the pack-alignment bound active at the declaration site
// (0 = natural alignment). It is recorded here at graph construction so
// layout never consults any global pragma state: the bound is lexically
// scoped to the declaration region and deliberately not inherited by
// independently-declared types referenced from the fields.
type StructInfo struct {
	Name    names.StringID
	Fields  []Field
	IsUnion bool
	Pack    int
}

// RegisterStruct allocates a struct/union node. Named composites are
// deduplicated by qualified name: registering an existing name returns the
// existing node. Anonymous declaration sites must pass site-unique names.
func (in *Interner) RegisterStruct(name names.StringID, isUnion bool) TypeID {
	if id, ok := in.byName[name]; ok && name != names.NoStringID {
		return id
	}
	in.structs = append(in.structs, StructInfo{Name: name, IsUnion: isUnion})
	slot, err := safecast.Conv[uint32](len(in.structs) - 1)
	if err != nil {
		panic(fmt.Errorf("struct info overflow: %w", err))
	}
	id := in.appendType(Type{Kind: KindStruct, Payload: slot})
	in.bindName(name, id)
	return id
}

// SetStructFields stores the field descriptors, in declaration order.
func (in *Interner) SetStructFields(typeID TypeID, fields []Field) {
	info := in.structInfo(typeID)
	if info == nil {
		return
	}
	info.Fields = cloneFields(fields)
}

// SetStructPack records the pack bound active at the declaration site.
func (in *Interner) SetStructPack(typeID TypeID, pack int) {
	info := in.structInfo(typeID)
	if info == nil {
		return
	}
	info.Pack = pack
}

// StructInfo returns metadata for the provided struct TypeID.
func (in *Interner) StructInfo(typeID TypeID) (*StructInfo, bool) {
	info := in.structInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

// StructFields returns a copy of the field slice for the TypeID.
func (in *Interner) StructFields(typeID TypeID) []Field {
	info := in.structInfo(typeID)
	if info == nil || len(info.Fields) == 0 {
		return nil
	}
	return cloneFields(info.Fields)
}

func (in *Interner) structInfo(typeID TypeID) *StructInfo {
	if typeID == NoTypeID {
		return nil
	}
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindStruct {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.structs) {
		return nil
	}
	return &in.structs[tt.Payload]
}

func cloneFields(fields []Field) []Field {
	if len(fields) == 0 {
		return nil
	}
	return slices.Clone(fields)
}
