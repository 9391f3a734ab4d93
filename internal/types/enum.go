package types

import (
	"fmt"

	"fortio.org/safecast"

	"cshape/internal/names"
)

// EnumVariant stores one enumerator.
type EnumVariant struct {
	Name  names.StringID
	Value int64
}

// EnumInfo stores metadata for an enum type.
//
// Underlying is the explicitly declared base type (`enum E : uint8_t`),
// or NoTypeID when the source left it implicit; the layout engine then
// infers the smallest integer type that holds every variant value.
type EnumInfo struct {
	Name       names.StringID
	Underlying TypeID
	Variants   []EnumVariant
}

// RegisterEnum allocates an enum node, deduplicated by qualified name.
func (in *Interner) RegisterEnum(name names.StringID) TypeID {
	if id, ok := in.byName[name]; ok && name != names.NoStringID {
		return id
	}
	in.enums = append(in.enums, EnumInfo{Name: name})
	slot, err := safecast.Conv[uint32](len(in.enums) - 1)
	if err != nil {
		panic(fmt.Errorf("enum info overflow: %w", err))
	}
	id := in.appendType(Type{Kind: KindEnum, Payload: slot})
	in.bindName(name, id)
	return id
}

// SetEnumUnderlying stores the declared base type for the enum.
func (in *Interner) SetEnumUnderlying(typeID, underlying TypeID) {
	info := in.enumInfo(typeID)
	if info == nil {
		return
	}
	info.Underlying = underlying
}

// SetEnumVariants stores the enumerators, in declaration order.
func (in *Interner) SetEnumVariants(typeID TypeID, variants []EnumVariant) {
	info := in.enumInfo(typeID)
	if info == nil {
		return
	}
	if len(variants) == 0 {
		info.Variants = nil
		return
	}
	cloned := make([]EnumVariant, len(variants))
	copy(cloned, variants)
	info.Variants = cloned
}

// EnumInfo returns metadata for the provided enum TypeID.
func (in *Interner) EnumInfo(typeID TypeID) (*EnumInfo, bool) {
	info := in.enumInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

func (in *Interner) enumInfo(typeID TypeID) *EnumInfo {
	if typeID == NoTypeID {
		return nil
	}
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindEnum {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.enums) {
		return nil
	}
	return &in.enums[tt.Payload]
}
