package types

import (
	"fmt"

	"fortio.org/safecast"

	"cshape/internal/names"
)

// AliasInfo stores metadata for a typedef node.
type AliasInfo struct {
	Name   names.StringID
	Target TypeID
}

// RegisterAlias allocates a typedef node, deduplicated by qualified name.
func (in *Interner) RegisterAlias(name names.StringID) TypeID {
	if id, ok := in.byName[name]; ok && name != names.NoStringID {
		return id
	}
	in.aliases = append(in.aliases, AliasInfo{Name: name})
	slot, err := safecast.Conv[uint32](len(in.aliases) - 1)
	if err != nil {
		panic(fmt.Errorf("alias info overflow: %w", err))
	}
	id := in.appendType(Type{Kind: KindAlias, Payload: slot})
	in.bindName(name, id)
	return id
}

// SetAliasTarget sets the aliased target type.
func (in *Interner) SetAliasTarget(typeID, target TypeID) {
	info := in.aliasInfo(typeID)
	if info == nil {
		return
	}
	info.Target = target
}

// AliasTarget retrieves the aliased target type.
func (in *Interner) AliasTarget(typeID TypeID) (TypeID, bool) {
	info := in.aliasInfo(typeID)
	if info == nil || info.Target == NoTypeID {
		return NoTypeID, false
	}
	return info.Target, true
}

// AliasInfo returns metadata for the provided alias TypeID.
func (in *Interner) AliasInfo(typeID TypeID) (*AliasInfo, bool) {
	info := in.aliasInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

func (in *Interner) aliasInfo(typeID TypeID) *AliasInfo {
	if typeID == NoTypeID {
		return nil
	}
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindAlias {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.aliases) {
		return nil
	}
	return &in.aliases[tt.Payload]
}
